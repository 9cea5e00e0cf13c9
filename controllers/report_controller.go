// controllers/report_controller.go
package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/motoventas/crm_backend/config"
	"github.com/motoventas/crm_backend/middleware"
	"github.com/motoventas/crm_backend/models"
	"github.com/motoventas/crm_backend/services"
	"github.com/motoventas/crm_backend/utils"
)

const reportCacheTTL = 2 * time.Minute

type ReportController struct {
	DB    *mongo.Database
	sales *services.SaleService
}

func NewReportController(db *mongo.Database, sales *services.SaleService) *ReportController {
	return &ReportController{DB: db, sales: sales}
}

// SalespersonReport is one row of the sprint dashboard.
type SalespersonReport struct {
	UserID      primitive.ObjectID     `json:"userId"`
	FullName    string                 `json:"fullName"`
	SalesGoal   models.Money           `json:"salesGoal"`
	CreditsGoal int                    `json:"creditsGoal"`
	Figures     services.SprintFigures `json:"figures"`
}

// BranchReport aggregates the whole team for one sprint.
type BranchReport struct {
	Sprint      string                 `json:"sprint"`
	Salespeople []SalespersonReport    `json:"salespeople"`
	Totals      services.SprintFigures `json:"totals"`
	GeneratedAt time.Time              `json:"generatedAt"`
}

// SprintDashboard builds the per-salesperson commission dashboard for a
// sprint. Results are cached in Redis for a short TTL since the dashboard
// is polled by every open client.
func (rc *ReportController) SprintDashboard(c echo.Context) error {
	sprint := c.QueryParam("sprint")
	if sprint == "" {
		sprint = utils.SprintOf(time.Now())
	}
	if !utils.ValidSprint(sprint) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid sprint, expected YYYY-MM",
		})
	}

	cacheKey := fmt.Sprintf("report:sprint:%s", sprint)
	if cached := rc.cachedReport(c.Request().Context(), cacheKey); cached != nil {
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "Sprint report retrieved successfully",
			Data:    cached,
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	report, err := rc.buildBranchReport(ctx, sprint)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to build sprint report",
			Data:    err.Error(),
		})
	}

	rc.cacheReport(ctx, cacheKey, report)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Sprint report retrieved successfully",
		Data:    report,
	})
}

// MyFigures returns the authenticated salesperson's own sprint numbers.
func (rc *ReportController) MyFigures(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Not authenticated",
		})
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid user ID in token",
		})
	}

	sprint := c.QueryParam("sprint")
	if sprint == "" {
		sprint = utils.SprintOf(time.Now())
	}
	if !utils.ValidSprint(sprint) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid sprint, expected YYYY-MM",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := rc.DB.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	sales, err := rc.sales.SalesBySprint(ctx, sprint, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch sales",
		})
	}

	figures := services.ComputeSprintFigures(sales, user.SalesGoal.Decimal, user.Role)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Sprint figures retrieved successfully",
		Data: SalespersonReport{
			UserID:      user.ID,
			FullName:    user.FullName,
			SalesGoal:   user.SalesGoal,
			CreditsGoal: user.CreditsGoal,
			Figures:     figures,
		},
	})
}

func (rc *ReportController) buildBranchReport(ctx context.Context, sprint string) (*BranchReport, error) {
	cursor, err := rc.DB.Collection("users").Find(ctx, bson.M{
		"role":     models.RoleSalesperson,
		"isActive": true,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var salespeople []models.User
	if err := cursor.All(ctx, &salespeople); err != nil {
		return nil, err
	}

	allSales, err := rc.sales.SalesBySprint(ctx, sprint, primitive.NilObjectID)
	if err != nil {
		return nil, err
	}

	bySalesperson := make(map[primitive.ObjectID][]models.Sale, len(salespeople))
	for _, sale := range allSales {
		bySalesperson[sale.SalespersonID] = append(bySalesperson[sale.SalespersonID], sale)
	}

	report := &BranchReport{
		Sprint:      sprint,
		Salespeople: make([]SalespersonReport, 0, len(salespeople)),
		GeneratedAt: time.Now(),
	}

	branchGoal := models.Money{}
	for _, sp := range salespeople {
		figures := services.ComputeSprintFigures(bySalesperson[sp.ID], sp.SalesGoal.Decimal, sp.Role)
		report.Salespeople = append(report.Salespeople, SalespersonReport{
			UserID:      sp.ID,
			FullName:    sp.FullName,
			SalesGoal:   sp.SalesGoal,
			CreditsGoal: sp.CreditsGoal,
			Figures:     figures,
		})
		branchGoal = models.Money{Decimal: branchGoal.Add(sp.SalesGoal.Decimal)}
	}

	// Branch totals use the manager commission rate against the summed goal.
	report.Totals = services.ComputeSprintFigures(allSales, branchGoal.Decimal, models.RoleManager)
	return report, nil
}

func (rc *ReportController) cachedReport(ctx context.Context, key string) *BranchReport {
	client := config.GetRedisClient()
	if client == nil {
		return nil
	}
	raw, err := client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			// Cache misses are normal; anything else is worth knowing about.
			config.GetLogger().WithError(err).Warn("report cache read failed")
		}
		return nil
	}
	var report BranchReport
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return nil
	}
	return &report
}

func (rc *ReportController) cacheReport(ctx context.Context, key string, report *BranchReport) {
	client := config.GetRedisClient()
	if client == nil {
		return
	}
	raw, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := client.Set(ctx, key, raw, reportCacheTTL).Err(); err != nil {
		config.GetLogger().WithError(err).Warn("report cache write failed")
	}
}

// InvalidateSprintCache drops the cached dashboards for the given sprints.
// Called after any write that changes a sprint's figures: sale create, edit
// and delete, goal distribution, and VAT normalization.
func InvalidateSprintCache(ctx context.Context, sprints ...string) {
	client := config.GetRedisClient()
	if client == nil {
		return
	}
	if keys := sprintCacheKeys(sprints...); len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// sprintCacheKeys maps sprint keys to their cache keys, dropping empties
// and duplicates (an edit that kept its sprint touches one key, not two).
func sprintCacheKeys(sprints ...string) []string {
	seen := make(map[string]struct{}, len(sprints))
	keys := make([]string, 0, len(sprints))
	for _, sprint := range sprints {
		if sprint == "" {
			continue
		}
		if _, ok := seen[sprint]; ok {
			continue
		}
		seen[sprint] = struct{}{}
		keys = append(keys, fmt.Sprintf("report:sprint:%s", sprint))
	}
	return keys
}
