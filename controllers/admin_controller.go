// controllers/admin_controller.go
package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/motoventas/crm_backend/models"
	"github.com/motoventas/crm_backend/services"
	"github.com/motoventas/crm_backend/utils"
	"github.com/motoventas/crm_backend/websocket"
)

// AdminController hosts the manager-only sprint operations: goal
// distribution, sprint reset and VAT normalization.
type AdminController struct {
	DB       *mongo.Database
	goals    *services.GoalService
	vat      *services.VATService
	telegram *services.TelegramService
	hub      *websocket.Hub
}

func NewAdminController(db *mongo.Database, goals *services.GoalService, vat *services.VATService, telegram *services.TelegramService, hub *websocket.Hub) *AdminController {
	return &AdminController{DB: db, goals: goals, vat: vat, telegram: telegram, hub: hub}
}

// DistributeGoals splits the branch totals evenly across the active sales
// team in one all-or-nothing batch.
func (ac *AdminController) DistributeGoals(c echo.Context) error {
	var req models.GoalDistributionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed",
			Data:    err.Error(),
		})
	}

	totalSales, err := decimal.NewFromString(req.TotalSalesGoal)
	if err != nil || totalSales.IsNegative() {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Total sales goal must be a non-negative number",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	updates, err := ac.goals.Distribute(ctx, totalSales, req.TotalCreditsGoal)
	if err != nil {
		if errors.Is(err, models.ErrNoSalespeople) {
			return c.JSON(http.StatusUnprocessableEntity, models.Response{
				Status:  http.StatusUnprocessableEntity,
				Message: "No active salespeople to distribute goals to",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Goal distribution failed",
			Data:    err.Error(),
		})
	}

	sprint := utils.SprintOf(time.Now())
	InvalidateSprintCache(ctx, sprint)
	ac.hub.BroadcastGoals(updates)
	if len(updates) > 0 {
		ac.telegram.NotifyGoals(updates[0].SalesGoal.String(), updates[0].CreditsGoal, len(updates))
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Goals distributed successfully",
		Data:    updates,
	})
}

// ResetSprint zeroes the whole team's goals when closing out a sprint.
func (ac *AdminController) ResetSprint(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	if err := ac.goals.ResetSprint(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Sprint reset failed",
			Data:    err.Error(),
		})
	}

	InvalidateSprintCache(ctx, utils.SprintOf(time.Now()))
	ac.hub.BroadcastGoals(nil)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Sprint goals reset",
	})
}

// VATCandidates lists sales whose amounts look VAT-inclusive, with the
// corrected figure shown next to each so the manager can review before
// committing.
func (ac *AdminController) VATCandidates(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	candidates, err := ac.vat.Candidates(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to scan for VAT candidates",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "VAT candidates retrieved successfully",
		Data:    candidates,
	})
}

// VATNormalize commits the confirmed corrections in one batch.
func (ac *AdminController) VATNormalize(c echo.Context) error {
	var req struct {
		SaleIDs []string `json:"saleIds" validate:"required,min=1"`
	}
	if err := c.Bind(&req); err != nil || len(req.SaleIDs) == 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "At least one sale ID is required",
		})
	}

	ids := make([]primitive.ObjectID, 0, len(req.SaleIDs))
	for _, raw := range req.SaleIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid sale ID: " + raw,
			})
		}
		ids = append(ids, id)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	// Normalization can rewrite sales from any sprint, so collect the
	// affected sprints up front rather than assuming the current one.
	sprints, distinctErr := ac.DB.Collection("sales").Distinct(ctx, "sprint", bson.M{"_id": bson.M{"$in": ids}})

	corrected, err := ac.vat.Normalize(ctx, ids)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "One of the sales no longer exists",
			})
		}
		var batchErr *models.BatchWriteError
		if errors.As(err, &batchErr) {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "Normalization batch aborted, no amounts were changed",
				Data:    batchErr.Error(),
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "VAT normalization failed",
			Data:    err.Error(),
		})
	}

	affected := make([]string, 0, len(sprints))
	if distinctErr == nil {
		for _, s := range sprints {
			if sprint, ok := s.(string); ok {
				affected = append(affected, sprint)
			}
		}
	}
	if len(affected) == 0 {
		affected = append(affected, utils.SprintOf(time.Now()))
	}
	InvalidateSprintCache(ctx, affected...)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "VAT normalization committed",
		Data:    map[string]int{"corrected": corrected},
	})
}
