// controllers/sale_controller.go
package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/motoventas/crm_backend/middleware"
	"github.com/motoventas/crm_backend/models"
	"github.com/motoventas/crm_backend/services"
	"github.com/motoventas/crm_backend/utils"
	"github.com/motoventas/crm_backend/websocket"
)

type SaleController struct {
	DB       *mongo.Database
	sales    *services.SaleService
	telegram *services.TelegramService
	hub      *websocket.Hub
}

func NewSaleController(db *mongo.Database, sales *services.SaleService, telegram *services.TelegramService, hub *websocket.Hub) *SaleController {
	return &SaleController{DB: db, sales: sales, telegram: telegram, hub: hub}
}

// CreateSale records a sale for the authenticated salesperson. On success
// the team is notified over Telegram, push and the live dashboard; none of
// those channels can fail the sale itself.
func (sc *SaleController) CreateSale(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Not authenticated",
		})
	}
	salespersonID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid user ID in token",
		})
	}

	var req models.SaleRequest
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

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	sale, err := sc.sales.RecordSale(ctx, salespersonID, &req)
	if err != nil {
		return sc.saleErrorResponse(c, err)
	}

	InvalidateSprintCache(ctx, sale.Sprint)
	go sc.fanOutSale(sale, salespersonID)

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Sale recorded successfully",
		Data:    sale,
	})
}

// ListSales returns a sprint's sales. Salespeople see their own sales,
// managers see everyone's and may filter by salesperson.
func (sc *SaleController) ListSales(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Not authenticated",
		})
	}

	sprint := c.QueryParam("sprint")
	if sprint == "" {
		sprint = utils.SprintOf(time.Now())
	}

	var salespersonID primitive.ObjectID
	var err error
	if claims.Role == models.RoleManager {
		if filter := c.QueryParam("salespersonId"); filter != "" {
			salespersonID, err = primitive.ObjectIDFromHex(filter)
			if err != nil {
				return c.JSON(http.StatusBadRequest, models.Response{
					Status:  http.StatusBadRequest,
					Message: "Invalid salesperson ID filter",
				})
			}
		}
	} else {
		salespersonID, err = primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Invalid user ID in token",
			})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	sales, err := sc.sales.SalesBySprint(ctx, sprint, salespersonID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Failed to fetch sales",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Sales retrieved successfully",
		Data:    sales,
	})
}

// UpdateSale rewrites a sale, reconciling inventory when the unit changed.
// Manager only.
func (sc *SaleController) UpdateSale(c echo.Context) error {
	saleID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid sale ID",
		})
	}

	var req models.SaleRequest
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

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	// An edit can move the sale to another sprint; both dashboards go stale.
	var prev models.Sale
	_ = sc.DB.Collection("sales").FindOne(ctx, bson.M{"_id": saleID}).Decode(&prev)

	sale, err := sc.sales.EditSale(ctx, saleID, &req)
	if err != nil {
		return sc.saleErrorResponse(c, err)
	}

	InvalidateSprintCache(ctx, prev.Sprint, sale.Sprint)
	sc.hub.BroadcastSale(sale)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Sale updated successfully",
		Data:    sale,
	})
}

// DeleteSale removes a sale and restocks its unit. Manager only.
func (sc *SaleController) DeleteSale(c echo.Context) error {
	saleID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid sale ID",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	var prev models.Sale
	if err := sc.DB.Collection("sales").FindOne(ctx, bson.M{"_id": saleID}).Decode(&prev); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Sale not found",
		})
	}

	if err := sc.sales.DeleteSale(ctx, saleID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Sale not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete sale",
		})
	}

	InvalidateSprintCache(ctx, prev.Sprint)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Sale deleted successfully",
	})
}

// fanOutSale runs the post-commit notification channels. Every channel is
// best effort; failures are logged by the channel itself.
func (sc *SaleController) fanOutSale(sale *models.Sale, salespersonID primitive.ObjectID) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	salespersonName := "Unknown"
	var salesperson models.User
	if err := sc.DB.Collection("users").FindOne(ctx, bson.M{"_id": salespersonID}).Decode(&salesperson); err == nil {
		salespersonName = salesperson.FullName
	}

	sc.telegram.NotifySale(sale, salespersonName)
	utils.NotifyManagersOfSale(sc.DB, sale, salespersonName)
	sc.hub.BroadcastSale(sale)
}

func (sc *SaleController) saleErrorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, models.ErrOutOfStock):
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Model is out of stock",
		})
	case errors.Is(err, models.ErrSKUNotFound):
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "This unit is no longer available",
		})
	case errors.Is(err, mongo.ErrNoDocuments):
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Record not found",
		})
	default:
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Failed to record sale",
			Data:    err.Error(),
		})
	}
}
