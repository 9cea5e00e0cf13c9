// controllers/prospect_controller.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/motoventas/crm_backend/middleware"
	"github.com/motoventas/crm_backend/models"
	"github.com/motoventas/crm_backend/services"
	"github.com/motoventas/crm_backend/utils"
)

type ProspectController struct {
	DB         *mongo.Database
	extraction *services.ExtractionService
}

func NewProspectController(db *mongo.Database, extraction *services.ExtractionService) *ProspectController {
	return &ProspectController{DB: db, extraction: extraction}
}

// CreateProspect adds a pipeline entry owned by the authenticated salesperson.
func (pc *ProspectController) CreateProspect(c echo.Context) error {
	salespersonID, err := primitive.ObjectIDFromHex(middleware.GetUserIDFromToken(c))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Not authenticated",
		})
	}

	var req models.ProspectRequest
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

	stage := req.Stage
	if stage == "" {
		stage = models.StageNew
	}

	now := time.Now()
	prospect := models.Prospect{
		ID:              primitive.NewObjectID(),
		Name:            utils.SanitizeInput(req.Name),
		Phone:           utils.SanitizeInput(req.Phone),
		ModelOfInterest: utils.SanitizeInput(req.ModelOfInterest),
		Stage:           stage,
		SalespersonID:   salespersonID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if _, err := pc.DB.Collection("prospects").InsertOne(ctx, prospect); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create prospect",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Prospect created successfully",
		Data:    prospect,
	})
}

// ListProspects returns the pipeline. Salespeople see their own prospects,
// managers see all. Optional ?stage= filter.
func (pc *ProspectController) ListProspects(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Not authenticated",
		})
	}

	filter := bson.M{}
	if claims.Role != models.RoleManager {
		oid, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Invalid user ID in token",
			})
		}
		filter["salespersonId"] = oid
	}
	if stage := c.QueryParam("stage"); stage != "" {
		filter["stage"] = stage
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := pc.DB.Collection("prospects").Find(ctx, filter, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch prospects",
		})
	}
	defer cursor.Close(ctx)

	prospects := []models.Prospect{}
	if err := cursor.All(ctx, &prospects); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode prospects",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Prospects retrieved successfully",
		Data:    prospects,
	})
}

// UpdateProspect edits a prospect's details and pipeline stage.
func (pc *ProspectController) UpdateProspect(c echo.Context) error {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid prospect ID",
		})
	}

	var req models.ProspectRequest
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

	update := bson.M{
		"name":            utils.SanitizeInput(req.Name),
		"phone":           utils.SanitizeInput(req.Phone),
		"modelOfInterest": utils.SanitizeInput(req.ModelOfInterest),
		"updatedAt":       time.Now(),
	}
	if req.Stage != "" {
		update["stage"] = req.Stage
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var prospect models.Prospect
	err = pc.DB.Collection("prospects").FindOneAndUpdate(ctx,
		pc.ownershipFilter(c, objID),
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&prospect)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Prospect not found",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update prospect",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Prospect updated successfully",
		Data:    prospect,
	})
}

// AddNote appends a follow-up note to a prospect.
func (pc *ProspectController) AddNote(c echo.Context) error {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid prospect ID",
		})
	}
	authorID, err := primitive.ObjectIDFromHex(middleware.GetUserIDFromToken(c))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Not authenticated",
		})
	}

	var req models.ProspectNoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Note text is required",
		})
	}

	note := models.ProspectNote{
		Text:      utils.SanitizeInput(req.Text),
		AuthorID:  authorID,
		CreatedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	result, err := pc.DB.Collection("prospects").UpdateOne(ctx,
		pc.ownershipFilter(c, objID),
		bson.M{
			"$push": bson.M{"notes": note},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to add note",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Prospect not found",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Note added successfully",
		Data:    note,
	})
}

// DeleteProspect removes a pipeline entry.
func (pc *ProspectController) DeleteProspect(c echo.Context) error {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid prospect ID",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	result, err := pc.DB.Collection("prospects").DeleteOne(ctx, pc.ownershipFilter(c, objID))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete prospect",
		})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Prospect not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Prospect deleted successfully",
	})
}

// SummarizeNotes asks the AI assistant for a short recap of a prospect's
// note history.
func (pc *ProspectController) SummarizeNotes(c echo.Context) error {
	if !pc.extraction.Enabled() {
		return c.JSON(http.StatusServiceUnavailable, models.Response{
			Status:  http.StatusServiceUnavailable,
			Message: "AI assistant is not configured",
		})
	}

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid prospect ID",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	var prospect models.Prospect
	if err := pc.DB.Collection("prospects").FindOne(ctx, pc.ownershipFilter(c, objID)).Decode(&prospect); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Prospect not found",
		})
	}
	if len(prospect.Notes) == 0 {
		return c.JSON(http.StatusUnprocessableEntity, models.Response{
			Status:  http.StatusUnprocessableEntity,
			Message: "Prospect has no notes to summarize",
		})
	}

	summary, err := pc.extraction.SummarizeNotes(ctx, prospect.Notes)
	if err != nil {
		return c.JSON(http.StatusBadGateway, models.Response{
			Status:  http.StatusBadGateway,
			Message: "Summarization failed",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Summary generated",
		Data:    map[string]string{"summary": summary},
	})
}

// DraftMessage asks the AI assistant for a follow-up message the salesperson
// can send to this prospect.
func (pc *ProspectController) DraftMessage(c echo.Context) error {
	if !pc.extraction.Enabled() {
		return c.JSON(http.StatusServiceUnavailable, models.Response{
			Status:  http.StatusServiceUnavailable,
			Message: "AI assistant is not configured",
		})
	}

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid prospect ID",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	var prospect models.Prospect
	if err := pc.DB.Collection("prospects").FindOne(ctx, pc.ownershipFilter(c, objID)).Decode(&prospect); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Prospect not found",
		})
	}

	draft, err := pc.extraction.DraftMessage(ctx, &prospect)
	if err != nil {
		return c.JSON(http.StatusBadGateway, models.Response{
			Status:  http.StatusBadGateway,
			Message: "Draft generation failed",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Draft generated",
		Data:    map[string]string{"draft": draft},
	})
}

// ownershipFilter scopes queries to the caller's prospects unless the
// caller is a manager.
func (pc *ProspectController) ownershipFilter(c echo.Context, id primitive.ObjectID) bson.M {
	filter := bson.M{"_id": id}
	if middleware.ExtractRole(c) != models.RoleManager {
		if oid, err := primitive.ObjectIDFromHex(middleware.GetUserIDFromToken(c)); err == nil {
			filter["salespersonId"] = oid
		}
	}
	return filter
}
