// controllers/inventory_controller.go
package controllers

import (
	"bytes"
	"context"
	"image/png"
	"io"
	"net/http"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/motoventas/crm_backend/models"
	"github.com/motoventas/crm_backend/services"
	"github.com/motoventas/crm_backend/utils"
	"github.com/motoventas/crm_backend/websocket"
)

type InventoryController struct {
	DB         *mongo.Database
	store      services.Store
	extraction *services.ExtractionService
	hub        *websocket.Hub
}

func NewInventoryController(db *mongo.Database, store services.Store, extraction *services.ExtractionService, hub *websocket.Hub) *InventoryController {
	return &InventoryController{DB: db, store: store, extraction: extraction, hub: hub}
}

// AddItem registers a motorcycle model with its initial serial numbers.
// Stock is always derived from the SKU list.
func (ic *InventoryController) AddItem(c echo.Context) error {
	var req models.AddInventoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Model and at least one unique SKU are required",
			Data:    err.Error(),
		})
	}

	now := time.Now()
	item := models.InventoryItem{
		ID:        primitive.NewObjectID(),
		Model:     utils.SanitizeInput(req.Model),
		Stock:     len(req.SKUs),
		SKUs:      req.SKUs,
		CreatedAt: now,
		UpdatedAt: now,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if _, err := ic.DB.Collection("inventory").InsertOne(ctx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "A model with this name already exists",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create inventory item",
		})
	}

	ic.hub.BroadcastInventory(item)

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Inventory item created",
		Data:    item,
	})
}

// ListItems returns the full catalog, in-stock models first.
func (ic *InventoryController) ListItems(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if c.QueryParam("inStock") == "true" {
		filter["stock"] = bson.M{"$gt": 0}
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "stock", Value: -1},
		{Key: "model", Value: 1},
	})
	cursor, err := ic.DB.Collection("inventory").Find(ctx, filter, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch inventory",
		})
	}
	defer cursor.Close(ctx)

	items := []models.InventoryItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode inventory",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Inventory retrieved successfully",
		Data:    items,
	})
}

// GetItem returns one model with its SKU list.
func (ic *InventoryController) GetItem(c echo.Context) error {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid inventory ID",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var item models.InventoryItem
	if err := ic.DB.Collection("inventory").FindOne(ctx, bson.M{"_id": objID}).Decode(&item); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Inventory item not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Inventory item retrieved successfully",
		Data:    item,
	})
}

// UpdateItem replaces a model's SKU set, recomputing stock from it.
func (ic *InventoryController) UpdateItem(c echo.Context) error {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid inventory ID",
		})
	}

	var req models.UpdateInventoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "SKUs must be unique",
			Data:    err.Error(),
		})
	}

	update := bson.M{
		"skus":      req.SKUs,
		"stock":     len(req.SKUs),
		"updatedAt": time.Now(),
	}
	if req.Model != "" {
		update["model"] = utils.SanitizeInput(req.Model)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var item models.InventoryItem
	err = ic.DB.Collection("inventory").FindOneAndUpdate(ctx,
		bson.M{"_id": objID},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&item)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Inventory item not found",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update inventory item",
		})
	}

	ic.hub.BroadcastInventory(item)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Inventory item updated",
		Data:    item,
	})
}

// DeleteItem removes a model from the catalog. Sales that reference it keep
// their denormalized model name.
func (ic *InventoryController) DeleteItem(c echo.Context) error {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid inventory ID",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var item models.InventoryItem
	err = ic.DB.Collection("inventory").FindOneAndDelete(ctx, bson.M{"_id": objID}).Decode(&item)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Inventory item not found",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete inventory item",
		})
	}

	if item.ImagePath != "" {
		utils.RemoveStoredFile(item.ImagePath)
	}
	if item.ThumbnailPath != "" {
		utils.RemoveStoredFile(item.ThumbnailPath)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Inventory item deleted",
	})
}

// UploadPhoto attaches a catalog photo to a model. A 320px thumbnail is
// generated alongside the full image.
func (ic *InventoryController) UploadPhoto(c echo.Context) error {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid inventory ID",
		})
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Photo file is required",
		})
	}
	if err := utils.ValidateImageFile(fileHeader.Filename, fileHeader.Size); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to read uploaded file",
		})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to read uploaded file",
		})
	}

	imagePath, thumbPath, err := utils.SaveMotorcycleImage(data, fileHeader.Filename)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to store image",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var prev models.InventoryItem
	err = ic.DB.Collection("inventory").FindOneAndUpdate(ctx,
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{
			"imagePath":     imagePath,
			"thumbnailPath": thumbPath,
			"updatedAt":     time.Now(),
		}},
	).Decode(&prev)
	if err == mongo.ErrNoDocuments {
		utils.RemoveStoredFile(imagePath)
		utils.RemoveStoredFile(thumbPath)
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Inventory item not found",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update inventory item",
		})
	}

	if prev.ImagePath != "" && prev.ImagePath != imagePath {
		utils.RemoveStoredFile(prev.ImagePath)
	}
	if prev.ThumbnailPath != "" && prev.ThumbnailPath != thumbPath {
		utils.RemoveStoredFile(prev.ThumbnailPath)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Photo uploaded successfully",
		Data: map[string]string{
			"imagePath":     imagePath,
			"thumbnailPath": thumbPath,
		},
	})
}

// SKUBarcode renders a Code 128 barcode PNG for one unit's serial number,
// for printing hang tags.
func (ic *InventoryController) SKUBarcode(c echo.Context) error {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid inventory ID",
		})
	}
	sku := c.Param("sku")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var item models.InventoryItem
	if err := ic.DB.Collection("inventory").FindOne(ctx, bson.M{"_id": objID}).Decode(&item); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Inventory item not found",
		})
	}
	if !item.HasSKU(sku) {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "SKU not found on this model",
		})
	}

	code, err := code128.Encode(sku)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to encode barcode",
		})
	}
	scaled, err := barcode.Scale(code, 400, 120)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to scale barcode",
		})
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to render barcode",
		})
	}

	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

// BulkUpload accepts a supplier delivery note (PDF) and uses the extraction
// service to pull model/SKU rows out of it, then merges them into inventory.
func (ic *InventoryController) BulkUpload(c echo.Context) error {
	if !ic.extraction.Enabled() {
		return c.JSON(http.StatusServiceUnavailable, models.Response{
			Status:  http.StatusServiceUnavailable,
			Message: "Document extraction is not configured",
		})
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Document file is required",
		})
	}
	if err := utils.ValidatePDFFile(fileHeader.Filename, fileHeader.Size); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to read uploaded file",
		})
	}
	defer src.Close()

	payload, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to read uploaded file",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	units, err := ic.extraction.ExtractInventory(ctx, payload)
	if err != nil {
		return c.JSON(http.StatusBadGateway, models.Response{
			Status:  http.StatusBadGateway,
			Message: "Document extraction failed",
			Data:    err.Error(),
		})
	}
	if len(units) == 0 {
		return c.JSON(http.StatusUnprocessableEntity, models.Response{
			Status:  http.StatusUnprocessableEntity,
			Message: "No inventory rows found in document",
		})
	}

	added, err := ic.store.MergeInventoryUnits(ctx, units)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to merge extracted inventory",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Inventory document processed",
		Data: map[string]interface{}{
			"extracted": len(units),
			"added":     added,
		},
	})
}
