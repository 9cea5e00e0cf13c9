// models/inventory.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InventoryItem holds the per-model stock count and the identifiers of the
// unsold physical units. Invariant after every committed mutation:
// len(SKUs) == Stock.
type InventoryItem struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Model         string             `json:"model" bson:"model"`
	Stock         int                `json:"stock" bson:"stock"`
	SKUs          []string           `json:"skus" bson:"skus"`
	ImagePath     string             `json:"imagePath,omitempty" bson:"imagePath,omitempty"`
	ThumbnailPath string             `json:"thumbnailPath,omitempty" bson:"thumbnailPath,omitempty"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// HasSKU reports whether the unit is still unsold.
func (i *InventoryItem) HasSKU(sku string) bool {
	for _, s := range i.SKUs {
		if s == sku {
			return true
		}
	}
	return false
}

// AddInventoryRequest creates a model entry with its initial units.
type AddInventoryRequest struct {
	Model string   `json:"model" validate:"required"`
	SKUs  []string `json:"skus" validate:"required,min=1,unique"`
}

// UpdateInventoryRequest replaces a model's unit set. Stock is derived from
// the SKU list, never sent separately.
type UpdateInventoryRequest struct {
	Model string   `json:"model"`
	SKUs  []string `json:"skus" validate:"required,unique"`
}

// ExtractedUnit is one row returned by the AI document-extraction service
// during bulk inventory upload.
type ExtractedUnit struct {
	Model string `json:"model"`
	SKU   string `json:"sku"`
	Stock int    `json:"stock"`
}
