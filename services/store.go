// services/store.go
package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/motoventas/crm_backend/models"
)

// Store is the narrow persistence surface the services run against: plain
// reads, one conditional read-modify-write for selling a unit, and
// all-or-nothing batch writes. The MongoDB implementation lives in
// repositories; tests use an in-memory fake.
type Store interface {
	// InventoryItem reads one model's ledger entry.
	InventoryItem(ctx context.Context, id primitive.ObjectID) (*models.InventoryItem, error)

	// InsertSale records a sale without touching inventory (special orders).
	InsertSale(ctx context.Context, sale *models.Sale) error

	// SellUnit atomically removes sale.SoldSKU from the item's unit set,
	// decrements its stock and inserts the sale. When the sku is no longer
	// present (already sold, invalid, or lost race) nothing is written and
	// models.ErrSKUNotFound is returned.
	SellUnit(ctx context.Context, sale *models.Sale) error

	// DeleteSale removes a sale; when the sale consumed a unit the sku is
	// returned to inventory in the same transaction.
	DeleteSale(ctx context.Context, id primitive.ObjectID) error

	// ReplaceSaleUnit rewrites a sale that moved to a different unit: the
	// previous sku goes back to its item, the new sku is consumed, and the
	// sale document is replaced, all atomically. prevSKU may be empty when
	// the original sale was a special order.
	ReplaceSaleUnit(ctx context.Context, sale *models.Sale, prevItemID primitive.ObjectID, prevSKU string) error

	Sale(ctx context.Context, id primitive.ObjectID) (*models.Sale, error)
	SalesBySprint(ctx context.Context, sprint string) ([]models.Sale, error)
	AllSales(ctx context.Context) ([]models.Sale, error)

	// MergeInventoryUnits folds extracted model/sku rows into inventory in
	// one transaction, creating models that do not exist yet. Stock moves
	// together with the sku set in every write, and a sku already on its
	// model's shelf adds nothing, so re-merging the same document is a
	// no-op. Returns how many units were actually added.
	MergeInventoryUnits(ctx context.Context, units []models.ExtractedUnit) (int, error)

	// ListSalespeople returns active users with the salesperson role.
	ListSalespeople(ctx context.Context) ([]models.User, error)

	// UpdateGoals writes every goal pair in one batch; a failure aborts the
	// whole batch with no partial writes.
	UpdateGoals(ctx context.Context, updates []models.GoalUpdate) error

	// UpdateSaleAmounts rewrites sale amounts in one batch; all or nothing.
	UpdateSaleAmounts(ctx context.Context, updates []models.SaleAmountUpdate) error
}
