// services/fake_store_test.go
package services

import (
	"context"
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/motoventas/crm_backend/models"
)

// fakeStore is an in-memory Store with the same atomicity contract as the
// MongoDB implementation: SellUnit is serialized by a mutex, and the batch
// writes either apply fully or not at all.
type fakeStore struct {
	mu          sync.Mutex
	inventory   map[primitive.ObjectID]*models.InventoryItem
	sales       map[primitive.ObjectID]*models.Sale
	salespeople []models.User

	failBatch bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		inventory: make(map[primitive.ObjectID]*models.InventoryItem),
		sales:     make(map[primitive.ObjectID]*models.Sale),
	}
}

func (f *fakeStore) addItem(model string, skus ...string) *models.InventoryItem {
	item := &models.InventoryItem{
		ID:    primitive.NewObjectID(),
		Model: model,
		Stock: len(skus),
		SKUs:  append([]string(nil), skus...),
	}
	f.inventory[item.ID] = item
	return item
}

func (f *fakeStore) InventoryItem(ctx context.Context, id primitive.ObjectID) (*models.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.inventory[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *item
	copied.SKUs = append([]string(nil), item.SKUs...)
	return &copied, nil
}

func (f *fakeStore) InsertSale(ctx context.Context, sale *models.Sale) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *sale
	f.sales[sale.ID] = &copied
	return nil
}

func (f *fakeStore) SellUnit(ctx context.Context, sale *models.Sale) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.inventory[sale.MotorcycleID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if err := removeSKU(item, sale.SoldSKU); err != nil {
		return err
	}
	copied := *sale
	f.sales[sale.ID] = &copied
	return nil
}

func (f *fakeStore) DeleteSale(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	sale, ok := f.sales[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if sku := consumedSKU(sale); sku != "" {
		if item, ok := f.inventory[sale.MotorcycleID]; ok {
			restoreSKU(item, sku)
		}
	}
	delete(f.sales, id)
	return nil
}

func (f *fakeStore) ReplaceSaleUnit(ctx context.Context, sale *models.Sale, prevItemID primitive.ObjectID, prevSKU string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sales[sale.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	if prevSKU != "" {
		if item, ok := f.inventory[prevItemID]; ok {
			restoreSKU(item, prevSKU)
		}
	}
	if sku := consumedSKU(sale); sku != "" {
		item, ok := f.inventory[sale.MotorcycleID]
		if !ok {
			return mongo.ErrNoDocuments
		}
		if err := removeSKU(item, sku); err != nil {
			return err
		}
	}
	copied := *sale
	f.sales[sale.ID] = &copied
	return nil
}

func (f *fakeStore) Sale(ctx context.Context, id primitive.ObjectID) (*models.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sale, ok := f.sales[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *sale
	return &copied, nil
}

func (f *fakeStore) SalesBySprint(ctx context.Context, sprint string) ([]models.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Sale
	for _, sale := range f.sales {
		if sale.Sprint == sprint {
			out = append(out, *sale)
		}
	}
	return out, nil
}

func (f *fakeStore) AllSales(ctx context.Context) ([]models.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Sale
	for _, sale := range f.sales {
		out = append(out, *sale)
	}
	return out, nil
}

func (f *fakeStore) MergeInventoryUnits(ctx context.Context, units []models.ExtractedUnit) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	added := 0
	for _, unit := range units {
		if unit.Model == "" || unit.SKU == "" {
			continue
		}
		var item *models.InventoryItem
		for _, existing := range f.inventory {
			if existing.Model == unit.Model {
				item = existing
				break
			}
		}
		if item == nil {
			item = &models.InventoryItem{
				ID:    primitive.NewObjectID(),
				Model: unit.Model,
			}
			f.inventory[item.ID] = item
		}
		before := len(item.SKUs)
		restoreSKU(item, unit.SKU)
		if len(item.SKUs) > before {
			added++
		}
	}
	return added, nil
}

func (f *fakeStore) ListSalespeople(ctx context.Context) ([]models.User, error) {
	return f.salespeople, nil
}

func (f *fakeStore) UpdateGoals(ctx context.Context, updates []models.GoalUpdate) error {
	if f.failBatch {
		return errors.New("simulated write failure")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range updates {
		for i := range f.salespeople {
			if f.salespeople[i].ID == u.UserID {
				f.salespeople[i].SalesGoal = u.SalesGoal
				f.salespeople[i].CreditsGoal = u.CreditsGoal
			}
		}
	}
	return nil
}

func (f *fakeStore) UpdateSaleAmounts(ctx context.Context, updates []models.SaleAmountUpdate) error {
	if f.failBatch {
		return errors.New("simulated write failure")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range updates {
		sale, ok := f.sales[u.SaleID]
		if !ok {
			return mongo.ErrNoDocuments
		}
		sale.Amount = u.NewAmount
	}
	return nil
}

func removeSKU(item *models.InventoryItem, sku string) error {
	for i, s := range item.SKUs {
		if s == sku {
			item.SKUs = append(item.SKUs[:i], item.SKUs[i+1:]...)
			item.Stock--
			return nil
		}
	}
	return models.ErrSKUNotFound
}

func restoreSKU(item *models.InventoryItem, sku string) {
	for _, s := range item.SKUs {
		if s == sku {
			return
		}
	}
	item.SKUs = append(item.SKUs, sku)
	item.Stock++
}
