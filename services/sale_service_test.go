// services/sale_service_test.go
package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/motoventas/crm_backend/models"
)

func saleRequest(item *models.InventoryItem, sku string) *models.SaleRequest {
	return &models.SaleRequest{
		Sprint:          "2026-08",
		ProspectName:    "Ana Torres",
		Amount:          "45000",
		PaymentMethod:   models.PaymentCash,
		MotorcycleID:    item.ID.Hex(),
		MotorcycleModel: item.Model,
		SoldSKU:         sku,
	}
}

func TestRecordSale_ConsumesUnit(t *testing.T) {
	store := newFakeStore()
	item := store.addItem("Italika FT150", "SKU-1", "SKU-2")
	svc := NewSaleService(store, testLogger())

	sale, err := svc.RecordSale(context.Background(), primitive.NewObjectID(), saleRequest(item, "SKU-1"))
	if err != nil {
		t.Fatalf("RecordSale error: %v", err)
	}

	after, _ := store.InventoryItem(context.Background(), item.ID)
	if after.Stock != 1 {
		t.Fatalf("stock expected 1, got %d", after.Stock)
	}
	if after.HasSKU("SKU-1") {
		t.Fatal("sold sku still present in inventory")
	}
	if len(after.SKUs) != after.Stock {
		t.Fatalf("stock %d does not match sku count %d", after.Stock, len(after.SKUs))
	}
	if _, err := store.Sale(context.Background(), sale.ID); err != nil {
		t.Fatalf("sale not persisted: %v", err)
	}
}

func TestRecordSale_OutOfStock(t *testing.T) {
	store := newFakeStore()
	item := store.addItem("Italika FT150")
	svc := NewSaleService(store, testLogger())

	_, err := svc.RecordSale(context.Background(), primitive.NewObjectID(), saleRequest(item, "SKU-1"))
	if !errors.Is(err, models.ErrOutOfStock) {
		t.Fatalf("expected ErrOutOfStock, got %v", err)
	}
}

func TestRecordSale_UnknownSKU(t *testing.T) {
	store := newFakeStore()
	item := store.addItem("Italika FT150", "SKU-1")
	svc := NewSaleService(store, testLogger())

	_, err := svc.RecordSale(context.Background(), primitive.NewObjectID(), saleRequest(item, "SKU-99"))
	if !errors.Is(err, models.ErrSKUNotFound) {
		t.Fatalf("expected ErrSKUNotFound, got %v", err)
	}
}

func TestRecordSale_SpecialOrderSkipsInventory(t *testing.T) {
	store := newFakeStore()
	item := store.addItem("Vento Rocketman", "SKU-1")
	svc := NewSaleService(store, testLogger())

	req := saleRequest(item, "")
	req.Notes = "pickup at Monterrey branch next week"

	sale, err := svc.RecordSale(context.Background(), primitive.NewObjectID(), req)
	if err != nil {
		t.Fatalf("RecordSale error: %v", err)
	}

	after, _ := store.InventoryItem(context.Background(), item.ID)
	if after.Stock != 1 || !after.HasSKU("SKU-1") {
		t.Fatal("special order must not touch inventory")
	}
	if _, err := store.Sale(context.Background(), sale.ID); err != nil {
		t.Fatalf("special-order sale not persisted: %v", err)
	}
}

func TestRecordSale_RequiresSKUForRegularSale(t *testing.T) {
	store := newFakeStore()
	item := store.addItem("Italika FT150", "SKU-1")
	svc := NewSaleService(store, testLogger())

	_, err := svc.RecordSale(context.Background(), primitive.NewObjectID(), saleRequest(item, ""))
	if err == nil {
		t.Fatal("expected error for regular sale without sku")
	}
}

// Two salespeople race for the last unit; exactly one sale commits and
// stock never goes negative.
func TestRecordSale_ConcurrentLastUnit(t *testing.T) {
	store := newFakeStore()
	item := store.addItem("Italika FT150", "SKU-LAST")
	svc := NewSaleService(store, testLogger())

	const racers = 8
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.RecordSale(context.Background(), primitive.NewObjectID(), saleRequest(item, "SKU-LAST"))
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else if !errors.Is(err, models.ErrSKUNotFound) && !errors.Is(err, models.ErrOutOfStock) {
			t.Fatalf("unexpected race error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins)
	}

	after, _ := store.InventoryItem(context.Background(), item.ID)
	if after.Stock != 0 {
		t.Fatalf("stock expected 0, got %d", after.Stock)
	}
}

func TestDeleteSale_RestocksUnit(t *testing.T) {
	store := newFakeStore()
	item := store.addItem("Italika FT150", "SKU-1")
	svc := NewSaleService(store, testLogger())

	sale, err := svc.RecordSale(context.Background(), primitive.NewObjectID(), saleRequest(item, "SKU-1"))
	if err != nil {
		t.Fatalf("RecordSale error: %v", err)
	}
	if err := svc.DeleteSale(context.Background(), sale.ID); err != nil {
		t.Fatalf("DeleteSale error: %v", err)
	}

	after, _ := store.InventoryItem(context.Background(), item.ID)
	if after.Stock != 1 || !after.HasSKU("SKU-1") {
		t.Fatal("deleted sale did not restock its unit")
	}
}

func TestEditSale_SwapsUnits(t *testing.T) {
	store := newFakeStore()
	item := store.addItem("Italika FT150", "SKU-1", "SKU-2")
	svc := NewSaleService(store, testLogger())

	salespersonID := primitive.NewObjectID()
	sale, err := svc.RecordSale(context.Background(), salespersonID, saleRequest(item, "SKU-1"))
	if err != nil {
		t.Fatalf("RecordSale error: %v", err)
	}

	edited, err := svc.EditSale(context.Background(), sale.ID, saleRequest(item, "SKU-2"))
	if err != nil {
		t.Fatalf("EditSale error: %v", err)
	}
	if edited.SalespersonID != salespersonID {
		t.Fatal("edit must keep the original salesperson")
	}

	after, _ := store.InventoryItem(context.Background(), item.ID)
	if !after.HasSKU("SKU-1") || after.HasSKU("SKU-2") {
		t.Fatalf("expected SKU-1 restocked and SKU-2 consumed, got %v", after.SKUs)
	}
	if after.Stock != 1 {
		t.Fatalf("stock expected 1 after swap, got %d", after.Stock)
	}
}

func TestSalesBySprint_FilterBySalesperson(t *testing.T) {
	store := newFakeStore()
	item := store.addItem("Italika FT150", "SKU-1", "SKU-2")
	svc := NewSaleService(store, testLogger())

	mine := primitive.NewObjectID()
	other := primitive.NewObjectID()
	if _, err := svc.RecordSale(context.Background(), mine, saleRequest(item, "SKU-1")); err != nil {
		t.Fatalf("RecordSale error: %v", err)
	}
	if _, err := svc.RecordSale(context.Background(), other, saleRequest(item, "SKU-2")); err != nil {
		t.Fatalf("RecordSale error: %v", err)
	}

	all, err := svc.SalesBySprint(context.Background(), "2026-08", primitive.NilObjectID)
	if err != nil {
		t.Fatalf("SalesBySprint error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 sales, got %d", len(all))
	}

	onlyMine, err := svc.SalesBySprint(context.Background(), "2026-08", mine)
	if err != nil {
		t.Fatalf("SalesBySprint error: %v", err)
	}
	if len(onlyMine) != 1 || onlyMine[0].SalespersonID != mine {
		t.Fatalf("salesperson filter failed: %v", onlyMine)
	}
}

func TestSalesBySprint_RejectsBadSprint(t *testing.T) {
	svc := NewSaleService(newFakeStore(), testLogger())
	if _, err := svc.SalesBySprint(context.Background(), "2026-13", primitive.NilObjectID); err == nil {
		t.Fatal("expected error for invalid sprint key")
	}
}
