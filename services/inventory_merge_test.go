// services/inventory_merge_test.go
package services

import (
	"context"
	"testing"

	"github.com/motoventas/crm_backend/models"
)

func TestMergeInventoryUnitsKeepsStockEqualToUnitCount(t *testing.T) {
	store := newFakeStore()
	existing := store.addItem("Vento Rocketman", "RM-001", "RM-002")

	units := []models.ExtractedUnit{
		{Model: "Vento Rocketman", SKU: "RM-003"},
		{Model: "Vento Screamer", SKU: "SC-001"},
		{Model: "Vento Screamer", SKU: "SC-002"},
	}

	added, err := store.MergeInventoryUnits(context.Background(), units)
	if err != nil {
		t.Fatalf("MergeInventoryUnits() error = %v", err)
	}
	if added != 3 {
		t.Fatalf("added = %d, want 3", added)
	}

	for _, item := range store.inventory {
		if item.Stock != len(item.SKUs) {
			t.Fatalf("%s: stock = %d but holds %d units", item.Model, item.Stock, len(item.SKUs))
		}
	}

	got, err := store.InventoryItem(context.Background(), existing.ID)
	if err != nil {
		t.Fatalf("InventoryItem() error = %v", err)
	}
	if got.Stock != 3 {
		t.Fatalf("existing model stock = %d, want 3", got.Stock)
	}
}

func TestMergeInventoryUnitsReMergeAddsNothing(t *testing.T) {
	store := newFakeStore()

	units := []models.ExtractedUnit{
		{Model: "Vento Tornado", SKU: "TN-001"},
		{Model: "Vento Tornado", SKU: "TN-002"},
	}

	if _, err := store.MergeInventoryUnits(context.Background(), units); err != nil {
		t.Fatalf("first merge error = %v", err)
	}

	added, err := store.MergeInventoryUnits(context.Background(), units)
	if err != nil {
		t.Fatalf("second merge error = %v", err)
	}
	if added != 0 {
		t.Fatalf("re-merge added = %d, want 0", added)
	}

	for _, item := range store.inventory {
		if item.Stock != len(item.SKUs) {
			t.Fatalf("%s: stock = %d but holds %d units", item.Model, item.Stock, len(item.SKUs))
		}
		if item.Model == "Vento Tornado" && item.Stock != 2 {
			t.Fatalf("stock = %d after duplicate upload, want 2", item.Stock)
		}
	}
}

func TestMergeInventoryUnitsSkipsBlankRows(t *testing.T) {
	store := newFakeStore()

	added, err := store.MergeInventoryUnits(context.Background(), []models.ExtractedUnit{
		{Model: "", SKU: "XX-001"},
		{Model: "Vento Lithium", SKU: ""},
	})
	if err != nil {
		t.Fatalf("MergeInventoryUnits() error = %v", err)
	}
	if added != 0 {
		t.Fatalf("added = %d, want 0", added)
	}
	if len(store.inventory) != 0 {
		t.Fatalf("blank rows created %d items", len(store.inventory))
	}
}
