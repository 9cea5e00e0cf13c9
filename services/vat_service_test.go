// services/vat_service_test.go
package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/motoventas/crm_backend/models"
)

func addSale(store *fakeStore, amount string) *models.Sale {
	sale := &models.Sale{
		ID:              primitive.NewObjectID(),
		Sprint:          "2026-07",
		MotorcycleModel: "Italika FT150",
		Amount:          models.Money{Decimal: decimal.RequireFromString(amount)},
	}
	store.sales[sale.ID] = sale
	return sale
}

func TestIsGrossCandidate(t *testing.T) {
	cases := []struct {
		amount   string
		expected bool
	}{
		{"11600", true},
		{"10000", true},
		{"10000.00", true},
		{"9999.99", false},
		{"0", false},
		{"-11600", false},
	}
	for _, tc := range cases {
		got := IsGrossCandidate(decimal.RequireFromString(tc.amount))
		if got != tc.expected {
			t.Fatalf("IsGrossCandidate(%s) expected %v, got %v", tc.amount, tc.expected, got)
		}
	}
}

func TestNetAmount(t *testing.T) {
	got := NetAmount(decimal.NewFromInt(11600))
	if !got.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("NetAmount(11600) expected 10000, got %s", got.String())
	}
}

func TestCandidates_SkipsFractionalAmounts(t *testing.T) {
	store := newFakeStore()
	gross := addSale(store, "11600")
	addSale(store, "9999.99")
	svc := NewVATService(store, testLogger())

	candidates, err := svc.Candidates(context.Background())
	if err != nil {
		t.Fatalf("Candidates error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if candidates[0].SaleID != gross.ID {
		t.Fatal("wrong sale flagged")
	}
	if !candidates[0].CorrectedAmount.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("corrected amount expected 10000, got %s", candidates[0].CorrectedAmount.String())
	}
}

func TestNormalize_RewritesConfirmedSales(t *testing.T) {
	store := newFakeStore()
	gross := addSale(store, "11600")
	svc := NewVATService(store, testLogger())

	corrected, err := svc.Normalize(context.Background(), []primitive.ObjectID{gross.ID})
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	if corrected != 1 {
		t.Fatalf("expected 1 correction, got %d", corrected)
	}
	after, _ := store.Sale(context.Background(), gross.ID)
	if !after.Amount.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("amount expected 10000, got %s", after.Amount.String())
	}
}

// A correction that lands on a fractional figure cannot be flagged again,
// so re-running a confirmed id set is safe.
func TestNormalize_RechecksAtCommitTime(t *testing.T) {
	store := newFakeStore()
	sale := addSale(store, "11661")
	svc := NewVATService(store, testLogger())

	if _, err := svc.Normalize(context.Background(), []primitive.ObjectID{sale.ID}); err != nil {
		t.Fatalf("first Normalize error: %v", err)
	}
	first, _ := store.Sale(context.Background(), sale.ID)

	corrected, err := svc.Normalize(context.Background(), []primitive.ObjectID{sale.ID})
	if err != nil {
		t.Fatalf("second Normalize error: %v", err)
	}
	if corrected != 0 {
		t.Fatalf("re-run expected 0 corrections, got %d", corrected)
	}
	second, _ := store.Sale(context.Background(), sale.ID)
	if !first.Amount.Equal(second.Amount.Decimal) {
		t.Fatalf("re-run changed amount: %s vs %s", first.Amount.String(), second.Amount.String())
	}
}

func TestNormalize_BatchFailureLeavesAmounts(t *testing.T) {
	store := newFakeStore()
	gross := addSale(store, "11600")
	store.failBatch = true
	svc := NewVATService(store, testLogger())

	_, err := svc.Normalize(context.Background(), []primitive.ObjectID{gross.ID})
	var batchErr *models.BatchWriteError
	if !errors.As(err, &batchErr) {
		t.Fatalf("expected BatchWriteError, got %v", err)
	}
	after, _ := store.Sale(context.Background(), gross.ID)
	if !after.Amount.Equal(decimal.NewFromInt(11600)) {
		t.Fatalf("aborted batch must leave amounts untouched, got %s", after.Amount.String())
	}
}
