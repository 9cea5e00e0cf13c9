// services/commission_test.go
package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/motoventas/crm_backend/models"
)

func TestCommission_ThresholdBoundary(t *testing.T) {
	goal := decimal.NewFromInt(100000)
	cases := []struct {
		name     string
		total    string
		expected string
	}{
		{"just below threshold", "79999.99", "0"},
		{"exactly at threshold", "80000", "800"},
		{"above threshold", "100000", "1000"},
		{"zero sales", "0", "0"},
	}
	for _, tc := range cases {
		total := decimal.RequireFromString(tc.total)
		got := Commission(total, goal, models.RoleSalesperson)
		if !got.Equal(decimal.RequireFromString(tc.expected)) {
			t.Fatalf("%s: Commission(%s) expected %s, got %s", tc.name, tc.total, tc.expected, got.String())
		}
	}
}

func TestCommission_ManagerRate(t *testing.T) {
	goal := decimal.NewFromInt(100000)
	total := decimal.NewFromInt(100000)
	got := Commission(total, goal, models.RoleManager)
	if !got.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("manager commission on 100000 expected 500, got %s", got.String())
	}
}

func TestProgressPercent_ZeroGoal(t *testing.T) {
	got := ProgressPercent(decimal.NewFromInt(50000), decimal.Zero)
	if !got.IsZero() {
		t.Fatalf("progress with zero goal expected 0, got %s", got.String())
	}
}

func TestVentoBonus(t *testing.T) {
	cases := []struct {
		credits  int
		expected int64
	}{
		{0, 0},
		{4, 0},
		{5, 200},
		{7, 600},
		{10, 1200},
	}
	for _, tc := range cases {
		got := VentoBonus(tc.credits)
		if !got.Equal(decimal.NewFromInt(tc.expected)) {
			t.Fatalf("VentoBonus(%d) expected %d, got %s", tc.credits, tc.expected, got.String())
		}
	}
}

func TestComputeSprintFigures(t *testing.T) {
	sales := []models.Sale{
		{Amount: models.MoneyFromInt(50000), PaymentMethod: models.PaymentFinancing, CreditProvider: models.CreditProviderVento},
		{Amount: models.MoneyFromInt(30000), PaymentMethod: models.PaymentCash},
		{Amount: models.MoneyFromInt(20000), PaymentMethod: models.PaymentFinancing, CreditProvider: models.CreditProviderVento},
	}
	goal := decimal.NewFromInt(100000)

	figures := ComputeSprintFigures(sales, goal, models.RoleSalesperson)

	if figures.SaleCount != 3 {
		t.Fatalf("sale count expected 3, got %d", figures.SaleCount)
	}
	if !figures.TotalSales.Equal(decimal.NewFromInt(100000)) {
		t.Fatalf("total sales expected 100000, got %s", figures.TotalSales.String())
	}
	if !figures.ProgressPercent.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("progress expected 100, got %s", figures.ProgressPercent.String())
	}
	if !figures.Commission.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("commission expected 1000, got %s", figures.Commission.String())
	}
	if figures.VentoCredits != 2 {
		t.Fatalf("vento credits expected 2, got %d", figures.VentoCredits)
	}
	if !figures.VentoBonus.IsZero() {
		t.Fatalf("vento bonus below 5 credits expected 0, got %s", figures.VentoBonus.String())
	}
}
