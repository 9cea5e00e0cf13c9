// services/commission.go
package services

import (
	"github.com/shopspring/decimal"

	"github.com/motoventas/crm_backend/models"
)

// Commission policy. Rates are fixed per role; commission is earned only
// once sprint progress reaches the threshold. Vento financing credits pay a
// flat per-unit bonus starting with the 5th credit of the sprint.
var (
	salespersonRate     = decimal.RequireFromString("0.01")
	managerRate         = decimal.RequireFromString("0.005")
	commissionThreshold = decimal.RequireFromString("80")
	ventoBonusPerCredit = decimal.NewFromInt(200)
	oneHundred          = decimal.NewFromInt(100)
)

// ventoFreeCredits is how many Vento credits earn nothing before the bonus
// kicks in.
const ventoFreeCredits = 4

// SprintFigures is the computed dashboard row for one person and sprint.
// Pure output; computing it never mutates anything.
type SprintFigures struct {
	SaleCount       int             `json:"saleCount"`
	TotalSales      decimal.Decimal `json:"totalSales"`
	ProgressPercent decimal.Decimal `json:"progressPercent"`
	Commission      decimal.Decimal `json:"commission"`
	VentoCredits    int             `json:"ventoCredits"`
	VentoBonus      decimal.Decimal `json:"ventoBonus"`
}

// CommissionRate returns the fixed rate for a role.
func CommissionRate(role string) decimal.Decimal {
	if role == models.RoleManager {
		return managerRate
	}
	return salespersonRate
}

// ProgressPercent is totalSales/goal*100, or zero when there is no goal.
func ProgressPercent(totalSales, goal decimal.Decimal) decimal.Decimal {
	if goal.IsZero() {
		return decimal.Zero
	}
	return totalSales.Div(goal).Mul(oneHundred)
}

// Commission pays totalSales*rate once progress reaches 80%, else nothing.
func Commission(totalSales, goal decimal.Decimal, role string) decimal.Decimal {
	if ProgressPercent(totalSales, goal).LessThan(commissionThreshold) {
		return decimal.Zero
	}
	return totalSales.Mul(CommissionRate(role))
}

// VentoCredits counts the sprint's Vento-financed sales.
func VentoCredits(sales []models.Sale) int {
	n := 0
	for _, s := range sales {
		if s.CreditProvider == models.CreditProviderVento {
			n++
		}
	}
	return n
}

// VentoBonus pays 200 per credit from the 5th credit onward: 4 credits pay
// nothing, 5 pay 200, 7 pay 600.
func VentoBonus(credits int) decimal.Decimal {
	if credits < ventoFreeCredits+1 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(credits - ventoFreeCredits)).Mul(ventoBonusPerCredit)
}

// TotalSales sums the net amounts of a sale set.
func TotalSales(sales []models.Sale) decimal.Decimal {
	total := decimal.Zero
	for _, s := range sales {
		total = total.Add(s.Amount.Decimal)
	}
	return total
}

// ComputeSprintFigures aggregates one person's sales against their goal.
func ComputeSprintFigures(sales []models.Sale, goal decimal.Decimal, role string) SprintFigures {
	total := TotalSales(sales)
	credits := VentoCredits(sales)
	return SprintFigures{
		SaleCount:       len(sales),
		TotalSales:      total,
		ProgressPercent: ProgressPercent(total, goal),
		Commission:      Commission(total, goal, role),
		VentoCredits:    credits,
		VentoBonus:      VentoBonus(credits),
	}
}
