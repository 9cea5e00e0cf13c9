// services/vat_service.go
package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/motoventas/crm_backend/models"
)

// vatDivisor reverses the fixed 16% VAT that legacy records baked into
// their amounts.
var vatDivisor = decimal.RequireFromString("1.16")

// VATService finds historical sales whose amount was stored gross
// (VAT-inclusive) and rewrites them to the net baseline. It never runs on
// its own: an operator reviews the candidate list, then commits.
type VATService struct {
	store Store
	log   *logrus.Logger
}

func NewVATService(store Store, log *logrus.Logger) *VATService {
	return &VATService{store: store, log: log}
}

// IsGrossCandidate flags amounts that are positive whole numbers. The
// heuristic is knowingly approximate: legitimate net amounts can be whole
// numbers too, which is why the list goes past an operator first.
func IsGrossCandidate(amount decimal.Decimal) bool {
	return amount.IsPositive() && amount.IsInteger()
}

// NetAmount strips the baked-in 16% VAT.
func NetAmount(gross decimal.Decimal) decimal.Decimal {
	return gross.Div(vatDivisor)
}

// Candidates scans all sales and returns the ones the heuristic flags,
// each paired with the amount a commit would write.
func (v *VATService) Candidates(ctx context.Context) ([]models.VATCandidate, error) {
	sales, err := v.store.AllSales(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.VATCandidate
	for _, s := range sales {
		if !IsGrossCandidate(s.Amount.Decimal) {
			continue
		}
		out = append(out, models.VATCandidate{
			SaleID:          s.ID,
			Sprint:          s.Sprint,
			MotorcycleModel: s.MotorcycleModel,
			Amount:          s.Amount,
			CorrectedAmount: models.NewMoney(NetAmount(s.Amount.Decimal)),
		})
	}
	return out, nil
}

// Normalize rewrites the confirmed sales in one all-or-nothing batch. Each
// id is re-read and re-checked against the heuristic at commit time, so a
// stale confirmation cannot divide an already-corrected amount twice.
func (v *VATService) Normalize(ctx context.Context, ids []primitive.ObjectID) (int, error) {
	updates := make([]models.SaleAmountUpdate, 0, len(ids))
	for _, id := range ids {
		sale, err := v.store.Sale(ctx, id)
		if err != nil {
			return 0, err
		}
		if !IsGrossCandidate(sale.Amount.Decimal) {
			continue
		}
		updates = append(updates, models.SaleAmountUpdate{
			SaleID:    sale.ID,
			NewAmount: models.NewMoney(NetAmount(sale.Amount.Decimal)),
		})
	}
	if len(updates) == 0 {
		return 0, nil
	}
	if err := v.store.UpdateSaleAmounts(ctx, updates); err != nil {
		return 0, &models.BatchWriteError{Op: "vat normalization", Err: err}
	}
	v.log.WithField("corrected", len(updates)).Info("vat normalization committed")
	return len(updates), nil
}
