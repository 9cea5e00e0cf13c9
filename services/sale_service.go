// services/sale_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/motoventas/crm_backend/models"
	"github.com/motoventas/crm_backend/utils"
)

// SaleService commits sales while keeping the inventory ledger truthful.
// Concurrent sales of the same unit are serialized by the store's
// transaction: the loser observes the sku gone and gets ErrSKUNotFound.
type SaleService struct {
	store Store
	log   *logrus.Logger
}

func NewSaleService(store Store, log *logrus.Logger) *SaleService {
	return &SaleService{store: store, log: log}
}

// RecordSale validates the request and commits it exactly once. A non-empty
// notes field marks a special order (cross-branch pickup or back-order):
// only the sale document is written, inventory stays untouched.
func (s *SaleService) RecordSale(ctx context.Context, salespersonID primitive.ObjectID, req *models.SaleRequest) (*models.Sale, error) {
	sale, err := s.buildSale(salespersonID, req)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(sale.Notes) != "" {
		if err := s.store.InsertSale(ctx, sale); err != nil {
			return nil, err
		}
		s.log.WithFields(logrus.Fields{
			"sale":   sale.ID.Hex(),
			"model":  sale.MotorcycleModel,
			"sprint": sale.Sprint,
		}).Info("special-order sale recorded, inventory untouched")
		return sale, nil
	}

	item, err := s.store.InventoryItem(ctx, sale.MotorcycleID)
	if err != nil {
		return nil, err
	}
	if item.Stock < 1 {
		return nil, models.ErrOutOfStock
	}
	if !item.HasSKU(sale.SoldSKU) {
		return nil, models.ErrSKUNotFound
	}

	// The store re-checks sku presence inside the transaction; a racing
	// sale that got there first surfaces here as ErrSKUNotFound.
	if err := s.store.SellUnit(ctx, sale); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"sale":   sale.ID.Hex(),
		"model":  sale.MotorcycleModel,
		"sku":    sale.SoldSKU,
		"sprint": sale.Sprint,
	}).Info("sale recorded")
	return sale, nil
}

// EditSale rewrites a sale. When the sold unit changes, the old sku goes
// back to its model and the new one is consumed in the same transaction.
func (s *SaleService) EditSale(ctx context.Context, saleID primitive.ObjectID, req *models.SaleRequest) (*models.Sale, error) {
	prev, err := s.store.Sale(ctx, saleID)
	if err != nil {
		return nil, err
	}

	sale, err := s.buildSale(prev.SalespersonID, req)
	if err != nil {
		return nil, err
	}
	sale.ID = prev.ID
	sale.CreatedAt = prev.CreatedAt

	if err := s.store.ReplaceSaleUnit(ctx, sale, prev.MotorcycleID, consumedSKU(prev)); err != nil {
		return nil, err
	}
	return sale, nil
}

// DeleteSale removes a sale and restocks its unit when one was consumed.
func (s *SaleService) DeleteSale(ctx context.Context, saleID primitive.ObjectID) error {
	return s.store.DeleteSale(ctx, saleID)
}

// SalesBySprint lists a sprint's sales, optionally for one salesperson.
func (s *SaleService) SalesBySprint(ctx context.Context, sprint string, salespersonID primitive.ObjectID) ([]models.Sale, error) {
	if !utils.ValidSprint(sprint) {
		return nil, fmt.Errorf("invalid sprint key %q", sprint)
	}
	sales, err := s.store.SalesBySprint(ctx, sprint)
	if err != nil {
		return nil, err
	}
	if salespersonID.IsZero() {
		return sales, nil
	}
	filtered := make([]models.Sale, 0, len(sales))
	for _, sale := range sales {
		if sale.SalespersonID == salespersonID {
			filtered = append(filtered, sale)
		}
	}
	return filtered, nil
}

func (s *SaleService) buildSale(salespersonID primitive.ObjectID, req *models.SaleRequest) (*models.Sale, error) {
	if !utils.ValidSprint(req.Sprint) {
		return nil, fmt.Errorf("invalid sprint key %q", req.Sprint)
	}
	amount, err := models.MoneyFromString(req.Amount)
	if err != nil {
		return nil, err
	}
	if amount.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("sale amount must not be negative")
	}
	motorcycleID, err := primitive.ObjectIDFromHex(req.MotorcycleID)
	if err != nil {
		return nil, fmt.Errorf("invalid motorcycle id: %w", err)
	}
	if strings.TrimSpace(req.Notes) == "" && strings.TrimSpace(req.SoldSKU) == "" {
		return nil, fmt.Errorf("a sku is required unless the sale is a special order")
	}

	date := time.Now()
	if req.Date != "" {
		date, err = time.Parse(time.RFC3339, req.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid sale date: %w", err)
		}
	}

	return &models.Sale{
		ID:              primitive.NewObjectID(),
		Sprint:          req.Sprint,
		SalespersonID:   salespersonID,
		ProspectName:    req.ProspectName,
		Amount:          amount,
		PaymentMethod:   req.PaymentMethod,
		CreditProvider:  req.CreditProvider,
		MotorcycleID:    motorcycleID,
		MotorcycleModel: req.MotorcycleModel,
		SoldSKU:         strings.TrimSpace(req.SoldSKU),
		Notes:           strings.TrimSpace(req.Notes),
		Date:            date,
		CreatedAt:       time.Now(),
	}, nil
}

// consumedSKU returns the sku a sale took out of inventory, or "" for
// special orders.
func consumedSKU(sale *models.Sale) string {
	if strings.TrimSpace(sale.Notes) != "" {
		return ""
	}
	return sale.SoldSKU
}
