// models/sale.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment methods
const (
	PaymentCash      = "cash"
	PaymentFinancing = "financing"
)

// CreditProviderVento is the financing provider whose credits earn the
// per-unit bonus from the 5th credit in a sprint onward.
const CreditProviderVento = "Vento"

// Sale records one committed sale. Amount is always net of VAT. When Notes
// is empty the sale consumed exactly one unit (SoldSKU) from inventory;
// when Notes is non-empty the unit came from another branch or back-order
// and no inventory was touched.
type Sale struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Sprint          string             `json:"sprint" bson:"sprint"` // "YYYY-MM"
	SalespersonID   primitive.ObjectID `json:"salespersonId" bson:"salespersonId"`
	ProspectName    string             `json:"prospectName" bson:"prospectName"`
	Amount          Money              `json:"amount" bson:"amount"`
	PaymentMethod   string             `json:"paymentMethod" bson:"paymentMethod"`
	CreditProvider  string             `json:"creditProvider,omitempty" bson:"creditProvider,omitempty"`
	MotorcycleID    primitive.ObjectID `json:"motorcycleId" bson:"motorcycleId"`
	MotorcycleModel string             `json:"motorcycleModel" bson:"motorcycleModel"`
	SoldSKU         string             `json:"soldSku,omitempty" bson:"soldSku,omitempty"`
	Notes           string             `json:"notes,omitempty" bson:"notes,omitempty"`
	Date            time.Time          `json:"date" bson:"date"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
}

// SaleRequest is the payload for recording a sale.
type SaleRequest struct {
	Sprint          string `json:"sprint" validate:"required"`
	ProspectName    string `json:"prospectName" validate:"required"`
	Amount          string `json:"amount" validate:"required"`
	PaymentMethod   string `json:"paymentMethod" validate:"required,oneof=cash financing"`
	CreditProvider  string `json:"creditProvider"`
	MotorcycleID    string `json:"motorcycleId" validate:"required"`
	MotorcycleModel string `json:"motorcycleModel" validate:"required"`
	SoldSKU         string `json:"soldSku"`
	Notes           string `json:"notes"`
	Date            string `json:"date"`
}

// SaleAmountUpdate is one corrected amount inside a VAT-normalization batch.
type SaleAmountUpdate struct {
	SaleID    primitive.ObjectID `json:"saleId" bson:"saleId"`
	NewAmount Money              `json:"newAmount" bson:"newAmount"`
}

// VATCandidate is shown to the operator before a normalization commit.
type VATCandidate struct {
	SaleID          primitive.ObjectID `json:"saleId"`
	Sprint          string             `json:"sprint"`
	MotorcycleModel string             `json:"motorcycleModel"`
	Amount          Money              `json:"amount"`
	CorrectedAmount Money              `json:"correctedAmount"`
}
