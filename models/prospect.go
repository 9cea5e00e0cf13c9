// models/prospect.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Pipeline stages for a prospect, in funnel order.
const (
	StageNew         = "new"
	StageContacted   = "contacted"
	StageNegotiation = "negotiation"
	StageClosed      = "closed"
	StageLost        = "lost"
)

// Prospect is one entry in the sales pipeline.
type Prospect struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name            string             `json:"name" bson:"name"`
	Phone           string             `json:"phone,omitempty" bson:"phone,omitempty"`
	ModelOfInterest string             `json:"modelOfInterest,omitempty" bson:"modelOfInterest,omitempty"`
	Stage           string             `json:"stage" bson:"stage"`
	SalespersonID   primitive.ObjectID `json:"salespersonId" bson:"salespersonId"`
	Notes           []ProspectNote     `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ProspectNote is one free-text follow-up note on a prospect.
type ProspectNote struct {
	Text      string             `json:"text" bson:"text"`
	AuthorID  primitive.ObjectID `json:"authorId" bson:"authorId"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// ProspectRequest creates or updates a prospect.
type ProspectRequest struct {
	Name            string `json:"name" validate:"required"`
	Phone           string `json:"phone"`
	ModelOfInterest string `json:"modelOfInterest"`
	Stage           string `json:"stage" validate:"omitempty,oneof=new contacted negotiation closed lost"`
}

// ProspectNoteRequest appends a note.
type ProspectNoteRequest struct {
	Text string `json:"text" validate:"required"`
}
