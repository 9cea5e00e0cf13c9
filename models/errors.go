// models/errors.go
package models

import "errors"

// Errors returned by the sale, goal and maintenance services. They are
// surfaced synchronously to the caller; nothing in the services retries.
var (
	// ErrOutOfStock: sale attempted against a model with zero units and no
	// special-order notes.
	ErrOutOfStock = errors.New("no units in stock for this model")

	// ErrSKUNotFound: the unit was already sold or never existed at commit
	// time. This is also what the loser of a concurrent sale sees.
	ErrSKUNotFound = errors.New("sku not found in inventory")

	// ErrNoSalespeople: goal distribution with zero eligible salespeople.
	ErrNoSalespeople = errors.New("no active salespeople to distribute goals to")
)

// BatchWriteError wraps a store failure that aborted an all-or-nothing batch
// (VAT normalization, goal distribution, sprint reset). No partial writes
// survive the abort.
type BatchWriteError struct {
	Op  string
	Err error
}

func (e *BatchWriteError) Error() string {
	return "batch write aborted (" + e.Op + "): " + e.Err.Error()
}

func (e *BatchWriteError) Unwrap() error { return e.Err }
