package model

import (
	"errors"
	"fmt"
)

var (
	// ErrProductNotFound is returned when a family or slug is unknown.
	ErrProductNotFound = errors.New("product not found")
	// ErrVariantNotFound is returned when a variant id or sku is unknown.
	ErrVariantNotFound = errors.New("variant not found")
	// ErrOrderNotFound is returned when an order id is unknown.
	ErrOrderNotFound = errors.New("order not found")
	// ErrDuplicateVariant is returned when a variant with the same attribute
	// tuple already exists in the family.
	ErrDuplicateVariant = errors.New("variant already exists")
)

// ValidationError reports malformed or missing caller input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// StockError reports a cart line asking for more units than are in stock.
type StockError struct {
	VariantID uint
	SKU       string
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.SKU, e.Requested, e.Available)
}
