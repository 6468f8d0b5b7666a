package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation  = errors.New("validation")  // 400
	ErrCredentials = errors.New("credentials") // 401
	ErrForbidden   = errors.New("forbidden")   // 403
	ErrNotFound    = errors.New("not found")   // 404
	ErrConflict    = errors.New("conflict")    // 409
	ErrStock       = errors.New("stock")       // 400
)

// StockError carries which product ran short and by how much. It wraps
// ErrStock so handlers can match with errors.Is.
type StockError struct {
	ProductID uint
	Available uint
	Requested uint
}

func (e *StockError) Error() string {
	return fmt.Sprintf("not enough stock for product %d: available %d, requested %d",
		e.ProductID, e.Available, e.Requested)
}

func (e *StockError) Unwrap() error { return ErrStock }

// NotFoundError names the missing entity so 404 bodies can reference it.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }
