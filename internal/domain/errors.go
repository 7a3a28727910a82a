package domain

import (
	"errors"
	"fmt"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrProductNotFound  = errors.New("product not found")
)

// CustomerUnresolvedError is returned when the customer lookup did not yield a customer,
// whether the directory reported it missing or could not be reached.
type CustomerUnresolvedError struct {
	CustomerID int64
	Outcome    Outcome
}

func (e *CustomerUnresolvedError) Error() string {
	return fmt.Sprintf("Customer not found with ID: %d", e.CustomerID)
}

func (e *CustomerUnresolvedError) Unwrap() error { return ErrCustomerNotFound }

type ProductUnresolvedError struct {
	ProductID string
	Outcome   Outcome
}

func (e *ProductUnresolvedError) Error() string {
	return fmt.Sprintf("Product not found with ID: %s", e.ProductID)
}

func (e *ProductUnresolvedError) Unwrap() error { return ErrProductNotFound }
