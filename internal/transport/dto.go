package transport

import (
	"strings"
	"time"

	"github.com/Skotchmaster/billing/internal/domain"
	"github.com/Skotchmaster/billing/internal/service"
)

type ProductItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type BillRequest struct {
	CustomerID   *int64               `json:"customerId"`
	ProductItems []ProductItemRequest `json:"productItems"`
}

// ValidationError lists every violated constraint of a request as "field: message".
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, ", ")
}

func NewValidationError(violations ...string) *ValidationError {
	return &ValidationError{Violations: violations}
}

func (r BillRequest) Lines() []service.LineRequest {
	lines := make([]service.LineRequest, len(r.ProductItems))
	for i, it := range r.ProductItems {
		lines[i] = service.LineRequest{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	return lines
}

func (r BillRequest) Validate() error {
	var v []string
	if r.CustomerID == nil {
		v = append(v, "customerId: Customer ID is required")
	}
	v = append(v, service.ValidateLines(r.Lines())...)
	if len(v) > 0 {
		return &ValidationError{Violations: v}
	}
	return nil
}

type CustomerResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ProductItemResponse struct {
	ProductID   string  `json:"productId"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Total       float64 `json:"total"`
	ProductName string  `json:"productName,omitempty"`
}

type BillResponse struct {
	ID           int64                 `json:"id"`
	CustomerID   int64                 `json:"customerId"`
	ProductItems []ProductItemResponse `json:"productItems"`
	Total        float64               `json:"total"`
	Date         string                `json:"date"`
	CreatedAt    time.Time             `json:"createdAt"`
	Customer     *CustomerResponse     `json:"customer,omitempty"`
}

func NewBillResponse(b domain.Bill) BillResponse {
	items := b.Items()
	resp := BillResponse{
		ID:           b.ID(),
		CustomerID:   b.CustomerID(),
		ProductItems: make([]ProductItemResponse, len(items)),
		Total:        b.Total(),
		Date:         b.CreatedAt().Format("2006-01-02"),
		CreatedAt:    b.CreatedAt(),
	}
	for i, it := range items {
		resp.ProductItems[i] = ProductItemResponse{
			ProductID:   it.ProductID(),
			Quantity:    it.Quantity(),
			Price:       it.UnitPrice(),
			Total:       it.Total(),
			ProductName: it.ProductName(),
		}
	}
	if c, ok := b.Customer(); ok {
		resp.Customer = &CustomerResponse{ID: c.ID, Name: c.Name, Email: c.Email}
	}
	return resp
}

func NewBillResponses(bills []domain.Bill) []BillResponse {
	out := make([]BillResponse, len(bills))
	for i, b := range bills {
		out[i] = NewBillResponse(b)
	}
	return out
}

type ErrorResponse struct {
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
}
