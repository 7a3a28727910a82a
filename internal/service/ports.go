package service

import (
	"context"

	"github.com/Skotchmaster/billing/internal/domain"
)

type CustomerResolver interface {
	Lookup(ctx context.Context, id int64) domain.Result[domain.Customer]
}

type ProductResolver interface {
	Lookup(ctx context.Context, id string) domain.Result[domain.Product]
}

// BillStore persists bills. Save assigns the identifier.
type BillStore interface {
	Save(ctx context.Context, bill domain.Bill) (domain.Bill, error)
	FindByID(ctx context.Context, id int64) (domain.Bill, bool, error)
	FindByCustomerID(ctx context.Context, customerID int64) ([]domain.Bill, error)
}

// BillNotifier is told about every bill after it has been persisted.
type BillNotifier interface {
	BillCreated(ctx context.Context, bill domain.Bill) error
}
