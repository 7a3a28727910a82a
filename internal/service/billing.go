package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/billing/internal/domain"
	"github.com/Skotchmaster/billing/pkg/logging"
	"golang.org/x/sync/errgroup"
)

var (
	ErrValidation = errors.New("validation") // 400
)

type LineRequest struct {
	ProductID string
	Quantity  int
}

// ValidateLines lists every violated line constraint as "field: message".
func ValidateLines(lines []LineRequest) []string {
	var v []string
	if len(lines) == 0 {
		v = append(v, "productItems: At least one product item is required")
	}
	for i, ln := range lines {
		if strings.TrimSpace(ln.ProductID) == "" {
			v = append(v, fmt.Sprintf("productItems[%d].productId: Product ID is required", i))
		}
		if ln.Quantity < 1 {
			v = append(v, fmt.Sprintf("productItems[%d].quantity: Quantity must be at least 1", i))
		}
	}
	return v
}

type Options struct {
	// Concurrency bounds parallel catalog lookups. Values below 2 resolve lines one by one.
	Concurrency int
	Notifiers   []BillNotifier
	Now         func() time.Time
}

type BillService struct {
	customers   CustomerResolver
	products    ProductResolver
	store       BillStore
	notifiers   []BillNotifier
	concurrency int
	now         func() time.Time
}

func NewBillService(customers CustomerResolver, products ProductResolver, store BillStore, opts Options) *BillService {
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &BillService{
		customers:   customers,
		products:    products,
		store:       store,
		notifiers:   opts.Notifiers,
		concurrency: opts.Concurrency,
		now:         now,
	}
}

// CreateBill resolves the customer and every product line, prices the lines and
// persists the bill. The first unresolved customer or product aborts the call
// before anything is written; nothing is retried.
func (s *BillService) CreateBill(ctx context.Context, customerID int64, lines []LineRequest) (domain.Bill, error) {
	if v := ValidateLines(lines); len(v) > 0 {
		return domain.Bill{}, fmt.Errorf("%w: %s", ErrValidation, strings.Join(v, ", "))
	}

	customer := s.customers.Lookup(ctx, customerID)
	if !customer.Ok() {
		return domain.Bill{}, &domain.CustomerUnresolvedError{CustomerID: customerID, Outcome: customer.Outcome}
	}

	products, err := s.resolveProducts(ctx, lines)
	if err != nil {
		return domain.Bill{}, err
	}

	items := make([]domain.LineItem, len(lines))
	for i, ln := range lines {
		p := products[i]
		items[i] = domain.NewLineItem(ln.ProductID, ln.Quantity, p.Price, p.Name)
	}

	saved, err := s.store.Save(ctx, domain.NewBill(customerID, items, s.now()))
	if err != nil {
		return domain.Bill{}, fmt.Errorf("save bill: %w", err)
	}

	s.notify(ctx, saved)
	return saved, nil
}

func (s *BillService) resolveProducts(ctx context.Context, lines []LineRequest) ([]domain.Product, error) {
	products := make([]domain.Product, len(lines))

	if s.concurrency < 2 || len(lines) < 2 {
		for i, ln := range lines {
			res := s.products.Lookup(ctx, ln.ProductID)
			if !res.Ok() {
				return nil, &domain.ProductUnresolvedError{ProductID: ln.ProductID, Outcome: res.Outcome}
			}
			products[i] = res.Value
		}
		return products, nil
	}

	// every lookup is awaited so the reported failure is the first one in request order
	results := make([]domain.Result[domain.Product], len(lines))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i := range lines {
		i := i
		g.Go(func() error {
			results[i] = s.products.Lookup(ctx, lines[i].ProductID)
			return nil
		})
	}
	_ = g.Wait()

	for i, res := range results {
		if !res.Ok() {
			return nil, &domain.ProductUnresolvedError{ProductID: lines[i].ProductID, Outcome: res.Outcome}
		}
		products[i] = res.Value
	}
	return products, nil
}

func (s *BillService) notify(ctx context.Context, bill domain.Bill) {
	for _, n := range s.notifiers {
		if err := n.BillCreated(ctx, bill); err != nil {
			logging.FromContext(ctx).Error("bill_notify_error", "bill_id", bill.ID(), "error", err)
		}
	}
}

// GetBill loads a bill and attaches display data from the customer directory and
// the catalog. Enrichment is best effort: failed lookups leave the stored values.
// The boolean is false when no bill has the given id.
func (s *BillService) GetBill(ctx context.Context, id int64) (domain.Bill, bool, error) {
	bill, found, err := s.store.FindByID(ctx, id)
	if err != nil {
		return domain.Bill{}, false, fmt.Errorf("find bill %d: %w", id, err)
	}
	if !found {
		return domain.Bill{}, false, nil
	}

	if res := s.customers.Lookup(ctx, bill.CustomerID()); res.Ok() {
		bill = bill.WithCustomer(res.Value)
	}
	for i, it := range bill.Items() {
		if res := s.products.Lookup(ctx, it.ProductID()); res.Ok() {
			bill = bill.WithProductName(i, res.Value.Name)
		}
	}
	return bill, true, nil
}

func (s *BillService) GetBillsByCustomer(ctx context.Context, customerID int64) ([]domain.Bill, error) {
	bills, err := s.store.FindByCustomerID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("find bills of customer %d: %w", customerID, err)
	}
	if bills == nil {
		bills = []domain.Bill{}
	}
	return bills, nil
}
