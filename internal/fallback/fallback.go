// Package fallback isolates the billing core from downstream transport faults.
// Every lookup ends in one of three outcomes: found, not found, or unavailable.
package fallback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Skotchmaster/billing/internal/clients"
	"github.com/Skotchmaster/billing/internal/domain"
	"github.com/Skotchmaster/billing/pkg/logging"
	"github.com/sony/gobreaker/v2"
)

type Settings struct {
	// MaxFailures is the number of consecutive failed calls that opens the circuit.
	MaxFailures uint32
	// OpenTimeout is how long the circuit stays open before a probe is let through.
	OpenTimeout time.Duration
}

func DefaultSettings() Settings {
	return Settings{MaxFailures: 5, OpenTimeout: 30 * time.Second}
}

type CustomerLookup interface {
	GetCustomer(ctx context.Context, id int64) (domain.Customer, error)
}

type ProductLookup interface {
	GetProduct(ctx context.Context, id string) (domain.Product, error)
}

type Adapter[K comparable, T any] struct {
	remote string
	fetch  func(ctx context.Context, id K) (T, error)
	cb     *gobreaker.CircuitBreaker[T]
}

func NewCustomerAdapter(c CustomerLookup, s Settings) *Adapter[int64, domain.Customer] {
	return newAdapter(clients.CustomerService, c.GetCustomer, s)
}

func NewCatalogAdapter(c ProductLookup, s Settings) *Adapter[string, domain.Product] {
	return newAdapter(clients.InventoryService, c.GetProduct, s)
}

func newAdapter[K comparable, T any](remote string, fetch func(context.Context, K) (T, error), s Settings) *Adapter[K, T] {
	if s.MaxFailures == 0 {
		s.MaxFailures = DefaultSettings().MaxFailures
	}
	if s.OpenTimeout <= 0 {
		s.OpenTimeout = DefaultSettings().OpenTimeout
	}

	cb := gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        remote,
		MaxRequests: 1,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.MaxFailures
		},
		// a confirmed miss is a healthy answer
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, clients.ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Default().Warn("circuit_state_changed", "remote", name, "from", from.String(), "to", to.String())
		},
	})

	return &Adapter[K, T]{remote: remote, fetch: fetch, cb: cb}
}

// Lookup never returns a transport error: anything that prevents a definite
// answer is reported as domain.Unavailable and logged.
func (a *Adapter[K, T]) Lookup(ctx context.Context, id K) domain.Result[T] {
	v, err := a.cb.Execute(func() (T, error) {
		return a.fetch(ctx, id)
	})
	switch {
	case err == nil:
		return domain.FoundResult(v)
	case errors.Is(err, clients.ErrNotFound):
		return domain.NotFoundResult[T]()
	default:
		logging.FromContext(ctx).Warn("remote_unavailable",
			"remote", a.remote,
			"id", fmt.Sprint(id),
			"circuit", a.cb.State().String(),
			"error", err,
		)
		return domain.UnavailableResult[T]()
	}
}

func (a *Adapter[K, T]) State() gobreaker.State {
	return a.cb.State()
}
