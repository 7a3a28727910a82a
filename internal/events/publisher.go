package events

import (
	"context"
	"strconv"
	"time"

	"github.com/Skotchmaster/billing/internal/domain"
	"github.com/google/uuid"
)

const BillCreated = "bill_created"

type EventProducer interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type BillItemEvent struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
}

type BillCreatedEvent struct {
	EventID    string          `json:"event_id"`
	Type       string          `json:"type"`
	BillID     int64           `json:"bill_id"`
	CustomerID int64           `json:"customer_id"`
	Total      float64         `json:"total"`
	Items      []BillItemEvent `json:"items"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Publisher emits a bill_created event per persisted bill, keyed by customer so a
// customer's bills land on one partition in creation order.
type Publisher struct {
	Producer EventProducer
	Topic    string
}

func (p *Publisher) BillCreated(ctx context.Context, bill domain.Bill) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return p.Producer.PublishEvent(ctx, p.Topic, strconv.FormatInt(bill.CustomerID(), 10), NewBillCreatedEvent(bill))
}

func NewBillCreatedEvent(bill domain.Bill) BillCreatedEvent {
	items := bill.Items()
	ev := BillCreatedEvent{
		EventID:    uuid.NewString(),
		Type:       BillCreated,
		BillID:     bill.ID(),
		CustomerID: bill.CustomerID(),
		Total:      bill.Total(),
		Items:      make([]BillItemEvent, len(items)),
		CreatedAt:  bill.CreatedAt(),
	}
	for i, it := range items {
		ev.Items[i] = BillItemEvent{
			ProductID: it.ProductID(),
			Quantity:  it.Quantity(),
			UnitPrice: it.UnitPrice(),
			Total:     it.Total(),
		}
	}
	return ev
}
