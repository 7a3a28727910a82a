package domain

import "time"

// LineItem is one resolved product line of a bill. The unit price is the
// catalog price captured when the bill was assembled.
type LineItem struct {
	productID   string
	quantity    int
	unitPrice   float64
	total       float64
	productName string
}

func NewLineItem(productID string, quantity int, unitPrice float64, productName string) LineItem {
	return LineItem{
		productID:   productID,
		quantity:    quantity,
		unitPrice:   unitPrice,
		total:       unitPrice * float64(quantity),
		productName: productName,
	}
}

// RestoreLineItem rebuilds a line from stored values without recomputing its total.
func RestoreLineItem(productID string, quantity int, unitPrice, total float64, productName string) LineItem {
	return LineItem{
		productID:   productID,
		quantity:    quantity,
		unitPrice:   unitPrice,
		total:       total,
		productName: productName,
	}
}

func (li LineItem) ProductID() string   { return li.productID }
func (li LineItem) Quantity() int       { return li.quantity }
func (li LineItem) UnitPrice() float64  { return li.unitPrice }
func (li LineItem) Total() float64      { return li.total }
func (li LineItem) ProductName() string { return li.productName }

func (li LineItem) withProductName(name string) LineItem {
	li.productName = name
	return li
}

// Bill is the composite billing record. Values are never modified in place;
// the With* methods return enriched copies.
type Bill struct {
	id         int64
	customerID int64
	items      []LineItem
	total      float64
	createdAt  time.Time

	customer *Customer
}

// NewBill builds an unpersisted bill. The total is the sum of the line totals in order.
func NewBill(customerID int64, items []LineItem, createdAt time.Time) Bill {
	var total float64
	for _, it := range items {
		total += it.total
	}
	return Bill{
		customerID: customerID,
		items:      append([]LineItem(nil), items...),
		total:      total,
		createdAt:  createdAt,
	}
}

// RestoreBill rebuilds a persisted bill exactly as stored.
func RestoreBill(id, customerID int64, items []LineItem, total float64, createdAt time.Time) Bill {
	return Bill{
		id:         id,
		customerID: customerID,
		items:      append([]LineItem(nil), items...),
		total:      total,
		createdAt:  createdAt,
	}
}

func (b Bill) ID() int64            { return b.id }
func (b Bill) CustomerID() int64    { return b.customerID }
func (b Bill) Total() float64       { return b.total }
func (b Bill) CreatedAt() time.Time { return b.createdAt }

func (b Bill) Items() []LineItem {
	return append([]LineItem(nil), b.items...)
}

// Customer returns the display enrichment attached on the read path, if any.
func (b Bill) Customer() (Customer, bool) {
	if b.customer == nil {
		return Customer{}, false
	}
	return *b.customer, true
}

func (b Bill) WithCustomer(c Customer) Bill {
	b.customer = &c
	return b
}

func (b Bill) WithProductName(idx int, name string) Bill {
	if idx < 0 || idx >= len(b.items) {
		return b
	}
	items := append([]LineItem(nil), b.items...)
	items[idx] = items[idx].withProductName(name)
	b.items = items
	return b
}
