// Package order implements the ordering core: the order and order line
// entities, the creation/listing/status-update service, and the contracts it
// depends on.
package order

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Order status values used by the reference kitchen flow. Status updates are
// not validated against this sequence: any string can be written, and
// clients depend on that leniency.
const (
	StatusPending   = "pending"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusDelivered = "delivered"
)

// Payment status values.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
)

// PaymentMethodCash is the only payment method that leaves an order unpaid
// at creation; every other method marks it paid immediately.
const PaymentMethodCash = "cash"

// ErrNotFound is returned when no order matches the given ID.
var ErrNotFound = fmt.Errorf("order not found")

// Order is an order header together with its lines (the composed order).
type Order struct {
	ID             int64
	TableID        int64
	TableNumber    int
	TotalAmountINR decimal.Decimal
	TotalAmountUSD decimal.Decimal
	Currency       string
	PaymentMethod  string
	PaymentStatus  string
	OrderStatus    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Items          []Line
}

// Line is one quantity-priced entry within an order. The item name and both
// prices are snapshots taken at order time and stay fixed even if the menu
// item is edited later.
type Line struct {
	ID         int64
	OrderID    int64
	MenuItemID int64
	ItemName   string
	Quantity   int
	PriceINR   decimal.Decimal
	PriceUSD   decimal.Decimal
	CreatedAt  time.Time
}

// Filter narrows List results. Zero values mean "no constraint".
type Filter struct {
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
}

// Repository defines persistence operations for orders.
type Repository interface {
	// Create persists the order header and all its lines atomically and
	// returns the composed order as re-read after commit. When any insert
	// fails, nothing persists.
	Create(ctx context.Context, o *Order) (*Order, error)
	// List returns matching composed orders, newest first, each with its
	// lines in insertion order.
	List(ctx context.Context, f Filter) ([]Order, error)
	// UpdateStatus overwrites an order's status and updated_at and returns
	// the updated header (without lines), or ErrNotFound.
	UpdateStatus(ctx context.Context, id int64, status string) (*Order, error)
}

// Broadcaster delivers order events to connected kitchen displays. Calls are
// fire-and-forget: implementations never block the caller, report no errors,
// and drop events when no observer is connected.
type Broadcaster interface {
	OrderCreated(o *Order)
	OrderStatusUpdated(o *Order)
}

// NopBroadcaster discards all events. Useful for tests and tooling.
type NopBroadcaster struct{}

func (NopBroadcaster) OrderCreated(*Order)       {}
func (NopBroadcaster) OrderStatusUpdated(*Order) {}
