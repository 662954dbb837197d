package order

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/qrdine/qrdine/internal/domain/table"
)

// TableNotFoundError indicates the requested table number references no
// known table.
type TableNotFoundError struct {
	TableNumber int
}

func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("table %d not found", e.TableNumber)
}

// InvalidQuantityError indicates a requested line has a non-positive
// quantity.
type InvalidQuantityError struct {
	ItemName string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for item %q", e.ItemName)
}

// LineRequest is one requested order line. Prices are the client's snapshot
// of the menu prices at the moment of ordering; they are trusted as-is and
// never reconciled against the current menu. Kitchen tablets and the customer
// menu run on the restaurant's own network, which is the trust boundary this
// leans on.
type LineRequest struct {
	MenuItemID int64
	Name       string
	Quantity   int
	PriceINR   decimal.Decimal
	PriceUSD   decimal.Decimal
}

// CreateRequest holds the input for creating an order.
type CreateRequest struct {
	TableNumber   int
	Items         []LineRequest
	Currency      string
	PaymentMethod string
}

// Service coordinates order creation, listing, and status tracking. It holds
// no state between calls beyond its injected dependencies.
type Service struct {
	tables    table.Repository
	orders    Repository
	broadcast Broadcaster
}

// NewService creates an order Service with the required dependencies.
func NewService(tables table.Repository, orders Repository, broadcast Broadcaster) *Service {
	return &Service{
		tables:    tables,
		orders:    orders,
		broadcast: broadcast,
	}
}

// Create validates the table, computes totals from the submitted price
// snapshots, persists the header and lines in one transaction, broadcasts a
// new-order event, and returns the composed order.
//
// An empty items slice is accepted and produces a zero-line, zero-total
// order; the reference implementation never rejected it and the admin panel
// relies on order creation being the only place table numbers are checked.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Order, error) {
	t, err := s.tables.GetByNumber(ctx, req.TableNumber)
	if err != nil {
		if errors.Is(err, table.ErrNotFound) {
			return nil, &TableNotFoundError{TableNumber: req.TableNumber}
		}
		return nil, errors.Wrapf(err, "resolve table %d", req.TableNumber)
	}

	totalINR := decimal.Zero
	totalUSD := decimal.Zero
	lines := make([]Line, len(req.Items))
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, &InvalidQuantityError{ItemName: item.Name}
		}
		qty := decimal.NewFromInt(int64(item.Quantity))
		totalINR = totalINR.Add(item.PriceINR.Mul(qty))
		totalUSD = totalUSD.Add(item.PriceUSD.Mul(qty))

		lines[i] = Line{
			MenuItemID: item.MenuItemID,
			ItemName:   item.Name,
			Quantity:   item.Quantity,
			PriceINR:   item.PriceINR,
			PriceUSD:   item.PriceUSD,
		}
	}

	paymentStatus := PaymentPaid
	if req.PaymentMethod == PaymentMethodCash {
		paymentStatus = PaymentPending
	}

	o := &Order{
		TableID:        t.ID,
		TableNumber:    req.TableNumber,
		TotalAmountINR: totalINR.Round(2),
		TotalAmountUSD: totalUSD.Round(2),
		Currency:       req.Currency,
		PaymentMethod:  req.PaymentMethod,
		PaymentStatus:  paymentStatus,
		OrderStatus:    StatusPending,
		Items:          lines,
	}

	created, err := s.orders.Create(ctx, o)
	if err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	// Best effort: a crash between commit and broadcast loses the event, and
	// kitchen displays re-fetch periodically to converge.
	s.broadcast.OrderCreated(created)

	return created, nil
}

// List returns composed orders matching the filter, newest first.
func (s *Service) List(ctx context.Context, f Filter) ([]Order, error) {
	orders, err := s.orders.List(ctx, f)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return orders, nil
}

// UpdateStatus overwrites an order's status with the given value, persists
// the change, and broadcasts a status-updated event carrying the header.
// The new status is not checked against the canonical pending → preparing →
// ready → delivered sequence; arbitrary transitions are allowed on purpose.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (*Order, error) {
	updated, err := s.orders.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "update status of order %d", id)
	}

	s.broadcast.OrderStatusUpdated(updated)

	return updated, nil
}
