package order

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrdine/qrdine/internal/domain/table"
)

// fakeTableRepo resolves table numbers from a fixed set.
type fakeTableRepo struct {
	tables map[int]table.Table
}

func (f *fakeTableRepo) ListActive(context.Context) ([]table.Table, error) { return nil, nil }

func (f *fakeTableRepo) GetByNumber(_ context.Context, number int) (*table.Table, error) {
	t, ok := f.tables[number]
	if !ok {
		return nil, table.ErrNotFound
	}
	return &t, nil
}

func (f *fakeTableRepo) Create(_ context.Context, t *table.Table) (*table.Table, error) {
	return t, nil
}

func (f *fakeTableRepo) Update(_ context.Context, t *table.Table) (*table.Table, error) {
	return t, nil
}

func (f *fakeTableRepo) Delete(context.Context, int64) error { return nil }

// fakeOrderRepo records what it was asked to persist and assigns IDs.
type fakeOrderRepo struct {
	created  []*Order
	statuses map[int64]string
	orders   map[int64]Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		statuses: make(map[int64]string),
		orders:   make(map[int64]Order),
	}
}

func (f *fakeOrderRepo) Create(_ context.Context, o *Order) (*Order, error) {
	stored := *o
	stored.ID = int64(len(f.created) + 1)
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	for i := range stored.Items {
		stored.Items[i].ID = int64(i + 1)
		stored.Items[i].OrderID = stored.ID
	}
	f.created = append(f.created, &stored)
	f.orders[stored.ID] = stored
	return &stored, nil
}

func (f *fakeOrderRepo) List(context.Context, Filter) ([]Order, error) {
	out := make([]Order, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id int64, status string) (*Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	o.OrderStatus = status
	o.Items = nil
	f.orders[id] = o
	f.statuses[id] = status
	return &o, nil
}

// recordingBroadcaster captures broadcast calls.
type recordingBroadcaster struct {
	created []*Order
	updated []*Order
}

func (b *recordingBroadcaster) OrderCreated(o *Order)       { b.created = append(b.created, o) }
func (b *recordingBroadcaster) OrderStatusUpdated(o *Order) { b.updated = append(b.updated, o) }

func newTestService() (*Service, *fakeOrderRepo, *recordingBroadcaster) {
	tables := &fakeTableRepo{tables: map[int]table.Table{
		5: {ID: 50, TableNumber: 5, TableName: "Table 5"},
	}}
	orders := newFakeOrderRepo()
	bc := &recordingBroadcaster{}
	return NewService(tables, orders, bc), orders, bc
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCreate_ComputesTotalsFromSnapshots(t *testing.T) {
	svc, _, bc := newTestService()

	created, err := svc.Create(context.Background(), CreateRequest{
		TableNumber: 5,
		Items: []LineRequest{
			{MenuItemID: 8, Name: "Coffee", Quantity: 2, PriceINR: dec("79.00"), PriceUSD: dec("1.09")},
			{MenuItemID: 1, Name: "Margherita Pizza", Quantity: 1, PriceINR: dec("299.00"), PriceUSD: dec("3.99")},
		},
		Currency:      "inr",
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	assert.True(t, created.TotalAmountINR.Equal(dec("457.00")), "got %s", created.TotalAmountINR)
	assert.True(t, created.TotalAmountUSD.Equal(dec("6.17")), "got %s", created.TotalAmountUSD)
	assert.Equal(t, int64(50), created.TableID)
	assert.Equal(t, 5, created.TableNumber)
	assert.Equal(t, StatusPending, created.OrderStatus)
	require.Len(t, created.Items, 2)
	assert.Equal(t, "Coffee", created.Items[0].ItemName)
	assert.Equal(t, 2, created.Items[0].Quantity)

	require.Len(t, bc.created, 1)
	assert.Equal(t, created.ID, bc.created[0].ID)
}

func TestCreate_PaymentStatusByMethod(t *testing.T) {
	tests := []struct {
		method string
		want   string
	}{
		{method: "cash", want: PaymentPending},
		{method: "card", want: PaymentPaid},
		{method: "upi", want: PaymentPaid},
		{method: "", want: PaymentPaid},
	}
	for _, tt := range tests {
		t.Run("method_"+tt.method, func(t *testing.T) {
			svc, _, _ := newTestService()
			created, err := svc.Create(context.Background(), CreateRequest{
				TableNumber:   5,
				PaymentMethod: tt.method,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, created.PaymentStatus)
		})
	}
}

func TestCreate_UnknownTable(t *testing.T) {
	svc, orders, bc := newTestService()

	_, err := svc.Create(context.Background(), CreateRequest{TableNumber: 99})

	var tableErr *TableNotFoundError
	require.ErrorAs(t, err, &tableErr)
	assert.Equal(t, 99, tableErr.TableNumber)
	assert.Empty(t, orders.created, "nothing should persist")
	assert.Empty(t, bc.created, "nothing should broadcast")
}

func TestCreate_InvalidQuantity(t *testing.T) {
	svc, orders, _ := newTestService()

	_, err := svc.Create(context.Background(), CreateRequest{
		TableNumber: 5,
		Items: []LineRequest{
			{MenuItemID: 8, Name: "Coffee", Quantity: 0, PriceINR: dec("79.00")},
		},
	})

	var qtyErr *InvalidQuantityError
	require.ErrorAs(t, err, &qtyErr)
	assert.Equal(t, "Coffee", qtyErr.ItemName)
	assert.Empty(t, orders.created)
}

func TestCreate_EmptyItemsProducesZeroTotalOrder(t *testing.T) {
	svc, _, bc := newTestService()

	created, err := svc.Create(context.Background(), CreateRequest{
		TableNumber:   5,
		Items:         nil,
		PaymentMethod: "card",
	})
	require.NoError(t, err)

	assert.True(t, created.TotalAmountINR.IsZero())
	assert.True(t, created.TotalAmountUSD.IsZero())
	assert.Empty(t, created.Items)
	assert.Len(t, bc.created, 1)
}

func TestUpdateStatus_BroadcastsHeader(t *testing.T) {
	svc, _, bc := newTestService()

	created, err := svc.Create(context.Background(), CreateRequest{TableNumber: 5})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), created.ID, StatusPreparing)
	require.NoError(t, err)
	assert.Equal(t, StatusPreparing, updated.OrderStatus)

	require.Len(t, bc.updated, 1)
	assert.Equal(t, created.ID, bc.updated[0].ID)
}

func TestUpdateStatus_ArbitraryValueAccepted(t *testing.T) {
	svc, orders, _ := newTestService()

	created, err := svc.Create(context.Background(), CreateRequest{TableNumber: 5})
	require.NoError(t, err)

	// No transition validation: any string goes through.
	updated, err := svc.UpdateStatus(context.Background(), created.ID, "cancelled")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", updated.OrderStatus)
	assert.Equal(t, "cancelled", orders.statuses[created.ID])
}

func TestUpdateStatus_NotFound(t *testing.T) {
	svc, _, bc := newTestService()

	_, err := svc.UpdateStatus(context.Background(), 404, StatusReady)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, bc.updated)
}
