package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qrdine/qrdine/internal/domain/order"
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

const orderColumns = `id, COALESCE(table_id, 0), table_number, total_amount_inr, total_amount_usd,
	currency, payment_method, payment_status, order_status, created_at, updated_at`

const lineColumns = `id, order_id, COALESCE(menu_item_id, 0), item_name, quantity, price_inr, price_usd, created_at`

func scanOrder(row pgx.Row) (*order.Order, error) {
	var o order.Order
	err := row.Scan(
		&o.ID, &o.TableID, &o.TableNumber, &o.TotalAmountINR, &o.TotalAmountUSD,
		&o.Currency, &o.PaymentMethod, &o.PaymentStatus, &o.OrderStatus,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func scanLine(row pgx.Row) (*order.Line, error) {
	var l order.Line
	err := row.Scan(
		&l.ID, &l.OrderID, &l.MenuItemID, &l.ItemName, &l.Quantity,
		&l.PriceINR, &l.PriceUSD, &l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Create persists the order header and all its lines in a single
// transaction. Any failure rolls the whole order back; on success the
// composed order is returned as re-read inside the transaction.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) (*order.Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx,
		`INSERT INTO orders
		     (table_id, table_number, total_amount_inr, total_amount_usd,
		      currency, payment_method, payment_status, order_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+orderColumns,
		o.TableID, o.TableNumber, o.TotalAmountINR, o.TotalAmountUSD,
		o.Currency, o.PaymentMethod, o.PaymentStatus, o.OrderStatus)

	created, err := scanOrder(row)
	if err != nil {
		return nil, fmt.Errorf("inserting order header: %w", err)
	}

	for i := range o.Items {
		line := &o.Items[i]
		err := tx.QueryRow(ctx,
			`INSERT INTO order_items (order_id, menu_item_id, item_name, quantity, price_inr, price_usd)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING `+lineColumns,
			created.ID, line.MenuItemID, line.ItemName, line.Quantity,
			line.PriceINR, line.PriceUSD,
		).Scan(
			&line.ID, &line.OrderID, &line.MenuItemID, &line.ItemName,
			&line.Quantity, &line.PriceINR, &line.PriceUSD, &line.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("inserting order line %q: %w", line.ItemName, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing order: %w", err)
	}

	created.Items = o.Items
	if created.Items == nil {
		created.Items = []order.Line{}
	}
	return created, nil
}

// List returns matching composed orders, newest first. Lines are fetched in
// one follow-up query and grouped in memory, preserving insertion order.
func (r *OrderRepository) List(ctx context.Context, f order.Filter) ([]order.Order, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + orderColumns + ` FROM orders`)

	var conditions []string
	var args []any
	if f.Status != "" {
		args = append(args, f.Status)
		conditions = append(conditions, fmt.Sprintf("order_status = $%d", len(args)))
	}
	if f.StartDate != nil {
		args = append(args, *f.StartDate)
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if f.EndDate != nil {
		args = append(args, *f.EndDate)
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if len(conditions) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	sb.WriteString(" ORDER BY created_at DESC")

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	var orders []order.Order
	byID := make(map[int64]int)
	var ids []int64
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		o.Items = []order.Line{}
		byID[o.ID] = len(orders)
		ids = append(ids, o.ID)
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return []order.Order{}, nil
	}

	lineRows, err := r.pool.Query(ctx,
		`SELECT `+lineColumns+` FROM order_items WHERE order_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("listing order lines: %w", err)
	}
	defer lineRows.Close()

	for lineRows.Next() {
		l, err := scanLine(lineRows)
		if err != nil {
			return nil, fmt.Errorf("scanning order line: %w", err)
		}
		if idx, ok := byID[l.OrderID]; ok {
			orders[idx].Items = append(orders[idx].Items, *l)
		}
	}
	return orders, lineRows.Err()
}

// UpdateStatus overwrites an order's status and bumps updated_at.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status string) (*order.Order, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE orders SET order_status = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING `+orderColumns,
		id, status)

	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("updating order %d status: %w", id, err)
	}
	return o, nil
}
