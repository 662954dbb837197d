package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qrdine/qrdine/internal/domain/table"
)

var _ table.Repository = (*TableRepository)(nil)

// TableRepository implements table.Repository backed by PostgreSQL.
type TableRepository struct {
	pool *pgxpool.Pool
}

// NewTableRepository returns a TableRepository that uses the given pool.
func NewTableRepository(pool *pgxpool.Pool) *TableRepository {
	return &TableRepository{pool: pool}
}

const tableColumns = `id, table_number, table_name, COALESCE(qr_code_data, ''), is_active, created_at`

func scanTable(row pgx.Row) (*table.Table, error) {
	var t table.Table
	err := row.Scan(&t.ID, &t.TableNumber, &t.TableName, &t.QRCodeData, &t.IsActive, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListActive returns all active tables ordered by table number.
func (r *TableRepository) ListActive(ctx context.Context) ([]table.Table, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+tableColumns+` FROM restaurant_tables WHERE is_active ORDER BY table_number`)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	defer rows.Close()

	var tables []table.Table
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning table: %w", err)
		}
		tables = append(tables, *t)
	}
	return tables, rows.Err()
}

// GetByNumber returns the table with the given table number.
func (r *TableRepository) GetByNumber(ctx context.Context, tableNumber int) (*table.Table, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+tableColumns+` FROM restaurant_tables WHERE table_number = $1`, tableNumber)

	t, err := scanTable(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, table.ErrNotFound
		}
		return nil, fmt.Errorf("getting table %d: %w", tableNumber, err)
	}
	return t, nil
}

// Create inserts a new table and returns it with its assigned ID.
func (r *TableRepository) Create(ctx context.Context, t *table.Table) (*table.Table, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO restaurant_tables (table_number, table_name, qr_code_data)
		 VALUES ($1, $2, $3)
		 RETURNING `+tableColumns,
		t.TableNumber, t.TableName, t.QRCodeData)

	created, err := scanTable(row)
	if err != nil {
		return nil, fmt.Errorf("creating table %d: %w", t.TableNumber, err)
	}
	return created, nil
}

// Update overwrites the table's number, name, and QR payload.
func (r *TableRepository) Update(ctx context.Context, t *table.Table) (*table.Table, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE restaurant_tables
		 SET table_number = $2, table_name = $3, qr_code_data = $4
		 WHERE id = $1
		 RETURNING `+tableColumns,
		t.ID, t.TableNumber, t.TableName, t.QRCodeData)

	updated, err := scanTable(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, table.ErrNotFound
		}
		return nil, fmt.Errorf("updating table %d: %w", t.ID, err)
	}
	return updated, nil
}

// Delete removes the table.
func (r *TableRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM restaurant_tables WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting table %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return table.ErrNotFound
	}
	return nil
}
