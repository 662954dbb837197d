package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qrdine/qrdine/internal/domain/menu"
)

var _ menu.Repository = (*MenuRepository)(nil)

// MenuRepository implements menu.Repository backed by PostgreSQL.
type MenuRepository struct {
	pool *pgxpool.Pool
}

// NewMenuRepository returns a MenuRepository that uses the given pool.
func NewMenuRepository(pool *pgxpool.Pool) *MenuRepository {
	return &MenuRepository{pool: pool}
}

const menuColumns = `id, name, description, price_inr, price_usd, category, image_url, is_available, created_at, updated_at`

func scanMenuItem(row pgx.Row) (*menu.Item, error) {
	var it menu.Item
	err := row.Scan(
		&it.ID, &it.Name, &it.Description, &it.PriceINR, &it.PriceUSD,
		&it.Category, &it.ImageURL, &it.IsAvailable, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// List returns all menu items ordered by category, then name.
func (r *MenuRepository) List(ctx context.Context) ([]menu.Item, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+menuColumns+` FROM menu_items ORDER BY category, name`)
	if err != nil {
		return nil, fmt.Errorf("listing menu items: %w", err)
	}
	defer rows.Close()

	var items []menu.Item
	for rows.Next() {
		it, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning menu item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

// GetByID returns a single menu item by its identifier.
func (r *MenuRepository) GetByID(ctx context.Context, id int64) (*menu.Item, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+menuColumns+` FROM menu_items WHERE id = $1`, id)

	it, err := scanMenuItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, menu.ErrNotFound
		}
		return nil, fmt.Errorf("getting menu item %d: %w", id, err)
	}
	return it, nil
}

// Create inserts a new menu item and returns it with its assigned ID.
func (r *MenuRepository) Create(ctx context.Context, item *menu.Item) (*menu.Item, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO menu_items (name, description, price_inr, price_usd, category, image_url, is_available)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+menuColumns,
		item.Name, item.Description, item.PriceINR, item.PriceUSD,
		item.Category, item.ImageURL, item.IsAvailable)

	created, err := scanMenuItem(row)
	if err != nil {
		return nil, fmt.Errorf("creating menu item %q: %w", item.Name, err)
	}
	return created, nil
}

// Update overwrites all mutable fields and bumps updated_at.
func (r *MenuRepository) Update(ctx context.Context, item *menu.Item) (*menu.Item, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE menu_items
		 SET name = $2, description = $3, price_inr = $4, price_usd = $5,
		     category = $6, image_url = $7, is_available = $8, updated_at = now()
		 WHERE id = $1
		 RETURNING `+menuColumns,
		item.ID, item.Name, item.Description, item.PriceINR, item.PriceUSD,
		item.Category, item.ImageURL, item.IsAvailable)

	updated, err := scanMenuItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, menu.ErrNotFound
		}
		return nil, fmt.Errorf("updating menu item %d: %w", item.ID, err)
	}
	return updated, nil
}

// Delete removes an unreferenced menu item. Deletion is refused while any
// order line references the item, on top of the database's foreign key.
func (r *MenuRepository) Delete(ctx context.Context, id int64) error {
	var refs int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM order_items WHERE menu_item_id = $1`, id).Scan(&refs)
	if err != nil {
		return fmt.Errorf("checking menu item %d usage: %w", id, err)
	}
	if refs > 0 {
		return menu.ErrItemInUse
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting menu item %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return menu.ErrNotFound
	}
	return nil
}

// Categories returns the distinct category labels in sorted order.
func (r *MenuRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT category FROM menu_items ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CreateCategory materialises an empty category by inserting a hidden
// placeholder item carrying the label.
func (r *MenuRepository) CreateCategory(ctx context.Context, name string) error {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM menu_items WHERE category = $1)`, name).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking category %q: %w", name, err)
	}
	if exists {
		return menu.ErrCategoryExists
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO menu_items (name, description, price_inr, price_usd, category, is_available)
		 VALUES ($1, $2, 0, 0, $3, false)`,
		menu.CategoryPlaceholderName, fmt.Sprintf("Placeholder for %s category", name), name)
	if err != nil {
		return fmt.Errorf("creating category %q: %w", name, err)
	}
	return nil
}

// DeleteCategory removes a category's placeholder item once no real items
// use the label.
func (r *MenuRepository) DeleteCategory(ctx context.Context, name string) error {
	var inUse int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM menu_items WHERE category = $1 AND name <> $2`,
		name, menu.CategoryPlaceholderName).Scan(&inUse)
	if err != nil {
		return fmt.Errorf("checking category %q usage: %w", name, err)
	}
	if inUse > 0 {
		return errors.Wrapf(menu.ErrCategoryInUse, "%d item(s)", inUse)
	}

	_, err = r.pool.Exec(ctx,
		`DELETE FROM menu_items WHERE category = $1 AND name = $2`,
		name, menu.CategoryPlaceholderName)
	if err != nil {
		return fmt.Errorf("deleting category %q: %w", name, err)
	}
	return nil
}
