// Package menu defines the menu item entity, the implicit category model,
// and their persistence contracts.
package menu

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CategoryPlaceholderName marks hidden rows that keep a category alive while
// it has no real items. A category exists only as long as at least one
// menu_items row references it, so creating an empty category inserts a
// placeholder item under this name.
const CategoryPlaceholderName = "[Category Placeholder]"

// Sentinel errors for menu operations.
var (
	// ErrNotFound is returned when no menu item matches the given ID.
	ErrNotFound = fmt.Errorf("menu item not found")
	// ErrItemInUse is returned when deletion is refused because order lines
	// still reference the item.
	ErrItemInUse = fmt.Errorf("menu item is referenced by existing orders")
	// ErrCategoryExists is returned when creating a category that already has
	// items.
	ErrCategoryExists = fmt.Errorf("category already exists")
	// ErrCategoryInUse is returned when deleting a category that real
	// (non-placeholder) items still use.
	ErrCategoryInUse = fmt.Errorf("category has menu items")
)

// Item represents a dish or drink on the menu, priced in both supported
// currencies.
type Item struct {
	ID          int64
	Name        string
	Description string
	PriceINR    decimal.Decimal
	PriceUSD    decimal.Decimal
	Category    string
	ImageURL    string
	IsAvailable bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Repository defines persistence operations for menu items and the category
// views derived from them.
type Repository interface {
	// List returns all menu items ordered by category, then name.
	List(ctx context.Context) ([]Item, error)
	// GetByID returns a single item, or ErrNotFound.
	GetByID(ctx context.Context, id int64) (*Item, error)
	// Create inserts a new item and returns it with its assigned ID.
	Create(ctx context.Context, item *Item) (*Item, error)
	// Update overwrites all mutable fields. Returns ErrNotFound when the ID
	// does not exist.
	Update(ctx context.Context, item *Item) (*Item, error)
	// Delete removes an unreferenced item. Returns ErrItemInUse when order
	// lines reference it and ErrNotFound when it does not exist. The usage
	// pre-check runs at this level on top of the database's foreign key.
	Delete(ctx context.Context, id int64) error

	// Categories returns the distinct category labels in sorted order.
	Categories(ctx context.Context) ([]string, error)
	// CreateCategory materialises an empty category via a placeholder item.
	// Returns ErrCategoryExists when any item already carries the label.
	CreateCategory(ctx context.Context, name string) error
	// DeleteCategory removes a category's placeholder item. Returns
	// ErrCategoryInUse (with the offending item count wrapped) when real
	// items still use the label.
	DeleteCategory(ctx context.Context, name string) error
}
