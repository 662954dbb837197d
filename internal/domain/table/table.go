// Package table defines the restaurant table entity and its persistence
// contract. Tables are the anchors customers order against: each physical
// table carries a unique table number encoded in its QR code.
package table

import (
	"context"
	"fmt"
	"time"
)

// ErrNotFound is returned when no table matches the given identifier or
// table number.
var ErrNotFound = fmt.Errorf("table not found")

// Table represents a physical restaurant table addressable by QR code.
type Table struct {
	ID          int64
	TableNumber int
	TableName   string
	QRCodeData  string
	IsActive    bool
	CreatedAt   time.Time
}

// QRCodeData derives the payload encoded in a table's QR code from its
// number. The frontend resolves this payload back to a table number when a
// customer scans the code.
func QRCodeData(tableNumber int) string {
	return fmt.Sprintf("table-%d", tableNumber)
}

// Repository defines persistence operations for restaurant tables.
type Repository interface {
	// ListActive returns all active tables ordered by table number.
	ListActive(ctx context.Context) ([]Table, error)
	// GetByNumber returns the table with the given table number, or
	// ErrNotFound.
	GetByNumber(ctx context.Context, tableNumber int) (*Table, error)
	// Create inserts a new table and returns it with its assigned ID.
	Create(ctx context.Context, t *Table) (*Table, error)
	// Update overwrites the table's number, name, and QR payload. Returns
	// ErrNotFound when the ID does not exist.
	Update(ctx context.Context, t *Table) (*Table, error)
	// Delete removes the table. Returns ErrNotFound when the ID does not
	// exist.
	Delete(ctx context.Context, id int64) error
}
