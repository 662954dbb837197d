package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/qrdine/qrdine/internal/domain/menu"
	"github.com/qrdine/qrdine/internal/domain/order"
	"github.com/qrdine/qrdine/internal/domain/table"
	"github.com/qrdine/qrdine/internal/domain/user"
)

// Monetary amounts are serialized as fixed two-decimal strings ("158.00"),
// matching what clients already parse.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

type tableDTO struct {
	ID          int64  `json:"id"`
	TableNumber int    `json:"table_number"`
	TableName   string `json:"table_name"`
	QRCodeData  string `json:"qr_code_data"`
	IsActive    bool   `json:"is_active"`
}

func toTableDTO(t table.Table) tableDTO {
	return tableDTO{
		ID:          t.ID,
		TableNumber: t.TableNumber,
		TableName:   t.TableName,
		QRCodeData:  t.QRCodeData,
		IsActive:    t.IsActive,
	}
}

func toTableDTOs(tables []table.Table) []tableDTO {
	out := make([]tableDTO, 0, len(tables))
	for _, t := range tables {
		out = append(out, toTableDTO(t))
	}
	return out
}

type menuItemDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceINR    string `json:"price_inr"`
	PriceUSD    string `json:"price_usd"`
	Category    string `json:"category"`
	ImageURL    string `json:"image_url"`
	IsAvailable bool   `json:"is_available"`
}

func toMenuItemDTO(m menu.Item) menuItemDTO {
	return menuItemDTO{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		PriceINR:    money(m.PriceINR),
		PriceUSD:    money(m.PriceUSD),
		Category:    m.Category,
		ImageURL:    m.ImageURL,
		IsAvailable: m.IsAvailable,
	}
}

func toMenuItemDTOs(items []menu.Item) []menuItemDTO {
	out := make([]menuItemDTO, 0, len(items))
	for _, m := range items {
		out = append(out, toMenuItemDTO(m))
	}
	return out
}

type orderLineDTO struct {
	ID         int64  `json:"id"`
	OrderID    int64  `json:"order_id"`
	MenuItemID int64  `json:"menu_item_id"`
	ItemName   string `json:"item_name"`
	Quantity   int    `json:"quantity"`
	PriceINR   string `json:"price_inr"`
	PriceUSD   string `json:"price_usd"`
}

// orderHeaderDTO is the order row without its lines. Status updates and the
// order-status-updated event carry this shape.
type orderHeaderDTO struct {
	ID             int64     `json:"id"`
	TableID        int64     `json:"table_id"`
	TableNumber    int       `json:"table_number"`
	TotalAmountINR string    `json:"total_amount_inr"`
	TotalAmountUSD string    `json:"total_amount_usd"`
	Currency       string    `json:"currency"`
	PaymentMethod  string    `json:"payment_method"`
	PaymentStatus  string    `json:"payment_status"`
	OrderStatus    string    `json:"order_status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type orderDTO struct {
	orderHeaderDTO
	Items []orderLineDTO `json:"items"`
}

func toOrderHeaderDTO(o order.Order) orderHeaderDTO {
	return orderHeaderDTO{
		ID:             o.ID,
		TableID:        o.TableID,
		TableNumber:    o.TableNumber,
		TotalAmountINR: money(o.TotalAmountINR),
		TotalAmountUSD: money(o.TotalAmountUSD),
		Currency:       o.Currency,
		PaymentMethod:  o.PaymentMethod,
		PaymentStatus:  o.PaymentStatus,
		OrderStatus:    o.OrderStatus,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

func toOrderDTO(o order.Order) orderDTO {
	items := make([]orderLineDTO, 0, len(o.Items))
	for _, line := range o.Items {
		items = append(items, orderLineDTO{
			ID:         line.ID,
			OrderID:    line.OrderID,
			MenuItemID: line.MenuItemID,
			ItemName:   line.ItemName,
			Quantity:   line.Quantity,
			PriceINR:   money(line.PriceINR),
			PriceUSD:   money(line.PriceUSD),
		})
	}
	return orderDTO{orderHeaderDTO: toOrderHeaderDTO(o), Items: items}
}

func toOrderDTOs(orders []order.Order) []orderDTO {
	out := make([]orderDTO, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderDTO(o))
	}
	return out
}

type userDTO struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func toUserDTO(u user.User) userDTO {
	return userDTO{ID: u.ID, FullName: u.FullName, Email: u.Email, Role: u.Role}
}
