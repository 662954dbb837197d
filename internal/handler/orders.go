package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/qrdine/qrdine/internal/domain/order"
)

type orderLineRequest struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	PriceINR decimal.Decimal `json:"price_inr"`
	PriceUSD decimal.Decimal `json:"price_usd"`
}

type createOrderRequest struct {
	TableNumber   int                `json:"table_number"`
	Items         []orderLineRequest `json:"items"`
	Currency      string             `json:"currency"`
	PaymentMethod string             `json:"payment_method"`
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	lines := make([]order.LineRequest, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, order.LineRequest{
			MenuItemID: item.ID,
			Name:       item.Name,
			Quantity:   item.Quantity,
			PriceINR:   item.PriceINR,
			PriceUSD:   item.PriceUSD,
		})
	}

	created, err := h.orders.Create(r.Context(), order.CreateRequest{
		TableNumber:   req.TableNumber,
		Items:         lines,
		Currency:      req.Currency,
		PaymentMethod: req.PaymentMethod,
	})

	var tableErr *order.TableNotFoundError
	var qtyErr *order.InvalidQuantityError
	switch {
	case errors.As(err, &tableErr):
		respondFail(w, http.StatusNotFound, "Table not found")
	case errors.As(err, &qtyErr):
		respondFail(w, http.StatusBadRequest, qtyErr.Error())
	case err != nil:
		respondError(w, r, "Failed to create order", err)
	default:
		respondMessage(w, "Order created successfully", toOrderDTO(*created))
	}
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := order.Filter{Status: q.Get("status")}

	if raw := q.Get("start_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondFail(w, http.StatusBadRequest, "Invalid start_date, expected YYYY-MM-DD")
			return
		}
		filter.StartDate = &t
	}
	if raw := q.Get("end_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondFail(w, http.StatusBadRequest, "Invalid end_date, expected YYYY-MM-DD")
			return
		}
		// Inclusive calendar day: extend to the end of the given date.
		end := t.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &end
	}

	orders, err := h.orders.List(r.Context(), filter)
	if err != nil {
		respondError(w, r, "Failed to fetch orders", err)
		return
	}
	respondData(w, toOrderDTOs(orders))
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		OrderStatus string `json:"order_status"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.OrderStatus == "" {
		respondFail(w, http.StatusBadRequest, "Order status is required")
		return
	}

	updated, err := h.orders.UpdateStatus(r.Context(), id, req.OrderStatus)
	switch {
	case errors.Is(err, order.ErrNotFound):
		respondFail(w, http.StatusNotFound, "Order not found")
	case err != nil:
		respondError(w, r, "Failed to update order status", err)
	default:
		respondMessage(w, "Order status updated successfully", toOrderHeaderDTO(*updated))
	}
}
