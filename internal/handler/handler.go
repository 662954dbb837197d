// Package handler implements the HTTP transport: route registration, the
// `{success, data}` JSON envelope every client expects, and request DTOs.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/qrdine/qrdine/internal/domain/analytics"
	"github.com/qrdine/qrdine/internal/domain/menu"
	"github.com/qrdine/qrdine/internal/domain/order"
	"github.com/qrdine/qrdine/internal/domain/table"
	"github.com/qrdine/qrdine/internal/domain/user"
)

// Pinger reports database reachability for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler carries the injected dependencies for all HTTP endpoints.
type Handler struct {
	menu      menu.Repository
	tables    table.Repository
	orders    *order.Service
	analytics analytics.Repository
	users     user.Repository
	db        Pinger
}

// New constructs a Handler with the required dependencies.
func New(
	menuRepo menu.Repository,
	tableRepo table.Repository,
	orderSvc *order.Service,
	analyticsRepo analytics.Repository,
	userRepo user.Repository,
	db Pinger,
) *Handler {
	return &Handler{
		menu:      menuRepo,
		tables:    tableRepo,
		orders:    orderSvc,
		analytics: analyticsRepo,
		users:     userRepo,
		db:        db,
	}
}

// Register mounts every API route on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", h.health)

	mux.HandleFunc("GET /api/menu", h.listMenu)
	mux.HandleFunc("GET /api/menu/{id}", h.getMenuItem)
	mux.HandleFunc("POST /api/menu", h.createMenuItem)
	mux.HandleFunc("PUT /api/menu/{id}", h.updateMenuItem)
	mux.HandleFunc("DELETE /api/menu/{id}", h.deleteMenuItem)

	mux.HandleFunc("GET /api/tables", h.listTables)
	mux.HandleFunc("GET /api/tables/{tableNumber}", h.getTable)
	mux.HandleFunc("POST /api/tables", h.createTable)
	mux.HandleFunc("PUT /api/tables/{id}", h.updateTable)
	mux.HandleFunc("DELETE /api/tables/{id}", h.deleteTable)

	mux.HandleFunc("GET /api/categories", h.listCategories)
	mux.HandleFunc("POST /api/categories", h.createCategory)
	mux.HandleFunc("DELETE /api/categories/{name}", h.deleteCategory)

	mux.HandleFunc("GET /api/orders", h.listOrders)
	mux.HandleFunc("POST /api/orders", h.createOrder)
	mux.HandleFunc("PUT /api/orders/{id}/status", h.updateOrderStatus)

	mux.HandleFunc("GET /api/analytics/test", h.analyticsTest)
	mux.HandleFunc("GET /api/analytics/daily", h.analyticsDaily)
	mux.HandleFunc("GET /api/analytics/monthly", h.analyticsMonthly)
	mux.HandleFunc("GET /api/analytics/quarterly", h.analyticsQuarterly)
	mux.HandleFunc("GET /api/analytics/yearly", h.analyticsYearly)
	mux.HandleFunc("GET /api/analytics/summary", h.analyticsSummary)
	mux.HandleFunc("GET /api/analytics/revenue-orders", h.analyticsRevenueOrders)
	mux.HandleFunc("GET /api/analytics/top-items", h.analyticsTopItems)
	mux.HandleFunc("GET /api/analytics/category-performance", h.analyticsCategoryPerformance)
	mux.HandleFunc("GET /api/analytics/payment-methods", h.analyticsPaymentMethods)
	mux.HandleFunc("GET /api/analytics/table-performance", h.analyticsTablePerformance)
	mux.HandleFunc("GET /api/analytics/hourly-orders", h.analyticsHourlyOrders)

	mux.HandleFunc("POST /api/auth/register", h.register)
	mux.HandleFunc("POST /api/auth/login", h.login)
}

// envelope is the uniform response shape. Data and Message are optional;
// Error carries the raw error string on failures (known debug leak, kept for
// client compatibility).
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// respondData writes a 200 envelope with data.
func respondData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

// respondMessage writes a 200 envelope with a message and optional data.
func respondMessage(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: message, Data: data})
}

// respondFail writes a non-200 envelope with only a message (expected
// failures: not found, validation, conflicts).
func respondFail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}

// respondError logs the failure and writes a 500 envelope carrying the raw
// error string.
func respondError(w http.ResponseWriter, r *http.Request, message string, err error) {
	zctx.From(r.Context()).Error(message, zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, envelope{
		Success: false,
		Message: message,
		Error:   err.Error(),
	})
}

// decodeBody decodes a JSON request body into dst, reporting malformed input
// to the client. The bool result tells the caller whether to proceed.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondFail(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// health reports API and database status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"status":  "error",
			"message": "Database connection failed",
			"error":   err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"message":  "Restaurant QR Ordering System API",
		"database": "connected",
	})
}
