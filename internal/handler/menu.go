package handler

import (
	"net/http"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/qrdine/qrdine/internal/domain/menu"
)

type menuItemRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	PriceINR    decimal.Decimal `json:"price_inr"`
	PriceUSD    decimal.Decimal `json:"price_usd"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url"`
	IsAvailable *bool           `json:"is_available"`
}

func (req *menuItemRequest) toItem() *menu.Item {
	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	return &menu.Item{
		Name:        req.Name,
		Description: req.Description,
		PriceINR:    req.PriceINR,
		PriceUSD:    req.PriceUSD,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		IsAvailable: available,
	}
}

// pathID parses the {id} path segment. Reports 400 on garbage and returns
// false.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondFail(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}

func (h *Handler) listMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.menu.List(r.Context())
	if err != nil {
		respondError(w, r, "Failed to fetch menu items", err)
		return
	}
	respondData(w, toMenuItemDTOs(items))
}

func (h *Handler) getMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	item, err := h.menu.GetByID(r.Context(), id)
	switch {
	case errors.Is(err, menu.ErrNotFound):
		respondFail(w, http.StatusNotFound, "Menu item not found")
	case err != nil:
		respondError(w, r, "Failed to fetch menu item", err)
	default:
		respondData(w, toMenuItemDTO(*item))
	}
}

func (h *Handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" || req.Category == "" {
		respondFail(w, http.StatusBadRequest, "Name and category are required")
		return
	}
	item, err := h.menu.Create(r.Context(), req.toItem())
	if err != nil {
		respondError(w, r, "Failed to create menu item", err)
		return
	}
	respondMessage(w, "Menu item created successfully", toMenuItemDTO(*item))
}

func (h *Handler) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req menuItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	item := req.toItem()
	item.ID = id
	updated, err := h.menu.Update(r.Context(), item)
	switch {
	case errors.Is(err, menu.ErrNotFound):
		respondFail(w, http.StatusNotFound, "Menu item not found")
	case err != nil:
		respondError(w, r, "Failed to update menu item", err)
	default:
		respondMessage(w, "Menu item updated successfully", toMenuItemDTO(*updated))
	}
}

func (h *Handler) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	err := h.menu.Delete(r.Context(), id)
	switch {
	case errors.Is(err, menu.ErrItemInUse):
		respondFail(w, http.StatusBadRequest,
			"Cannot delete menu item that is part of existing orders")
	case errors.Is(err, menu.ErrNotFound):
		respondFail(w, http.StatusNotFound, "Menu item not found")
	case err != nil:
		respondError(w, r, "Failed to delete menu item", err)
	default:
		respondMessage(w, "Menu item deleted successfully", nil)
	}
}
