package handler

import (
	"fmt"
	"net/http"

	"github.com/go-faster/errors"

	"github.com/qrdine/qrdine/internal/domain/menu"
)

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.menu.Categories(r.Context())
	if err != nil {
		respondError(w, r, "Failed to fetch categories", err)
		return
	}
	respondData(w, categories)
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		respondFail(w, http.StatusBadRequest, "Category name is required")
		return
	}
	err := h.menu.CreateCategory(r.Context(), req.Name)
	switch {
	case errors.Is(err, menu.ErrCategoryExists):
		respondFail(w, http.StatusBadRequest, "Category already exists")
	case err != nil:
		respondError(w, r, "Failed to create category", err)
	default:
		respondMessage(w, "Category created successfully",
			map[string]string{"name": req.Name})
	}
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	err := h.menu.DeleteCategory(r.Context(), name)
	switch {
	case errors.Is(err, menu.ErrCategoryInUse):
		respondFail(w, http.StatusBadRequest,
			fmt.Sprintf("Cannot delete category %q while it still has menu items", name))
	case err != nil:
		respondError(w, r, "Failed to delete category", err)
	default:
		respondMessage(w, "Category deleted successfully", nil)
	}
}
