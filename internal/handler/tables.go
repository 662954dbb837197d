package handler

import (
	"net/http"
	"strconv"

	"github.com/go-faster/errors"

	"github.com/qrdine/qrdine/internal/domain/table"
)

type tableRequest struct {
	TableNumber int    `json:"table_number"`
	TableName   string `json:"table_name"`
}

func (h *Handler) listTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.tables.ListActive(r.Context())
	if err != nil {
		respondError(w, r, "Failed to fetch tables", err)
		return
	}
	respondData(w, toTableDTOs(tables))
}

func (h *Handler) getTable(w http.ResponseWriter, r *http.Request) {
	num, err := strconv.Atoi(r.PathValue("tableNumber"))
	if err != nil {
		respondFail(w, http.StatusBadRequest, "Invalid table number")
		return
	}
	t, err := h.tables.GetByNumber(r.Context(), num)
	switch {
	case errors.Is(err, table.ErrNotFound):
		respondFail(w, http.StatusNotFound, "Table not found")
	case err != nil:
		respondError(w, r, "Failed to fetch table", err)
	default:
		respondData(w, toTableDTO(*t))
	}
}

func (h *Handler) createTable(w http.ResponseWriter, r *http.Request) {
	var req tableRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.TableNumber <= 0 {
		respondFail(w, http.StatusBadRequest, "Table number is required")
		return
	}
	t, err := h.tables.Create(r.Context(), &table.Table{
		TableNumber: req.TableNumber,
		TableName:   req.TableName,
		QRCodeData:  table.QRCodeData(req.TableNumber),
		IsActive:    true,
	})
	if err != nil {
		respondError(w, r, "Failed to create table", err)
		return
	}
	respondMessage(w, "Table created successfully", toTableDTO(*t))
}

func (h *Handler) updateTable(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req tableRequest
	if !decodeBody(w, r, &req) {
		return
	}
	t, err := h.tables.Update(r.Context(), &table.Table{
		ID:          id,
		TableNumber: req.TableNumber,
		TableName:   req.TableName,
		QRCodeData:  table.QRCodeData(req.TableNumber),
	})
	switch {
	case errors.Is(err, table.ErrNotFound):
		respondFail(w, http.StatusNotFound, "Table not found")
	case err != nil:
		respondError(w, r, "Failed to update table", err)
	default:
		respondMessage(w, "Table updated successfully", toTableDTO(*t))
	}
}

func (h *Handler) deleteTable(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	err := h.tables.Delete(r.Context(), id)
	switch {
	case errors.Is(err, table.ErrNotFound):
		respondFail(w, http.StatusNotFound, "Table not found")
	case err != nil:
		respondError(w, r, "Failed to delete table", err)
	default:
		respondMessage(w, "Table deleted successfully", nil)
	}
}
