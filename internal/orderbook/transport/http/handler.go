package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"otcbook/internal/orderbook"
	"otcbook/internal/orderbook/service"
)

type Handler struct {
	Service *service.Service
	Title   string
	logger  *zap.Logger
}

func NewHandler(svc *service.Service, title string, logger *zap.Logger) *Handler {
	return &Handler{Service: svc, Title: title, logger: logger}
}

// Register вешает страницы на корневой роутер, JSON - на api
func (h *Handler) Register(r chi.Router, api chi.Router) {
	r.Get(orderbook.PagePath, h.ViewOrderBook)
	r.Get("/vieworder/{id}", h.ViewOrder)

	api.Get("/orders", h.ListOrders)
	api.Get("/orders/{id}", h.GetOrder)
}

// paramsFromRequest: отсутствующий параметр остаётся nil
func paramsFromRequest(r *http.Request) orderbook.RequestParams {
	q := r.URL.Query()
	var p orderbook.RequestParams
	if v, ok := q["sortby"]; ok && len(v) > 0 {
		p.SortBy = &v[0]
	}
	if v, ok := q["sortorder"]; ok && len(v) > 0 {
		p.SortOrder = &v[0]
	}
	return p
}

func (h *Handler) ViewOrderBook(w http.ResponseWriter, r *http.Request) {
	page, err := h.Service.Page(r.Context(), paramsFromRequest(r))
	if err != nil {
		h.storeError(w, err)
		return
	}

	// Рендерим в буфер, чтобы не отдавать половину страницы
	var buf bytes.Buffer
	err = pageTmpl.Execute(&buf, struct {
		Title string
		Page  *service.Page
	}{Title: h.Title, Page: page})
	if err != nil {
		h.logger.Error("render order book failed", zap.Error(err))
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (h *Handler) ViewOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	row, err := h.Service.GetOrder(r.Context(), id)
	if err != nil {
		h.storeError(w, err)
		return
	}

	var buf bytes.Buffer
	err = detailTmpl.Execute(&buf, struct {
		Title string
		Row   *service.FormattedRow
	}{Title: h.Title, Row: row})
	if err != nil {
		h.logger.Error("render order failed", zap.Int64("id", id), zap.Error(err))
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	page, err := h.Service.Page(r.Context(), paramsFromRequest(r))
	if err != nil {
		h.storeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(page)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	row, err := h.Service.GetOrder(r.Context(), id)
	if err != nil {
		h.storeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(row)
}

func orderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (h *Handler) storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrStoreUnavailable):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		h.logger.Error("order store error", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
