package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	domain "github.com/shopease/api/internal/domain"
	"github.com/shopease/api/internal/platform/httpx"
	"github.com/shopease/api/internal/platform/pagination"
	"github.com/shopease/api/internal/services"
)

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

// AdminOrderHandlers exposes the back-office order management endpoints.
type AdminOrderHandlers struct {
	orders services.OrderService
}

// NewAdminOrderHandlers constructs a new AdminOrderHandlers instance.
func NewAdminOrderHandlers(orders services.OrderService) *AdminOrderHandlers {
	return &AdminOrderHandlers{orders: orders}
}

// Routes registers the /admin/orders endpoints. Role enforcement happens in
// the admin group middleware.
func (h *AdminOrderHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.listOrders)
	r.Get("/{orderID}", h.getOrder)
	r.Put("/{orderID}", h.updateStatus)
	r.Delete("/{orderID}", h.deleteOrder)
}

func (h *AdminOrderHandlers) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	daysInPast, err := parseDaysParam(query.Get("daysInPast"))
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "daysInPast must be a non-negative integer", http.StatusBadRequest))
		return
	}

	statuses, err := parseOrderStatuses(parseMultiParam(query["status"]))
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	paid, err := parseBoolParam(query.Get("paid"))
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "paid must be true or false", http.StatusBadRequest))
		return
	}

	sort, err := parseOrderSort(query.Get("sort"))
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	params, err := pagination.FromRequest(r, pagination.Options{
		DefaultLimit: defaultOrderPageSize,
		MaxLimit:     maxOrderPageSize,
	})
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	page, err := h.orders.AdminList(ctx, services.AdminListOrdersCommand{
		DaysInPast: daysInPast,
		Statuses:   statuses,
		Paid:       paid,
		Sort:       sort,
		Page:       domain.Page{Number: params.Page, Size: params.Limit},
	})
	if err != nil {
		writeOrderError(ctx, w, err)
		return
	}

	pagination.WriteTotalCount(w, page.Total)
	writeJSON(w, http.StatusOK, map[string]any{
		"orders": newOrderListPayload(page.Items),
		"total":  page.Total,
	})
}

func (h *AdminOrderHandlers) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	order, err := h.orders.AdminGet(ctx, chi.URLParam(r, "orderID"))
	if err != nil {
		writeOrderError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, newOrderPayload(order))
}

func (h *AdminOrderHandlers) updateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req updateOrderStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	order, err := h.orders.UpdateStatus(ctx, services.UpdateOrderStatusCommand{
		Actor:   identity.ToDomain(),
		OrderID: chi.URLParam(r, "orderID"),
		Status:  domain.OrderStatus(strings.ToLower(strings.TrimSpace(req.Status))),
	})
	if err != nil {
		writeOrderError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, newOrderPayload(order))
}

func (h *AdminOrderHandlers) deleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	message, err := h.orders.Delete(ctx, services.DeleteOrderCommand{
		Actor:   identity.ToDomain(),
		OrderID: chi.URLParam(r, "orderID"),
	})
	if err != nil {
		writeOrderError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": message})
}

func parseOrderStatuses(values []string) ([]domain.OrderStatus, error) {
	if len(values) == 0 {
		return nil, nil
	}
	valid := map[domain.OrderStatus]struct{}{
		domain.OrderStatusCreated:    {},
		domain.OrderStatusProcessing: {},
		domain.OrderStatusShipped:    {},
		domain.OrderStatusDelivered:  {},
		domain.OrderStatusCancelled:  {},
	}
	statuses := make([]domain.OrderStatus, 0, len(values))
	for _, value := range values {
		status := domain.OrderStatus(strings.ToLower(value))
		if _, ok := valid[status]; !ok {
			return nil, fmtInvalidEnum("status", value)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func parseOrderSort(raw string) (domain.OrderSort, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return domain.OrderSortNewest, nil
	case string(domain.OrderSortNewest):
		return domain.OrderSortNewest, nil
	case string(domain.OrderSortOldest):
		return domain.OrderSortOldest, nil
	case string(domain.OrderSortAmountHighToLow):
		return domain.OrderSortAmountHighToLow, nil
	case string(domain.OrderSortAmountLowToHigh):
		return domain.OrderSortAmountLowToHigh, nil
	default:
		return "", fmtInvalidEnum("sort", raw)
	}
}
