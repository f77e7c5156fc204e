package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	domain "github.com/shopease/api/internal/domain"
	"github.com/shopease/api/internal/platform/auth"
	"github.com/shopease/api/internal/platform/httpx"
	"github.com/shopease/api/internal/platform/pagination"
	"github.com/shopease/api/internal/services"
)

const (
	defaultOrderPageSize = 10
	maxOrderPageSize     = 100
)

type createOrderItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type createOrderRequest struct {
	Items             []createOrderItemRequest `json:"items"`
	CouponCode        string                   `json:"couponCode"`
	ShippingAddressID string                   `json:"shippingAddressId"`
	DeliveryMode      string                   `json:"deliveryMode"`
	PaymentMethod     string                   `json:"paymentMethod"`
}

type confirmOrderRequest struct {
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
}

// OrderHandlers exposes the storefront order lifecycle endpoints.
type OrderHandlers struct {
	authn  *auth.Authenticator
	orders services.OrderService
}

// NewOrderHandlers constructs a new OrderHandlers instance.
func NewOrderHandlers(authn *auth.Authenticator, orders services.OrderService) *OrderHandlers {
	return &OrderHandlers{
		authn:  authn,
		orders: orders,
	}
}

// Routes registers the /orders endpoints.
func (h *OrderHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	if h.authn != nil {
		r.Use(h.authn.RequireAuth())
	}
	r.Post("/", h.createOrder)
	r.Get("/", h.listOrders)
	r.Get("/{orderID}", h.getOrder)
	r.Put("/{orderID}/confirm", h.confirmOrder)
	r.Put("/{orderID}/cancel", h.cancelOrder)
}

func (h *OrderHandlers) createOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.orders == nil {
		httpx.WriteError(ctx, w, httpx.NewError("order_service_unavailable", "order service unavailable", http.StatusServiceUnavailable))
		return
	}

	var req createOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	items := make([]domain.CartItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, domain.CartItem{
			ProductID: strings.TrimSpace(item.ProductID),
			Quantity:  item.Quantity,
		})
	}

	order, err := h.orders.Create(ctx, services.CreateOrderCommand{
		Actor:             identity.ToDomain(),
		Items:             items,
		CouponCode:        strings.TrimSpace(req.CouponCode),
		ShippingAddressID: strings.TrimSpace(req.ShippingAddressID),
		DeliveryMode:      domain.DeliveryMode(strings.ToLower(strings.TrimSpace(req.DeliveryMode))),
		PaymentMethod:     strings.TrimSpace(req.PaymentMethod),
	})
	if err != nil {
		writeOrderError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newOrderPayload(order))
}

func (h *OrderHandlers) confirmOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req confirmOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	order, err := h.orders.Confirm(ctx, services.ConfirmOrderCommand{
		Actor:            identity.ToDomain(),
		OrderID:          chi.URLParam(r, "orderID"),
		PaymentID:        strings.TrimSpace(req.PaymentID),
		PaymentSignature: strings.TrimSpace(req.Signature),
	})
	if err != nil {
		writeOrderStateResult(ctx, w, order, err)
		return
	}

	writeJSON(w, http.StatusOK, newOrderPayload(order))
}

func (h *OrderHandlers) cancelOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	order, err := h.orders.Cancel(ctx, services.CancelOrderCommand{
		Actor:   identity.ToDomain(),
		OrderID: chi.URLParam(r, "orderID"),
	})
	if err != nil {
		writeOrderStateResult(ctx, w, order, err)
		return
	}

	writeJSON(w, http.StatusOK, newOrderPayload(order))
}

func (h *OrderHandlers) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	daysInPast, err := parseDaysParam(r.URL.Query().Get("daysInPast"))
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "daysInPast must be a non-negative integer", http.StatusBadRequest))
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

	page, err := h.orders.ListForUser(ctx, services.ListOrdersCommand{
		Actor:      identity.ToDomain(),
		DaysInPast: daysInPast,
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

func (h *OrderHandlers) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	order, err := h.orders.GetForUser(ctx, identity.ToDomain(), chi.URLParam(r, "orderID"))
	if err != nil {
		writeOrderError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, newOrderPayload(order))
}

// writeOrderStateResult handles the post-commit notification edge: the order
// state change stuck, only the email publish failed, so the caller gets the
// updated order alongside the gateway-style error.
func writeOrderStateResult(ctx context.Context, w http.ResponseWriter, order domain.Order, err error) {
	if errors.Is(err, services.ErrNotificationFailed) {
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error":   "notification_failed",
			"message": "order processed but notification could not be queued",
			"status":  http.StatusBadGateway,
			"order":   newOrderPayload(order),
		})
		return
	}
	writeOrderError(ctx, w, err)
}

func requireIdentity(w http.ResponseWriter, r *http.Request) (*auth.Identity, bool) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok || strings.TrimSpace(identity.UserID) == "" {
		httpx.WriteError(r.Context(), w, httpx.NewError("unauthenticated", "authentication required", http.StatusUnauthorized))
		return nil, false
	}
	return identity, true
}

func parseDaysParam(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 0 {
		return 0, errors.New("invalid days value")
	}
	return days, nil
}
