package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	domain "github.com/shopease/api/internal/domain"
	"github.com/shopease/api/internal/platform/auth"
	"github.com/shopease/api/internal/platform/pagination"
	"github.com/shopease/api/internal/services"
)

type stubOrderService struct {
	createFn       func(ctx context.Context, cmd services.CreateOrderCommand) (domain.Order, error)
	confirmFn      func(ctx context.Context, cmd services.ConfirmOrderCommand) (domain.Order, error)
	cancelFn       func(ctx context.Context, cmd services.CancelOrderCommand) (domain.Order, error)
	listForUserFn  func(ctx context.Context, cmd services.ListOrdersCommand) (domain.CountedPage[domain.Order], error)
	getForUserFn   func(ctx context.Context, actor domain.Identity, orderID string) (domain.Order, error)
	adminListFn    func(ctx context.Context, cmd services.AdminListOrdersCommand) (domain.CountedPage[domain.Order], error)
	adminGetFn     func(ctx context.Context, orderID string) (domain.Order, error)
	updateStatusFn func(ctx context.Context, cmd services.UpdateOrderStatusCommand) (domain.Order, error)
	deleteFn       func(ctx context.Context, cmd services.DeleteOrderCommand) (string, error)
}

func (s *stubOrderService) Create(ctx context.Context, cmd services.CreateOrderCommand) (domain.Order, error) {
	if s.createFn == nil {
		return domain.Order{}, errors.New("unexpected Create call")
	}
	return s.createFn(ctx, cmd)
}

func (s *stubOrderService) Confirm(ctx context.Context, cmd services.ConfirmOrderCommand) (domain.Order, error) {
	if s.confirmFn == nil {
		return domain.Order{}, errors.New("unexpected Confirm call")
	}
	return s.confirmFn(ctx, cmd)
}

func (s *stubOrderService) Cancel(ctx context.Context, cmd services.CancelOrderCommand) (domain.Order, error) {
	if s.cancelFn == nil {
		return domain.Order{}, errors.New("unexpected Cancel call")
	}
	return s.cancelFn(ctx, cmd)
}

func (s *stubOrderService) ListForUser(ctx context.Context, cmd services.ListOrdersCommand) (domain.CountedPage[domain.Order], error) {
	if s.listForUserFn == nil {
		return domain.CountedPage[domain.Order]{}, errors.New("unexpected ListForUser call")
	}
	return s.listForUserFn(ctx, cmd)
}

func (s *stubOrderService) GetForUser(ctx context.Context, actor domain.Identity, orderID string) (domain.Order, error) {
	if s.getForUserFn == nil {
		return domain.Order{}, errors.New("unexpected GetForUser call")
	}
	return s.getForUserFn(ctx, actor, orderID)
}

func (s *stubOrderService) AdminList(ctx context.Context, cmd services.AdminListOrdersCommand) (domain.CountedPage[domain.Order], error) {
	if s.adminListFn == nil {
		return domain.CountedPage[domain.Order]{}, errors.New("unexpected AdminList call")
	}
	return s.adminListFn(ctx, cmd)
}

func (s *stubOrderService) AdminGet(ctx context.Context, orderID string) (domain.Order, error) {
	if s.adminGetFn == nil {
		return domain.Order{}, errors.New("unexpected AdminGet call")
	}
	return s.adminGetFn(ctx, orderID)
}

func (s *stubOrderService) UpdateStatus(ctx context.Context, cmd services.UpdateOrderStatusCommand) (domain.Order, error) {
	if s.updateStatusFn == nil {
		return domain.Order{}, errors.New("unexpected UpdateStatus call")
	}
	return s.updateStatusFn(ctx, cmd)
}

func (s *stubOrderService) Delete(ctx context.Context, cmd services.DeleteOrderCommand) (string, error) {
	if s.deleteFn == nil {
		return "", errors.New("unexpected Delete call")
	}
	return s.deleteFn(ctx, cmd)
}

var _ services.OrderService = (*stubOrderService)(nil)

func customerIdentity() *auth.Identity {
	return &auth.Identity{UserID: "user_1", Email: "asha@example.com", Name: "Asha", Role: auth.RoleUser}
}

func adminIdentity() *auth.Identity {
	return &auth.Identity{UserID: "admin_1", Email: "ops@example.com", Name: "Ops", Role: auth.RoleAdmin}
}

// authedRequest builds a request carrying a verified identity, the way the
// auth middleware would hand it downstream.
func authedRequest(method, target string, body string, identity *auth.Identity) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if identity != nil {
		req = req.WithContext(auth.WithIdentity(req.Context(), identity))
	}
	return req
}

func orderRouter(svc services.OrderService) chi.Router {
	h := NewOrderHandlers(nil, svc)
	r := chi.NewRouter()
	r.Route("/orders", h.Routes)
	return r
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v\n%s", err, rec.Body.String())
	}
	return body
}

func sampleOrder() domain.Order {
	paymentID := "pay_123"
	created := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	return domain.Order{
		ID:     "order_G123",
		UserID: "user_1",
		Items: []domain.OrderItem{
			{ProductID: "prod_1", Name: "Steel Bottle", Quantity: 2, UnitPrice: 50000},
		},
		Totals:            domain.OrderTotals{OrderAmount: 100000, ShippingCharges: 3000, TaxAmount: 18540, TotalAmount: 121540},
		ShippingAddressID: "addr_1",
		DeliveryMode:      domain.DeliveryModeStandard,
		PaymentMethod:     "card",
		IsPaid:            true,
		PaymentID:         &paymentID,
		Status:            domain.OrderStatusCreated,
		CreatedAt:         created,
		UpdatedAt:         created,
	}
}

func TestCreateOrderEndpoint(t *testing.T) {
	var captured services.CreateOrderCommand
	svc := &stubOrderService{
		createFn: func(_ context.Context, cmd services.CreateOrderCommand) (domain.Order, error) {
			captured = cmd
			order := sampleOrder()
			order.IsPaid = false
			order.PaymentID = nil
			return order, nil
		},
	}
	router := orderRouter(svc)

	payload := `{
		"items": [{"productId": "prod_1", "quantity": 2}],
		"couponCode": "SAVE100",
		"shippingAddressId": "addr_1",
		"deliveryMode": "Standard",
		"paymentMethod": "card"
	}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/orders", payload, customerIdentity()))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["id"] != "order_G123" {
		t.Errorf("unexpected order id %v", body["id"])
	}
	if body["totalAmount"] != float64(121540) {
		t.Errorf("unexpected total %v", body["totalAmount"])
	}
	if body["isPaid"] != false {
		t.Errorf("new orders must report unpaid")
	}

	if captured.Actor.UserID != "user_1" {
		t.Errorf("expected actor from identity, got %q", captured.Actor.UserID)
	}
	if captured.DeliveryMode != domain.DeliveryModeStandard {
		t.Errorf("expected lowercased delivery mode, got %q", captured.DeliveryMode)
	}
	if len(captured.Items) != 1 || captured.Items[0].ProductID != "prod_1" || captured.Items[0].Quantity != 2 {
		t.Errorf("unexpected items %v", captured.Items)
	}
}

func TestCreateOrderEndpointRejectsBadBody(t *testing.T) {
	router := orderRouter(&stubOrderService{})

	cases := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"malformed json", `{"items": `},
		{"unknown field", `{"items": [], "surprise": true}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, authedRequest(http.MethodPost, "/orders", tc.body, customerIdentity()))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if body := decodeBody(t, rec); body["error"] != "invalid_request" {
				t.Errorf("unexpected error code %v", body["error"])
			}
		})
	}
}

func TestCreateOrderEndpointRequiresIdentity(t *testing.T) {
	router := orderRouter(&stubOrderService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/orders", `{"items": []}`, nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "unauthenticated" {
		t.Errorf("unexpected error code %v", body["error"])
	}
}

func TestCreateOrderEndpointErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid input", services.ErrOrderInvalidInput, http.StatusBadRequest, "invalid_request"},
		{"out of stock", services.ErrProductOutOfStock, http.StatusConflict, "order_conflict"},
		{"insufficient stock", services.ErrInsufficientStock, http.StatusConflict, "order_conflict"},
		{"product missing", services.ErrProductNotFound, http.StatusNotFound, "product_not_found"},
		{"coupon missing", services.ErrCouponNotFound, http.StatusNotFound, "coupon_not_found"},
		{"coupon unusable", services.ErrCouponInvalid, http.StatusBadRequest, "coupon_invalid"},
		{"discount floor", services.ErrPricingDiscountFloor, http.StatusBadRequest, "discount_exceeds_order"},
		{"foreign address", services.ErrOrderForbidden, http.StatusForbidden, "forbidden"},
		{"gateway down", services.ErrPaymentGateway, http.StatusBadGateway, "payment_gateway_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubOrderService{
				createFn: func(context.Context, services.CreateOrderCommand) (domain.Order, error) {
					return domain.Order{}, tc.err
				},
			}
			router := orderRouter(svc)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, authedRequest(http.MethodPost, "/orders", `{"items": []}`, customerIdentity()))

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
			if body := decodeBody(t, rec); body["error"] != tc.wantCode {
				t.Errorf("expected code %q, got %v", tc.wantCode, body["error"])
			}
		})
	}
}

func TestConfirmOrderEndpoint(t *testing.T) {
	var captured services.ConfirmOrderCommand
	svc := &stubOrderService{
		confirmFn: func(_ context.Context, cmd services.ConfirmOrderCommand) (domain.Order, error) {
			captured = cmd
			return sampleOrder(), nil
		},
	}
	router := orderRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPut, "/orders/order_G123/confirm",
		`{"paymentId": "pay_123", "signature": "abc123"}`, customerIdentity()))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.OrderID != "order_G123" || captured.PaymentID != "pay_123" || captured.PaymentSignature != "abc123" {
		t.Errorf("unexpected command %+v", captured)
	}
	if body := decodeBody(t, rec); body["isPaid"] != true {
		t.Errorf("expected paid order in response")
	}
}

func TestConfirmOrderEndpointSignatureFailure(t *testing.T) {
	svc := &stubOrderService{
		confirmFn: func(context.Context, services.ConfirmOrderCommand) (domain.Order, error) {
			return domain.Order{}, services.ErrOrderInvalidSignature
		},
	}
	router := orderRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPut, "/orders/order_G123/confirm",
		`{"paymentId": "pay_123", "signature": "bad"}`, customerIdentity()))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "invalid_payment_signature" {
		t.Errorf("unexpected error code %v", body["error"])
	}
}

func TestConfirmOrderEndpointNotificationFailureKeepsOrder(t *testing.T) {
	svc := &stubOrderService{
		confirmFn: func(context.Context, services.ConfirmOrderCommand) (domain.Order, error) {
			return sampleOrder(), services.ErrNotificationFailed
		},
	}
	router := orderRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPut, "/orders/order_G123/confirm",
		`{"paymentId": "pay_123", "signature": "abc123"}`, customerIdentity()))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error"] != "notification_failed" {
		t.Errorf("unexpected error code %v", body["error"])
	}
	order, ok := body["order"].(map[string]any)
	if !ok {
		t.Fatalf("expected committed order embedded in response, got %v", body)
	}
	if order["id"] != "order_G123" {
		t.Errorf("unexpected embedded order %v", order)
	}
}

func TestCancelOrderEndpointConflicts(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"already cancelled", services.ErrOrderAlreadyCancelled},
		{"delivered", services.ErrOrderNotCancellable},
		{"unpaid", services.ErrOrderUnpaid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubOrderService{
				cancelFn: func(context.Context, services.CancelOrderCommand) (domain.Order, error) {
					return domain.Order{}, tc.err
				},
			}
			router := orderRouter(svc)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, authedRequest(http.MethodPut, "/orders/order_G123/cancel", "", customerIdentity()))

			if rec.Code != http.StatusConflict {
				t.Fatalf("expected 409, got %d", rec.Code)
			}
			if body := decodeBody(t, rec); body["error"] != "order_conflict" {
				t.Errorf("unexpected error code %v", body["error"])
			}
		})
	}
}

func TestListOrdersEndpoint(t *testing.T) {
	var captured services.ListOrdersCommand
	svc := &stubOrderService{
		listForUserFn: func(_ context.Context, cmd services.ListOrdersCommand) (domain.CountedPage[domain.Order], error) {
			captured = cmd
			return domain.CountedPage[domain.Order]{Items: []domain.Order{sampleOrder()}, Total: 27}, nil
		},
	}
	router := orderRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/orders?daysInPast=7&page=3&limit=5", "", customerIdentity()))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get(pagination.TotalCountHeader); got != "27" {
		t.Errorf("expected X-Total-Count 27, got %q", got)
	}
	body := decodeBody(t, rec)
	if body["total"] != float64(27) {
		t.Errorf("unexpected total %v", body["total"])
	}
	orders, ok := body["orders"].([]any)
	if !ok || len(orders) != 1 {
		t.Fatalf("expected one order in body, got %v", body["orders"])
	}

	if captured.DaysInPast != 7 {
		t.Errorf("expected daysInPast 7, got %d", captured.DaysInPast)
	}
	if captured.Page.Number != 3 || captured.Page.Size != 5 {
		t.Errorf("unexpected page %+v", captured.Page)
	}
}

func TestListOrdersEndpointRejectsBadQuery(t *testing.T) {
	router := orderRouter(&stubOrderService{})

	for _, target := range []string{
		"/orders?daysInPast=abc",
		"/orders?daysInPast=-1",
		"/orders?page=0",
		"/orders?limit=nope",
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authedRequest(http.MethodGet, target, "", customerIdentity()))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestGetOrderEndpointNotFound(t *testing.T) {
	svc := &stubOrderService{
		getForUserFn: func(context.Context, domain.Identity, string) (domain.Order, error) {
			return domain.Order{}, services.ErrOrderNotFound
		},
	}
	router := orderRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/orders/order_missing", "", customerIdentity()))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "order_not_found" {
		t.Errorf("unexpected error code %v", body["error"])
	}
}
