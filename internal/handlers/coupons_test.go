package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	domain "github.com/shopease/api/internal/domain"
	"github.com/shopease/api/internal/services"
)

type stubCouponService struct {
	resolveFn    func(ctx context.Context, code string) (domain.Coupon, error)
	listValidFn  func(ctx context.Context) ([]domain.Coupon, error)
	checkFn      func(ctx context.Context, code string) error
	adminListFn  func(ctx context.Context, cmd services.AdminListCouponsCommand) (domain.CountedPage[domain.Coupon], error)
	createFn     func(ctx context.Context, cmd services.UpsertCouponCommand) (domain.Coupon, error)
	getFn        func(ctx context.Context, couponID string) (domain.Coupon, error)
	updateFn     func(ctx context.Context, couponID string, cmd services.UpsertCouponCommand) (domain.Coupon, error)
	deleteFn     func(ctx context.Context, couponID string) error
	activateFn   func(ctx context.Context, couponID, actorID string) (domain.Coupon, error)
	deactivateFn func(ctx context.Context, couponID, actorID string) (domain.Coupon, error)
	expireDueFn  func(ctx context.Context) (int, error)
}

func (s *stubCouponService) ResolveForOrder(ctx context.Context, code string) (domain.Coupon, error) {
	if s.resolveFn == nil {
		return domain.Coupon{}, errors.New("unexpected ResolveForOrder call")
	}
	return s.resolveFn(ctx, code)
}

func (s *stubCouponService) ListValid(ctx context.Context) ([]domain.Coupon, error) {
	if s.listValidFn == nil {
		return nil, errors.New("unexpected ListValid call")
	}
	return s.listValidFn(ctx)
}

func (s *stubCouponService) CheckValidity(ctx context.Context, code string) error {
	if s.checkFn == nil {
		return errors.New("unexpected CheckValidity call")
	}
	return s.checkFn(ctx, code)
}

func (s *stubCouponService) AdminList(ctx context.Context, cmd services.AdminListCouponsCommand) (domain.CountedPage[domain.Coupon], error) {
	if s.adminListFn == nil {
		return domain.CountedPage[domain.Coupon]{}, errors.New("unexpected AdminList call")
	}
	return s.adminListFn(ctx, cmd)
}

func (s *stubCouponService) Create(ctx context.Context, cmd services.UpsertCouponCommand) (domain.Coupon, error) {
	if s.createFn == nil {
		return domain.Coupon{}, errors.New("unexpected Create call")
	}
	return s.createFn(ctx, cmd)
}

func (s *stubCouponService) Get(ctx context.Context, couponID string) (domain.Coupon, error) {
	if s.getFn == nil {
		return domain.Coupon{}, errors.New("unexpected Get call")
	}
	return s.getFn(ctx, couponID)
}

func (s *stubCouponService) Update(ctx context.Context, couponID string, cmd services.UpsertCouponCommand) (domain.Coupon, error) {
	if s.updateFn == nil {
		return domain.Coupon{}, errors.New("unexpected Update call")
	}
	return s.updateFn(ctx, couponID, cmd)
}

func (s *stubCouponService) Delete(ctx context.Context, couponID string) error {
	if s.deleteFn == nil {
		return errors.New("unexpected Delete call")
	}
	return s.deleteFn(ctx, couponID)
}

func (s *stubCouponService) Activate(ctx context.Context, couponID string, actorID string) (domain.Coupon, error) {
	if s.activateFn == nil {
		return domain.Coupon{}, errors.New("unexpected Activate call")
	}
	return s.activateFn(ctx, couponID, actorID)
}

func (s *stubCouponService) Deactivate(ctx context.Context, couponID string, actorID string) (domain.Coupon, error) {
	if s.deactivateFn == nil {
		return domain.Coupon{}, errors.New("unexpected Deactivate call")
	}
	return s.deactivateFn(ctx, couponID, actorID)
}

func (s *stubCouponService) ExpireDue(ctx context.Context) (int, error) {
	if s.expireDueFn == nil {
		return 0, errors.New("unexpected ExpireDue call")
	}
	return s.expireDueFn(ctx)
}

var _ services.CouponService = (*stubCouponService)(nil)

func couponRouter(svc services.CouponService) chi.Router {
	h := NewCouponHandlers(nil, svc)
	r := chi.NewRouter()
	r.Route("/coupons", h.Routes)
	return r
}

func sampleCoupon() domain.Coupon {
	flat := int64(10000)
	return domain.Coupon{
		ID:           "cpn_1",
		Code:         "SAVE100",
		DiscountType: domain.DiscountTypeFlat,
		FlatDiscount: &flat,
		ExpiryDate:   time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
		Status:       domain.CouponStatusActive,
		CreatedBy:    "admin_1",
		CreatedAt:    time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestListValidCouponsEndpoint(t *testing.T) {
	svc := &stubCouponService{
		listValidFn: func(context.Context) ([]domain.Coupon, error) {
			return []domain.Coupon{sampleCoupon()}, nil
		},
	}
	router := couponRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/coupons", "", customerIdentity()))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	coupons, ok := body["coupons"].([]any)
	if !ok || len(coupons) != 1 {
		t.Fatalf("expected one coupon, got %v", body["coupons"])
	}
	coupon := coupons[0].(map[string]any)
	if coupon["code"] != "SAVE100" || coupon["flatDiscount"] != float64(10000) {
		t.Errorf("unexpected coupon payload %v", coupon)
	}
}

func TestCheckCouponEndpoint(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		wantCode  int
		wantValid any
	}{
		{"usable", nil, http.StatusOK, true},
		{"unusable", fmt.Errorf("%w: SAVE100", services.ErrCouponInvalid), http.StatusOK, false},
		{"unknown", services.ErrCouponNotFound, http.StatusNotFound, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubCouponService{
				checkFn: func(_ context.Context, code string) error {
					if code != "SAVE100" {
						t.Errorf("unexpected code %q", code)
					}
					return tc.err
				},
			}
			router := couponRouter(svc)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, authedRequest(http.MethodGet, "/coupons/check?code=SAVE100", "", customerIdentity()))

			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			body := decodeBody(t, rec)
			if tc.wantValid != nil && body["valid"] != tc.wantValid {
				t.Errorf("expected valid=%v, got %v", tc.wantValid, body["valid"])
			}
			if tc.wantValid == false && body["reason"] == nil {
				t.Error("expected a reason for an unusable coupon")
			}
		})
	}
}

func TestCheckCouponEndpointRequiresCode(t *testing.T) {
	router := couponRouter(&stubCouponService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/coupons/check", "", customerIdentity()))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "invalid_request" {
		t.Errorf("unexpected error code %v", body["error"])
	}
}
