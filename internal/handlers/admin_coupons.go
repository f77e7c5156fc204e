package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	domain "github.com/shopease/api/internal/domain"
	"github.com/shopease/api/internal/platform/httpx"
	"github.com/shopease/api/internal/platform/pagination"
	"github.com/shopease/api/internal/services"
)

const (
	defaultCouponPageSize = 10
	maxCouponPageSize     = 100
)

type upsertCouponRequest struct {
	Code               string `json:"code"`
	DiscountType       string `json:"discountType"`
	FlatDiscount       *int64 `json:"flatDiscount"`
	PercentageDiscount *int   `json:"percentageDiscount"`
	ExpiryDate         string `json:"expiryDate"`
}

// AdminCouponHandlers exposes the back-office coupon CRUD endpoints.
type AdminCouponHandlers struct {
	coupons services.CouponService
}

// NewAdminCouponHandlers constructs a new AdminCouponHandlers instance.
func NewAdminCouponHandlers(coupons services.CouponService) *AdminCouponHandlers {
	return &AdminCouponHandlers{coupons: coupons}
}

// Routes registers the /admin/coupons endpoints.
func (h *AdminCouponHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.listCoupons)
	r.Post("/", h.createCoupon)
	r.Get("/{couponID}", h.getCoupon)
	r.Patch("/{couponID}", h.updateCoupon)
	r.Delete("/{couponID}", h.deleteCoupon)
	r.Put("/{couponID}/activate", h.activateCoupon)
	r.Put("/{couponID}/deactivate", h.deactivateCoupon)
}

func (h *AdminCouponHandlers) listCoupons(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	daysUntilExpiration, err := parseDaysParam(query.Get("daysUntilExpiration"))
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "daysUntilExpiration must be a non-negative integer", http.StatusBadRequest))
		return
	}

	discountTypes, err := parseDiscountTypes(parseMultiParam(query["discountType"]))
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	statuses, err := parseCouponStatuses(parseMultiParam(query["status"]))
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	sort, err := parseCouponSort(query.Get("sort"))
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	params, err := pagination.FromRequest(r, pagination.Options{
		DefaultLimit: defaultCouponPageSize,
		MaxLimit:     maxCouponPageSize,
	})
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	page, err := h.coupons.AdminList(ctx, services.AdminListCouponsCommand{
		DaysUntilExpiration: daysUntilExpiration,
		DiscountTypes:       discountTypes,
		Statuses:            statuses,
		Sort:                sort,
		Page:                domain.Page{Number: params.Page, Size: params.Limit},
	})
	if err != nil {
		writeCouponError(ctx, w, err)
		return
	}

	pagination.WriteTotalCount(w, page.Total)
	writeJSON(w, http.StatusOK, map[string]any{
		"coupons": newCouponListPayload(page.Items),
		"total":   page.Total,
	})
}

func (h *AdminCouponHandlers) createCoupon(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	cmd, ok := h.decodeUpsert(w, r, identity.UserID)
	if !ok {
		return
	}

	coupon, err := h.coupons.Create(ctx, cmd)
	if err != nil {
		writeCouponError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newCouponPayload(coupon))
}

func (h *AdminCouponHandlers) getCoupon(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	coupon, err := h.coupons.Get(ctx, chi.URLParam(r, "couponID"))
	if err != nil {
		writeCouponError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, newCouponPayload(coupon))
}

func (h *AdminCouponHandlers) updateCoupon(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	cmd, ok := h.decodeUpsert(w, r, identity.UserID)
	if !ok {
		return
	}

	coupon, err := h.coupons.Update(ctx, chi.URLParam(r, "couponID"), cmd)
	if err != nil {
		writeCouponError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, newCouponPayload(coupon))
}

func (h *AdminCouponHandlers) deleteCoupon(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.coupons.Delete(ctx, chi.URLParam(r, "couponID")); err != nil {
		writeCouponError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": "coupon deleted"})
}

func (h *AdminCouponHandlers) activateCoupon(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	coupon, err := h.coupons.Activate(ctx, chi.URLParam(r, "couponID"), identity.UserID)
	if err != nil {
		writeCouponError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, newCouponPayload(coupon))
}

func (h *AdminCouponHandlers) deactivateCoupon(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	coupon, err := h.coupons.Deactivate(ctx, chi.URLParam(r, "couponID"), identity.UserID)
	if err != nil {
		writeCouponError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, newCouponPayload(coupon))
}

func (h *AdminCouponHandlers) decodeUpsert(w http.ResponseWriter, r *http.Request, actorID string) (services.UpsertCouponCommand, bool) {
	ctx := r.Context()

	var req upsertCouponRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return services.UpsertCouponCommand{}, false
	}

	var expiry time.Time
	if raw := strings.TrimSpace(req.ExpiryDate); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "expiryDate must be a valid RFC3339 timestamp", http.StatusBadRequest))
			return services.UpsertCouponCommand{}, false
		}
		expiry = parsed
	}

	return services.UpsertCouponCommand{
		Code:               req.Code,
		DiscountType:       domain.DiscountType(strings.ToLower(strings.TrimSpace(req.DiscountType))),
		FlatDiscount:       req.FlatDiscount,
		PercentageDiscount: req.PercentageDiscount,
		ExpiryDate:         expiry,
		ActorID:            actorID,
	}, true
}

func parseDiscountTypes(values []string) ([]domain.DiscountType, error) {
	if len(values) == 0 {
		return nil, nil
	}
	types := make([]domain.DiscountType, 0, len(values))
	for _, value := range values {
		switch dt := domain.DiscountType(strings.ToLower(value)); dt {
		case domain.DiscountTypeFlat, domain.DiscountTypePercentage:
			types = append(types, dt)
		default:
			return nil, fmtInvalidEnum("discountType", value)
		}
	}
	return types, nil
}

func parseCouponStatuses(values []string) ([]domain.CouponStatus, error) {
	if len(values) == 0 {
		return nil, nil
	}
	statuses := make([]domain.CouponStatus, 0, len(values))
	for _, value := range values {
		switch st := domain.CouponStatus(strings.ToLower(value)); st {
		case domain.CouponStatusActive, domain.CouponStatusInactive, domain.CouponStatusExpired:
			statuses = append(statuses, st)
		default:
			return nil, fmtInvalidEnum("status", value)
		}
	}
	return statuses, nil
}

func parseCouponSort(raw string) (domain.CouponSort, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return domain.CouponSortNewest, nil
	case string(domain.CouponSortNewest):
		return domain.CouponSortNewest, nil
	case string(domain.CouponSortExpiringSoon):
		return domain.CouponSortExpiringSoon, nil
	default:
		return "", fmtInvalidEnum("sort", raw)
	}
}
