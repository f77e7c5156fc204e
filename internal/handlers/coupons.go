package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/shopease/api/internal/platform/auth"
	"github.com/shopease/api/internal/platform/httpx"
	"github.com/shopease/api/internal/services"
)

// CouponHandlers exposes the storefront coupon read endpoints.
type CouponHandlers struct {
	authn   *auth.Authenticator
	coupons services.CouponService
}

// NewCouponHandlers constructs a new CouponHandlers instance.
func NewCouponHandlers(authn *auth.Authenticator, coupons services.CouponService) *CouponHandlers {
	return &CouponHandlers{
		authn:   authn,
		coupons: coupons,
	}
}

// Routes registers the /coupons endpoints.
func (h *CouponHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	if h.authn != nil {
		r.Use(h.authn.RequireAuth())
	}
	r.Get("/", h.listValid)
	r.Get("/check", h.checkValidity)
}

func (h *CouponHandlers) listValid(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	coupons, err := h.coupons.ListValid(ctx)
	if err != nil {
		writeCouponError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"coupons": newCouponListPayload(coupons)})
}

func (h *CouponHandlers) checkValidity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	code := strings.TrimSpace(r.URL.Query().Get("code"))
	if code == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "code query parameter is required", http.StatusBadRequest))
		return
	}

	err := h.coupons.CheckValidity(ctx, code)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"code": code, "valid": true})
	case errors.Is(err, services.ErrCouponInvalid):
		writeJSON(w, http.StatusOK, map[string]any{"code": code, "valid": false, "reason": err.Error()})
	default:
		writeCouponError(ctx, w, err)
	}
}
