package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/shopease/api/internal/platform/httpx"
	"github.com/shopease/api/internal/services"
)

// writeOrderError translates order-flow sentinel errors into the JSON error
// envelope. Unknown errors fall through to a 500 without leaking detail.
func writeOrderError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrOrderInvalidInput),
		errors.Is(err, services.ErrInventoryInvalidInput),
		errors.Is(err, services.ErrPricingInvalidInput),
		errors.Is(err, services.ErrPricingUnknownDeliveryMode):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrPricingDiscountFloor):
		httpx.WriteError(ctx, w, httpx.NewError("discount_exceeds_order", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrCouponNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("coupon_not_found", err.Error(), http.StatusNotFound))
	case errors.Is(err, services.ErrCouponInvalid):
		httpx.WriteError(ctx, w, httpx.NewError("coupon_invalid", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrOrderNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("order_not_found", err.Error(), http.StatusNotFound))
	case errors.Is(err, services.ErrProductNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("product_not_found", err.Error(), http.StatusNotFound))
	case errors.Is(err, services.ErrOrderForbidden):
		httpx.WriteError(ctx, w, httpx.NewError("forbidden", err.Error(), http.StatusForbidden))
	case errors.Is(err, services.ErrOrderDeletionGrace):
		httpx.WriteError(ctx, w, httpx.NewError("deletion_not_allowed_yet", err.Error(), http.StatusForbidden))
	case errors.Is(err, services.ErrOrderInvalidSignature):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_payment_signature", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrOrderAlreadyConfirmed),
		errors.Is(err, services.ErrOrderAlreadyCancelled),
		errors.Is(err, services.ErrOrderNotCancellable),
		errors.Is(err, services.ErrOrderUnpaid),
		errors.Is(err, services.ErrOrderConflict),
		errors.Is(err, services.ErrProductOutOfStock),
		errors.Is(err, services.ErrInsufficientStock):
		httpx.WriteError(ctx, w, httpx.NewError("order_conflict", err.Error(), http.StatusConflict))
	case errors.Is(err, services.ErrOrderIllegalTransition):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_status_transition", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrPaymentGateway):
		httpx.WriteError(ctx, w, httpx.NewError("payment_gateway_error", "payment gateway request failed", http.StatusBadGateway))
	case errors.Is(err, services.ErrNotificationFailed):
		httpx.WriteError(ctx, w, httpx.NewError("notification_failed", "order processed but notification could not be queued", http.StatusBadGateway))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("internal_error", "internal server error", http.StatusInternalServerError))
	}
}

// writeCouponError translates coupon sentinel errors for the admin CRUD surface.
func writeCouponError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrCouponInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrCouponNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("coupon_not_found", err.Error(), http.StatusNotFound))
	case errors.Is(err, services.ErrCouponCodeTaken):
		httpx.WriteError(ctx, w, httpx.NewError("coupon_code_taken", err.Error(), http.StatusConflict))
	case errors.Is(err, services.ErrCouponExpired):
		httpx.WriteError(ctx, w, httpx.NewError("coupon_expired", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrCouponAlreadyActive),
		errors.Is(err, services.ErrCouponAlreadyInactive),
		errors.Is(err, services.ErrCouponConflict):
		httpx.WriteError(ctx, w, httpx.NewError("coupon_conflict", err.Error(), http.StatusConflict))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("internal_error", "internal server error", http.StatusInternalServerError))
	}
}
