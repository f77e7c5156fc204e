package services

import "errors"

var (
	// ErrCouponInvalidInput signals the supplied coupon payload is malformed.
	ErrCouponInvalidInput = errors.New("coupon: invalid input")
	// ErrCouponNotFound indicates no coupon exists for the provided code or id.
	ErrCouponNotFound = errors.New("coupon: not found")
	// ErrCouponInvalid indicates the coupon exists but is expired or inactive.
	ErrCouponInvalid = errors.New("coupon: invalid")
	// ErrCouponCodeTaken indicates another coupon already uses the code.
	ErrCouponCodeTaken = errors.New("coupon: code already exists")
	// ErrCouponExpired indicates the activation state cannot change because the expiry has passed.
	ErrCouponExpired = errors.New("coupon: expired")
	// ErrCouponAlreadyActive indicates the coupon is already active.
	ErrCouponAlreadyActive = errors.New("coupon: already active")
	// ErrCouponAlreadyInactive indicates the coupon is already inactive.
	ErrCouponAlreadyInactive = errors.New("coupon: already inactive")
	// ErrCouponConflict indicates a persistence-level conflict while saving.
	ErrCouponConflict = errors.New("coupon: conflict")
)
