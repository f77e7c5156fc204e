package services

import (
	"errors"
	"fmt"
	"math"

	domain "github.com/shopease/api/internal/domain"
)

var (
	// ErrPricingInvalidInput signals the caller provided an unpriceable request.
	ErrPricingInvalidInput = errors.New("pricing: invalid input")
	// ErrPricingDiscountFloor indicates a flat coupon exceeds the order subtotal.
	ErrPricingDiscountFloor = errors.New("pricing: order amount below coupon floor")
	// ErrPricingUnknownDeliveryMode indicates no policy exists for the delivery mode.
	ErrPricingUnknownDeliveryMode = errors.New("pricing: unknown delivery mode")
)

type pricingCalculator struct {
	policy domain.PricingPolicy
}

// NewPricingCalculator builds the deterministic totals calculator bound to
// an immutable pricing policy.
func NewPricingCalculator(policy domain.PricingPolicy) (PricingCalculator, error) {
	if len(policy.DeliveryOptions) == 0 {
		return nil, errors.New("pricing calculator: delivery options are required")
	}
	if policy.TaxRate < 0 || policy.TaxRate >= 1 {
		return nil, errors.New("pricing calculator: tax rate out of range")
	}
	return &pricingCalculator{policy: policy}, nil
}

// ComputeTotals prices the order request. All amounts are minor currency
// units. Tax applies to goods plus shipping before the discount is taken,
// and the percentage discount rounds half-up to the nearest unit.
func (c *pricingCalculator) ComputeTotals(input PricingInput) (OrderTotals, error) {
	if len(input.Items) == 0 {
		return OrderTotals{}, fmt.Errorf("%w: at least one item is required", ErrPricingInvalidInput)
	}

	var orderAmount int64
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return OrderTotals{}, fmt.Errorf("%w: quantity must be positive for product %s", ErrPricingInvalidInput, item.ProductID)
		}
		if item.UnitPrice < 0 {
			return OrderTotals{}, fmt.Errorf("%w: negative unit price for product %s", ErrPricingInvalidInput, item.ProductID)
		}
		orderAmount += item.Subtotal()
	}

	discount, err := c.resolveDiscount(orderAmount, input.Coupon)
	if err != nil {
		return OrderTotals{}, err
	}

	option, ok := c.policy.DeliveryOptionFor(input.DeliveryMode)
	if !ok {
		return OrderTotals{}, fmt.Errorf("%w: %q", ErrPricingUnknownDeliveryMode, input.DeliveryMode)
	}

	shipping := option.ShippingCharge
	tax := int64(math.Round(float64(orderAmount+shipping) * c.policy.TaxRate))

	return OrderTotals{
		OrderAmount:     orderAmount,
		Discount:        discount,
		ShippingCharges: shipping,
		TaxAmount:       tax,
		TotalAmount:     orderAmount - discount + shipping + tax,
	}, nil
}

func (c *pricingCalculator) resolveDiscount(orderAmount int64, coupon *Coupon) (int64, error) {
	if coupon == nil {
		return 0, nil
	}

	switch coupon.DiscountType {
	case domain.DiscountTypeFlat:
		if coupon.FlatDiscount == nil {
			return 0, fmt.Errorf("%w: flat coupon %s has no discount value", ErrPricingInvalidInput, coupon.Code)
		}
		flat := *coupon.FlatDiscount
		if orderAmount < flat {
			return 0, fmt.Errorf("%w: order amount must be at least %d to apply coupon %s", ErrPricingDiscountFloor, flat, coupon.Code)
		}
		return flat, nil
	case domain.DiscountTypePercentage:
		if coupon.PercentageDiscount == nil {
			return 0, fmt.Errorf("%w: percentage coupon %s has no discount value", ErrPricingInvalidInput, coupon.Code)
		}
		pct := int64(*coupon.PercentageDiscount)
		if pct < 1 || pct > 100 {
			return 0, fmt.Errorf("%w: percentage out of range for coupon %s", ErrPricingInvalidInput, coupon.Code)
		}
		// Half-up rounding keeps the discount deterministic to the unit.
		return (orderAmount*pct + 50) / 100, nil
	default:
		return 0, fmt.Errorf("%w: unknown discount type %q", ErrPricingInvalidInput, coupon.DiscountType)
	}
}
