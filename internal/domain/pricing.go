package domain

import "time"

// DeliveryOption fixes the shipping charge and delivery-time window for one
// delivery mode. Charges are minor currency units.
type DeliveryOption struct {
	Mode           DeliveryMode
	ShippingCharge int64
	MinDays        int
	MaxDays        int
}

// EstimatedDelivery returns the promised delivery date for an order
// confirmed at the given instant: now plus the rounded-up midpoint of the
// shipping window.
func (o DeliveryOption) EstimatedDelivery(now time.Time) time.Time {
	days := (o.MinDays + o.MaxDays + 1) / 2
	return now.AddDate(0, 0, days)
}

// PricingPolicy is the immutable pricing configuration loaded once at
// process start and passed explicitly into the calculator.
type PricingPolicy struct {
	// TaxRate is the GST fraction applied to goods plus shipping.
	TaxRate float64
	// DeliveryOptions maps each delivery mode to its shipping policy.
	DeliveryOptions map[DeliveryMode]DeliveryOption
	// MinOrderAmount is the smallest order subtotal accepted, minor units.
	MinOrderAmount int64
	// MaxQuantityPerItem caps the quantity of a single order line.
	MaxQuantityPerItem int
}

// DeliveryOptionFor resolves the policy for a delivery mode.
func (p PricingPolicy) DeliveryOptionFor(mode DeliveryMode) (DeliveryOption, bool) {
	opt, ok := p.DeliveryOptions[mode]
	return opt, ok
}

// PricingBreakdown captures the monetary results of pricing an order request
// before anything is persisted.
type PricingBreakdown struct {
	Totals     OrderTotals
	CouponCode *string
}
