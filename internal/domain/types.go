package domain

import (
	"time"
)

// Page defines standard offset-based paging inputs for list operations.
type Page struct {
	Number int
	Size   int
}

// Offset returns the number of records to skip for this page.
func (p Page) Offset() int {
	if p.Number <= 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// SortOrder indicates ascending or descending ordering for list queries.
type SortOrder string

const (
	// SortAsc sorts results in ascending order.
	SortAsc SortOrder = "asc"
	// SortDesc sorts results in descending order.
	SortDesc SortOrder = "desc"
)

// Role enumerates the access levels attached to authenticated identities.
type Role string

const (
	// RoleUser identifies a regular storefront customer.
	RoleUser Role = "user"
	// RoleAdmin identifies back-office staff with elevated access.
	RoleAdmin Role = "admin"
)

// Identity is the already-authenticated caller consumed by the core.
type Identity struct {
	UserID string
	Email  string
	Name   string
	Role   Role
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// DeletionStamp is the soft-delete lifecycle envelope composed into entities.
type DeletionStamp struct {
	Deleted   bool
	DeletedBy *string
	DeletedAt *time.Time
}

// OrderStatus enumerates valid lifecycle states for orders.
type OrderStatus string

const (
	// OrderStatusCreated indicates the order exists but fulfilment has not started.
	OrderStatusCreated OrderStatus = "created"
	// OrderStatusProcessing indicates the order is being prepared.
	OrderStatusProcessing OrderStatus = "processing"
	// OrderStatusShipped indicates the order has been handed to the carrier.
	OrderStatusShipped OrderStatus = "shipped"
	// OrderStatusDelivered indicates the order reached the customer.
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusCancelled indicates the order was cancelled and refunded.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// FulfilmentStatuses lists the forward-progress states in order, excluding
// the cancelled side branch.
func FulfilmentStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusCreated,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
	}
}

// DeliveryMode names a shipping tier with a fixed charge and time window.
type DeliveryMode string

const (
	// DeliveryModeStandard is the default shipping tier.
	DeliveryModeStandard DeliveryMode = "standard"
	// DeliveryModeExpress is the expedited shipping tier.
	DeliveryModeExpress DeliveryMode = "express"
)

// OrderItem is a priced line captured at order-creation time. The unit price
// is a snapshot and does not follow later catalog changes.
type OrderItem struct {
	ProductID string
	Name      string
	Quantity  int
	UnitPrice int64
}

// Subtotal returns the line total in minor units.
func (i OrderItem) Subtotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// OrderTotals holds rolled-up monetary fields in the smallest currency unit.
type OrderTotals struct {
	OrderAmount     int64
	Discount        int64
	ShippingCharges int64
	TaxAmount       int64
	TotalAmount     int64
}

// Order is a placed purchase, keyed by its payment-gateway-assigned id.
type Order struct {
	ID                    string
	UserID                string
	Items                 []OrderItem
	CouponCode            *string
	Totals                OrderTotals
	ShippingAddressID     string
	DeliveryMode          DeliveryMode
	PaymentMethod         string
	IsPaid                bool
	PaymentID             *string
	EstimatedDeliveryDate *time.Time
	Status                OrderStatus
	StatusUpdatedAt       *time.Time
	StatusLastUpdatedBy   *string
	Deletion              DeletionStamp
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Refundable reports whether a paid order still carries inventory and money
// that must be reversed when it is cancelled or deleted.
func (o Order) Refundable() bool {
	if !o.IsPaid {
		return false
	}
	switch o.Status {
	case OrderStatusCreated, OrderStatusProcessing, OrderStatusShipped:
		return true
	default:
		return false
	}
}

// OrderSort names the supported orderings for admin order listings.
type OrderSort string

const (
	// OrderSortNewest orders by creation time, newest first.
	OrderSortNewest OrderSort = "newest"
	// OrderSortOldest orders by creation time, oldest first.
	OrderSortOldest OrderSort = "oldest"
	// OrderSortAmountHighToLow orders by total amount, largest first.
	OrderSortAmountHighToLow OrderSort = "amount_high_to_low"
	// OrderSortAmountLowToHigh orders by total amount, smallest first.
	OrderSortAmountLowToHigh OrderSort = "amount_low_to_high"
)

// OrderFilter narrows order listings.
type OrderFilter struct {
	UserID       string
	CreatedAfter *time.Time
	Statuses     []OrderStatus
	Paid         *bool
	Deleted      *bool
}

// DiscountType distinguishes the two coupon discount policies.
type DiscountType string

const (
	// DiscountTypeFlat subtracts a fixed amount from the order subtotal.
	DiscountTypeFlat DiscountType = "flat"
	// DiscountTypePercentage subtracts a percentage of the order subtotal.
	DiscountTypePercentage DiscountType = "percentage"
)

// CouponStatus enumerates the activation states of a coupon.
type CouponStatus string

const (
	// CouponStatusActive marks a coupon usable for new orders.
	CouponStatusActive CouponStatus = "active"
	// CouponStatusInactive marks a coupon suspended by an admin.
	CouponStatusInactive CouponStatus = "inactive"
	// CouponStatusExpired marks a coupon whose expiry date has passed.
	CouponStatusExpired CouponStatus = "expired"
)

// Coupon is a named discount policy with an expiry and activation state.
// Exactly one of FlatDiscount/PercentageDiscount is set, per DiscountType.
type Coupon struct {
	ID                        string
	Code                      string
	DiscountType              DiscountType
	FlatDiscount              *int64
	PercentageDiscount        *int
	ExpiryDate                time.Time
	Status                    CouponStatus
	CreatedBy                 string
	LastUpdatedBy             *string
	ActiveStatusLastUpdatedBy *string
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

// Usable reports whether the coupon may be applied to a new order at the
// given instant.
func (c Coupon) Usable(now time.Time) bool {
	return c.Status == CouponStatusActive && c.ExpiryDate.After(now)
}

// CouponSort names the supported orderings for admin coupon listings.
type CouponSort string

const (
	// CouponSortNewest orders by creation time, newest first.
	CouponSortNewest CouponSort = "newest"
	// CouponSortExpiringSoon orders by expiry date, soonest first.
	CouponSortExpiringSoon CouponSort = "expiring_soon"
)

// CouponFilter narrows admin coupon listings.
type CouponFilter struct {
	ExpiresAfter  *time.Time
	ExpiresBefore *time.Time
	DiscountTypes []DiscountType
	Statuses      []CouponStatus
}

// Product is the slice of the catalog record the order core consults and
// mutates. Product lifecycle is owned elsewhere.
type Product struct {
	ID        string
	Name      string
	Price     int64
	Stock     int
	SoldUnits int
	Deletion  DeletionStamp
}

// StockDelta expresses an atomic adjustment to a product's counters.
type StockDelta struct {
	ProductID string
	Stock     int
	SoldUnits int
}

// CartItem is a product/quantity pair in a user's cart.
type CartItem struct {
	ProductID string
	Quantity  int
}

// Address is a shipping destination owned by a user.
type Address struct {
	ID         string
	UserID     string
	Recipient  string
	Line1      string
	Line2      *string
	City       string
	State      string
	PostalCode string
	Country    string
	Phone      *string
	Deletion   DeletionStamp
}

// User carries the contact fields the order core needs for notifications.
type User struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Role      Role
}

// CountedPage packages offset-paginated list results with the total number
// of records matching the filter.
type CountedPage[T any] struct {
	Items []T
	Total int64
}
