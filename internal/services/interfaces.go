package services

import (
	"context"
	"time"

	domain "github.com/shopease/api/internal/domain"
	"github.com/shopease/api/internal/repositories"
)

// Type aliases expose domain models to the services package without reversing dependency direction.
type (
	Page             = domain.Page
	SortOrder        = domain.SortOrder
	Identity         = domain.Identity
	Order            = domain.Order
	OrderItem        = domain.OrderItem
	OrderTotals      = domain.OrderTotals
	OrderStatus      = domain.OrderStatus
	OrderSort        = domain.OrderSort
	DeliveryMode     = domain.DeliveryMode
	Coupon           = domain.Coupon
	CouponStatus     = domain.CouponStatus
	CouponSort       = domain.CouponSort
	DiscountType     = domain.DiscountType
	Product          = domain.Product
	StockDelta       = domain.StockDelta
	CartItem         = domain.CartItem
	Address          = domain.Address
	User             = domain.User
	PricingPolicy    = domain.PricingPolicy
	DeliveryOption   = domain.DeliveryOption
	PricingBreakdown = domain.PricingBreakdown
)

// OrderService drives the order lifecycle: creation against the payment
// gateway, payment confirmation, cancellation, admin status progression and
// soft deletion, plus the read surfaces for users and admins.
type OrderService interface {
	Create(ctx context.Context, cmd CreateOrderCommand) (Order, error)
	Confirm(ctx context.Context, cmd ConfirmOrderCommand) (Order, error)
	Cancel(ctx context.Context, cmd CancelOrderCommand) (Order, error)
	ListForUser(ctx context.Context, cmd ListOrdersCommand) (domain.CountedPage[Order], error)
	GetForUser(ctx context.Context, actor Identity, orderID string) (Order, error)
	AdminList(ctx context.Context, cmd AdminListOrdersCommand) (domain.CountedPage[Order], error)
	AdminGet(ctx context.Context, orderID string) (Order, error)
	UpdateStatus(ctx context.Context, cmd UpdateOrderStatusCommand) (Order, error)
	Delete(ctx context.Context, cmd DeleteOrderCommand) (string, error)
}

// CouponService validates coupons for checkout, owns the admin coupon CRUD
// surface, and runs the expiry sweep.
type CouponService interface {
	ResolveForOrder(ctx context.Context, code string) (Coupon, error)
	ListValid(ctx context.Context) ([]Coupon, error)
	CheckValidity(ctx context.Context, code string) error
	AdminList(ctx context.Context, cmd AdminListCouponsCommand) (domain.CountedPage[Coupon], error)
	Create(ctx context.Context, cmd UpsertCouponCommand) (Coupon, error)
	Get(ctx context.Context, couponID string) (Coupon, error)
	Update(ctx context.Context, couponID string, cmd UpsertCouponCommand) (Coupon, error)
	Delete(ctx context.Context, couponID string) error
	Activate(ctx context.Context, couponID string, actorID string) (Coupon, error)
	Deactivate(ctx context.Context, couponID string, actorID string) (Coupon, error)
	ExpireDue(ctx context.Context) (int, error)
}

// PricingCalculator computes order totals. Implementations must be pure:
// identical inputs always produce identical totals.
type PricingCalculator interface {
	ComputeTotals(input PricingInput) (OrderTotals, error)
}

// InventoryService validates requested quantities against live stock and
// applies the sale/reversal counter adjustments in lockstep with order state
// transitions.
type InventoryService interface {
	ValidateItems(ctx context.Context, requested []CartItem) ([]OrderItem, error)
	CommitSale(ctx context.Context, items []OrderItem) error
	ReverseSale(ctx context.Context, items []OrderItem) error
}

// Notifier delivers a transactional email. Implementations are best-effort;
// a failed send must never roll back committed order state.
type Notifier interface {
	Send(ctx context.Context, message EmailMessage) (string, error)
}

// EmailMessage is the payload handed to the notification dispatcher.
type EmailMessage struct {
	Recipient string
	Subject   string
	HTML      string
	Kind      string
	OrderID   string
}

// Command and DTO definitions ------------------------------------------------

// PricingInput carries the validated order request into the calculator.
type PricingInput struct {
	Items        []OrderItem
	DeliveryMode DeliveryMode
	Coupon       *Coupon
}

type CreateOrderCommand struct {
	Actor             Identity
	Items             []CartItem
	CouponCode        string
	ShippingAddressID string
	DeliveryMode      DeliveryMode
	PaymentMethod     string
}

type ConfirmOrderCommand struct {
	Actor            Identity
	OrderID          string
	PaymentID        string
	PaymentSignature string
}

type CancelOrderCommand struct {
	Actor   Identity
	OrderID string
}

type ListOrdersCommand struct {
	Actor      Identity
	DaysInPast int
	Page       Page
}

type AdminListOrdersCommand struct {
	DaysInPast int
	Statuses   []OrderStatus
	Paid       *bool
	Sort       OrderSort
	Page       Page
}

type UpdateOrderStatusCommand struct {
	Actor   Identity
	OrderID string
	Status  OrderStatus
}

type DeleteOrderCommand struct {
	Actor   Identity
	OrderID string
}

type AdminListCouponsCommand struct {
	DaysUntilExpiration int
	DiscountTypes       []DiscountType
	Statuses            []CouponStatus
	Sort                CouponSort
	Page                Page
}

type UpsertCouponCommand struct {
	Code               string
	DiscountType       DiscountType
	FlatDiscount       *int64
	PercentageDiscount *int
	ExpiryDate         time.Time
	ActorID            string
}

// OrderListFilter is re-exported for handler use.
type OrderListFilter = repositories.OrderListFilter

// CouponListFilter is re-exported for handler use.
type CouponListFilter = repositories.CouponListFilter
