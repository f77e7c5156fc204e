package repositories

import (
	"context"
	"time"

	domain "github.com/shopease/api/internal/domain"
)

// Registry exposes typed repository accessors and lifecycle hooks for dependency injection.
type Registry interface {
	Close(ctx context.Context) error

	Orders() OrderRepository
	Coupons() CouponRepository
	Products() ProductRepository
	Carts() CartRepository
	Addresses() AddressRepository
	Users() UserRepository
	Health() HealthRepository
	UnitOfWork
}

// RepositoryError wraps low-level persistence failures with categorisation used by services.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsConflict() bool
	IsUnavailable() bool
}

// UnitOfWork allows grouping repository operations in a transactional boundary when supported.
type UnitOfWork interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// PaymentConfirmation carries the fields written when an order is marked paid.
type PaymentConfirmation struct {
	PaymentID             string
	EstimatedDeliveryDate time.Time
	Now                   time.Time
}

// StatusStamp records who performed a status transition and when.
type StatusStamp struct {
	By  string
	Now time.Time
}

// OrderRepository persists order documents and provides the conditional
// updates the state machine relies on. MarkPaid, Transition and SoftDelete
// run as transactional compare-and-swap updates so that exactly one of any
// set of concurrent callers succeeds.
type OrderRepository interface {
	Insert(ctx context.Context, order domain.Order) error
	FindByID(ctx context.Context, orderID string) (domain.Order, error)
	List(ctx context.Context, filter OrderListFilter) (domain.CountedPage[domain.Order], error)
	// MarkPaid flips isPaid false->true and stores payment metadata. Fails
	// with a conflict when the order is already paid or soft-deleted.
	MarkPaid(ctx context.Context, orderID string, confirmation PaymentConfirmation) (domain.Order, error)
	// Transition moves the order from one status to another. Fails with a
	// conflict when the stored status no longer matches from.
	Transition(ctx context.Context, orderID string, from, to domain.OrderStatus, stamp StatusStamp) (domain.Order, error)
	// SoftDelete stamps the deletion envelope. Fails with a conflict when
	// the order is already deleted.
	SoftDelete(ctx context.Context, orderID string, stamp StatusStamp) (domain.Order, error)
}

// OrderListFilter controls filtering, ordering and paging of order listings.
type OrderListFilter struct {
	Filter domain.OrderFilter
	Sort   domain.OrderSort
	Page   domain.Page
}

// CouponRepository persists coupon definitions.
type CouponRepository interface {
	Insert(ctx context.Context, coupon domain.Coupon) error
	Update(ctx context.Context, coupon domain.Coupon) error
	Delete(ctx context.Context, couponID string) error
	FindByID(ctx context.Context, couponID string) (domain.Coupon, error)
	FindByCode(ctx context.Context, code string) (domain.Coupon, error)
	List(ctx context.Context, filter CouponListFilter) (domain.CountedPage[domain.Coupon], error)
	// ExpireDue marks every coupon whose expiry has passed and whose status
	// is not yet expired. Returns the number of coupons transitioned.
	ExpireDue(ctx context.Context, now time.Time) (int, error)
}

// CouponListFilter controls filtering, ordering and paging of coupon listings.
type CouponListFilter struct {
	Filter domain.CouponFilter
	Sort   domain.CouponSort
	Page   domain.Page
}

// ProductRepository reads catalog records and applies stock adjustments.
// Deltas must be expressed as atomic increments, never absolute writes, so
// concurrent orders touching the same product stay correct.
type ProductRepository interface {
	FindByID(ctx context.Context, productID string) (domain.Product, error)
	ApplyStockDeltas(ctx context.Context, deltas []domain.StockDelta) error
}

// CartRepository owns the mutable cart state per user.
type CartRepository interface {
	Get(ctx context.Context, userID string) ([]domain.CartItem, error)
	Clear(ctx context.Context, userID string) error
}

// AddressRepository reads shipping addresses for ownership checks.
type AddressRepository interface {
	FindByID(ctx context.Context, addressID string) (domain.Address, error)
}

// UserRepository reads the contact projection needed for notifications.
type UserRepository interface {
	FindByID(ctx context.Context, userID string) (domain.User, error)
}

// HealthRepository exposes status of downstream dependencies for health checks.
type HealthRepository interface {
	Collect(ctx context.Context) (HealthReport, error)
}

// HealthCheck describes the outcome of an individual dependency probe.
type HealthCheck struct {
	Status    string
	Detail    string
	Error     string
	Latency   time.Duration
	CheckedAt time.Time
}

// HealthReport aggregates dependency status for health endpoints.
type HealthReport struct {
	Status      string
	Checks      map[string]HealthCheck
	Version     string
	Environment string
	GeneratedAt time.Time
}

const (
	// HealthStatusOK indicates all dependencies are healthy.
	HealthStatusOK = "ok"
	// HealthStatusDegraded indicates at least one dependency is degraded.
	HealthStatusDegraded = "degraded"
	// HealthStatusError indicates a critical dependency is unavailable.
	HealthStatusError = "error"
)
