package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	domain "github.com/shopease/api/internal/domain"
	"github.com/shopease/api/internal/payments"
	"github.com/shopease/api/internal/platform/emailtmpl"
	"github.com/shopease/api/internal/repositories"
)

const (
	orderReceiptPrefix  = "ord_"
	refundReceiptPrefix = "rfnd_"

	emailKindConfirmation = "order_confirmation"
	emailKindCancellation = "order_cancellation"
	emailKindDeletion     = "order_deletion"
)

var (
	// ErrOrderInvalidInput signals the caller provided invalid data.
	ErrOrderInvalidInput = errors.New("order: invalid input")
	// ErrOrderNotFound indicates the order could not be located.
	ErrOrderNotFound = errors.New("order: not found")
	// ErrOrderForbidden indicates the actor does not own the order.
	ErrOrderForbidden = errors.New("order: forbidden")
	// ErrOrderAlreadyConfirmed indicates payment was already recorded for the order.
	ErrOrderAlreadyConfirmed = errors.New("order: already confirmed")
	// ErrOrderInvalidSignature indicates the payment signature failed verification.
	ErrOrderInvalidSignature = errors.New("order: invalid payment signature")
	// ErrOrderAlreadyCancelled indicates the order is already cancelled.
	ErrOrderAlreadyCancelled = errors.New("order: already cancelled")
	// ErrOrderNotCancellable indicates the order has progressed past cancellation.
	ErrOrderNotCancellable = errors.New("order: not cancellable")
	// ErrOrderUnpaid indicates the operation requires a confirmed payment.
	ErrOrderUnpaid = errors.New("order: payment not confirmed")
	// ErrOrderIllegalTransition indicates an invalid status progression was attempted.
	ErrOrderIllegalTransition = errors.New("order: illegal status transition")
	// ErrOrderConflict indicates a concurrent update won the race.
	ErrOrderConflict = errors.New("order: conflict")
	// ErrOrderDeletionGrace indicates an unpaid order is still inside the deletion grace window.
	ErrOrderDeletionGrace = errors.New("order: deletion grace period not elapsed")
	// ErrPaymentGateway indicates the payment provider rejected or failed a call.
	ErrPaymentGateway = errors.New("order: payment gateway failure")
	// ErrNotificationFailed indicates committed order state could not be announced by email.
	ErrNotificationFailed = errors.New("order: notification failed")
)

// OrderServiceDeps bundles collaborators required to construct the order service.
type OrderServiceDeps struct {
	Orders    repositories.OrderRepository
	Carts     repositories.CartRepository
	Addresses repositories.AddressRepository
	Users     repositories.UserRepository

	Coupons   CouponService
	Pricing   PricingCalculator
	Inventory InventoryService
	Gateway   payments.Gateway
	Verifier  *payments.SignatureVerifier
	Notifier  Notifier

	Policy          domain.PricingPolicy
	DeletionGrace   time.Duration
	DefaultPageSize int

	Clock       func() time.Time
	IDGenerator func() string
	Logger      func(ctx context.Context, event string, fields map[string]any)
}

type orderService struct {
	orders    repositories.OrderRepository
	carts     repositories.CartRepository
	addresses repositories.AddressRepository
	users     repositories.UserRepository

	coupons   CouponService
	pricing   PricingCalculator
	inventory InventoryService
	gateway   payments.Gateway
	verifier  *payments.SignatureVerifier
	notifier  Notifier

	policy        domain.PricingPolicy
	deletionGrace time.Duration
	pageSize      int

	clock  func() time.Time
	newID  func() string
	logger func(context.Context, string, map[string]any)
}

// NewOrderService wires dependencies into a concrete OrderService implementation.
func NewOrderService(deps OrderServiceDeps) (OrderService, error) {
	if deps.Orders == nil {
		return nil, errors.New("order service: order repository is required")
	}
	if deps.Pricing == nil {
		return nil, errors.New("order service: pricing calculator is required")
	}
	if deps.Inventory == nil {
		return nil, errors.New("order service: inventory service is required")
	}
	if deps.Gateway == nil {
		return nil, errors.New("order service: payment gateway is required")
	}
	if deps.Verifier == nil {
		return nil, errors.New("order service: signature verifier is required")
	}

	grace := deps.DeletionGrace
	if grace <= 0 {
		grace = 48 * time.Hour
	}
	pageSize := deps.DefaultPageSize
	if pageSize <= 0 {
		pageSize = 10
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = func() string {
			return ulid.Make().String()
		}
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &orderService{
		orders:        deps.Orders,
		carts:         deps.Carts,
		addresses:     deps.Addresses,
		users:         deps.Users,
		coupons:       deps.Coupons,
		pricing:       deps.Pricing,
		inventory:     deps.Inventory,
		gateway:       deps.Gateway,
		verifier:      deps.Verifier,
		notifier:      deps.Notifier,
		policy:        deps.Policy,
		deletionGrace: grace,
		pageSize:      pageSize,
		clock: func() time.Time {
			return clock().UTC()
		},
		newID:  idGen,
		logger: logger,
	}, nil
}

// Create opens a gateway order for the priced request and persists the local
// order against the gateway order id. Nothing is written when the gateway
// rejects the call, so a failed checkout leaves no trace.
func (s *orderService) Create(ctx context.Context, cmd CreateOrderCommand) (Order, error) {
	userID := strings.TrimSpace(cmd.Actor.UserID)
	if userID == "" {
		return Order{}, fmt.Errorf("%w: user id is required", ErrOrderInvalidInput)
	}
	paymentMethod := strings.TrimSpace(cmd.PaymentMethod)
	if paymentMethod == "" {
		return Order{}, fmt.Errorf("%w: payment method is required", ErrOrderInvalidInput)
	}
	if _, ok := s.policy.DeliveryOptionFor(cmd.DeliveryMode); !ok {
		return Order{}, fmt.Errorf("%w: unknown delivery mode %q", ErrOrderInvalidInput, cmd.DeliveryMode)
	}

	addressID := strings.TrimSpace(cmd.ShippingAddressID)
	if addressID == "" {
		return Order{}, fmt.Errorf("%w: shipping address id is required", ErrOrderInvalidInput)
	}
	if s.addresses != nil {
		address, err := s.addresses.FindByID(ctx, addressID)
		if err != nil {
			return Order{}, s.mapRepositoryError(err)
		}
		if address.UserID != userID {
			return Order{}, fmt.Errorf("%w: shipping address belongs to another user", ErrOrderForbidden)
		}
	}

	items, err := s.inventory.ValidateItems(ctx, cmd.Items)
	if err != nil {
		return Order{}, err
	}

	var coupon *Coupon
	couponCode := strings.ToUpper(strings.TrimSpace(cmd.CouponCode))
	if couponCode != "" {
		resolved, err := s.coupons.ResolveForOrder(ctx, couponCode)
		if err != nil {
			return Order{}, err
		}
		coupon = &resolved
	}

	totals, err := s.pricing.ComputeTotals(PricingInput{
		Items:        items,
		DeliveryMode: cmd.DeliveryMode,
		Coupon:       coupon,
	})
	if err != nil {
		return Order{}, err
	}
	if totals.TotalAmount < s.policy.MinOrderAmount {
		return Order{}, fmt.Errorf("%w: order total below minimum of %d", ErrOrderInvalidInput, s.policy.MinOrderAmount)
	}

	gatewayOrder, err := s.gateway.CreateOrder(ctx, payments.OrderRequest{
		Amount:  totals.TotalAmount,
		Receipt: orderReceiptPrefix + s.newID(),
		Notes:   map[string]string{"userId": userID},
	})
	if err != nil {
		return Order{}, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}

	now := s.now()
	order := Order{
		ID:                gatewayOrder.ID,
		UserID:            userID,
		Items:             items,
		CouponCode:        optionalString(couponCode),
		Totals:            totals,
		ShippingAddressID: addressID,
		DeliveryMode:      cmd.DeliveryMode,
		PaymentMethod:     paymentMethod,
		Status:            domain.OrderStatusCreated,
		StatusUpdatedAt:   valuePtr(now),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.orders.Insert(ctx, order); err != nil {
		return Order{}, s.mapRepositoryError(err)
	}

	s.logger(ctx, "order.created", map[string]any{
		"orderId": order.ID,
		"userId":  userID,
		"total":   totals.TotalAmount,
	})
	return order, nil
}

// Confirm records a verified payment. The signature is checked before any
// mutation, the paid flag flips exactly once, and only then do stock counters
// move and the confirmation email go out. A failed email never rolls the
// payment back; it surfaces as ErrNotificationFailed beside the updated order.
func (s *orderService) Confirm(ctx context.Context, cmd ConfirmOrderCommand) (Order, error) {
	paymentID := strings.TrimSpace(cmd.PaymentID)
	if paymentID == "" {
		return Order{}, fmt.Errorf("%w: payment id is required", ErrOrderInvalidInput)
	}

	order, err := s.ownedOrder(ctx, cmd.Actor, cmd.OrderID)
	if err != nil {
		return Order{}, err
	}
	if order.IsPaid {
		return Order{}, fmt.Errorf("%w: %s", ErrOrderAlreadyConfirmed, order.ID)
	}
	if !s.verifier.Verify(order.ID, paymentID, cmd.PaymentSignature) {
		return Order{}, fmt.Errorf("%w: %s", ErrOrderInvalidSignature, order.ID)
	}

	now := s.now()
	option, ok := s.policy.DeliveryOptionFor(order.DeliveryMode)
	if !ok {
		return Order{}, fmt.Errorf("%w: unknown delivery mode %q", ErrOrderInvalidInput, order.DeliveryMode)
	}
	estimated := option.EstimatedDelivery(now)

	updated, err := s.orders.MarkPaid(ctx, order.ID, repositories.PaymentConfirmation{
		PaymentID:             paymentID,
		EstimatedDeliveryDate: estimated,
		Now:                   now,
	})
	if err != nil {
		mapped := s.mapRepositoryError(err)
		if errors.Is(mapped, ErrOrderConflict) {
			return Order{}, fmt.Errorf("%w: %s", ErrOrderAlreadyConfirmed, order.ID)
		}
		return Order{}, mapped
	}
	order = updated

	if err := s.inventory.CommitSale(ctx, order.Items); err != nil {
		s.logger(ctx, "order.confirm.stock_failed", map[string]any{
			"orderId": order.ID,
			"error":   err.Error(),
		})
		return order, fmt.Errorf("order: reconcile stock for %s: %w", order.ID, err)
	}

	if s.carts != nil {
		if err := s.carts.Clear(ctx, order.UserID); err != nil {
			s.logger(ctx, "order.confirm.cart_clear_failed", map[string]any{
				"orderId": order.ID,
				"userId":  order.UserID,
				"error":   err.Error(),
			})
		}
	}

	s.logger(ctx, "order.confirmed", map[string]any{
		"orderId":   order.ID,
		"paymentId": paymentID,
	})

	if err := s.sendOrderEmail(ctx, cmd.Actor, order, emailKindConfirmation, 0); err != nil {
		return order, fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}
	return order, nil
}

// Cancel reverses a paid order: the status flips to cancelled exactly once,
// stock returns to the shelf, and the full captured amount is refunded.
func (s *orderService) Cancel(ctx context.Context, cmd CancelOrderCommand) (Order, error) {
	order, err := s.ownedOrder(ctx, cmd.Actor, cmd.OrderID)
	if err != nil {
		return Order{}, err
	}
	if !order.IsPaid {
		return Order{}, fmt.Errorf("%w: %s", ErrOrderUnpaid, order.ID)
	}
	switch order.Status {
	case domain.OrderStatusCancelled:
		return Order{}, fmt.Errorf("%w: %s", ErrOrderAlreadyCancelled, order.ID)
	case domain.OrderStatusDelivered:
		return Order{}, fmt.Errorf("%w: delivered orders cannot be cancelled", ErrOrderNotCancellable)
	}

	now := s.now()
	cancelled, err := s.orders.Transition(ctx, order.ID, order.Status, domain.OrderStatusCancelled, repositories.StatusStamp{
		By:  cmd.Actor.UserID,
		Now: now,
	})
	if err != nil {
		mapped := s.mapRepositoryError(err)
		if errors.Is(mapped, ErrOrderConflict) {
			return Order{}, fmt.Errorf("%w: %s", ErrOrderAlreadyCancelled, order.ID)
		}
		return Order{}, mapped
	}
	order = cancelled

	if err := s.inventory.ReverseSale(ctx, order.Items); err != nil {
		s.logger(ctx, "order.cancel.stock_failed", map[string]any{
			"orderId": order.ID,
			"error":   err.Error(),
		})
		return order, fmt.Errorf("order: restore stock for %s: %w", order.ID, err)
	}

	if err := s.refund(ctx, order); err != nil {
		return order, err
	}

	s.logger(ctx, "order.cancelled", map[string]any{
		"orderId": order.ID,
		"userId":  order.UserID,
	})

	if err := s.sendOrderEmail(ctx, cmd.Actor, order, emailKindCancellation, order.Totals.TotalAmount); err != nil {
		return order, fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}
	return order, nil
}

// ListForUser returns the actor's confirmed orders, newest first.
func (s *orderService) ListForUser(ctx context.Context, cmd ListOrdersCommand) (domain.CountedPage[Order], error) {
	userID := strings.TrimSpace(cmd.Actor.UserID)
	if userID == "" {
		return domain.CountedPage[Order]{}, fmt.Errorf("%w: user id is required", ErrOrderInvalidInput)
	}

	filter := domain.OrderFilter{
		UserID:       userID,
		Paid:         valuePtr(true),
		Deleted:      valuePtr(false),
		CreatedAfter: s.createdAfter(cmd.DaysInPast),
	}

	page, err := s.orders.List(ctx, repositories.OrderListFilter{
		Filter: filter,
		Sort:   domain.OrderSortNewest,
		Page:   s.normalizePage(cmd.Page),
	})
	if err != nil {
		return domain.CountedPage[Order]{}, s.mapRepositoryError(err)
	}
	return page, nil
}

// GetForUser returns a single confirmed order owned by the actor.
func (s *orderService) GetForUser(ctx context.Context, actor Identity, orderID string) (Order, error) {
	order, err := s.ownedOrder(ctx, actor, orderID)
	if err != nil {
		return Order{}, err
	}
	if !order.IsPaid {
		return Order{}, fmt.Errorf("%w: %s", ErrOrderNotFound, order.ID)
	}
	return order, nil
}

// AdminList returns orders across all users with status, payment, and
// recency filters applied.
func (s *orderService) AdminList(ctx context.Context, cmd AdminListOrdersCommand) (domain.CountedPage[Order], error) {
	sort := cmd.Sort
	if sort == "" {
		sort = domain.OrderSortNewest
	}

	page, err := s.orders.List(ctx, repositories.OrderListFilter{
		Filter: domain.OrderFilter{
			Statuses:     cmd.Statuses,
			Paid:         cmd.Paid,
			Deleted:      valuePtr(false),
			CreatedAfter: s.createdAfter(cmd.DaysInPast),
		},
		Sort: sort,
		Page: s.normalizePage(cmd.Page),
	})
	if err != nil {
		return domain.CountedPage[Order]{}, s.mapRepositoryError(err)
	}
	return page, nil
}

// AdminGet returns any undeleted order by id.
func (s *orderService) AdminGet(ctx context.Context, orderID string) (Order, error) {
	return s.findLive(ctx, orderID)
}

// UpdateStatus advances a paid order one step through the fulfilment chain.
func (s *orderService) UpdateStatus(ctx context.Context, cmd UpdateOrderStatusCommand) (Order, error) {
	order, err := s.findLive(ctx, cmd.OrderID)
	if err != nil {
		return Order{}, err
	}
	if !order.IsPaid {
		return Order{}, fmt.Errorf("%w: %s", ErrOrderUnpaid, order.ID)
	}
	if order.Status == domain.OrderStatusCancelled {
		return Order{}, fmt.Errorf("%w: cancelled orders cannot progress", ErrOrderIllegalTransition)
	}
	if cmd.Status == order.Status {
		return Order{}, fmt.Errorf("%w: order is already %s", ErrOrderConflict, order.Status)
	}
	if err := checkForwardStep(order.Status, cmd.Status); err != nil {
		return Order{}, err
	}

	now := s.now()
	updated, err := s.orders.Transition(ctx, order.ID, order.Status, cmd.Status, repositories.StatusStamp{
		By:  cmd.Actor.UserID,
		Now: now,
	})
	if err != nil {
		return Order{}, s.mapRepositoryError(err)
	}

	previous := order.Status
	order = updated

	s.logger(ctx, "order.status.updated", map[string]any{
		"orderId": order.ID,
		"from":    string(previous),
		"to":      string(cmd.Status),
	})
	return order, nil
}

// Delete soft-deletes an order. Unpaid orders must be outside the grace
// window; refundable orders additionally get their stock restored and the
// captured amount refunded, exactly once.
func (s *orderService) Delete(ctx context.Context, cmd DeleteOrderCommand) (string, error) {
	order, err := s.findLive(ctx, cmd.OrderID)
	if err != nil {
		return "", err
	}

	now := s.now()
	if !order.IsPaid && now.Sub(order.CreatedAt) < s.deletionGrace {
		return "", fmt.Errorf("%w: unpaid orders can be deleted %s after creation", ErrOrderDeletionGrace, s.deletionGrace)
	}

	if _, err := s.orders.SoftDelete(ctx, order.ID, repositories.StatusStamp{
		By:  cmd.Actor.UserID,
		Now: now,
	}); err != nil {
		mapped := s.mapRepositoryError(err)
		if errors.Is(mapped, ErrOrderConflict) {
			return "", fmt.Errorf("%w: %s", ErrOrderNotFound, order.ID)
		}
		return "", mapped
	}

	message := "order deleted"
	if order.Refundable() {
		if err := s.inventory.ReverseSale(ctx, order.Items); err != nil {
			s.logger(ctx, "order.delete.stock_failed", map[string]any{
				"orderId": order.ID,
				"error":   err.Error(),
			})
			return "", fmt.Errorf("order: restore stock for %s: %w", order.ID, err)
		}
		if err := s.refund(ctx, order); err != nil {
			return "", err
		}
		message = "order deleted and refund initiated"

		if err := s.notifyOrderUser(ctx, order, emailKindDeletion, order.Totals.TotalAmount); err != nil {
			s.logger(ctx, "order.delete.notify_failed", map[string]any{
				"orderId": order.ID,
				"error":   err.Error(),
			})
		}
	}

	s.logger(ctx, "order.deleted", map[string]any{
		"orderId":  order.ID,
		"actorId":  cmd.Actor.UserID,
		"refunded": order.Refundable(),
	})
	return message, nil
}

func (s *orderService) now() time.Time {
	return s.clock()
}

// createdAfter translates a day count into the cutoff instant. A value of 1
// means "since the start of today"; each extra day reaches one midnight
// further back.
func (s *orderService) createdAfter(daysInPast int) *time.Time {
	if daysInPast <= 0 {
		return nil
	}
	now := s.now()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	cutoff := startOfToday.Add(-time.Duration(daysInPast-1) * 24 * time.Hour)
	return &cutoff
}

func (s *orderService) normalizePage(page Page) Page {
	if page.Number <= 0 {
		page.Number = 1
	}
	if page.Size <= 0 {
		page.Size = s.pageSize
	}
	return page
}

func (s *orderService) findLive(ctx context.Context, orderID string) (Order, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return Order{}, fmt.Errorf("%w: order id is required", ErrOrderInvalidInput)
	}
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return Order{}, s.mapRepositoryError(err)
	}
	if order.Deletion.Deleted {
		return Order{}, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}
	return order, nil
}

func (s *orderService) ownedOrder(ctx context.Context, actor Identity, orderID string) (Order, error) {
	order, err := s.findLive(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	if order.UserID != actor.UserID {
		return Order{}, fmt.Errorf("%w: %s", ErrOrderForbidden, order.ID)
	}
	return order, nil
}

func (s *orderService) refund(ctx context.Context, order Order) error {
	paymentID := ""
	if order.PaymentID != nil {
		paymentID = *order.PaymentID
	}
	_, err := s.gateway.Refund(ctx, payments.RefundRequest{
		PaymentID: paymentID,
		Amount:    order.Totals.TotalAmount,
		Speed:     payments.RefundSpeedOptimum,
		Receipt:   refundReceiptPrefix + s.newID(),
		Notes:     map[string]string{"orderId": order.ID},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}
	return nil
}

func (s *orderService) sendOrderEmail(ctx context.Context, actor Identity, order Order, kind string, refund int64) error {
	if s.notifier == nil {
		return nil
	}
	recipient := strings.TrimSpace(actor.Email)
	if recipient == "" {
		return errors.New("actor has no email address")
	}
	return s.dispatchEmail(ctx, recipient, actor.Name, order, kind, refund)
}

func (s *orderService) notifyOrderUser(ctx context.Context, order Order, kind string, refund int64) error {
	if s.notifier == nil || s.users == nil {
		return nil
	}
	user, err := s.users.FindByID(ctx, order.UserID)
	if err != nil {
		return err
	}
	recipient := strings.TrimSpace(user.Email)
	if recipient == "" {
		return fmt.Errorf("user %s has no email address", order.UserID)
	}
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	return s.dispatchEmail(ctx, recipient, name, order, kind, refund)
}

func (s *orderService) dispatchEmail(ctx context.Context, recipient, name string, order Order, kind string, refund int64) error {
	data := emailtmpl.OrderEmailData{
		RecipientName: name,
		OrderID:       order.ID,
		TotalAmount:   order.Totals.TotalAmount,
		RefundAmount:  refund,
	}
	if order.EstimatedDeliveryDate != nil {
		data.EstimatedDelivery = *order.EstimatedDeliveryDate
	}

	var subject, html string
	switch kind {
	case emailKindConfirmation:
		subject, html = emailtmpl.OrderConfirmation(data)
	case emailKindCancellation:
		subject, html = emailtmpl.OrderCancellation(data)
	case emailKindDeletion:
		subject, html = emailtmpl.OrderDeletion(data)
	default:
		return fmt.Errorf("unknown email kind %q", kind)
	}

	messageID, err := s.notifier.Send(ctx, EmailMessage{
		Recipient: recipient,
		Subject:   subject,
		HTML:      html,
		Kind:      kind,
		OrderID:   order.ID,
	})
	if err != nil {
		return err
	}
	s.logger(ctx, "order.notification.sent", map[string]any{
		"orderId":   order.ID,
		"kind":      kind,
		"messageId": messageID,
	})
	return nil
}

func (s *orderService) mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	var repoErr repositories.RepositoryError
	if errors.As(err, &repoErr) {
		switch {
		case repoErr.IsNotFound():
			return fmt.Errorf("%w: %v", ErrOrderNotFound, err)
		case repoErr.IsConflict():
			return fmt.Errorf("%w: %v", ErrOrderConflict, err)
		case repoErr.IsUnavailable():
			return fmt.Errorf("order: repository unavailable: %w", err)
		}
	}
	return err
}

// checkForwardStep enforces single-step forward movement through the
// fulfilment chain and names the required intermediate status on a skip.
func checkForwardStep(current, target OrderStatus) error {
	chain := domain.FulfilmentStatuses()
	currentAt, targetAt := -1, -1
	for i, status := range chain {
		if status == current {
			currentAt = i
		}
		if status == target {
			targetAt = i
		}
	}
	if targetAt < 0 {
		return fmt.Errorf("%w: unknown status %q", ErrOrderInvalidInput, target)
	}
	if currentAt < 0 {
		return fmt.Errorf("%w: order is %s", ErrOrderIllegalTransition, current)
	}
	if targetAt < currentAt {
		return fmt.Errorf("%w: cannot move back from %s to %s", ErrOrderIllegalTransition, current, target)
	}
	if targetAt > currentAt+1 {
		return fmt.Errorf("%w: order must move to %s first", ErrOrderIllegalTransition, chain[currentAt+1])
	}
	return nil
}

func valuePtr[T any](v T) *T {
	return &v
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	ref := v
	return &ref
}
