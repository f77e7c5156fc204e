package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	domain "github.com/shopease/api/internal/domain"
	"github.com/shopease/api/internal/repositories"
)

const couponIDPrefix = "cpn_"

// Discount bounds, minor currency units.
const (
	minFlatDiscount  = 1000
	maxFlatDiscount  = 100000
	flatDiscountStep = 1000
	minPercentage    = 1
	maxPercentage    = 100
)

var couponCodePattern = regexp.MustCompile(`^[A-Z][A-Z0-9]{4,14}$`)

// CouponServiceDeps bundles dependencies required to construct a CouponService implementation.
type CouponServiceDeps struct {
	Coupons     repositories.CouponRepository
	Clock       func() time.Time
	IDGenerator func() string
	Logger      func(ctx context.Context, event string, fields map[string]any)
}

type couponService struct {
	repo   repositories.CouponRepository
	clock  func() time.Time
	newID  func() string
	logger func(context.Context, string, map[string]any)
}

// NewCouponService wires a CouponService backed by the provided repository.
func NewCouponService(deps CouponServiceDeps) (CouponService, error) {
	if deps.Coupons == nil {
		return nil, errors.New("coupon service: repository is required")
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = func() string { return ulid.Make().String() }
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &couponService{
		repo:   deps.Coupons,
		clock:  func() time.Time { return clock().UTC() },
		newID:  idGen,
		logger: logger,
	}, nil
}

// ResolveForOrder returns the coupon for a checkout request. The resolved
// record is handed to the pricing calculator; only the code is persisted on
// the order.
func (s *couponService) ResolveForOrder(ctx context.Context, code string) (Coupon, error) {
	normalized := normalizeCouponCode(code)
	if normalized == "" {
		return Coupon{}, fmt.Errorf("%w: coupon code is required", ErrCouponInvalidInput)
	}

	coupon, err := s.repo.FindByCode(ctx, normalized)
	if err != nil {
		return Coupon{}, s.mapRepositoryError(err)
	}

	if !coupon.Usable(s.clock()) {
		return Coupon{}, fmt.Errorf("%w: %s", ErrCouponInvalid, normalized)
	}
	return coupon, nil
}

func (s *couponService) ListValid(ctx context.Context) ([]Coupon, error) {
	now := s.clock()
	page, err := s.repo.List(ctx, repositories.CouponListFilter{
		Filter: domain.CouponFilter{
			ExpiresAfter: &now,
			Statuses:     []domain.CouponStatus{domain.CouponStatusActive},
		},
		Sort: domain.CouponSortExpiringSoon,
		Page: domain.Page{Number: 1, Size: 100},
	})
	if err != nil {
		return nil, s.mapRepositoryError(err)
	}
	return page.Items, nil
}

func (s *couponService) CheckValidity(ctx context.Context, code string) error {
	_, err := s.ResolveForOrder(ctx, code)
	return err
}

func (s *couponService) AdminList(ctx context.Context, cmd AdminListCouponsCommand) (domain.CountedPage[Coupon], error) {
	filter := domain.CouponFilter{
		DiscountTypes: cmd.DiscountTypes,
		Statuses:      cmd.Statuses,
	}
	if cmd.DaysUntilExpiration > 0 {
		now := s.clock()
		until := now.AddDate(0, 0, cmd.DaysUntilExpiration)
		filter.ExpiresAfter = &now
		filter.ExpiresBefore = &until
	}

	page, err := s.repo.List(ctx, repositories.CouponListFilter{
		Filter: filter,
		Sort:   cmd.Sort,
		Page:   cmd.Page,
	})
	if err != nil {
		return domain.CountedPage[Coupon]{}, s.mapRepositoryError(err)
	}
	return page, nil
}

func (s *couponService) Create(ctx context.Context, cmd UpsertCouponCommand) (Coupon, error) {
	now := s.clock()
	coupon, err := s.buildCoupon(cmd, now)
	if err != nil {
		return Coupon{}, err
	}

	if _, err := s.repo.FindByCode(ctx, coupon.Code); err == nil {
		return Coupon{}, fmt.Errorf("%w: %s", ErrCouponCodeTaken, coupon.Code)
	} else if mapped := s.mapRepositoryError(err); !errors.Is(mapped, ErrCouponNotFound) {
		return Coupon{}, mapped
	}

	coupon.ID = couponIDPrefix + s.newID()
	coupon.Status = domain.CouponStatusActive
	coupon.CreatedBy = cmd.ActorID
	coupon.CreatedAt = now
	coupon.UpdatedAt = now

	if err := s.repo.Insert(ctx, coupon); err != nil {
		return Coupon{}, s.mapRepositoryError(err)
	}
	return coupon, nil
}

func (s *couponService) Get(ctx context.Context, couponID string) (Coupon, error) {
	couponID = strings.TrimSpace(couponID)
	if couponID == "" {
		return Coupon{}, fmt.Errorf("%w: coupon id is required", ErrCouponInvalidInput)
	}
	coupon, err := s.repo.FindByID(ctx, couponID)
	if err != nil {
		return Coupon{}, s.mapRepositoryError(err)
	}
	return coupon, nil
}

func (s *couponService) Update(ctx context.Context, couponID string, cmd UpsertCouponCommand) (Coupon, error) {
	existing, err := s.Get(ctx, couponID)
	if err != nil {
		return Coupon{}, err
	}

	now := s.clock()
	updated, err := s.buildCoupon(cmd, now)
	if err != nil {
		return Coupon{}, err
	}

	if other, err := s.repo.FindByCode(ctx, updated.Code); err == nil {
		if other.ID != existing.ID {
			return Coupon{}, fmt.Errorf("%w: %s", ErrCouponCodeTaken, updated.Code)
		}
	} else if mapped := s.mapRepositoryError(err); !errors.Is(mapped, ErrCouponNotFound) {
		return Coupon{}, mapped
	}

	updated.ID = existing.ID
	updated.Status = existing.Status
	// A coupon whose expiry moves from the past into the future comes back
	// to life.
	if !existing.ExpiryDate.After(now) && updated.ExpiryDate.After(now) {
		updated.Status = domain.CouponStatusActive
	}
	updated.CreatedBy = existing.CreatedBy
	updated.CreatedAt = existing.CreatedAt
	updated.ActiveStatusLastUpdatedBy = existing.ActiveStatusLastUpdatedBy
	updated.LastUpdatedBy = optionalString(strings.TrimSpace(cmd.ActorID))
	updated.UpdatedAt = now

	if err := s.repo.Update(ctx, updated); err != nil {
		return Coupon{}, s.mapRepositoryError(err)
	}
	return updated, nil
}

func (s *couponService) Delete(ctx context.Context, couponID string) error {
	if _, err := s.Get(ctx, couponID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, couponID); err != nil {
		return s.mapRepositoryError(err)
	}
	return nil
}

func (s *couponService) Activate(ctx context.Context, couponID string, actorID string) (Coupon, error) {
	coupon, err := s.Get(ctx, couponID)
	if err != nil {
		return Coupon{}, err
	}

	now := s.clock()
	if !coupon.ExpiryDate.After(now) {
		return Coupon{}, fmt.Errorf("%w: expired coupons cannot be activated", ErrCouponExpired)
	}
	if coupon.Status == domain.CouponStatusActive {
		return Coupon{}, fmt.Errorf("%w: %s", ErrCouponAlreadyActive, coupon.Code)
	}

	coupon.Status = domain.CouponStatusActive
	coupon.ActiveStatusLastUpdatedBy = optionalString(strings.TrimSpace(actorID))
	coupon.UpdatedAt = now
	if err := s.repo.Update(ctx, coupon); err != nil {
		return Coupon{}, s.mapRepositoryError(err)
	}
	return coupon, nil
}

func (s *couponService) Deactivate(ctx context.Context, couponID string, actorID string) (Coupon, error) {
	coupon, err := s.Get(ctx, couponID)
	if err != nil {
		return Coupon{}, err
	}

	now := s.clock()
	if !coupon.ExpiryDate.After(now) {
		return Coupon{}, fmt.Errorf("%w: coupon has already expired", ErrCouponExpired)
	}
	if coupon.Status == domain.CouponStatusInactive {
		return Coupon{}, fmt.Errorf("%w: %s", ErrCouponAlreadyInactive, coupon.Code)
	}

	coupon.Status = domain.CouponStatusInactive
	coupon.ActiveStatusLastUpdatedBy = optionalString(strings.TrimSpace(actorID))
	coupon.UpdatedAt = now
	if err := s.repo.Update(ctx, coupon); err != nil {
		return Coupon{}, s.mapRepositoryError(err)
	}
	return coupon, nil
}

// ExpireDue forces every overdue coupon into the expired status. It backs
// the recurring sweep and is safe to run repeatedly.
func (s *couponService) ExpireDue(ctx context.Context) (int, error) {
	count, err := s.repo.ExpireDue(ctx, s.clock())
	if err != nil {
		return 0, s.mapRepositoryError(err)
	}
	if count > 0 {
		s.logger(ctx, "coupon.sweep.expired", map[string]any{"count": count})
	}
	return count, nil
}

func (s *couponService) buildCoupon(cmd UpsertCouponCommand, now time.Time) (Coupon, error) {
	code := normalizeCouponCode(cmd.Code)
	if !couponCodePattern.MatchString(code) {
		return Coupon{}, fmt.Errorf("%w: code must be 5-15 characters, start with a letter, and contain only uppercase letters and digits", ErrCouponInvalidInput)
	}
	if !cmd.ExpiryDate.After(now) {
		return Coupon{}, fmt.Errorf("%w: expiry date must be in the future", ErrCouponInvalidInput)
	}

	coupon := Coupon{
		Code:         code,
		DiscountType: cmd.DiscountType,
		ExpiryDate:   cmd.ExpiryDate.UTC(),
	}

	switch cmd.DiscountType {
	case domain.DiscountTypeFlat:
		if cmd.FlatDiscount == nil {
			return Coupon{}, fmt.Errorf("%w: flat discount value is required", ErrCouponInvalidInput)
		}
		flat := *cmd.FlatDiscount
		if flat < minFlatDiscount || flat > maxFlatDiscount || flat%flatDiscountStep != 0 {
			return Coupon{}, fmt.Errorf("%w: flat discount out of range", ErrCouponInvalidInput)
		}
		coupon.FlatDiscount = &flat
	case domain.DiscountTypePercentage:
		if cmd.PercentageDiscount == nil {
			return Coupon{}, fmt.Errorf("%w: percentage discount value is required", ErrCouponInvalidInput)
		}
		pct := *cmd.PercentageDiscount
		if pct < minPercentage || pct > maxPercentage {
			return Coupon{}, fmt.Errorf("%w: percentage discount out of range", ErrCouponInvalidInput)
		}
		coupon.PercentageDiscount = &pct
	default:
		return Coupon{}, fmt.Errorf("%w: unknown discount type %q", ErrCouponInvalidInput, cmd.DiscountType)
	}

	return coupon, nil
}

func (s *couponService) mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	var repoErr repositories.RepositoryError
	if errors.As(err, &repoErr) {
		switch {
		case repoErr.IsNotFound():
			return fmt.Errorf("%w: %v", ErrCouponNotFound, err)
		case repoErr.IsConflict():
			return fmt.Errorf("%w: %v", ErrCouponConflict, err)
		case repoErr.IsUnavailable():
			return fmt.Errorf("coupon: repository unavailable: %w", err)
		}
	}
	return err
}

func normalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
