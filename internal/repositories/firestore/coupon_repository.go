package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	domain "github.com/shopease/api/internal/domain"
	pfirestore "github.com/shopease/api/internal/platform/firestore"
	"github.com/shopease/api/internal/repositories"
)

const couponCollection = "coupons"

// CouponRepository persists coupon definitions within Firestore.
type CouponRepository struct {
	base     *pfirestore.BaseRepository[couponDocument]
	provider *pfirestore.Provider
}

// NewCouponRepository constructs a Firestore-backed coupon repository.
func NewCouponRepository(provider *pfirestore.Provider) (*CouponRepository, error) {
	if provider == nil {
		return nil, errors.New("coupon repository requires firestore provider")
	}
	base := pfirestore.NewBaseRepository[couponDocument](provider, couponCollection, nil, nil)
	return &CouponRepository{base: base, provider: provider}, nil
}

// Insert creates the coupon document, failing on a duplicate id.
func (r *CouponRepository) Insert(ctx context.Context, coupon domain.Coupon) error {
	if r == nil || r.provider == nil {
		return errors.New("coupon repository not initialised")
	}
	couponID := strings.TrimSpace(coupon.ID)
	if couponID == "" {
		return errors.New("coupon repository: coupon id is required")
	}

	ref, err := r.base.DocumentRef(ctx, couponID)
	if err != nil {
		return err
	}
	if _, err := ref.Create(ctx, newCouponDocument(coupon)); err != nil {
		return pfirestore.WrapError("coupons.insert", err)
	}
	return nil
}

// Update overwrites the coupon document.
func (r *CouponRepository) Update(ctx context.Context, coupon domain.Coupon) error {
	if r == nil || r.base == nil {
		return errors.New("coupon repository not initialised")
	}
	couponID := strings.TrimSpace(coupon.ID)
	if couponID == "" {
		return errors.New("coupon repository: coupon id is required")
	}
	_, err := r.base.Set(ctx, couponID, newCouponDocument(coupon))
	return err
}

// Delete removes the coupon document.
func (r *CouponRepository) Delete(ctx context.Context, couponID string) error {
	if r == nil || r.base == nil {
		return errors.New("coupon repository not initialised")
	}
	ref, err := r.base.DocumentRef(ctx, strings.TrimSpace(couponID))
	if err != nil {
		return err
	}
	if _, err := ref.Delete(ctx); err != nil {
		return pfirestore.WrapError("coupons.delete", err)
	}
	return nil
}

// FindByID loads a coupon by document id.
func (r *CouponRepository) FindByID(ctx context.Context, couponID string) (domain.Coupon, error) {
	if r == nil || r.base == nil {
		return domain.Coupon{}, errors.New("coupon repository not initialised")
	}
	doc, err := r.base.Get(ctx, strings.TrimSpace(couponID))
	if err != nil {
		return domain.Coupon{}, err
	}
	return doc.Data.toDomain(doc.ID), nil
}

// FindByCode resolves a coupon by its unique code.
func (r *CouponRepository) FindByCode(ctx context.Context, code string) (domain.Coupon, error) {
	if r == nil || r.base == nil {
		return domain.Coupon{}, errors.New("coupon repository not initialised")
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.Coupon{}, errors.New("coupon repository: code is required")
	}

	docs, err := r.base.Query(ctx, func(query firestore.Query) firestore.Query {
		return query.Where("code", "==", code).Limit(1)
	})
	if err != nil {
		return domain.Coupon{}, err
	}
	if len(docs) == 0 {
		return domain.Coupon{}, pfirestore.WrapError("coupons.findByCode", status.Errorf(codes.NotFound, "coupon %s not found", code))
	}
	return docs[0].Data.toDomain(docs[0].ID), nil
}

// List returns a filtered, sorted page of coupons with the total match count.
func (r *CouponRepository) List(ctx context.Context, filter repositories.CouponListFilter) (domain.CountedPage[domain.Coupon], error) {
	if r == nil || r.provider == nil {
		return domain.CountedPage[domain.Coupon]{}, errors.New("coupon repository not initialised")
	}

	client, err := r.provider.Client(ctx)
	if err != nil {
		return domain.CountedPage[domain.Coupon]{}, err
	}

	query := applyCouponFilter(client.Collection(couponCollection).Query, filter.Filter)

	total, err := countMatches(ctx, query)
	if err != nil {
		return domain.CountedPage[domain.Coupon]{}, pfirestore.WrapError("coupons.count", err)
	}

	query = applyCouponSort(query, filter.Filter, filter.Sort)
	if offset := filter.Page.Offset(); offset > 0 {
		query = query.Offset(offset)
	}
	if filter.Page.Size > 0 {
		query = query.Limit(filter.Page.Size)
	}

	docs, err := r.base.Query(ctx, func(firestore.Query) firestore.Query { return query })
	if err != nil {
		return domain.CountedPage[domain.Coupon]{}, err
	}

	coupons := make([]domain.Coupon, 0, len(docs))
	for _, doc := range docs {
		coupons = append(coupons, doc.Data.toDomain(doc.ID))
	}
	return domain.CountedPage[domain.Coupon]{Items: coupons, Total: total}, nil
}

// ExpireDue marks every overdue, not-yet-expired coupon as expired and
// returns the number of coupons transitioned. Re-running it is a no-op.
func (r *CouponRepository) ExpireDue(ctx context.Context, now time.Time) (int, error) {
	if r == nil || r.base == nil {
		return 0, errors.New("coupon repository not initialised")
	}

	due, err := r.base.Query(ctx, func(query firestore.Query) firestore.Query {
		return query.
			Where("expiryDate", "<", now.UTC()).
			Where("status", "in", []string{string(domain.CouponStatusActive), string(domain.CouponStatusInactive)})
	})
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, doc := range due {
		_, err := r.base.Update(ctx, doc.ID, []firestore.Update{
			{Path: "status", Value: string(domain.CouponStatusExpired)},
			{Path: "updatedAt", Value: now.UTC()},
		})
		if err != nil {
			return expired, err
		}
		expired++
	}
	return expired, nil
}

func applyCouponFilter(query firestore.Query, filter domain.CouponFilter) firestore.Query {
	if filter.ExpiresAfter != nil {
		query = query.Where("expiryDate", ">", filter.ExpiresAfter.UTC())
	}
	if filter.ExpiresBefore != nil {
		query = query.Where("expiryDate", "<", filter.ExpiresBefore.UTC())
	}
	if len(filter.DiscountTypes) > 0 {
		types := make([]string, 0, len(filter.DiscountTypes))
		for _, t := range filter.DiscountTypes {
			types = append(types, string(t))
		}
		query = query.Where("discountType", "in", types)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		query = query.Where("status", "in", statuses)
	}
	return query
}

// applyCouponSort orders the result set. An expiryDate inequality filter
// forces expiryDate to be the first sort field.
func applyCouponSort(query firestore.Query, filter domain.CouponFilter, sort domain.CouponSort) firestore.Query {
	hasExpiryBound := filter.ExpiresAfter != nil || filter.ExpiresBefore != nil

	switch sort {
	case domain.CouponSortExpiringSoon:
		return query.OrderBy("expiryDate", firestore.Asc)
	default:
		if hasExpiryBound {
			query = query.OrderBy("expiryDate", firestore.Asc)
		}
		return query.OrderBy("createdAt", firestore.Desc)
	}
}

type couponDocument struct {
	Code                      string    `firestore:"code"`
	DiscountType              string    `firestore:"discountType"`
	FlatDiscount              *int64    `firestore:"flatDiscount,omitempty"`
	PercentageDiscount        *int      `firestore:"percentageDiscount,omitempty"`
	ExpiryDate                time.Time `firestore:"expiryDate"`
	Status                    string    `firestore:"status"`
	CreatedBy                 string    `firestore:"createdBy,omitempty"`
	LastUpdatedBy             string    `firestore:"lastUpdatedBy,omitempty"`
	ActiveStatusLastUpdatedBy string    `firestore:"activeStatusLastUpdatedBy,omitempty"`
	CreatedAt                 time.Time `firestore:"createdAt"`
	UpdatedAt                 time.Time `firestore:"updatedAt"`
}

func newCouponDocument(coupon domain.Coupon) couponDocument {
	doc := couponDocument{
		Code:         strings.TrimSpace(coupon.Code),
		DiscountType: string(coupon.DiscountType),
		ExpiryDate:   coupon.ExpiryDate.UTC(),
		Status:       string(coupon.Status),
		CreatedBy:    strings.TrimSpace(coupon.CreatedBy),
		CreatedAt:    coupon.CreatedAt.UTC(),
		UpdatedAt:    coupon.UpdatedAt.UTC(),
	}
	if coupon.FlatDiscount != nil {
		flat := *coupon.FlatDiscount
		doc.FlatDiscount = &flat
	}
	if coupon.PercentageDiscount != nil {
		pct := *coupon.PercentageDiscount
		doc.PercentageDiscount = &pct
	}
	if coupon.LastUpdatedBy != nil {
		doc.LastUpdatedBy = strings.TrimSpace(*coupon.LastUpdatedBy)
	}
	if coupon.ActiveStatusLastUpdatedBy != nil {
		doc.ActiveStatusLastUpdatedBy = strings.TrimSpace(*coupon.ActiveStatusLastUpdatedBy)
	}
	return doc
}

func (d couponDocument) toDomain(id string) domain.Coupon {
	coupon := domain.Coupon{
		ID:           id,
		Code:         d.Code,
		DiscountType: domain.DiscountType(d.DiscountType),
		ExpiryDate:   d.ExpiryDate,
		Status:       domain.CouponStatus(d.Status),
		CreatedBy:    d.CreatedBy,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	if d.FlatDiscount != nil {
		coupon.FlatDiscount = d.FlatDiscount
	}
	if d.PercentageDiscount != nil {
		coupon.PercentageDiscount = d.PercentageDiscount
	}
	if d.LastUpdatedBy != "" {
		coupon.LastUpdatedBy = &d.LastUpdatedBy
	}
	if d.ActiveStatusLastUpdatedBy != "" {
		coupon.ActiveStatusLastUpdatedBy = &d.ActiveStatusLastUpdatedBy
	}
	return coupon
}

var _ repositories.CouponRepository = (*CouponRepository)(nil)
