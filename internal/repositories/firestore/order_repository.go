package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	domain "github.com/shopease/api/internal/domain"
	pfirestore "github.com/shopease/api/internal/platform/firestore"
	"github.com/shopease/api/internal/repositories"
)

const orderCollection = "orders"

// OrderRepository persists orders within Firestore. The conditional updates
// backing the payment and status state machine run as transactions so that
// exactly one of any set of concurrent callers wins.
type OrderRepository struct {
	base     *pfirestore.BaseRepository[orderDocument]
	provider *pfirestore.Provider
}

// NewOrderRepository constructs a Firestore-backed order repository.
func NewOrderRepository(provider *pfirestore.Provider) (*OrderRepository, error) {
	if provider == nil {
		return nil, errors.New("order repository requires firestore provider")
	}
	base := pfirestore.NewBaseRepository[orderDocument](provider, orderCollection, nil, nil)
	return &OrderRepository{base: base, provider: provider}, nil
}

// Insert creates the order document. The id is the gateway order id, so a
// duplicate write surfaces as a conflict.
func (r *OrderRepository) Insert(ctx context.Context, order domain.Order) error {
	if r == nil || r.provider == nil {
		return errors.New("order repository not initialised")
	}
	orderID := strings.TrimSpace(order.ID)
	if orderID == "" {
		return errors.New("order repository: order id is required")
	}

	ref, err := r.base.DocumentRef(ctx, orderID)
	if err != nil {
		return err
	}
	if _, err := ref.Create(ctx, newOrderDocument(order)); err != nil {
		return pfirestore.WrapError("orders.insert", err)
	}
	return nil
}

// FindByID loads a single order.
func (r *OrderRepository) FindByID(ctx context.Context, orderID string) (domain.Order, error) {
	if r == nil || r.base == nil {
		return domain.Order{}, errors.New("order repository not initialised")
	}
	doc, err := r.base.Get(ctx, strings.TrimSpace(orderID))
	if err != nil {
		return domain.Order{}, err
	}
	return doc.Data.toDomain(doc.ID), nil
}

// List returns a filtered, sorted page of orders together with the total
// number of matches.
func (r *OrderRepository) List(ctx context.Context, filter repositories.OrderListFilter) (domain.CountedPage[domain.Order], error) {
	if r == nil || r.provider == nil {
		return domain.CountedPage[domain.Order]{}, errors.New("order repository not initialised")
	}

	client, err := r.provider.Client(ctx)
	if err != nil {
		return domain.CountedPage[domain.Order]{}, err
	}

	query := applyOrderFilter(client.Collection(orderCollection).Query, filter.Filter)

	total, err := countMatches(ctx, query)
	if err != nil {
		return domain.CountedPage[domain.Order]{}, pfirestore.WrapError("orders.count", err)
	}

	query = applyOrderSort(query, filter.Filter, filter.Sort)
	if offset := filter.Page.Offset(); offset > 0 {
		query = query.Offset(offset)
	}
	if filter.Page.Size > 0 {
		query = query.Limit(filter.Page.Size)
	}

	docs, err := r.base.Query(ctx, func(firestore.Query) firestore.Query { return query })
	if err != nil {
		return domain.CountedPage[domain.Order]{}, err
	}

	orders := make([]domain.Order, 0, len(docs))
	for _, doc := range docs {
		orders = append(orders, doc.Data.toDomain(doc.ID))
	}
	return domain.CountedPage[domain.Order]{Items: orders, Total: total}, nil
}

// MarkPaid flips isPaid false->true and stores the payment metadata. A second
// confirmation of the same order loses with a conflict.
func (r *OrderRepository) MarkPaid(ctx context.Context, orderID string, confirmation repositories.PaymentConfirmation) (domain.Order, error) {
	return r.mutate(ctx, orderID, "orders.markPaid", func(doc *orderDocument) error {
		if doc.Deleted {
			return status.Errorf(codes.NotFound, "order %s is deleted", orderID)
		}
		if doc.IsPaid {
			return status.Errorf(codes.FailedPrecondition, "order %s is already paid", orderID)
		}
		now := confirmation.Now.UTC()
		estimated := confirmation.EstimatedDeliveryDate.UTC()
		doc.IsPaid = true
		doc.PaymentID = strings.TrimSpace(confirmation.PaymentID)
		doc.EstimatedDeliveryDate = &estimated
		doc.UpdatedAt = now
		return nil
	})
}

// Transition moves the order between statuses, failing with a conflict when
// the stored status no longer matches from.
func (r *OrderRepository) Transition(ctx context.Context, orderID string, from, to domain.OrderStatus, stamp repositories.StatusStamp) (domain.Order, error) {
	return r.mutate(ctx, orderID, "orders.transition", func(doc *orderDocument) error {
		if doc.Deleted {
			return status.Errorf(codes.NotFound, "order %s is deleted", orderID)
		}
		if doc.Status != string(from) {
			return status.Errorf(codes.FailedPrecondition, "order %s is %s, expected %s", orderID, doc.Status, from)
		}
		now := stamp.Now.UTC()
		doc.Status = string(to)
		doc.StatusUpdatedAt = &now
		if by := strings.TrimSpace(stamp.By); by != "" {
			doc.StatusLastUpdatedBy = by
		}
		doc.UpdatedAt = now
		return nil
	})
}

// SoftDelete stamps the deletion envelope exactly once.
func (r *OrderRepository) SoftDelete(ctx context.Context, orderID string, stamp repositories.StatusStamp) (domain.Order, error) {
	return r.mutate(ctx, orderID, "orders.softDelete", func(doc *orderDocument) error {
		if doc.Deleted {
			return status.Errorf(codes.FailedPrecondition, "order %s is already deleted", orderID)
		}
		now := stamp.Now.UTC()
		doc.Deleted = true
		doc.DeletedAt = &now
		if by := strings.TrimSpace(stamp.By); by != "" {
			doc.DeletedBy = by
		}
		doc.UpdatedAt = now
		return nil
	})
}

// mutate runs a read-modify-write cycle on a single order inside a
// transaction. The callback signals precondition failures with gRPC status
// errors which the platform layer maps onto repository error categories.
func (r *OrderRepository) mutate(ctx context.Context, orderID string, op string, apply func(doc *orderDocument) error) (domain.Order, error) {
	if r == nil || r.provider == nil {
		return domain.Order{}, errors.New("order repository not initialised")
	}
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return domain.Order{}, errors.New("order repository: order id is required")
	}

	var updated orderDocument
	err := r.provider.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		ref, err := r.base.DocumentRef(ctx, orderID)
		if err != nil {
			return err
		}
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		var doc orderDocument
		if err := snap.DataTo(&doc); err != nil {
			return err
		}
		if err := apply(&doc); err != nil {
			return err
		}
		if err := tx.Set(ref, doc); err != nil {
			return err
		}
		updated = doc
		return nil
	})
	if err != nil {
		return domain.Order{}, pfirestore.WrapError(op, err)
	}
	return updated.toDomain(orderID), nil
}

func applyOrderFilter(query firestore.Query, filter domain.OrderFilter) firestore.Query {
	if userID := strings.TrimSpace(filter.UserID); userID != "" {
		query = query.Where("userId", "==", userID)
	}
	if filter.Paid != nil {
		query = query.Where("isPaid", "==", *filter.Paid)
	}
	if filter.Deleted != nil {
		query = query.Where("deleted", "==", *filter.Deleted)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		query = query.Where("status", "in", statuses)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("createdAt", ">", filter.CreatedAfter.UTC())
	}
	return query
}

// applyOrderSort orders the result set. When a createdAt inequality filter is
// present Firestore requires createdAt to be the first sort field.
func applyOrderSort(query firestore.Query, filter domain.OrderFilter, sort domain.OrderSort) firestore.Query {
	createdDir := firestore.Desc
	if sort == domain.OrderSortOldest {
		createdDir = firestore.Asc
	}

	switch sort {
	case domain.OrderSortAmountHighToLow:
		if filter.CreatedAfter != nil {
			query = query.OrderBy("createdAt", firestore.Desc)
		}
		return query.OrderBy("totalAmount", firestore.Desc)
	case domain.OrderSortAmountLowToHigh:
		if filter.CreatedAfter != nil {
			query = query.OrderBy("createdAt", firestore.Desc)
		}
		return query.OrderBy("totalAmount", firestore.Asc)
	default:
		return query.OrderBy("createdAt", createdDir)
	}
}

func countMatches(ctx context.Context, query firestore.Query) (int64, error) {
	results, err := query.NewAggregationQuery().WithCount("total").Get(ctx)
	if err != nil {
		return 0, err
	}
	if v, ok := results["total"].(*firestorepb.Value); ok {
		return v.GetIntegerValue(), nil
	}
	return 0, nil
}

type orderDocument struct {
	UserID                string              `firestore:"userId"`
	Items                 []orderItemDocument `firestore:"items"`
	CouponCode            string              `firestore:"couponCode,omitempty"`
	OrderAmount           int64               `firestore:"orderAmount"`
	Discount              int64               `firestore:"discount"`
	ShippingCharges       int64               `firestore:"shippingCharges"`
	TaxAmount             int64               `firestore:"taxAmount"`
	TotalAmount           int64               `firestore:"totalAmount"`
	ShippingAddressID     string              `firestore:"shippingAddressId"`
	DeliveryMode          string              `firestore:"deliveryMode"`
	PaymentMethod         string              `firestore:"paymentMethod"`
	IsPaid                bool                `firestore:"isPaid"`
	PaymentID             string              `firestore:"paymentId,omitempty"`
	EstimatedDeliveryDate *time.Time          `firestore:"estimatedDeliveryDate,omitempty"`
	Status                string              `firestore:"status"`
	StatusUpdatedAt       *time.Time          `firestore:"statusUpdatedAt,omitempty"`
	StatusLastUpdatedBy   string              `firestore:"statusLastUpdatedBy,omitempty"`
	Deleted               bool                `firestore:"deleted"`
	DeletedBy             string              `firestore:"deletedBy,omitempty"`
	DeletedAt             *time.Time          `firestore:"deletedAt,omitempty"`
	CreatedAt             time.Time           `firestore:"createdAt"`
	UpdatedAt             time.Time           `firestore:"updatedAt"`
}

type orderItemDocument struct {
	ProductID string `firestore:"productId"`
	Name      string `firestore:"name"`
	Quantity  int    `firestore:"quantity"`
	UnitPrice int64  `firestore:"unitPrice"`
}

func newOrderDocument(order domain.Order) orderDocument {
	items := make([]orderItemDocument, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemDocument{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	doc := orderDocument{
		UserID:            strings.TrimSpace(order.UserID),
		Items:             items,
		OrderAmount:       order.Totals.OrderAmount,
		Discount:          order.Totals.Discount,
		ShippingCharges:   order.Totals.ShippingCharges,
		TaxAmount:         order.Totals.TaxAmount,
		TotalAmount:       order.Totals.TotalAmount,
		ShippingAddressID: strings.TrimSpace(order.ShippingAddressID),
		DeliveryMode:      string(order.DeliveryMode),
		PaymentMethod:     strings.TrimSpace(order.PaymentMethod),
		IsPaid:            order.IsPaid,
		Status:            string(order.Status),
		Deleted:           order.Deletion.Deleted,
		CreatedAt:         order.CreatedAt.UTC(),
		UpdatedAt:         order.UpdatedAt.UTC(),
	}
	if order.CouponCode != nil {
		doc.CouponCode = strings.TrimSpace(*order.CouponCode)
	}
	if order.PaymentID != nil {
		doc.PaymentID = strings.TrimSpace(*order.PaymentID)
	}
	if order.EstimatedDeliveryDate != nil {
		estimated := order.EstimatedDeliveryDate.UTC()
		doc.EstimatedDeliveryDate = &estimated
	}
	if order.StatusUpdatedAt != nil {
		updatedAt := order.StatusUpdatedAt.UTC()
		doc.StatusUpdatedAt = &updatedAt
	}
	if order.StatusLastUpdatedBy != nil {
		doc.StatusLastUpdatedBy = strings.TrimSpace(*order.StatusLastUpdatedBy)
	}
	if order.Deletion.DeletedBy != nil {
		doc.DeletedBy = strings.TrimSpace(*order.Deletion.DeletedBy)
	}
	if order.Deletion.DeletedAt != nil {
		deletedAt := order.Deletion.DeletedAt.UTC()
		doc.DeletedAt = &deletedAt
	}
	return doc
}

func (d orderDocument) toDomain(id string) domain.Order {
	items := make([]domain.OrderItem, 0, len(d.Items))
	for _, item := range d.Items {
		items = append(items, domain.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	order := domain.Order{
		ID:     id,
		UserID: d.UserID,
		Items:  items,
		Totals: domain.OrderTotals{
			OrderAmount:     d.OrderAmount,
			Discount:        d.Discount,
			ShippingCharges: d.ShippingCharges,
			TaxAmount:       d.TaxAmount,
			TotalAmount:     d.TotalAmount,
		},
		ShippingAddressID: d.ShippingAddressID,
		DeliveryMode:      domain.DeliveryMode(d.DeliveryMode),
		PaymentMethod:     d.PaymentMethod,
		IsPaid:            d.IsPaid,
		Status:            domain.OrderStatus(d.Status),
		Deletion: domain.DeletionStamp{
			Deleted: d.Deleted,
		},
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if d.CouponCode != "" {
		order.CouponCode = &d.CouponCode
	}
	if d.PaymentID != "" {
		order.PaymentID = &d.PaymentID
	}
	if d.EstimatedDeliveryDate != nil {
		order.EstimatedDeliveryDate = d.EstimatedDeliveryDate
	}
	if d.StatusUpdatedAt != nil {
		order.StatusUpdatedAt = d.StatusUpdatedAt
	}
	if d.StatusLastUpdatedBy != "" {
		order.StatusLastUpdatedBy = &d.StatusLastUpdatedBy
	}
	if d.DeletedBy != "" {
		order.Deletion.DeletedBy = &d.DeletedBy
	}
	if d.DeletedAt != nil {
		order.Deletion.DeletedAt = d.DeletedAt
	}
	return order
}

var _ repositories.OrderRepository = (*OrderRepository)(nil)
