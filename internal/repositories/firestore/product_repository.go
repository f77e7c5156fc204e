package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	domain "github.com/shopease/api/internal/domain"
	pfirestore "github.com/shopease/api/internal/platform/firestore"
	"github.com/shopease/api/internal/repositories"
)

const productCollection = "products"

// ProductRepository reads catalog records and applies stock adjustments.
type ProductRepository struct {
	base     *pfirestore.BaseRepository[productDocument]
	provider *pfirestore.Provider
}

// NewProductRepository constructs a Firestore-backed product repository.
func NewProductRepository(provider *pfirestore.Provider) (*ProductRepository, error) {
	if provider == nil {
		return nil, errors.New("product repository requires firestore provider")
	}
	base := pfirestore.NewBaseRepository[productDocument](provider, productCollection, nil, nil)
	return &ProductRepository{base: base, provider: provider}, nil
}

// FindByID loads a single product.
func (r *ProductRepository) FindByID(ctx context.Context, productID string) (domain.Product, error) {
	if r == nil || r.base == nil {
		return domain.Product{}, errors.New("product repository not initialised")
	}
	doc, err := r.base.Get(ctx, strings.TrimSpace(productID))
	if err != nil {
		return domain.Product{}, err
	}
	return doc.Data.toDomain(doc.ID), nil
}

// ApplyStockDeltas adjusts stock and sold counters for every product in one
// transaction. Counters move by increments, never absolute writes, and a
// delta that would push stock negative aborts the whole batch.
func (r *ProductRepository) ApplyStockDeltas(ctx context.Context, deltas []domain.StockDelta) error {
	if r == nil || r.provider == nil {
		return errors.New("product repository not initialised")
	}
	if len(deltas) == 0 {
		return nil
	}

	err := r.provider.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		type pending struct {
			ref   *firestore.DocumentRef
			delta domain.StockDelta
		}
		// All reads must happen before the first write inside a Firestore
		// transaction.
		checked := make([]pending, 0, len(deltas))
		for _, delta := range deltas {
			productID := strings.TrimSpace(delta.ProductID)
			if productID == "" {
				return repositories.NewStockError(repositories.StockErrorProductNotFound, "product id is required", nil)
			}

			ref, err := r.base.DocumentRef(ctx, productID)
			if err != nil {
				return err
			}
			snap, err := tx.Get(ref)
			if err != nil {
				if status.Code(err) == codes.NotFound {
					return repositories.NewStockError(repositories.StockErrorProductNotFound, fmt.Sprintf("product %s not found", productID), err)
				}
				return err
			}
			var doc productDocument
			if err := snap.DataTo(&doc); err != nil {
				return fmt.Errorf("decode product %s: %w", productID, err)
			}
			if doc.Stock+delta.Stock < 0 {
				return repositories.NewStockError(repositories.StockErrorInsufficientStock, fmt.Sprintf("product %s has %d units available", productID, doc.Stock), nil)
			}
			checked = append(checked, pending{ref: ref, delta: delta})
		}

		now := time.Now().UTC()
		for _, p := range checked {
			updates := []firestore.Update{
				{Path: "stock", Value: firestore.Increment(p.delta.Stock)},
				{Path: "soldUnits", Value: firestore.Increment(p.delta.SoldUnits)},
				{Path: "updatedAt", Value: now},
			}
			if err := tx.Update(p.ref, updates); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var stockErr *repositories.StockError
		if errors.As(err, &stockErr) {
			return err
		}
		return pfirestore.WrapError("products.applyStockDeltas", err)
	}
	return nil
}

type productDocument struct {
	Name      string     `firestore:"name"`
	Price     int64      `firestore:"price"`
	Stock     int        `firestore:"stock"`
	SoldUnits int        `firestore:"soldUnits"`
	Deleted   bool       `firestore:"deleted"`
	DeletedBy string     `firestore:"deletedBy,omitempty"`
	DeletedAt *time.Time `firestore:"deletedAt,omitempty"`
	CreatedAt time.Time  `firestore:"createdAt"`
	UpdatedAt time.Time  `firestore:"updatedAt"`
}

func (d productDocument) toDomain(id string) domain.Product {
	product := domain.Product{
		ID:        id,
		Name:      d.Name,
		Price:     d.Price,
		Stock:     d.Stock,
		SoldUnits: d.SoldUnits,
		Deletion: domain.DeletionStamp{
			Deleted: d.Deleted,
		},
	}
	if d.DeletedBy != "" {
		product.Deletion.DeletedBy = &d.DeletedBy
	}
	if d.DeletedAt != nil {
		product.Deletion.DeletedAt = d.DeletedAt
	}
	return product
}

var _ repositories.ProductRepository = (*ProductRepository)(nil)
