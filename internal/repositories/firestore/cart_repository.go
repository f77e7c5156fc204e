package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	domain "github.com/shopease/api/internal/domain"
	pfirestore "github.com/shopease/api/internal/platform/firestore"
	"github.com/shopease/api/internal/repositories"
)

const cartCollection = "carts"

// CartRepository persists per-user carts, keyed by the user id.
type CartRepository struct {
	base *pfirestore.BaseRepository[cartDocument]
}

// NewCartRepository constructs a Firestore-backed cart repository.
func NewCartRepository(provider *pfirestore.Provider) (*CartRepository, error) {
	if provider == nil {
		return nil, errors.New("cart repository requires firestore provider")
	}
	base := pfirestore.NewBaseRepository[cartDocument](provider, cartCollection, nil, nil)
	return &CartRepository{base: base}, nil
}

// Get loads the user's cart items. A missing cart document reads as an
// empty cart.
func (r *CartRepository) Get(ctx context.Context, userID string) ([]domain.CartItem, error) {
	if r == nil || r.base == nil {
		return nil, errors.New("cart repository not initialised")
	}
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, errors.New("cart repository: user id is required")
	}

	doc, err := r.base.Get(ctx, uid)
	if err != nil {
		var repoErr repositories.RepositoryError
		if errors.As(err, &repoErr) && repoErr.IsNotFound() {
			return []domain.CartItem{}, nil
		}
		return nil, err
	}

	items := make([]domain.CartItem, 0, len(doc.Data.Items))
	for _, item := range doc.Data.Items {
		items = append(items, domain.CartItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return items, nil
}

// Clear empties the user's cart. Clearing a cart that never existed is a
// no-op.
func (r *CartRepository) Clear(ctx context.Context, userID string) error {
	if r == nil || r.base == nil {
		return errors.New("cart repository not initialised")
	}
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return errors.New("cart repository: user id is required")
	}

	_, err := r.base.Update(ctx, uid, []firestore.Update{
		{Path: "items", Value: []cartItemDocument{}},
		{Path: "updatedAt", Value: time.Now().UTC()},
	})
	if err != nil {
		var repoErr repositories.RepositoryError
		if errors.As(err, &repoErr) && repoErr.IsNotFound() {
			return nil
		}
		return err
	}
	return nil
}

type cartDocument struct {
	Items     []cartItemDocument `firestore:"items"`
	CreatedAt time.Time          `firestore:"createdAt"`
	UpdatedAt time.Time          `firestore:"updatedAt"`
}

type cartItemDocument struct {
	ProductID string `firestore:"productId"`
	Quantity  int    `firestore:"quantity"`
}

var _ repositories.CartRepository = (*CartRepository)(nil)
