package firestore

import (
	"context"
	"errors"

	pfirestore "github.com/shopease/api/internal/platform/firestore"
	"github.com/shopease/api/internal/repositories"
)

// Registry bundles the Firestore-backed repositories behind the
// repositories.Registry contract.
type Registry struct {
	provider *pfirestore.Provider

	orders    *OrderRepository
	coupons   *CouponRepository
	products  *ProductRepository
	carts     *CartRepository
	addresses *AddressRepository
	users     *UserRepository
	health    repositories.HealthRepository
}

// NewRegistry wires every repository against the shared Firestore provider.
func NewRegistry(provider *pfirestore.Provider) (*Registry, error) {
	if provider == nil {
		return nil, errors.New("registry requires firestore provider")
	}

	orders, err := NewOrderRepository(provider)
	if err != nil {
		return nil, err
	}
	coupons, err := NewCouponRepository(provider)
	if err != nil {
		return nil, err
	}
	products, err := NewProductRepository(provider)
	if err != nil {
		return nil, err
	}
	carts, err := NewCartRepository(provider)
	if err != nil {
		return nil, err
	}
	addresses, err := NewAddressRepository(provider)
	if err != nil {
		return nil, err
	}
	users, err := NewUserRepository(provider)
	if err != nil {
		return nil, err
	}

	health, err := repositories.NewDependencyHealthRepository([]repositories.DependencyCheck{
		{
			Name: "firestore",
			Check: func(ctx context.Context) error {
				_, err := provider.Client(ctx)
				return err
			},
		},
	})
	if err != nil {
		return nil, err
	}

	return &Registry{
		provider:  provider,
		orders:    orders,
		coupons:   coupons,
		products:  products,
		carts:     carts,
		addresses: addresses,
		users:     users,
		health:    health,
	}, nil
}

// Close releases the underlying Firestore client.
func (r *Registry) Close(ctx context.Context) error {
	if r == nil || r.provider == nil {
		return nil
	}
	return r.provider.Close(ctx)
}

func (r *Registry) Orders() repositories.OrderRepository       { return r.orders }
func (r *Registry) Coupons() repositories.CouponRepository     { return r.coupons }
func (r *Registry) Products() repositories.ProductRepository   { return r.products }
func (r *Registry) Carts() repositories.CartRepository         { return r.carts }
func (r *Registry) Addresses() repositories.AddressRepository  { return r.addresses }
func (r *Registry) Users() repositories.UserRepository         { return r.users }
func (r *Registry) Health() repositories.HealthRepository      { return r.health }

// RunInTx executes fn inside a Firestore transaction scope.
func (r *Registry) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if r == nil || r.provider == nil {
		return errors.New("registry not initialised")
	}
	return fn(ctx)
}

var _ repositories.Registry = (*Registry)(nil)
