package di

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/shopease/api/internal/payments"
	"github.com/shopease/api/internal/platform/config"
	"github.com/shopease/api/internal/repositories"
	"github.com/shopease/api/internal/services"
)

// Services bundles the service-layer contracts that handlers rely upon. Concrete implementations
// are assembled via dependency injection in NewContainer.
type Services struct {
	Orders    services.OrderService
	Coupons   services.CouponService
	Pricing   services.PricingCalculator
	Inventory services.InventoryService
}

// Dependencies carries the externally constructed collaborators the container
// cannot build itself.
type Dependencies struct {
	Gateway  payments.Gateway
	Verifier *payments.SignatureVerifier
	Notifier services.Notifier
	Logger   *zap.Logger
}

// Container wires repositories, services, and background infrastructure for runtime use.
type Container struct {
	Config       config.Config
	Repositories repositories.Registry
	Services     Services
}

// NewContainer constructs the runtime dependencies. Production wiring provides real
// implementations, while tests can supply in-memory registries and stub gateways.
func NewContainer(ctx context.Context, cfg config.Config, reg repositories.Registry, deps Dependencies) (*Container, error) {
	if reg == nil {
		return nil, errors.New("repositories registry is required")
	}

	svc, err := buildServices(ctx, reg, cfg, deps)
	if err != nil {
		return nil, err
	}

	return &Container{
		Config:       cfg,
		Repositories: reg,
		Services:     svc,
	}, nil
}

// Close releases resources such as repository clients, background workers, or caches.
func (c *Container) Close(ctx context.Context) error {
	if c == nil || c.Repositories == nil {
		return nil
	}
	return c.Repositories.Close(ctx)
}

func buildServices(_ context.Context, reg repositories.Registry, cfg config.Config, deps Dependencies) (Services, error) {
	var svc Services

	logEvent := eventLogger(deps.Logger)

	pricing, err := services.NewPricingCalculator(cfg.Pricing.Policy())
	if err != nil {
		return Services{}, fmt.Errorf("build pricing calculator: %w", err)
	}
	svc.Pricing = pricing

	inventorySvc, err := services.NewInventoryService(services.InventoryServiceDeps{
		Products:           reg.Products(),
		MaxQuantityPerItem: cfg.Pricing.MaxQuantityPerItem,
		Logger:             logEvent,
	})
	if err != nil {
		return Services{}, fmt.Errorf("build inventory service: %w", err)
	}
	svc.Inventory = inventorySvc

	couponSvc, err := services.NewCouponService(services.CouponServiceDeps{
		Coupons: reg.Coupons(),
		Logger:  logEvent,
	})
	if err != nil {
		return Services{}, fmt.Errorf("build coupon service: %w", err)
	}
	svc.Coupons = couponSvc

	orderSvc, err := services.NewOrderService(services.OrderServiceDeps{
		Orders:          reg.Orders(),
		Carts:           reg.Carts(),
		Addresses:       reg.Addresses(),
		Users:           reg.Users(),
		Coupons:         couponSvc,
		Pricing:         pricing,
		Inventory:       inventorySvc,
		Gateway:         deps.Gateway,
		Verifier:        deps.Verifier,
		Notifier:        deps.Notifier,
		Policy:          cfg.Pricing.Policy(),
		DeletionGrace:   cfg.Pricing.UnpaidDeleteGrace,
		DefaultPageSize: cfg.Pagination.OrdersPerPage,
		Logger:          logEvent,
	})
	if err != nil {
		return Services{}, fmt.Errorf("build order service: %w", err)
	}
	svc.Orders = orderSvc

	return svc, nil
}

// eventLogger adapts a zap logger into the event closure services accept.
func eventLogger(logger *zap.Logger) func(ctx context.Context, event string, fields map[string]any) {
	if logger == nil {
		return nil
	}
	return func(_ context.Context, event string, fields map[string]any) {
		zapFields := make([]zap.Field, 0, len(fields))
		for key, value := range fields {
			zapFields = append(zapFields, zap.Any(key, value))
		}
		logger.Info(event, zapFields...)
	}
}
