package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domain "github.com/shopease/api/internal/domain"
	"github.com/shopease/api/internal/repositories"
)

var (
	// ErrInventoryInvalidInput signals a malformed item list.
	ErrInventoryInvalidInput = errors.New("inventory: invalid input")
	// ErrProductNotFound indicates the referenced product is absent or deleted.
	ErrProductNotFound = errors.New("inventory: product not found")
	// ErrProductOutOfStock indicates the product has zero units available.
	ErrProductOutOfStock = errors.New("inventory: product out of stock")
	// ErrInsufficientStock indicates the requested quantity exceeds availability.
	ErrInsufficientStock = errors.New("inventory: insufficient stock")
)

// InventoryServiceDeps bundles dependencies for the inventory service.
type InventoryServiceDeps struct {
	Products           repositories.ProductRepository
	MaxQuantityPerItem int
	Logger             func(ctx context.Context, event string, fields map[string]any)
}

type inventoryService struct {
	products repositories.ProductRepository
	maxQty   int
	logger   func(context.Context, string, map[string]any)
}

// NewInventoryService wires an InventoryService backed by the product repository.
func NewInventoryService(deps InventoryServiceDeps) (InventoryService, error) {
	if deps.Products == nil {
		return nil, errors.New("inventory service: product repository is required")
	}
	maxQty := deps.MaxQuantityPerItem
	if maxQty <= 0 {
		maxQty = 10
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &inventoryService{
		products: deps.Products,
		maxQty:   maxQty,
		logger:   logger,
	}, nil
}

// ValidateItems checks every requested line against live stock and returns
// priced order items with the catalog price snapshotted. Duplicate product
// lines collapse into one, keeping the larger requested quantity.
func (s *inventoryService) ValidateItems(ctx context.Context, requested []CartItem) ([]OrderItem, error) {
	if len(requested) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", ErrInventoryInvalidInput)
	}

	merged := mergeDuplicateLines(requested)
	if len(merged) == 0 {
		return nil, fmt.Errorf("%w: every item needs a product id", ErrInventoryInvalidInput)
	}

	items := make([]OrderItem, 0, len(merged))
	for _, line := range merged {
		if line.Quantity < 1 || line.Quantity > s.maxQty {
			return nil, fmt.Errorf("%w: quantity for product %s must be between 1 and %d", ErrInventoryInvalidInput, line.ProductID, s.maxQty)
		}

		product, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil {
			return nil, s.mapRepositoryError(line.ProductID, err)
		}
		if product.Deletion.Deleted {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, line.ProductID)
		}
		if product.Stock == 0 {
			return nil, fmt.Errorf("%w: %s", ErrProductOutOfStock, line.ProductID)
		}
		if product.Stock < line.Quantity {
			return nil, fmt.Errorf("%w: product %s has %d units available, %d requested", ErrInsufficientStock, line.ProductID, product.Stock, line.Quantity)
		}

		items = append(items, OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  line.Quantity,
			UnitPrice: product.Price,
		})
	}
	return items, nil
}

// CommitSale decrements stock and increments sold counters for every item.
// Adjustments are atomic per-product deltas so concurrent orders touching the
// same product stay consistent.
func (s *inventoryService) CommitSale(ctx context.Context, items []OrderItem) error {
	return s.apply(ctx, items, -1)
}

// ReverseSale restores stock and sold counters, mirroring CommitSale.
func (s *inventoryService) ReverseSale(ctx context.Context, items []OrderItem) error {
	return s.apply(ctx, items, 1)
}

func (s *inventoryService) apply(ctx context.Context, items []OrderItem, direction int) error {
	if len(items) == 0 {
		return nil
	}
	deltas := make([]domain.StockDelta, 0, len(items))
	for _, item := range items {
		deltas = append(deltas, domain.StockDelta{
			ProductID: item.ProductID,
			Stock:     direction * item.Quantity,
			SoldUnits: -direction * item.Quantity,
		})
	}
	if err := s.products.ApplyStockDeltas(ctx, deltas); err != nil {
		return s.mapRepositoryError("", err)
	}
	return nil
}

func (s *inventoryService) mapRepositoryError(productID string, err error) error {
	if err == nil {
		return nil
	}

	var stockErr *repositories.StockError
	if errors.As(err, &stockErr) {
		switch stockErr.Code {
		case repositories.StockErrorProductNotFound:
			return fmt.Errorf("%w: %s", ErrProductNotFound, stockErrorSubject(productID, stockErr))
		case repositories.StockErrorOutOfStock:
			return fmt.Errorf("%w: %s", ErrProductOutOfStock, stockErrorSubject(productID, stockErr))
		case repositories.StockErrorInsufficientStock:
			return fmt.Errorf("%w: %s", ErrInsufficientStock, stockErr.Message)
		}
	}

	var repoErr repositories.RepositoryError
	if errors.As(err, &repoErr) {
		switch {
		case repoErr.IsNotFound():
			return fmt.Errorf("%w: %s", ErrProductNotFound, productID)
		case repoErr.IsUnavailable():
			return fmt.Errorf("inventory: repository unavailable: %w", err)
		}
	}
	return err
}

func stockErrorSubject(productID string, stockErr *repositories.StockError) string {
	if productID != "" {
		return productID
	}
	return stockErr.Message
}

func mergeDuplicateLines(requested []CartItem) []CartItem {
	merged := make([]CartItem, 0, len(requested))
	index := make(map[string]int, len(requested))
	for _, line := range requested {
		id := strings.TrimSpace(line.ProductID)
		if id == "" {
			continue
		}
		if at, ok := index[id]; ok {
			if line.Quantity > merged[at].Quantity {
				merged[at].Quantity = line.Quantity
			}
			continue
		}
		index[id] = len(merged)
		merged = append(merged, CartItem{ProductID: id, Quantity: line.Quantity})
	}
	return merged
}
