package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	domain "github.com/shopease/api/internal/domain"
	"github.com/shopease/api/internal/repositories"
)

type stubProductRepo struct {
	findFn  func(ctx context.Context, productID string) (domain.Product, error)
	applyFn func(ctx context.Context, deltas []domain.StockDelta) error

	applied [][]domain.StockDelta
}

func (s *stubProductRepo) FindByID(ctx context.Context, productID string) (domain.Product, error) {
	if s.findFn == nil {
		return domain.Product{}, errors.New("unexpected product FindByID call")
	}
	return s.findFn(ctx, productID)
}

func (s *stubProductRepo) ApplyStockDeltas(ctx context.Context, deltas []domain.StockDelta) error {
	s.applied = append(s.applied, deltas)
	if s.applyFn == nil {
		return nil
	}
	return s.applyFn(ctx, deltas)
}

func newInventoryFixture(t *testing.T, products *stubProductRepo) InventoryService {
	t.Helper()
	svc, err := NewInventoryService(InventoryServiceDeps{
		Products:           products,
		MaxQuantityPerItem: 10,
	})
	if err != nil {
		t.Fatalf("NewInventoryService: %v", err)
	}
	return svc
}

func catalogOf(products map[string]domain.Product) *stubProductRepo {
	return &stubProductRepo{
		findFn: func(_ context.Context, productID string) (domain.Product, error) {
			product, ok := products[productID]
			if !ok {
				return domain.Product{}, &stubRepoError{notFound: true}
			}
			return product, nil
		},
	}
}

func TestValidateItemsSnapshotsCatalogPrice(t *testing.T) {
	repo := catalogOf(map[string]domain.Product{
		"prod_1": {ID: "prod_1", Name: "Steel Bottle", Price: 45000, Stock: 8},
		"prod_2": {ID: "prod_2", Name: "Canvas Bag", Price: 120000, Stock: 3},
	})
	svc := newInventoryFixture(t, repo)

	items, err := svc.ValidateItems(context.Background(), []CartItem{
		{ProductID: "prod_1", Quantity: 2},
		{ProductID: "prod_2", Quantity: 1},
	})
	if err != nil {
		t.Fatalf("ValidateItems returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].UnitPrice != 45000 || items[0].Name != "Steel Bottle" {
		t.Errorf("expected price and name snapshot, got %+v", items[0])
	}
	if items[0].Subtotal() != 90000 {
		t.Errorf("unexpected subtotal %d", items[0].Subtotal())
	}
}

func TestValidateItemsMergesDuplicateLines(t *testing.T) {
	repo := catalogOf(map[string]domain.Product{
		"prod_1": {ID: "prod_1", Name: "Steel Bottle", Price: 45000, Stock: 8},
	})
	svc := newInventoryFixture(t, repo)

	items, err := svc.ValidateItems(context.Background(), []CartItem{
		{ProductID: "prod_1", Quantity: 2},
		{ProductID: " prod_1 ", Quantity: 5},
		{ProductID: "prod_1", Quantity: 3},
	})
	if err != nil {
		t.Fatalf("ValidateItems returned error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected duplicate lines merged, got %d items", len(items))
	}
	if items[0].Quantity != 5 {
		t.Errorf("expected the largest requested quantity to win, got %d", items[0].Quantity)
	}
}

func TestValidateItemsQuantityBounds(t *testing.T) {
	repo := catalogOf(map[string]domain.Product{
		"prod_1": {ID: "prod_1", Price: 45000, Stock: 100},
	})
	svc := newInventoryFixture(t, repo)

	for _, quantity := range []int{0, -1, 11} {
		_, err := svc.ValidateItems(context.Background(), []CartItem{{ProductID: "prod_1", Quantity: quantity}})
		if !errors.Is(err, ErrInventoryInvalidInput) {
			t.Errorf("quantity %d: expected ErrInventoryInvalidInput, got %v", quantity, err)
		}
	}
}

func TestValidateItemsRejectsEmptyRequests(t *testing.T) {
	svc := newInventoryFixture(t, catalogOf(nil))

	if _, err := svc.ValidateItems(context.Background(), nil); !errors.Is(err, ErrInventoryInvalidInput) {
		t.Fatalf("expected ErrInventoryInvalidInput for empty request, got %v", err)
	}
	_, err := svc.ValidateItems(context.Background(), []CartItem{{ProductID: "  ", Quantity: 1}})
	if !errors.Is(err, ErrInventoryInvalidInput) {
		t.Fatalf("expected ErrInventoryInvalidInput for blank product ids, got %v", err)
	}
}

func TestValidateItemsStockFailures(t *testing.T) {
	repo := catalogOf(map[string]domain.Product{
		"prod_gone":  {ID: "prod_gone", Price: 1000, Stock: 5, Deletion: domain.DeletionStamp{Deleted: true}},
		"prod_empty": {ID: "prod_empty", Price: 1000, Stock: 0},
		"prod_low":   {ID: "prod_low", Price: 1000, Stock: 2},
	})
	svc := newInventoryFixture(t, repo)

	cases := []struct {
		name      string
		productID string
		quantity  int
		wantErr   error
	}{
		{"unknown product", "prod_missing", 1, ErrProductNotFound},
		{"deleted product", "prod_gone", 1, ErrProductNotFound},
		{"out of stock", "prod_empty", 1, ErrProductOutOfStock},
		{"insufficient stock", "prod_low", 3, ErrInsufficientStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ValidateItems(context.Background(), []CartItem{{ProductID: tc.productID, Quantity: tc.quantity}})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestValidateItemsReportsAvailability(t *testing.T) {
	repo := catalogOf(map[string]domain.Product{
		"prod_low": {ID: "prod_low", Price: 1000, Stock: 2},
	})
	svc := newInventoryFixture(t, repo)

	_, err := svc.ValidateItems(context.Background(), []CartItem{{ProductID: "prod_low", Quantity: 7}})
	if err == nil {
		t.Fatal("expected insufficient stock error")
	}
	if !strings.Contains(err.Error(), "2 units available") || !strings.Contains(err.Error(), "7 requested") {
		t.Fatalf("expected availability detail in %q", err.Error())
	}
}

func TestCommitSaleBuildsNegativeDeltas(t *testing.T) {
	repo := &stubProductRepo{}
	svc := newInventoryFixture(t, repo)

	err := svc.CommitSale(context.Background(), []OrderItem{
		{ProductID: "prod_1", Quantity: 2},
		{ProductID: "prod_2", Quantity: 1},
	})
	if err != nil {
		t.Fatalf("CommitSale returned error: %v", err)
	}
	if len(repo.applied) != 1 {
		t.Fatalf("expected a single batched delta write, got %d", len(repo.applied))
	}
	deltas := repo.applied[0]
	want := []domain.StockDelta{
		{ProductID: "prod_1", Stock: -2, SoldUnits: 2},
		{ProductID: "prod_2", Stock: -1, SoldUnits: 1},
	}
	if len(deltas) != len(want) {
		t.Fatalf("expected %d deltas, got %d", len(want), len(deltas))
	}
	for i, delta := range deltas {
		if delta != want[i] {
			t.Errorf("delta %d: expected %+v, got %+v", i, want[i], delta)
		}
	}
}

func TestReverseSaleMirrorsCommit(t *testing.T) {
	repo := &stubProductRepo{}
	svc := newInventoryFixture(t, repo)

	if err := svc.ReverseSale(context.Background(), []OrderItem{{ProductID: "prod_1", Quantity: 3}}); err != nil {
		t.Fatalf("ReverseSale returned error: %v", err)
	}
	deltas := repo.applied[0]
	if deltas[0].Stock != 3 || deltas[0].SoldUnits != -3 {
		t.Errorf("expected mirrored delta, got %+v", deltas[0])
	}
}

func TestCommitSaleWithNoItemsIsNoop(t *testing.T) {
	repo := &stubProductRepo{}
	svc := newInventoryFixture(t, repo)

	if err := svc.CommitSale(context.Background(), nil); err != nil {
		t.Fatalf("CommitSale returned error: %v", err)
	}
	if len(repo.applied) != 0 {
		t.Error("empty commit must not touch the repository")
	}
}

func TestApplyDeltasMapsStockErrors(t *testing.T) {
	repo := &stubProductRepo{
		applyFn: func(context.Context, []domain.StockDelta) error {
			return repositories.NewStockError(repositories.StockErrorInsufficientStock, "product prod_1 has 1 units available, 4 requested", nil)
		},
	}
	svc := newInventoryFixture(t, repo)

	err := svc.CommitSale(context.Background(), []OrderItem{{ProductID: "prod_1", Quantity: 4}})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
}
