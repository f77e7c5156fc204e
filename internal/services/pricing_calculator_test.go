package services

import (
	"errors"
	"testing"

	domain "github.com/shopease/api/internal/domain"
)

func newCalculator(t *testing.T) PricingCalculator {
	t.Helper()
	calc, err := NewPricingCalculator(testPolicy())
	if err != nil {
		t.Fatalf("NewPricingCalculator: %v", err)
	}
	return calc
}

func TestNewPricingCalculatorValidation(t *testing.T) {
	if _, err := NewPricingCalculator(domain.PricingPolicy{TaxRate: 0.18}); err == nil {
		t.Error("expected error without delivery options")
	}

	policy := testPolicy()
	policy.TaxRate = 1.2
	if _, err := NewPricingCalculator(policy); err == nil {
		t.Error("expected error for tax rate above 1")
	}
}

func TestComputeTotalsStandardDelivery(t *testing.T) {
	calc := newCalculator(t)

	totals, err := calc.ComputeTotals(PricingInput{
		Items:        []OrderItem{{ProductID: "prod_1", Quantity: 2, UnitPrice: 50000}},
		DeliveryMode: domain.DeliveryModeStandard,
	})
	if err != nil {
		t.Fatalf("ComputeTotals returned error: %v", err)
	}

	want := OrderTotals{
		OrderAmount:     100000,
		Discount:        0,
		ShippingCharges: 3000,
		// 18% of goods plus shipping: round(103000 * 0.18) = 18540.
		TaxAmount:   18540,
		TotalAmount: 121540,
	}
	if totals != want {
		t.Fatalf("expected %+v, got %+v", want, totals)
	}
}

func TestComputeTotalsIsDeterministic(t *testing.T) {
	calc := newCalculator(t)

	input := PricingInput{
		Items: []OrderItem{
			{ProductID: "prod_1", Quantity: 3, UnitPrice: 33333},
			{ProductID: "prod_2", Quantity: 1, UnitPrice: 49999},
		},
		DeliveryMode: domain.DeliveryModeExpress,
	}

	first, err := calc.ComputeTotals(input)
	if err != nil {
		t.Fatalf("ComputeTotals returned error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := calc.ComputeTotals(input)
		if err != nil {
			t.Fatalf("ComputeTotals returned error: %v", err)
		}
		if again != first {
			t.Fatalf("totals changed between identical calls: %+v vs %+v", first, again)
		}
	}
}

func TestComputeTotalsFlatCoupon(t *testing.T) {
	calc := newCalculator(t)
	flat := int64(10000)
	coupon := &Coupon{Code: "SAVE100", DiscountType: domain.DiscountTypeFlat, FlatDiscount: &flat}

	totals, err := calc.ComputeTotals(PricingInput{
		Items:        []OrderItem{{ProductID: "prod_1", Quantity: 2, UnitPrice: 50000}},
		DeliveryMode: domain.DeliveryModeStandard,
		Coupon:       coupon,
	})
	if err != nil {
		t.Fatalf("ComputeTotals returned error: %v", err)
	}
	if totals.Discount != 10000 {
		t.Errorf("expected flat discount 10000, got %d", totals.Discount)
	}
	// Tax is computed before the discount comes off.
	if totals.TaxAmount != 18540 {
		t.Errorf("expected pre-discount tax 18540, got %d", totals.TaxAmount)
	}
	if totals.TotalAmount != 111540 {
		t.Errorf("expected total 111540, got %d", totals.TotalAmount)
	}
}

func TestComputeTotalsFlatCouponFloor(t *testing.T) {
	calc := newCalculator(t)
	flat := int64(200000)
	coupon := &Coupon{Code: "BIGSAVE", DiscountType: domain.DiscountTypeFlat, FlatDiscount: &flat}

	_, err := calc.ComputeTotals(PricingInput{
		Items:        []OrderItem{{ProductID: "prod_1", Quantity: 1, UnitPrice: 50000}},
		DeliveryMode: domain.DeliveryModeStandard,
		Coupon:       coupon,
	})
	if !errors.Is(err, ErrPricingDiscountFloor) {
		t.Fatalf("expected ErrPricingDiscountFloor, got %v", err)
	}
}

func TestComputeTotalsPercentageCouponRoundsHalfUp(t *testing.T) {
	calc := newCalculator(t)

	cases := []struct {
		name         string
		unitPrice    int64
		pct          int
		wantDiscount int64
	}{
		{"exact", 100000, 10, 10000},
		{"rounds up at half", 50, 15, 8},      // 7.5 -> 8
		{"rounds down below half", 33, 10, 3}, // 3.3 -> 3
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pct := tc.pct
			coupon := &Coupon{Code: "PCTOFF", DiscountType: domain.DiscountTypePercentage, PercentageDiscount: &pct}
			totals, err := calc.ComputeTotals(PricingInput{
				Items:        []OrderItem{{ProductID: "prod_1", Quantity: 1, UnitPrice: tc.unitPrice}},
				DeliveryMode: domain.DeliveryModeStandard,
				Coupon:       coupon,
			})
			if err != nil {
				t.Fatalf("ComputeTotals returned error: %v", err)
			}
			if totals.Discount != tc.wantDiscount {
				t.Fatalf("expected discount %d, got %d", tc.wantDiscount, totals.Discount)
			}
		})
	}
}

func TestComputeTotalsInvalidInputs(t *testing.T) {
	calc := newCalculator(t)
	badPct := 0

	cases := []struct {
		name    string
		input   PricingInput
		wantErr error
	}{
		{
			"no items",
			PricingInput{DeliveryMode: domain.DeliveryModeStandard},
			ErrPricingInvalidInput,
		},
		{
			"zero quantity",
			PricingInput{
				Items:        []OrderItem{{ProductID: "prod_1", Quantity: 0, UnitPrice: 100}},
				DeliveryMode: domain.DeliveryModeStandard,
			},
			ErrPricingInvalidInput,
		},
		{
			"negative unit price",
			PricingInput{
				Items:        []OrderItem{{ProductID: "prod_1", Quantity: 1, UnitPrice: -5}},
				DeliveryMode: domain.DeliveryModeStandard,
			},
			ErrPricingInvalidInput,
		},
		{
			"unknown delivery mode",
			PricingInput{
				Items:        []OrderItem{{ProductID: "prod_1", Quantity: 1, UnitPrice: 100}},
				DeliveryMode: "teleport",
			},
			ErrPricingUnknownDeliveryMode,
		},
		{
			"flat coupon without value",
			PricingInput{
				Items:        []OrderItem{{ProductID: "prod_1", Quantity: 1, UnitPrice: 100}},
				DeliveryMode: domain.DeliveryModeStandard,
				Coupon:       &Coupon{Code: "NOVAL", DiscountType: domain.DiscountTypeFlat},
			},
			ErrPricingInvalidInput,
		},
		{
			"percentage out of range",
			PricingInput{
				Items:        []OrderItem{{ProductID: "prod_1", Quantity: 1, UnitPrice: 100}},
				DeliveryMode: domain.DeliveryModeStandard,
				Coupon:       &Coupon{Code: "ZERO", DiscountType: domain.DiscountTypePercentage, PercentageDiscount: &badPct},
			},
			ErrPricingInvalidInput,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := calc.ComputeTotals(tc.input); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}
