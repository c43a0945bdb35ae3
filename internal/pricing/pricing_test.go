package pricing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/tidewash/api/internal/enum"
)

func kg(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCalculate_WashDryFoldTiers(t *testing.T) {
	tests := []struct {
		name        string
		weight      string
		wantLoads   int32
		wantService string
	}{
		{"zero weight", "0", 0, "0"},
		{"tiny load", "0.5", 1, "155"},
		{"just under five", "4.99", 1, "155"},
		{"partial load", "4.5", 1, "155"},
		{"exactly five", "5", 1, "175"},
		{"full load", "6", 1, "175"},
		{"exactly seven", "7", 1, "175"},
		{"just over seven", "7.01", 2, "330"},
		{"full plus under five", "10", 2, "330"},
		{"two full loads", "14", 2, "350"},
		{"full plus partial", "18", 3, "505"},
		{"three full loads", "21", 3, "525"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Calculate(Input{
				ServiceTier:     enum.ServiceWashDryFold,
				ClothesWeightKg: kg(tt.weight),
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if q.LoadCount != tt.wantLoads {
				t.Errorf("loads: got %d, want %d", q.LoadCount, tt.wantLoads)
			}
			if !q.ServiceCost.Equal(kg(tt.wantService)) {
				t.Errorf("service cost: got %s, want %s", q.ServiceCost, tt.wantService)
			}
			if !q.Total.Equal(q.ServiceCost) {
				t.Errorf("total without articles should equal service cost, got %s vs %s", q.Total, q.ServiceCost)
			}
		})
	}
}

func TestCalculate_WashOnlyAndDryOnly(t *testing.T) {
	for _, tier := range []string{enum.ServiceWashOnly, enum.ServiceDryOnly} {
		q, err := Calculate(Input{ServiceTier: tier, ClothesWeightKg: kg("14")})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tier, err)
		}
		if q.LoadCount != 2 {
			t.Errorf("%s loads: got %d, want 2", tier, q.LoadCount)
		}
		if !q.ServiceCost.Equal(kg("170")) {
			t.Errorf("%s service cost: got %s, want 170", tier, q.ServiceCost)
		}
	}

	// Partial weight still rounds up to a whole load.
	q, err := Calculate(Input{ServiceTier: enum.ServiceWashOnly, ClothesWeightKg: kg("7.5")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.LoadCount != 2 || !q.ServiceCost.Equal(kg("170")) {
		t.Errorf("7.5kg wash-only: got loads=%d cost=%s, want 2/170", q.LoadCount, q.ServiceCost)
	}
}

func TestCalculate_EmptyInputIsZero(t *testing.T) {
	q, err := Calculate(Input{ServiceTier: enum.ServiceWashDryFold})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.LoadCount != 0 {
		t.Errorf("loads: got %d, want 0", q.LoadCount)
	}
	if !q.Total.IsZero() {
		t.Errorf("total: got %s, want 0", q.Total)
	}
}

func TestCalculate_ArticlesCost(t *testing.T) {
	q, err := Calculate(Input{
		ServiceTier:          enum.ServiceWashDryFold,
		ClothesWeightKg:      kg("6"), // one load at 175
		ComforterSingleCount: 2,       // 310
		ComforterDoubleCount: 1,       // 170
		BedsheetCount:        3,       // 600
		OthersCount:          2,       // 2 * 155 * 1 load = 310
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !q.ArticlesCost.Equal(kg("1390")) {
		t.Errorf("articles cost: got %s, want 1390", q.ArticlesCost)
	}
	if !q.Total.Equal(kg("1565")) {
		t.Errorf("total: got %s, want 1565", q.Total)
	}
}

func TestCalculate_OthersScaleWithLoadCount(t *testing.T) {
	// 10kg Wash-Dry-Fold is two loads, so each "others" article costs 310.
	q, err := Calculate(Input{
		ServiceTier:     enum.ServiceWashDryFold,
		ClothesWeightKg: kg("10"),
		OthersCount:     1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !q.ArticlesCost.Equal(kg("310")) {
		t.Errorf("articles cost: got %s, want 310", q.ArticlesCost)
	}
}

func TestCalculate_DetergentsCost(t *testing.T) {
	q, err := Calculate(Input{
		ServiceTier:               enum.ServiceWashDryFold,
		ClothesWeightKg:           kg("4.5"),
		DetergentAdditional:       2,
		FabricDetergentAdditional: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !q.DetergentsCost.Equal(kg("45")) {
		t.Errorf("detergents cost: got %s, want 45", q.DetergentsCost)
	}
	if !q.Total.Equal(kg("200")) {
		t.Errorf("total: got %s, want 200", q.Total)
	}
}

func TestCalculate_NegativeInputs(t *testing.T) {
	if _, err := Calculate(Input{
		ServiceTier:     enum.ServiceWashDryFold,
		ClothesWeightKg: kg("-1"),
	}); !errors.Is(err, ErrNegativeWeight) {
		t.Errorf("negative weight: got %v, want ErrNegativeWeight", err)
	}

	if _, err := Calculate(Input{
		ServiceTier:     enum.ServiceWashDryFold,
		ClothesWeightKg: kg("5"),
		BedsheetCount:   -2,
	}); !errors.Is(err, ErrNegativeCount) {
		t.Errorf("negative count: got %v, want ErrNegativeCount", err)
	}
}

func TestCalculate_UnknownService(t *testing.T) {
	if _, err := Calculate(Input{ServiceTier: "Dry-Clean", ClothesWeightKg: kg("5")}); !errors.Is(err, ErrUnknownService) {
		t.Errorf("got %v, want ErrUnknownService", err)
	}
}

// Service cost under Wash-Dry-Fold must never decrease as weight grows, and
// every load is priced within the 155..175 band.
func TestCalculate_WashDryFoldMonotonicAndBounded(t *testing.T) {
	prev := decimal.Zero
	for w := 0; w <= 400; w++ { // 0.0 to 40.0 kg in 0.1 steps
		weight := decimal.NewFromInt(int64(w)).Div(decimal.NewFromInt(10))
		q, err := Calculate(Input{ServiceTier: enum.ServiceWashDryFold, ClothesWeightKg: weight})
		if err != nil {
			t.Fatalf("weight %s: unexpected error: %v", weight, err)
		}

		if q.ServiceCost.LessThan(prev) {
			t.Fatalf("weight %s: service cost %s decreased from %s", weight, q.ServiceCost, prev)
		}
		prev = q.ServiceCost

		lower := ratePartialLoad.Mul(decimal.NewFromInt32(q.LoadCount))
		upper := rateFullLoad.Mul(decimal.NewFromInt32(q.LoadCount))
		if q.ServiceCost.LessThan(lower) || q.ServiceCost.GreaterThan(upper) {
			t.Fatalf("weight %s: service cost %s outside [%s, %s]", weight, q.ServiceCost, lower, upper)
		}
	}
}
