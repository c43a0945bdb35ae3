// Package pricing computes a laundry order's load count and total price.
// It is the single authoritative implementation: any client-side preview is
// advisory and the order service always recomputes from raw inputs.
package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/tidewash/api/internal/enum"
)

// Errors returned by Calculate.
var (
	ErrNegativeWeight = errors.New("clothes weight must not be negative")
	ErrNegativeCount  = errors.New("article and additional counts must not be negative")
	ErrUnknownService = errors.New("unknown service tier")
)

// Per-load rates. Wash-Dry-Fold is tiered by weight; Wash-Only and Dry-Only
// charge a flat rate per 7 kg load.
var (
	ratePartialLoad = decimal.NewFromInt(155) // under 5 kg
	rateFullLoad    = decimal.NewFromInt(175) // 5 to 7 kg
	rateWashOrDry   = decimal.NewFromInt(85)

	rateComforterSingle = decimal.NewFromInt(155)
	rateComforterDouble = decimal.NewFromInt(170)
	rateBedsheet        = decimal.NewFromInt(200)
	rateOthersPerLoad   = decimal.NewFromInt(155)

	rateAdditionalUnit = decimal.NewFromInt(15)
)

var (
	partialLoadLimitKg = decimal.NewFromInt(5)
	loadCapacityKg     = decimal.NewFromInt(7)
)

// Input holds the raw order fields that determine the price.
type Input struct {
	ServiceTier               string
	ClothesWeightKg           decimal.Decimal
	ComforterSingleCount      int32
	ComforterDoubleCount      int32
	BedsheetCount             int32
	OthersCount               int32
	DetergentAdditional       int32
	FabricDetergentAdditional int32
}

// Quote is the computed price breakdown.
type Quote struct {
	LoadCount      int32
	ServiceCost    decimal.Decimal
	ArticlesCost   decimal.Decimal
	DetergentsCost decimal.Decimal
	Total          decimal.Decimal
}

// Calculate prices an order. It is a pure function: same input, same quote.
// A zero-weight, zero-article input yields a zero quote; rejecting such
// empty orders is the caller's job.
func Calculate(in Input) (Quote, error) {
	if in.ClothesWeightKg.IsNegative() {
		return Quote{}, ErrNegativeWeight
	}
	if in.ComforterSingleCount < 0 || in.ComforterDoubleCount < 0 ||
		in.BedsheetCount < 0 || in.OthersCount < 0 ||
		in.DetergentAdditional < 0 || in.FabricDetergentAdditional < 0 {
		return Quote{}, ErrNegativeCount
	}

	var q Quote
	switch in.ServiceTier {
	case enum.ServiceWashDryFold:
		q.LoadCount, q.ServiceCost = washDryFoldCost(in.ClothesWeightKg)
	case enum.ServiceWashOnly, enum.ServiceDryOnly:
		q.LoadCount = int32(in.ClothesWeightKg.Div(loadCapacityKg).Ceil().IntPart())
		q.ServiceCost = rateWashOrDry.Mul(decimal.NewFromInt32(q.LoadCount))
	default:
		return Quote{}, ErrUnknownService
	}

	q.ArticlesCost = rateComforterSingle.Mul(decimal.NewFromInt32(in.ComforterSingleCount)).
		Add(rateComforterDouble.Mul(decimal.NewFromInt32(in.ComforterDoubleCount))).
		Add(rateBedsheet.Mul(decimal.NewFromInt32(in.BedsheetCount))).
		Add(rateOthersPerLoad.Mul(decimal.NewFromInt32(in.OthersCount)).Mul(decimal.NewFromInt32(q.LoadCount)))

	q.DetergentsCost = rateAdditionalUnit.Mul(decimal.NewFromInt32(in.DetergentAdditional + in.FabricDetergentAdditional))

	q.Total = q.ServiceCost.Add(q.ArticlesCost).Add(q.DetergentsCost).Round(2)
	return q, nil
}

// washDryFoldCost peels the weight into loads: a final load under 5 kg costs
// 155, a load of 5-7 kg costs 175, and anything above 7 kg consumes a full
// 7 kg load at 175 and repeats.
func washDryFoldCost(weightKg decimal.Decimal) (int32, decimal.Decimal) {
	var loads int32
	cost := decimal.Zero
	remaining := weightKg

	for remaining.IsPositive() {
		switch {
		case remaining.LessThan(partialLoadLimitKg):
			cost = cost.Add(ratePartialLoad)
			remaining = decimal.Zero
		case remaining.LessThanOrEqual(loadCapacityKg):
			cost = cost.Add(rateFullLoad)
			remaining = decimal.Zero
		default:
			cost = cost.Add(rateFullLoad)
			remaining = remaining.Sub(loadCapacityKg)
		}
		loads++
	}
	return loads, cost
}
