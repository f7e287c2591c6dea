package fairprice

import (
	"comprice/server/internal/models"
	"comprice/server/internal/stats"
)

// ModelPrice is the output of one pricing model applied to a base price
// and an ordered adjustment list.
type ModelPrice struct {
	PricePerSqm        float64
	CombinedMultiplier float64
	Variants           []float64
	VariantsMean       float64
	VariantsMedian     float64
}

// PricingModel turns a base price per sqm and the evaluated adjustments
// into a fair price per sqm. Two implementations exist: multiplicative
// (compounds every factor) and additive (averages independent per-factor
// variants to avoid compounding error).
type PricingModel interface {
	Name() string
	Compute(base float64, adjustments []models.AdjustmentCoefficient) ModelPrice
}

// MultiplicativeModel compounds all adjustment multipliers in order.
type MultiplicativeModel struct{}

func (MultiplicativeModel) Name() string { return "multiplicative" }

func (MultiplicativeModel) Compute(base float64, adjustments []models.AdjustmentCoefficient) ModelPrice {
	combined := 1.0
	for _, adj := range adjustments {
		combined *= adj.Multiplier
	}
	return ModelPrice{
		PricePerSqm:        base * combined,
		CombinedMultiplier: combined,
	}
}

// AdditiveModel prices each factor as if it acted alone and reports the
// mean and median of the resulting variants.
type AdditiveModel struct{}

func (AdditiveModel) Name() string { return "additive" }

func (AdditiveModel) Compute(base float64, adjustments []models.AdjustmentCoefficient) ModelPrice {
	variants := make([]float64, len(adjustments))
	for i, adj := range adjustments {
		variants[i] = base * adj.Multiplier
	}
	if len(variants) == 0 {
		return ModelPrice{PricePerSqm: base, CombinedMultiplier: 1, Variants: variants, VariantsMean: base, VariantsMedian: base}
	}
	mean := stats.Mean(variants)
	median := stats.Median(variants)
	return ModelPrice{
		PricePerSqm:        median,
		CombinedMultiplier: median / base,
		Variants:           variants,
		VariantsMean:       mean,
		VariantsMedian:     median,
	}
}
