package fairprice

import (
	"os"

	"github.com/sirupsen/logrus"

	"comprice/server/internal/models"
	"comprice/server/internal/stats"
)

// Calculator produces the explainable fair-price valuation of a target
// property against its comparable market.
type Calculator struct {
	logger *logrus.Logger
}

// NewCalculator creates a new fair price calculator.
func NewCalculator(logger *logrus.Logger) *Calculator {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Calculator{logger: logger}
}

// Calculate runs both pricing models over the market base price. The
// multiplicative figure is the headline fair price; the additive mean and
// median are reported alongside as compounding-free alternatives. A market
// without usable comparables yields an insufficient_data sub-result, never
// a division by zero.
func (c *Calculator) Calculate(target *models.TargetProperty, market *models.MarketStatistics) *models.FairPriceResult {
	if market == nil || market.Count == 0 || market.Median <= 0 {
		return &models.FairPriceResult{Status: models.StatusInsufficientData}
	}
	return c.calculate(target, market, EvaluateAdjustments(target, stats.MarketAttributes{}))
}

// CalculateWithAttributes is Calculate with the comparable attribute
// summary available, so delta-based adjustments can be evaluated.
func (c *Calculator) CalculateWithAttributes(target *models.TargetProperty, market *models.MarketStatistics, attrs stats.MarketAttributes) *models.FairPriceResult {
	if market == nil || market.Count == 0 || market.Median <= 0 {
		return &models.FairPriceResult{Status: models.StatusInsufficientData}
	}
	return c.calculate(target, market, EvaluateAdjustments(target, attrs))
}

func (c *Calculator) calculate(target *models.TargetProperty, market *models.MarketStatistics, adjustments []models.AdjustmentCoefficient) *models.FairPriceResult {
	base := market.Median

	multiplicative := MultiplicativeModel{}.Compute(base, adjustments)
	additive := AdditiveModel{}.Compute(base, adjustments)

	fairTotal := multiplicative.PricePerSqm * target.TotalArea
	band := market.MAD * target.TotalArea

	result := &models.FairPriceResult{
		Status:             models.StatusSuccess,
		BasePricePerSqm:    base,
		Adjustments:        adjustments,
		CombinedMultiplier: multiplicative.CombinedMultiplier,
		FairPricePerSqm:    multiplicative.PricePerSqm,
		AdditiveVariants:   additive.Variants,
		AdditiveMean:       additive.VariantsMean,
		AdditiveMedian:     additive.VariantsMedian,
		FairPriceTotal:     fairTotal,
		RangeMin:           fairTotal - band,
		RangeMax:           fairTotal + band,
	}

	if fairTotal > 0 {
		result.OverpricingPercent = (target.Price - fairTotal) / fairTotal * 100
	}

	c.logger.WithFields(logrus.Fields{
		"base":        base,
		"multiplier":  multiplicative.CombinedMultiplier,
		"fair_total":  fairTotal,
		"overpricing": result.OverpricingPercent,
	}).Debug("Computed fair price")

	return result
}
