package finance

import (
	"comprice/server/config"
	"comprice/server/internal/models"
)

// Evaluator converts a selling scenario into money: what the seller nets
// after commission, tax, other fees, and the yield the capital missed
// while the listing sat on the market.
type Evaluator struct {
	cfg *config.Config
}

// NewEvaluator creates a new financial evaluator.
func NewEvaluator(cfg *config.Config) *Evaluator {
	return &Evaluator{cfg: cfg}
}

// Evaluate computes the outcome of selling at price after the given number
// of months on the market.
func (e *Evaluator) Evaluate(price float64, monthsOnMarket int) models.FinancialOutcome {
	fin := e.cfg.Financial

	commission := price * fin.CommissionRate
	tax := price * fin.TaxRate
	other := price * fin.OtherFeesRate
	netIncome := price - commission - tax - other

	opportunity := e.OpportunityCost(price, monthsOnMarket)
	netAfter := netIncome - opportunity

	var yield float64
	if price > 0 {
		yield = netAfter / price * 100
	}

	return models.FinancialOutcome{
		SalePrice:           price,
		Commission:          commission,
		Tax:                 tax,
		OtherFees:           other,
		NetIncome:           netIncome,
		OpportunityCost:     opportunity,
		NetAfterOpportunity: netAfter,
		EffectiveYield:      yield,
		MonthsOnMarket:      monthsOnMarket,
	}
}

// EvaluateScenario fills the scenario's financial outcome using its
// expected-sale price and month.
func (e *Evaluator) EvaluateScenario(scenario *models.PriceScenario) {
	if len(scenario.Trajectory) == 0 {
		return
	}
	month := scenario.ExpectedSaleMonth
	if month < 1 {
		month = 1
	}
	if month > len(scenario.Trajectory) {
		month = len(scenario.Trajectory)
	}
	price := scenario.Trajectory[month-1].Price
	scenario.Financial = e.Evaluate(price, month)
}

// OpportunityCost is the yield forgone on capital locked in an unsold
// property for the given number of months.
func (e *Evaluator) OpportunityCost(price float64, months int) float64 {
	return price * e.cfg.Financial.AnnualYieldRate * float64(months) / 12
}
