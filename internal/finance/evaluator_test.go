package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"comprice/server/config"
	"comprice/server/internal/models"
)

func testConfig(t *testing.T) *config.Config {
	cfg, err := config.LoadConfig()
	assert.NoError(t, err)
	return cfg
}

func TestEvaluate_DefaultRates(t *testing.T) {
	eval := NewEvaluator(testConfig(t))

	out := eval.Evaluate(10000000, 6)

	assert.InDelta(t, 200000, out.Commission, 1e-6)  // 2%
	assert.InDelta(t, 1300000, out.Tax, 1e-6)        // 13%
	assert.InDelta(t, 100000, out.OtherFees, 1e-6)   // 1%
	assert.InDelta(t, 8400000, out.NetIncome, 1e-6)
	assert.InDelta(t, 400000, out.OpportunityCost, 1e-6) // 8% * 6/12
	assert.InDelta(t, 8000000, out.NetAfterOpportunity, 1e-6)
	assert.InDelta(t, 80.0, out.EffectiveYield, 1e-9)
	assert.Equal(t, 6, out.MonthsOnMarket)
}

func TestEvaluate_ZeroPrice(t *testing.T) {
	eval := NewEvaluator(testConfig(t))

	out := eval.Evaluate(0, 3)
	assert.Equal(t, 0.0, out.EffectiveYield)
	assert.Equal(t, 0.0, out.NetIncome)
}

func TestOpportunityCost_ScalesWithMonths(t *testing.T) {
	eval := NewEvaluator(testConfig(t))

	assert.InDelta(t, 0, eval.OpportunityCost(10000000, 0), 1e-9)
	assert.InDelta(t, 800000, eval.OpportunityCost(10000000, 12), 1e-6)
	assert.InDelta(t, 2*eval.OpportunityCost(10000000, 3), eval.OpportunityCost(10000000, 6), 1e-9)
}

func TestEvaluateScenario_UsesExpectedSalePrice(t *testing.T) {
	eval := NewEvaluator(testConfig(t))

	scenario := models.PriceScenario{
		Name: "moderate",
		Trajectory: []models.PricePoint{
			{Month: 1, Price: 10000000},
			{Month: 2, Price: 9900000},
			{Month: 3, Price: 9800000},
		},
		ExpectedSaleMonth: 2,
	}

	eval.EvaluateScenario(&scenario)

	assert.Equal(t, 9900000.0, scenario.Financial.SalePrice)
	assert.Equal(t, 2, scenario.Financial.MonthsOnMarket)
	assert.Greater(t, scenario.Financial.NetIncome, 0.0)
}

func TestEvaluateScenario_ClampsMonthToTrajectory(t *testing.T) {
	eval := NewEvaluator(testConfig(t))

	scenario := models.PriceScenario{
		Trajectory:        []models.PricePoint{{Month: 1, Price: 5000000}},
		ExpectedSaleMonth: 14,
	}

	eval.EvaluateScenario(&scenario)
	assert.Equal(t, 5000000.0, scenario.Financial.SalePrice)
	assert.Equal(t, 1, scenario.Financial.MonthsOnMarket)
}
