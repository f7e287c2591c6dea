package scenario

import (
	"math"

	"comprice/server/config"
	"comprice/server/internal/models"
)

// Simulator builds selling-strategy simulations: a monthly price
// trajectory plus the probability of having sold by each month.
type Simulator struct {
	cfg *config.Config
}

// NewSimulator creates a new scenario simulator.
func NewSimulator(cfg *config.Config) *Simulator {
	return &Simulator{cfg: cfg}
}

// SimulateAll runs every configured strategy against the given fair price,
// in table order.
func (s *Simulator) SimulateAll(fairPrice float64) []models.PriceScenario {
	scenarios := make([]models.PriceScenario, 0, len(config.SellingStrategies))
	for _, strategy := range config.SellingStrategies {
		scenarios = append(scenarios, s.Simulate(strategy, fairPrice))
	}
	return scenarios
}

// Simulate builds one strategy's trajectory and probability curves over
// the configured horizon. Cumulative probability compounds independent
// monthly chances: cum(N) = 1 - Π(1 - p(t)), which is non-decreasing and
// stays inside [0,1] by construction.
func (s *Simulator) Simulate(strategy config.ScenarioSpec, fairPrice float64) models.PriceScenario {
	horizon := s.cfg.Simulation.HorizonMonths
	start := fairPrice * strategy.StartFactor

	trajectory := make([]models.PricePoint, horizon)
	monthly := make([]float64, horizon)
	cumulative := make([]float64, horizon)

	survival := 1.0
	expectedMonth := horizon
	for t := 0; t < horizon; t++ {
		price := start * math.Pow(1-strategy.MonthlyReduction, float64(t))
		trajectory[t] = models.PricePoint{Month: t + 1, Price: price}

		p := saleProbability(strategy, price, fairPrice)
		monthly[t] = p
		survival *= 1 - p
		cumulative[t] = 1 - survival

		if expectedMonth == horizon && cumulative[t] >= 0.5 {
			expectedMonth = t + 1
		}
	}

	return models.PriceScenario{
		Name:                  strategy.Name,
		StartingPrice:         start,
		Trajectory:            trajectory,
		MonthlyProbability:    monthly,
		CumulativeProbability: cumulative,
		ExpectedSaleMonth:     expectedMonth,
	}
}

// saleProbability maps how far the current asking price sits above fair
// value to a monthly chance of sale. The curve is a logistic in the price
// ratio, rescaled into [ProbMin, ProbMax]: at fair price the chance is the
// midpoint, below fair it approaches ProbMax, far above fair it decays
// toward ProbMin. Monotone in the gap and bounded inside (0,1) by the
// strategy's configured band.
func saleProbability(strategy config.ScenarioSpec, price, fairPrice float64) float64 {
	if fairPrice <= 0 {
		return strategy.ProbMin
	}
	ratio := price / fairPrice
	logistic := 1 / (1 + math.Exp(strategy.Steepness*(ratio-1)))
	return strategy.ProbMin + (strategy.ProbMax-strategy.ProbMin)*logistic
}
