package config

import "fmt"

// ScenarioSpec parameterizes one named selling strategy. StartFactor is
// relative to the computed fair price; MonthlyReduction compounds each
// month. The probability parameters shape the monthly sale-chance curve:
// ProbMax is approached as the asking price reaches fair value, ProbMin is
// the floor for badly overpriced months, Steepness controls how fast the
// chance decays as the price moves above fair.
type ScenarioSpec struct {
	Name             string  `json:"name"`
	StartFactor      float64 `json:"start_factor"`
	MonthlyReduction float64 `json:"monthly_reduction"`
	ProbMin          float64 `json:"prob_min"`
	ProbMax          float64 `json:"prob_max"`
	Steepness        float64 `json:"steepness"`
}

// SellingStrategies is the fixed strategy table, in presentation order.
var SellingStrategies = []ScenarioSpec{
	{
		Name:             "aggressive",
		StartFactor:      1.05,
		MonthlyReduction: 0.020,
		ProbMin:          0.03,
		ProbMax:          0.35,
		Steepness:        9.0,
	},
	{
		Name:             "moderate",
		StartFactor:      1.00,
		MonthlyReduction: 0.010,
		ProbMin:          0.05,
		ProbMax:          0.30,
		Steepness:        8.0,
	},
	{
		Name:             "conservative",
		StartFactor:      0.97,
		MonthlyReduction: 0.005,
		ProbMin:          0.08,
		ProbMax:          0.40,
		Steepness:        7.0,
	},
	{
		Name:             "optimal",
		StartFactor:      1.02,
		MonthlyReduction: 0.015,
		ProbMin:          0.05,
		ProbMax:          0.32,
		Steepness:        8.0,
	},
}

// GetStrategy returns a strategy definition by name. An unknown name is a
// configuration error, not a data condition.
func GetStrategy(name string) (*ScenarioSpec, error) {
	for i := range SellingStrategies {
		if SellingStrategies[i].Name == name {
			return &SellingStrategies[i], nil
		}
	}
	return nil, fmt.Errorf("unknown selling strategy: %s", name)
}

// GetStrategyNames returns the names of all configured strategies.
func GetStrategyNames() []string {
	names := make([]string, len(SellingStrategies))
	for i, s := range SellingStrategies {
		names[i] = s.Name
	}
	return names
}
