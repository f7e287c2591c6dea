package models

import "encoding/json"

// AnalysisStatus is the overall outcome of an analysis run.
type AnalysisStatus string

const (
	StatusSuccess          AnalysisStatus = "success"
	StatusInsufficientData AnalysisStatus = "insufficient_data"
	StatusError            AnalysisStatus = "error"
)

// ConfidenceNote names which estimator variant produced the statistics.
type ConfidenceNote string

const (
	NoteSingleValueHistoricalCI ConfidenceNote = "single_value_historical_ci"
	NoteTwoValuesMidpoint       ConfidenceNote = "two_values_midpoint"
	NoteSmallSampleMedianMAD    ConfidenceNote = "small_sample_median_mad"
	NoteWinsorizedRobust        ConfidenceNote = "winsorized_robust"
)

// MarketStatistics is an immutable snapshot of the comparable market,
// computed over price per square meter.
type MarketStatistics struct {
	Count          int            `json:"count"`
	FilteredCount  int            `json:"filtered_count"`
	Median         float64        `json:"median"`
	Mean           float64        `json:"mean"`
	StdDev         float64        `json:"std_dev"`
	MAD            float64        `json:"mad"`
	Min            float64        `json:"min"`
	Max            float64        `json:"max"`
	ConfidenceNote ConfidenceNote `json:"confidence_note"`
}

// AdjustmentCoefficient is one named, explainable correction applied to the
// market base price. Multiplier 1.08 means +8%.
type AdjustmentCoefficient struct {
	Name        string  `json:"name"`
	Multiplier  float64 `json:"multiplier"`
	Description string  `json:"description"`
}

// FairPriceResult is the explainable valuation of the target property.
// Adjustments keep their evaluation order. Computed fresh per run.
type FairPriceResult struct {
	Status             AnalysisStatus          `json:"status"`
	BasePricePerSqm    float64                 `json:"base_price_per_sqm"`
	Adjustments        []AdjustmentCoefficient `json:"adjustments"`
	CombinedMultiplier float64                 `json:"combined_multiplier"`
	FairPricePerSqm    float64                 `json:"fair_price_per_sqm"`
	AdditiveVariants   []float64               `json:"additive_variants"`
	AdditiveMean       float64                 `json:"additive_mean"`
	AdditiveMedian     float64                 `json:"additive_median"`
	FairPriceTotal     float64                 `json:"fair_price_total"`
	RangeMin           float64                 `json:"range_min"`
	RangeMax           float64                 `json:"range_max"`
	OverpricingPercent float64                 `json:"overpricing_percent"`
}

// PricePoint is one month of a scenario's price trajectory.
type PricePoint struct {
	Month int     `json:"month"`
	Price float64 `json:"price"`
}

// FinancialOutcome is the net result of selling at a scenario's final
// price, after fees and the opportunity cost of capital tied up while the
// listing stayed on the market.
type FinancialOutcome struct {
	SalePrice           float64 `json:"sale_price"`
	Commission          float64 `json:"commission"`
	Tax                 float64 `json:"tax"`
	OtherFees           float64 `json:"other_fees"`
	NetIncome           float64 `json:"net_income"`
	OpportunityCost     float64 `json:"opportunity_cost"`
	NetAfterOpportunity float64 `json:"net_after_opportunity"`
	EffectiveYield      float64 `json:"effective_yield"`
	MonthsOnMarket      int     `json:"months_on_market"`
}

// PriceScenario is one named selling strategy: a price trajectory over the
// simulation horizon with per-month and cumulative probabilities of sale.
type PriceScenario struct {
	Name                  string           `json:"name"`
	StartingPrice         float64          `json:"starting_price"`
	Trajectory            []PricePoint     `json:"trajectory"`
	MonthlyProbability    []float64        `json:"monthly_probability"`
	CumulativeProbability []float64        `json:"cumulative_probability"`
	ExpectedSaleMonth     int              `json:"expected_sale_month"`
	Financial             FinancialOutcome `json:"financial"`
}

// Priority orders recommendations by urgency; lower value sorts first.
type Priority int

const (
	PriorityCritical Priority = 1
	PriorityHigh     Priority = 2
	PriorityMedium   Priority = 3
	PriorityInfo     Priority = 4
)

// String returns the string representation of a Priority.
func (p Priority) String() string {
	switch p {
	case PriorityCritical:
		return "critical"
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes a Priority as its name so downstream consumers
// never see bare integers.
func (p Priority) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON accepts the string form produced by MarshalJSON.
func (p *Priority) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "critical":
		*p = PriorityCritical
	case "high":
		*p = PriorityHigh
	case "medium":
		*p = PriorityMedium
	default:
		*p = PriorityInfo
	}
	return nil
}

// Recommendation is one actionable suggestion with an optional quantified
// payoff. ROIPercent may be negative; a bad investment is still reported.
type Recommendation struct {
	Priority        Priority           `json:"priority"`
	Icon            string             `json:"icon"`
	Title           string             `json:"title"`
	Message         string             `json:"message"`
	Action          string             `json:"action"`
	ExpectedResult  string             `json:"expected_result"`
	ROIPercent      *float64           `json:"roi_percent,omitempty"`
	FinancialImpact map[string]float64 `json:"financial_impact,omitempty"`
}

// AnalysisResult is the aggregate root returned by one analysis run.
// Status is always set; on insufficient_data the Suggestions list tells the
// user how to proceed and the remaining fields may be empty.
type AnalysisResult struct {
	Status          AnalysisStatus       `json:"status"`
	Message         string               `json:"message,omitempty"`
	Suggestions     []string             `json:"suggestions,omitempty"`
	Statistics      *MarketStatistics    `json:"statistics,omitempty"`
	FairPrice       *FairPriceResult     `json:"fair_price,omitempty"`
	Scenarios       []PriceScenario      `json:"scenarios,omitempty"`
	Recommendations []Recommendation     `json:"recommendations,omitempty"`
	Comparables     []ComparableProperty `json:"comparables,omitempty"`
	Warnings        []string             `json:"warnings,omitempty"`
}
