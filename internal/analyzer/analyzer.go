package analyzer

import (
	"errors"
	"os"

	"github.com/sirupsen/logrus"

	"comprice/server/config"
	"comprice/server/internal/fairprice"
	"comprice/server/internal/finance"
	"comprice/server/internal/models"
	"comprice/server/internal/normalizer"
	"comprice/server/internal/recommend"
	"comprice/server/internal/scenario"
	"comprice/server/internal/stats"
)

// Analyzer wires the valuation pipeline: normalize, aggregate, price,
// simulate, evaluate, recommend. One Analyze call is one run; nothing
// outside the call stack is mutated, so concurrent runs need no locking as
// long as callers do not share a comparables slice they also mutate.
type Analyzer struct {
	cfg        *config.Config
	logger     *logrus.Logger
	normalizer *normalizer.Normalizer
	aggregator *stats.Aggregator
	calculator *fairprice.Calculator
	simulator  *scenario.Simulator
	evaluator  *finance.Evaluator
	engine     *recommend.Engine
}

// NewAnalyzer creates a fully wired analyzer.
func NewAnalyzer(cfg *config.Config, logger *logrus.Logger) *Analyzer {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Analyzer{
		cfg:        cfg,
		logger:     logger,
		normalizer: normalizer.NewNormalizer(logger),
		aggregator: stats.NewAggregator(cfg, logger),
		calculator: fairprice.NewCalculator(logger),
		simulator:  scenario.NewSimulator(cfg),
		evaluator:  finance.NewEvaluator(cfg),
		engine:     recommend.NewEngine(cfg, logger),
	}
}

// AnalyzeRaw normalizes upstream records first, then analyzes.
func (a *Analyzer) AnalyzeRaw(target *models.TargetProperty, raws []normalizer.RawListing) *models.AnalysisResult {
	return a.Analyze(target, a.normalizer.NormalizeAll(raws))
}

// Analyze runs the pipeline over already-normalized comparables. It always
// returns a complete AnalysisResult: data-shaped failures become a
// non-success status with suggestions, never an error or panic.
func (a *Analyzer) Analyze(target *models.TargetProperty, comps []models.ComparableProperty) *models.AnalysisResult {
	market, err := a.aggregator.Aggregate(comps, target.ComplexID)
	if err != nil {
		if errors.Is(err, stats.ErrInsufficientData) {
			a.logger.WithField("comparables", len(comps)).Warn("No usable comparables")
			return insufficientDataResult(comps)
		}
		a.logger.WithError(err).Error("Aggregation failed")
		return &models.AnalysisResult{
			Status:      models.StatusError,
			Message:     "market statistics could not be computed",
			Comparables: comps,
		}
	}

	attrs := stats.ComputeAttributes(comps)
	fair := a.calculator.CalculateWithAttributes(target, market, attrs)
	if fair.Status != models.StatusSuccess {
		return insufficientDataResult(comps)
	}

	scenarios := a.simulator.SimulateAll(fair.FairPriceTotal)
	for i := range scenarios {
		a.evaluator.EvaluateScenario(&scenarios[i])
	}

	recommendations := a.engine.Build(target, fair, scenarios)

	var warnings []string
	if market.Count < a.cfg.Statistics.OutlierMinSample {
		warnings = append(warnings, "market estimate is based on a small sample; treat the range as indicative")
	}

	a.logger.WithFields(logrus.Fields{
		"usable":      market.Count,
		"filtered":    market.FilteredCount,
		"fair_total":  fair.FairPriceTotal,
		"overpricing": fair.OverpricingPercent,
	}).Info("Analysis complete")

	return &models.AnalysisResult{
		Status:          models.StatusSuccess,
		Statistics:      market,
		FairPrice:       fair,
		Scenarios:       scenarios,
		Recommendations: recommendations,
		Comparables:     comps,
		Warnings:        warnings,
	}
}

// ApplyToggles applies manual include/exclude decisions by comparable ID
// before a re-run. The engine itself never mutates these flags; they
// arrive pre-applied on the input list.
func ApplyToggles(comps []models.ComparableProperty, excludeIDs, includeIDs []int64) {
	excluded := make(map[int64]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}
	included := make(map[int64]bool, len(includeIDs))
	for _, id := range includeIDs {
		included[id] = true
	}

	for i := range comps {
		if excluded[comps[i].ID] {
			comps[i].Excluded = true
			comps[i].ExclusionReason = "manually excluded"
		}
		if included[comps[i].ID] {
			comps[i].Excluded = false
			comps[i].ExclusionReason = ""
		}
	}
}

func insufficientDataResult(comps []models.ComparableProperty) *models.AnalysisResult {
	return &models.AnalysisResult{
		Status:  models.StatusInsufficientData,
		Message: "no usable comparable listings; the market estimate cannot be computed",
		Suggestions: []string{
			"Add comparable listings manually",
			"Widen the search radius or price band",
			"Re-include comparables that were excluded manually",
		},
		Comparables: comps,
	}
}
