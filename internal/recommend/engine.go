package recommend

import (
	"fmt"
	"os"
	"sort"

	"github.com/sirupsen/logrus"

	"comprice/server/config"
	"comprice/server/internal/finance"
	"comprice/server/internal/models"
)

// Overpricing thresholds (percent) for the pricing rules.
const (
	overpricingCritical = 15.0
	overpricingHigh     = 8.0
	overpricingMedium   = 3.0
	underpricingInfo    = -3.0
)

// ROI threshold above which an improvement is urgent.
const roiHighThreshold = 50.0

// Fixed cost estimates for discrete improvements, in listing currency.
const (
	designFinishCost  = 500000.0
	modernWindowsCost = 150000.0
)

// Presentation rule constants.
const (
	minImageCount          = 5
	photoConversionLiftPct = 15.0
)

// improvement is one discrete upgrade the ROI rules consider.
type improvement struct {
	name        string
	adjustment  string
	cost        float64
	applicable  func(*models.TargetProperty) bool
	action      string
	expectation string
}

var improvements = []improvement{
	{
		name:        "design finish",
		adjustment:  config.AdjDesignFinish,
		cost:        designFinishCost,
		applicable:  func(t *models.TargetProperty) bool { return !t.DesignFinish },
		action:      "Renovate to a designer finish before listing",
		expectation: "Higher price per square meter on the finished segment",
	},
	{
		name:        "modern windows",
		adjustment:  config.AdjWindowType,
		cost:        modernWindowsCost,
		applicable:  func(t *models.TargetProperty) bool { return !t.ModernWindows },
		action:      "Replace old window frames",
		expectation: "Removes a common buyer objection",
	},
}

// Engine derives prioritized, ROI-quantified recommendations from the
// valuation outputs. Stateless: every call evaluates the full rule set
// against its inputs alone.
type Engine struct {
	cfg       *config.Config
	evaluator *finance.Evaluator
	logger    *logrus.Logger
}

// NewEngine creates a new recommendation engine.
func NewEngine(cfg *config.Config, logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Engine{cfg: cfg, evaluator: finance.NewEvaluator(cfg), logger: logger}
}

// Build evaluates all rule categories and returns recommendations sorted
// by priority, most urgent first. The sort is stable so rules emitted
// earlier win ties.
func (e *Engine) Build(target *models.TargetProperty, fair *models.FairPriceResult, scenarios []models.PriceScenario) []models.Recommendation {
	var recs []models.Recommendation

	recs = append(recs, e.pricingRules(target, fair, scenarios)...)
	recs = append(recs, e.improvementRules(target, fair)...)
	recs = append(recs, e.presentationRules(target)...)
	recs = append(recs, e.strategyRules(scenarios)...)

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority < recs[j].Priority
	})
	return recs
}

// ImprovementROI returns the return on investment percentage for a gain
// against a cost. Negative results are legitimate and must be reported,
// not floored.
func ImprovementROI(gain, cost float64) float64 {
	if cost == 0 {
		return 0
	}
	return (gain - cost) / cost * 100
}

func (e *Engine) pricingRules(target *models.TargetProperty, fair *models.FairPriceResult, scenarios []models.PriceScenario) []models.Recommendation {
	if fair == nil || fair.Status != models.StatusSuccess {
		return nil
	}
	over := fair.OverpricingPercent

	// Months the listing is expected to stall at the current ask; the
	// moderate scenario's expectation stands in when available
	stallMonths := 6
	for _, s := range scenarios {
		if s.Name == "moderate" {
			stallMonths = s.ExpectedSaleMonth
		}
	}
	holdingCost := e.evaluator.OpportunityCost(target.Price, stallMonths)

	switch {
	case over > overpricingCritical:
		return []models.Recommendation{{
			Priority: models.PriorityCritical,
			Icon:     "🔻",
			Title:    "Asking price far above market",
			Message: fmt.Sprintf(
				"The listing is %.1f%% above its fair price of %.0f. At this level it is likely to sit unsold for %d+ months, costing about %.0f in forgone yield.",
				over, fair.FairPriceTotal, stallMonths, holdingCost),
			Action:         fmt.Sprintf("Reduce the price toward %.0f", fair.FairPriceTotal),
			ExpectedResult: "Sharply higher sale probability in the first months",
			FinancialImpact: map[string]float64{
				"holding_cost":     holdingCost,
				"fair_price_total": fair.FairPriceTotal,
				"overpricing_pct":  over,
			},
		}}
	case over > overpricingHigh:
		return []models.Recommendation{{
			Priority: models.PriorityHigh,
			Icon:     "📉",
			Title:    "Asking price above market",
			Message: fmt.Sprintf(
				"The listing is %.1f%% above fair price. Expect slower interest; holding it unsold for %d months costs about %.0f.",
				over, stallMonths, holdingCost),
			Action:         fmt.Sprintf("Consider a price near %.0f", fair.FairPriceTotal),
			ExpectedResult: "Shorter time on market",
			FinancialImpact: map[string]float64{
				"holding_cost":     holdingCost,
				"fair_price_total": fair.FairPriceTotal,
			},
		}}
	case over > overpricingMedium:
		return []models.Recommendation{{
			Priority: models.PriorityMedium,
			Icon:     "⚖️",
			Title:    "Slightly above market",
			Message: fmt.Sprintf(
				"The listing is %.1f%% above fair price, within negotiation range.", over),
			Action:         "Hold the price but respond to offers flexibly",
			ExpectedResult: "Sale near fair value after negotiation",
		}}
	case over < underpricingInfo:
		return []models.Recommendation{{
			Priority: models.PriorityInfo,
			Icon:     "💰",
			Title:    "Priced below market",
			Message: fmt.Sprintf(
				"The listing is %.1f%% below its fair price of %.0f. A quick sale is likely, but value is being left on the table.",
				-over, fair.FairPriceTotal),
			Action:         fmt.Sprintf("Consider raising toward %.0f", fair.FairPriceTotal),
			ExpectedResult: "Higher proceeds with modest time cost",
		}}
	}
	return nil
}

// improvementRules quantifies each applicable discrete upgrade. Every
// applicable improvement is reported with its ROI; a negative ROI demotes
// the recommendation instead of suppressing it, so expensive renovations
// on already-premium flats still show their bad economics.
func (e *Engine) improvementRules(target *models.TargetProperty, fair *models.FairPriceResult) []models.Recommendation {
	if fair == nil || fair.Status != models.StatusSuccess {
		return nil
	}

	var recs []models.Recommendation
	for _, imp := range improvements {
		if !imp.applicable(target) {
			continue
		}
		rule, ok := config.GetAdjustmentRule(imp.adjustment)
		if !ok || rule.Disabled {
			continue
		}

		gain := target.TotalArea * fair.BasePricePerSqm * rule.MaxPct
		roi := ImprovementROI(gain, imp.cost)

		priority := models.PriorityInfo
		switch {
		case roi > roiHighThreshold:
			priority = models.PriorityHigh
		case roi > 0:
			priority = models.PriorityMedium
		}

		roiCopy := roi
		recs = append(recs, models.Recommendation{
			Priority: priority,
			Icon:     "🛠",
			Title:    fmt.Sprintf("Improvement: %s", imp.name),
			Message: fmt.Sprintf(
				"Adding %s is estimated to raise the sale price by %.0f at a cost of %.0f (ROI %.1f%%).",
				imp.name, gain, imp.cost, roi),
			Action:         imp.action,
			ExpectedResult: imp.expectation,
			ROIPercent:     &roiCopy,
			FinancialImpact: map[string]float64{
				"estimated_gain": gain,
				"estimated_cost": imp.cost,
			},
		})
	}
	return recs
}

func (e *Engine) presentationRules(target *models.TargetProperty) []models.Recommendation {
	var recs []models.Recommendation

	if target.ImageCount < minImageCount {
		recs = append(recs, models.Recommendation{
			Priority: models.PriorityMedium,
			Icon:     "📷",
			Title:    "Too few photos",
			Message: fmt.Sprintf(
				"The listing has %d photos; listings with %d or more convert about %.0f%% better.",
				target.ImageCount, minImageCount, photoConversionLiftPct),
			Action:         "Add a full photo set covering every room",
			ExpectedResult: fmt.Sprintf("≈%.0f%% more inquiries", photoConversionLiftPct),
		})
	}

	if target.RenderOnly {
		recs = append(recs, models.Recommendation{
			Priority:       models.PriorityMedium,
			Icon:           "🖼",
			Title:          "Only renders shown",
			Message:        "The listing shows renders instead of real photos, which buyers discount.",
			Action:         "Replace renders with real photographs",
			ExpectedResult: fmt.Sprintf("≈%.0f%% more inquiries", photoConversionLiftPct),
		})
	}

	return recs
}

// strategyRules points at the scenario with the best net outcome.
func (e *Engine) strategyRules(scenarios []models.PriceScenario) []models.Recommendation {
	if len(scenarios) == 0 {
		return nil
	}

	best := scenarios[0]
	for _, s := range scenarios[1:] {
		if s.Financial.NetAfterOpportunity > best.Financial.NetAfterOpportunity {
			best = s
		}
	}

	return []models.Recommendation{{
		Priority: models.PriorityInfo,
		Icon:     "🧭",
		Title:    fmt.Sprintf("Best strategy: %s", best.Name),
		Message: fmt.Sprintf(
			"The %s strategy nets %.0f after fees and opportunity cost, with an expected sale in month %d.",
			best.Name, best.Financial.NetAfterOpportunity, best.ExpectedSaleMonth),
		Action:         fmt.Sprintf("Start at %.0f and follow the %s reduction schedule", best.StartingPrice, best.Name),
		ExpectedResult: fmt.Sprintf("Effective yield %.1f%%", best.Financial.EffectiveYield),
		FinancialImpact: map[string]float64{
			"net_after_opportunity": best.Financial.NetAfterOpportunity,
		},
	}}
}
