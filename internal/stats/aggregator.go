package stats

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"comprice/server/config"
	"comprice/server/internal/models"
)

// ErrInsufficientData signals that no usable comparable remains. Callers
// turn this into an insufficient_data result; it must never escape to the
// user as a raw error.
var ErrInsufficientData = errors.New("no usable comparables")

// Synthetic dispersion assigned when only one observation exists, standing
// in for historical market uncertainty.
const (
	singleValueStdFraction = 0.15
	singleValueMADFraction = 0.10
	twoValuesMADFactor     = 0.67
)

// Aggregator computes robust market statistics over comparable listings.
// It is the only component allowed to flip a comparable's Excluded flag.
type Aggregator struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewAggregator creates a new market statistics aggregator.
func NewAggregator(cfg *config.Config, logger *logrus.Logger) *Aggregator {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Aggregator{cfg: cfg, logger: logger}
}

// Aggregate filters outliers in place (by flagging, never removing) and
// returns a MarketStatistics snapshot over price per square meter.
// complexID, when non-nil, gives same-complex comparables double weight in
// the median. Returns ErrInsufficientData when no usable comparable is left.
func (a *Aggregator) Aggregate(comps []models.ComparableProperty, complexID *string) (*models.MarketStatistics, error) {
	usable := usableIndices(comps)
	if len(usable) == 0 {
		return nil, ErrInsufficientData
	}

	filtered := 0
	if len(usable) >= a.cfg.Statistics.OutlierMinSample {
		filtered = a.flagOutliers(comps, usable)
		usable = usableIndices(comps)
		if len(usable) == 0 {
			// Degenerate but possible with a pathological table; treat as no data
			return nil, ErrInsufficientData
		}
	}

	raw := valuesAt(comps, usable)
	weighted := a.weightedValues(comps, usable, complexID)

	stats := a.describe(raw, weighted)
	stats.FilteredCount = filtered
	return stats, nil
}

// flagOutliers marks usable comparables outside the IQR band as excluded
// and returns how many were flagged. The band uses a factor of 2.0 rather
// than the classical 1.5: premium and discount listings are legitimate
// market signal here.
func (a *Aggregator) flagOutliers(comps []models.ComparableProperty, usable []int) int {
	values := valuesAt(comps, usable)
	q1 := Quantile(values, 0.25)
	q3 := Quantile(values, 0.75)
	iqr := q3 - q1
	lower := q1 - a.cfg.Statistics.IQRFactor*iqr
	upper := q3 + a.cfg.Statistics.IQRFactor*iqr

	flagged := 0
	for _, i := range usable {
		v := *comps[i].PricePerSqm
		if v < lower || v > upper {
			comps[i].Excluded = true
			comps[i].ExclusionReason = fmt.Sprintf(
				"price per sqm %.0f outside market band [%.0f, %.0f]", v, lower, upper)
			flagged++
		}
	}

	if flagged > 0 {
		a.logger.WithFields(logrus.Fields{
			"flagged": flagged,
			"lower":   lower,
			"upper":   upper,
		}).Info("Flagged outlier comparables")
	}
	return flagged
}

// weightedValues builds the value multiset for the median: comparables in
// the target's residential complex are repeated SameComplexWeight times.
func (a *Aggregator) weightedValues(comps []models.ComparableProperty, usable []int, complexID *string) []float64 {
	values := make([]float64, 0, len(usable))
	for _, i := range usable {
		v := *comps[i].PricePerSqm
		weight := 1
		if complexID != nil && comps[i].ComplexID != nil && *comps[i].ComplexID == *complexID {
			weight = a.cfg.Statistics.SameComplexWeight
		}
		for w := 0; w < weight; w++ {
			values = append(values, v)
		}
	}
	return values
}

// describe selects the estimator variant by usable sample size. raw is one
// value per usable comparable; weighted is the multiset fed to the robust
// center. At n<=2 the two lists coincide in effect, so the midpoint and
// single-value rules read the raw values.
func (a *Aggregator) describe(raw, weighted []float64) *models.MarketStatistics {
	n := len(raw)
	min, max := MinMax(raw)

	switch {
	case n == 1:
		v := raw[0]
		return &models.MarketStatistics{
			Count:          1,
			Median:         v,
			Mean:           v,
			StdDev:         v * singleValueStdFraction,
			MAD:            v * singleValueMADFraction,
			Min:            min,
			Max:            max,
			ConfidenceNote: models.NoteSingleValueHistoricalCI,
		}
	case n == 2:
		mid := (raw[0] + raw[1]) / 2
		spread := (max - min) / 2
		return &models.MarketStatistics{
			Count:          2,
			Median:         mid,
			Mean:           mid,
			StdDev:         spread,
			MAD:            twoValuesMADFactor * spread,
			Min:            min,
			Max:            max,
			ConfidenceNote: models.NoteTwoValuesMidpoint,
		}
	case n < a.cfg.Statistics.WinsorizeMinSample:
		return &models.MarketStatistics{
			Count:          n,
			Median:         Median(weighted),
			Mean:           Mean(weighted),
			StdDev:         SampleStdDev(weighted),
			MAD:            MAD(weighted),
			Min:            min,
			Max:            max,
			ConfidenceNote: models.NoteSmallSampleMedianMAD,
		}
	default:
		return &models.MarketStatistics{
			Count:          n,
			Median:         Median(weighted),
			Mean:           WinsorizedMean(weighted, a.cfg.Statistics.WinsorizeFraction),
			StdDev:         SampleStdDev(weighted),
			MAD:            MAD(weighted),
			Min:            min,
			Max:            max,
			ConfidenceNote: models.NoteWinsorizedRobust,
		}
	}
}

// usableIndices returns the indices of comparables eligible for statistics.
func usableIndices(comps []models.ComparableProperty) []int {
	indices := make([]int, 0, len(comps))
	for i := range comps {
		if comps[i].Usable() && comps[i].PricePerSqm != nil {
			indices = append(indices, i)
		}
	}
	return indices
}

// valuesAt extracts price per sqm for the given indices.
func valuesAt(comps []models.ComparableProperty, indices []int) []float64 {
	values := make([]float64, len(indices))
	for j, i := range indices {
		values[j] = *comps[i].PricePerSqm
	}
	return values
}
