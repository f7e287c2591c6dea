package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"comprice/server/config"
	"comprice/server/internal/models"
	"comprice/server/internal/normalizer"
)

func testConfig(t *testing.T) *config.Config {
	cfg, err := config.LoadConfig()
	assert.NoError(t, err)
	return cfg
}

func fptr(v float64) *float64 { return &v }

func marketComparables(values ...float64) []models.ComparableProperty {
	comps := make([]models.ComparableProperty, len(values))
	for i, v := range values {
		value := v
		area := 100.0
		price := v * area
		comps[i] = models.ComparableProperty{
			ID:          int64(i + 1),
			PricePerSqm: &value,
			TotalArea:   &area,
			Price:       &price,
		}
	}
	return comps
}

func TestAnalyze_EndToEnd(t *testing.T) {
	a := NewAnalyzer(testConfig(t), nil)

	target := &models.TargetProperty{Price: 22000000, TotalArea: 100}
	comps := marketComparables(195000, 200000, 205000)

	result := a.Analyze(target, comps)

	assert.Equal(t, models.StatusSuccess, result.Status)
	assert.Equal(t, 3, result.Statistics.Count)
	assert.Equal(t, 200000.0, result.Statistics.Median)
	assert.InDelta(t, 20000000, result.FairPrice.FairPriceTotal, 1e-6)
	assert.InDelta(t, 10.0, result.FairPrice.OverpricingPercent, 1e-9)

	assert.Len(t, result.Scenarios, len(config.SellingStrategies))
	for _, s := range result.Scenarios {
		prev := 0.0
		for _, cum := range s.CumulativeProbability {
			assert.GreaterOrEqual(t, cum, prev)
			assert.LessOrEqual(t, cum, 1.0)
			prev = cum
		}
		assert.Greater(t, s.Financial.NetIncome, 0.0)
	}

	assert.NotEmpty(t, result.Recommendations)
}

func TestAnalyze_InsufficientData(t *testing.T) {
	a := NewAnalyzer(testConfig(t), nil)
	target := &models.TargetProperty{Price: 22000000, TotalArea: 100}

	result := a.Analyze(target, nil)

	assert.Equal(t, models.StatusInsufficientData, result.Status)
	assert.NotEmpty(t, result.Suggestions)
	assert.Nil(t, result.Statistics)
	assert.Nil(t, result.FairPrice)
}

func TestAnalyze_AllComparablesFlagged(t *testing.T) {
	a := NewAnalyzer(testConfig(t), nil)
	target := &models.TargetProperty{Price: 22000000, TotalArea: 100}

	comps := marketComparables(200000, 210000)
	for i := range comps {
		comps[i].AddFlag(models.FlagInsufficientNumericFields)
	}

	result := a.Analyze(target, comps)

	assert.Equal(t, models.StatusInsufficientData, result.Status)
	assert.NotEmpty(t, result.Suggestions)
	// The flagged comparables are still returned for display
	assert.Len(t, result.Comparables, 2)
}

func TestAnalyze_Idempotent(t *testing.T) {
	a := NewAnalyzer(testConfig(t), nil)
	target := &models.TargetProperty{Price: 22000000, TotalArea: 100}

	first := a.Analyze(target, marketComparables(190000, 195000, 200000, 205000, 210000))
	second := a.Analyze(target, marketComparables(190000, 195000, 200000, 205000, 210000))

	assert.Equal(t, first, second)
}

func TestAnalyze_SmallSampleWarning(t *testing.T) {
	a := NewAnalyzer(testConfig(t), nil)
	target := &models.TargetProperty{Price: 22000000, TotalArea: 100}

	result := a.Analyze(target, marketComparables(200000, 210000))

	assert.Equal(t, models.StatusSuccess, result.Status)
	assert.NotEmpty(t, result.Warnings)
}

func TestAnalyzeRaw_NormalizesFirst(t *testing.T) {
	a := NewAnalyzer(testConfig(t), nil)
	target := &models.TargetProperty{Price: 11000000, TotalArea: 50}

	raws := []normalizer.RawListing{
		{URL: "a", TotalArea: fptr(50), PricePerSqm: fptr(200000)},
		{URL: "b", Price: fptr(10000000), TotalArea: fptr(50)},
		{URL: "c"}, // unusable, flagged but kept
	}

	result := a.AnalyzeRaw(target, raws)

	assert.Equal(t, models.StatusSuccess, result.Status)
	assert.Equal(t, 2, result.Statistics.Count)
	assert.Len(t, result.Comparables, 3)
	assert.False(t, result.Comparables[2].Usable())
}

func TestApplyToggles(t *testing.T) {
	comps := marketComparables(200000, 210000, 220000)
	comps[1].Excluded = true
	comps[1].ExclusionReason = "manually excluded"

	ApplyToggles(comps, []int64{1}, []int64{2})

	assert.True(t, comps[0].Excluded)
	assert.Equal(t, "manually excluded", comps[0].ExclusionReason)
	assert.False(t, comps[1].Excluded)
	assert.Empty(t, comps[1].ExclusionReason)
	assert.False(t, comps[2].Excluded)
}

func TestAnalyze_ManualExclusionRespected(t *testing.T) {
	a := NewAnalyzer(testConfig(t), nil)
	target := &models.TargetProperty{Price: 22000000, TotalArea: 100}

	comps := marketComparables(200000, 400000)
	ApplyToggles(comps, []int64{2}, nil)

	result := a.Analyze(target, comps)

	assert.Equal(t, models.StatusSuccess, result.Status)
	assert.Equal(t, 1, result.Statistics.Count)
	assert.Equal(t, 200000.0, result.Statistics.Median)
}
