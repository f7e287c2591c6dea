package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"comprice/server/internal/models"
)

func fptr(v float64) *float64 { return &v }

func TestNormalize_RecoversPriceFromPricePerSqm(t *testing.T) {
	n := NewNormalizer(nil)

	comp := n.Normalize(RawListing{
		URL:         "https://example.com/1",
		TotalArea:   fptr(50),
		PricePerSqm: fptr(200000),
	})

	assert.NotNil(t, comp.Price)
	assert.Equal(t, 10000000.0, *comp.Price)
	assert.True(t, comp.HasFlag(models.FlagRecoveredPrice))
	assert.True(t, comp.Usable())
}

func TestNormalize_RecoversAreaAndPricePerSqm(t *testing.T) {
	tests := []struct {
		name         string
		raw          RawListing
		expectedFlag models.QualityFlag
		check        func(t *testing.T, comp models.ComparableProperty)
	}{
		{
			name:         "Area from price and price per sqm",
			raw:          RawListing{Price: fptr(10000000), PricePerSqm: fptr(200000)},
			expectedFlag: models.FlagRecoveredArea,
			check: func(t *testing.T, comp models.ComparableProperty) {
				assert.Equal(t, 50.0, *comp.TotalArea)
			},
		},
		{
			name:         "Price per sqm from price and area",
			raw:          RawListing{Price: fptr(10000000), TotalArea: fptr(50)},
			expectedFlag: models.FlagRecoveredPricePerSqm,
			check: func(t *testing.T, comp models.ComparableProperty) {
				assert.Equal(t, 200000.0, *comp.PricePerSqm)
			},
		},
	}

	n := NewNormalizer(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comp := n.Normalize(tt.raw)
			assert.True(t, comp.HasFlag(tt.expectedFlag))
			tt.check(t, comp)
		})
	}
}

func TestNormalize_AliasReconciliation(t *testing.T) {
	n := NewNormalizer(nil)

	comp := n.Normalize(RawListing{
		PriceRaw:  fptr(9000000),
		AreaValue: fptr(45),
	})

	assert.Equal(t, 9000000.0, *comp.Price)
	assert.Equal(t, 45.0, *comp.TotalArea)
	assert.True(t, comp.HasFlag(models.FlagRecoveredPricePerSqm))

	// Canonical fields win over aliases
	comp = n.Normalize(RawListing{
		Price:    fptr(8000000),
		PriceRaw: fptr(9000000),
	})
	assert.Equal(t, 8000000.0, *comp.Price)
}

func TestNormalize_InsufficientNumericFields(t *testing.T) {
	n := NewNormalizer(nil)

	tests := []struct {
		name string
		raw  RawListing
	}{
		{"Empty record", RawListing{}},
		{"Price only", RawListing{Price: fptr(10000000)}},
		{"Price per sqm only", RawListing{PricePerSqm: fptr(200000)}},
		{"Zero area", RawListing{Price: fptr(10000000), TotalArea: fptr(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comp := n.Normalize(tt.raw)
			assert.True(t, comp.HasFlag(models.FlagInsufficientNumericFields))
			assert.False(t, comp.Usable())
		})
	}
}

func TestNormalize_NegativePriceExcludedLocally(t *testing.T) {
	n := NewNormalizer(nil)

	comp := n.Normalize(RawListing{
		Price:     fptr(-500),
		TotalArea: fptr(50),
	})

	// The bad value is dropped and flagged; no error, no panic
	assert.Nil(t, comp.Price)
	assert.True(t, comp.HasFlag(models.FlagNegativePrice))
	assert.True(t, comp.HasFlag(models.FlagInsufficientNumericFields))
}

func TestNormalize_DataCompleteness(t *testing.T) {
	n := NewNormalizer(nil)

	// price + area, plus recovered price_per_sqm: 3 of 10 required fields
	comp := n.Normalize(RawListing{
		Price:     fptr(10000000),
		TotalArea: fptr(50),
	})
	assert.InDelta(t, 0.3, comp.DataCompleteness, 1e-9)

	full := RawListing{
		Price:         fptr(10000000),
		TotalArea:     fptr(50),
		PricePerSqm:   fptr(200000),
		LivingArea:    fptr(30),
		NumRooms:      iptr(2),
		Floor:         iptr(3),
		TotalFloors:   iptr(9),
		CeilingHeight: fptr(2.7),
		BuildingAge:   iptr(10),
		MetroDistance: fptr(800),
	}
	comp = n.Normalize(full)
	assert.Equal(t, 1.0, comp.DataCompleteness)
}

func TestNormalize_PreservesUpstreamExclusion(t *testing.T) {
	n := NewNormalizer(nil)

	comp := n.Normalize(RawListing{
		Price:           fptr(10000000),
		TotalArea:       fptr(50),
		Excluded:        true,
		ExclusionReason: "region could not be determined",
	})

	assert.True(t, comp.Excluded)
	assert.Equal(t, "region could not be determined", comp.ExclusionReason)
	assert.False(t, comp.Usable())
}

func TestNormalizeAll_PreservesOrder(t *testing.T) {
	n := NewNormalizer(nil)

	comps := n.NormalizeAll([]RawListing{
		{URL: "a", Price: fptr(1000000), TotalArea: fptr(10)},
		{URL: "b"},
		{URL: "c", PricePerSqm: fptr(150000), TotalArea: fptr(40)},
	})

	assert.Len(t, comps, 3)
	assert.Equal(t, "a", comps[0].URL)
	assert.Equal(t, "b", comps[1].URL)
	assert.Equal(t, "c", comps[2].URL)
	assert.False(t, comps[1].Usable())
}

func iptr(v int) *int { return &v }
