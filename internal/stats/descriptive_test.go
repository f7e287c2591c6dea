package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"Empty", nil, 0},
		{"Single", []float64{5}, 5},
		{"Odd count", []float64{3, 1, 2}, 2},
		{"Even count", []float64{190000, 210000}, 200000},
		{"Unsorted even", []float64{4, 1, 3, 2}, 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Median(tt.values))
		})
	}
}

func TestMAD(t *testing.T) {
	// Median 5, deviations {4,1,0,1,4} -> median deviation 1
	assert.Equal(t, 1.0, MAD([]float64{1, 4, 5, 6, 9}))
	assert.Equal(t, 0.0, MAD(nil))
}

func TestSampleStdDev(t *testing.T) {
	assert.Equal(t, 0.0, SampleStdDev([]float64{42}))

	// Sample variance of {2,4,4,4,5,5,7,9} with n-1 is 32/7
	got := SampleStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, 2.1380899, got, 1e-6)
}

func TestQuantile(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	assert.Equal(t, 1.0, Quantile(values, 0))
	assert.Equal(t, 3.0, Quantile(values, 0.5))
	assert.Equal(t, 5.0, Quantile(values, 1))
	assert.Equal(t, 2.0, Quantile(values, 0.25))
}

func TestWinsorizedMean(t *testing.T) {
	// 10% of 10 values clamps one value per tail: 100 -> 9, 0 -> 1
	values := []float64{0, 1, 2, 3, 4, 5, 6, 7, 9, 100}
	got := WinsorizedMean(values, 0.10)
	assert.InDelta(t, 4.7, got, 1e-9)

	// Small samples are untouched when the trim count floors to zero
	assert.Equal(t, Mean([]float64{1, 2, 3}), WinsorizedMean([]float64{1, 2, 3}, 0.10))
}

func TestMinMax(t *testing.T) {
	min, max := MinMax([]float64{3, 1, 2})
	assert.Equal(t, 1.0, min)
	assert.Equal(t, 3.0, max)
}
