package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetAdjustmentRules_DefaultsInOrder(t *testing.T) {
	rules := GetAdjustmentRules()

	assert.NotEmpty(t, rules)
	assert.Equal(t, AdjSize, rules[0].Name)

	// Order is evaluation order and must stay fixed
	var names []string
	for _, r := range rules {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{
		AdjSize, AdjDesignFinish, AdjPanoramicView, AdjLocationPremium,
		AdjMetroProximity, AdjFloorPosition, AdjCeilingHeight, AdjParking,
		AdjSecurity, AdjBuildingAge, AdjMaterialQuality, AdjOwnershipStatus,
		AdjBathrooms, AdjWindowType,
	}, names)
}

func TestGetAdjustmentRules_ReturnsCopy(t *testing.T) {
	rules := GetAdjustmentRules()
	rules[0].MaxPct = 99

	fresh := GetAdjustmentRules()
	assert.NotEqual(t, 99.0, fresh[0].MaxPct)
}

func TestGetAdjustmentRule(t *testing.T) {
	rule, ok := GetAdjustmentRule(AdjBuildingAge)
	assert.True(t, ok)
	assert.True(t, rule.Disabled)

	rule, ok = GetAdjustmentRule(AdjOwnershipStatus)
	assert.True(t, ok)
	assert.Equal(t, -0.07, rule.MinPct)
	assert.Equal(t, 0.05, rule.MaxPct)

	_, ok = GetAdjustmentRule("no_such_rule")
	assert.False(t, ok)
}

func TestValidateTable(t *testing.T) {
	tests := []struct {
		name        string
		table       AdjustmentTable
		expectError bool
	}{
		{
			name:        "Empty table",
			table:       AdjustmentTable{},
			expectError: true,
		},
		{
			name: "Duplicate rule",
			table: AdjustmentTable{Rules: []AdjustmentRule{
				{Name: "size", MinPct: -0.05, MaxPct: 0.05},
				{Name: "size", MinPct: -0.05, MaxPct: 0.05},
			}},
			expectError: true,
		},
		{
			name: "Inverted bounds",
			table: AdjustmentTable{Rules: []AdjustmentRule{
				{Name: "size", MinPct: 0.05, MaxPct: -0.05},
			}},
			expectError: true,
		},
		{
			name: "Valid",
			table: AdjustmentTable{Rules: []AdjustmentRule{
				{Name: "size", MinPct: -0.05, MaxPct: 0.05},
			}},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTable(&tt.table)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetStrategy(t *testing.T) {
	strategy, err := GetStrategy("aggressive")
	assert.NoError(t, err)
	assert.Equal(t, 1.05, strategy.StartFactor)

	_, err = GetStrategy("reckless")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown selling strategy")
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	assert.NoError(t, err)

	assert.Equal(t, 0.02, cfg.Financial.CommissionRate)
	assert.Equal(t, 0.13, cfg.Financial.TaxRate)
	assert.Equal(t, 0.01, cfg.Financial.OtherFeesRate)
	assert.Equal(t, 0.08, cfg.Financial.AnnualYieldRate)
	assert.Equal(t, 2.0, cfg.Statistics.IQRFactor)
	assert.Equal(t, 5, cfg.Statistics.OutlierMinSample)
	assert.Equal(t, 2, cfg.Statistics.SameComplexWeight)
	assert.Equal(t, 14, cfg.Simulation.HorizonMonths)
}
