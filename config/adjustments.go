package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// AdjustmentRule bounds one named fair-price correction. The calculator
// decides the coefficient inside [MinPct, MaxPct] by comparing the target's
// attribute to the market median; a disabled rule is pinned to zero effect.
type AdjustmentRule struct {
	Name     string  `json:"name"`
	MinPct   float64 `json:"min_pct"`
	MaxPct   float64 `json:"max_pct"`
	Disabled bool    `json:"disabled"`
}

// AdjustmentTable is the ordered set of rules; order is evaluation order.
type AdjustmentTable struct {
	Rules []AdjustmentRule `json:"rules"`
}

var (
	adjTable *AdjustmentTable
	adjLock  sync.RWMutex
	adjPath  = "config/adjustments.json"
)

// Canonical rule names, in evaluation order.
const (
	AdjSize            = "size"
	AdjDesignFinish    = "design_finish"
	AdjPanoramicView   = "panoramic_view"
	AdjLocationPremium = "location_premium"
	AdjMetroProximity  = "metro_proximity"
	AdjFloorPosition   = "floor_position"
	AdjCeilingHeight   = "ceiling_height"
	AdjParking         = "parking"
	AdjSecurity        = "security"
	AdjBuildingAge     = "building_age"
	AdjMaterialQuality = "material_quality"
	AdjOwnershipStatus = "ownership_status"
	AdjBathrooms       = "bathrooms"
	AdjWindowType      = "window_type"
)

// defaultAdjustmentTable carries the tuned bounds. Building age is shipped
// disabled: its effect proved indistinguishable from material quality.
var defaultAdjustmentTable = AdjustmentTable{
	Rules: []AdjustmentRule{
		{Name: AdjSize, MinPct: -0.05, MaxPct: 0.05},
		{Name: AdjDesignFinish, MinPct: 0, MaxPct: 0.08},
		{Name: AdjPanoramicView, MinPct: 0, MaxPct: 0.05},
		{Name: AdjLocationPremium, MinPct: 0, MaxPct: 0.10},
		{Name: AdjMetroProximity, MinPct: -0.05, MaxPct: 0.05},
		{Name: AdjFloorPosition, MinPct: -0.05, MaxPct: 0.03},
		{Name: AdjCeilingHeight, MinPct: -0.03, MaxPct: 0.05},
		{Name: AdjParking, MinPct: 0, MaxPct: 0.06},
		{Name: AdjSecurity, MinPct: 0, MaxPct: 0.03},
		{Name: AdjBuildingAge, MinPct: -0.05, MaxPct: 0.02, Disabled: true},
		{Name: AdjMaterialQuality, MinPct: -0.04, MaxPct: 0.02},
		{Name: AdjOwnershipStatus, MinPct: -0.07, MaxPct: 0.05},
		{Name: AdjBathrooms, MinPct: -0.10, MaxPct: 0.10},
		{Name: AdjWindowType, MinPct: -0.10, MaxPct: 0.10},
	},
}

// LoadAdjustmentTable loads rule overrides from file. Calling it is
// optional; without it the compiled-in defaults apply.
func LoadAdjustmentTable() error {
	adjLock.Lock()
	defer adjLock.Unlock()

	absPath, err := filepath.Abs(adjPath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %v", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("failed to read adjustment table: %v", err)
	}

	var table AdjustmentTable
	if err := json.Unmarshal(data, &table); err != nil {
		return fmt.Errorf("failed to parse adjustment table: %v", err)
	}

	if err := validateTable(&table); err != nil {
		return err
	}

	adjTable = &table
	return nil
}

// validateTable rejects malformed rules. A bad table is a configuration
// error and the only condition in this package allowed to fail hard.
func validateTable(table *AdjustmentTable) error {
	if len(table.Rules) == 0 {
		return fmt.Errorf("adjustment table has no rules")
	}
	seen := make(map[string]bool)
	for _, rule := range table.Rules {
		if rule.Name == "" {
			return fmt.Errorf("adjustment rule with empty name")
		}
		if seen[rule.Name] {
			return fmt.Errorf("duplicate adjustment rule: %s", rule.Name)
		}
		seen[rule.Name] = true
		if rule.MinPct > rule.MaxPct {
			return fmt.Errorf("adjustment rule %s: min %.3f above max %.3f", rule.Name, rule.MinPct, rule.MaxPct)
		}
	}
	return nil
}

// GetAdjustmentRules returns the active rule set in evaluation order.
func GetAdjustmentRules() []AdjustmentRule {
	adjLock.RLock()
	defer adjLock.RUnlock()

	source := &defaultAdjustmentTable
	if adjTable != nil {
		source = adjTable
	}

	rules := make([]AdjustmentRule, len(source.Rules))
	copy(rules, source.Rules)
	return rules
}

// GetAdjustmentRule returns a single rule by name.
func GetAdjustmentRule(name string) (AdjustmentRule, bool) {
	for _, rule := range GetAdjustmentRules() {
		if rule.Name == name {
			return rule, true
		}
	}
	return AdjustmentRule{}, false
}
