package fairprice

import (
	"fmt"

	"comprice/server/config"
	"comprice/server/internal/models"
	"comprice/server/internal/stats"
)

// Per-unit slopes turning an attribute delta into a raw coefficient before
// the rule bounds clamp it.
const (
	sizeSlope     = 0.15 // per relative area difference
	metroSlope    = 0.10 // per relative distance difference
	ceilingSlope  = 0.10 // per meter of ceiling height
	floorSlope    = 0.05 // per relative floor position difference
	bathroomSlope = 0.05 // per bathroom
)

// EvaluateAdjustments produces the ordered adjustment list for the target
// against the usable market. Every configured rule appears in the output,
// in table order; rules without data or disabled rules carry multiplier 1
// so the itemization stays complete and explainable.
func EvaluateAdjustments(target *models.TargetProperty, attrs stats.MarketAttributes) []models.AdjustmentCoefficient {
	rules := config.GetAdjustmentRules()
	adjustments := make([]models.AdjustmentCoefficient, 0, len(rules))

	for _, rule := range rules {
		coef, desc := 0.0, "no data"
		if rule.Disabled {
			desc = "disabled"
		} else {
			coef, desc = evaluateRule(rule, target, attrs)
			coef = clamp(coef, rule.MinPct, rule.MaxPct)
		}
		adjustments = append(adjustments, models.AdjustmentCoefficient{
			Name:        rule.Name,
			Multiplier:  1 + coef,
			Description: desc,
		})
	}
	return adjustments
}

// evaluateRule computes the unclamped coefficient and its explanation for
// one rule. Unknown rule names come from a user-supplied table override and
// contribute no effect rather than failing the run.
func evaluateRule(rule config.AdjustmentRule, target *models.TargetProperty, attrs stats.MarketAttributes) (float64, string) {
	switch rule.Name {
	case config.AdjSize:
		if attrs.TotalArea == nil || *attrs.TotalArea <= 0 {
			return 0, "no data"
		}
		r := (*attrs.TotalArea - target.TotalArea) / *attrs.TotalArea
		return r * sizeSlope, fmt.Sprintf("area %.1f m² vs market median %.1f m²", target.TotalArea, *attrs.TotalArea)

	case config.AdjDesignFinish:
		if target.DesignFinish {
			return rule.MaxPct * (1 - attrs.DesignFinishShare),
				fmt.Sprintf("design finish present, %.0f%% of market has it", attrs.DesignFinishShare*100)
		}
		return -rule.MaxPct * attrs.DesignFinishShare,
			fmt.Sprintf("no design finish, %.0f%% of market has it", attrs.DesignFinishShare*100)

	case config.AdjPanoramicView:
		if target.PanoramicView {
			return rule.MaxPct * (1 - attrs.PanoramicViewShare),
				fmt.Sprintf("panoramic view, %.0f%% of market has it", attrs.PanoramicViewShare*100)
		}
		return 0, "no panoramic view"

	case config.AdjLocationPremium:
		if target.PremiumLocation {
			return rule.MaxPct * (1 - attrs.PremiumLocShare),
				fmt.Sprintf("premium location, %.0f%% of market shares it", attrs.PremiumLocShare*100)
		}
		return 0, "standard location"

	case config.AdjMetroProximity:
		if target.MetroDistance == nil || attrs.MetroDistance == nil || *attrs.MetroDistance <= 0 {
			return 0, "no data"
		}
		r := (*attrs.MetroDistance - *target.MetroDistance) / *attrs.MetroDistance
		return r * metroSlope, fmt.Sprintf("metro %.0f m vs market median %.0f m", *target.MetroDistance, *attrs.MetroDistance)

	case config.AdjFloorPosition:
		if target.Floor == nil || target.TotalFloors == nil || *target.TotalFloors <= 0 {
			return 0, "no data"
		}
		if *target.Floor == 1 {
			return rule.MinPct, "first floor"
		}
		if *target.Floor == *target.TotalFloors && !target.Elevator {
			return rule.MinPct / 2, "top floor without elevator"
		}
		ratio := float64(*target.Floor) / float64(*target.TotalFloors)
		marketRatio := 0.5
		if attrs.FloorRatio != nil {
			marketRatio = *attrs.FloorRatio
		}
		return (ratio - marketRatio) * floorSlope,
			fmt.Sprintf("floor %d of %d vs market median position", *target.Floor, *target.TotalFloors)

	case config.AdjCeilingHeight:
		if target.CeilingHeight == nil || attrs.CeilingHeight == nil {
			return 0, "no data"
		}
		delta := *target.CeilingHeight - *attrs.CeilingHeight
		return delta * ceilingSlope,
			fmt.Sprintf("ceiling %.2f m vs market median %.2f m", *target.CeilingHeight, *attrs.CeilingHeight)

	case config.AdjParking:
		switch target.Parking {
		case models.ParkingUnderground:
			return rule.MaxPct, "underground parking"
		case models.ParkingGround:
			return rule.MaxPct * 0.6, "ground parking"
		case models.ParkingStreet:
			return rule.MaxPct * 0.2, "street parking"
		default:
			return 0, "no parking"
		}

	case config.AdjSecurity:
		if target.Security {
			return rule.MaxPct * (1 - attrs.SecurityShare),
				fmt.Sprintf("secured access, %.0f%% of market has it", attrs.SecurityShare*100)
		}
		return 0, "no secured access"

	case config.AdjBuildingAge:
		if target.BuildingAge == nil || attrs.BuildingAge == nil {
			return 0, "no data"
		}
		delta := *attrs.BuildingAge - float64(*target.BuildingAge)
		return delta * 0.002,
			fmt.Sprintf("building age %d vs market median %.0f", *target.BuildingAge, *attrs.BuildingAge)

	case config.AdjMaterialQuality:
		switch target.Material {
		case models.MaterialMonolith:
			return rule.MaxPct, "monolith construction"
		case models.MaterialBrick:
			return rule.MaxPct / 2, "brick construction"
		case models.MaterialPanel:
			return rule.MinPct, "panel construction"
		default:
			return 0, "no data"
		}

	case config.AdjOwnershipStatus:
		switch target.Ownership {
		case models.OwnershipDirect:
			return rule.MaxPct, "direct sale"
		case models.OwnershipAlternative:
			return rule.MinPct / 2, "alternative sale"
		case models.OwnershipMortgaged:
			return rule.MinPct, "mortgaged"
		default:
			return 0, "no data"
		}

	case config.AdjBathrooms:
		if target.NumBathrooms == nil || attrs.Bathrooms == nil {
			return 0, "no data"
		}
		delta := float64(*target.NumBathrooms) - *attrs.Bathrooms
		return delta * bathroomSlope,
			fmt.Sprintf("%d bathrooms vs market median %.1f", *target.NumBathrooms, *attrs.Bathrooms)

	case config.AdjWindowType:
		if target.ModernWindows {
			return rule.MaxPct * (1 - attrs.ModernWindowsShare),
				fmt.Sprintf("modern windows, %.0f%% of market has them", attrs.ModernWindowsShare*100)
		}
		return -rule.MaxPct * attrs.ModernWindowsShare,
			fmt.Sprintf("old windows, %.0f%% of market has modern ones", attrs.ModernWindowsShare*100)
	}

	return 0, "unrecognized rule"
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
