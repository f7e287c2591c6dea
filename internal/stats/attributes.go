package stats

import "comprice/server/internal/models"

// MarketAttributes summarizes secondary listing attributes across the
// usable comparable set. Median fields are nil when no usable comparable
// reports the attribute; share fields are fractions of the usable set.
type MarketAttributes struct {
	TotalArea     *float64
	CeilingHeight *float64
	MetroDistance *float64
	FloorRatio    *float64
	BuildingAge   *float64
	Bathrooms     *float64

	DesignFinishShare  float64
	PanoramicViewShare float64
	PremiumLocShare    float64
	ParkingShare       float64
	SecurityShare      float64
	ModernWindowsShare float64
}

// ComputeAttributes reduces the usable comparables into the attribute
// medians and feature shares the fair-price calculator compares the target
// against.
func ComputeAttributes(comps []models.ComparableProperty) MarketAttributes {
	var (
		areas, ceilings, metros, ratios, ages, baths  []float64
		finish, view, loc, parking, security, windows int
		n                                             int
	)

	for i := range comps {
		c := &comps[i]
		if !c.Usable() {
			continue
		}
		n++
		if c.TotalArea != nil {
			areas = append(areas, *c.TotalArea)
		}
		if c.CeilingHeight != nil {
			ceilings = append(ceilings, *c.CeilingHeight)
		}
		if c.MetroDistance != nil {
			metros = append(metros, *c.MetroDistance)
		}
		if c.Floor != nil && c.TotalFloors != nil && *c.TotalFloors > 0 {
			ratios = append(ratios, float64(*c.Floor)/float64(*c.TotalFloors))
		}
		if c.BuildingAge != nil {
			ages = append(ages, float64(*c.BuildingAge))
		}
		if c.NumBathrooms != nil {
			baths = append(baths, float64(*c.NumBathrooms))
		}
		if c.DesignFinish {
			finish++
		}
		if c.PanoramicView {
			view++
		}
		if c.PremiumLocation {
			loc++
		}
		if c.Parking != "" && c.Parking != models.ParkingNone {
			parking++
		}
		if c.Security {
			security++
		}
		if c.ModernWindows {
			windows++
		}
	}

	attrs := MarketAttributes{
		TotalArea:     medianOrNil(areas),
		CeilingHeight: medianOrNil(ceilings),
		MetroDistance: medianOrNil(metros),
		FloorRatio:    medianOrNil(ratios),
		BuildingAge:   medianOrNil(ages),
		Bathrooms:     medianOrNil(baths),
	}
	if n > 0 {
		attrs.DesignFinishShare = float64(finish) / float64(n)
		attrs.PanoramicViewShare = float64(view) / float64(n)
		attrs.PremiumLocShare = float64(loc) / float64(n)
		attrs.ParkingShare = float64(parking) / float64(n)
		attrs.SecurityShare = float64(security) / float64(n)
		attrs.ModernWindowsShare = float64(windows) / float64(n)
	}
	return attrs
}

func medianOrNil(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	m := Median(values)
	return &m
}
