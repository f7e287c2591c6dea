package normalizer

import (
	"os"

	"github.com/sirupsen/logrus"

	"comprice/server/internal/geo"
	"comprice/server/internal/models"
)

// RawListing is a comparable record as delivered by the upstream parser.
// It carries both canonical field names and the legacy aliases some feeds
// still use; Normalize reconciles them.
type RawListing struct {
	ID            int64    `json:"id"`
	URL           string   `json:"url"`
	Price         *float64 `json:"price"`
	PriceRaw      *float64 `json:"price_raw"`
	TotalArea     *float64 `json:"total_area"`
	AreaValue     *float64 `json:"area_value"`
	PricePerSqm   *float64 `json:"price_per_sqm"`
	LivingArea    *float64 `json:"living_area"`
	NumRooms      *int     `json:"num_rooms"`
	Floor         *int     `json:"floor"`
	TotalFloors   *int     `json:"total_floors"`
	NumBathrooms  *int     `json:"num_bathrooms"`
	CeilingHeight *float64 `json:"ceiling_height"`
	BuildingAge   *int     `json:"building_age"`
	MetroDistance *float64 `json:"metro_distance"`

	DesignFinish    bool                   `json:"design_finish"`
	PanoramicView   bool                   `json:"panoramic_view"`
	PremiumLocation bool                   `json:"premium_location"`
	Security        bool                   `json:"security"`
	Elevator        bool                   `json:"elevator"`
	ModernWindows   bool                   `json:"modern_windows"`
	Parking         models.ParkingType     `json:"parking"`
	Material        models.MaterialQuality `json:"material"`
	Ownership       models.OwnershipStatus `json:"ownership"`
	ComplexID       *string                `json:"complex_id"`
	City            string                 `json:"city"`
	Latitude        *float64               `json:"latitude"`
	Longitude       *float64               `json:"longitude"`

	Excluded        bool   `json:"excluded"`
	ExclusionReason string `json:"exclusion_reason"`
}

// requiredFields is the fixed list backing the completeness score.
var requiredFields = []string{
	"price",
	"total_area",
	"price_per_sqm",
	"living_area",
	"num_rooms",
	"floor",
	"total_floors",
	"ceiling_height",
	"building_age",
	"metro_distance",
}

// Normalizer repairs raw comparable records and scores their quality.
// It never fails: every record comes back normalized, with flags where
// repair was impossible.
type Normalizer struct {
	logger *logrus.Logger
}

// NewNormalizer creates a new normalizer.
func NewNormalizer(logger *logrus.Logger) *Normalizer {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Normalizer{logger: logger}
}

// Normalize converts a raw listing into a ComparableProperty: aliases
// reconciled, derivable numeric fields recovered, completeness scored and
// quality flags attached.
func (n *Normalizer) Normalize(raw RawListing) models.ComparableProperty {
	comp := models.ComparableProperty{
		ID:              raw.ID,
		URL:             raw.URL,
		Price:           raw.Price,
		TotalArea:       raw.TotalArea,
		PricePerSqm:     raw.PricePerSqm,
		LivingArea:      raw.LivingArea,
		NumRooms:        raw.NumRooms,
		Floor:           raw.Floor,
		TotalFloors:     raw.TotalFloors,
		NumBathrooms:    raw.NumBathrooms,
		CeilingHeight:   raw.CeilingHeight,
		BuildingAge:     raw.BuildingAge,
		MetroDistance:   raw.MetroDistance,
		DesignFinish:    raw.DesignFinish,
		PanoramicView:   raw.PanoramicView,
		PremiumLocation: raw.PremiumLocation,
		Security:        raw.Security,
		Elevator:        raw.Elevator,
		ModernWindows:   raw.ModernWindows,
		Parking:         raw.Parking,
		Material:        raw.Material,
		Ownership:       raw.Ownership,
		ComplexID:       raw.ComplexID,
		City:            raw.City,
		Latitude:        raw.Latitude,
		Longitude:       raw.Longitude,
		Excluded:        raw.Excluded,
		ExclusionReason: raw.ExclusionReason,
		QualityFlags:    []models.QualityFlag{},
	}

	// Legacy feed aliases take effect only when the canonical field is absent
	if comp.Price == nil && raw.PriceRaw != nil {
		comp.Price = raw.PriceRaw
	}
	if comp.TotalArea == nil && raw.AreaValue != nil {
		comp.TotalArea = raw.AreaValue
	}

	n.validateNumeric(&comp)
	n.recoverFields(&comp)
	n.deriveMetroDistance(&comp)

	comp.DataCompleteness = completeness(&comp)

	if !hasUsableNumerics(&comp) {
		comp.AddFlag(models.FlagInsufficientNumericFields)
	}

	return comp
}

// NormalizeAll normalizes a batch, preserving order.
func (n *Normalizer) NormalizeAll(raws []RawListing) []models.ComparableProperty {
	comps := make([]models.ComparableProperty, len(raws))
	for i, raw := range raws {
		comps[i] = n.Normalize(raw)
	}
	return comps
}

// validateNumeric drops values that cannot be real. A bad value on one
// record excludes that record; it never aborts the run.
func (n *Normalizer) validateNumeric(comp *models.ComparableProperty) {
	if comp.Price != nil && *comp.Price <= 0 {
		n.logger.WithField("url", comp.URL).Debug("Dropping non-positive price")
		comp.Price = nil
		comp.AddFlag(models.FlagNegativePrice)
	}
	if comp.TotalArea != nil && *comp.TotalArea <= 0 {
		comp.TotalArea = nil
	}
	if comp.PricePerSqm != nil && *comp.PricePerSqm <= 0 {
		comp.PricePerSqm = nil
	}
}

// recoverFields fills whichever of {price, total_area, price_per_sqm} can
// be derived from the other two. All derivations are computed from the
// state at entry, applied once, then the result stands: recovery is a
// single fixed-point pass, not re-entrant mutation.
func (n *Normalizer) recoverFields(comp *models.ComparableProperty) {
	price, area, ppsqm := comp.Price, comp.TotalArea, comp.PricePerSqm

	switch {
	case price == nil && area != nil && ppsqm != nil && *area > 0:
		v := *ppsqm * *area
		comp.Price = &v
		comp.AddFlag(models.FlagRecoveredPrice)
	case area == nil && price != nil && ppsqm != nil && *ppsqm > 0:
		v := *price / *ppsqm
		comp.TotalArea = &v
		comp.AddFlag(models.FlagRecoveredArea)
	case ppsqm == nil && price != nil && area != nil && *area > 0:
		v := *price / *area
		comp.PricePerSqm = &v
		comp.AddFlag(models.FlagRecoveredPricePerSqm)
	}
}

// deriveMetroDistance fills a missing metro distance from coordinates when
// the city has a station table.
func (n *Normalizer) deriveMetroDistance(comp *models.ComparableProperty) {
	if comp.MetroDistance != nil || comp.Latitude == nil || comp.Longitude == nil {
		return
	}
	dist, ok := geo.NearestStationDistance(comp.City, *comp.Latitude, *comp.Longitude)
	if !ok {
		return
	}
	comp.MetroDistance = &dist
	comp.AddFlag(models.FlagDerivedMetroDistance)
}

// completeness is the fraction of the required-field list present after
// recovery.
func completeness(comp *models.ComparableProperty) float64 {
	present := 0
	for _, field := range requiredFields {
		switch field {
		case "price":
			if comp.Price != nil {
				present++
			}
		case "total_area":
			if comp.TotalArea != nil {
				present++
			}
		case "price_per_sqm":
			if comp.PricePerSqm != nil {
				present++
			}
		case "living_area":
			if comp.LivingArea != nil {
				present++
			}
		case "num_rooms":
			if comp.NumRooms != nil {
				present++
			}
		case "floor":
			if comp.Floor != nil {
				present++
			}
		case "total_floors":
			if comp.TotalFloors != nil {
				present++
			}
		case "ceiling_height":
			if comp.CeilingHeight != nil {
				present++
			}
		case "building_age":
			if comp.BuildingAge != nil {
				present++
			}
		case "metro_distance":
			if comp.MetroDistance != nil {
				present++
			}
		}
	}
	return float64(present) / float64(len(requiredFields))
}

// hasUsableNumerics reports whether the record can contribute a price per
// square meter: either (price, area) or (price_per_sqm, area) must hold.
func hasUsableNumerics(comp *models.ComparableProperty) bool {
	if comp.TotalArea == nil || *comp.TotalArea <= 0 {
		return false
	}
	return comp.Price != nil || comp.PricePerSqm != nil
}
