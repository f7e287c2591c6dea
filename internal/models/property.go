package models

// ParkingType describes what kind of parking a listing offers.
type ParkingType string

const (
	ParkingNone        ParkingType = "none"
	ParkingStreet      ParkingType = "street"
	ParkingGround      ParkingType = "ground"
	ParkingUnderground ParkingType = "underground"
)

// QualityFlag tags a comparable with a data-quality condition. Flagged
// records stay visible to the user; flags only control whether a record
// participates in statistics.
type QualityFlag string

const (
	FlagInsufficientNumericFields QualityFlag = "insufficient_numeric_fields"
	FlagRecoveredPrice            QualityFlag = "recovered_price"
	FlagRecoveredArea             QualityFlag = "recovered_area"
	FlagRecoveredPricePerSqm      QualityFlag = "recovered_price_per_sqm"
	FlagDerivedMetroDistance      QualityFlag = "derived_metro_distance"
	FlagNegativePrice             QualityFlag = "negative_price"
)

// MaterialQuality grades construction material, from the listing text.
type MaterialQuality string

const (
	MaterialUnknown  MaterialQuality = ""
	MaterialPanel    MaterialQuality = "panel"
	MaterialBrick    MaterialQuality = "brick"
	MaterialMonolith MaterialQuality = "monolith"
)

// OwnershipStatus distinguishes clean direct sales from encumbered ones.
type OwnershipStatus string

const (
	OwnershipUnknown     OwnershipStatus = ""
	OwnershipDirect      OwnershipStatus = "direct"
	OwnershipAlternative OwnershipStatus = "alternative"
	OwnershipMortgaged   OwnershipStatus = "mortgaged"
)

// TargetProperty is the subject listing of an analysis run. Built once per
// run and treated as immutable afterwards.
type TargetProperty struct {
	Price           float64         `json:"price"`
	TotalArea       float64         `json:"total_area"`
	LivingArea      *float64        `json:"living_area"`
	NumRooms        *int            `json:"num_rooms"`
	Floor           *int            `json:"floor"`
	TotalFloors     *int            `json:"total_floors"`
	NumBathrooms    *int            `json:"num_bathrooms"`
	CeilingHeight   *float64        `json:"ceiling_height"`
	BuildingAge     *int            `json:"building_age"`
	MetroDistance   *float64        `json:"metro_distance"`
	DesignFinish    bool            `json:"design_finish"`
	PanoramicView   bool            `json:"panoramic_view"`
	PremiumLocation bool            `json:"premium_location"`
	Security        bool            `json:"security"`
	Elevator        bool            `json:"elevator"`
	ModernWindows   bool            `json:"modern_windows"`
	Parking         ParkingType     `json:"parking"`
	Material        MaterialQuality `json:"material"`
	Ownership       OwnershipStatus `json:"ownership"`
	ComplexID       *string         `json:"complex_id"`
	City            string          `json:"city"`
	Latitude        *float64        `json:"latitude"`
	Longitude       *float64        `json:"longitude"`
	ImageCount      int             `json:"image_count"`
	RenderOnly      bool            `json:"render_only"`
}

// ComparableProperty is a market listing used as pricing evidence. Numeric
// fields are pointers because upstream records routinely miss them; the
// normalizer repairs what it can and flags the rest. Excluded is a flag,
// never a deletion: filtered records remain in the list for display.
type ComparableProperty struct {
	ID              int64           `json:"id"`
	URL             string          `json:"url"`
	Price           *float64        `json:"price"`
	TotalArea       *float64        `json:"total_area"`
	PricePerSqm     *float64        `json:"price_per_sqm"`
	LivingArea      *float64        `json:"living_area"`
	NumRooms        *int            `json:"num_rooms"`
	Floor           *int            `json:"floor"`
	TotalFloors     *int            `json:"total_floors"`
	NumBathrooms    *int            `json:"num_bathrooms"`
	CeilingHeight   *float64        `json:"ceiling_height"`
	BuildingAge     *int            `json:"building_age"`
	MetroDistance   *float64        `json:"metro_distance"`
	DesignFinish    bool            `json:"design_finish"`
	PanoramicView   bool            `json:"panoramic_view"`
	PremiumLocation bool            `json:"premium_location"`
	Security        bool            `json:"security"`
	Elevator        bool            `json:"elevator"`
	ModernWindows   bool            `json:"modern_windows"`
	Parking         ParkingType     `json:"parking"`
	Material        MaterialQuality `json:"material"`
	Ownership       OwnershipStatus `json:"ownership"`
	ComplexID       *string         `json:"complex_id"`
	City            string          `json:"city"`
	Latitude        *float64        `json:"latitude"`
	Longitude       *float64        `json:"longitude"`

	Excluded         bool          `json:"excluded"`
	ExclusionReason  string        `json:"exclusion_reason,omitempty"`
	QualityFlags     []QualityFlag `json:"quality_flags"`
	DataCompleteness float64       `json:"data_completeness"`
}

// HasFlag reports whether the comparable carries the given quality flag.
func (c *ComparableProperty) HasFlag(flag QualityFlag) bool {
	for _, f := range c.QualityFlags {
		if f == flag {
			return true
		}
	}
	return false
}

// AddFlag appends a quality flag if not already present.
func (c *ComparableProperty) AddFlag(flag QualityFlag) {
	if !c.HasFlag(flag) {
		c.QualityFlags = append(c.QualityFlags, flag)
	}
}

// Usable reports whether the comparable may participate in market
// statistics: not excluded and numerically sufficient.
func (c *ComparableProperty) Usable() bool {
	return !c.Excluded && !c.HasFlag(FlagInsufficientNumericFields)
}
