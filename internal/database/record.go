package database

import (
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"comprice/server/internal/models"
)

// ListingRecord is the gorm mapping of the listings table, used by the
// batch ingest path. Reads go through the raw connection in database.go.
type ListingRecord struct {
	ID               int64    `gorm:"primaryKey;autoIncrement"`
	URL              string   `gorm:"column:url;uniqueIndex"`
	Price            *float64 `gorm:"column:price"`
	TotalArea        *float64 `gorm:"column:total_area"`
	PricePerSqm      *float64 `gorm:"column:price_per_sqm"`
	LivingArea       *float64 `gorm:"column:living_area"`
	NumRooms         *int     `gorm:"column:num_rooms"`
	Floor            *int     `gorm:"column:floor"`
	TotalFloors      *int     `gorm:"column:total_floors"`
	NumBathrooms     *int     `gorm:"column:num_bathrooms"`
	CeilingHeight    *float64 `gorm:"column:ceiling_height"`
	BuildingAge      *int     `gorm:"column:building_age"`
	MetroDistance    *float64 `gorm:"column:metro_distance"`
	DesignFinish     bool     `gorm:"column:design_finish"`
	PanoramicView    bool     `gorm:"column:panoramic_view"`
	PremiumLocation  bool     `gorm:"column:premium_location"`
	Security         bool     `gorm:"column:security"`
	Elevator         bool     `gorm:"column:elevator"`
	ModernWindows    bool     `gorm:"column:modern_windows"`
	Parking          string   `gorm:"column:parking"`
	Material         string   `gorm:"column:material"`
	Ownership        string   `gorm:"column:ownership"`
	ComplexID        *string  `gorm:"column:complex_id"`
	City             string   `gorm:"column:city"`
	Latitude         *float64 `gorm:"column:latitude"`
	Longitude        *float64 `gorm:"column:longitude"`
	Excluded         bool     `gorm:"column:excluded"`
	ExclusionReason  string   `gorm:"column:exclusion_reason"`
	QualityFlags     string   `gorm:"column:quality_flags"`
	DataCompleteness float64  `gorm:"column:data_completeness"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName keeps gorm on the table the migrations create.
func (ListingRecord) TableName() string {
	return "listings"
}

// RecordFromComparable converts a normalized comparable into its storage
// row.
func RecordFromComparable(comp *models.ComparableProperty) *ListingRecord {
	return &ListingRecord{
		URL:              comp.URL,
		Price:            comp.Price,
		TotalArea:        comp.TotalArea,
		PricePerSqm:      comp.PricePerSqm,
		LivingArea:       comp.LivingArea,
		NumRooms:         comp.NumRooms,
		Floor:            comp.Floor,
		TotalFloors:      comp.TotalFloors,
		NumBathrooms:     comp.NumBathrooms,
		CeilingHeight:    comp.CeilingHeight,
		BuildingAge:      comp.BuildingAge,
		MetroDistance:    comp.MetroDistance,
		DesignFinish:     comp.DesignFinish,
		PanoramicView:    comp.PanoramicView,
		PremiumLocation:  comp.PremiumLocation,
		Security:         comp.Security,
		Elevator:         comp.Elevator,
		ModernWindows:    comp.ModernWindows,
		Parking:          string(comp.Parking),
		Material:         string(comp.Material),
		Ownership:        string(comp.Ownership),
		ComplexID:        comp.ComplexID,
		City:             comp.City,
		Latitude:         comp.Latitude,
		Longitude:        comp.Longitude,
		Excluded:         comp.Excluded,
		ExclusionReason:  comp.ExclusionReason,
		QualityFlags:     joinFlags(comp.QualityFlags),
		DataCompleteness: comp.DataCompleteness,
	}
}

// UpsertListings writes a batch inside the caller's transaction, updating
// rows that already exist for the same URL.
func UpsertListings(tx *gorm.DB, batch []*ListingRecord) error {
	if len(batch) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "url"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"price", "total_area", "price_per_sqm", "living_area",
			"num_rooms", "floor", "total_floors", "num_bathrooms",
			"ceiling_height", "building_age", "metro_distance",
			"design_finish", "panoramic_view", "premium_location",
			"security", "elevator", "modern_windows",
			"parking", "material", "ownership", "complex_id", "city",
			"latitude", "longitude", "excluded", "exclusion_reason",
			"quality_flags", "data_completeness", "updated_at",
		}),
	}).Create(&batch).Error
}

// OpenGorm opens the gorm handle the ingest path writes through.
func OpenGorm(dbPath string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
}
