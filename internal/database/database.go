package database

import (
	"database/sql"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"comprice/server/internal/models"
	"comprice/server/internal/normalizer"
)

// Database is the sqlite store of scraped comparable listings. It holds
// input data only; analysis results are computed per request and never
// persisted here.
type Database struct {
	db *sql.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign keys
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, err
	}

	return &Database{db: db}, nil
}

// GetListings returns stored listings as raw records ready for the
// normalizer, optionally filtered by city and residential complex.
func (d *Database) GetListings(city string, complexID string) ([]normalizer.RawListing, error) {
	query := `
        SELECT
            id,
            url,
            price,
            total_area,
            price_per_sqm,
            living_area,
            num_rooms,
            floor,
            total_floors,
            num_bathrooms,
            ceiling_height,
            building_age,
            metro_distance,
            design_finish,
            panoramic_view,
            premium_location,
            security,
            elevator,
            modern_windows,
            COALESCE(parking, '') as parking,
            COALESCE(material, '') as material,
            COALESCE(ownership, '') as ownership,
            complex_id,
            COALESCE(city, '') as city,
            latitude,
            longitude,
            excluded,
            COALESCE(exclusion_reason, '') as exclusion_reason
        FROM listings
        WHERE (? = '' OR LOWER(city) = LOWER(?))
          AND (? = '' OR complex_id = ?)
        ORDER BY id
    `
	rows, err := d.db.Query(query, city, city, complexID, complexID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []normalizer.RawListing
	for rows.Next() {
		var r normalizer.RawListing
		var price, totalArea, pricePerSqm, livingArea, ceilingHeight, metroDistance sql.NullFloat64
		var latitude, longitude sql.NullFloat64
		var numRooms, floor, totalFloors, numBathrooms, buildingAge sql.NullInt64
		var parking, material, ownership string
		var complexID sql.NullString

		err := rows.Scan(
			&r.ID,
			&r.URL,
			&price,
			&totalArea,
			&pricePerSqm,
			&livingArea,
			&numRooms,
			&floor,
			&totalFloors,
			&numBathrooms,
			&ceilingHeight,
			&buildingAge,
			&metroDistance,
			&r.DesignFinish,
			&r.PanoramicView,
			&r.PremiumLocation,
			&r.Security,
			&r.Elevator,
			&r.ModernWindows,
			&parking,
			&material,
			&ownership,
			&complexID,
			&r.City,
			&latitude,
			&longitude,
			&r.Excluded,
			&r.ExclusionReason,
		)
		if err != nil {
			return nil, err
		}

		r.Price = nullFloat(price)
		r.TotalArea = nullFloat(totalArea)
		r.PricePerSqm = nullFloat(pricePerSqm)
		r.LivingArea = nullFloat(livingArea)
		r.CeilingHeight = nullFloat(ceilingHeight)
		r.MetroDistance = nullFloat(metroDistance)
		r.Latitude = nullFloat(latitude)
		r.Longitude = nullFloat(longitude)
		r.NumRooms = nullInt(numRooms)
		r.Floor = nullInt(floor)
		r.TotalFloors = nullInt(totalFloors)
		r.NumBathrooms = nullInt(numBathrooms)
		r.BuildingAge = nullInt(buildingAge)
		r.Parking = models.ParkingType(parking)
		r.Material = models.MaterialQuality(material)
		r.Ownership = models.OwnershipStatus(ownership)
		if complexID.Valid {
			v := complexID.String
			r.ComplexID = &v
		}

		listings = append(listings, r)
	}

	return listings, rows.Err()
}

// CountListings returns how many listings are stored for a city.
func (d *Database) CountListings(city string) (int, error) {
	var count int
	err := d.db.QueryRow(
		"SELECT COUNT(*) FROM listings WHERE (? = '' OR LOWER(city) = LOWER(?))",
		city, city,
	).Scan(&count)
	return count, err
}

// GetDB returns the underlying connection for components that run their
// own queries.
func (d *Database) GetDB() *sql.DB {
	return d.db
}

func (d *Database) Close() error {
	return d.db.Close()
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

// joinFlags serializes quality flags for storage.
func joinFlags(flags []models.QualityFlag) string {
	parts := make([]string, len(flags))
	for i, f := range flags {
		parts[i] = string(f)
	}
	return strings.Join(parts, ",")
}
