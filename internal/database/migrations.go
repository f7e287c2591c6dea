package database

// RunMigrations creates the schema if it does not exist yet.
func (d *Database) RunMigrations() error {
	schema := `
    CREATE TABLE IF NOT EXISTS listings (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        url TEXT UNIQUE NOT NULL,
        price REAL,
        total_area REAL,
        price_per_sqm REAL,
        living_area REAL,
        num_rooms INTEGER,
        floor INTEGER,
        total_floors INTEGER,
        num_bathrooms INTEGER,
        ceiling_height REAL,
        building_age INTEGER,
        metro_distance REAL,
        design_finish BOOLEAN NOT NULL DEFAULT 0,
        panoramic_view BOOLEAN NOT NULL DEFAULT 0,
        premium_location BOOLEAN NOT NULL DEFAULT 0,
        security BOOLEAN NOT NULL DEFAULT 0,
        elevator BOOLEAN NOT NULL DEFAULT 0,
        modern_windows BOOLEAN NOT NULL DEFAULT 0,
        parking TEXT,
        material TEXT,
        ownership TEXT,
        complex_id TEXT,
        city TEXT,
        latitude REAL,
        longitude REAL,
        excluded BOOLEAN NOT NULL DEFAULT 0,
        exclusion_reason TEXT,
        quality_flags TEXT,
        data_completeness REAL NOT NULL DEFAULT 0,
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
        updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );
    CREATE INDEX IF NOT EXISTS idx_listings_city ON listings(city);
    CREATE INDEX IF NOT EXISTS idx_listings_complex ON listings(complex_id);
    `
	_, err := d.db.Exec(schema)
	return err
}
