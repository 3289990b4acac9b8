package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Catalogue imports (one row per atomic replacement)
		`CREATE TABLE IF NOT EXISTS catalogue_imports (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			climb_count INTEGER NOT NULL,
			imported_at TEXT NOT NULL
		)`,

		// Climbs (only rows of the latest import are kept)
		`CREATE TABLE IF NOT EXISTS climbs (
			id INTEGER PRIMARY KEY,
			import_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			location TEXT NOT NULL,
			distance_km REAL NOT NULL,
			ascent_m REAL NOT NULL,
			avg_gradient REAL NOT NULL,
			max_gradient REAL NOT NULL,
			over_3 REAL NOT NULL DEFAULT 0,
			over_5 REAL NOT NULL DEFAULT 0,
			over_7 REAL NOT NULL DEFAULT 0,
			over_10 REAL NOT NULL DEFAULT 0,
			over_13 REAL NOT NULL DEFAULT 0,
			over_17 REAL NOT NULL DEFAULT 0,
			over_20 REAL NOT NULL DEFAULT 0,
			over_25 REAL NOT NULL DEFAULT 0,
			over_30 REAL NOT NULL DEFAULT 0,
			over_40 REAL NOT NULL DEFAULT 0,
			path_group TEXT,
			FOREIGN KEY (import_id) REFERENCES catalogue_imports(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_climbs_position ON climbs(position)`,
		`CREATE INDEX IF NOT EXISTS idx_climbs_name ON climbs(name)`,

		// Settings (key-value store; the rider profile lives here)
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
