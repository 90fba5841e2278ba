package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillDayOrder(db); err != nil {
		return fmt.Errorf("backfilling day order: %w", err)
	}
	return nil
}

// Day and activity ids are only unique inside a trip: a shared itinerary
// imported next to its source keeps its ids.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS trips (
		id          TEXT PRIMARY KEY,
		short_id    TEXT NOT NULL DEFAULT '',
		name        TEXT NOT NULL,
		start_date  TEXT,
		prefs_json  TEXT NOT NULL DEFAULT '{}',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_trips_short_id ON trips(short_id) WHERE short_id != ''`,

	`CREATE TABLE IF NOT EXISTS trip_days (
		trip_id     TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
		id          TEXT NOT NULL,
		title       TEXT NOT NULL DEFAULT '',
		order_index INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (trip_id, id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_trip_days_order ON trip_days(trip_id, order_index)`,

	`CREATE TABLE IF NOT EXISTS trip_activities (
		trip_id     TEXT NOT NULL,
		day_id      TEXT NOT NULL,
		id          TEXT NOT NULL,
		text        TEXT NOT NULL,
		start_time  TEXT,
		end_time    TEXT,
		place_name  TEXT,
		place_lat   REAL,
		place_lng   REAL,
		order_index INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (trip_id, id),
		FOREIGN KEY (trip_id, day_id) REFERENCES trip_days(trip_id, id) ON DELETE CASCADE
	)`,

	`CREATE INDEX IF NOT EXISTS idx_trip_activities_day ON trip_activities(trip_id, day_id, order_index)`,

	// Keep the last model output so a trip can be refined from what the model wrote.
	`ALTER TABLE trips ADD COLUMN raw_text TEXT NOT NULL DEFAULT ''`,

	// Geocoder display names.
	`ALTER TABLE trip_activities ADD COLUMN place_address TEXT`,
}

// migrateBackfillDayOrder renumbers order_index for trips whose days share an
// index (rows written before ordering was tracked default to 0). Insertion
// order (rowid) breaks ties. Idempotent: trips with distinct indexes are skipped.
func migrateBackfillDayOrder(db *sql.DB) error {
	rows, err := db.Query(`SELECT DISTINCT trip_id FROM trip_days
		GROUP BY trip_id, order_index HAVING COUNT(*) > 1`)
	if err != nil {
		return fmt.Errorf("finding trips with ambiguous day order: %w", err)
	}
	var tripIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scanning trip id: %w", err)
		}
		tripIDs = append(tripIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, tripID := range tripIDs {
		if err := renumberDays(db, tripID); err != nil {
			return fmt.Errorf("renumbering days of trip %s: %w", tripID, err)
		}
	}
	return nil
}

func renumberDays(db *sql.DB, tripID string) error {
	rows, err := db.Query(`SELECT id FROM trip_days WHERE trip_id = ? ORDER BY order_index, rowid`, tripID)
	if err != nil {
		return err
	}
	var dayIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		dayIDs = append(dayIDs, id)
	}
	rows.Close()

	for i, id := range dayIDs {
		if _, err := db.Exec(`UPDATE trip_days SET order_index = ? WHERE trip_id = ? AND id = ?`, i, tripID, id); err != nil {
			return fmt.Errorf("updating day order: %w", err)
		}
	}
	return nil
}
