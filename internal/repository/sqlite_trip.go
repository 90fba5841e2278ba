package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/itinera/internal/db"
	"github.com/alexanderramin/itinera/internal/domain"
)

// SQLiteTripRepo implements TripRepo using a SQLite database. Writes that
// touch several rows (Create, SaveItinerary) should run on a transaction
// handed out by db.UnitOfWork.
type SQLiteTripRepo struct {
	db db.DBTX
}

// NewSQLiteTripRepo creates a new SQLiteTripRepo.
func NewSQLiteTripRepo(conn db.DBTX) *SQLiteTripRepo {
	return &SQLiteTripRepo{db: conn}
}

const tripColumns = `id, short_id, name, start_date, prefs_json, raw_text, created_at, updated_at`

func (r *SQLiteTripRepo) Create(ctx context.Context, t *domain.Trip) error {
	prefs, err := json.Marshal(t.Prefs)
	if err != nil {
		return fmt.Errorf("encoding trip prefs: %w", err)
	}
	query := `INSERT INTO trips (` + tripColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		t.ID,
		t.ShortID,
		t.Name,
		dateValue(t.StartDate),
		string(prefs),
		t.RawText,
		t.CreatedAt.Format(time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting trip: %w", err)
	}
	if err := r.insertItinerary(ctx, t.ID, t.Itinerary); err != nil {
		return err
	}
	return nil
}

func (r *SQLiteTripRepo) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+tripColumns+` FROM trips WHERE id = ?`, id)
	return r.load(ctx, row)
}

func (r *SQLiteTripRepo) GetByShortID(ctx context.Context, shortID string) (*domain.Trip, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+tripColumns+` FROM trips WHERE UPPER(short_id) = UPPER(?) AND short_id != ''`, shortID)
	return r.load(ctx, row)
}

// FindByIDPrefix returns the ids of trips whose id starts with prefix.
func (r *SQLiteTripRepo) FindByIDPrefix(ctx context.Context, prefix string) ([]string, error) {
	if prefix == "" {
		return nil, nil
	}
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(prefix)
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM trips WHERE id LIKE ? ESCAPE '\' ORDER BY created_at`, escaped+"%")
	if err != nil {
		return nil, fmt.Errorf("finding trips by prefix: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning trip id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *SQLiteTripRepo) List(ctx context.Context) ([]TripSummary, error) {
	query := `SELECT t.id, t.short_id, t.name, t.start_date, t.prefs_json, t.raw_text, t.created_at, t.updated_at,
			(SELECT COUNT(*) FROM trip_days d WHERE d.trip_id = t.id),
			(SELECT COUNT(*) FROM trip_activities a WHERE a.trip_id = t.id)
		FROM trips t ORDER BY t.created_at, t.id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing trips: %w", err)
	}
	defer rows.Close()

	var out []TripSummary
	for rows.Next() {
		var s TripSummary
		var tr tripRow
		if err := rows.Scan(tr.dest(&s.DayCount, &s.ActivityCount)...); err != nil {
			return nil, fmt.Errorf("scanning trip row: %w", err)
		}
		t, err := tr.trip()
		if err != nil {
			return nil, err
		}
		s.Trip = *t
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trips: %w", err)
	}
	return out, nil
}

// Update writes trip metadata. The itinerary is saved by SaveItinerary.
func (r *SQLiteTripRepo) Update(ctx context.Context, t *domain.Trip) error {
	prefs, err := json.Marshal(t.Prefs)
	if err != nil {
		return fmt.Errorf("encoding trip prefs: %w", err)
	}
	query := `UPDATE trips SET short_id = ?, name = ?, start_date = ?, prefs_json = ?, raw_text = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.ShortID,
		t.Name,
		dateValue(t.StartDate),
		string(prefs),
		t.RawText,
		t.UpdatedAt.Format(time.RFC3339),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating trip: %w", err)
	}
	return requireAffected(res, "trip", t.ID)
}

// SaveItinerary replaces every day and activity row of the trip with it.
func (r *SQLiteTripRepo) SaveItinerary(ctx context.Context, tripID string, it domain.Itinerary) error {
	res, err := r.db.ExecContext(ctx, `UPDATE trips SET updated_at = ? WHERE id = ?`,
		timestamp(time.Now()), tripID)
	if err != nil {
		return fmt.Errorf("touching trip: %w", err)
	}
	if err := requireAffected(res, "trip", tripID); err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM trip_days WHERE trip_id = ?`, tripID); err != nil {
		return fmt.Errorf("clearing trip days: %w", err)
	}
	return r.insertItinerary(ctx, tripID, it)
}

func (r *SQLiteTripRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trips WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting trip: %w", err)
	}
	return requireAffected(res, "trip", id)
}

func (r *SQLiteTripRepo) insertItinerary(ctx context.Context, tripID string, it domain.Itinerary) error {
	for di, d := range it.Days {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO trip_days (trip_id, id, title, order_index) VALUES (?, ?, ?, ?)`,
			tripID, d.ID, d.Title, di)
		if err != nil {
			return fmt.Errorf("inserting day %d: %w", di+1, err)
		}
		for ai, a := range d.Activities {
			var name, address, lat, lng any
			if a.Place != nil {
				name, address, lat, lng = a.Place.Name, textValue(a.Place.Address), a.Place.Lat, a.Place.Lng
			}
			_, err := r.db.ExecContext(ctx, `INSERT INTO trip_activities
				(trip_id, day_id, id, text, start_time, end_time, place_name, place_address, place_lat, place_lng, order_index)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				tripID, d.ID, a.ID, a.Text, textValue(a.Start), textValue(a.End),
				name, address, lat, lng, ai)
			if err != nil {
				return fmt.Errorf("inserting activity %d of day %d: %w", ai+1, di+1, err)
			}
		}
	}
	return nil
}

func (r *SQLiteTripRepo) load(ctx context.Context, row *sql.Row) (*domain.Trip, error) {
	var tr tripRow
	if err := row.Scan(tr.dest()...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("trip %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning trip: %w", err)
	}
	t, err := tr.trip()
	if err != nil {
		return nil, err
	}
	t.Itinerary, err = r.loadItinerary(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *SQLiteTripRepo) loadItinerary(ctx context.Context, tripID string) (domain.Itinerary, error) {
	it := domain.Itinerary{Days: []domain.Day{}}

	dayRows, err := r.db.QueryContext(ctx,
		`SELECT id, title FROM trip_days WHERE trip_id = ? ORDER BY order_index, rowid`, tripID)
	if err != nil {
		return it, fmt.Errorf("listing days: %w", err)
	}
	index := make(map[string]int)
	for dayRows.Next() {
		d := domain.Day{Activities: []domain.Activity{}}
		if err := dayRows.Scan(&d.ID, &d.Title); err != nil {
			dayRows.Close()
			return it, fmt.Errorf("scanning day: %w", err)
		}
		index[d.ID] = len(it.Days)
		it.Days = append(it.Days, d)
	}
	dayRows.Close()
	if err := dayRows.Err(); err != nil {
		return it, fmt.Errorf("iterating days: %w", err)
	}

	actRows, err := r.db.QueryContext(ctx, `SELECT day_id, id, text, start_time, end_time,
			place_name, place_address, place_lat, place_lng
		FROM trip_activities WHERE trip_id = ? ORDER BY order_index, rowid`, tripID)
	if err != nil {
		return it, fmt.Errorf("listing activities: %w", err)
	}
	defer actRows.Close()
	for actRows.Next() {
		var dayID string
		var a domain.Activity
		var start, end, placeName, placeAddr sql.NullString
		var lat, lng sql.NullFloat64
		if err := actRows.Scan(&dayID, &a.ID, &a.Text, &start, &end, &placeName, &placeAddr, &lat, &lng); err != nil {
			return it, fmt.Errorf("scanning activity: %w", err)
		}
		a.Start, a.End = start.String, end.String
		if placeName.Valid && lat.Valid && lng.Valid {
			a.Place = &domain.Place{Name: placeName.String, Lat: lat.Float64, Lng: lng.Float64, Address: placeAddr.String}
		}
		di, ok := index[dayID]
		if !ok {
			continue
		}
		it.Days[di].Activities = append(it.Days[di].Activities, a)
	}
	if err := actRows.Err(); err != nil {
		return it, fmt.Errorf("iterating activities: %w", err)
	}
	return it, nil
}

type tripRow struct {
	t                    domain.Trip
	startDate            sql.NullString
	prefs                string
	createdAt, updatedAt string
}

func (tr *tripRow) dest(extra ...any) []any {
	return append([]any{
		&tr.t.ID, &tr.t.ShortID, &tr.t.Name, &tr.startDate, &tr.prefs, &tr.t.RawText,
		&tr.createdAt, &tr.updatedAt,
	}, extra...)
}

func (tr *tripRow) trip() (*domain.Trip, error) {
	t := tr.t
	t.StartDate = scanDate(tr.startDate)
	if tr.prefs != "" {
		if err := json.Unmarshal([]byte(tr.prefs), &t.Prefs); err != nil {
			return nil, fmt.Errorf("decoding prefs of trip %s: %w", t.ID, err)
		}
	}
	var err error
	if t.CreatedAt, err = time.Parse(time.RFC3339, tr.createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if t.UpdatedAt, err = time.Parse(time.RFC3339, tr.updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	t.Itinerary = domain.Itinerary{Days: []domain.Day{}}
	return &t, nil
}

func requireAffected(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
	}
	return nil
}
