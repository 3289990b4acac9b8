package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store provides the application's data access layer.
type Store struct {
	db *sql.DB
}

// newStore creates a Store from a database connection.
func newStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for advanced operations.
func (s *Store) DB() *sql.DB {
	return s.db
}

// --- Catalogue Methods ---

// histogramColumns returns the over_N column names in threshold order.
func histogramColumns() []string {
	cols := make([]string, len(GradientThresholds))
	for i, t := range GradientThresholds {
		cols[i] = fmt.Sprintf("over_%d", t)
	}
	return cols
}

const climbBaseColumns = "id, position, name, location, distance_km, ascent_m, avg_gradient, max_gradient, path_group"

// ReplaceClimbs swaps the whole catalogue for climbs in a single transaction.
// Readers never observe a mix of the old and new catalogue.
func (s *Store) ReplaceClimbs(source string, climbs []Climb) (*CatalogueImport, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM climbs`); err != nil {
		return nil, fmt.Errorf("deleting existing climbs: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM catalogue_imports`); err != nil {
		return nil, fmt.Errorf("deleting existing imports: %w", err)
	}

	imp := &CatalogueImport{
		ID:         uuid.NewString(),
		Source:     source,
		ClimbCount: len(climbs),
		ImportedAt: time.Now().UTC().Truncate(time.Second),
	}
	if _, err := tx.Exec(`
		INSERT INTO catalogue_imports (id, source, climb_count, imported_at)
		VALUES (?, ?, ?, ?)
	`, imp.ID, imp.Source, imp.ClimbCount, imp.ImportedAt.Format(time.RFC3339)); err != nil {
		return nil, fmt.Errorf("recording import: %w", err)
	}

	hcols := histogramColumns()
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", 9+len(hcols)), ", ")
	stmt, err := tx.Prepare(`
		INSERT INTO climbs (
			import_id, position, name, location, distance_km, ascent_m,
			avg_gradient, max_gradient, path_group, ` + strings.Join(hcols, ", ") + `
		) VALUES (` + placeholders + `)
	`)
	if err != nil {
		return nil, fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, c := range climbs {
		args := []interface{}{
			imp.ID, i, c.Name, c.Location, c.DistanceKm, c.TotalAscentMeters,
			c.AvgGradientPct, c.MaxGradientPct, toNullString(c.PathGroupID),
		}
		for _, t := range GradientThresholds {
			args = append(args, c.DistanceAtOrAbove(t))
		}
		if _, err := stmt.Exec(args...); err != nil {
			return nil, fmt.Errorf("inserting climb %q: %w", c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return imp, nil
}

// LatestImport returns the import that produced the current catalogue.
func (s *Store) LatestImport() (*CatalogueImport, error) {
	var imp CatalogueImport
	var importedAt string
	err := s.db.QueryRow(`
		SELECT id, source, climb_count, imported_at
		FROM catalogue_imports
		ORDER BY imported_at DESC
		LIMIT 1
	`).Scan(&imp.ID, &imp.Source, &imp.ClimbCount, &importedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoCatalogue
	}
	if err != nil {
		return nil, err
	}
	imp.ImportedAt, err = time.Parse(time.RFC3339, importedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing imported_at %q: %w", importedAt, err)
	}
	return &imp, nil
}

// ListClimbs returns the current catalogue in import order.
func (s *Store) ListClimbs() ([]Climb, error) {
	rows, err := s.db.Query(`
		SELECT ` + climbBaseColumns + `, ` + strings.Join(histogramColumns(), ", ") + `
		FROM climbs
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var climbs []Climb
	for rows.Next() {
		c, err := scanClimb(rows)
		if err != nil {
			return nil, err
		}
		climbs = append(climbs, *c)
	}
	return climbs, rows.Err()
}

// GetClimbByName retrieves a climb by exact name.
func (s *Store) GetClimbByName(name string) (*Climb, error) {
	row := s.db.QueryRow(`
		SELECT `+climbBaseColumns+`, `+strings.Join(histogramColumns(), ", ")+`
		FROM climbs
		WHERE name = ?
		ORDER BY position
		LIMIT 1
	`, name)
	c, err := scanClimb(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClimbNotFound
	}
	return c, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanClimb(r rowScanner) (*Climb, error) {
	var c Climb
	var pathGroup sql.NullString
	over := make([]float64, len(GradientThresholds))

	dest := []interface{}{
		&c.ID, &c.Position, &c.Name, &c.Location, &c.DistanceKm, &c.TotalAscentMeters,
		&c.AvgGradientPct, &c.MaxGradientPct, &pathGroup,
	}
	for i := range over {
		dest = append(dest, &over[i])
	}
	if err := r.Scan(dest...); err != nil {
		return nil, err
	}

	c.PathGroupID = pathGroup.String
	c.Histogram = make(map[int]float64, len(GradientThresholds))
	for i, t := range GradientThresholds {
		if over[i] > 0 {
			c.Histogram[t] = over[i]
		}
	}
	return &c, nil
}

func toNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
