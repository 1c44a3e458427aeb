package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/carelinkzm/carelink/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys.
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// UpsertGigs inserts or replaces a batch of gigs. Gigs without an ID
// (locally drafted, not yet posted) are assigned one.
func (s *SQLiteStore) UpsertGigs(ctx context.Context, gigs []model.Gig) error {
	if len(gigs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT OR REPLACE INTO gigs (
			id, title, description, clinic_id, clinic_name,
			location, specialty, rate, status,
			starts_at, ends_at, application_count,
			created_at, updated_at, fetched_at
		) VALUES (
			?, ?, ?, ?, ?,
			?, ?, ?, ?,
			?, ?, ?,
			?, ?, ?
		)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing upsert statement: %w", err)
	}
	defer stmt.Close()

	for _, g := range gigs {
		if g.ID == "" {
			g.ID = uuid.New().String()
		}

		_, err = stmt.ExecContext(ctx,
			g.ID, g.Title, g.Description, g.ClinicID, g.ClinicName,
			g.Location, g.Specialty, g.Rate, g.Status,
			g.StartsAt.UTC(), g.EndsAt.UTC(), g.ApplicationCount,
			g.CreatedAt.UTC(), g.UpdatedAt.UTC(), g.FetchedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("upserting gig %s: %w", g.ID, err)
		}
	}

	return tx.Commit()
}

// GetGigs retrieves gigs matching the provided filter options.
func (s *SQLiteStore) GetGigs(
	ctx context.Context,
	filter GigFilter,
) ([]model.Gig, error) {
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, *filter.Status)
	}
	if filter.Specialty != nil {
		conditions = append(conditions, "specialty = ?")
		args = append(args, *filter.Specialty)
	}
	if filter.ClinicID != nil {
		conditions = append(conditions, "clinic_id = ?")
		args = append(args, *filter.ClinicID)
	}
	if filter.Query != nil && *filter.Query != "" {
		conditions = append(conditions, "(title LIKE ? OR description LIKE ? OR location LIKE ?)")
		q := "%" + *filter.Query + "%"
		args = append(args, q, q, q)
	}

	query := "SELECT * FROM gigs"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	// Determine sort column.
	sortBy := "updated_at"
	if filter.SortBy != "" {
		allowedSorts := map[string]bool{
			"title":      true,
			"status":     true,
			"rate":       true,
			"starts_at":  true,
			"created_at": true,
			"updated_at": true,
		}
		if allowedSorts[filter.SortBy] {
			sortBy = filter.SortBy
		}
	}

	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", sortBy, direction)

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying gigs: %w", err)
	}
	defer rows.Close()

	var gigs []model.Gig
	for rows.Next() {
		var g model.Gig
		if err := rows.StructScan(&g); err != nil {
			return nil, fmt.Errorf("scanning gig row: %w", err)
		}
		gigs = append(gigs, g)
	}

	return gigs, rows.Err()
}

// GetGigByID retrieves a single gig by its ID. Returns nil when the gig
// is not cached.
func (s *SQLiteStore) GetGigByID(
	ctx context.Context,
	id string,
) (*model.Gig, error) {
	var g model.Gig
	err := s.db.GetContext(ctx, &g, "SELECT * FROM gigs WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting gig %s: %w", id, err)
	}

	return &g, nil
}

// UpsertApplications inserts or replaces a batch of applications.
func (s *SQLiteStore) UpsertApplications(
	ctx context.Context,
	apps []model.Application,
) error {
	if len(apps) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT OR REPLACE INTO applications (
			id, gig_id, gig_title, provider_id, provider_name,
			status, note, applied_at, updated_at, fetched_at
		) VALUES (
			?, ?, ?, ?, ?,
			?, ?, ?, ?, ?
		)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing upsert statement: %w", err)
	}
	defer stmt.Close()

	for _, a := range apps {
		if a.ID == "" {
			a.ID = uuid.New().String()
		}

		_, err = stmt.ExecContext(ctx,
			a.ID, a.GigID, a.GigTitle, a.ProviderID, a.ProviderName,
			a.Status, a.Note,
			a.AppliedAt.UTC(), a.UpdatedAt.UTC(), a.FetchedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("upserting application %s: %w", a.ID, err)
		}
	}

	return tx.Commit()
}

// GetApplications retrieves applications matching the provided filter,
// most recently applied first.
func (s *SQLiteStore) GetApplications(
	ctx context.Context,
	filter ApplicationFilter,
) ([]model.Application, error) {
	var conditions []string
	var args []interface{}

	if filter.GigID != nil {
		conditions = append(conditions, "gig_id = ?")
		args = append(args, *filter.GigID)
	}
	if filter.ProviderID != nil {
		conditions = append(conditions, "provider_id = ?")
		args = append(args, *filter.ProviderID)
	}
	if filter.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, *filter.Status)
	}

	query := "SELECT * FROM applications"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY applied_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying applications: %w", err)
	}
	defer rows.Close()

	var apps []model.Application
	for rows.Next() {
		var a model.Application
		if err := rows.StructScan(&a); err != nil {
			return nil, fmt.Errorf("scanning application row: %w", err)
		}
		apps = append(apps, a)
	}

	return apps, rows.Err()
}

// GetApplicationByID retrieves a single application by its ID. Returns
// nil when the application is not cached.
func (s *SQLiteStore) GetApplicationByID(
	ctx context.Context,
	id string,
) (*model.Application, error) {
	var a model.Application
	err := s.db.GetContext(ctx, &a, "SELECT * FROM applications WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting application %s: %w", id, err)
	}

	return &a, nil
}

// ApplicationStatuses returns the cached status of every application,
// keyed by application ID.
func (s *SQLiteStore) ApplicationStatuses(
	ctx context.Context,
) (map[string]string, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT id, status FROM applications")
	if err != nil {
		return nil, fmt.Errorf("querying application statuses: %w", err)
	}
	defer rows.Close()

	statuses := make(map[string]string)
	for rows.Next() {
		var id, status string
		if err := rows.Scan(&id, &status); err != nil {
			return nil, fmt.Errorf("scanning status row: %w", err)
		}
		statuses[id] = status
	}

	return statuses, rows.Err()
}
