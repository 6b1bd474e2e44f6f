package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rpggio/dashlog/internal/domain/zone"
	"github.com/rpggio/dashlog/internal/repository"
)

var _ zone.Repository = (*ZoneRepository)(nil)

// ZoneRepository implements zone.Repository for SQLite
type ZoneRepository struct {
	db *DB
}

// NewZoneRepository creates a new ZoneRepository
func NewZoneRepository(db *DB) *ZoneRepository {
	return &ZoneRepository{db: db}
}

// Create inserts a zone and assigns its ID
func (r *ZoneRepository) Create(ctx context.Context, z *zone.Zone) error {
	if z.CreatedAt.IsZero() {
		z.CreatedAt = time.Now()
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO zones (name, active, created_at) VALUES (?, ?, ?)`,
		z.Name, z.Active, z.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create zone: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read zone id: %w", err)
	}
	z.ID = id
	return nil
}

// Get retrieves a zone by ID
func (r *ZoneRepository) Get(ctx context.Context, id int64) (*zone.Zone, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, name, active, created_at FROM zones WHERE id = ?`, id))
}

// GetByName retrieves a zone by case-insensitive name
func (r *ZoneRepository) GetByName(ctx context.Context, name string) (*zone.Zone, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, name, active, created_at FROM zones WHERE name = ? COLLATE NOCASE`, name))
}

// Update writes the zone's name and active flag
func (r *ZoneRepository) Update(ctx context.Context, z *zone.Zone) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE zones SET name = ?, active = ? WHERE id = ?`,
		z.Name, z.Active, z.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to update zone: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// List returns zones ordered by name
func (r *ZoneRepository) List(ctx context.Context, activeOnly bool) ([]zone.Zone, error) {
	query := `SELECT id, name, active, created_at FROM zones`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY name COLLATE NOCASE`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list zones: %w", err)
	}
	defer rows.Close()

	var zones []zone.Zone
	for rows.Next() {
		var z zone.Zone
		if err := rows.Scan(&z.ID, &z.Name, &z.Active, &z.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan zone: %w", err)
		}
		zones = append(zones, z)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating zone rows: %w", err)
	}
	return zones, nil
}

// Count returns the number of zones, active or not
func (r *ZoneRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM zones`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count zones: %w", err)
	}
	return n, nil
}

func (r *ZoneRepository) scanOne(row *sql.Row) (*zone.Zone, error) {
	var z zone.Zone
	err := row.Scan(&z.ID, &z.Name, &z.Active, &z.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get zone: %w", err)
	}
	return &z, nil
}
