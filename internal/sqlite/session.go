package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rpggio/dashlog/internal/domain/session"
	"github.com/rpggio/dashlog/internal/repository"
)

var _ session.Repository = (*SessionRepository)(nil)

const sessionColumns = `
	id, zone_id, time_block, start_time, end_time, profit,
	start_miles, end_miles, orders, dash_minutes, active_minutes, week_start`

// SessionRepository implements session.Repository for SQLite.
// Instants are stored as epoch milliseconds.
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a session and assigns its ID
func (r *SessionRepository) Create(ctx context.Context, sess *session.Session) error {
	query := `
		INSERT INTO sessions (
			zone_id, time_block, start_time, end_time, profit,
			start_miles, end_miles, orders, dash_minutes, active_minutes, week_start
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		sess.ZoneID,
		sess.TimeBlock,
		sess.StartTime.UnixMilli(),
		sess.EndTime.UnixMilli(),
		sess.Profit,
		sess.StartMiles,
		sess.EndMiles,
		sess.Orders,
		sess.DashMinutes,
		sess.ActiveMinutes,
		sess.WeekStart.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read session id: %w", err)
	}
	sess.ID = id
	return nil
}

// Get retrieves a session by ID
func (r *SessionRepository) Get(ctx context.Context, id int64) (*session.Session, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return sess, nil
}

// Update replaces every stored field of a session
func (r *SessionRepository) Update(ctx context.Context, sess *session.Session) error {
	query := `
		UPDATE sessions
		SET zone_id = ?, time_block = ?, start_time = ?, end_time = ?, profit = ?,
		    start_miles = ?, end_miles = ?, orders = ?, dash_minutes = ?,
		    active_minutes = ?, week_start = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		sess.ZoneID,
		sess.TimeBlock,
		sess.StartTime.UnixMilli(),
		sess.EndTime.UnixMilli(),
		sess.Profit,
		sess.StartMiles,
		sess.EndMiles,
		sess.Orders,
		sess.DashMinutes,
		sess.ActiveMinutes,
		sess.WeekStart.UnixMilli(),
		sess.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	return requireAffected(result)
}

// Delete removes a session
func (r *SessionRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return requireAffected(result)
}

// ListRecent returns the newest sessions by start time
func (r *SessionRepository) ListRecent(ctx context.Context, limit int) ([]session.Session, error) {
	return r.list(ctx, `SELECT `+sessionColumns+` FROM sessions ORDER BY start_time DESC, id DESC LIMIT ?`, limit)
}

// ListAll returns every session, newest first
func (r *SessionRepository) ListAll(ctx context.Context) ([]session.Session, error) {
	return r.list(ctx, `SELECT `+sessionColumns+` FROM sessions ORDER BY start_time DESC, id DESC`)
}

// ListByWeek returns sessions whose stored week start equals weekStart
func (r *SessionRepository) ListByWeek(ctx context.Context, weekStart time.Time) ([]session.Session, error) {
	return r.list(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE week_start = ? ORDER BY start_time DESC, id DESC`,
		weekStart.UnixMilli())
}

func (r *SessionRepository) list(ctx context.Context, query string, args ...any) ([]session.Session, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []session.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating session rows: %w", err)
	}
	return sessions, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*session.Session, error) {
	var sess session.Session
	var start, end, week int64
	if err := row.Scan(
		&sess.ID,
		&sess.ZoneID,
		&sess.TimeBlock,
		&start,
		&end,
		&sess.Profit,
		&sess.StartMiles,
		&sess.EndMiles,
		&sess.Orders,
		&sess.DashMinutes,
		&sess.ActiveMinutes,
		&week,
	); err != nil {
		return nil, err
	}
	sess.StartTime = time.UnixMilli(start)
	sess.EndTime = time.UnixMilli(end)
	sess.WeekStart = time.UnixMilli(week)
	return &sess, nil
}

func requireAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}
