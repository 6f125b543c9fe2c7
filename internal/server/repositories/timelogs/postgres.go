// Package timelogs provides PostgreSQL-backed storage for clock sessions and
// the breaks nested in them.
package timelogs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/timekeeper/internal/common"
	"github.com/dmitrijs2005/timekeeper/internal/dbx"
	"github.com/dmitrijs2005/timekeeper/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// foreignKeyViolation is the PostgreSQL SQLSTATE for a missing referenced row.
const foreignKeyViolation = "23503"

// PostgresRepository implements time log storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a session and returns its id. ClockOut may be nil. A user id
// with no matching account is reported as common.ErrUnknownUser.
func (r *PostgresRepository) Create(ctx context.Context, log *models.TimeLog) (int64, error) {
	query :=
		`INSERT INTO time_logs (user_id, clock_in, clock_out, manual, approved)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id
		 `

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		log.UserID, log.ClockIn, nullTime(log.ClockOut), log.Manual, log.Approved).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return 0, common.ErrUnknownUser
		}
		return 0, fmt.Errorf("db error: %w", err)
	}

	return id, nil
}

// GetLatest returns the user's most recently created session, open or not.
func (r *PostgresRepository) GetLatest(ctx context.Context, userID int64) (*models.TimeLog, error) {
	query :=
		`SELECT id, user_id, clock_in, clock_out, manual, approved FROM time_logs
		 WHERE user_id = $1
		 ORDER BY id DESC
		 LIMIT 1
		 `

	log, err := scanLog(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return log, nil
}

func (r *PostgresRepository) SetClockOut(ctx context.Context, logID int64, at time.Time) error {
	query := `UPDATE time_logs SET clock_out = $2 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, logID, at); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// SelectRange returns the user's sessions whose clock_in lies in [from, to),
// newest first. Breaks are not loaded.
func (r *PostgresRepository) SelectRange(ctx context.Context, userID int64, from, to time.Time) ([]*models.TimeLog, error) {
	query :=
		`SELECT id, user_id, clock_in, clock_out, manual, approved FROM time_logs
		 WHERE user_id = $1 AND clock_in >= $2 AND clock_in < $3
		 ORDER BY clock_in DESC, id DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.TimeLog{}
	for rows.Next() {
		log, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// Approve marks the session approved. Unknown ids are not an error.
func (r *PostgresRepository) Approve(ctx context.Context, logID int64) error {
	query := `UPDATE time_logs SET approved = TRUE WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, logID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// CreateBreak inserts a break under logID. A nil end leaves the break open.
func (r *PostgresRepository) CreateBreak(ctx context.Context, logID int64, start time.Time, end *time.Time) (int64, error) {
	query :=
		`INSERT INTO breaks (log_id, break_start, break_end)
		 VALUES ($1, $2, $3)
		 RETURNING id
		 `

	var id int64
	if err := r.db.QueryRowContext(ctx, query, logID, start, nullTime(end)).Scan(&id); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return id, nil
}

// CloseLatestOpenBreak ends the most recently started open break of logID.
// It reports false when the session has no open break.
func (r *PostgresRepository) CloseLatestOpenBreak(ctx context.Context, logID int64, at time.Time) (bool, error) {
	query :=
		`UPDATE breaks SET break_end = $2
		 WHERE id = (
			SELECT id FROM breaks
			WHERE log_id = $1 AND break_end IS NULL
			ORDER BY id DESC
			LIMIT 1
		 )
		 `

	res, err := r.db.ExecContext(ctx, query, logID, at)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}

	return n > 0, nil
}

// SelectBreaks returns the breaks of logID ordered by start time.
func (r *PostgresRepository) SelectBreaks(ctx context.Context, logID int64) ([]models.Break, error) {
	query :=
		`SELECT id, log_id, break_start, break_end FROM breaks
		 WHERE log_id = $1
		 ORDER BY break_start ASC, id ASC
		 `

	rows, err := r.db.QueryContext(ctx, query, logID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Break{}
	for rows.Next() {
		var (
			b   models.Break
			end sql.NullTime
		)
		if err := rows.Scan(&b.ID, &b.LogID, &b.BreakStart, &end); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		b.BreakEnd = timePtr(end)
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLog(s scanner) (*models.TimeLog, error) {
	var (
		log models.TimeLog
		out sql.NullTime
	)
	if err := s.Scan(&log.ID, &log.UserID, &log.ClockIn, &out, &log.Manual, &log.Approved); err != nil {
		return nil, err
	}
	log.ClockOut = timePtr(out)
	return &log, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
