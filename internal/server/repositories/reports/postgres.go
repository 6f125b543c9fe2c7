// Package reports provides the read-only queries behind admin exports and
// hour summaries.
package reports

import (
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/dmitrijs2005/timekeeper/internal/dbx"
	"github.com/dmitrijs2005/timekeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectLogsQuery = `SELECT l.id, u.name, l.clock_in, l.clock_out, l.manual, l.approved,
		b.id, b.break_start, b.break_end
	FROM time_logs l
	JOIN users u ON u.id = l.user_id
	LEFT JOIN breaks b ON b.log_id = l.id
	WHERE l.clock_in >= $1 AND l.clock_in < $2
	`

// SelectLogs returns every session with clock_in in [from, to) together with
// the owner's name and its breaks (by start time).
func (r *PostgresRepository) SelectLogs(ctx context.Context, from, to time.Time, order Order) ([]*models.ReportLog, error) {
	query := selectLogsQuery + "ORDER BY l.clock_in DESC, l.id DESC, b.break_start ASC, b.id ASC"
	if order == Ascending {
		query = selectLogsQuery + "ORDER BY l.clock_in ASC, l.id ASC, b.break_start ASC, b.id ASC"
	}

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.ReportLog{}
	var cur *models.ReportLog
	for rows.Next() {
		var (
			log                  models.ReportLog
			clockOut             sql.NullTime
			breakID              sql.NullInt64
			breakStart, breakEnd sql.NullTime
		)
		if err := rows.Scan(&log.LogID, &log.Employee, &log.ClockIn, &clockOut, &log.Manual, &log.Approved,
			&breakID, &breakStart, &breakEnd); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}

		// rows of one session are adjacent because of the ORDER BY
		if cur == nil || cur.LogID != log.LogID {
			log.ClockOut = timePtr(clockOut)
			log.Breaks = []models.Break{}
			cur = &log
			result = append(result, cur)
		}
		if breakID.Valid {
			cur.Breaks = append(cur.Breaks, models.Break{
				ID:         breakID.Int64,
				LogID:      cur.LogID,
				BreakStart: breakStart.Time,
				BreakEnd:   timePtr(breakEnd),
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

const hoursPerUserQuery = `SELECT u.id, u.name, l.clock_in, l.clock_out
	FROM time_logs l
	JOIN users u ON u.id = l.user_id
	WHERE l.clock_out IS NOT NULL AND l.clock_in >= $1 AND l.clock_in < $2
	ORDER BY u.id, l.clock_in
	`

// session is one closed time log as seen by the hour totals.
type session struct {
	userID   int64
	name     string
	clockIn  time.Time
	clockOut time.Time
}

// HoursPerUser sums whole minutes of every closed session in [from, to) per
// user and converts them to hours. Breaks are not subtracted.
func (r *PostgresRepository) HoursPerUser(ctx context.Context, from, to time.Time) ([]*models.UserHours, error) {
	rows, err := r.db.QueryContext(ctx, hoursPerUserQuery, from, to)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var sessions []session
	for rows.Next() {
		var s session
		if err := rows.Scan(&s.userID, &s.name, &s.clockIn, &s.clockOut); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return sumHours(sessions), nil
}

// wholeMinutes is the number of complete minutes between in and out.
func wholeMinutes(in, out time.Time) float64 {
	return math.Floor(out.Sub(in).Minutes())
}

// sumHours totals sessions per user, largest total first. Users with equal
// totals keep the order they first appear in.
func sumHours(sessions []session) []*models.UserHours {
	result := []*models.UserHours{}
	minutes := map[int64]float64{}
	byUser := map[int64]*models.UserHours{}

	for _, s := range sessions {
		h, ok := byUser[s.userID]
		if !ok {
			h = &models.UserHours{Employee: s.name}
			byUser[s.userID] = h
			result = append(result, h)
		}
		minutes[s.userID] += wholeMinutes(s.clockIn, s.clockOut)
	}
	for id, h := range byUser {
		h.TotalHours = minutes[id] / 60
	}

	slices.SortStableFunc(result, func(a, b *models.UserHours) int {
		return cmp.Compare(b.TotalHours, a.TotalHours)
	})
	return result
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
