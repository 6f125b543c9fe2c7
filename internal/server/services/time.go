package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/timekeeper/internal/common"
	"github.com/dmitrijs2005/timekeeper/internal/server/models"
	"github.com/dmitrijs2005/timekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/timekeeper/internal/server/repositories/timelogs"
	"github.com/dmitrijs2005/timekeeper/internal/timex"
)

// TimeService performs clock and break transitions for a single user.
//
// A user is clocked in when their most recent TimeLog has no clock_out, and
// on a break when that log has a break without break_end. Both facts are
// re-read from storage on every call; concurrent requests for the same user
// are not serialized.
type TimeService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewTimeService(db *sql.DB, m repomanager.RepositoryManager) *TimeService {
	return &TimeService{db: db, repomanager: m, now: time.Now}
}

// ClockIn starts a new session. An already open session is left alone.
func (s *TimeService) ClockIn(ctx context.Context, userID int64) (int64, error) {
	id, err := s.repomanager.TimeLogs(s.db).Create(ctx, &models.TimeLog{
		UserID:   userID,
		ClockIn:  s.now(),
		Manual:   false,
		Approved: false,
	})
	if err != nil {
		return 0, fmt.Errorf("error clocking in: %w", err)
	}
	return id, nil
}

func (s *TimeService) ClockOut(ctx context.Context, userID int64) error {
	repo := s.repomanager.TimeLogs(s.db)

	log, err := s.openSession(ctx, repo, userID)
	if err != nil {
		return err
	}

	if err := repo.SetClockOut(ctx, log.ID, s.now()); err != nil {
		return fmt.Errorf("error clocking out: %w", err)
	}
	return nil
}

func (s *TimeService) StartBreak(ctx context.Context, userID int64) error {
	repo := s.repomanager.TimeLogs(s.db)

	log, err := s.openSession(ctx, repo, userID)
	if err != nil {
		return err
	}

	breaks, err := repo.SelectBreaks(ctx, log.ID)
	if err != nil {
		return fmt.Errorf("error reading breaks: %w", err)
	}
	for i := range breaks {
		if breaks[i].Open() {
			return common.ErrBreakInProgress
		}
	}

	if _, err := repo.CreateBreak(ctx, log.ID, s.now(), nil); err != nil {
		return fmt.Errorf("error starting break: %w", err)
	}
	return nil
}

// EndBreak closes the most recently started open break of the open session.
func (s *TimeService) EndBreak(ctx context.Context, userID int64) error {
	repo := s.repomanager.TimeLogs(s.db)

	log, err := s.openSession(ctx, repo, userID)
	if err != nil {
		return err
	}

	closed, err := repo.CloseLatestOpenBreak(ctx, log.ID, s.now())
	if err != nil {
		return fmt.Errorf("error ending break: %w", err)
	}
	if !closed {
		return common.ErrNoActiveBreak
	}
	return nil
}

// Today returns the latest session started on the current local date, or
// nil when there is none.
func (s *TimeService) Today(ctx context.Context, userID int64) (*models.TimeLog, error) {
	logs, err := s.logsInWindow(ctx, userID, timex.DayWindow(s.now()))
	if err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return nil, nil
	}
	return logs[0], nil
}

// Week returns the sessions of the current Monday-based week, newest first.
func (s *TimeService) Week(ctx context.Context, userID int64) ([]*models.TimeLog, error) {
	return s.logsInWindow(ctx, userID, timex.WeekWindow(s.now()))
}

// Range returns the sessions started between start and end, newest first.
// Both bounds are required.
func (s *TimeService) Range(ctx context.Context, userID int64, start, end string) ([]*models.TimeLog, error) {
	w, err := parseRange(start, end, s.now().Location())
	if err != nil {
		return nil, err
	}
	return s.logsInWindow(ctx, userID, w)
}

func (s *TimeService) openSession(ctx context.Context, repo timelogs.Repository, userID int64) (*models.TimeLog, error) {
	log, err := repo.GetLatest(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrNoActiveSession
		}
		return nil, fmt.Errorf("error reading session: %w", err)
	}
	if !log.Open() {
		return nil, common.ErrNoActiveSession
	}
	return log, nil
}

func (s *TimeService) logsInWindow(ctx context.Context, userID int64, w timex.Window) ([]*models.TimeLog, error) {
	repo := s.repomanager.TimeLogs(s.db)

	logs, err := repo.SelectRange(ctx, userID, w.From, w.To)
	if err != nil {
		return nil, fmt.Errorf("error reading logs: %w", err)
	}
	for _, l := range logs {
		if l.Breaks, err = repo.SelectBreaks(ctx, l.ID); err != nil {
			return nil, fmt.Errorf("error reading breaks: %w", err)
		}
	}
	return logs, nil
}

// parseRange validates caller-supplied bounds.
func parseRange(start, end string, loc *time.Location) (timex.Window, error) {
	if start == "" || end == "" {
		return timex.Window{}, common.ErrMissingDateRange
	}
	w, err := timex.ParseWindow(start, end, loc)
	if err != nil {
		return timex.Window{}, common.ErrInvalidDateRange
	}
	return w, nil
}
