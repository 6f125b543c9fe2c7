package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/timekeeper/internal/common"
	"github.com/dmitrijs2005/timekeeper/internal/dbx"
	"github.com/dmitrijs2005/timekeeper/internal/server/models"
	"github.com/dmitrijs2005/timekeeper/internal/server/repositories/reports"
	"github.com/dmitrijs2005/timekeeper/internal/server/repositories/timelogs"
	"github.com/dmitrijs2005/timekeeper/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// --- users ---

type fakeUsersRepo struct {
	mu     sync.Mutex
	byMail map[string]*models.User
	nextID int64

	getErr    error
	createErr error
	listErr   error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byMail: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byMail[u.Email]; ok {
		return nil, common.ErrUserAlreadyExists
	}
	f.nextID++
	u.ID = f.nextID
	cp := *u
	f.byMail[u.Email] = &cp
	return u, nil
}

func (f *fakeUsersRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byMail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) List(ctx context.Context) ([]*models.UserSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []*models.UserSummary{}
	for _, u := range f.byMail {
		out = append(out, &models.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- time logs ---

// fakeTimeLogsRepo mirrors the PostgreSQL repository's semantics in memory.
type fakeTimeLogsRepo struct {
	mu        sync.Mutex
	logs      []*models.TimeLog
	breaks    []models.Break
	nextLog   int64
	nextBreak int64
	approved  []int64

	err         error
	breakErr    error
	createCalls int
}

func (f *fakeTimeLogsRepo) Create(ctx context.Context, l *models.TimeLog) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.err != nil {
		return 0, f.err
	}
	f.nextLog++
	cp := *l
	cp.ID = f.nextLog
	f.logs = append(f.logs, &cp)
	return cp.ID, nil
}

func (f *fakeTimeLogsRepo) GetLatest(ctx context.Context, userID int64) (*models.TimeLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var latest *models.TimeLog
	for _, l := range f.logs {
		if l.UserID == userID && (latest == nil || l.ID > latest.ID) {
			latest = l
		}
	}
	if latest == nil {
		return nil, common.ErrorNotFound
	}
	cp := *latest
	return &cp, nil
}

func (f *fakeTimeLogsRepo) SetClockOut(ctx context.Context, logID int64, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.logs {
		if l.ID == logID {
			l.ClockOut = &at
		}
	}
	return nil
}

func (f *fakeTimeLogsRepo) SelectRange(ctx context.Context, userID int64, from, to time.Time) ([]*models.TimeLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []*models.TimeLog{}
	for _, l := range f.logs {
		if l.UserID == userID && !l.ClockIn.Before(from) && l.ClockIn.Before(to) {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ClockIn.Equal(out[j].ClockIn) {
			return out[i].ID > out[j].ID
		}
		return out[i].ClockIn.After(out[j].ClockIn)
	})
	return out, nil
}

func (f *fakeTimeLogsRepo) Approve(ctx context.Context, logID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.approved = append(f.approved, logID)
	for _, l := range f.logs {
		if l.ID == logID {
			l.Approved = true
		}
	}
	return nil
}

func (f *fakeTimeLogsRepo) CreateBreak(ctx context.Context, logID int64, start time.Time, end *time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.breakErr != nil {
		return 0, f.breakErr
	}
	f.nextBreak++
	f.breaks = append(f.breaks, models.Break{ID: f.nextBreak, LogID: logID, BreakStart: start, BreakEnd: end})
	return f.nextBreak, nil
}

func (f *fakeTimeLogsRepo) CloseLatestOpenBreak(ctx context.Context, logID int64, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := -1
	for i, b := range f.breaks {
		if b.LogID == logID && b.BreakEnd == nil && (idx < 0 || b.ID > f.breaks[idx].ID) {
			idx = i
		}
	}
	if idx < 0 {
		return false, nil
	}
	f.breaks[idx].BreakEnd = &at
	return true, nil
}

func (f *fakeTimeLogsRepo) SelectBreaks(ctx context.Context, logID int64) ([]models.Break, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Break{}
	for _, b := range f.breaks {
		if b.LogID == logID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BreakStart.Before(out[j].BreakStart) })
	return out, nil
}

// --- reports ---

type fakeReportsRepo struct {
	logs  []*models.ReportLog
	hours []*models.UserHours
	err   error

	gotFrom, gotTo time.Time
	gotOrder       reports.Order
}

func (f *fakeReportsRepo) SelectLogs(ctx context.Context, from, to time.Time, order reports.Order) ([]*models.ReportLog, error) {
	f.gotFrom, f.gotTo, f.gotOrder = from, to, order
	if f.err != nil {
		return nil, f.err
	}
	return f.logs, nil
}

func (f *fakeReportsRepo) HoursPerUser(ctx context.Context, from, to time.Time) ([]*models.UserHours, error) {
	f.gotFrom, f.gotTo = from, to
	if f.err != nil {
		return nil, f.err
	}
	return f.hours, nil
}

// --- manager and collaborators ---

type fakeRepoManager struct {
	u  *fakeUsersRepo
	tl *fakeTimeLogsRepo
	r  *fakeReportsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository           { return m.u }
func (m *fakeRepoManager) TimeLogs(db dbx.DBTX) timelogs.Repository     { return m.tl }
func (m *fakeRepoManager) Reports(db dbx.DBTX) reports.Repository       { return m.r }

type fakeNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *fakeNotifier) Broadcast(event string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

type fakeArchiver struct {
	url   string
	err   error
	names []string
	data  [][]byte
}

func (a *fakeArchiver) Store(ctx context.Context, name, contentType string, data []byte) (string, error) {
	a.names = append(a.names, name)
	a.data = append(a.data, data)
	if a.err != nil {
		return "", a.err
	}
	return a.url, nil
}

// clock is a settable time source.
type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }
