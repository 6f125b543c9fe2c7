package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/timekeeper/internal/server/auth"
	"github.com/dmitrijs2005/timekeeper/internal/server/models"
	"github.com/dmitrijs2005/timekeeper/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

type fakeUsers struct {
	registerFn func(name, email, password, role string) (int64, error)
	loginFn    func(email, password string) (*services.LoginResult, error)
	list       []*models.UserSummary
	listErr    error
	created    []string
}

func (f *fakeUsers) Register(ctx context.Context, name, email, password, role string) (int64, error) {
	return f.registerFn(name, email, password, role)
}

func (f *fakeUsers) CreateUser(ctx context.Context, name, email, password, role string) (int64, error) {
	f.created = append(f.created, role)
	return f.registerFn(name, email, password, role)
}

func (f *fakeUsers) Login(ctx context.Context, email, password string) (*services.LoginResult, error) {
	return f.loginFn(email, password)
}

func (f *fakeUsers) ListUsers(ctx context.Context) ([]*models.UserSummary, error) {
	return f.list, f.listErr
}

type fakeTime struct {
	err       error
	gotUserID int64
	today     *models.TimeLog
	logs      []*models.TimeLog
	gotStart  string
	gotEnd    string
}

func (f *fakeTime) ClockIn(ctx context.Context, userID int64) (int64, error) {
	f.gotUserID = userID
	return 42, f.err
}

func (f *fakeTime) ClockOut(ctx context.Context, userID int64) error {
	f.gotUserID = userID
	return f.err
}

func (f *fakeTime) StartBreak(ctx context.Context, userID int64) error {
	f.gotUserID = userID
	return f.err
}

func (f *fakeTime) EndBreak(ctx context.Context, userID int64) error {
	f.gotUserID = userID
	return f.err
}

func (f *fakeTime) Today(ctx context.Context, userID int64) (*models.TimeLog, error) {
	f.gotUserID = userID
	return f.today, f.err
}

func (f *fakeTime) Week(ctx context.Context, userID int64) ([]*models.TimeLog, error) {
	f.gotUserID = userID
	return f.logs, f.err
}

func (f *fakeTime) Range(ctx context.Context, userID int64, start, end string) ([]*models.TimeLog, error) {
	f.gotUserID, f.gotStart, f.gotEnd = userID, start, end
	return f.logs, f.err
}

type fakeReports struct {
	err        error
	csv        *services.FileExport
	pdf        *services.Document
	hours      []*models.UserHours
	approvedID int64
	manual     services.ManualLog
	gotStart   string
	gotEnd     string
}

func (f *fakeReports) ExportCSV(ctx context.Context, start, end string) (*services.FileExport, error) {
	f.gotStart, f.gotEnd = start, end
	return f.csv, f.err
}

func (f *fakeReports) ExportPDF(ctx context.Context, start, end string) (*services.Document, error) {
	f.gotStart, f.gotEnd = start, end
	return f.pdf, f.err
}

func (f *fakeReports) Approve(ctx context.Context, logID int64) error {
	f.approvedID = logID
	return f.err
}

func (f *fakeReports) HoursPerUser(ctx context.Context, start, end string) ([]*models.UserHours, error) {
	f.gotStart, f.gotEnd = start, end
	return f.hours, f.err
}

func (f *fakeReports) CreateManualLog(ctx context.Context, in services.ManualLog) (int64, error) {
	f.manual = in
	return 7, f.err
}

type fixture struct {
	users   *fakeUsers
	time    *fakeTime
	reports *fakeReports
	router  *gin.Engine
}

func newFixture(t *testing.T, opts ...func(*Deps)) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &fixture{
		users: &fakeUsers{
			registerFn: func(string, string, string, string) (int64, error) { return 1, nil },
			loginFn:    func(string, string) (*services.LoginResult, error) { return &services.LoginResult{}, nil },
		},
		time:    &fakeTime{},
		reports: &fakeReports{},
	}
	d := Deps{
		Users:          f.users,
		Time:           f.time,
		Reports:        f.reports,
		Secret:         testSecret,
		AllowedOrigins: []string{"*"},
	}
	for _, o := range opts {
		o(&d)
	}
	router, err := NewRouter(d)
	require.NoError(t, err)
	f.router = router
	return f
}

func tokenFor(t *testing.T, userID int64, role string) string {
	t.Helper()
	tok, err := auth.GenerateToken(userID, role, testSecret, time.Hour)
	require.NoError(t, err)
	return tok
}

func (f *fixture) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]any](t, rec)["message"].(string)
}
