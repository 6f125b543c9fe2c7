package rest

import (
	"context"

	"github.com/dmitrijs2005/timekeeper/internal/server/models"
	"github.com/dmitrijs2005/timekeeper/internal/server/services"
)

// UserService is what the auth and user handlers need.
type UserService interface {
	Register(ctx context.Context, name, email, password, role string) (int64, error)
	CreateUser(ctx context.Context, name, email, password, role string) (int64, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	ListUsers(ctx context.Context) ([]*models.UserSummary, error)
}

// TimeService is what the employee time handlers need.
type TimeService interface {
	ClockIn(ctx context.Context, userID int64) (int64, error)
	ClockOut(ctx context.Context, userID int64) error
	StartBreak(ctx context.Context, userID int64) error
	EndBreak(ctx context.Context, userID int64) error
	Today(ctx context.Context, userID int64) (*models.TimeLog, error)
	Week(ctx context.Context, userID int64) ([]*models.TimeLog, error)
	Range(ctx context.Context, userID int64, start, end string) ([]*models.TimeLog, error)
}

// ReportService is what the admin handlers need.
type ReportService interface {
	ExportCSV(ctx context.Context, start, end string) (*services.FileExport, error)
	ExportPDF(ctx context.Context, start, end string) (*services.Document, error)
	Approve(ctx context.Context, logID int64) error
	HoursPerUser(ctx context.Context, start, end string) ([]*models.UserHours, error)
	CreateManualLog(ctx context.Context, in services.ManualLog) (int64, error)
}

// Subscriber hands out event streams for the SSE endpoint.
type Subscriber interface {
	Subscribe() (<-chan string, func())
}

type handlers struct {
	users   UserService
	time    TimeService
	reports ReportService
	events  Subscriber
}
