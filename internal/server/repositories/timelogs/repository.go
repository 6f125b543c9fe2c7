package timelogs

import (
	"context"
	"time"

	"github.com/dmitrijs2005/timekeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, log *models.TimeLog) (int64, error)
	GetLatest(ctx context.Context, userID int64) (*models.TimeLog, error)
	SetClockOut(ctx context.Context, logID int64, at time.Time) error
	SelectRange(ctx context.Context, userID int64, from, to time.Time) ([]*models.TimeLog, error)
	Approve(ctx context.Context, logID int64) error

	CreateBreak(ctx context.Context, logID int64, start time.Time, end *time.Time) (int64, error)
	CloseLatestOpenBreak(ctx context.Context, logID int64, at time.Time) (bool, error)
	SelectBreaks(ctx context.Context, logID int64) ([]models.Break, error)
}
