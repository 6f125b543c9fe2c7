package reports

import (
	"context"
	"time"

	"github.com/dmitrijs2005/timekeeper/internal/server/models"
)

// Order selects the clock_in ordering of SelectLogs.
type Order int

const (
	Descending Order = iota
	Ascending
)

type Repository interface {
	SelectLogs(ctx context.Context, from, to time.Time, order Order) ([]*models.ReportLog, error)
	HoursPerUser(ctx context.Context, from, to time.Time) ([]*models.UserHours, error)
}
