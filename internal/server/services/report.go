package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/timekeeper/internal/common"
	"github.com/dmitrijs2005/timekeeper/internal/dbx"
	"github.com/dmitrijs2005/timekeeper/internal/filex"
	"github.com/dmitrijs2005/timekeeper/internal/logging"
	"github.com/dmitrijs2005/timekeeper/internal/server/config"
	"github.com/dmitrijs2005/timekeeper/internal/server/export"
	"github.com/dmitrijs2005/timekeeper/internal/server/models"
	"github.com/dmitrijs2005/timekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/timekeeper/internal/server/repositories/reports"
)

// Notifier receives a named event after data visible to clients changes.
type Notifier interface {
	Broadcast(event string)
}

// Archiver stores a copy of a generated export and returns a download link.
type Archiver interface {
	Store(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// FileExport is an export written to a temporary file. The caller serves it
// under Name and must remove Path afterwards.
type FileExport struct {
	Path       string
	Name       string
	ArchiveURL string
}

// Document is an export rendered in memory.
type Document struct {
	Name        string
	ContentType string
	Data        []byte
	ArchiveURL  string
}

// ManualLog is a closed session entered by an administrator.
type ManualLog struct {
	UserID   int64
	ClockIn  time.Time
	ClockOut time.Time
	Breaks   []models.Interval
}

// ReportService serves the admin side: exports, approvals, hour totals and
// manual entries.
type ReportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	exportDir   string
	notifier    Notifier
	archive     Archiver
	log         logging.Logger
	now         func() time.Time
}

// NewReportService wires a ReportService. archive may be nil to disable
// archiving.
func NewReportService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config,
	notifier Notifier, archive Archiver, log logging.Logger) *ReportService {
	return &ReportService{
		db:          db,
		repomanager: m,
		exportDir:   cfg.ExportDir,
		notifier:    notifier,
		archive:     archive,
		log:         log,
		now:         time.Now,
	}
}

// ExportCSV writes the timesheet for [start, end] to a temporary file under
// the export directory, newest sessions first.
func (s *ReportService) ExportCSV(ctx context.Context, start, end string) (*FileExport, error) {
	w, err := parseRange(start, end, s.now().Location())
	if err != nil {
		return nil, err
	}

	logs, err := s.repomanager.Reports(s.db).SelectLogs(ctx, w.From, w.To, reports.Descending)
	if err != nil {
		return nil, fmt.Errorf("error reading logs: %w", err)
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, logs); err != nil {
		return nil, fmt.Errorf("error rendering csv: %w", err)
	}

	dir, err := filex.EnsureSubdDir(s.exportDir)
	if err != nil {
		return nil, err
	}
	path, err := filex.UniquePath(dir, "timesheet.csv")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("error writing export: %w", err)
	}

	name := fmt.Sprintf("timesheet-%s_to_%s.csv", start, end)
	return &FileExport{
		Path:       path,
		Name:       name,
		ArchiveURL: s.store(ctx, name, "text/csv", buf.Bytes()),
	}, nil
}

// ExportPDF renders the sessions in [start, end] oldest first.
func (s *ReportService) ExportPDF(ctx context.Context, start, end string) (*Document, error) {
	w, err := parseRange(start, end, s.now().Location())
	if err != nil {
		return nil, err
	}

	logs, err := s.repomanager.Reports(s.db).SelectLogs(ctx, w.From, w.To, reports.Ascending)
	if err != nil {
		return nil, fmt.Errorf("error reading logs: %w", err)
	}

	var buf bytes.Buffer
	if err := export.WritePDF(&buf, export.PDFTitle(start, end), logs); err != nil {
		return nil, fmt.Errorf("error rendering pdf: %w", err)
	}

	name := fmt.Sprintf("logs-%s_to_%s.pdf", start, end)
	return &Document{
		Name:        name,
		ContentType: "application/pdf",
		Data:        buf.Bytes(),
		ArchiveURL:  s.store(ctx, name, "application/pdf", buf.Bytes()),
	}, nil
}

// Approve marks a session approved and notifies listeners. The id is not
// checked for existence.
func (s *ReportService) Approve(ctx context.Context, logID int64) error {
	if err := s.repomanager.TimeLogs(s.db).Approve(ctx, logID); err != nil {
		return fmt.Errorf("error approving log: %w", err)
	}
	s.notifier.Broadcast(common.EventLogUpdated)
	return nil
}

// HoursPerUser sums closed-session time per user, largest first.
func (s *ReportService) HoursPerUser(ctx context.Context, start, end string) ([]*models.UserHours, error) {
	w, err := parseRange(start, end, s.now().Location())
	if err != nil {
		return nil, err
	}

	hours, err := s.repomanager.Reports(s.db).HoursPerUser(ctx, w.From, w.To)
	if err != nil {
		return nil, fmt.Errorf("error summing hours: %w", err)
	}
	return hours, nil
}

// CreateManualLog stores an approved manual session and its breaks in one
// transaction.
func (s *ReportService) CreateManualLog(ctx context.Context, in ManualLog) (int64, error) {
	if in.UserID <= 0 || in.ClockIn.IsZero() || in.ClockOut.IsZero() {
		return 0, common.ErrMissingFields
	}
	if !in.ClockOut.After(in.ClockIn) {
		return 0, common.ErrInvalidInterval
	}
	for _, b := range in.Breaks {
		if !b.End.After(b.Start) || b.Start.Before(in.ClockIn) || b.End.After(in.ClockOut) {
			return 0, common.ErrInvalidInterval
		}
	}

	var logID int64
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.TimeLogs(tx)

		clockOut := in.ClockOut
		id, err := repo.Create(ctx, &models.TimeLog{
			UserID:   in.UserID,
			ClockIn:  in.ClockIn,
			ClockOut: &clockOut,
			Manual:   true,
			Approved: true,
		})
		if err != nil {
			return err
		}
		for _, b := range in.Breaks {
			end := b.End
			if _, err := repo.CreateBreak(ctx, id, b.Start, &end); err != nil {
				return err
			}
		}
		logID = id
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("error creating manual log: %w", err)
	}

	s.notifier.Broadcast(common.EventLogUpdated)
	return logID, nil
}

// store archives data when an archive is configured. Failures are logged and
// yield an empty link.
func (s *ReportService) store(ctx context.Context, name, contentType string, data []byte) string {
	if s.archive == nil {
		return ""
	}
	url, err := s.archive.Store(ctx, name, contentType, data)
	if err != nil {
		s.log.Warn(ctx, "export archive failed", "name", name, "error", err)
		return ""
	}
	s.log.Debug(ctx, "export archived", "name", name)
	return url
}
