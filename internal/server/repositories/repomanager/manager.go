package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/timekeeper/internal/dbx"
	"github.com/dmitrijs2005/timekeeper/internal/server/repositories/reports"
	"github.com/dmitrijs2005/timekeeper/internal/server/repositories/timelogs"
	"github.com/dmitrijs2005/timekeeper/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	TimeLogs(db dbx.DBTX) timelogs.Repository
	Reports(db dbx.DBTX) reports.Repository
}
