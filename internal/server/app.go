// Package server initializes and runs the timekeeper API server: it opens
// the database, applies migrations, wires services into the HTTP router and
// handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/timekeeper/internal/logging"
	"github.com/dmitrijs2005/timekeeper/internal/server/archive"
	"github.com/dmitrijs2005/timekeeper/internal/server/config"
	"github.com/dmitrijs2005/timekeeper/internal/server/events"
	"github.com/dmitrijs2005/timekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/timekeeper/internal/server/rest"
	"github.com/dmitrijs2005/timekeeper/internal/server/services"
)

var (
	openDB               = sql.Open
	newRepositoryManager = repomanager.NewPostgresRepositoryManager
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	broadcaster *events.Broadcaster
	server      *rest.HTTPServer
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := openDB("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := newRepositoryManager()
	if err := m.RunMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	broadcaster := events.NewBroadcaster()

	var archiver services.Archiver
	if c.ArchiveExports {
		archiver = archive.NewS3Archive(c)
	}

	router, err := rest.NewRouter(rest.Deps{
		Users:          services.NewUserService(db, m, c),
		Time:           services.NewTimeService(db, m),
		Reports:        services.NewReportService(db, m, c, broadcaster, archiver, logger.With("component", "reports")),
		Events:         broadcaster,
		Secret:         []byte(c.SecretKey),
		Logger:         logger.With("component", "http"),
		Metrics:        rest.NewMetrics(),
		AuthRateLimit:  c.AuthRateLimit,
		AllowedOrigins: c.AllowedOrigins,
		TrustedProxies: c.TrustedProxies,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("router init error: %w", err)
	}

	srv := rest.NewHTTPServer(c.EndpointAddrHTTP, router, logger)
	srv.RegisterOnShutdown(broadcaster.Close)

	return &App{config: c, logger: logger, db: db, broadcaster: broadcaster, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, a termination signal arrives or the
// server fails, then releases the database.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "address", app.config.EndpointAddrHTTP)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.broadcaster.Close()
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
