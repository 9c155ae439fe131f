package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"spreedly-bot/internal/domain/ports"
)

const (
	shutdownTimeout = 5 * time.Second
	jobTimeout      = 2 * time.Minute
)

// Server is the inbound command endpoint.
type Server interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// Job is a scheduled unit of work such as the inventory report.
type Job interface {
	Run(ctx context.Context) error
}

// App manages the lifecycle of the command server and the report scheduler.
type App struct {
	cron     *cron.Cron
	server   Server
	report   Job
	logger   ports.Logger
	schedule string
}

// New constructs an App instance. A nil report or empty schedule disables the scheduler.
func New(server Server, report Job, logger ports.Logger, schedule string) *App {
	return &App{
		cron:     cron.New(),
		server:   server,
		report:   report,
		logger:   logger,
		schedule: schedule,
	}
}

// Run serves commands until ctx is cancelled or the server fails.
func (a *App) Run(ctx context.Context) error {
	if a.scheduled() {
		if err := a.scheduleJob(); err != nil {
			return fmt.Errorf("schedule inventory report: %w", err)
		}
		a.logger.Info(ctx, "starting scheduler", "cron", a.schedule)
		a.cron.Start()
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info(ctx, "starting command server")
		serveErr <- a.server.ListenAndServe()
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			runErr = fmt.Errorf("command server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error(shutdownCtx, "server shutdown failed", "error", err)
	}

	if a.scheduled() {
		stopCtx := a.cron.Stop()
		select {
		case <-stopCtx.Done():
		case <-shutdownCtx.Done():
		}
		a.logger.Info(context.Background(), "scheduler stopped")
	}

	return runErr
}

func (a *App) scheduled() bool {
	return a.report != nil && a.schedule != ""
}

func (a *App) scheduleJob() error {
	_, err := a.cron.AddFunc(a.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if err := a.report.Run(ctx); err != nil {
			a.logger.Error(ctx, "scheduled inventory report failed", "error", err)
		}
	})
	return err
}
