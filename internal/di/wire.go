//go:build wireinject

package di

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"

	"spreedly-bot/internal/adapter/audit"
	"spreedly-bot/internal/adapter/discord"
	"spreedly-bot/internal/adapter/httpserver"
	"spreedly-bot/internal/adapter/logging"
	"spreedly-bot/internal/adapter/spreedly"
	"spreedly-bot/internal/app"
	"spreedly-bot/internal/config"
	"spreedly-bot/internal/domain/ports"
	"spreedly-bot/internal/usecase"
)

var handlerSet = wire.NewSet(
	provideSlogLogger,
	logging.New,
	wire.Bind(new(ports.Logger), new(*logging.SLogger)),
	providePaymentGateway,
	provideAuditStore,
	usecase.LoadCommandCatalog,
	provideFormatterConfig,
	usecase.NewResponseFormatter,
	usecase.NewCommandHandler,
)

// InitializeApp wires the application components together.
func InitializeApp() (*app.App, func(), error) {
	wire.Build(
		config.Load,
		handlerSet,
		provideNotifier,
		provideReportJob,
		provideServer,
		wire.Bind(new(app.Server), new(*httpserver.Server)),
		provideSchedule,
		app.New,
	)
	return nil, nil, nil
}

// InitializeCommandHandler wires only what a one-shot CLI command needs.
func InitializeCommandHandler() (*usecase.CommandHandler, func(), error) {
	wire.Build(
		config.Load,
		handlerSet,
	)
	return nil, nil, nil
}

func provideSlogLogger(cfg *config.Config) *slog.Logger {
	return logging.NewJSON(os.Stderr, cfg.LogLevel)
}

func providePaymentGateway(cfg *config.Config, logger ports.Logger) ports.PaymentGateway {
	return spreedly.New(cfg.SpreedlyBaseURL, cfg.SpreedlyEnvironmentKey, cfg.SpreedlyAccessSecret, cfg.RequestTimeout, logger)
}

func provideAuditStore(cfg *config.Config, logger ports.Logger) (ports.AuditStore, func(), error) {
	if cfg.AuditDBPath == "" {
		logger.Info(context.Background(), "audit log disabled")
		return nil, func() {}, nil
	}

	store, err := audit.Open(cfg.AuditDBPath)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Error(context.Background(), "failed to close audit store", "error", err)
		}
	}
	return store, cleanup, nil
}

func provideFormatterConfig() usecase.FormatterConfig {
	return usecase.DefaultFormatterConfig()
}

func provideNotifier(cfg *config.Config, logger ports.Logger) ports.Notifier {
	return discord.NewWebhook(cfg.DiscordWebhookURL, cfg.BotName, cfg.RequestTimeout, logger)
}

func provideReportJob(
	cfg *config.Config,
	gateway ports.PaymentGateway,
	notifier ports.Notifier,
	formatter *usecase.ResponseFormatter,
	logger ports.Logger,
) app.Job {
	if !cfg.ReportEnabled() {
		return nil
	}
	return usecase.NewInventoryReport(gateway, notifier, formatter, logger)
}

func provideServer(cfg *config.Config, handler *usecase.CommandHandler, logger ports.Logger) *httpserver.Server {
	gin.SetMode(gin.ReleaseMode)
	return httpserver.New(cfg.ListenAddr, cfg.CommandSecret, handler, logger)
}

func provideSchedule(cfg *config.Config) string {
	return cfg.ReportCron
}
