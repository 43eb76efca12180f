// Package server assembles the GophChat server: storage, answer generator,
// services and the gRPC and HTTP transports.
package server

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/gophchat/internal/logging"
	"github.com/dmitrijs2005/gophchat/internal/server/config"
	"github.com/dmitrijs2005/gophchat/internal/server/httpapi"
	"github.com/dmitrijs2005/gophchat/internal/server/llm"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophchat/internal/server/services"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/gophchat/internal/server/grpc"
)

// newPostgresManager is a seam for tests.
var newPostgresManager = func(ctx context.Context, dsn string) (repomanager.Manager, error) {
	return repomanager.NewPostgresManager(ctx, dsn)
}

// logOutput is where the application logger writes.
var logOutput io.Writer = os.Stdout

type App struct {
	config  *config.Config
	logger  logging.Logger
	manager repomanager.Manager

	grpcServer *gs.GRPCServer
	httpServer *httpapi.Server
}

// NewApp opens storage, migrates it and builds both transports.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger, err := logging.New(cfg.LogFormat, logOutput)
	if err != nil {
		return nil, err
	}

	m, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := m.RunMigrations(ctx); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	gen := newGenerator(cfg)
	if _, ok := gen.(llm.PlaceholderGenerator); ok {
		logger.Warn(ctx, "OpenAI API key is not set, answers come from the placeholder generator")
	}

	us := services.NewUserService(m, cfg, logger)
	cs := services.NewChatService(m, gen, cfg, logger)
	ts := services.NewThreadService(m, cfg, logger)
	es := services.NewExportService(m, cfg, logger)

	return &App{
		config:     cfg,
		logger:     logger,
		manager:    m,
		grpcServer: gs.NewGRPCServer(cfg.EndpointAddrGRPC, logger, us, cs, ts, es, cfg.SecretKey),
		httpServer: httpapi.NewServer(cfg.EndpointAddrHTTP, logger, us, cs, ts, cfg.SecretKey),
	}, nil
}

func openStorage(ctx context.Context, cfg *config.Config) (repomanager.Manager, error) {
	switch cfg.Storage {
	case config.StoragePostgres:
		m, err := newPostgresManager(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		return m, nil
	case config.StorageMemory:
		return repomanager.NewMemoryManager(nil), nil
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}

func newGenerator(cfg *config.Config) llm.Generator {
	if cfg.OpenAIAPIKey == "" {
		return llm.PlaceholderGenerator{}
	}
	return llm.NewOpenAIGenerator(cfg.OpenAIAPIKey, llm.OpenAIOptions{
		Model:       cfg.OpenAIModel,
		MaxTokens:   cfg.OpenAIMaxTokens,
		Temperature: cfg.OpenAITemperature,
	})
}

// Run serves both transports until ctx is cancelled or one of them fails,
// then closes storage.
func (app *App) Run(ctx context.Context) error {
	app.logger.Info(ctx, "Starting app...", "storage", app.config.Storage)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.grpcServer.Run(gctx) })
	g.Go(func() error { return app.httpServer.Run(gctx) })

	err := g.Wait()
	if cerr := app.manager.Close(); cerr != nil {
		app.logger.Error(context.Background(), "closing storage", "error", cerr.Error())
	}
	if err != nil {
		return err
	}
	app.logger.Info(context.Background(), "App stopped")
	return nil
}
