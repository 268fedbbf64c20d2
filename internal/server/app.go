// Package server wires the Entrust service together: it opens the member
// store, runs migrations, bootstraps the admin account and serves the JSON
// API and the gRPC health endpoint until a termination signal arrives.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/entrust/internal/assistant"
	"github.com/dmitrijs2005/entrust/internal/card"
	"github.com/dmitrijs2005/entrust/internal/logging"
	"github.com/dmitrijs2005/entrust/internal/server/config"
	"github.com/dmitrijs2005/entrust/internal/server/httpapi"
	"github.com/dmitrijs2005/entrust/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/entrust/internal/server/services"

	gs "github.com/dmitrijs2005/entrust/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	handler     *httpapi.Handler
}

// openRepositoryManager is a seam for tests.
var openRepositoryManager = repomanager.Open

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	rm, err := openRepositoryManager(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close()
		return nil, err
	}

	h, err := newHandler(ctx, c, rm, logger)
	if err != nil {
		_ = rm.Close()
		return nil, err
	}

	return &App{config: c, logger: logger, repomanager: rm, handler: h}, nil
}

func newHandler(ctx context.Context, c *config.Config, rm repomanager.RepositoryManager, logger logging.Logger) (*httpapi.Handler, error) {
	ms := services.NewMemberService(rm, logger)
	if err := ms.EnsureAdmin(ctx, c.AdminID, c.AdminPassword); err != nil {
		return nil, fmt.Errorf("admin bootstrap: %w", err)
	}

	renderer, err := card.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("card renderer: %w", err)
	}

	// A missing key is not fatal; the assistant answers with its fallback.
	var gen assistant.Generator
	g, err := assistant.NewGenAIGenerator(ctx, c.GeminiAPIKey, c.GeminiModel)
	switch {
	case errors.Is(err, assistant.ErrMissingKey):
		logger.Warn(ctx, "GEMINI_API_KEY is not set, assistant will use fallback replies")
	case err != nil:
		return nil, fmt.Errorf("assistant: %w", err)
	default:
		gen = g
	}

	metrics := httpapi.NewMetrics()
	as := services.NewAuthService(rm, services.LogNotifier{Logger: logger}, logger, c)
	cs := services.NewCardService(rm, renderer, c, logger)
	ai := assistant.New(gen, logger, metrics.AssistantObserver())

	return httpapi.NewHandler(ms, as, cs, ai, metrics, logger), nil
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
	s := httpapi.NewServer(app.config.EndpointAddrHTTP, httpapi.NewRouter(app.handler, app.logger), app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.repomanager.Ping)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled, a signal arrives or a server fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repomanager.Close(); err != nil {
		app.logger.Error(ctx, "closing store", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
