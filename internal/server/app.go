// Package server wires the application together: configuration, database,
// session cache, blob storage, services, and the HTTP endpoint, plus
// graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"filesmanager/internal/logging"
	"filesmanager/internal/server/blob"
	"filesmanager/internal/server/config"
	"filesmanager/internal/server/httpapi"
	"filesmanager/internal/server/repositories/repomanager"
	"filesmanager/internal/server/services"
	"filesmanager/internal/server/sessions"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	cache  sessions.Cache
	server *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()
	if err := repos.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	cache, err := newSessionCache(cfg, db)
	if err != nil {
		return nil, err
	}

	blobs, err := newBlobStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	content := services.NewContentService(blobs, cfg.InlineMaxBytes)
	auth := services.NewAuthService(db, repos, cache, cfg.SessionTTL)
	files := services.NewFileService(db, repos, content, cfg.PageSize)
	status := services.NewStatusService(db, repos, cache)

	server := httpapi.NewServer(cfg.EndpointAddr, logger, auth, files, status)

	return &App{
		config: cfg,
		logger: logger,
		db:     db,
		cache:  cache,
		server: server,
	}, nil
}

func newSessionCache(cfg *config.Config, db *sql.DB) (sessions.Cache, error) {
	switch cfg.SessionStore {
	case "memory":
		return sessions.NewMemoryCache(), nil
	case "postgres":
		return sessions.NewPostgresCache(db), nil
	}
	return nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
}

func newBlobStore(ctx context.Context, cfg *config.Config) (blob.Store, error) {
	switch cfg.StorageDriver {
	case "fs":
		return blob.NewFSStore(cfg.FolderPath)
	case "s3":
		return blob.NewS3Store(ctx, blob.S3Config{
			RootUser:     cfg.S3RootUser,
			RootPassword: cfg.S3RootPassword,
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
		})
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, "http server", "error", err)
			cancelFunc()
		}
	}()

	wg.Wait()

	if mc, ok := app.cache.(*sessions.MemoryCache); ok {
		mc.Close()
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing db", "error", err)
	}
	app.logger.Info(ctx, "app stopped")
}
