// Package server wires the linkgate application together: database and
// migrations, blob storage, services and the REST transport, and runs it
// until an OS signal arrives.
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

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrijs2005/linkgate/internal/logging"
	"github.com/dmitrijs2005/linkgate/internal/server/blob"
	"github.com/dmitrijs2005/linkgate/internal/server/config"
	"github.com/dmitrijs2005/linkgate/internal/server/httpapi"
	"github.com/dmitrijs2005/linkgate/internal/server/metrics"
	"github.com/dmitrijs2005/linkgate/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/linkgate/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

// BlobOptions maps the server config onto blob store options.
func BlobOptions(c *config.Config) blob.Options {
	return blob.Options{
		Backend:              c.BlobBackend,
		DriveCredentialsFile: c.DriveCredentialsFile,
		DriveCredentialsJSON: c.DriveCredentialsJSON,
		DriveFolderID:        c.DriveFolderID,
		S3: blob.S3Config{
			Region:       c.S3Region,
			RootUser:     c.S3RootUser,
			RootPassword: c.S3RootPassword,
			Bucket:       c.S3Bucket,
			BaseEndpoint: c.S3BaseEndpoint,
		},
	}
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.New(logging.Output(c.LogFile), c.LogLevel)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	store, err := blob.New(ctx, BlobOptions(c))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	mt, err := metrics.New()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("metrics init error: %w", err)
	}

	if logging.ParseLevel(c.LogLevel) != slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Users:          services.NewUserService(db, rm, c),
		Connections:    services.NewConnectionService(db, rm),
		Links:          services.NewLinkService(db, rm),
		Unlock:         services.NewUnlockService(db, rm, mt),
		Files:          services.NewFileService(db, rm, store, mt, logger.With("module", "files")),
		Logger:         logger,
		Metrics:        mt,
		CookieSecure:   c.CookieSecure,
		MaxUploadBytes: c.MaxUploadBytes,
	})

	return &App{
		config: c,
		logger: logger,
		db:     db,
		server: httpapi.NewServer(c.HTTPAddr, logger, router),
	}, nil
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

// Run blocks until a termination signal, then drains the HTTP server and
// closes the database pool.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
