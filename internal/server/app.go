// Package server wires the agenda backend: PostgreSQL repositories, the
// identity and document services, the mailer and the gRPC endpoint.
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

	"github.com/dmitrijs2005/labagenda/internal/logging"
	"github.com/dmitrijs2005/labagenda/internal/server/config"
	"github.com/dmitrijs2005/labagenda/internal/server/mail"
	"github.com/dmitrijs2005/labagenda/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/labagenda/internal/server/services"

	gs "github.com/dmitrijs2005/labagenda/internal/server/grpc"
)

type App struct {
	config          *config.Config
	logger          logging.Logger
	db              *sql.DB
	userService     *services.UserService
	documentService *services.DocumentService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	mailer, err := newMailer(c, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &App{
		config:          c,
		logger:          logger,
		db:              db,
		userService:     services.NewUserService(db, rm, mailer, c, logger),
		documentService: services.NewDocumentService(db, rm, logger),
	}, nil
}

func newMailer(c *config.Config, logger logging.Logger) (mail.Mailer, error) {
	switch c.Mailer {
	case config.MailerConsole:
		return mail.NewConsoleMailer(logger), nil
	case config.MailerSendgrid:
		if c.SendgridAPIKey == "" {
			return nil, fmt.Errorf("sendgrid mailer needs an API key")
		}
		return mail.NewSendgridMailer(c.SendgridAPIKey, c.MailFrom, logger), nil
	}
	return nil, fmt.Errorf("unknown mailer %q", c.Mailer)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.documentService)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until a termination signal arrives or the server fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing db", "error", err)
	}
	app.logger.Info(ctx, "Stopped")
}
