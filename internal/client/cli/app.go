package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/labagenda/internal/client/authstate"
	"github.com/dmitrijs2005/labagenda/internal/client/client"
	"github.com/dmitrijs2005/labagenda/internal/client/config"
	"github.com/dmitrijs2005/labagenda/internal/client/identity"
	"github.com/dmitrijs2005/labagenda/internal/client/remote"
	"github.com/dmitrijs2005/labagenda/internal/client/services"
	"github.com/dmitrijs2005/labagenda/internal/client/storage"
	"github.com/dmitrijs2005/labagenda/internal/client/sweeper"
	"github.com/dmitrijs2005/labagenda/internal/datex"
	"github.com/dmitrijs2005/labagenda/internal/filex"
	"github.com/dmitrijs2005/labagenda/internal/logging"
)

type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

// offlineDatabase is the structured database holding documents when the
// client runs without a server.
const offlineDatabase = "offline"

// sessionControl is the part of *authstate.Controller the CLI drives.
type sessionControl interface {
	Start(ctx context.Context) error
	Stop()
	State() authstate.Snapshot
	SignOut(ctx context.Context) error
}

type App struct {
	Mode    Mode
	ids     identity.Provider
	session sessionControl
	agenda  services.AgendaService
	clock   *datex.Classifier
	dates   *datex.NaturalParser
	cursor  datex.MonthCursor
	log     logging.Logger
	reader  *bufio.Reader
	out     io.Writer
	closers []func() error
}

// ownerFunc adapts a func to services.OwnerSource.
type ownerFunc func() (string, bool)

func (f ownerFunc) Owner() (string, bool) { return f() }

// NewApp builds the client from configuration. Online mode talks to the
// backend over gRPC; offline mode keeps documents in a local database that
// is dropped together with every other app database on purge.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	clock, err := datex.LoadClassifier(c.Timezone, nil)
	if err != nil {
		return nil, err
	}
	dataDir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	a := &App{
		clock:  clock,
		dates:  datex.NewNaturalParser(clock),
		cursor: clock.CurrentMonth(),
		log:    log,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}

	db, err := storage.OpenSQLite(ctx, filepath.Join(dataDir, "agenda.db"))
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	a.closers = append(a.closers, db.Close)

	persistent := storage.NewSQLiteStore(db)
	volatile := storage.NewMemoryStore()
	registry := storage.NewFileRegistry(filepath.Join(dataDir, "databases"))
	ns := storage.DefaultNamespace()
	sweep := sweeper.New(persistent, volatile, registry, ns, log)

	var docs remote.DocumentStore
	if c.Offline {
		offline, err := registry.Open(ctx, offlineDatabase)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("open offline database: %w", err)
		}
		a.closers = append(a.closers, offline.Close)
		docs = remote.NewSQLiteStore(offline)
		a.ids = identity.NewLocalProvider(persistent, ns, log)
		a.Mode = ModeOffline
	} else {
		backend, err := client.NewGRPCClient(c.ServerEndpointAddr, c.RequestTimeout)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, backend.Close)
		docs = backend
		a.ids = identity.NewRemoteProvider(backend, persistent, ns, log)
		a.Mode = ModeOnline
	}

	var ctrl *authstate.Controller
	a.agenda = services.NewAgendaService(
		ownerFunc(func() (string, bool) { return ctrl.Owner() }),
		remote.NewSubjects(docs, nil),
		remote.NewSessions(docs, nil),
		persistent,
		ns,
		clock,
		log,
	)
	ctrl = authstate.New(a.ids, sweep, log, a.agenda)
	a.session = ctrl
	return a, nil
}

// Close releases what NewApp opened, last opened first.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) isLoggedIn() bool {
	return a.session.State().State == authstate.Authenticated
}

func (a *App) getStatus() string {
	s := string(a.Mode)
	if snap := a.session.State(); snap.State == authstate.Authenticated && snap.Principal != nil {
		s = snap.Principal.Email + " " + s
	}
	return fmt.Sprintf("(%s)", s)
}

// Run resumes the previous session, if any, and blocks in the REPL until
// the user exits.
func (a *App) Run(ctx context.Context) error {
	defer a.session.Stop()

	fmt.Fprintln(a.out, "Agenda do laboratório (digite 'help' para ver os comandos)")
	if err := a.session.Start(ctx); err != nil {
		a.log.Warn(ctx, "could not resume session", "error", err)
	}
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Nenhuma sessão ativa. Use 'login' ou 'register'.")
	}

	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}

// report prints err for the user. Validation failures name the field.
func (a *App) report(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	a.log.Debug(ctx, "command failed", "error", err)
	fmt.Fprintln(a.out, renderError(err))
	return err
}
