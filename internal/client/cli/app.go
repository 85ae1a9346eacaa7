package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/snapshop/internal/client/capture"
	"github.com/dmitrijs2005/snapshop/internal/client/config"
	"github.com/dmitrijs2005/snapshop/internal/client/gemini"
	"github.com/dmitrijs2005/snapshop/internal/client/models"
	"github.com/dmitrijs2005/snapshop/internal/client/services"
	"github.com/dmitrijs2005/snapshop/internal/client/storage"
	"github.com/dmitrijs2005/snapshop/internal/logging"
)

// pageSize is how many results are shown at once; "more" reveals the next page.
const pageSize = 6

type accountService interface {
	CreateAccount(ctx context.Context, email, password string) (*models.Account, error)
	Authenticate(ctx context.Context, email, password string) (*models.Account, error)
	UpdateAccount(ctx context.Context, email string, updates ...services.AccountUpdate) (*models.Account, error)
	EndSession(ctx context.Context) error
	LoadSession(ctx context.Context) (*models.Account, error)
}

type searchService interface {
	ImageSearch(ctx context.Context, img capture.Image) (*models.SearchResult, *models.Account, error)
	TextSearch(ctx context.Context, query string) (*models.SearchResult, error)
}

type camera interface {
	Start(ctx context.Context) error
	Capture(ctx context.Context) (capture.Image, error)
	Stop() error
	Active() bool
	Frames() int
}

// App is the interactive shell. It owns the session user, the current
// preview image, and the current search result.
type App struct {
	accounts accountService
	search   searchService
	camera   camera
	log      logging.Logger
	reader   *bufio.Reader
	out      io.Writer
	closers  []func() error
	busyTick time.Duration

	shutdownGrace time.Duration

	user    *models.Account
	preview capture.Image
	result  *models.SearchResult
	lastErr error
	visible int
}

// NewApp wires configuration, local storage, the Gemini client, and the
// camera into an App.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log, err := logging.New(c.LogBackend, c.LogLevel, os.Stderr)
	if err != nil {
		return nil, err
	}

	dsn, err := c.ResolveDatabasePath()
	if err != nil {
		return nil, err
	}
	db, err := storage.InitDatabase(ctx, dsn)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", dsn, "error", err)
		return nil, err
	}

	ai, err := gemini.NewClient(ctx, c.APIKey, c.Model, c.RequestTimeout, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	accounts := services.NewAccountStore(storage.NewSQLiteRepository(db), log)
	search := services.NewSearchService(ai, accounts, services.NewRecorder(accounts), log)

	var dev capture.Device
	if c.CameraURL != "" {
		dev = capture.NewHTTPDevice(c.CameraURL, c.RequestTimeout)
	}

	a := newApp(accounts, search, capture.NewCamera(dev, c.CameraFrameInterval), log,
		bufio.NewReader(os.Stdin), os.Stdout)
	a.closers = append(a.closers, db.Close)
	if z, ok := log.(*logging.ZapLogger); ok {
		a.closers = append(a.closers, z.Sync)
	}
	return a, nil
}

func newApp(accounts accountService, search searchService, cam camera, log logging.Logger,
	reader *bufio.Reader, out io.Writer) *App {
	if log == nil {
		log = logging.Nop()
	}
	return &App{
		accounts: accounts,
		search:   search,
		camera:   cam,
		log:      log,
		reader:   reader,
		out:      out,
		busyTick: time.Second,

		shutdownGrace: 2 * time.Second,
	}
}

// Run restores a saved session and runs the REPL until the user exits,
// stdin closes, or SIGINT/SIGTERM arrives. The camera is released on every
// path out.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.initSignalHandler(cancel)
	defer a.shutdown(ctx)

	fmt.Fprintln(a.out, "Welcome to Snap & Shop (type 'help' for commands)")
	a.restoreSession(ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
	}()

	select {
	case <-done:
	case <-ctx.Done():
		fmt.Fprintln(a.out, "\nInterrupted, bye!")
		// Let a running command finish before the closers run. A REPL
		// blocked on stdin never returns, hence the bound.
		select {
		case <-done:
		case <-time.After(a.shutdownGrace):
		}
	}
}

func (a *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (a *App) restoreSession(ctx context.Context) {
	acc, err := a.accounts.LoadSession(ctx)
	if err != nil {
		return
	}
	a.user = acc
	fmt.Fprintf(a.out, "Welcome back, %s\n", acc.Email)
}

func (a *App) shutdown(ctx context.Context) {
	if err := a.camera.Stop(); err != nil {
		a.log.Warn(ctx, "camera release failed", "error", err)
	}
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.log.Warn(ctx, "close failed", "error", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.user != nil
}

func (a *App) getStatus() string {
	s := ""
	if a.user != nil {
		s = a.user.Email
	}
	if a.camera.Active() {
		s += fmt.Sprintf(" [camera live, %d frames]", a.camera.Frames())
	} else if !a.preview.IsZero() {
		s += " [image ready]"
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// resetSearch clears the preview and any result, releasing the camera.
func (a *App) resetSearch(ctx context.Context) {
	a.stopCamera(ctx)
	a.preview = capture.Image{}
	a.clearResult()
}

func (a *App) clearResult() {
	a.result = nil
	a.lastErr = nil
	a.visible = 0
}

func (a *App) stopCamera(ctx context.Context) {
	if err := a.camera.Stop(); err != nil {
		a.log.Warn(ctx, "camera release failed", "error", err)
	}
}
