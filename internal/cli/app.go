// Package cli is the pennywise command line client. Each command drives the same headless pages
// a graphical client would.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/pennywise/pennywise/internal/config"
	"github.com/pennywise/pennywise/internal/utils"
	"github.com/pennywise/pennywise/pkg/client"
	"github.com/pennywise/pennywise/pkg/session"
	log "github.com/sirupsen/logrus"
)

// App holds what the commands share: configuration, the session and the API client.
type App struct {
	prompter *Prompter
	out      io.Writer
	clock    utils.Clock
	cfg      *config.Client
	store    session.TokenStore

	base    *client.Client
	session *session.Session
	api     *client.Client
}

type Option func(*App)

// WithConfig skips loading the configuration from file and environment.
func WithConfig(cfg config.Client) Option {
	return func(a *App) {
		a.cfg = &cfg
	}
}

func WithTokenStore(store session.TokenStore) Option {
	return func(a *App) {
		a.store = store
	}
}

func WithClock(clock utils.Clock) Option {
	return func(a *App) {
		a.clock = clock
	}
}

func NewApp(in io.Reader, out io.Writer, opts ...Option) *App {
	a := &App{
		prompter: NewPrompter(in, out),
		out:      out,
		clock:    &utils.SystemClock{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Execute runs the command line given in args.
func (a *App) Execute(ctx context.Context, args []string) error {
	root := NewRootCommand(a)
	root.SetArgs(args)
	root.SetIn(a.prompter.reader)
	root.SetOut(a.out)
	root.SetErr(a.out)
	return root.ExecuteContext(ctx)
}

// connect loads the configuration and restores the session. It runs once per App.
func (a *App) connect(configPath string) error {
	if a.session != nil {
		return nil
	}
	if a.cfg == nil {
		cfg, err := config.LoadClient(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		a.cfg = &cfg
	}
	if a.store == nil {
		a.store = session.NewFileTokenStore(a.cfg.Session.TokenFile)
	}

	a.base = client.NewFromConfig(a.cfg.Api)
	a.session = session.New(a.base, a.store)
	if err := a.session.Init(); err != nil {
		log.Warnf("Ignoring stored session: %v", err)
	}
	a.api = a.base.Authenticated(a.session)
	log.Debugf("Using API at %s as %s", a.cfg.Api.Url, a.session.State())
	return nil
}

// authenticated returns the API client of a logged in session.
func (a *App) authenticated() (*client.Client, error) {
	if a.session.State() != session.Authenticated {
		return nil, fmt.Errorf("%w: run 'pennywise login' first", session.ErrNotAuthenticated)
	}
	return a.api, nil
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
