package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/entrust/internal/card"
	"github.com/dmitrijs2005/entrust/internal/client/client"
	"github.com/dmitrijs2005/entrust/internal/client/config"
	"github.com/dmitrijs2005/entrust/internal/client/notice"
	"github.com/dmitrijs2005/entrust/internal/client/router"
	"github.com/dmitrijs2005/entrust/internal/client/services"
	"github.com/dmitrijs2005/entrust/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type pinger interface {
	Ping(ctx context.Context) error
	Close() error
}

type App struct {
	config       *config.Config
	logger       logging.Logger
	api          client.Client
	health       pinger
	renderer     *card.Renderer
	store        *services.MemberStore
	session      *services.Session
	dashboard    *services.Dashboard
	conversation *services.Conversation
	view         router.View
	Mode         Mode
	reader       *bufio.Reader
	out          io.Writer
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	renderer, err := card.NewRenderer()
	if err != nil {
		return nil, err
	}

	health, err := client.NewHealthChecker(c.HealthAddr)
	if err != nil {
		return nil, err
	}

	api := client.NewHTTPClient(c.ServerURL, nil)
	return newApp(c, logger, api, health, renderer, bufio.NewReader(os.Stdin), os.Stdout), nil
}

func newApp(c *config.Config, logger logging.Logger, api client.Client, health pinger, renderer *card.Renderer, in *bufio.Reader, out io.Writer) *App {
	store := services.NewMemberStore(api, logger)
	session := services.NewSession(api, logger)
	return &App{
		config:       c,
		logger:       logger,
		api:          api,
		health:       health,
		renderer:     renderer,
		store:        store,
		session:      session,
		dashboard:    services.NewDashboard(session, store, renderer, api, c.DownloadDir, logger),
		conversation: services.NewConversation(api, logger),
		view:         router.Home,
		reader:       in,
		out:          out,
	}
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		a.logger.Info(context.Background(), fmt.Sprintf("Switched to %s mode", mode))
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.SignedIn()
}

func (a *App) notify(n notice.Notice) {
	fmt.Fprintln(a.out, n.String())
}

func (a *App) getStatus() string {
	s := a.view.String()
	if m := a.session.Current(); m != nil {
		s = m.ID + " " + s
	}
	if a.Mode != "" {
		s = s + " " + string(a.Mode)
	}
	return fmt.Sprintf("(%s)", s)
}

// Run starts the connectivity watcher and blocks in the REPL.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer func() {
		if a.health != nil {
			_ = a.health.Close()
		}
	}()

	fmt.Fprintln(a.out, "Welcome to City of Truth Ministries (type 'help' for commands)")

	if a.health != nil {
		go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.health.Ping(pctx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
