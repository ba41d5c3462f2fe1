package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dmitrijs2005/areaportal/internal/client/client"
	"github.com/dmitrijs2005/areaportal/internal/client/config"
	"github.com/dmitrijs2005/areaportal/internal/client/favorites"
	"github.com/dmitrijs2005/areaportal/internal/client/navigation"
	"github.com/dmitrijs2005/areaportal/internal/client/services"
	"github.com/dmitrijs2005/areaportal/internal/client/session"
	"github.com/dmitrijs2005/areaportal/internal/client/tokenstore"
	"github.com/dmitrijs2005/areaportal/internal/common"
	"github.com/dmitrijs2005/areaportal/internal/logging"
)

type App struct {
	config *config.Config
	log    logging.Logger
	db     *sql.DB

	store          *tokenstore.Store
	api            client.Client
	authService    services.AuthService
	accountService services.AccountService
	catalogService services.CatalogService
	session        *session.Manager
	router         *navigation.Router
	favorites      *favorites.Store

	reader *bufio.Reader
	out    io.Writer

	unsubscribe func()
}

// NewApp opens the local database and builds the API client and every
// component on top of them.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	store := tokenstore.New(db, tokenstore.WithLogger(log))

	opts := []client.Option{client.WithTimeout(c.RequestTimeout), client.WithRetryMax(c.RetryMax)}
	if sl, ok := log.(interface{ Slog() *slog.Logger }); ok {
		opts = append(opts, client.WithLogger(sl.Slog()))
	}
	api, err := client.NewHTTPClient(c.APIBaseURL, store, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return newApp(c, log, db, store, api, bufio.NewReader(os.Stdin), os.Stdout), nil
}

func newApp(c *config.Config, log logging.Logger, db *sql.DB, store *tokenstore.Store, api client.Client, reader *bufio.Reader, out io.Writer) *App {
	router := navigation.NewRouter(c.LoginPath, 0)
	auth := services.NewAuthService(api)

	a := &App{
		config:         c,
		log:            log,
		db:             db,
		store:          store,
		api:            api,
		authService:    auth,
		accountService: services.NewAccountService(api),
		catalogService: services.NewCatalogService(api),
		session:        session.New(auth, store, router, log, session.Paths{Home: c.HomePath, Login: c.LoginPath}),
		router:         router,
		favorites:      favorites.New(store, favorites.WithLogger(log)),
		reader:         reader,
		out:            out,
	}
	a.unsubscribe = store.Subscribe(a.onStorageEvent)
	return a
}

// onStorageEvent tells the user when another client process ended the
// session, by removing the token or replacing it with another one.
func (a *App) onStorageEvent(e tokenstore.Event) {
	if !e.External || e.Key != common.TokenKey {
		return
	}
	if e.Deleted || (e.Old != "" && e.Old != e.New) {
		fmt.Fprintln(a.out, "\nYou were logged out from another window.")
	}
}

// Run resolves the stored session in the background, watches storage and
// blocks in the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close(context.Background())
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.StartStorageWatcher(ctx, a.config.StorageWatchInterval)
	go a.session.LoadSession(ctx)

	a.Root(ctx)
}

// StartStorageWatcher polls storage for changes from other processes until
// ctx is done.
func (a *App) StartStorageWatcher(ctx context.Context, interval time.Duration) {
	if err := a.store.Watch(ctx, interval); err != nil {
		a.log.Error(ctx, "storage watcher stopped", "error", err)
	}
}

// Close releases the session manager, the API client and the database.
func (a *App) Close(ctx context.Context) {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	a.session.Close()
	if err := a.authService.Close(ctx); err != nil {
		a.log.Warn(ctx, "failed to close api client", "error", err)
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn(ctx, "failed to close database", "error", err)
		}
	}
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	return a.session.Authenticated(ctx)
}

func (a *App) isAdmin(ctx context.Context) bool {
	s := a.session.Snapshot(ctx)
	return s.Authenticated && s.User.IsAdmin()
}
