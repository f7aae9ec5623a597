package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	carthandler "retailpos/internal/handlers/cart"
	cataloghandler "retailpos/internal/handlers/catalog"
	ledgerhandler "retailpos/internal/handlers/ledger"
	sessionhandler "retailpos/internal/handlers/session"
	"retailpos/internal/routes"
	authservice "retailpos/internal/service/auth"
	cartservice "retailpos/internal/service/cart"
	catalogservice "retailpos/internal/service/catalog"
	ledgerservice "retailpos/internal/service/ledger"
	"retailpos/internal/session"
	"retailpos/pkg/lib/logger/sl"
)

// Gateway is everything the till asks of the retail API.
type Gateway interface {
	authservice.Authenticator
	catalogservice.ProductGateway
	cartservice.OrderGateway
	ledgerservice.OrderGateway
}

type App struct {
	log     *slog.Logger
	server  *http.Server
	store   authservice.SessionStore
	catalog *catalogservice.CatalogService
}

func New(log *slog.Logger, address string, gateway Gateway, store authservice.SessionStore) *App {
	catalogService := catalogservice.New(log, gateway)
	cartService := cartservice.New(log, gateway, store)
	ledgerService := ledgerservice.New(log, gateway, store)
	authService := authservice.New(log, gateway, store)

	authService.OnLogin(func(ctx context.Context, sess session.Session) {
		if _, err := catalogService.Refresh(ctx); err != nil {
			log.Warn("Catalog not loaded after login", slog.String("user", sess.UserName()), sl.Err(err))
		}
	})
	authService.OnLogout(func() {
		cartService.Reset()
		ledgerService.Reset()
	})

	mux := http.NewServeMux()
	routes.New(
		store,
		sessionhandler.New(log, authService),
		cataloghandler.New(log, catalogService),
		carthandler.New(log, cartService, catalogService),
		ledgerhandler.New(log, ledgerService),
	).Register(mux)

	return &App{
		log:     log,
		store:   store,
		catalog: catalogService,
		server: &http.Server{
			Addr:    address,
			Handler: mux,
		},
	}
}

func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Warm loads the catalog when the till starts with a restored login.
func (a *App) Warm(ctx context.Context) {
	const op = "app.Warm"

	if !a.store.Current().Authenticated() {
		return
	}
	if _, err := a.catalog.Refresh(ctx); err != nil {
		a.log.With("op", op).Warn("Catalog not loaded for restored session", sl.Err(err))
	}
}

func (a *App) MustRun() {
	if err := a.Run(); err != nil {
		panic(err)
	}
}

func (a *App) Run() error {
	const op = "app.Run"

	a.log.Info("Till listening", slog.String("address", a.server.Addr))

	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (a *App) Stop(ctx context.Context) error {
	const op = "app.Stop"

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
