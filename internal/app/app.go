// Package app wires stores, services and the HTTP layer into one server.
package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/inventory/internal/config"
	"github.com/Skotchmaster/inventory/internal/events"
	"github.com/Skotchmaster/inventory/internal/httpserver"
	"github.com/Skotchmaster/inventory/internal/kv"
	"github.com/Skotchmaster/inventory/internal/metrics"
	"github.com/Skotchmaster/inventory/internal/middleware/auth"
	"github.com/Skotchmaster/inventory/internal/middleware/ratelimit"
	"github.com/Skotchmaster/inventory/internal/models"
	"github.com/Skotchmaster/inventory/internal/policy"
	"github.com/Skotchmaster/inventory/internal/repo"
	"github.com/Skotchmaster/inventory/internal/service"
	"github.com/Skotchmaster/inventory/internal/tokens"
)

// Stores holds one repository per entity. Close releases all of them.
type Stores struct {
	Products  *repo.Repository[models.Product]
	Customers *repo.Repository[models.Customer]
	Orders    *repo.Repository[models.Order]
	Users     *repo.UserRepo

	opener *kv.Opener
	closed []func() error
}

func OpenStores(ctx context.Context, opts kv.Options) (*Stores, error) {
	opener, err := kv.NewOpener(ctx, opts)
	if err != nil {
		return nil, err
	}
	s := &Stores{opener: opener}

	open := func(name string) (kv.Store, error) {
		st, err := opener.Open(name)
		if err != nil {
			return nil, err
		}
		s.closed = append(s.closed, st.Close)
		return st, nil
	}

	var st kv.Store
	if st, err = open("products"); err != nil {
		return nil, errors.Join(err, s.Close())
	}
	s.Products = repo.New[models.Product](st, "products")
	if st, err = open("customers"); err != nil {
		return nil, errors.Join(err, s.Close())
	}
	s.Customers = repo.New[models.Customer](st, "customers")
	if st, err = open("orders"); err != nil {
		return nil, errors.Join(err, s.Close())
	}
	s.Orders = repo.New[models.Order](st, "orders")
	if st, err = open("users"); err != nil {
		return nil, errors.Join(err, s.Close())
	}
	s.Users = repo.NewUserRepo(st)

	return s, nil
}

func (s *Stores) Close() error {
	var errs []error
	for _, c := range s.closed {
		errs = append(errs, c())
	}
	s.closed = nil
	errs = append(errs, s.opener.Close())
	return errors.Join(errs...)
}

// Ready probes the user store, which every authenticated request touches.
func (s *Stores) Ready(ctx context.Context) error {
	_, err := s.Users.FindByID(ctx, "readiness-probe")
	return err
}

type App struct {
	Echo   *echo.Echo
	Stores *Stores
	Users  *service.UserService

	events  events.Publisher
	limiter *ratelimit.Limiter
}

func New(cfg config.Config, logger *slog.Logger, stores *Stores) (*App, error) {
	tm, err := tokens.NewManager([]byte(cfg.JWTSecret))
	if err != nil {
		return nil, err
	}

	var pub events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		pub = events.NewProducer(cfg.KafkaBrokers)
	}

	m := metrics.New()
	limiter := ratelimit.New(cfg.LoginRatePerSec, cfg.LoginBurst)
	users := NewUserService(stores)

	e := httpserver.NewEcho(logger, m, cfg.CORSOrigins)
	httpserver.Register(e, &httpserver.Deps{
		Products:  &httpserver.ProductHTTP{Svc: service.NewProductService(stores.Products), Events: pub},
		Customers: &httpserver.CustomerHTTP{Svc: service.NewCustomerService(stores.Customers), Events: pub},
		Orders: &httpserver.OrderHTTP{
			Svc:     service.NewOrderService(stores.Orders, stores.Products, stores.Customers),
			Events:  pub,
			Metrics: m,
		},
		Auth: &httpserver.AuthHTTP{
			Svc:          users,
			Tokens:       tm,
			Events:       pub,
			Metrics:      m,
			SecureCookie: cfg.CookieSecure,
		},
		AuthMW:       auth.New(tm, policy.Default(), cfg.CookieSecure),
		LoginLimiter: limiter,
		Metrics:      m,
		StaticDir:    cfg.StaticDir,
		Ready:        func() error { return stores.Ready(context.Background()) },
	})

	return &App{Echo: e, Stores: stores, Users: users, events: pub, limiter: limiter}, nil
}

// Start runs background housekeeping until ctx is done.
func (a *App) Start(ctx context.Context) {
	a.limiter.StartCleanup(ctx, time.Minute)
}

// Close flushes events and closes the stores.
func (a *App) Close() error {
	return errors.Join(a.events.Close(), a.Stores.Close())
}

func NewUserService(s *Stores) *service.UserService {
	return service.NewUserService(s.Users)
}
