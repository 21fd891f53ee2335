package cli

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dooddles07/cyaadnu-frontend/api"
	"github.com/dooddles07/cyaadnu-frontend/controllers"
	"github.com/dooddles07/cyaadnu-frontend/database"
	"github.com/dooddles07/cyaadnu-frontend/guards"
	"github.com/dooddles07/cyaadnu-frontend/rabbitmq"
	"github.com/dooddles07/cyaadnu-frontend/store"
	"github.com/dooddles07/cyaadnu-frontend/views"
)

var (
	errSignInRequired = errors.New("please login first (storefront login)")
	errAdminRequired  = errors.New("this page is for administrators only")
)

// session is one run of the client: restored token, store and pages.
type session struct {
	db      *sql.DB
	store   *store.Store
	pages   *controllers.Pages
	bus     *rabbitmq.RabbitMQ
	metrics *http.Server
}

func openSession(ctx context.Context) (*session, error) {
	db, err := database.InitDB(ctx, cfg.StorageDriver, cfg.StorageDSN)
	if err != nil {
		return nil, err
	}
	kv, err := database.NewKV(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}

	client, err := api.New(cfg.APIBaseURL, api.WithLogger(logger), api.WithTimeout(cfg.HTTPTimeout))
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &session{db: db}
	opts := []store.Option{store.WithLogger(logger), store.WithTokenKey(cfg.TokenKey)}
	if cfg.EventsEnabled() {
		bus, err := rabbitmq.NewRabbitMQ(cfg, logger)
		if err != nil {
			// events are optional; the storefront works without them
			logger.Warn("order events disabled", zap.Error(err))
		} else {
			s.bus = bus
			opts = append(opts, store.WithNotifier(bus))
		}
	}

	s.store = store.New(client, kv, opts...)
	s.pages = controllers.New(s.store, logger)
	s.serveMetrics()

	if err := s.store.Init(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *session) serveMetrics() {
	if cfg.MetricsAddr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	s.metrics = &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := s.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server", zap.Error(err))
		}
	}()
}

func (s *session) Close() {
	if s.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.metrics.Shutdown(ctx)
	}
	if s.bus != nil {
		s.bus.Close()
	}
	if err := s.db.Close(); err != nil {
		logger.Debug("close storage", zap.Error(err))
	}
}

// enter applies the route guard. The session is already confirmed, so the
// decision is never Wait.
func (s *session) enter(route string) error {
	d := guards.Resolve(route, s.store.Auth.State())
	if d.Outcome != guards.Redirect {
		return nil
	}
	if guards.AccessFor(route) == guards.Admin && s.store.Auth.State().Authenticated {
		return errAdminRequired
	}
	return errSignInRequired
}

// withSession opens a session, guards route and runs fn.
func withSession(ctx context.Context, route string, fn func(*session) error) error {
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.enter(route); err != nil {
		return err
	}
	return fn(s)
}

// report prints a page result and turns a failure into the command error.
func report(cmd *cobra.Command, res controllers.Result) error {
	if res.Err != nil {
		if res.Toast != nil {
			return errors.New(res.Toast.Text)
		}
		return res.Err
	}
	if res.Toast != nil {
		cmd.Println(views.ToastView(res.Toast))
	}
	return nil
}
