package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"comforttech.in/ac-web/internal/catalog"
	"comforttech.in/ac-web/internal/cms"
	"comforttech.in/ac-web/internal/config"
	"comforttech.in/ac-web/internal/gate"
	handlersPkg "comforttech.in/ac-web/internal/handlers"
	"comforttech.in/ac-web/internal/lead"
	mw "comforttech.in/ac-web/internal/middleware"
	"comforttech.in/ac-web/internal/observability"
)

// server holds the dependencies shared by every handler.
type server struct {
	cfg       config.Config
	logger    *zap.Logger
	catalog   *catalog.Catalog
	content   *cms.Store
	markdown  *cms.Renderer
	linker    lead.Linker
	sessions  *mw.Sessions
	limiter   *mw.RateLimiter
	metrics   *observability.Metrics
	views     *renderer
	assets    gate.Loader
	gateOpts  []gate.Option
	now       func() time.Time
	analytics handlersPkg.Analytics

	home     *handlersPkg.HomeView
	services *handlersPkg.ServicesView
}

// serverOption customises a server, mostly for tests.
type serverOption func(*server)

func withClock(now func() time.Time) serverOption {
	return func(s *server) { s.now = now }
}

func withGateOptions(opts ...gate.Option) serverOption {
	return func(s *server) { s.gateOpts = append(s.gateOpts, opts...) }
}

func withAssetLoader(l gate.Loader) serverOption {
	return func(s *server) { s.assets = l }
}

func newServer(cfg config.Config, logger *zap.Logger, reg *prometheus.Registry, opts ...serverOption) (*server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	views := newRenderer(cfg.Paths.Templates, cfg.Dev)
	if err := views.load(); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &server{
		cfg:       cfg,
		logger:    logger,
		catalog:   catalog.Default(),
		content:   cms.NewStore(os.DirFS(cfg.Paths.Content)),
		markdown:  cms.NewRenderer(),
		linker:    lead.Linker{Number: cfg.Booking.WhatsAppNumber},
		sessions:  mw.NewSessions(cfg.Session.SigningKey, cfg.Session.Secure),
		limiter:   mw.NewRateLimiter(cfg.Booking.SubmitLimit, cfg.Booking.SubmitWindow, nil),
		metrics:   observability.NewMetrics(reg),
		views:     views,
		assets:    gate.FSLoader{FS: os.DirFS(cfg.Paths.Public)},
		now:       time.Now,
		analytics: handlersPkg.AnalyticsFrom(cfg.Analytics),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.home = handlersPkg.BuildHome(s.catalog, s.markdown, s.linker)
	s.services = handlersPkg.BuildServices(s.catalog, s.linker)
	return s, nil
}

// routes wires the router. The websocket route sits outside the timeout and
// compression middleware.
func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if s.cfg.Server.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(observability.TraceMiddleware)
	r.Use(observability.InjectLogger(s.logger))
	r.Use(observability.RequestLogger)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok")
	})
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	assets := http.StripPrefix("/assets", mw.AssetsWithCache(os.DirFS(filepath.Join(s.cfg.Paths.Public, "assets"))))
	r.Handle("/assets/*", assets)

	r.Get("/loading/ws", s.GateSocketHandler)

	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
		r.Use(chimw.Compress(5))
		r.Use(mw.HTMX)
		r.Use(s.sessions.Middleware)
		r.Use(mw.CSRF(s.cfg.Session.Secure))

		r.Get("/", s.HomeHandler)
		r.Get("/services", s.ServicesHandler)
		r.Get("/areas", s.AreasHandler)
		r.Get("/pages/{slug}", s.ContentPageHandler)

		r.Route("/booking", func(r chi.Router) {
			r.Get("/", s.BookingHandler)
			r.Post("/next", s.BookingNextHandler)
			r.Post("/back", s.BookingBackHandler)
			r.With(s.limiter.Middleware).Post("/submit", s.BookingSubmitHandler)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		mw.WriteError(w, r, http.StatusNotFound, "Page not found")
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then drains connections.
func (s *server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr(),
		Handler:           s.routes(),
		ReadHeaderTimeout: s.cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       s.cfg.Server.ReadTimeout,
		WriteTimeout:      s.cfg.Server.WriteTimeout,
		IdleTimeout:       s.cfg.Server.IdleTimeout,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("web listening",
			zap.String("addr", srv.Addr),
			zap.String("env", s.cfg.Environment),
			zap.Bool("dev", s.cfg.Dev),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}
