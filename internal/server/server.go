package server

import (
	"context"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/campusmart/campusmart/components"
	"github.com/campusmart/campusmart/internal/auth"
	"github.com/campusmart/campusmart/internal/config"
	"github.com/campusmart/campusmart/internal/crypto"
	"github.com/campusmart/campusmart/internal/middleware"
	"github.com/campusmart/campusmart/internal/pages"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	httpServer *http.Server
	handler    http.Handler
}

func New(cfg *config.Config, db *sqlx.DB, signer *crypto.HMACHasher, templatesFS, staticFS fs.FS) (*Server, error) {
	secure := cfg.Secure()

	renderer, err := components.NewRenderer(templatesFS,
		components.WithCurrentUser(auth.CurrentUsername),
		components.WithDebug(cfg.Debug),
	)
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(registry)

	authHandler := auth.NewHandler(renderer, signer, secure)
	pageHandler := pages.NewHandler(renderer)

	// app routes go through DBConn + LoadSession
	appMux := http.NewServeMux()
	handle := func(pattern, route string, h http.Handler) {
		appMux.Handle(pattern, metrics.Instrument(route, h))
	}
	handle("GET /{$}", "/", http.HandlerFunc(pageHandler.HandleIndex))
	for path, name := range pages.StaticPages {
		handle("GET "+path, path, pageHandler.Static(name))
	}
	handle("GET /profile", "/profile", middleware.RequireLogin(http.HandlerFunc(pageHandler.HandleProfile)))
	handle("GET /login", "/login", http.HandlerFunc(authHandler.HandleLoginPage))
	handle("POST /login", "/login", http.HandlerFunc(authHandler.HandleLogin))
	handle("GET /logout", "/logout", http.HandlerFunc(authHandler.HandleLogout))

	var appHandler http.Handler = appMux
	appHandler = middleware.LoadSession(signer, secure)(appHandler)
	appHandler = middleware.DBConn(db, metrics)(appHandler)

	// top-level mux: /health, /metrics and /static bypass DBConn + LoadSession
	mux := http.NewServeMux()
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.Handle("/", appHandler)

	// shared middleware: Recover → RequestID → SecurityHeaders → Logging → [Serialize] → mux
	var handler http.Handler = mux
	if !cfg.Threaded {
		handler = middleware.Serialize(handler)
	}
	handler = middleware.Logging(handler)
	handler = middleware.SecurityHeaders(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recover(handler)

	httpServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		handler:    handler,
	}, nil
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
