// Package server exposes validation over HTTP.
//
// Routes:
//
//	GET  /                         form
//	POST /                         validates the uploaded file; renders the result inline
//	GET  /healthz                  liveness
//	POST /api/v1/validate          raw CSV body or multipart "file"; returns the JSON report
//	POST /api/v1/diff              {"existing":[...],"new":[...]} -> schema diff
//	GET  /api/v1/snapshots/{name}  deployed columns of a watchlist
package server

import (
	"context"
	_ "embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"wlcheck/internal/batch"
)

// Config controls server startup.
type Config struct {
	Addr string
	// MaxBodyBytes caps request bodies; 0 disables the cap (the engine's
	// input limit still applies).
	MaxBodyBytes int64
}

// Server is the HTTP front end of the validation engine.
type Server struct {
	cfg    Config
	deps   batch.Deps
	log    *zap.Logger
	router *chi.Mux
	tmpl   *template.Template
}

//go:embed index.tmpl.html
var indexHTML string

// New wires routes and middleware. deps supplies the engine options,
// snapshot store and logger used for every request.
func New(cfg Config, deps batch.Deps) *Server {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
		deps.Logger = log
	}
	s := &Server{
		cfg:    cfg,
		deps:   deps,
		log:    log,
		router: chi.NewRouter(),
		tmpl:   template.Must(template.New("index").Parse(indexHTML)),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.log))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Post("/", s.handleForm)
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/validate", s.handleValidate)
		r.Post("/diff", s.handleDiff)
		r.Get("/snapshots/{name}", s.handleSnapshot)
	})
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", s.cfg.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// requestLogger logs one line per request with zap.
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
