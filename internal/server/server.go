// Package server implements the phylosim HTTP API.
//
// The API mirrors the CLI pipeline: POST /api/simulate runs a simulation and
// persists it to the history store; the remaining endpoints read back a
// session's past runs. Each browser session owns its history via a session
// cookie - there is no cross-session shared state.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/evoviz/phylosim/pkg/cache"
	"github.com/evoviz/phylosim/pkg/config"
	"github.com/evoviz/phylosim/pkg/history"
	"github.com/evoviz/phylosim/pkg/pipeline"
)

// Server wires the pipeline runner and history store behind a chi router.
type Server struct {
	runner *pipeline.Runner
	store  history.Store
	logger *log.Logger
	addr   string
}

// New assembles a server from configuration.
//
// Backends degrade gracefully for local use: without a Redis address the
// artifact cache is in-process only (null cache), and without a Mongo URI
// history lives in memory for the lifetime of the process.
func New(ctx context.Context, cfg config.Server, logger *log.Logger) (*Server, error) {
	var c cache.Cache
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		c = rc
		logger.Info("artifact cache: redis", "addr", cfg.Redis.Addr)
	} else {
		c = cache.NewNullCache()
		logger.Debug("artifact cache: disabled (no redis configured)")
	}

	var store history.Store
	if cfg.Mongo.URI != "" {
		ms, err := history.NewMongoStore(ctx, history.MongoConfig{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		store = ms
		logger.Info("history store: mongo", "uri", cfg.Mongo.URI)
	} else {
		store = history.NewMemoryStore()
		logger.Debug("history store: in-memory (no mongo configured)")
	}

	addr := cfg.Addr
	if addr == "" {
		addr = ":8080"
	}

	return &Server{
		runner: pipeline.NewRunner(c, logger),
		store:  store,
		logger: logger,
		addr:   addr,
	}, nil
}

// Router builds the HTTP handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.withSession)
		r.Post("/simulate", s.handleSimulate)
		r.Get("/simulations", s.handleList)
		r.Get("/simulations/{id}", s.handleGet)
		r.Get("/simulations/{id}/stats", s.handleStats)
		r.Get("/simulations/{id}/artifacts/{format}", s.handleArtifact)
	})

	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return s.Close()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		closeErr := s.Close()
		if err != nil {
			return err
		}
		return closeErr
	}
}

// Close releases the server's backend resources.
func (s *Server) Close() error {
	err := s.runner.Close()
	if storeErr := s.store.Close(); err == nil {
		err = storeErr
	}
	return err
}
