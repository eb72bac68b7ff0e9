// Package api serves the admin HTTP surface over a plugin manager: plugin
// inventory and lifecycle operations, hook introspection and dispatch, and
// the aggregate status view. Every response uses the {data, error, meta}
// envelope.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/blackroad/roadplugin/config"
	httpmiddleware "github.com/blackroad/roadplugin/http/middleware"
	"github.com/blackroad/roadplugin/logging"
	"github.com/blackroad/roadplugin/runtime"
)

// Server wires the manager behind the admin router.
type Server struct {
	manager *runtime.Manager
	logger  logging.Logger
	cfg     config.APIConfig
	httpSrv *http.Server
}

// NewServer builds a server over the manager. The listener is configured
// but not started; call ListenAndServe.
func NewServer(manager *runtime.Manager, cfg config.APIConfig, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.Named("api")
	}

	s := &Server{
		manager: manager,
		logger:  logger,
		cfg:     cfg,
	}
	s.httpSrv = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Router builds the chi router with the shared middleware stack.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(httpmiddleware.Timing())
	r.Use(logging.HTTPMiddleware(s.logger))
	r.Use(logging.RecoveryMiddleware(s.logger))
	if s.cfg.RateLimit > 0 {
		r.Use(httpmiddleware.RateLimit(httpmiddleware.RateLimitConfig{
			Limit:  s.cfg.RateLimit,
			Window: s.cfg.RateLimitWindow,
		}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/plugins", s.listPlugins)
		r.Get("/plugins/discover", s.discoverPlugins)
		r.Post("/plugins/load-all", s.loadAll)
		r.Route("/plugins/{name}", func(r chi.Router) {
			r.Get("/", s.getPlugin)
			r.Post("/load", s.loadPlugin)
			r.Post("/enable", s.enablePlugin)
			r.Post("/disable", s.disablePlugin)
			r.Post("/unload", s.unloadPlugin)
			r.Post("/reload", s.reloadPlugin)
		})
		r.Get("/hooks", s.listHooks)
		r.Post("/hooks/{name}/execute", s.executeHook)
		r.Get("/status", s.status)
	})
	r.Method(http.MethodGet, "/metrics", s.manager.Metrics().Handler())

	return r
}

// ListenAndServe blocks serving the admin API until Shutdown or failure.
func (s *Server) ListenAndServe() error {
	s.logger.Infof("admin api listening on %s", s.httpSrv.Addr)
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
