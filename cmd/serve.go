package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/aerolane/airmesh/internal/config"
	"github.com/aerolane/airmesh/internal/engine"
	"github.com/aerolane/airmesh/internal/model"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the routing API over HTTP",
	Long: `Hydrates the engine from the inventory and serves read-only routing
queries. The graph is fixed for the lifetime of the process; restart (or
re-run load/seed first) to pick up inventory changes.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		eng, err := loadEngine(ctx)
		if err != nil {
			return err
		}

		handler := buildRouter(eng, cfg.Server)
		return startServer(ctx, handler, resolvePort(servePort, cfg.Server.Port))
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// resolvePort prefers the flag value over the configured default.
func resolvePort(flag, configured int) int {
	if flag != 0 {
		return flag
	}
	return configured
}

// buildRouter assembles the read-only routing API over a hydrated engine.
func buildRouter(eng *engine.Engine, sc config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: sc.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(rateLimit(rate.NewLimiter(rate.Limit(sc.RatePerSecond), sc.RateBurst)))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/stats", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, eng.Stats())
		})
		r.Get("/nodes/{uid}", handleNode(eng))
		r.Get("/nodes/{uid}/edges", handleNodeEdges(eng))
		r.Post("/route", handleRoute(eng))
		r.Post("/reach", handleReach(eng))
	})

	return r
}

// rateLimit rejects requests beyond the shared token bucket with 429.
func rateLimit(l *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow() {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func handleNode(eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := chi.URLParam(r, "uid")
		n, ok := eng.NodeByUID(uid)
		if !ok {
			writeError(w, http.StatusNotFound, fmt.Sprintf("node %s not found", uid))
			return
		}
		writeJSON(w, http.StatusOK, n)
	}
}

func handleNodeEdges(eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		edges, err := eng.EdgesByNode(chi.URLParam(r, "uid"))
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newEdgeViews(edges))
	}
}

type routeRequest struct {
	Source string    `json:"source"`
	Target string    `json:"target"`
	At     time.Time `json:"at,omitempty"`
}

func handleRoute(eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req routeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Source == "" || req.Target == "" {
			writeError(w, http.StatusBadRequest, "source and target are required")
			return
		}

		var opts []engine.QueryOption
		if !req.At.IsZero() {
			opts = append(opts, engine.At(req.At))
		}

		path, err := eng.ShortestPath(req.Source, req.Target, opts...)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newRouteResult(path))
	}
}

type reachRequest struct {
	Origin        string    `json:"origin"`
	Radius        float64   `json:"radius"`
	At            time.Time `json:"at,omitempty"`
	IncludeOrigin bool      `json:"include_origin,omitempty"`
}

func handleReach(eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reachRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Origin == "" {
			writeError(w, http.StatusBadRequest, "origin is required")
			return
		}

		var opts []engine.QueryOption
		if !req.At.IsZero() {
			opts = append(opts, engine.At(req.At))
		}
		if req.IncludeOrigin {
			opts = append(opts, engine.WithOrigin())
		}

		results, err := eng.NodesWithinDistance(req.Origin, req.Radius, opts...)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, results)
	}
}

// writeEngineError maps engine sentinels onto HTTP statuses.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case eris.Is(err, model.ErrNodeNotFound), eris.Is(err, model.ErrEdgeNotFound),
		eris.Is(err, model.ErrNoPathFound):
		writeError(w, http.StatusNotFound, err.Error())
	case eris.Is(err, model.ErrInvalidWeight), eris.Is(err, model.ErrInvalidSchedule):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		zap.L().Error("query failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// startServer runs the HTTP server until ctx is canceled, then shuts down
// gracefully.
func startServer(ctx context.Context, handler http.Handler, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	zap.L().Info("starting server", zap.Int("port", port))
	if err := srv.ListenAndServe(); err != nil && !eris.Is(err, http.ErrServerClosed) {
		return eris.Wrap(err, "server listen")
	}
	return nil
}
