package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rpattn/bookmarks/internal/collection"
	"github.com/rpattn/bookmarks/internal/export"
	"github.com/rpattn/bookmarks/internal/ingestion"
	"github.com/rpattn/bookmarks/internal/middleware"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		return a.serve(ctx)
	},
}

func (a *app) routes() http.Handler {
	metrics := middleware.NewMetrics()
	mux := http.NewServeMux()

	routeSets := []map[string]http.Handler{
		collection.NewHTTPHandler(a.collection, metrics, a.logger).Routes(),
		ingestion.NewHTTPHandler(a.ingestion).Routes(),
		export.NewHTTPHandler(a.collection, a.logger).Routes(),
	}
	for _, routes := range routeSets {
		for pattern, handler := range routes {
			mux.Handle(pattern, metrics.Instrument(pattern, handler))
		}
	}
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /healthz", a.handleHealth)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   a.cfg.Server.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
	})

	return corsHandler.Handler(
		middleware.LoggingMiddleware(a.logger)(
			middleware.DataLoaderMiddleware(a.repo)(mux),
		),
	)
}

func (a *app) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := `{"status":"ok"}`
	if a.conn != nil {
		if err := a.conn.Pool.Ping(r.Context()); err != nil {
			status = http.StatusServiceUnavailable
			body = `{"status":"database unavailable"}`
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = fmt.Fprintln(w, body)
}

func (a *app) serve(ctx context.Context) error {
	server := &http.Server{
		Addr:         a.cfg.Server.Addr,
		Handler:      a.routes(),
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  a.cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	a.logger.Info("server exited")
	return nil
}
