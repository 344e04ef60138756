// Package server provides the local preview HTTP server: the generated site,
// a health endpoint, and Prometheus metrics.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// Options configures the preview server.
type Options struct {
	Addr     string
	SiteDir  string
	Registry *prom.Registry
}

// Server serves the generated site for local preview.
type Server struct {
	http *http.Server
	opts Options
}

// New constructs the preview server.
func New(opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(opts.SiteDir)))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.Registry != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))
	}

	return &Server{
		http: &http.Server{
			Addr:              opts.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		opts: opts,
	}
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Preview server listening",
			slog.String("addr", s.opts.Addr),
			logfields.Path(s.opts.SiteDir))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}
