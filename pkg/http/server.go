package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/http/pprof"
	"time"
)

const shutdownTimeout = 5 * time.Second

// NewDebugMux returns a mux serving pprof under /debug/pprof/ and the
// metrics endpoints of source.
func NewDebugMux(source MetricsSource) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	NewMetricsHandler(source).RegisterRoutes(mux)
	return mux
}

// Serve runs the debug server on addr until ctx is done.
func Serve(ctx context.Context, addr string, source MetricsSource) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("debug server: %w", err)
	}
	return ServeListener(ctx, ln, source)
}

// ServeListener is Serve on an existing listener.
func ServeListener(ctx context.Context, ln net.Listener, source MetricsSource) error {
	srv := &http.Server{
		Handler:           NewDebugMux(source),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("Debug server listening on", "addr", ln.Addr().String())
	slog.Info("- /debug/pprof/      (profiling index)")
	slog.Info("- /metrics           (connector counters)")
	slog.Info("- /metrics/prometheus")

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("debug server: %w", err)
	}
	return nil
}
