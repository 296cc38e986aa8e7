// Package health exposes liveness and current-state endpoints for the
// collector process.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/akulov/oddsgrid/internal/pkg/store"
)

// Run starts the health server in the background and shuts it down when ctx
// is canceled. The store is read-only here; /matches serializes a consistent
// export of it.
func Run(ctx context.Context, addr string, service string, st *store.MatchStore, readHeaderTimeout time.Duration) {
	if readHeaderTimeout <= 0 {
		readHeaderTimeout = 5 * time.Second
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ping", handlePing)
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/matches", handleMatches(st))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	go func() {
		slog.Info("Health server listening", "service", service, "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Health server error", "service", service, "error", err)
		}
	}()
}

// AddrFor builds the listen address for a port.
func AddrFor(port int) string {
	return fmt.Sprintf(":%d", port)
}

func handlePing(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("pong\n"))
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func handleMatches(st *store.MatchStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches := st.Export()
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if err := json.NewEncoder(w).Encode(map[string]any{
			"count":   len(matches),
			"cycle":   st.Cycle(),
			"matches": matches,
		}); err != nil {
			slog.Error("Failed to encode matches", "error", err)
		}
	}
}
