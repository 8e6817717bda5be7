// cmd/potential-server/main.go: HTTP validation service for potentials
//
// Configuration comes from the environment (POTENTIAL_ADDR,
// POTENTIAL_MAX_BODY_BYTES, POTENTIAL_*_TIMEOUT).
//
// Validate endpoint:  POST /validate
// Templates endpoint: GET  /templates
// Health endpoint:    GET  /health
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/njchilds90/topology/internal/server"
)

func main() {
	cfg, err := server.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	srv := server.New(cfg)

	log.Printf("potential server listening on %s", cfg.Addr)
	log.Printf("  POST /validate   validate a potential definition")
	log.Printf("  GET  /templates  built-in templates")
	log.Printf("  GET  /health     health check")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	case <-ctx.Done():
		log.Printf("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}
}
