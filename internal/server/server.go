// Package server exposes potential validation over HTTP.
//
// Endpoints:
//
//	POST /validate   build a definition entry and report the outcome
//	GET  /templates  summaries of the built-in templates
//	GET  /health     liveness check
package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/njchilds90/topology"
	"github.com/njchilds90/topology/internal/definition"
	"github.com/njchilds90/topology/internal/report"
)

type Config struct {
	Addr              string        `env:"POTENTIAL_ADDR" envDefault:":8080"`
	MaxBodyBytes      int64         `env:"POTENTIAL_MAX_BODY_BYTES" envDefault:"1048576"`
	ReadHeaderTimeout time.Duration `env:"POTENTIAL_READ_HEADER_TIMEOUT" envDefault:"5s"`
	ReadTimeout       time.Duration `env:"POTENTIAL_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout      time.Duration `env:"POTENTIAL_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout       time.Duration `env:"POTENTIAL_IDLE_TIMEOUT" envDefault:"60s"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func New(cfg Config) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewHandler(cfg),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

func NewHandler(cfg Config) http.Handler {
	mux := http.NewServeMux()

	// POST /validate: build one entry; validation failures are reported
	// in the body with status 200
	mux.HandleFunc("/validate", recovered("/validate", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxBodyBytes)
		defer r.Body.Close()

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var entry definition.Entry
		if err := dec.Decode(&entry); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		// Ensure there's no trailing junk.
		if dec.More() {
			writeError(w, http.StatusBadRequest, "invalid JSON: trailing data")
			return
		}

		writeJSON(w, http.StatusOK, report.FromResult(entry.Build()))
	}))

	// GET /templates: one summary per built-in template
	mux.HandleFunc("/templates", recovered("/templates", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		names := topology.TemplateNames()
		out := make([]report.Summary, 0, len(names))
		for _, name := range names {
			p, diags, err := topology.Template(name)
			s := report.Summarize(p)
			s.Name = name
			s.Diagnostics = diags
			if err != nil {
				s.Error = err.Error()
			}
			out = append(out, s)
		}
		writeJSON(w, http.StatusOK, out)
	}))

	// GET /health: liveness check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	return mux
}

func recovered(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic in %s: %v\n%s", route, rec, string(debug.Stack()))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
