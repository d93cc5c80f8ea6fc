// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package health

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// Status is the last propose/validate cycle's outcome, reported at /status.
type Status struct {
	LastCycleAt time.Time `json:"lastCycleAt"`
	LastCycle   string    `json:"lastCycle"`
	LastError   string    `json:"lastError,omitempty"`
}

// Reporter is a concurrency-safe holder for the most recently observed
// cycle status, updated by the CLI's run loop and read by the /status
// endpoint.
type Reporter struct {
	mu     sync.RWMutex
	status Status
}

func NewReporter() *Reporter {
	return &Reporter{}
}

func (r *Reporter) ReportCycle(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.status = Status{LastCycleAt: time.Now(), LastCycle: name}
	if err != nil {
		r.status.LastError = err.Error()
	}
}

func (r *Reporter) Status() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

// StartHealthEndpoint starts the /health and /status endpoints on the
// given port. /health always returns ok; /status reports the outcome of
// the most recent cycle.
func StartHealthEndpoint(port uint16, reporter *Reporter) {
	router := mux.NewRouter()
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(reporter.Status())
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       30 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	log.Info().Msgf("starting health endpoint on port %d", port)
	if err := srv.ListenAndServe(); err != nil {
		log.Err(err).Msg("failed starting health server")
	}
}
