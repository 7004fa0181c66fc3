// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package health

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sprintertech/sprinter-bridge/events"
)

type HealthSource interface {
	Health() events.HealthSnapshot
}

// HealthHandler returns the coordinator health snapshot. The response is
// 503 while the coordinator is stopped.
func HealthHandler(source HealthSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := source.Health()

		w.Header().Set("Content-Type", "application/json")
		if !snapshot.Running {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		_ = json.NewEncoder(w).Encode(snapshot)
	}
}

// StartHealthEndpoint starts /health endpoint on provided port
func StartHealthEndpoint(port uint16, source HealthSource) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", HealthHandler(source))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       30 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	log.Info().Msgf("Starting /health endpoint on port %d", port)
	err := srv.ListenAndServe()
	if err != nil {
		log.Err(err).Msgf("Failed starting health server")
		return
	}
}
