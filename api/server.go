package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/sprintertech/sprinter-bridge/api/handlers"
)

func Serve(
	ctx context.Context,
	addr string,
	transferHandler *handlers.TransferHandler,
	signatureHandler *handlers.SignatureHandler,
	stateHandler *handlers.StateHandler,
) {
	r := mux.NewRouter()
	r.Use(logRequests)
	r.HandleFunc("/v1/transfers", transferHandler.HandleInitiate).Methods("POST")
	r.HandleFunc("/v1/transfers", transferHandler.HandleList).Methods("GET")
	r.HandleFunc("/v1/transfers/{id}", transferHandler.HandleGet).Methods("GET")
	r.HandleFunc("/v1/transfers/{id}/signatures", signatureHandler.HandleRequest).Methods("GET")
	r.HandleFunc("/v1/state", stateHandler.HandleRequest).Methods("GET")

	server := &http.Server{
		Addr:        addr,
		Handler:     r,
		ReadTimeout: time.Second * 10,
	}
	go func() {
		log.Info().Msgf("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := server.Shutdown(shutdownCtx)
	if err != nil {
		log.Err(err).Msgf("Error shutting down server")
	} else {
		log.Info().Msgf("Server shut down gracefully.")
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush keeps the signature stream working behind the recorder
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("Handled request")
	})
}
