// Package api exposes the adapters and workflows as JSON endpoints.
package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"matchdata-scraper/internal/logging"
)

func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(h.recoverPanic, h.requestLogging)

	r.HandleFunc("/match", h.GetMatch).Methods("GET")
	r.HandleFunc("/match/{id}", h.GetMatchByID).Methods("GET")
	r.HandleFunc("/shotmap", h.GetShotmap).Methods("GET")
	r.HandleFunc("/shots", h.GetShots).Methods("GET")
	r.HandleFunc("/player", h.GetPlayer).Methods("GET")
	r.HandleFunc("/team/recent", h.GetRecent).Methods("GET")
	r.HandleFunc("/compare", h.GetCompare).Methods("GET")
	r.HandleFunc("/", docsHandler).Methods("GET")
	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func (h *Handler) requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		logger := h.logger.With("method", r.Method, "path", r.URL.Path)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r.WithContext(logging.WithContext(r.Context(), logger)))

		logger.Info("http request",
			"status", rec.status,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(started).Milliseconds(),
		)
	})
}

func (h *Handler) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				h.logger.Error("panic recovered", "panic", rec, "path", r.URL.Path)
				writeJSON(w, http.StatusInternalServerError, responseEnvelope{
					APIVersion: apiVersion,
					Error: &errorBody{
						Code:    http.StatusInternalServerError,
						Message: "internal server error",
						Status:  "INTERNAL",
					},
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
