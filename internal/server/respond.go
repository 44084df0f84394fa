package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jinftw64/dicomweb-pacs/internal/audit"
	"github.com/jinftw64/dicomweb-pacs/internal/logging"
	"github.com/jinftw64/dicomweb-pacs/internal/metrics"
	"github.com/jinftw64/dicomweb-pacs/internal/records"
)

const dicomJSONContentType = "application/dicom+json"

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// writeDicomJSON emits a search result. A nil slice still marshals as an
// empty array so clients always receive a JSON list.
func (s *Server) writeDicomJSON(w http.ResponseWriter, recs []records.Record) {
	if recs == nil {
		recs = []records.Record{}
	}
	w.Header().Set("Content-Type", dicomJSONContentType)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(recs); err != nil {
		s.logger.Error("failed to encode search result", logging.Error(err))
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

// instrument wraps the mux with request logging and metrics.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		requestID := uuid.NewString()

		next.ServeHTTP(recorder, r)

		route := r.Pattern
		if route == "" {
			route = r.URL.Path
		}
		metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		s.logger.Debug("request handled",
			logging.String("request_id", requestID),
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", recorder.status),
			logging.Duration("elapsed", time.Since(start)))
	})
}

// recordAudit persists an event on a best-effort basis.
func (s *Server) recordAudit(ctx context.Context, evt audit.Event) {
	if s.auditStore == nil {
		return
	}
	if err := s.auditStore.Record(ctx, evt); err != nil {
		s.logger.Warn("failed to record audit event",
			logging.String("kind", evt.Kind),
			logging.Error(err))
	}
}
