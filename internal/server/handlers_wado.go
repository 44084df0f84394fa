package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jinftw64/dicomweb-pacs/internal/audit"
	"github.com/jinftw64/dicomweb-pacs/internal/logging"
	"github.com/jinftw64/dicomweb-pacs/internal/pathsafe"
	"github.com/jinftw64/dicomweb-pacs/internal/services"
)

func (s *Server) handleWadoURI(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	study := params.Get("studyUID")
	series := params.Get("seriesUID")
	object := params.Get("objectUID")
	if study == "" || series == "" || object == "" {
		s.writeError(w, http.StatusBadRequest, msgMissingParams)
		return
	}
	if !pathsafe.ValidUIDs(study, series, object) {
		s.writeError(w, http.StatusBadRequest, msgInvalidUID)
		return
	}

	objectPath, err := pathsafe.Resolve(s.cfg.Paths.StorageRoot, study, object+".dcm")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, msgInvalidPath)
		return
	}
	if _, err := os.Stat(objectPath); err != nil {
		s.writeError(w, http.StatusNotFound, msgFileNotFound)
		return
	}

	start := time.Now()
	cachedPath, hit, err := s.cache.GetOrTranscode(r.Context(), objectPath, filepath.Dir(objectPath), s.cfg.Cache.TransferSyntax)
	s.recordAudit(r.Context(), audit.Event{
		Kind:           audit.KindTranscode,
		StudyUID:       study,
		SeriesUID:      series,
		ObjectUID:      object,
		TransferSyntax: s.cfg.Cache.TransferSyntax,
		CacheHit:       hit,
		DurationMS:     time.Since(start).Milliseconds(),
		Outcome:        outcomeOf(err),
	})
	if err != nil {
		s.logger.Error("transcode failed",
			logging.String("object", objectPath),
			logging.Error(err))
		s.writeError(w, services.HTTPStatus(err), services.ClientMessage(err, msgTranscodeFailed))
		return
	}

	payload, err := os.ReadFile(cachedPath)
	if err != nil {
		s.logger.Error("failed to read cached object",
			logging.String("object", cachedPath),
			logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, msgReadFailure)
		return
	}

	// Historical clients expect this content type on the raw object bytes.
	w.Header().Set("Content-Type", dicomJSONContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload); err != nil {
		s.logger.Warn("object stream interrupted", logging.Error(err))
		return
	}

	s.recordAudit(r.Context(), audit.Event{
		Kind:      audit.KindRetrieve,
		StudyUID:  study,
		SeriesUID: series,
		ObjectUID: object,
		CacheHit:  hit,
		Outcome:   "ok",
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.status())
}

const defaultAuditLimit = 50

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	limit := defaultAuditLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	events, err := s.auditStore.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to load audit events", logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to load audit events")
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	s.writeJSON(w, http.StatusOK, events)
}
