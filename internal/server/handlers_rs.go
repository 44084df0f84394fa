package server

import (
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/jinftw64/dicomweb-pacs/internal/audit"
	"github.com/jinftw64/dicomweb-pacs/internal/dicom/tags"
	"github.com/jinftw64/dicomweb-pacs/internal/frames"
	"github.com/jinftw64/dicomweb-pacs/internal/logging"
	"github.com/jinftw64/dicomweb-pacs/internal/pathsafe"
	"github.com/jinftw64/dicomweb-pacs/internal/query"
	"github.com/jinftw64/dicomweb-pacs/internal/records"
	"github.com/jinftw64/dicomweb-pacs/internal/services"
)

// Client-facing messages. Fixed strings; internal detail stays in the logs.
const (
	msgInvalidUID    = "Invalid UID format"
	msgInvalidPath   = "Invalid path"
	msgFileNotFound  = "File not found"
	msgMissingParams   = "missing parameters"
	msgReadFailure     = "failed to read object"
	msgTranscodeFailed = "failed to transcode object"
)

func (s *Server) handleStudies(w http.ResponseWriter, r *http.Request) {
	recs := s.runFind(r, query.LevelStudy, r.URL.Query(), tags.StudySet())
	s.writeDicomJSON(w, recs)
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	study := r.PathValue("study")
	if !pathsafe.ValidUID(study) {
		s.writeError(w, http.StatusBadRequest, msgInvalidUID)
		return
	}
	params := r.URL.Query()
	params.Set("StudyInstanceUID", study)

	recs := s.runFind(r, query.LevelSeries, params, tags.SeriesSet())
	s.writeDicomJSON(w, recs)
}

func (s *Server) handleStudyMetadata(w http.ResponseWriter, r *http.Request) {
	study := r.PathValue("study")
	if !pathsafe.ValidUID(study) {
		s.writeError(w, http.StatusBadRequest, msgInvalidUID)
		return
	}
	params := r.URL.Query()
	params.Set("StudyInstanceUID", study)

	returnKeys := append(tags.StudySet(), tags.SeriesSet()...)
	recs := s.runFind(r, query.LevelSeries, params, returnKeys)
	s.writeDicomJSON(w, recs)
}

func (s *Server) handleInstances(w http.ResponseWriter, r *http.Request) {
	study, series := r.PathValue("study"), r.PathValue("series")
	if !pathsafe.ValidUIDs(study, series) {
		s.writeError(w, http.StatusBadRequest, msgInvalidUID)
		return
	}
	params := r.URL.Query()
	params.Set("StudyInstanceUID", study)
	params.Set("SeriesInstanceUID", series)

	recs := s.runFind(r, query.LevelImage, params, tags.ImageSet())
	records.SortByInstanceNumber(recs)
	s.writeDicomJSON(w, recs)
}

func (s *Server) handleSeriesMetadata(w http.ResponseWriter, r *http.Request) {
	study, series := r.PathValue("study"), r.PathValue("series")
	if !pathsafe.ValidUIDs(study, series) {
		s.writeError(w, http.StatusBadRequest, msgInvalidUID)
		return
	}
	params := r.URL.Query()
	params.Set("StudyInstanceUID", study)
	params.Set("SeriesInstanceUID", series)

	recs := s.runFind(r, query.LevelImage, params, tags.ImageMetadataSet())
	records.FixResponse(recs)
	records.SortByInstanceNumber(recs)
	s.writeDicomJSON(w, recs)
}

func (s *Server) runFind(r *http.Request, level query.Level, params url.Values, returnKeys []string) []records.Record {
	start := time.Now()
	recs := s.finder.Find(r.Context(), level, params, returnKeys)
	s.recordAudit(r.Context(), audit.Event{
		Kind:       audit.KindFind,
		Level:      string(level),
		DurationMS: time.Since(start).Milliseconds(),
		Outcome:    "ok",
	})
	return recs
}

func (s *Server) handleFrames(w http.ResponseWriter, r *http.Request) {
	study := r.PathValue("study")
	series := r.PathValue("series")
	sop := r.PathValue("sop")
	// The frame index is accepted for URL compatibility but the whole
	// pixel-data element is always returned as a single part.
	if !pathsafe.ValidUIDs(study, series, sop) {
		s.writeError(w, http.StatusBadRequest, msgInvalidUID)
		return
	}

	objectPath, err := pathsafe.Resolve(s.cfg.Paths.StorageRoot, study, sop+".dcm")
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
		ObjectUID:      sop,
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

	pixel, err := frames.ExtractPixelData(cachedPath)
	if err != nil {
		s.logger.Error("pixel data extraction failed",
			logging.String("object", cachedPath),
			logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, msgReadFailure)
		return
	}

	boundary := frames.NewBoundary()
	contentLocation := "/studies/" + study + "/series/" + series + "/instances/" + sop
	w.Header().Set("Content-Type", "multipart/related; type=\"application/octet-stream\"; boundary="+boundary)
	w.WriteHeader(http.StatusOK)
	if err := frames.WritePart(w, boundary, contentLocation, pixel); err != nil {
		s.logger.Warn("frame stream interrupted", logging.Error(err))
		return
	}

	s.recordAudit(r.Context(), audit.Event{
		Kind:      audit.KindRetrieve,
		StudyUID:  study,
		SeriesUID: series,
		ObjectUID: sop,
		CacheHit:  hit,
		Outcome:   "ok",
	})
}

func outcomeOf(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
