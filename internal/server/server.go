package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"github.com/jinftw64/dicomweb-pacs/internal/audit"
	"github.com/jinftw64/dicomweb-pacs/internal/config"
	"github.com/jinftw64/dicomweb-pacs/internal/logging"
	"github.com/jinftw64/dicomweb-pacs/internal/metrics"
	"github.com/jinftw64/dicomweb-pacs/internal/query"
	"github.com/jinftw64/dicomweb-pacs/internal/services/dimse"
	"github.com/jinftw64/dicomweb-pacs/internal/transcode"
)

// Server hosts the DICOMweb endpoints and enforces single-instance execution
// through a lock file.
type Server struct {
	cfg    *config.Config
	logger *slog.Logger

	finder     *query.Orchestrator
	cache      *transcode.Manager
	auditStore *audit.Store

	lockPath string
	lock     *flock.Flock

	listener  net.Listener
	server    *http.Server
	running   atomic.Bool
	startedAt time.Time
}

// New constructs the gateway server and wires its routes.
func New(cfg *config.Config, engine dimse.Engine, auditStore *audit.Store, logger *slog.Logger) (*Server, error) {
	if cfg == nil || engine == nil {
		return nil, errors.New("server requires config and engine")
	}
	logger = logging.NewComponentLogger(logger, "server")

	lockPath := filepath.Join(cfg.Paths.LogDir, "dicomweb-pacs.lock")
	s := &Server{
		cfg:        cfg,
		logger:     logger,
		finder:     query.New(engine, logger),
		cache:      transcode.NewManager(engine, logger),
		auditStore: auditStore,
		lockPath:   lockPath,
		lock:       flock.New(lockPath),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /rs/studies", s.handleStudies)
	mux.HandleFunc("GET /rs/studies/{study}/series", s.handleSeries)
	mux.HandleFunc("GET /rs/studies/{study}/metadata", s.handleStudyMetadata)
	mux.HandleFunc("GET /rs/studies/{study}/series/{series}/instances", s.handleInstances)
	mux.HandleFunc("GET /rs/studies/{study}/series/{series}/metadata", s.handleSeriesMetadata)
	mux.HandleFunc("GET /rs/studies/{study}/series/{series}/instances/{sop}/frames/{frame}", s.handleFrames)
	mux.HandleFunc("GET /wadouri", s.handleWadoURI)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/audit", s.handleAudit)

	s.server = &http.Server{
		Handler:           s.instrument(mux),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start acquires the instance lock, binds the listener, and serves until the
// context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if s.running.Load() {
		return errors.New("server already running")
	}

	ok, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another dicomweb-pacs instance is already running")
	}

	listener, err := net.Listen("tcp", s.cfg.Paths.Bind)
	if err != nil {
		_ = s.lock.Unlock()
		return fmt.Errorf("listen on %s: %w", s.cfg.Paths.Bind, err)
	}
	s.listener = listener
	s.startedAt = time.Now()
	s.running.Store(true)

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("gateway listening",
		logging.String("address", listener.Addr().String()),
		logging.String("storage_root", s.cfg.Paths.StorageRoot),
		logging.String("engine", s.cfg.DIMSE.EngineURL))
	return nil
}

// Stop shuts the server down and releases the instance lock.
func (s *Server) Stop() {
	if !s.running.Swap(false) {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
	if err := s.lock.Unlock(); err != nil {
		s.logger.Warn("failed to release instance lock", logging.Error(err))
	}
	s.logger.Info("gateway stopped")
}

// Status describes the running gateway for the status endpoint and CLI.
type Status struct {
	Running     bool   `json:"running"`
	Bind        string `json:"bind"`
	StorageRoot string `json:"storage_root"`
	EngineURL   string `json:"engine_url"`
	AuditDBPath string `json:"audit_db_path,omitempty"`
	UptimeSec   int64  `json:"uptime_seconds"`
}

func (s *Server) status() Status {
	st := Status{
		Running:     s.running.Load(),
		Bind:        s.cfg.Paths.Bind,
		StorageRoot: s.cfg.Paths.StorageRoot,
		EngineURL:   s.cfg.DIMSE.EngineURL,
		AuditDBPath: s.auditStore.Path(),
	}
	if st.Running {
		st.UptimeSec = int64(time.Since(s.startedAt).Seconds())
	}
	return st
}
