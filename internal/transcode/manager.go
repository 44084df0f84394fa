package transcode

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jinftw64/dicomweb-pacs/internal/logging"
	"github.com/jinftw64/dicomweb-pacs/internal/metrics"
	"github.com/jinftw64/dicomweb-pacs/internal/services"
	"github.com/jinftw64/dicomweb-pacs/internal/services/dimse"
)

// CacheDirName is the per-study directory holding transcoded copies.
const CacheDirName = ".cache"

// Manager maintains the on-disk cache of transcoded objects, keyed by target
// transfer syntax, and invokes the engine on misses. Concurrent requests for
// the same cache file share a single in-flight transcode instead of racing
// writes to the same target path.
type Manager struct {
	engine dimse.Engine
	logger *slog.Logger
	group  singleflight.Group
}

// NewManager constructs a cache/transcode manager over the given engine.
func NewManager(engine dimse.Engine, logger *slog.Logger) *Manager {
	return &Manager{
		engine: engine,
		logger: logging.NewComponentLogger(logger, "transcode"),
	}
}

// CachePath derives the deterministic cache location for an input file and
// target transfer syntax: containingDir/.cache/<uid with dots replaced by
// underscores>/<basename of inputFile>.
func CachePath(inputFile, containingDir, transferSyntaxUID string) string {
	syntaxDir := strings.ReplaceAll(transferSyntaxUID, ".", "_")
	return filepath.Join(containingDir, CacheDirName, syntaxDir, filepath.Base(inputFile))
}

// GetOrTranscode returns the cached transcoded copy of inputFile, producing
// it first when absent. Existence of the cache file is the sole correctness
// signal: a hit is returned without content verification and without touching
// the engine. The boolean result reports whether the call was a cache hit.
func (m *Manager) GetOrTranscode(ctx context.Context, inputFile, containingDir, transferSyntaxUID string) (string, bool, error) {
	cachedFile := CachePath(inputFile, containingDir, transferSyntaxUID)

	if _, err := os.Stat(cachedFile); err == nil {
		metrics.CacheEventsTotal.WithLabelValues("hit").Inc()
		return cachedFile, true, nil
	}

	metrics.CacheEventsTotal.WithLabelValues("miss").Inc()

	_, err, _ := m.group.Do(cachedFile, func() (any, error) {
		// Another request may have completed the transcode while this
		// one waited on the flight group.
		if _, err := os.Stat(cachedFile); err == nil {
			return nil, nil
		}
		return nil, m.transcode(ctx, inputFile, cachedFile, transferSyntaxUID)
	})
	if err != nil {
		return "", false, err
	}
	return cachedFile, false, nil
}

func (m *Manager) transcode(ctx context.Context, inputFile, cachedFile, transferSyntaxUID string) error {
	if err := os.MkdirAll(filepath.Dir(cachedFile), 0o755); err != nil {
		return services.Wrap(services.ErrTranscode, "transcode", "create cache dir", "", err)
	}

	start := time.Now()
	env, err := m.engine.Transcode(ctx, dimse.TranscodeRequest{
		Source:         inputFile,
		Target:         cachedFile,
		TransferSyntax: transferSyntaxUID,
	})
	metrics.TranscodeDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		return services.Wrap(services.ErrTranscode, "transcode", "engine call", "invalid result received", err)
	}
	if env.Code != dimse.SuccessCode {
		message := strings.TrimSpace(env.Message)
		if message == "" {
			message = fmt.Sprintf("engine reported code %d", env.Code)
		}
		// The envelope message is operational text the engine intends
		// for callers; everything else stays server-side.
		err := services.Wrap(services.ErrTranscode, "transcode", "engine call", message, nil)
		return services.WithClientMessage(err, message)
	}

	m.logger.Info("transcoded object",
		logging.String("source", inputFile),
		logging.String("target", cachedFile),
		logging.String("transfer_syntax", transferSyntaxUID),
		logging.Duration("elapsed", time.Since(start)))
	return nil
}
