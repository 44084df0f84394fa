package query

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/jinftw64/dicomweb-pacs/internal/dicom/tags"
	"github.com/jinftw64/dicomweb-pacs/internal/logging"
	"github.com/jinftw64/dicomweb-pacs/internal/metrics"
	"github.com/jinftw64/dicomweb-pacs/internal/records"
	"github.com/jinftw64/dicomweb-pacs/internal/services/dimse"
)

// Level is the granularity of a query/retrieve find.
type Level string

const (
	LevelStudy  Level = "STUDY"
	LevelSeries Level = "SERIES"
	LevelImage  Level = "IMAGE"
)

// Reserved web query keys that never become match keys.
const (
	paramOffset       = "offset"
	paramIncludeField = "includefield"
)

// Orchestrator translates web query parameters into protocol-level find
// requests and normalizes the engine's reply into DICOM JSON records.
type Orchestrator struct {
	engine dimse.Engine
	logger *slog.Logger
}

// New constructs an orchestrator over the given engine.
func New(engine dimse.Engine, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		engine: engine,
		logger: logging.NewComponentLogger(logger, "query"),
	}
}

// BuildRequest assembles the ordered tag list for a find: the synthetic
// query/retrieve level first, then every extra tag as a return key, then the
// resolvable query parameters as match keys. Unknown parameter names are
// dropped silently; so are the reserved offset and includefield keys, the
// latter contributing additional return keys instead.
func BuildRequest(level Level, params url.Values, extra []string) dimse.FindRequest {
	req := dimse.FindRequest{
		Tags: []dimse.TagValue{{Key: tags.QueryRetrieveLevel, Value: string(level)}},
	}

	seen := map[string]struct{}{tags.QueryRetrieveLevel: {}}
	add := func(key, value string) {
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		req.Tags = append(req.Tags, dimse.TagValue{Key: key, Value: value})
	}

	for _, code := range extra {
		add(code, "")
	}

	for _, field := range strings.Split(params.Get(paramIncludeField), ",") {
		if tag, ok := tags.Lookup(field); ok {
			add(tag.Code, "")
		}
	}

	keys := make([]string, 0, len(params))
	for key := range params {
		if key == paramOffset || key == paramIncludeField {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		tag, ok := tags.Lookup(key)
		if !ok {
			continue
		}
		value := params.Get(key)
		if _, dup := seen[tag.Code]; dup {
			// A return key already requested can still carry a match
			// value; replace it in place.
			for i := range req.Tags {
				if req.Tags[i].Key == tag.Code {
					req.Tags[i].Value = value
					break
				}
			}
			continue
		}
		add(tag.Code, value)
	}

	return req
}

// Offset extracts the reserved offset parameter: numeric, default 0,
// non-numeric treated as 0.
func Offset(params url.Values) int {
	n, err := strconv.Atoi(strings.TrimSpace(params.Get(paramOffset)))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Find runs a level-scoped find against the engine. Every failure mode —
// transport error, non-zero envelope code, unparseable envelope or container —
// degrades to an empty result set. Search endpoints never surface backend
// errors; the loss of signal is compensated by logging here.
func (o *Orchestrator) Find(ctx context.Context, level Level, params url.Values, extra []string) []records.Record {
	req := BuildRequest(level, params, extra)

	env, err := o.engine.Find(ctx, req)
	if err != nil {
		o.logger.Warn("find call failed",
			logging.String("level", string(level)),
			logging.Error(err))
		metrics.FindsTotal.WithLabelValues(string(level), "error").Inc()
		return nil
	}
	if env.Code != dimse.SuccessCode {
		o.logger.Warn("find reported failure",
			logging.String("level", string(level)),
			logging.Int("code", env.Code),
			logging.String("message", env.Message))
		metrics.FindsTotal.WithLabelValues(string(level), "error").Inc()
		return nil
	}
	if strings.TrimSpace(env.Container) == "" {
		o.logger.Warn("find reply had no container", logging.String("level", string(level)))
		metrics.FindsTotal.WithLabelValues(string(level), "error").Inc()
		return nil
	}

	var recs []records.Record
	if err := json.Unmarshal([]byte(env.Container), &recs); err != nil {
		o.logger.Warn("find container unparseable",
			logging.String("level", string(level)),
			logging.Error(err))
		metrics.FindsTotal.WithLabelValues(string(level), "error").Inc()
		return nil
	}
	metrics.FindsTotal.WithLabelValues(string(level), "ok").Inc()

	if offset := Offset(params); offset > 0 {
		if offset >= len(recs) {
			return nil
		}
		recs = recs[offset:]
	}
	return recs
}
