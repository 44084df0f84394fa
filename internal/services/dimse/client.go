package dimse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jinftw64/dicomweb-pacs/internal/config"
)

// Engine is the narrow boundary to the external DICOM protocol engine. Both
// operations are invoked once per call and resolve exactly once.
type Engine interface {
	Find(ctx context.Context, req FindRequest) (Envelope, error)
	Transcode(ctx context.Context, req TranscodeRequest) (Envelope, error)
}

// HTTPDoer describes the HTTP client used by the engine client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type httpEngine struct {
	baseURL string
	aet     string
	timeout time.Duration
	client  HTTPDoer
}

// NewHTTPEngine constructs an engine client that posts JSON requests to the
// configured engine endpoint.
func NewHTTPEngine(cfg *config.Config) Engine {
	if cfg == nil {
		return &httpEngine{client: http.DefaultClient, timeout: 30 * time.Second}
	}
	return &httpEngine{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.DIMSE.EngineURL), "/"),
		aet:     cfg.DIMSE.AET,
		timeout: time.Duration(cfg.DIMSE.TimeoutSeconds) * time.Second,
		client:  http.DefaultClient,
	}
}

// NewEngineClient constructs an engine client against an explicit endpoint.
// Used by tests and tooling.
func NewEngineClient(baseURL, aet string, timeout time.Duration, client HTTPDoer) Engine {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpEngine{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		aet:     strings.TrimSpace(aet),
		timeout: timeout,
		client:  client,
	}
}

func (e *httpEngine) Find(ctx context.Context, req FindRequest) (Envelope, error) {
	return e.post(ctx, "/find", req)
}

func (e *httpEngine) Transcode(ctx context.Context, req TranscodeRequest) (Envelope, error) {
	return e.post(ctx, "/transcode", req)
}

func (e *httpEngine) post(ctx context.Context, path string, payload any) (Envelope, error) {
	if e.baseURL == "" {
		return Envelope{}, fmt.Errorf("dimse engine url not configured")
	}
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode engine request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return Envelope{}, fmt.Errorf("build engine request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if e.aet != "" {
		httpReq.Header.Set("X-Calling-AET", e.aet)
	}

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return Envelope{}, fmt.Errorf("call engine %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Envelope{}, fmt.Errorf("read engine reply: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return Envelope{}, fmt.Errorf("engine %s returned %d", path, resp.StatusCode)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return Envelope{}, fmt.Errorf("engine %s returned empty reply", path)
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("parse engine reply: %w", err)
	}
	return env, nil
}
