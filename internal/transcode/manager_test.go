package transcode

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jinftw64/dicomweb-pacs/internal/services"
	"github.com/jinftw64/dicomweb-pacs/internal/services/dimse"
)

type fakeEngine struct {
	mu         sync.Mutex
	calls      atomic.Int64
	env        dimse.Envelope
	err        error
	writeFile  bool
	lastTarget string
}

func (f *fakeEngine) Find(context.Context, dimse.FindRequest) (dimse.Envelope, error) {
	return dimse.Envelope{}, errors.New("not implemented")
}

func (f *fakeEngine) Transcode(_ context.Context, req dimse.TranscodeRequest) (dimse.Envelope, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.lastTarget = req.Target
	f.mu.Unlock()
	if f.writeFile {
		if err := os.WriteFile(req.Target, []byte("transcoded"), 0o644); err != nil {
			return dimse.Envelope{}, err
		}
	}
	return f.env, f.err
}

func TestCachePath(t *testing.T) {
	got := CachePath("/data/1.2.3/4.5.6.dcm", "/data/1.2.3", "1.2.840.10008.1.2.1")
	want := filepath.Join("/data/1.2.3", ".cache", "1_2_840_10008_1_2_1", "4.5.6.dcm")
	if got != want {
		t.Fatalf("CachePath = %q, want %q", got, want)
	}
}

func TestGetOrTranscodeHitSkipsEngine(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "obj.dcm")
	cached := CachePath(input, dir, "1.2.840.10008.1.2.1")
	if err := os.MkdirAll(filepath.Dir(cached), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cached, []byte("cached"), 0o644); err != nil {
		t.Fatal(err)
	}

	engine := &fakeEngine{}
	m := NewManager(engine, nil)

	path, hit, err := m.GetOrTranscode(context.Background(), input, dir, "1.2.840.10008.1.2.1")
	if err != nil {
		t.Fatalf("GetOrTranscode: %v", err)
	}
	if !hit {
		t.Fatal("expected cache hit")
	}
	if path != cached {
		t.Fatalf("path = %q, want %q", path, cached)
	}
	if engine.calls.Load() != 0 {
		t.Fatalf("engine invoked %d times on a cache hit", engine.calls.Load())
	}
}

func TestGetOrTranscodeMissInvokesEngineOnce(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "obj.dcm")

	engine := &fakeEngine{env: dimse.Envelope{Code: dimse.SuccessCode}, writeFile: true}
	m := NewManager(engine, nil)

	path, hit, err := m.GetOrTranscode(context.Background(), input, dir, "1.2.840.10008.1.2")
	if err != nil {
		t.Fatalf("GetOrTranscode: %v", err)
	}
	if hit {
		t.Fatal("expected cache miss")
	}
	want := CachePath(input, dir, "1.2.840.10008.1.2")
	if path != want {
		t.Fatalf("path = %q, want %q", path, want)
	}
	if engine.calls.Load() != 1 {
		t.Fatalf("engine invoked %d times, want 1", engine.calls.Load())
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("cache file not written: %v", err)
	}
}

func TestGetOrTranscodeEngineFailureCarriesMessage(t *testing.T) {
	dir := t.TempDir()
	engine := &fakeEngine{env: dimse.Envelope{Code: 5, Message: "unsupported syntax"}}
	m := NewManager(engine, nil)

	_, _, err := m.GetOrTranscode(context.Background(), filepath.Join(dir, "x.dcm"), dir, "1.2.3")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrTranscode) {
		t.Fatalf("expected ErrTranscode, got %v", err)
	}
	if !strings.Contains(err.Error(), "unsupported syntax") {
		t.Fatalf("engine message lost: %v", err)
	}
	if got := services.ClientMessage(err, "generic"); got != "unsupported syntax" {
		t.Fatalf("client message = %q, want the engine's text", got)
	}
}

func TestGetOrTranscodeInvalidReply(t *testing.T) {
	dir := t.TempDir()
	engine := &fakeEngine{err: errors.New("engine returned empty reply")}
	m := NewManager(engine, nil)

	_, _, err := m.GetOrTranscode(context.Background(), filepath.Join(dir, "x.dcm"), dir, "1.2.3")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "invalid result received") {
		t.Fatalf("expected generic invalid-result error, got %v", err)
	}
	// Transport failures carry no text safe for clients.
	if got := services.ClientMessage(err, "generic"); got != "generic" {
		t.Fatalf("client message = %q, want fallback", got)
	}
}

func TestConcurrentMissesShareOneTranscode(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "obj.dcm")
	engine := &fakeEngine{env: dimse.Envelope{Code: dimse.SuccessCode}, writeFile: true}
	m := NewManager(engine, nil)

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = m.GetOrTranscode(context.Background(), input, dir, "1.2.840.10008.1.2.1")
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("worker %d: %v", i, err)
		}
	}
	// The flight group plus the double-check inside it bound the engine to
	// at most one call for a single key.
	if calls := engine.calls.Load(); calls != 1 {
		t.Fatalf("engine invoked %d times, want 1", calls)
	}
}
