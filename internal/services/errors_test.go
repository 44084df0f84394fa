package services

import (
	"errors"
	"net/http"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	err := Wrap(ErrTranscode, "transcode", "engine call", "decoder rejected input", errors.New("code 3"))
	if !errors.Is(err, ErrTranscode) {
		t.Fatalf("expected ErrTranscode marker, got %v", err)
	}
	want := "transcode error: transcode: engine call: decoder rejected input: code 3"
	if err.Error() != want {
		t.Fatalf("unexpected message: got %q want %q", err.Error(), want)
	}
}

func TestWrapNilMarkerFallsBackToRead(t *testing.T) {
	err := Wrap(nil, "frames", "extract", "", nil)
	if !errors.Is(err, ErrRead) {
		t.Fatalf("expected ErrRead fallback, got %v", err)
	}
}

func TestClientMessage(t *testing.T) {
	inner := Wrap(ErrTranscode, "transcode", "engine call", "unsupported syntax", nil)
	tagged := WithClientMessage(inner, "unsupported syntax")

	if got := ClientMessage(tagged, "generic"); got != "unsupported syntax" {
		t.Fatalf("ClientMessage = %q, want tagged text", got)
	}
	if !errors.Is(tagged, ErrTranscode) {
		t.Fatal("tagging must preserve the marker chain")
	}
	if tagged.Error() != inner.Error() {
		t.Fatalf("tagging changed the error text: %q", tagged.Error())
	}

	untagged := Wrap(ErrTranscode, "transcode", "engine call", "", errors.New(`dial tcp 127.0.0.1:8042: connection refused`))
	if got := ClientMessage(untagged, "generic"); got != "generic" {
		t.Fatalf("ClientMessage = %q, want fallback for untagged error", got)
	}
	if got := ClientMessage(WithClientMessage(inner, "  "), "generic"); got != "generic" {
		t.Fatalf("ClientMessage = %q, want fallback for blank tag", got)
	}
}

func TestWithClientMessageNilError(t *testing.T) {
	if err := WithClientMessage(nil, "anything"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Wrap(ErrValidation, "server", "uid", "bad uid", nil), http.StatusBadRequest},
		{Wrap(ErrNotFound, "server", "stat", "", nil), http.StatusNotFound},
		{Wrap(ErrTranscode, "transcode", "engine", "", nil), http.StatusInternalServerError},
		{errors.New("anything else"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
