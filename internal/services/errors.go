package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrValidation marks malformed or unsafe client input. Detected before
	// any filesystem or protocol access.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks a missing source object.
	ErrNotFound = errors.New("not found")
	// ErrTranscode marks an engine-reported transcode failure or an
	// unusable engine reply.
	ErrTranscode = errors.New("transcode error")
	// ErrRead marks a post-cache file read or pixel extraction failure.
	ErrRead = errors.New("read error")
	// ErrConfiguration marks unusable configuration.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later status classification. The marker
// should be one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrRead
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

type clientMessageError struct {
	msg string
	err error
}

func (e *clientMessageError) Error() string { return e.err.Error() }

func (e *clientMessageError) Unwrap() error { return e.err }

// WithClientMessage marks msg as safe to return to clients when err is
// translated at the handler boundary. The full error chain stays intact for
// logging; only msg crosses the HTTP surface.
func WithClientMessage(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &clientMessageError{msg: msg, err: err}
}

// ClientMessage returns the client-safe text attached to err, or fallback
// when the error carries none. Internal detail (transport errors, paths)
// never travels through here.
func ClientMessage(err error, fallback string) string {
	var cme *clientMessageError
	if errors.As(err, &cme) && strings.TrimSpace(cme.msg) != "" {
		return cme.msg
	}
	return fallback
}

// HTTPStatus maps a classified error to the status code the web surface
// returns for it.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
