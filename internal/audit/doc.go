// Package audit keeps a sqlite bookkeeping record of find, retrieve, and
// transcode operations for operational visibility. Recording is best-effort:
// an audit failure is logged by the caller and never fails a request.
package audit
