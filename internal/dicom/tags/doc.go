// Package tags carries the static DICOM attribute dictionary and the fixed
// per-level tag sets used to build find requests. All tables are immutable
// and built once at process start; accessors hand out copies.
package tags
