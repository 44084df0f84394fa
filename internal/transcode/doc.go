// Package transcode maintains the correctness-preserving on-disk cache of
// re-encoded DICOM objects, keyed by transfer syntax.
//
// A cache entry, once present, is treated as valid forever; nothing here
// re-verifies or invalidates content, and lifecycle (disk cleanup) is an
// operator concern. Concurrent misses of the same key are collapsed into one
// engine transcode through a flight group.
package transcode
