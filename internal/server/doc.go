// Package server hosts the DICOMweb HTTP surface: QIDO-RS search and
// metadata endpoints, frame and object retrieval backed by the transcode
// cache, and the operational status, audit, and metrics endpoints.
package server
