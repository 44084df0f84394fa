// Package dimse defines the boundary to the external DICOM protocol engine
// and an HTTP client implementation of it.
//
// The engine owns association negotiation, the C-FIND wire exchange, and
// pixel-data transcoding. The gateway consumes it through two operations,
// find and transcode, each answered by a single JSON envelope. Nothing in
// this repository implements the DIMSE state machine itself.
package dimse
