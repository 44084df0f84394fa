// Package frames extracts the pixel-data element from cached, decoded DICOM
// objects and streams it as a multipart binary payload.
package frames
