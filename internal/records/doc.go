// Package records models DICOM JSON result records and canonicalizes them for
// downstream viewers: default-filling display attributes and sorting instance
// result sets.
package records
