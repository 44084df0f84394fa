// Package pathsafe validates client-supplied DICOM identifiers and resolves
// them into filesystem paths confined to the storage root. Both checks run
// before any filesystem or protocol access.
package pathsafe
