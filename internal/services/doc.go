// Package services defines the shared error taxonomy for gateway components
// and the mapping from classified errors to HTTP statuses.
package services
