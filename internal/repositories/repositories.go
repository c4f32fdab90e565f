// package repositories provides persistence layer implementations for the local cache.
//
// Each repository implements models.Repository[T] for a specific entity type,
// keyed by a local uuid with a UNIQUE remote_id mirroring the backend's
// integer identifiers.
package repositories

import "strings"

// isUniqueViolation reports whether err is a sqlite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint")
}
