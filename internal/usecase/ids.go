package usecase

import "github.com/google/uuid"

// parseID returns id in canonical UUID form. Records are keyed by UUID, so
// anything else cannot name one.
func parseID(id string) (string, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}
