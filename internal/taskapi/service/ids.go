package service

import (
	"github.com/aussiebroadwan/taskapi/internal/taskapi/store"
	"github.com/aussiebroadwan/taskapi/pkg/idx"
)

// parseID normalizes a caller supplied id. A malformed id cannot name a stored
// record, so it reports store.ErrNotFound.
func parseID(id string) (string, error) {
	parsed, err := idx.Parse(id)
	if err != nil {
		return "", store.ErrNotFound
	}
	return parsed.String(), nil
}
