package utils

import "github.com/google/uuid"

// GenerateUUID returns a new time-ordered identifier for graph records.
func GenerateUUID() string {
	return uuid.Must(uuid.NewV7()).String()
}
