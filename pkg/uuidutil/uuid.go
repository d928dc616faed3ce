// Package uuidutil generates the random identifiers castkit persists.
package uuidutil

import "github.com/google/uuid"

// NewV4 returns a random UUID v4 string.
func NewV4() string {
	return uuid.NewString()
}

// Valid reports whether s parses as a UUID.
func Valid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
