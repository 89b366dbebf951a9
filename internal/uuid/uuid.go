// Package uuid provides UUID v4 generation and validation for entity ids.
package uuid

import (
	"regexp"

	"github.com/google/uuid"
)

var v4Regex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-4[0-9a-fA-F]{3}-[89abAB][0-9a-fA-F]{3}-[0-9a-fA-F]{12}$`)

// New generates a new UUID v4 string.
func New() string {
	return uuid.New().String()
}

// IsValid reports whether s is a well-formed UUID v4.
func IsValid(s string) bool {
	return v4Regex.MatchString(s)
}
