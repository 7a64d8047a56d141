package orchestrator

import (
	"regexp"
	"strings"
)

const (
	nameMinLen = 3
	nameMaxLen = 10
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// IsValidName reports whether a display name is acceptable: 3-10
// characters, alphanumeric or underscore only.
func IsValidName(name string) bool {
	return len(strings.TrimSpace(name)) >= nameMinLen &&
		len(name) <= nameMaxLen &&
		namePattern.MatchString(name)
}
