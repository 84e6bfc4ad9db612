package sqldb

import (
	"fmt"
	"regexp"
)

var regexNonIdentifierChars = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// SanitizeIdentifier strips every character outside [A-Za-z0-9_].
// An identifier with nothing left after stripping is a caller programming
// error and is rejected with ErrInvalidIdentifier.
func SanitizeIdentifier(name string) (string, error) {
	clean := regexNonIdentifierChars.ReplaceAllString(name, "")
	if clean == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return clean, nil
}
