// Package shared provides common utility functions used across multiple
// packages in the sideload-watch codebase.
package shared

import (
	"fmt"
	"strings"
)

// NormalizePackageID trims surrounding whitespace from a package
// identifier. Identifiers are case-sensitive and otherwise left untouched.
func NormalizePackageID(value string) string {
	return strings.TrimSpace(value)
}

// CommandError wraps a command execution error with its trimmed output
// for cleaner error messages.
func CommandError(output []byte, err error) error {
	trimmed := strings.TrimSpace(string(output))
	if trimmed == "" {
		return err
	}
	return fmt.Errorf("%s: %w", trimmed, err)
}
