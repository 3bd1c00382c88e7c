package store

import (
	"fmt"
	"regexp"
)

const (
	// DefaultNamespace is used when no namespace is configured
	DefaultNamespace = "default"

	// MaxNamespaceLength is the maximum length for a namespace (DNS-compatible)
	MaxNamespaceLength = 63
)

var (
	// NamespacePattern is the regex pattern for valid namespaces
	// Must be DNS-compatible: lowercase alphanumeric, hyphens allowed (but not at start/end)
	NamespacePattern = regexp.MustCompile(`^[a-z0-9]([-a-z0-9]*[a-z0-9])?$`)
)

// ValidateNamespace checks that a namespace is safe to embed in Redis keys.
func ValidateNamespace(ns string) error {
	if ns == "" {
		return fmt.Errorf("namespace cannot be empty")
	}

	if len(ns) > MaxNamespaceLength {
		return fmt.Errorf("namespace too long: %d characters (max: %d)", len(ns), MaxNamespaceLength)
	}

	if !NamespacePattern.MatchString(ns) {
		return fmt.Errorf("invalid namespace '%s': must be lowercase alphanumeric with hyphens (not at start/end)", ns)
	}

	return nil
}
