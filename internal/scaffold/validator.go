package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CheckExisting returns an error listing any scaffold files already in dir.
func CheckExisting(dir string) error {
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(filepath.Join(dir, f.Path)); err == nil {
			existing = append(existing, f.Path)
		}
	}

	if len(existing) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("project already initialized\n\nFound existing")
	if len(existing) == 1 {
		fmt.Fprintf(&b, ": %s\n", existing[0])
	} else {
		b.WriteString(" files:\n")
		for _, path := range existing {
			fmt.Fprintf(&b, "  - %s\n", path)
		}
	}
	b.WriteString("\nUse 'roulette init --force' to reinitialize (this will overwrite them)")

	return fmt.Errorf("%s", b.String())
}
