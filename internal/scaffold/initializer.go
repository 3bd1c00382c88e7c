package scaffold

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dyluth/roulette/internal/config"
	"github.com/dyluth/roulette/internal/printer"
	"github.com/dyluth/roulette/pkg/roster"
)

//go:embed templates/*
var templatesFS embed.FS

// RosterFile is the sample roster written next to the config.
const RosterFile = "roster.csv"

// FileInfo represents a file to be created during initialization
type FileInfo struct {
	Path        string
	Template    string
	Permissions os.FileMode
}

// files lists every file Initialize writes, relative to the target directory.
var files = []FileInfo{
	{Path: config.DefaultPath, Template: "templates/roulette.yml.tmpl", Permissions: 0644},
	{Path: RosterFile, Template: "templates/roster.csv.tmpl", Permissions: 0644},
}

// Initialize writes roulette.yml and a sample roster into dir.
// Existing files are an error unless force is set, in which case they are
// overwritten.
func Initialize(dir string, force bool) error {
	if !force {
		if err := CheckExisting(dir); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	for _, f := range files {
		content, err := templatesFS.ReadFile(f.Template)
		if err != nil {
			return fmt.Errorf("failed to read %s template: %w", f.Path, err)
		}

		path := filepath.Join(dir, f.Path)
		if force {
			if _, err := os.Stat(path); err == nil {
				printer.Warning("Overwriting existing %s...\n", f.Path)
			}
		}
		if err := os.WriteFile(path, content, f.Permissions); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.Path, err)
		}
	}

	return validateCreatedFiles(dir)
}

// validateCreatedFiles loads what was written the same way draw and serve will.
func validateCreatedFiles(dir string) error {
	if _, err := config.Load(filepath.Join(dir, config.DefaultPath)); err != nil {
		return fmt.Errorf("created %s is invalid: %w", config.DefaultPath, err)
	}

	f, err := os.Open(filepath.Join(dir, RosterFile))
	if err != nil {
		return fmt.Errorf("failed to read created %s: %w", RosterFile, err)
	}
	defer f.Close()

	t, err := roster.ReadCSV(f)
	if err != nil {
		return fmt.Errorf("created %s is not valid CSV: %w", RosterFile, err)
	}
	if err := t.Validate(); err != nil {
		return fmt.Errorf("created %s is not a valid roster: %w", RosterFile, err)
	}

	return nil
}

// PrintSuccess prints the created files and next steps.
func PrintSuccess() {
	printer.Success("Initialized coffee roulette\n")
	printer.Info("\nCreated:\n")
	for _, f := range files {
		printer.Info("  ✓ %s\n", f.Path)
	}
	printer.Info("\nNext steps:\n")
	printer.Info("  1. Replace %s with your team (columns Name and Branch)\n", RosterFile)
	printer.Info("  2. Run 'roulette draw %s' to pick this round's groups\n", RosterFile)
	printer.Info("  3. Set ROULETTE_PASSWORD and run 'roulette serve' for the web UI\n")
}
