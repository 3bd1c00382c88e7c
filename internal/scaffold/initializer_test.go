package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dyluth/roulette/internal/config"
	"github.com/dyluth/roulette/internal/printer"
	"github.com/dyluth/roulette/pkg/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quiet(t *testing.T) {
	t.Helper()
	prev := printer.Out
	printer.Out = &discard{}
	t.Cleanup(func() { printer.Out = prev })
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestInitialize(t *testing.T) {
	quiet(t)

	t.Run("fresh initialization", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, Initialize(dir, false))

		cfg, err := config.Load(filepath.Join(dir, "roulette.yml"))
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.GroupSize())
		assert.Equal(t, "greedy", cfg.Grouping.Strategy)
		assert.Equal(t, "memory", cfg.Store.Backend)

		f, err := os.Open(filepath.Join(dir, "roster.csv"))
		require.NoError(t, err)
		defer f.Close()

		table, err := roster.ReadCSV(f)
		require.NoError(t, err)
		assert.Len(t, table.Names(), 11)
		assert.Equal(t, "Group_3", roster.NextRoundName(table, "Group_"))
	})

	t.Run("creates missing directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "team")
		require.NoError(t, Initialize(dir, false))
		assert.FileExists(t, filepath.Join(dir, "roulette.yml"))
	})

	t.Run("refuses to overwrite without force", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "roster.csv"), []byte("Name,Branch\nMe,Here\n"), 0644))

		err := Initialize(dir, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Found existing: roster.csv")

		content, err := os.ReadFile(filepath.Join(dir, "roster.csv"))
		require.NoError(t, err)
		assert.Equal(t, "Name,Branch\nMe,Here\n", string(content))
	})

	t.Run("force overwrites", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "roulette.yml"), []byte("old: content"), 0644))

		require.NoError(t, Initialize(dir, true))

		_, err := config.Load(filepath.Join(dir, "roulette.yml"))
		assert.NoError(t, err)
	})
}

func TestCheckExisting(t *testing.T) {
	t.Run("empty directory", func(t *testing.T) {
		assert.NoError(t, CheckExisting(t.TempDir()))
	})

	t.Run("lists every existing file", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{"roulette.yml", "roster.csv"} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
		}

		err := CheckExisting(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "  - roulette.yml")
		assert.Contains(t, err.Error(), "  - roster.csv")
		assert.Contains(t, err.Error(), "roulette init --force")
	})
}
