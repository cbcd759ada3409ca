package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/caesartm/internal/config"
	"github.com/aretw0/caesartm/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateArtefacts(t *testing.T) {
	res, err := runner.NewRunner().Encode(context.Background(), 3, "HELLO")
	require.NoError(t, err)

	t.Run("All", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "out")
		written, err := GenerateArtefacts(config.ExportConfig{Dir: dir, Format: "yaml", Diagram: true, Tape: true}, res.Run)
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(dir, DiagramFile),
			filepath.Join(dir, TapeFile),
			filepath.Join(dir, TraceBase+".yaml"),
		}, written)

		mmd, err := os.ReadFile(filepath.Join(dir, DiagramFile))
		require.NoError(t, err)
		assert.Contains(t, string(mmd), "(x + 3) mod 26")

		grid, err := os.ReadFile(filepath.Join(dir, TapeFile))
		require.NoError(t, err)
		assert.Contains(t, string(grid), "[#]")
		assert.NotContains(t, string(grid), "\x1b[")
	})

	t.Run("Trace only", func(t *testing.T) {
		dir := t.TempDir()
		written, err := GenerateArtefacts(config.ExportConfig{Dir: dir, Format: "json"}, res.Run)
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(dir, TraceBase+".json")}, written)
	})
}
