package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogrepo "github.com/kailas-cloud/coursesearch/internal/repository/catalog"
)

const testCatalog = `
- title: "The Holocaust"
  code: HI
  description: Survivor testimony and the politics of memory.
  hub_units: [HUB Historical Consciousness]
- title: "Signals and Transforms"
  code: EE
  description: Convolution and the Fourier transform.
  hub_units: [HUB Quantitative Reasoning I]
- title: "Mystery"
  code: ZZ
  description: Not in the vocabulary.
`

func writeCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "courses.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("ENV", "test")
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"coursectl"}, args...))
	return out.String(), err
}

func TestNormalizeCommand(t *testing.T) {
	out, err := run(t, "normalize", "Next semester I want to learn about the Holocaust, laws law")
	require.NoError(t, err)
	assert.Equal(t, "holocaust,laws\n", out)
}

func TestNormalizeCommand_Snowball(t *testing.T) {
	out, err := run(t, "--singularizer", "snowball", "normalize", "studies study")
	require.NoError(t, err)
	assert.Equal(t, "studies\n", out)
}

func TestNormalizeCommand_RequiresText(t *testing.T) {
	_, err := run(t, "normalize")
	require.Error(t, err)
}

func TestSearchCommand(t *testing.T) {
	path := writeCatalog(t)

	t.Run("broad keywords", func(t *testing.T) {
		out, err := run(t, "search", "--catalog", "file:"+path, "fourier", "memory")
		require.NoError(t, err)

		var got []catalogrepo.Row
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "The Holocaust", got[0].Title)
		assert.Equal(t, "Signals and Transforms", got[1].Title)
	})

	t.Run("code filter", func(t *testing.T) {
		out, err := run(t, "search", "--catalog", "file:"+path, "--codes", "EE")
		require.NoError(t, err)

		var got []catalogrepo.Row
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "EE", got[0].Code)
	})

	t.Run("invalid mode", func(t *testing.T) {
		_, err := run(t, "search", "--catalog", "file:"+path, "--mode", "fuzzy", "law")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mode")
	})
}

func TestImportCommand(t *testing.T) {
	path := writeCatalog(t)
	dbPath := filepath.Join(t.TempDir(), "courses.db")

	out, err := run(t, "import", "--from", "file:"+path, "--to", "sqlite:"+dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 2 courses into sqlite (1 skipped, 0 trimmed)")

	out, err = run(t, "search", "--catalog", "sqlite:"+dbPath, "--mode", "honed", "fourier", "transform")
	require.NoError(t, err)
	var got []catalogrepo.Row
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Signals and Transforms", got[0].Title)
}

func TestImportCommand_RequiredFlags(t *testing.T) {
	_, err := run(t, "import", "--from", "file:x.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "to")
}
