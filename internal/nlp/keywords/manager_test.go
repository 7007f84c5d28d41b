package keywords

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManagerCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")

	m, err := NewManager(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultPatterns, m.List())

	_, err = os.Stat(path)
	assert.NoError(t, err, "default file should be written to disk")
}

func TestManagerAddPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")

	m, err := NewManager(path)
	require.NoError(t, err)

	require.NoError(t, m.Add(`completely broken`))
	assert.Contains(t, m.List(), `completely broken`)

	// Adding an existing pattern is a no-op.
	require.NoError(t, m.Add(`completely broken`))
	assert.Len(t, m.List(), len(DefaultPatterns)+1)

	reloaded, err := NewManager(path)
	require.NoError(t, err)
	assert.Equal(t, m.List(), reloaded.List())
}

func TestManagerAddRejectsInvalidPattern(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")

	m, err := NewManager(path)
	require.NoError(t, err)

	assert.Error(t, m.Add(`[unclosed`))
	assert.NotContains(t, m.List(), `[unclosed`)
}

func TestManagerRemovePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")

	m, err := NewManager(path)
	require.NoError(t, err)

	require.NoError(t, m.Remove(`annoying`))
	assert.NotContains(t, m.List(), `annoying`)

	// Removing an absent pattern reports it was never there.
	assert.ErrorIs(t, m.Remove(`never existed`), ErrNotFound)

	reloaded, err := NewManager(path)
	require.NoError(t, err)
	assert.NotContains(t, reloaded.List(), `annoying`)
}

func TestManagerExport(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(filepath.Join(dir, "keywords.yaml"))
	require.NoError(t, err)

	exportPath := filepath.Join(dir, "export.yaml")
	require.NoError(t, m.Export(exportPath))

	exported, err := NewManager(exportPath)
	require.NoError(t, err)
	assert.Equal(t, m.List(), exported.List())
}

func TestNewManagerRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pain_point_keywords: {not: a list}"), 0644))

	_, err := NewManager(path)
	assert.Error(t, err)
}
