package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	cat := Default()

	require.Len(t, cat.Subjects(), 3)
	assert.True(t, cat.Contains("Physique", "Thermodynamique"))
	assert.True(t, cat.Contains("Mathématiques", "Algèbre Linéaire"))
	assert.False(t, cat.Contains("Physique", "Optique"))
	assert.False(t, cat.Contains("Alchimie", "Transmutation"))
	assert.Equal(t, 27, cat.TotalSlots())
}

func TestLoadEmptyPathFallsBack(t *testing.T) {
	cat, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().TotalSlots(), cat.TotalSlots())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	payload := `[{"name": "Chimie", "chapters": ["Atomistique", "Cinétique"]}]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))

	cat, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cat.Subjects(), 1)
	assert.True(t, cat.Contains("Chimie", "Atomistique"))
	assert.Equal(t, 6, cat.TotalSlots())
}

func TestLoadRejectsInvalidFiles(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`[]`), 0o600))
	_, err := Load(empty)
	assert.Error(t, err)

	unnamed := filepath.Join(dir, "unnamed.json")
	require.NoError(t, os.WriteFile(unnamed, []byte(`[{"chapters": ["A"]}]`), 0o600))
	_, err = Load(unnamed)
	assert.Error(t, err)

	garbage := filepath.Join(dir, "garbage.json")
	require.NoError(t, os.WriteFile(garbage, []byte(`{not json`), 0o600))
	_, err = Load(garbage)
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestNewEmptyCatalog(t *testing.T) {
	cat := New(nil)
	assert.Empty(t, cat.Subjects())
	assert.Zero(t, cat.TotalSlots())
	assert.False(t, cat.Contains("Physique", "Thermodynamique"))
}
