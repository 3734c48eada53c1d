package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"image-splitter/internal/config"
	"image-splitter/internal/guide"
	"image-splitter/pkg/geometry"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadConfig(t *testing.T) {
	t.Helper()
	t.Cleanup(viper.Reset)
	require.NoError(t, config.Load(t.TempDir()))
}

func TestDefaultsComeFromConfig(t *testing.T) {
	loadConfig(t)
	p := LoadFrom(filepath.Join(t.TempDir(), "preferences.json"))

	assert.Equal(t, "", p.LastOpenDir())
	assert.Equal(t, config.GetString(config.KeyExportOutputDir), p.LastExportDir())
	assert.Equal(t, guide.FormatPNG, p.ExportFormat())
	assert.Equal(t, 90, p.JPEGQuality())
	assert.Equal(t, geometry.SnapPixel, p.SnapMode())
	assert.Equal(t, 10, p.GridSize())
	assert.Equal(t, "en", p.Language())
	assert.False(t, p.Bool(KeyShowGrid, false))
}

func TestSaveAndReload(t *testing.T) {
	loadConfig(t)
	path := filepath.Join(t.TempDir(), "nested", "preferences.json")

	p := LoadFrom(path)
	p.SetString(KeyLastOpenDir, "/images")
	p.SetExportFormat(guide.FormatKeep)
	p.SetInt(KeyJPEGQuality, 55)
	p.SetSnapMode(geometry.SnapGrid)
	p.SetInt(KeyGridSize, 32)
	p.SetBool(KeyShowGrid, true)
	p.SetString(KeyLanguage, "zh")
	require.NoError(t, p.Save())

	q := LoadFrom(path)
	assert.Equal(t, "/images", q.LastOpenDir())
	assert.Equal(t, guide.FormatKeep, q.ExportFormat())
	assert.Equal(t, 55, q.JPEGQuality())
	assert.Equal(t, geometry.SnapGrid, q.SnapMode())
	assert.Equal(t, 32, q.GridSize())
	assert.True(t, q.Bool(KeyShowGrid, false))
	assert.Equal(t, "zh", q.Language())
}

func TestInvalidValuesAreSanitized(t *testing.T) {
	loadConfig(t)
	path := filepath.Join(t.TempDir(), "preferences.json")
	data := `{"exportFormat":"tga","jpegQuality":0,"snapMode":"weird","gridSize":-4}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	p := LoadFrom(path)
	assert.Equal(t, guide.FormatPNG, p.ExportFormat())
	assert.Equal(t, 1, p.JPEGQuality())
	assert.Equal(t, geometry.SnapPixel, p.SnapMode())
	assert.Equal(t, 1, p.GridSize())
}

func TestCorruptFileYieldsDefaults(t *testing.T) {
	loadConfig(t)
	path := filepath.Join(t.TempDir(), "preferences.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	p := LoadFrom(path)
	assert.Equal(t, 10, p.GridSize())
	assert.Equal(t, path, p.Path())
}
