// Package prefs provides JSON-based application preferences.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"image-splitter/internal/config"
	"image-splitter/internal/guide"
	pkgimage "image-splitter/internal/image"
	"image-splitter/pkg/geometry"
)

const prefsFile = "preferences.json"

// Preference keys.
const (
	KeyLastOpenDir   = "lastOpenDir"
	KeyLastExportDir = "lastExportDir"
	KeyExportFormat  = "exportFormat"
	KeyJPEGQuality   = "jpegQuality"
	KeySnapMode      = "snapMode"
	KeyGridSize      = "gridSize"
	KeyShowGrid      = "showGrid"
	KeyLanguage      = "language"
	KeyWindowWidth   = "windowWidth"
	KeyWindowHeight  = "windowHeight"
)

// Prefs stores application preferences as a key-value map.
type Prefs struct {
	mu     sync.RWMutex
	values map[string]interface{}
	path   string
}

// Load reads preferences from <UserConfigDir>/image-splitter/preferences.json.
// Returns a Prefs with defaults if the file doesn't exist.
func Load() *Prefs {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return LoadFrom(filepath.Join(configDir, "image-splitter", prefsFile))
}

// LoadFrom reads preferences from path. A missing or unreadable file
// yields empty preferences that will be written to path on Save.
func LoadFrom(path string) *Prefs {
	p := &Prefs{
		values: make(map[string]interface{}),
		path:   path,
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return p
	}
	_ = json.Unmarshal(data, &p.values)
	return p
}

// Path returns the file the preferences are saved to.
func (p *Prefs) Path() string {
	return p.path
}

// Save writes preferences to disk.
func (p *Prefs) Save() error {
	p.mu.RLock()
	data, err := json.MarshalIndent(p.values, "", "  ")
	p.mu.RUnlock()
	if err != nil {
		return err
	}

	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(p.path, data, 0o644)
}

// FloatWithFallback returns a float64 preference, or fallback if not set.
func (p *Prefs) FloatWithFallback(key string, fallback float64) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.values[key]; ok {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		}
	}
	return fallback
}

// SetFloat stores a float64 preference.
func (p *Prefs) SetFloat(key string, val float64) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}

// IntWithFallback returns an int preference, or fallback if not set.
func (p *Prefs) IntWithFallback(key string, fallback int) int {
	return int(p.FloatWithFallback(key, float64(fallback)))
}

// SetInt stores an int preference.
func (p *Prefs) SetInt(key string, val int) {
	p.SetFloat(key, float64(val))
}

// StringWithFallback returns a string preference, or fallback if not set
// or empty.
func (p *Prefs) StringWithFallback(key, fallback string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.values[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return fallback
}

// SetString stores a string preference.
func (p *Prefs) SetString(key string, val string) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}

// Bool returns a bool preference, or fallback if not set.
func (p *Prefs) Bool(key string, fallback bool) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if b, ok := p.values[key].(bool); ok {
		return b
	}
	return fallback
}

// SetBool stores a bool preference.
func (p *Prefs) SetBool(key string, val bool) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}

// LastOpenDir returns the directory of the last opened image.
func (p *Prefs) LastOpenDir() string {
	return p.StringWithFallback(KeyLastOpenDir, "")
}

// LastExportDir returns the last export root, defaulting to the configured
// output directory.
func (p *Prefs) LastExportDir() string {
	return p.StringWithFallback(KeyLastExportDir, config.GetString(config.KeyExportOutputDir))
}

// ExportFormat returns the saved export format.
func (p *Prefs) ExportFormat() guide.ExportFormat {
	f, ok := guide.ParseExportFormat(p.StringWithFallback(KeyExportFormat, ""))
	if !ok {
		return config.ExportFormat()
	}
	return f
}

// SetExportFormat stores the export format.
func (p *Prefs) SetExportFormat(f guide.ExportFormat) {
	p.SetString(KeyExportFormat, string(f))
}

// JPEGQuality returns the saved JPEG quality clamped to 1..100.
func (p *Prefs) JPEGQuality() int {
	return pkgimage.ClampQuality(p.IntWithFallback(KeyJPEGQuality, config.JPEGQuality()))
}

// SnapMode returns the saved snap mode.
func (p *Prefs) SnapMode() geometry.SnapMode {
	m, ok := geometry.ParseSnapMode(p.StringWithFallback(KeySnapMode, ""))
	if !ok {
		return config.SnapMode()
	}
	return m
}

// SetSnapMode stores the snap mode.
func (p *Prefs) SetSnapMode(m geometry.SnapMode) {
	p.SetString(KeySnapMode, m.String())
}

// GridSize returns the saved grid size, at least 1.
func (p *Prefs) GridSize() int {
	return max(1, p.IntWithFallback(KeyGridSize, config.GridSize()))
}

// Language returns the saved UI language code.
func (p *Prefs) Language() string {
	return p.StringWithFallback(KeyLanguage, config.GetString(config.KeyLanguage))
}
