// Package config loads application settings through viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"image-splitter/internal/guide"
	pkgimage "image-splitter/internal/image"
	"image-splitter/pkg/geometry"

	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "splitter.json"

// Config keys.
const (
	KeyLogLevel        = "logLevel"
	KeyExportFormat    = "export.format"
	KeyExportQuality   = "export.jpegQuality"
	KeyExportOutputDir = "export.outputDir"
	KeySnapMode        = "snap.mode"
	KeySnapGridSize    = "snap.gridSize"
	KeyLanguage        = "ui.language"
)

// Load reads configuration from splitter.json in configDir and sets default
// values. A missing file is fine; a malformed one is an error. Any key can be
// overridden from the environment, e.g. SPLITTER_EXPORT_FORMAT=jpeg.
func Load(configDir string) error {
	setDefaults()

	viper.SetEnvPrefix("splitter")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(strings.TrimSuffix(FileName, ".json"))
	viper.SetConfigType("json")
	if configDir != "" {
		viper.AddConfigPath(configDir)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

func setDefaults() {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	viper.SetDefault(KeyLogLevel, "info")
	viper.SetDefault(KeyExportFormat, string(guide.FormatPNG))
	viper.SetDefault(KeyExportQuality, 90)
	viper.SetDefault(KeyExportOutputDir, home)
	viper.SetDefault(KeySnapMode, geometry.SnapPixel.String())
	viper.SetDefault(KeySnapGridSize, 10)
	viper.SetDefault(KeyLanguage, "en")
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// ExportFormat returns the configured export format, PNG when invalid.
func ExportFormat() guide.ExportFormat {
	f, _ := guide.ParseExportFormat(viper.GetString(KeyExportFormat))
	return f
}

// JPEGQuality returns the configured JPEG quality clamped to 1..100.
func JPEGQuality() int {
	return pkgimage.ClampQuality(viper.GetInt(KeyExportQuality))
}

// SnapMode returns the configured snap mode, pixel when invalid.
func SnapMode() geometry.SnapMode {
	m, _ := geometry.ParseSnapMode(viper.GetString(KeySnapMode))
	return m
}

// GridSize returns the configured grid size, at least 1.
func GridSize() int {
	return max(1, viper.GetInt(KeySnapGridSize))
}
