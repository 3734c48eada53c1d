// Package main provides the entry point for the Image Splitter application.
package main

import (
	"os"
	"path/filepath"

	"image-splitter/internal/app"
	"image-splitter/internal/config"
	"image-splitter/internal/i18n"
	"image-splitter/internal/logging"
	"image-splitter/internal/version"
	"image-splitter/ui/mainwindow"
	"image-splitter/ui/prefs"
	"image-splitter/ui/theme"

	fyneapp "fyne.io/fyne/v2/app"
)

const appID = "io.github.image-splitter"

func main() {
	configDir, err := os.UserConfigDir()
	if err == nil {
		configDir = filepath.Join(configDir, "image-splitter")
	}

	// Logging is not up yet; report config problems with the default level.
	cfgErr := config.Load(configDir)
	log := logging.Setup(os.Stderr, config.GetString(config.KeyLogLevel))
	if cfgErr != nil {
		log.Warn("Using default configuration", "error", cfgErr)
	}
	log.Info("Starting", "version", version.String())

	a := fyneapp.NewWithID(appID)
	a.Settings().SetTheme(theme.New())

	appPrefs := prefs.Load()
	tr, err := i18n.New(appPrefs.Language())
	if err != nil {
		log.Error("Failed to load translations", "error", err)
		os.Exit(1)
	}

	ctrl := app.NewController()
	win := mainwindow.New(a, ctrl, tr, appPrefs)

	if len(os.Args) > 1 {
		ctrl.LoadImage(os.Args[1])
	}

	win.ShowAndRun()
	log.Info("Exiting")
}
