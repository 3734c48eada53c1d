package mainwindow

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"image-splitter/internal/app"
	"image-splitter/internal/guide"
	pkgimage "image-splitter/internal/image"
	"image-splitter/internal/logging"
	"image-splitter/internal/version"
	"image-splitter/pkg/geometry"
	"image-splitter/ui/panels"
	"image-splitter/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
)

// setupEventHandlers wires the controller, canvas, panels and translator.
func (mw *MainWindow) setupEventHandlers() {
	mw.ctrl.On(app.EventImageChanged, func(data interface{}) {
		if ev, ok := data.(app.ImageChanged); ok {
			mw.onImageChanged(ev.Image, ev.Path)
		}
	})
	mw.ctrl.On(app.EventImageCleared, func(interface{}) {
		mw.canvas.SetImage(nil)
		mw.sidePanel.Lines.SetLines(nil)
		mw.SetTitle(mw.tr.T("app.title"))
		mw.updateCoords(0, 0, false)
		mw.refreshActions()
	})
	mw.ctrl.On(app.EventLinesChanged, func(data interface{}) {
		lines, _ := data.([]guide.Line)
		mw.canvas.SetLines(lines)
		mw.sidePanel.Lines.SetLines(lines)
		mw.updateSelectedLabel()
		mw.refreshActions()
	})
	mw.ctrl.On(app.EventSelectionChanged, func(data interface{}) {
		id, _ := data.(string)
		mw.canvas.SetSelected(id)
		mw.sidePanel.Lines.SetSelected(id)
		mw.updateSelectedLabel()
		mw.refreshActions()
	})
	mw.ctrl.On(app.EventStatus, func(data interface{}) {
		if st, ok := data.(app.Status); ok {
			mw.updateStatus(mw.tr.Status(st))
		}
	})
	mw.ctrl.On(app.EventUndoStateChanged, func(interface{}) {
		mw.refreshActions()
	})
	mw.ctrl.On(app.EventExportFinished, func(data interface{}) {
		if res, ok := data.(guide.ExportResult); ok {
			mw.onExportFinished(res)
		}
	})

	mw.canvas.OnAddLine(mw.ctrl.AddLine)
	mw.canvas.OnSelect(mw.ctrl.SelectLine)
	mw.canvas.OnDelete(mw.ctrl.DeleteLine)
	mw.canvas.OnMove(mw.ctrl.MoveLine)
	mw.canvas.OnHover(mw.updateCoords)

	mw.sidePanel.Lines.OnSelect(mw.ctrl.SelectLine)
	mw.sidePanel.Lines.OnMoveY(mw.ctrl.MoveLine)
	mw.sidePanel.Lines.OnLock(mw.ctrl.SetLocked)

	mw.sidePanel.Snap.OnModeChange(func(mode geometry.SnapMode) {
		mw.ctrl.SetSnapMode(mode)
		mw.prefs.SetSnapMode(mode)
	})
	mw.sidePanel.Snap.OnGridChange(func(size int) {
		mw.ctrl.SetGridSize(size)
		mw.prefs.SetInt(prefs.KeyGridSize, size)
		mw.canvas.SetGrid(mw.prefs.Bool(prefs.KeyShowGrid, false), size)
	})
	mw.sidePanel.Snap.OnShowGrid(mw.setShowGrid)

	mw.sidePanel.Export.OnExport(mw.export)
	mw.sidePanel.Export.OnDirChosen(func(dir string) {
		mw.prefs.SetString(prefs.KeyLastExportDir, dir)
	})

	mw.tr.OnChange(func(code string) {
		mw.prefs.SetString(prefs.KeyLanguage, code)
		mw.retranslate()
	})

	mw.SetOnDropped(func(_ fyne.Position, uris []fyne.URI) {
		for _, uri := range uris {
			if pkgimage.IsSupportedFormat(uri.Path()) {
				mw.loadImage(uri.Path())
				return
			}
		}
	})

	mw.SetCloseIntercept(func() {
		mw.SavePreferences()
		mw.Close()
	})
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

func (mw *MainWindow) logError(msg string, err error) {
	logging.Logger().Error(msg, "error", err)
}

func (mw *MainWindow) onImageChanged(img image.Image, path string) {
	mw.canvas.SetImage(img)
	mw.fitToWindowItem.Checked = true
	mw.mainMenu.Refresh()
	mw.SetTitle(mw.tr.T("app.title") + " - " + filepath.Base(path))
	mw.refreshActions()
}

// refreshActions enables menu items according to controller state.
func (mw *MainWindow) refreshActions() {
	hasImage := mw.ctrl.HasImage()
	hasLines := len(mw.ctrl.SortedLines()) > 0

	mw.closeItem.Disabled = !hasImage
	mw.exportItem.Disabled = !hasImage
	mw.addLineItem.Disabled = !hasImage
	mw.clearLinesItem.Disabled = !hasImage || !hasLines
	mw.deleteLineItem.Disabled = !hasImage || mw.ctrl.SelectedID() == ""
	mw.undoItem.Disabled = !mw.ctrl.CanUndo()
	mw.redoItem.Disabled = !mw.ctrl.CanRedo()
	mw.mainMenu.Refresh()

	mw.sidePanel.Export.SetEnabled(hasImage)
}

func (mw *MainWindow) updateCoords(x, y float64, inside bool) {
	if !inside {
		mw.coordLabel.SetText(mw.tr.Tr("status.coord", map[string]any{"X": "-", "Y": "-"}))
		return
	}
	mw.coordLabel.SetText(mw.tr.Tr("status.coord", map[string]any{
		"X": fmt.Sprintf("%.1f", x),
		"Y": fmt.Sprintf("%.1f", y),
	}))
}

func (mw *MainWindow) updateSelectedLabel() {
	l, ok := mw.ctrl.Line(mw.ctrl.SelectedID())
	if !ok {
		mw.selectedLabel.SetText(mw.tr.T("status.selected.none"))
		return
	}
	mw.selectedLabel.SetText(mw.tr.Tr("status.selected.value", map[string]any{"Y": panels.FormatY(l.Y)}))
}

// retranslate refreshes all text after a language change.
func (mw *MainWindow) retranslate() {
	title := mw.tr.T("app.title")
	if path := mw.ctrl.ImagePath(); path != "" {
		title += " - " + filepath.Base(path)
	}
	mw.SetTitle(title)
	mw.setupMenus()
	mw.sidePanel.Retranslate()
	mw.updateCoords(0, 0, false)
	mw.updateSelectedLabel()
	mw.refreshActions()
}

// Menu action handlers

func (mw *MainWindow) onOpenImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		mw.loadImage(reader.URI().Path())
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(pkgimage.SupportedFormats()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.LastOpenDir()
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

func (mw *MainWindow) loadImage(path string) {
	if mw.ctrl.LoadImage(path) {
		mw.prefs.SetString(prefs.KeyLastOpenDir, filepath.Dir(path))
	}
}

func (mw *MainWindow) onAddLineAtCentre() {
	_, h, ok := mw.ctrl.ImageSize()
	if !ok {
		mw.ctrl.AddLine(0) // reports that an image is needed
		return
	}
	mw.ctrl.AddLine(float64(h) / 2)
}

func (mw *MainWindow) onExport() {
	ep := mw.sidePanel.Export
	mw.export(ep.Dir(), ep.Format(), ep.Quality())
}

func (mw *MainWindow) export(dir string, format guide.ExportFormat, quality int) {
	if dir == "" {
		dir = mw.prefs.LastExportDir()
	}
	mw.prefs.SetExportFormat(format)
	mw.prefs.SetInt(prefs.KeyJPEGQuality, quality)
	mw.prefs.SetString(prefs.KeyLastExportDir, dir)
	mw.ctrl.Export(dir, format, quality)
}

func (mw *MainWindow) onExportFinished(res guide.ExportResult) {
	if !res.Success() {
		dialog.ShowInformation(mw.tr.T("msgbox.export.errors.title"), strings.Join(res.Errors, "\n"), mw.Window)
		return
	}

	var parts []string
	if len(res.Written) > 0 {
		parts = append(parts, mw.tr.Tr("status.export_ok", map[string]any{
			"Count": len(res.Written),
			"Dir":   filepath.Dir(res.Written[0]),
		}))
	}
	if len(res.Skipped) > 0 {
		parts = append(parts, mw.tr.Tr("status.export_skipped", map[string]any{"Count": len(res.Skipped)}))
	}
	message := res.Summary()
	if len(parts) > 0 {
		message = strings.Join(parts, "\n")
	}
	dialog.ShowInformation(mw.tr.T("msgbox.export.ok.title"), message, mw.Window)
}

func (mw *MainWindow) setShowGrid(show bool) {
	mw.prefs.SetBool(prefs.KeyShowGrid, show)
	mw.canvas.SetGrid(show, mw.ctrl.GridSize())
	mw.showGridItem.Checked = show
	mw.mainMenu.Refresh()
	mw.sidePanel.Snap.SetShowGrid(show)
}

func (mw *MainWindow) onToggleGrid() {
	mw.setShowGrid(!mw.prefs.Bool(prefs.KeyShowGrid, false))
}

func (mw *MainWindow) onLanguage(code string) {
	mw.tr.SetLanguage(code)
}

func (mw *MainWindow) onZoomIn() {
	mw.disableFitToWindow()
	mw.canvas.ZoomIn()
}

func (mw *MainWindow) onZoomOut() {
	mw.disableFitToWindow()
	mw.canvas.ZoomOut()
}

func (mw *MainWindow) onToggleFitToWindow() {
	enabled := !mw.canvas.GetFitToWindow()
	mw.canvas.SetFitToWindow(enabled)
	mw.fitToWindowItem.Checked = enabled
	mw.mainMenu.Refresh()
}

func (mw *MainWindow) onActualSize() {
	mw.disableFitToWindow()
	mw.canvas.SetZoom(1.0)
}

func (mw *MainWindow) disableFitToWindow() {
	if mw.canvas.GetFitToWindow() {
		mw.canvas.SetFitToWindow(false)
		mw.fitToWindowItem.Checked = false
		mw.mainMenu.Refresh()
	}
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation(mw.tr.T("action.about"),
		mw.tr.Tr("dialog.about.body", map[string]any{
			"Version":   version.Version,
			"BuildTime": version.BuildTime,
			"GitCommit": version.GitCommit,
		}),
		mw.Window)
}

func formatZoom(zoom float64) string {
	return fmt.Sprintf("%.0f%%", zoom*100)
}
