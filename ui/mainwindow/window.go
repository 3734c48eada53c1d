// Package mainwindow provides the main application window.
package mainwindow

import (
	"image-splitter/internal/app"
	"image-splitter/internal/i18n"
	"image-splitter/ui/canvas"
	"image-splitter/ui/panels"
	"image-splitter/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	ctrl  *app.Controller
	tr    *i18n.Translator
	prefs *prefs.Prefs

	canvas    *canvas.GuideCanvas
	sidePanel *panels.SidePanel

	statusBar     *widget.Label
	coordLabel    *widget.Label
	selectedLabel *widget.Label
	zoomLabel     *widget.Label

	// Menu items that need state tracking
	mainMenu        *fyne.MainMenu
	closeItem       *fyne.MenuItem
	exportItem      *fyne.MenuItem
	undoItem        *fyne.MenuItem
	redoItem        *fyne.MenuItem
	addLineItem     *fyne.MenuItem
	deleteLineItem  *fyne.MenuItem
	clearLinesItem  *fyne.MenuItem
	showGridItem    *fyne.MenuItem
	fitToWindowItem *fyne.MenuItem
	languageItems   map[string]*fyne.MenuItem
}

// New creates a new main window.
func New(fyneApp fyne.App, ctrl *app.Controller, tr *i18n.Translator, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow(tr.T("app.title"))

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		ctrl:   ctrl,
		tr:     tr,
		prefs:  p,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupShortcuts()
	mw.setupEventHandlers()
	mw.restoreSettings()
	mw.refreshActions()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewGuideCanvas()
	mw.canvas.SetNormalizer(mw.ctrl.NormalizeY)

	mw.sidePanel = panels.NewSidePanel(mw.tr, mw.prefs)
	mw.sidePanel.SetWindow(mw.Window)

	mw.statusBar = widget.NewLabel(mw.tr.T("status.ready"))
	mw.coordLabel = widget.NewLabel("")
	mw.selectedLabel = widget.NewLabel("")
	mw.zoomLabel = widget.NewLabel(formatZoom(mw.canvas.GetZoom()))
	mw.canvas.OnZoomChange(func(zoom float64) {
		mw.zoomLabel.SetText(formatZoom(zoom))
	})

	toolbar := mw.createToolbar()

	canvasArea := container.NewBorder(
		toolbar,               // top
		nil,                   // bottom
		nil,                   // left
		nil,                   // right
		mw.canvas.Container(), // center
	)

	// Main layout: canvas area | side panel
	split := container.NewHSplit(
		canvasArea,
		mw.sidePanel.Container(),
	)
	split.SetOffset(0.72)

	status := container.NewBorder(nil, nil, nil,
		container.NewHBox(mw.coordLabel, mw.selectedLabel),
		mw.statusBar,
	)

	content := container.NewBorder(
		nil,                        // top
		container.NewPadded(status), // bottom
		nil,                        // left
		nil,                        // right
		split,                      // center
	)

	mw.SetContent(content)
	mw.updateCoords(0, 0, false)
	mw.updateSelectedLabel()
}

// createToolbar creates the toolbar with zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	zoomOutBtn := widget.NewButton("-", mw.onZoomOut)
	zoomInBtn := widget.NewButton("+", mw.onZoomIn)
	fitBtn := widget.NewButton("Fit", mw.onToggleFitToWindow)
	actualBtn := widget.NewButton("1:1", mw.onActualSize)

	return container.NewHBox(
		zoomOutBtn,
		zoomInBtn,
		fitBtn,
		actualBtn,
		mw.zoomLabel,
	)
}

// setupMenus creates the application menus. It is called again when the
// language changes.
func (mw *MainWindow) setupMenus() {
	t := mw.tr.T

	mw.closeItem = fyne.NewMenuItem(t("action.close_image"), mw.ctrl.CloseImage)
	mw.exportItem = fyne.NewMenuItem(t("action.export"), mw.onExport)
	quitItem := fyne.NewMenuItem(t("action.quit"), func() { mw.Close() })
	quitItem.IsQuit = true
	fileMenu := fyne.NewMenu(t("menu.file"),
		fyne.NewMenuItem(t("action.open"), mw.onOpenImage),
		mw.closeItem,
		fyne.NewMenuItemSeparator(),
		mw.exportItem,
		fyne.NewMenuItemSeparator(),
		quitItem,
	)

	mw.undoItem = fyne.NewMenuItem(t("action.undo"), mw.ctrl.Undo)
	mw.redoItem = fyne.NewMenuItem(t("action.redo"), mw.ctrl.Redo)
	editMenu := fyne.NewMenu(t("menu.edit"), mw.undoItem, mw.redoItem)

	mw.addLineItem = fyne.NewMenuItem(t("action.add_line"), mw.onAddLineAtCentre)
	mw.deleteLineItem = fyne.NewMenuItem(t("action.delete_line"), func() { mw.ctrl.DeleteLine("") })
	mw.clearLinesItem = fyne.NewMenuItem(t("action.clear_guides"), mw.ctrl.ClearLines)
	guidesMenu := fyne.NewMenu(t("menu.guides"), mw.addLineItem, mw.deleteLineItem, mw.clearLinesItem)

	mw.showGridItem = fyne.NewMenuItem(t("action.show_grid"), mw.onToggleGrid)
	mw.showGridItem.Checked = mw.prefs.Bool(prefs.KeyShowGrid, false)
	mw.fitToWindowItem = fyne.NewMenuItem(t("action.fit"), mw.onToggleFitToWindow)
	mw.fitToWindowItem.Checked = mw.canvas.GetFitToWindow()
	viewMenu := fyne.NewMenu(t("menu.view"),
		fyne.NewMenuItem(t("action.zoom_in"), mw.onZoomIn),
		fyne.NewMenuItem(t("action.zoom_out"), mw.onZoomOut),
		mw.fitToWindowItem,
		fyne.NewMenuItem(t("action.actual_size"), mw.onActualSize),
		fyne.NewMenuItemSeparator(),
		mw.showGridItem,
	)

	mw.languageItems = make(map[string]*fyne.MenuItem)
	var langItems []*fyne.MenuItem
	for _, lang := range i18n.Languages() {
		code := lang.Code
		item := fyne.NewMenuItem(lang.Name, func() { mw.onLanguage(code) })
		item.Checked = code == mw.tr.Language()
		mw.languageItems[code] = item
		langItems = append(langItems, item)
	}
	languageMenu := fyne.NewMenu(t("menu.language"), langItems...)

	helpMenu := fyne.NewMenu(t("menu.help"),
		fyne.NewMenuItem(t("action.about"), mw.onAbout),
	)

	mw.mainMenu = fyne.NewMainMenu(fileMenu, editMenu, guidesMenu, viewMenu, languageMenu, helpMenu)
	mw.SetMainMenu(mw.mainMenu)
}

// setupShortcuts registers keyboard shortcuts on the window canvas.
func (mw *MainWindow) setupShortcuts() {
	c := mw.Canvas()
	add := func(key fyne.KeyName, mod fyne.KeyModifier, fn func()) {
		c.AddShortcut(&desktop.CustomShortcut{KeyName: key, Modifier: mod}, func(fyne.Shortcut) { fn() })
	}
	ctrl := fyne.KeyModifierShortcutDefault

	add(fyne.KeyO, ctrl, mw.onOpenImage)
	add(fyne.KeyW, ctrl, mw.ctrl.CloseImage)
	add(fyne.KeyE, ctrl, mw.onExport)
	add(fyne.KeyZ, ctrl, mw.ctrl.Undo)
	add(fyne.KeyY, ctrl, mw.ctrl.Redo)
	add(fyne.KeyZ, ctrl|fyne.KeyModifierShift, mw.ctrl.Redo)

	c.SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if c.Focused() != nil {
			return // typing into a field
		}
		switch ev.Name {
		case fyne.KeyDelete, fyne.KeyBackspace:
			mw.ctrl.DeleteLine("")
		}
	})
}

// restoreSettings applies saved preferences to the controller and window.
func (mw *MainWindow) restoreSettings() {
	mw.ctrl.SetGridSize(mw.prefs.GridSize())
	mw.ctrl.SetSnapMode(mw.prefs.SnapMode())
	mw.canvas.SetGrid(mw.prefs.Bool(prefs.KeyShowGrid, false), mw.prefs.GridSize())

	w := mw.prefs.FloatWithFallback(prefs.KeyWindowWidth, 1200)
	h := mw.prefs.FloatWithFallback(prefs.KeyWindowHeight, 800)
	mw.Resize(fyne.NewSize(float32(w), float32(h)))
	mw.statusBar.SetText(mw.tr.T("status.ready"))
}

// SavePreferences stores the window size and writes preferences to disk.
func (mw *MainWindow) SavePreferences() {
	size := mw.Canvas().Size()
	if size.Width > 0 && size.Height > 0 {
		mw.prefs.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
		mw.prefs.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
	}
	if err := mw.prefs.Save(); err != nil {
		mw.logError("Failed to save preferences", err)
	}
}
