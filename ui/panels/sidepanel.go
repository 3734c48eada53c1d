// Package panels provides UI panels for the application.
package panels

import (
	"image-splitter/internal/i18n"
	"image-splitter/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
)

// SidePanel stacks the snap, line list and export panels.
type SidePanel struct {
	Snap   *SnapPanel
	Lines  *LineListPanel
	Export *ExportPanel

	container fyne.CanvasObject
}

// NewSidePanel creates a side panel initialised from the saved preferences.
func NewSidePanel(tr *i18n.Translator, p *prefs.Prefs) *SidePanel {
	sp := &SidePanel{
		Snap:   NewSnapPanel(tr, p.SnapMode(), p.GridSize(), p.Bool(prefs.KeyShowGrid, false)),
		Lines:  NewLineListPanel(tr),
		Export: NewExportPanel(tr, p.LastExportDir(), p.ExportFormat(), p.JPEGQuality()),
	}

	sp.container = container.NewBorder(
		sp.Snap.Container(),
		sp.Export.Container(),
		nil, nil,
		sp.Lines.Container(),
	)
	return sp
}

// Container returns the panel container.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.container
}

// SetWindow sets the parent window for dialogs.
func (sp *SidePanel) SetWindow(w fyne.Window) {
	sp.Export.SetWindow(w)
}

// Retranslate refreshes all user-visible text.
func (sp *SidePanel) Retranslate() {
	sp.Snap.Retranslate()
	sp.Lines.Retranslate()
	sp.Export.Retranslate()
}
