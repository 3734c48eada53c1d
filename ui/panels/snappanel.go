package panels

import (
	"strconv"

	"image-splitter/internal/i18n"
	"image-splitter/pkg/geometry"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// SnapPanel edits the snap mode, grid size and grid overlay.
type SnapPanel struct {
	tr *i18n.Translator

	modeSelect *widget.Select
	gridEntry  *widget.Entry
	showGrid   *widget.Check
	modeLabel  *widget.Label
	gridLabel  *widget.Label
	card       *widget.Card

	mode     geometry.SnapMode
	gridSize int

	onModeChange func(mode geometry.SnapMode)
	onGridChange func(size int)
	onShowGrid   func(show bool)
}

// NewSnapPanel creates a snap panel showing mode and gridSize.
func NewSnapPanel(tr *i18n.Translator, mode geometry.SnapMode, gridSize int, showGrid bool) *SnapPanel {
	sp := &SnapPanel{tr: tr, mode: mode, gridSize: max(1, gridSize)}

	sp.modeSelect = widget.NewSelect(nil, nil)
	sp.gridEntry = widget.NewEntry()
	sp.gridEntry.SetText(strconv.Itoa(sp.gridSize))
	sp.gridEntry.OnSubmitted = sp.submitGrid
	sp.gridEntry.Validator = func(s string) error {
		_, err := strconv.Atoi(s)
		return err
	}

	sp.showGrid = widget.NewCheck("", func(show bool) {
		if sp.onShowGrid != nil {
			sp.onShowGrid(show)
		}
	})
	sp.showGrid.Checked = showGrid

	sp.modeLabel = widget.NewLabel("")
	sp.gridLabel = widget.NewLabel("")
	form := container.New(layout.NewFormLayout(),
		sp.modeLabel, sp.modeSelect,
		sp.gridLabel, sp.gridEntry,
	)
	sp.card = widget.NewCard("", "", container.NewVBox(form, sp.showGrid))

	sp.Retranslate()
	return sp
}

func (sp *SnapPanel) submitGrid(text string) {
	n, err := strconv.Atoi(text)
	if err != nil {
		sp.gridEntry.SetText(strconv.Itoa(sp.gridSize))
		return
	}
	sp.gridSize = max(1, n)
	sp.gridEntry.SetText(strconv.Itoa(sp.gridSize))
	if sp.onGridChange != nil {
		sp.onGridChange(sp.gridSize)
	}
}

// Container returns the panel container.
func (sp *SnapPanel) Container() fyne.CanvasObject {
	return sp.card
}

// Retranslate refreshes all user-visible text.
func (sp *SnapPanel) Retranslate() {
	sp.card.SetTitle(sp.tr.T("snap.title"))
	sp.modeLabel.SetText(sp.tr.T("snap.mode"))
	sp.gridLabel.SetText(sp.tr.T("snap.grid_size"))
	sp.showGrid.SetText(sp.tr.T("action.show_grid"))

	modes := geometry.SnapModes()
	options := make([]string, len(modes))
	selected := 0
	for i, m := range modes {
		options[i] = sp.tr.T("snap." + m.String())
		if m == sp.mode {
			selected = i
		}
	}

	sp.modeSelect.OnChanged = nil
	sp.modeSelect.Options = options
	sp.modeSelect.SetSelectedIndex(selected)
	sp.modeSelect.OnChanged = func(string) {
		idx := sp.modeSelect.SelectedIndex()
		if idx < 0 || idx >= len(modes) {
			return
		}
		sp.mode = modes[idx]
		if sp.onModeChange != nil {
			sp.onModeChange(sp.mode)
		}
	}
}

// SetShowGrid updates the grid checkbox without notifying.
func (sp *SnapPanel) SetShowGrid(show bool) {
	sp.showGrid.Checked = show
	sp.showGrid.Refresh()
}

// OnModeChange sets the callback for snap mode changes.
func (sp *SnapPanel) OnModeChange(callback func(mode geometry.SnapMode)) {
	sp.onModeChange = callback
}

// OnGridChange sets the callback for grid size changes.
func (sp *SnapPanel) OnGridChange(callback func(size int)) {
	sp.onGridChange = callback
}

// OnShowGrid sets the callback for the grid overlay toggle.
func (sp *SnapPanel) OnShowGrid(callback func(show bool)) {
	sp.onShowGrid = callback
}
