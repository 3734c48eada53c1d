package panels

import (
	"strconv"

	"image-splitter/internal/guide"
	"image-splitter/internal/i18n"
	pkgimage "image-splitter/internal/image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

// ExportPanel holds the export destination, format and quality.
type ExportPanel struct {
	tr     *i18n.Translator
	window fyne.Window

	dirEntry      *widget.Entry
	browseButton  *widget.Button
	formatSelect  *widget.Select
	qualitySlider *widget.Slider
	qualityValue  *widget.Label
	qualityHint   *widget.Label
	exportButton  *widget.Button
	dirLabel      *widget.Label
	formatLabel   *widget.Label
	qualityLabel  *widget.Label
	qualityRow    *fyne.Container
	card          *widget.Card

	format guide.ExportFormat

	onExport    func(dir string, format guide.ExportFormat, quality int)
	onDirChosen func(dir string)
}

// NewExportPanel creates an export panel with the given initial settings.
func NewExportPanel(tr *i18n.Translator, dir string, format guide.ExportFormat, quality int) *ExportPanel {
	ep := &ExportPanel{tr: tr, format: format}

	ep.dirEntry = widget.NewEntry()
	ep.dirEntry.SetText(dir)
	ep.browseButton = widget.NewButton("", ep.browse)

	ep.formatSelect = widget.NewSelect(nil, nil)

	ep.qualitySlider = widget.NewSlider(1, 100)
	ep.qualitySlider.Step = 1
	ep.qualityValue = widget.NewLabel("")
	ep.qualitySlider.OnChanged = func(v float64) {
		ep.qualityValue.SetText(strconv.Itoa(int(v)))
	}
	ep.qualitySlider.SetValue(float64(pkgimage.ClampQuality(quality)))
	ep.qualityHint = widget.NewLabel("")
	ep.qualityHint.Importance = widget.LowImportance

	ep.exportButton = widget.NewButton("", func() {
		if ep.onExport != nil {
			ep.onExport(ep.Dir(), ep.format, ep.Quality())
		}
	})
	ep.exportButton.Importance = widget.HighImportance

	ep.dirLabel = widget.NewLabel("")
	ep.formatLabel = widget.NewLabel("")
	ep.qualityLabel = widget.NewLabel("")

	form := container.New(layout.NewFormLayout(),
		ep.dirLabel, container.NewBorder(nil, nil, nil, ep.browseButton, ep.dirEntry),
		ep.formatLabel, ep.formatSelect,
	)
	ep.qualityRow = container.NewBorder(nil, nil, ep.qualityLabel, ep.qualityValue, ep.qualitySlider)
	ep.card = widget.NewCard("", "", container.NewVBox(form, ep.qualityRow, ep.qualityHint, ep.exportButton))

	ep.Retranslate()
	return ep
}

// SetWindow sets the parent window for dialogs.
func (ep *ExportPanel) SetWindow(w fyne.Window) {
	ep.window = w
}

func (ep *ExportPanel) browse() {
	if ep.window == nil {
		return
	}
	d := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		ep.dirEntry.SetText(uri.Path())
		if ep.onDirChosen != nil {
			ep.onDirChosen(uri.Path())
		}
	}, ep.window)
	if lister, err := storage.ListerForURI(storage.NewFileURI(ep.Dir())); err == nil {
		d.SetLocation(lister)
	}
	d.Show()
}

// Container returns the panel container.
func (ep *ExportPanel) Container() fyne.CanvasObject {
	return ep.card
}

// Retranslate refreshes all user-visible text.
func (ep *ExportPanel) Retranslate() {
	ep.card.SetTitle(ep.tr.T("export.title"))
	ep.dirLabel.SetText(ep.tr.T("export.output_dir"))
	ep.formatLabel.SetText(ep.tr.T("export.format"))
	ep.qualityLabel.SetText(ep.tr.T("export.jpeg_quality"))
	ep.browseButton.SetText(ep.tr.T("export.browse"))
	ep.exportButton.SetText(ep.tr.T("export.button"))

	formats := guide.ExportFormats()
	options := make([]string, len(formats))
	selected := 0
	for i, f := range formats {
		options[i] = ep.tr.T("format." + string(f))
		if f == ep.format {
			selected = i
		}
	}

	ep.formatSelect.OnChanged = nil
	ep.formatSelect.Options = options
	ep.formatSelect.SetSelectedIndex(selected)
	ep.formatSelect.OnChanged = func(string) {
		if idx := ep.formatSelect.SelectedIndex(); idx >= 0 && idx < len(formats) {
			ep.format = formats[idx]
		}
		ep.updateQuality()
	}
	ep.updateQuality()
}

// updateQuality shows the quality slider for JPEG only.
func (ep *ExportPanel) updateQuality() {
	if ep.format == guide.FormatJPEG {
		ep.qualityRow.Show()
		ep.qualityHint.SetText("")
		ep.qualityHint.Hide()
		return
	}
	ep.qualityRow.Hide()
	ep.qualityHint.SetText(ep.tr.T("tooltip.quality_only_jpeg"))
	ep.qualityHint.Show()
}

// SetEnabled enables or disables the export button.
func (ep *ExportPanel) SetEnabled(enabled bool) {
	if enabled {
		ep.exportButton.Enable()
	} else {
		ep.exportButton.Disable()
	}
}

// Dir returns the chosen export root.
func (ep *ExportPanel) Dir() string {
	return ep.dirEntry.Text
}

// Format returns the chosen export format.
func (ep *ExportPanel) Format() guide.ExportFormat {
	return ep.format
}

// Quality returns the chosen JPEG quality.
func (ep *ExportPanel) Quality() int {
	return pkgimage.ClampQuality(int(ep.qualitySlider.Value))
}

// OnExport sets the callback for the export button.
func (ep *ExportPanel) OnExport(callback func(dir string, format guide.ExportFormat, quality int)) {
	ep.onExport = callback
}

// OnDirChosen sets the callback for a directory picked in the dialog.
func (ep *ExportPanel) OnDirChosen(callback func(dir string)) {
	ep.onDirChosen = callback
}
