package panels

import (
	"strconv"
	"strings"

	"image-splitter/internal/guide"
	"image-splitter/internal/i18n"
	"image-splitter/pkg/geometry"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// LineListPanel lists the guides with an editable y and a lock toggle.
type LineListPanel struct {
	tr         *i18n.Translator
	lines      []guide.Line
	selectedID string
	syncing    bool // true while the list is updated programmatically

	list   *widget.List
	header *fyne.Container
	yHead  *widget.Label
	lkHead *widget.Label
	card   *widget.Card

	onSelect func(id string)
	onMoveY  func(id string, y float64)
	onLock   func(id string, locked bool)
}

// NewLineListPanel creates an empty line list.
func NewLineListPanel(tr *i18n.Translator) *LineListPanel {
	lp := &LineListPanel{tr: tr}

	lp.list = widget.NewList(
		func() int {
			return len(lp.lines)
		},
		func() fyne.CanvasObject {
			entry := widget.NewEntry()
			check := widget.NewCheck("", nil)
			return container.NewBorder(nil, nil, nil, check, entry)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < 0 || id >= len(lp.lines) {
				return
			}
			row := obj.(*fyne.Container)
			lp.bindRow(lp.lines[id], row.Objects[0].(*widget.Entry), row.Objects[1].(*widget.Check))
		},
	)
	lp.list.OnSelected = func(id widget.ListItemID) {
		if lp.syncing || id < 0 || id >= len(lp.lines) {
			return
		}
		if lp.onSelect != nil {
			lp.onSelect(lp.lines[id].ID)
		}
	}

	lp.yHead = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	lp.lkHead = widget.NewLabelWithStyle("", fyne.TextAlignTrailing, fyne.TextStyle{Bold: true})
	lp.header = container.NewBorder(nil, nil, nil, lp.lkHead, lp.yHead)

	listScroll := container.NewVScroll(lp.list)
	listScroll.SetMinSize(fyne.NewSize(0, 200))
	lp.card = widget.NewCard("", "", container.NewBorder(lp.header, nil, nil, nil, listScroll))

	lp.Retranslate()
	return lp
}

// bindRow points a recycled row at line.
func (lp *LineListPanel) bindRow(line guide.Line, entry *widget.Entry, check *widget.Check) {
	entry.OnSubmitted = nil
	entry.SetText(FormatY(line.Y))
	if line.Locked {
		entry.Disable()
	} else {
		entry.Enable()
	}
	entry.OnSubmitted = func(text string) {
		y, ok := ParseY(text)
		if !ok {
			entry.SetText(FormatY(line.Y))
			return
		}
		if lp.onMoveY != nil {
			lp.onMoveY(line.ID, y)
		}
	}

	check.OnChanged = nil
	check.SetChecked(line.Locked)
	check.OnChanged = func(locked bool) {
		if lp.onLock != nil {
			lp.onLock(line.ID, locked)
		}
	}
}

// Container returns the panel container.
func (lp *LineListPanel) Container() fyne.CanvasObject {
	return lp.card
}

// Retranslate refreshes all user-visible text.
func (lp *LineListPanel) Retranslate() {
	lp.card.SetTitle(lp.tr.T("guides.title"))
	lp.yHead.SetText(lp.tr.T("table.y"))
	lp.lkHead.SetText(lp.tr.T("table.locked"))
}

// SetLines replaces the listed guides.
func (lp *LineListPanel) SetLines(lines []guide.Line) {
	lp.lines = guide.SortByY(lines)
	lp.list.Refresh()
	lp.SetSelected(lp.selectedID)
}

// SetSelected highlights the row for id; "" clears the selection.
func (lp *LineListPanel) SetSelected(id string) {
	lp.selectedID = id
	lp.syncing = true
	defer func() { lp.syncing = false }()

	if idx := lp.indexOf(id); idx >= 0 {
		lp.list.Select(idx)
		return
	}
	lp.list.UnselectAll()
}

func (lp *LineListPanel) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, l := range lp.lines {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// OnSelect sets the callback for a row selection by the user.
func (lp *LineListPanel) OnSelect(callback func(id string)) {
	lp.onSelect = callback
}

// OnMoveY sets the callback for a submitted y edit.
func (lp *LineListPanel) OnMoveY(callback func(id string, y float64)) {
	lp.onMoveY = callback
}

// OnLock sets the callback for a lock toggle.
func (lp *LineListPanel) OnLock(callback func(id string, locked bool)) {
	lp.onLock = callback
}

// FormatY renders a guide position with one decimal.
func FormatY(y float64) string {
	return strconv.FormatFloat(y, 'f', 1, 64)
}

// ParseY parses a user-entered guide position. "NaN" and "Inf" are refused.
func ParseY(text string) (float64, bool) {
	y, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || !geometry.Finite(y) {
		return 0, false
	}
	return y, true
}
