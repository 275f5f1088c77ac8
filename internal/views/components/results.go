package components

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"image-finder/internal/models"
)

var outcomeColors = map[models.Outcome]color.NRGBA{
	models.Copied:   {R: 0x2e, G: 0x9d, B: 0x45, A: 0xff},
	models.Existing: {R: 0x2f, G: 0x6f, B: 0xd6, A: 0xff},
	models.NotFound: {R: 0xf0, G: 0x8c, B: 0x1a, A: 0xff},
	models.Skipped:  {R: 0x8a, G: 0x8a, B: 0x8a, A: 0xff},
	models.Failed:   {R: 0xd0, G: 0x33, B: 0x33, A: 0xff},
}

// OutcomeColor returns the row background for an outcome.
func OutcomeColor(o models.Outcome) color.Color {
	if c, ok := outcomeColors[o]; ok {
		return c
	}
	return color.Transparent
}

// ResultList renders results as colored rows
type ResultList struct {
	list    *widget.List
	results []models.Result
}

func NewResultList() *ResultList {
	rl := &ResultList{results: make([]models.Result, 0)}
	rl.list = widget.NewList(
		func() int { return len(rl.results) },
		func() fyne.CanvasObject {
			bg := canvas.NewRectangle(color.Transparent)
			label := widget.NewLabel("template")
			label.Truncation = fyne.TextTruncateEllipsis
			return container.NewStack(bg, label)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < 0 || id >= len(rl.results) {
				return
			}
			res := rl.results[id]
			stack := obj.(*fyne.Container)
			bg := stack.Objects[0].(*canvas.Rectangle)
			label := stack.Objects[1].(*widget.Label)
			bg.FillColor = OutcomeColor(res.Outcome)
			bg.Refresh()
			label.SetText(res.Describe())
		},
	)
	return rl
}

// Append adds a row and scrolls to it. Must be called on the UI goroutine.
func (rl *ResultList) Append(res models.Result) {
	rl.results = append(rl.results, res)
	rl.list.Refresh()
	rl.list.ScrollToBottom()
}

func (rl *ResultList) Clear() {
	rl.results = rl.results[:0]
	rl.list.UnselectAll()
	rl.list.Refresh()
}

func (rl *ResultList) Len() int {
	return len(rl.results)
}

func (rl *ResultList) Widget() *widget.List {
	return rl.list
}
