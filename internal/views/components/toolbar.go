package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// ActionBar holds the run controls
type ActionBar struct {
	container    *fyne.Container
	startButton  *widget.Button
	cancelButton *widget.Button
	clearButton  *widget.Button

	startHandler  func()
	cancelHandler func()
	clearHandler  func()
}

// NewActionBar creates the start/cancel/clear controls
func NewActionBar() *ActionBar {
	ab := &ActionBar{}
	ab.createComponents()
	ab.buildLayout()
	ab.setupEventHandlers()
	return ab
}

func (ab *ActionBar) createComponents() {
	ab.startButton = widget.NewButtonWithIcon("Start search and copy", theme.MediaPlayIcon(), nil)
	ab.startButton.Importance = widget.HighImportance

	ab.cancelButton = widget.NewButtonWithIcon("Cancel", theme.CancelIcon(), nil)
	ab.cancelButton.Disable()

	ab.clearButton = widget.NewButtonWithIcon("Clear results", theme.ContentClearIcon(), nil)
}

func (ab *ActionBar) buildLayout() {
	ab.container = container.NewBorder(nil, nil, nil,
		container.NewHBox(ab.cancelButton, ab.clearButton),
		ab.startButton,
	)
}

func (ab *ActionBar) setupEventHandlers() {
	ab.startButton.OnTapped = func() {
		if ab.startHandler != nil {
			ab.startHandler()
		}
	}
	ab.cancelButton.OnTapped = func() {
		if ab.cancelHandler != nil {
			ab.cancelHandler()
		}
	}
	ab.clearButton.OnTapped = func() {
		if ab.clearHandler != nil {
			ab.clearHandler()
		}
	}
}

func (ab *ActionBar) SetStartHandler(handler func())  { ab.startHandler = handler }
func (ab *ActionBar) SetCancelHandler(handler func()) { ab.cancelHandler = handler }
func (ab *ActionBar) SetClearHandler(handler func())  { ab.clearHandler = handler }

// SetRunning toggles which controls are usable while a run is active
func (ab *ActionBar) SetRunning(running bool) {
	fyne.Do(func() {
		if running {
			ab.startButton.Disable()
			ab.clearButton.Disable()
			ab.cancelButton.Enable()
		} else {
			ab.startButton.Enable()
			ab.clearButton.Enable()
			ab.cancelButton.Disable()
		}
	})
}

// GetContainer returns the action bar container
func (ab *ActionBar) GetContainer() *fyne.Container {
	return ab.container
}

func (ab *ActionBar) StartButton() *widget.Button  { return ab.startButton }
func (ab *ActionBar) CancelButton() *widget.Button { return ab.cancelButton }
