package views

import (
	"image-finder/internal/models"
	"image-finder/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// Options carries presentation settings from configuration
type Options struct {
	Watermark string
}

// MainView is the single application window layout
type MainView struct {
	window        fyne.Window
	mainContainer *fyne.Container

	sourceButton *components.FolderButton
	destButton   *components.FolderButton
	serialsEntry *widget.Entry
	actionBar    *components.ActionBar
	resultList   *components.ResultList
	progressBar  *components.ProgressBar
	statusBar    *components.StatusBar

	// Event handlers - connected to controller
	selectSourceHandler func()
	selectDestHandler   func()
	startHandler        func()
	cancelHandler       func()
	clearHandler        func()
}

// NewMainView builds the window content
func NewMainView(window fyne.Window, opts Options) *MainView {
	view := &MainView{
		window: window,
	}

	view.initializeComponents(opts)
	view.buildLayout()
	view.setupEventHandlers()

	return view
}

func (mv *MainView) initializeComponents(opts Options) {
	mv.sourceButton = components.NewFolderButton("Select source folder", "Source: ", func() {
		if mv.selectSourceHandler != nil {
			mv.selectSourceHandler()
		}
	})
	mv.destButton = components.NewFolderButton("Select destination folder", "Destination: ", func() {
		if mv.selectDestHandler != nil {
			mv.selectDestHandler()
		}
	})

	mv.serialsEntry = widget.NewMultiLineEntry()
	mv.serialsEntry.SetPlaceHolder("One serial per line")
	mv.serialsEntry.Wrapping = fyne.TextWrapOff
	mv.serialsEntry.SetMinRowsVisible(5)

	mv.actionBar = components.NewActionBar()
	mv.resultList = components.NewResultList()
	mv.progressBar = components.NewProgressBar()
	mv.statusBar = components.NewStatusBar(opts.Watermark)
}

func (mv *MainView) buildLayout() {
	top := container.NewVBox(
		mv.sourceButton.Widget(),
		mv.destButton.Widget(),
		widget.NewLabel("Paste serial list:"),
	)

	bottom := container.NewVBox(
		mv.progressBar.GetContainer(),
		mv.statusBar.GetContainer(),
	)

	// Serial input and results share the remaining height.
	split := container.NewVSplit(
		mv.serialsEntry,
		container.NewBorder(mv.actionBar.GetContainer(), nil, nil, nil, mv.resultList.Widget()),
	)
	split.SetOffset(0.4)

	mv.mainContainer = container.NewBorder(top, bottom, nil, nil, split)
	mv.window.SetContent(mv.mainContainer)
}

func (mv *MainView) setupEventHandlers() {
	mv.actionBar.SetStartHandler(func() {
		if mv.startHandler != nil {
			mv.startHandler()
		}
	})
	mv.actionBar.SetCancelHandler(func() {
		if mv.cancelHandler != nil {
			mv.cancelHandler()
		}
	})
	mv.actionBar.SetClearHandler(func() {
		if mv.clearHandler != nil {
			mv.clearHandler()
		}
	})
}

// Event handler setters - called by controller

func (mv *MainView) SetSelectSourceHandler(handler func())      { mv.selectSourceHandler = handler }
func (mv *MainView) SetSelectDestinationHandler(handler func()) { mv.selectDestHandler = handler }
func (mv *MainView) SetStartHandler(handler func())             { mv.startHandler = handler }
func (mv *MainView) SetCancelHandler(handler func())            { mv.cancelHandler = handler }
func (mv *MainView) SetClearHandler(handler func())             { mv.clearHandler = handler }

// UI update methods - called by controller

func (mv *MainView) SetSource(path string)      { mv.sourceButton.SetPath(path) }
func (mv *MainView) SetDestination(path string) { mv.destButton.SetPath(path) }
func (mv *MainView) Source() string             { return mv.sourceButton.Path() }
func (mv *MainView) Destination() string        { return mv.destButton.Path() }

// SerialText returns the raw pasted serial list
func (mv *MainView) SerialText() string {
	return mv.serialsEntry.Text
}

func (mv *MainView) SetSerialText(text string) {
	fyne.Do(func() {
		mv.serialsEntry.SetText(text)
	})
}

// SetRunning locks inputs while a run is active
func (mv *MainView) SetRunning(running bool) {
	mv.actionBar.SetRunning(running)
	mv.sourceButton.SetEnabled(!running)
	mv.destButton.SetEnabled(!running)
	fyne.Do(func() {
		if running {
			mv.serialsEntry.Disable()
		} else {
			mv.serialsEntry.Enable()
		}
	})
}

// AppendResult adds one colored row to the result list
func (mv *MainView) AppendResult(res models.Result) {
	fyne.Do(func() {
		mv.resultList.Append(res)
	})
}

func (mv *MainView) ClearResults() {
	fyne.Do(func() {
		mv.resultList.Clear()
	})
	mv.progressBar.Reset()
}

func (mv *MainView) ResultCount() int {
	return mv.resultList.Len()
}

// UpdateProgress shows the number of processed lines and the current serial
func (mv *MainView) UpdateProgress(state models.RunState) {
	mv.progressBar.SetProgress(state.Done, state.Total)
	mv.progressBar.SetStage(state.CurrentSerial)
}

// UpdateStatus updates the status bar message
func (mv *MainView) UpdateStatus(status string) {
	mv.statusBar.SetStatus(status)
}

func (mv *MainView) Status() string {
	return mv.statusBar.GetStatus()
}

// ShowError displays an error dialog
func (mv *MainView) ShowError(err error) {
	fyne.Do(func() {
		dialog.ShowError(err, mv.window)
	})
}

// ShowInfo displays an information dialog
func (mv *MainView) ShowInfo(title, message string) {
	fyne.Do(func() {
		dialog.ShowInformation(title, message, mv.window)
	})
}

// ShowConfirm displays a confirmation dialog; No is the default answer
func (mv *MainView) ShowConfirm(title, message string, callback func(bool)) {
	fyne.Do(func() {
		d := dialog.NewConfirm(title, message, callback, mv.window)
		d.SetDismissText("No")
		d.SetConfirmText("Yes")
		d.Show()
	})
}

// ShowFolderDialog asks for a directory and passes its local path to
// callback. Cancelling the dialog passes an empty path.
func (mv *MainView) ShowFolderDialog(callback func(path string, err error)) {
	fyne.Do(func() {
		dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
			if err != nil || uri == nil {
				callback("", err)
				return
			}
			callback(uri.Path(), nil)
		}, mv.window)
	})
}

// Show displays the main window
func (mv *MainView) Show() {
	mv.window.Show()
}
