package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// FolderButton asks for a folder and then shows the chosen path in its label
type FolderButton struct {
	button *widget.Button
	prompt string
	prefix string
	path   string
}

// NewFolderButton shows prompt until a folder is chosen, then prefix + path.
func NewFolderButton(prompt, prefix string, onTapped func()) *FolderButton {
	fb := &FolderButton{prompt: prompt, prefix: prefix}
	fb.button = widget.NewButtonWithIcon(prompt, theme.FolderOpenIcon(), onTapped)
	fb.button.Alignment = widget.ButtonAlignLeading
	return fb
}

// SetPath records the selected folder. An empty path keeps the previous one.
func (fb *FolderButton) SetPath(path string) {
	if path == "" {
		return
	}
	fyne.Do(func() {
		fb.path = path
		fb.button.SetText(fb.prefix + path)
	})
}

func (fb *FolderButton) Path() string {
	return fb.path
}

func (fb *FolderButton) Text() string {
	return fb.button.Text
}

func (fb *FolderButton) SetEnabled(enabled bool) {
	fyne.Do(func() {
		if enabled {
			fb.button.Enable()
		} else {
			fb.button.Disable()
		}
	})
}

func (fb *FolderButton) Widget() *widget.Button {
	return fb.button
}
