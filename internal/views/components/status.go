package components

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// StatusBar displays the current activity and the watermark
type StatusBar struct {
	container      *fyne.Container
	statusLabel    *widget.Label
	watermarkLabel *widget.Label
}

// NewStatusBar creates a new status bar component
func NewStatusBar(watermark string) *StatusBar {
	sb := &StatusBar{}
	sb.createComponents(watermark)
	sb.buildLayout()
	return sb
}

func (sb *StatusBar) createComponents(watermark string) {
	sb.statusLabel = widget.NewLabel("Ready")
	sb.statusLabel.Truncation = fyne.TextTruncateEllipsis
	sb.watermarkLabel = widget.NewLabelWithStyle(watermark, fyne.TextAlignTrailing, fyne.TextStyle{Italic: true})
	sb.watermarkLabel.Importance = widget.LowImportance
}

func (sb *StatusBar) buildLayout() {
	sb.container = container.NewBorder(nil, nil, nil, sb.watermarkLabel, sb.statusLabel)
	if sb.watermarkLabel.Text == "" {
		sb.watermarkLabel.Hide()
	}
}

// SetStatus updates the main status message
func (sb *StatusBar) SetStatus(status string) {
	fyne.Do(func() {
		sb.statusLabel.SetText(status)
	})
}

// GetStatus returns the current status message
func (sb *StatusBar) GetStatus() string {
	return sb.statusLabel.Text
}

func (sb *StatusBar) GetWatermark() string {
	return sb.watermarkLabel.Text
}

// GetContainer returns the status bar container
func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}

// ProgressBar shows how many serial lines have been processed
type ProgressBar struct {
	container   *fyne.Container
	progressBar *widget.ProgressBar
	stageLabel  *widget.Label
	done        int
	total       int
}

// NewProgressBar creates a new progress bar component
func NewProgressBar() *ProgressBar {
	pb := &ProgressBar{}
	pb.createComponents()
	pb.buildLayout()
	return pb
}

func (pb *ProgressBar) createComponents() {
	pb.progressBar = widget.NewProgressBar()
	pb.progressBar.TextFormatter = func() string {
		return fmt.Sprintf("%d / %d", pb.done, pb.total)
	}
	pb.stageLabel = widget.NewLabel("")
	pb.stageLabel.Truncation = fyne.TextTruncateEllipsis
}

func (pb *ProgressBar) buildLayout() {
	pb.container = container.NewVBox(
		pb.progressBar,
		pb.stageLabel,
	)
}

// SetProgress shows done out of total lines.
func (pb *ProgressBar) SetProgress(done, total int) {
	fyne.Do(func() {
		if total < 0 {
			total = 0
		}
		if done < 0 {
			done = 0
		} else if done > total {
			done = total
		}
		pb.done, pb.total = done, total
		pb.progressBar.Max = float64(max(total, 1))
		pb.progressBar.SetValue(float64(done))
	})
}

// GetProgress returns the fraction completed
func (pb *ProgressBar) GetProgress() float64 {
	if pb.total == 0 {
		return 0
	}
	return float64(pb.done) / float64(pb.total)
}

// SetStage updates the current processing stage
func (pb *ProgressBar) SetStage(stage string) {
	fyne.Do(func() {
		pb.stageLabel.SetText(stage)
	})
}

// GetStage returns the current stage
func (pb *ProgressBar) GetStage() string {
	return pb.stageLabel.Text
}

// Reset resets the progress bar to initial state
func (pb *ProgressBar) Reset() {
	pb.SetProgress(0, 0)
	pb.SetStage("")
}

// GetContainer returns the progress bar container
func (pb *ProgressBar) GetContainer() *fyne.Container {
	return pb.container
}
