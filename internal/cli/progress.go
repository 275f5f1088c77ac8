package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"

	"image-finder/internal/models"
)

// ProgressReporter draws a progress bar over the serial lines and prints
// non-copied outcomes as they happen.
type ProgressReporter struct {
	mu      sync.Mutex
	bar     *progressbar.ProgressBar
	out     io.Writer
	verbose bool
}

func NewProgressReporter(out io.Writer, total int, verbose bool) *ProgressReporter {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription("Searching"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionThrottle(0),
	)
	return &ProgressReporter{bar: bar, out: out, verbose: verbose}
}

func (r *ProgressReporter) OnResult(_ int, res models.Result) {
	if res.Outcome == models.Copied && !r.verbose {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_ = r.bar.Clear()
	fmt.Fprintf(r.out, "%-14s %s\n", res.Outcome.String(), res.Describe())
}

func (r *ProgressReporter) OnProgress(state models.RunState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bar.Describe(state.CurrentSerial)
	_ = r.bar.Set(state.Done)
}

// Clear erases the bar so a prompt can be printed.
func (r *ProgressReporter) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	_ = r.bar.Clear()
}

func (r *ProgressReporter) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	_ = r.bar.Finish()
}
