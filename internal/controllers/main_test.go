package controllers

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image-finder/internal/models"
	"image-finder/internal/services"
)

type fakeView struct {
	mu sync.Mutex

	source, dest, serials string
	folderAnswer          string
	confirmAnswers        []bool
	holdConfirm           chan struct{}

	start, cancel, clear, selectSource, selectDest func()

	errs     []error
	infos    []string
	statuses []string
	results  []models.Result
	confirms []string
	running  []bool
	progress []models.RunState
}

func (v *fakeView) SetSelectSourceHandler(h func())      { v.selectSource = h }
func (v *fakeView) SetSelectDestinationHandler(h func()) { v.selectDest = h }
func (v *fakeView) SetStartHandler(h func())             { v.start = h }
func (v *fakeView) SetCancelHandler(h func())            { v.cancel = h }
func (v *fakeView) SetClearHandler(h func())             { v.clear = h }

func (v *fakeView) SetSource(p string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.source = p
}

func (v *fakeView) SetDestination(p string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.dest = p
}

func (v *fakeView) Source() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.source
}

func (v *fakeView) Destination() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.dest
}

func (v *fakeView) SerialText() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.serials
}

func (v *fakeView) SetRunning(r bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.running = append(v.running, r)
}

func (v *fakeView) AppendResult(r models.Result) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.results = append(v.results, r)
}

func (v *fakeView) ClearResults() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.results = nil
}

func (v *fakeView) UpdateProgress(s models.RunState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.progress = append(v.progress, s)
}

func (v *fakeView) UpdateStatus(s string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.statuses = append(v.statuses, s)
}

func (v *fakeView) ShowError(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errs = append(v.errs, err)
}

func (v *fakeView) ShowInfo(_, message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.infos = append(v.infos, message)
}

func (v *fakeView) ShowConfirm(_, message string, cb func(bool)) {
	v.mu.Lock()
	v.confirms = append(v.confirms, message)
	hold := v.holdConfirm
	answer := false
	if len(v.confirmAnswers) > 0 {
		answer = v.confirmAnswers[0]
		v.confirmAnswers = v.confirmAnswers[1:]
	}
	v.mu.Unlock()
	if hold != nil {
		close(hold)
		return
	}
	cb(answer)
}

func (v *fakeView) ShowFolderDialog(cb func(string, error)) {
	cb(v.folderAnswer, nil)
}

func newController(t *testing.T) (*MainController, *fakeView) {
	t.Helper()
	locks, err := services.NewLockManager(t.TempDir())
	require.NoError(t, err)
	results := models.NewResultRepository()
	svc := services.NewSearchService(
		services.Settings{MatchLimit: 10, ConfirmThreshold: 6},
		results, models.NewRunStateRepository(), locks, nil,
	)
	mc := NewMainController(svc, results, nil)
	view := &fakeView{}
	mc.SetMainView(view)
	return mc, view
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644))
	}
}

func TestStartSearchReportsValidationErrors(t *testing.T) {
	mc, view := newController(t)

	view.start()
	require.Len(t, view.errs, 1)
	assert.ErrorIs(t, view.errs[0], models.ErrNoSource)

	view.source = t.TempDir()
	view.start()
	assert.ErrorIs(t, view.errs[1], models.ErrNoDestination)

	view.dest = t.TempDir()
	view.serials = "\n  \n"
	view.start()
	assert.ErrorIs(t, view.errs[2], models.ErrNoSerials)
	assert.False(t, mc.IsRunning())
	assert.Empty(t, view.running)
}

func TestFolderSelection(t *testing.T) {
	_, view := newController(t)

	view.folderAnswer = "/photos"
	view.selectSource()
	view.folderAnswer = "/out"
	view.selectDest()
	assert.Equal(t, "/photos", view.source)
	assert.Equal(t, "/out", view.dest)

	view.folderAnswer = ""
	view.selectSource()
	assert.Equal(t, "/photos", view.source, "cancelled dialog keeps the selection")
}

func TestStartSearchRunsAndSummarizes(t *testing.T) {
	mc, view := newController(t)
	src := t.TempDir()
	writeFiles(t, src, "A1.jpg", "B2.jpg")
	view.source, view.dest, view.serials = src, t.TempDir(), "A1\nB2\nC3"

	view.start()
	mc.wg.Wait()

	view.mu.Lock()
	defer view.mu.Unlock()
	assert.Empty(t, view.errs)
	assert.Equal(t, []bool{true, false}, view.running)
	require.Len(t, view.results, 3)
	assert.Equal(t, models.NotFound, view.results[2].Outcome)
	require.Len(t, view.progress, 3)
	assert.Equal(t, 1.0, view.progress[2].Progress())
	require.Len(t, view.infos, 1)
	assert.Contains(t, view.infos[0], "Copied 2 files")
	assert.Contains(t, view.infos[0], "1 not found")
}

func TestConfirmationDialogsGateLargeMatches(t *testing.T) {
	mc, view := newController(t)
	src := t.TempDir()
	for i := 0; i < 7; i++ {
		writeFiles(t, src, fmt.Sprintf("Q9-%d.jpg", i))
	}
	view.source, view.dest, view.serials = src, t.TempDir(), "Q9"
	view.confirmAnswers = []bool{true, true}

	view.start()
	mc.wg.Wait()

	assert.Len(t, view.confirms, 2)
	assert.Len(t, view.results, 7)
	assert.Equal(t, models.Copied, view.results[0].Outcome)
}

func TestShutdownUnblocksPendingConfirmation(t *testing.T) {
	mc, view := newController(t)
	src := t.TempDir()
	for i := 0; i < 7; i++ {
		writeFiles(t, src, fmt.Sprintf("Q9-%d.jpg", i))
	}
	shown := make(chan struct{})
	view.source, view.dest, view.serials = src, t.TempDir(), "Q9\nQ9"
	view.holdConfirm = shown

	view.start()
	select {
	case <-shown:
	case <-time.After(5 * time.Second):
		t.Fatal("confirmation was never shown")
	}
	assert.True(t, mc.IsRunning())

	mc.Shutdown()
	assert.False(t, mc.IsRunning())
	assert.Empty(t, view.infos, "cancelled runs do not pop up a summary")
	require.NotEmpty(t, view.statuses)
	assert.Contains(t, view.statuses[len(view.statuses)-1], "Cancelled.")
}

func TestClearResults(t *testing.T) {
	mc, view := newController(t)
	mc.resultRepo.Add(models.Result{Serial: "x", Outcome: models.NotFound})
	view.results = []models.Result{{Serial: "x"}}

	view.clear()
	assert.Zero(t, mc.resultRepo.Len())
	assert.Empty(t, view.results)
	assert.Equal(t, "Ready", view.statuses[len(view.statuses)-1])
}

func TestHandleErrorExplainsBusyDestination(t *testing.T) {
	mc, view := newController(t)
	mc.handleError("search failed", services.ErrDestinationBusy)
	require.Len(t, view.errs, 1)
	assert.True(t, errors.Is(view.errs[0], services.ErrDestinationBusy))
	assert.Contains(t, view.errs[0].Error(), "try again")
}

func TestSummaryText(t *testing.T) {
	text := SummaryText(models.Summary{Copied: 2, BytesCopied: 2048, Existing: 1, Elapsed: 1500 * time.Millisecond})
	assert.Equal(t, "Copied 2 files (2.0 kB), 1 already existed, 0 not found, 0 skipped, 0 failed in 1.5s", text)
	assert.True(t, len(SummaryText(models.Summary{Cancelled: true})) > len("Cancelled. "))
}
