package controllers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"image-finder/internal/logger"
	"image-finder/internal/models"
	"image-finder/internal/services"
)

// View is the part of the main window the controller drives
type View interface {
	SetSelectSourceHandler(func())
	SetSelectDestinationHandler(func())
	SetStartHandler(func())
	SetCancelHandler(func())
	SetClearHandler(func())

	SetSource(path string)
	SetDestination(path string)
	Source() string
	Destination() string
	SerialText() string

	SetRunning(running bool)
	AppendResult(res models.Result)
	ClearResults()
	UpdateProgress(state models.RunState)
	UpdateStatus(status string)

	ShowError(err error)
	ShowInfo(title, message string)
	ShowConfirm(title, message string, callback func(bool))
	ShowFolderDialog(callback func(path string, err error))
}

// MainController connects the window to the search service
type MainController struct {
	searchService *services.SearchService
	resultRepo    *models.ResultRepository
	logger        logger.Logger

	mainView View

	mu        sync.Mutex
	busy      bool
	runCtx    context.Context
	runCancel context.CancelFunc
	wg        sync.WaitGroup
}

func NewMainController(
	searchService *services.SearchService,
	resultRepo *models.ResultRepository,
	log logger.Logger,
) *MainController {
	if log == nil {
		log = logger.Nop{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &MainController{
		searchService: searchService,
		resultRepo:    resultRepo,
		logger:        log,
		runCtx:        ctx,
		runCancel:     cancel,
	}
}

// SetMainView associates the main view with this controller
func (mc *MainController) SetMainView(view View) {
	mc.mainView = view
	mc.setupViewEventHandlers()
}

func (mc *MainController) setupViewEventHandlers() {
	mc.mainView.SetSelectSourceHandler(mc.SelectSource)
	mc.mainView.SetSelectDestinationHandler(mc.SelectDestination)
	mc.mainView.SetStartHandler(mc.StartSearch)
	mc.mainView.SetCancelHandler(mc.CancelSearch)
	mc.mainView.SetClearHandler(mc.ClearResults)
}

// SelectSource asks for the folder to search
func (mc *MainController) SelectSource() {
	mc.mainView.ShowFolderDialog(func(path string, err error) {
		if err != nil {
			mc.handleError("folder selection failed", err)
			return
		}
		if path == "" {
			return
		}
		mc.mainView.SetSource(path)
		mc.logger.Debug("MainController", "source selected", map[string]interface{}{"path": path})
	})
}

// SelectDestination asks for the folder to copy into
func (mc *MainController) SelectDestination() {
	mc.mainView.ShowFolderDialog(func(path string, err error) {
		if err != nil {
			mc.handleError("folder selection failed", err)
			return
		}
		if path == "" {
			return
		}
		mc.mainView.SetDestination(path)
		mc.logger.Debug("MainController", "destination selected", map[string]interface{}{"path": path})
	})
}

// StartSearch validates the inputs and starts a run in the background
func (mc *MainController) StartSearch() {
	if mc.IsRunning() {
		return
	}

	job := models.Job{
		Source:      mc.mainView.Source(),
		Destination: mc.mainView.Destination(),
		Serials:     models.ParseSerials(mc.mainView.SerialText()),
	}
	if err := job.Validate(); err != nil {
		mc.mainView.ShowError(err)
		return
	}

	mc.mu.Lock()
	mc.busy = true
	mc.mu.Unlock()

	mc.mainView.ClearResults()
	mc.mainView.SetRunning(true)
	mc.mainView.UpdateStatus(fmt.Sprintf("Searching %d serials...", job.SearchableCount()))

	mc.wg.Add(1)
	go func() {
		defer mc.wg.Done()
		mc.performSearch(job)
	}()
}

func (mc *MainController) performSearch(job models.Job) {
	summary, err := mc.searchService.Run(mc.runCtx, job, mc, mc)
	mc.mu.Lock()
	mc.busy = false
	mc.mu.Unlock()
	mc.mainView.SetRunning(false)

	if err != nil {
		mc.mainView.UpdateStatus("Search failed")
		mc.handleError("search failed", err)
		return
	}

	status := SummaryText(summary)
	mc.mainView.UpdateStatus(status)
	if !summary.Cancelled {
		mc.mainView.ShowInfo("Finished", status)
	}
}

// CancelSearch stops the running search after the current file
func (mc *MainController) CancelSearch() {
	if !mc.IsRunning() {
		return
	}
	mc.searchService.Cancel()
	mc.mainView.UpdateStatus("Cancelling...")
}

// ClearResults empties the result list
func (mc *MainController) ClearResults() {
	if mc.IsRunning() {
		return
	}
	mc.resultRepo.Clear()
	mc.mainView.ClearResults()
	mc.mainView.UpdateStatus("Ready")
}

// IsRunning reports whether a search is active
func (mc *MainController) IsRunning() bool {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.busy || mc.searchService.IsRunning()
}

// Confirm shows a Yes/No dialog and blocks the search goroutine until it
// is answered. A cancelled run counts as No.
func (mc *MainController) Confirm(ctx context.Context, title, message string) bool {
	answer := make(chan bool, 1)
	mc.mainView.ShowConfirm(title, message, func(ok bool) {
		answer <- ok
	})
	select {
	case ok := <-answer:
		return ok
	case <-ctx.Done():
		return false
	}
}

// OnResult forwards a result row to the view
func (mc *MainController) OnResult(_ int, res models.Result) {
	mc.mainView.AppendResult(res)
}

// OnProgress forwards run progress to the view
func (mc *MainController) OnProgress(state models.RunState) {
	mc.mainView.UpdateProgress(state)
}

// SummaryText renders a run summary for the status line.
func SummaryText(s models.Summary) string {
	text := fmt.Sprintf("Copied %d files (%s), %d already existed, %d not found, %d skipped, %d failed in %s",
		s.Copied,
		humanize.Bytes(uint64(max(s.BytesCopied, 0))),
		s.Existing,
		s.NotFound,
		s.Skipped,
		s.Failed,
		s.Elapsed.Round(10*time.Millisecond),
	)
	if s.Cancelled {
		text = "Cancelled. " + text
	}
	return text
}

func (mc *MainController) handleError(what string, err error) {
	mc.logger.Error("MainController", what, err, nil)
	if errors.Is(err, services.ErrDestinationBusy) {
		err = fmt.Errorf("%w; wait for it to finish and try again", err)
	}
	mc.mainView.ShowError(err)
}

// Shutdown cancels any running search and waits for it to stop
func (mc *MainController) Shutdown() {
	mc.runCancel()
	mc.wg.Wait()
}
