package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"image-finder/internal/finder"
	"image-finder/internal/logger"
	"image-finder/internal/models"
	"image-finder/internal/timing"
)

var ErrRunInProgress = errors.New("a search is already running")

// Confirmer asks the user a yes/no question. It must return false when ctx
// is cancelled before an answer arrives.
type Confirmer interface {
	Confirm(ctx context.Context, title, message string) bool
}

// Reporter receives results and progress while a run executes. Calls come
// from the run goroutine.
type Reporter interface {
	OnResult(index int, result models.Result)
	OnProgress(state models.RunState)
}

// Settings are the search limits taken from configuration
type Settings struct {
	MatchLimit       int
	ConfirmThreshold int
	CaseInsensitive  bool
}

// SearchService runs search-and-copy jobs one at a time
type SearchService struct {
	settings Settings
	copier   *finder.Copier
	results  *models.ResultRepository
	state    *models.RunStateRepository
	timing   *timing.Tracker
	locks    *LockManager
	logger   logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc

	afterStart func()
}

func NewSearchService(
	settings Settings,
	results *models.ResultRepository,
	state *models.RunStateRepository,
	locks *LockManager,
	log logger.Logger,
) *SearchService {
	if log == nil {
		log = logger.Nop{}
	}
	return &SearchService{
		settings: settings,
		copier:   finder.NewCopier(),
		results:  results,
		state:    state,
		timing:   timing.NewTracker(),
		locks:    locks,
		logger:   log,
	}
}

func (s *SearchService) IsRunning() bool {
	return s.state.IsActive()
}

// Results returns the results of the latest run.
func (s *SearchService) Results() []models.Result {
	return s.results.List()
}

// Cancel stops the active run after the file currently being copied. A run
// is cancellable as soon as IsRunning reports true.
func (s *SearchService) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

// Shutdown cancels any active run.
func (s *SearchService) Shutdown() {
	s.Cancel()
}

// Run processes every line of the job in order. Results already produced
// are kept when the run is cancelled; the summary reports Cancelled.
func (s *SearchService) Run(ctx context.Context, job models.Job, confirmer Confirmer, reporter Reporter) (models.Summary, error) {
	if err := job.Validate(); err != nil {
		return models.Summary{}, err
	}

	runID := uuid.NewString()
	s.mu.Lock()
	if !s.state.Start(runID, len(job.Serials)) {
		s.mu.Unlock()
		return models.Summary{}, ErrRunInProgress
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.cancel = nil
		s.state.Complete()
		s.mu.Unlock()
		cancel()
	}()

	if s.afterStart != nil {
		s.afterStart()
	}

	if s.locks != nil {
		release, err := s.locks.Acquire(job.Destination)
		if err != nil {
			return models.Summary{}, err
		}
		defer release()
	}

	s.results.Clear()
	s.timing.Reset()
	start := time.Now()

	s.logger.Info("SearchService", "run started", map[string]interface{}{
		"run_id":      runID,
		"source":      job.Source,
		"destination": job.Destination,
		"serials":     job.SearchableCount(),
	})

	opts := finder.Options{
		Limit:           s.settings.MatchLimit,
		CaseInsensitive: s.settings.CaseInsensitive,
		Logger:          s.logger,
	}
	if job.DestinationInsideSource() {
		opts.Exclude = []string{job.Destination}
	}

	var runErr error
	for _, serial := range job.Serials {
		if runCtx.Err() != nil {
			break
		}
		if serial != "" {
			s.state.SetCurrent(serial)
			if err := s.processSerial(runCtx, job, serial, opts, confirmer, reporter); err != nil {
				if runCtx.Err() == nil {
					runErr = err
				}
				break
			}
		}
		state := s.state.Advance()
		if reporter != nil {
			reporter.OnProgress(state)
		}
	}

	summary := s.results.Summarize()
	summary.RunID = runID
	summary.Serials = job.SearchableCount()
	summary.Elapsed = time.Since(start)
	summary.Cancelled = runCtx.Err() != nil && runErr == nil

	fields := s.timing.Fields()
	fields["run_id"] = runID
	fields["copied"] = summary.Copied
	fields["existing"] = summary.Existing
	fields["not_found"] = summary.NotFound
	fields["skipped"] = summary.Skipped
	fields["failed"] = summary.Failed
	fields["bytes_copied"] = summary.BytesCopied
	fields["elapsed_ms"] = summary.Elapsed.Milliseconds()
	fields["cancelled"] = summary.Cancelled
	s.logger.Info("SearchService", "run finished", fields)

	if runErr != nil {
		s.logger.Error("SearchService", "run aborted", runErr, map[string]interface{}{"run_id": runID})
		return summary, runErr
	}
	return summary, nil
}

func (s *SearchService) processSerial(
	ctx context.Context,
	job models.Job,
	serial string,
	opts finder.Options,
	confirmer Confirmer,
	reporter Reporter,
) error {
	stopScan := s.timing.Start(timing.OpScan)
	matches, err := finder.Find(ctx, job.Source, serial, opts)
	stopScan()
	if err != nil {
		return fmt.Errorf("search for %q: %w", serial, err)
	}

	s.logger.Debug("SearchService", "serial scanned", map[string]interface{}{
		"serial":  serial,
		"matches": len(matches),
	})

	if len(matches) == 0 {
		s.record(models.Result{Serial: serial, Outcome: models.NotFound}, reporter)
		return nil
	}

	if len(matches) > s.settings.ConfirmThreshold && !s.confirmLarge(ctx, confirmer, serial, len(matches)) {
		s.record(models.Result{Serial: serial, Outcome: models.Skipped}, reporter)
		return nil
	}

	for _, m := range matches {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		stopCopy := s.timing.Start(timing.OpCopy)
		outcome, n, err := s.copier.Copy(ctx, m, job.Destination)
		stopCopy()

		if err != nil && ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			s.logger.Warning("SearchService", "copy failed", map[string]interface{}{
				"serial": serial,
				"file":   m.Path(),
				"error":  err.Error(),
			})
		}
		s.record(models.Result{
			Serial:  serial,
			Name:    m.Name,
			Source:  m.Path(),
			Size:    n,
			Outcome: outcome,
			Err:     err,
		}, reporter)
	}
	return nil
}

// confirmLarge asks twice, as copying many files could fill the disk.
func (s *SearchService) confirmLarge(ctx context.Context, confirmer Confirmer, serial string, count int) bool {
	if confirmer == nil {
		return false
	}
	first := fmt.Sprintf("Found %d matches for %q. Do you want to continue?", count, serial)
	if !confirmer.Confirm(ctx, "Confirmation", first) {
		return false
	}
	return confirmer.Confirm(ctx, "Confirmation", "Are you sure you want to copy these files? This could fill the disk.")
}

func (s *SearchService) record(res models.Result, reporter Reporter) {
	idx := s.results.Add(res)
	if reporter != nil {
		reporter.OnResult(idx, res)
	}
}
