package models

import (
	"fmt"
	"sync"
	"time"
)

// Outcome classifies what happened to a file or serial
type Outcome int

const (
	Copied Outcome = iota
	Existing
	NotFound
	Skipped
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Copied:
		return "copied"
	case Existing:
		return "already exists"
	case NotFound:
		return "not found"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is one row of the result list. Name is empty for serial-level
// outcomes (NotFound, Skipped).
type Result struct {
	Serial  string
	Name    string
	Source  string
	Size    int64
	Outcome Outcome
	Err     error
	At      time.Time
}

// Label is the text shown for the row.
func (r Result) Label() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Serial
}

// Describe is the one-line text shown for the result.
func (r Result) Describe() string {
	switch r.Outcome {
	case Copied:
		return r.Label()
	case Failed:
		if r.Err != nil {
			return fmt.Sprintf("%s (failed: %v)", r.Label(), r.Err)
		}
	}
	return fmt.Sprintf("%s (%s)", r.Label(), r.Outcome)
}

// Summary aggregates a run
type Summary struct {
	RunID       string
	Serials     int
	Copied      int
	Existing    int
	NotFound    int
	Skipped     int
	Failed      int
	BytesCopied int64
	Elapsed     time.Duration
	Cancelled   bool
}

// Add counts r into the summary.
func (s *Summary) Add(r Result) {
	switch r.Outcome {
	case Copied:
		s.Copied++
		s.BytesCopied += r.Size
	case Existing:
		s.Existing++
	case NotFound:
		s.NotFound++
	case Skipped:
		s.Skipped++
	case Failed:
		s.Failed++
	}
}

// ResultRepository stores results of the current run
type ResultRepository struct {
	mu      sync.RWMutex
	results []Result
}

func NewResultRepository() *ResultRepository {
	return &ResultRepository{results: make([]Result, 0)}
}

// Add appends a result and returns its index.
func (r *ResultRepository) Add(res Result) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if res.At.IsZero() {
		res.At = time.Now()
	}
	r.results = append(r.results, res)
	return len(r.results) - 1
}

func (r *ResultRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.results)
}

// List returns a copy of all results.
func (r *ResultRepository) List() []Result {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Result, len(r.results))
	copy(out, r.results)
	return out
}

func (r *ResultRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = r.results[:0]
}

// Summarize counts stored results.
func (r *ResultRepository) Summarize() Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var s Summary
	for _, res := range r.results {
		s.Add(res)
	}
	return s
}
