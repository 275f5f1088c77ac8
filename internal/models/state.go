package models

import (
	"sync"
	"time"
)

// RunState represents the progress of the active run
type RunState struct {
	IsActive      bool
	RunID         string
	CurrentSerial string
	Done          int
	Total         int
	StartTime     time.Time
}

// Progress returns completion in the range 0..1.
func (s RunState) Progress() float64 {
	if s.Total <= 0 {
		return 0
	}
	p := float64(s.Done) / float64(s.Total)
	if p > 1 {
		p = 1
	}
	return p
}

// RunStateRepository manages run state transitions
type RunStateRepository struct {
	mu    sync.RWMutex
	state RunState
}

func NewRunStateRepository() *RunStateRepository {
	return &RunStateRepository{}
}

// Start marks a run active. It returns false if one is already active.
func (r *RunStateRepository) Start(runID string, total int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state.IsActive {
		return false
	}
	r.state = RunState{
		IsActive:  true,
		RunID:     runID,
		Total:     total,
		StartTime: time.Now(),
	}
	return true
}

func (r *RunStateRepository) SetCurrent(serial string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.CurrentSerial = serial
}

// Advance marks one more line as done.
func (r *RunStateRepository) Advance() RunState {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state.Done < r.state.Total {
		r.state.Done++
	}
	return r.state
}

func (r *RunStateRepository) Complete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.IsActive = false
	r.state.CurrentSerial = ""
}

func (r *RunStateRepository) IsActive() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.IsActive
}

func (r *RunStateRepository) GetState() RunState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}
