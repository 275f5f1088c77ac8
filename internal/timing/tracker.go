package timing

import (
	"sync"
	"time"
)

const (
	OpScan = "scan"
	OpCopy = "copy"
)

// Tracker accumulates durations per operation for a run
type Tracker struct {
	timings map[string][]time.Duration
	mu      sync.RWMutex
	now     func() time.Time
}

func NewTracker() *Tracker {
	return &Tracker{
		timings: make(map[string][]time.Duration),
		now:     time.Now,
	}
}

// Start begins timing operation; calling the returned func records it.
func (tt *Tracker) Start(operation string) func() time.Duration {
	start := tt.now()
	return func() time.Duration {
		d := tt.now().Sub(start)
		tt.Record(operation, d)
		return d
	}
}

func (tt *Tracker) Record(operation string, d time.Duration) {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	tt.timings[operation] = append(tt.timings[operation], d)
}

func (tt *Tracker) GetTimings(operation string) []time.Duration {
	tt.mu.RLock()
	defer tt.mu.RUnlock()

	timings := tt.timings[operation]
	if timings == nil {
		return nil
	}
	result := make([]time.Duration, len(timings))
	copy(result, timings)
	return result
}

func (tt *Tracker) Total(operation string) time.Duration {
	var total time.Duration
	for _, d := range tt.GetTimings(operation) {
		total += d
	}
	return total
}

func (tt *Tracker) GetAverageTime(operation string) time.Duration {
	timings := tt.GetTimings(operation)
	if len(timings) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range timings {
		total += d
	}
	return total / time.Duration(len(timings))
}

// Fields summarizes every operation for structured logging.
func (tt *Tracker) Fields() map[string]interface{} {
	tt.mu.RLock()
	ops := make([]string, 0, len(tt.timings))
	for op := range tt.timings {
		ops = append(ops, op)
	}
	tt.mu.RUnlock()

	fields := make(map[string]interface{}, len(ops)*2)
	for _, op := range ops {
		fields[op+"_total_ms"] = tt.Total(op).Milliseconds()
		fields[op+"_count"] = len(tt.GetTimings(op))
	}
	return fields
}

func (tt *Tracker) Reset() {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	tt.timings = make(map[string][]time.Duration)
}
