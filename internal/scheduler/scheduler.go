// Package scheduler coalesces bursts of dirty signals into debounced
// persistence runs.
//
// Every MarkDirty restarts a single pending timer; when the timer fires
// without being reset again, exactly one save of the then-current state
// executes on the timer's goroutine, off the interactive path. The
// durability guarantee is "persisted within one quiet period after the last
// mutation", not "every mutation individually durable".
package scheduler

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultQuietPeriod is the default debounce window.
const DefaultQuietPeriod = 300 * time.Millisecond

// SaveFunc captures a consistent snapshot and persists it. The snapshot
// copy must happen inside the function so the latest state at fire time is
// what gets written.
type SaveFunc func() error

// Scheduler debounces dirty signals into save invocations. Failed saves are
// logged and not retried; the next dirty signal schedules another attempt
// naturally.
type Scheduler struct {
	save  SaveFunc
	quiet time.Duration
	log   zerolog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	closing bool
}

// New creates a Scheduler with the given quiet period. A period of zero or
// less falls back to DefaultQuietPeriod.
func New(save SaveFunc, quiet time.Duration, log zerolog.Logger) *Scheduler {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &Scheduler{
		save:  save,
		quiet: quiet,
		log:   log.With().Str("component", "scheduler").Logger(),
	}
}

// MarkDirty notes that in-memory state changed. Any number of calls inside
// one quiet window collapse into a single save of the latest state.
func (s *Scheduler) MarkDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return
	}
	if s.timer != nil {
		s.timer.Reset(s.quiet)
		return
	}
	s.timer = time.AfterFunc(s.quiet, s.fire)
}

// ShutdownFlush stops the debounce machinery and performs one final save
// synchronously. Intended for orderly process termination; MarkDirty calls
// after ShutdownFlush are ignored.
func (s *Scheduler) ShutdownFlush() error {
	s.mu.Lock()
	s.closing = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	if err := s.save(); err != nil {
		s.log.Error().Err(err).Msg("shutdown save failed")
		return err
	}
	return nil
}

// fire runs on the timer goroutine once a quiet period elapses unreset.
func (s *Scheduler) fire() {
	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.mu.Unlock()

	if err := s.save(); err != nil {
		s.log.Error().Err(err).Msg("debounced save failed")
	}
}
