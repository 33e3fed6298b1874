// Package monitor implements clipboard change detection by polling.
//
// There is no portable push notification for clipboard changes, so the
// monitor samples the clipboard's generation counter on a fixed interval.
// Correctness of capture therefore rests on two guards: the generation
// check (the dominant, branch-cheap no-op case) and the last-accepted-text
// comparison, which suppresses re-observations of the same content after
// a quiet clipboard.
package monitor

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/clipvault/clipvault/internal/clipboard"
	"github.com/clipvault/clipvault/internal/history"
)

// DefaultInterval is the default poll period.
const DefaultInterval = 500 * time.Millisecond

// Monitor polls a clipboard for new text and forwards accepted, normalized
// snippets to a callback.
type Monitor struct {
	clip     clipboard.Clipboard
	interval time.Duration
	log      zerolog.Logger

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	started bool
}

// New creates a Monitor polling clip every interval. An interval of zero or
// less falls back to DefaultInterval.
func New(clip clipboard.Clipboard, interval time.Duration, log zerolog.Logger) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Monitor{
		clip:     clip,
		interval: interval,
		log:      log.With().Str("component", "monitor").Logger(),
	}
}

// Start begins polling and invokes onAccepted exactly once per accepted
// snippet. The clipboard's current generation is taken as the baseline, so
// content already present at startup is not captured. Start is a no-op if
// the monitor is already running.
func (m *Monitor) Start(onAccepted func(text string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return
	}
	m.started = true
	m.stop = make(chan struct{})
	m.done = make(chan struct{})

	lastGen := m.clip.Generation()
	go m.poll(onAccepted, lastGen)
	m.log.Debug().Dur("interval", m.interval).Msg("clipboard polling started")
}

// Stop halts polling. It returns only once the poll goroutine has exited,
// after which no further callback invocations occur.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		return
	}
	m.started = false
	close(m.stop)
	done := m.done
	m.mu.Unlock()

	<-done
	m.log.Debug().Msg("clipboard polling stopped")
}

func (m *Monitor) poll(onAccepted func(string), lastGen uint64) {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	var lastAccepted string
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			gen := m.clip.Generation()
			if gen == lastGen {
				continue
			}
			lastGen = gen

			text, err := m.clip.ReadText()
			if err != nil {
				// Empty or non-text clipboard: no candidate this tick.
				continue
			}
			norm := history.Normalize(text)
			if norm == "" || norm == lastAccepted {
				continue
			}
			lastAccepted = norm
			m.log.Debug().Int("len", len(norm)).Msg("clipboard change accepted")
			onAccepted(norm)
		}
	}
}
