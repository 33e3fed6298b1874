// Package mockboard provides a deterministic in-memory clipboard for tests.
package mockboard

import (
	"errors"
	"sync"
)

// ErrEmpty reports that the mock clipboard holds nothing.
var ErrEmpty = errors.New("mockboard: clipboard is empty")

// MockClipboard implements clipboard.Clipboard in memory. Every SetText call
// advances the generation counter, mirroring how a real clipboard's change
// counter behaves on copy.
type MockClipboard struct {
	mu         sync.Mutex
	generation uint64
	text       string
	hasText    bool
	readErr    error
}

// New creates an empty MockClipboard.
func New() *MockClipboard {
	return &MockClipboard{}
}

// Generation implements clipboard.Clipboard.
func (m *MockClipboard) Generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation
}

// ReadText implements clipboard.Clipboard.
func (m *MockClipboard) ReadText() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return "", m.readErr
	}
	if !m.hasText {
		return "", ErrEmpty
	}
	return m.text, nil
}

// WriteText implements clipboard.Clipboard.
func (m *MockClipboard) WriteText(text string) error {
	m.SetText(text)
	return nil
}

// SetText simulates an external copy: it stores the text and bumps the
// generation counter.
func (m *MockClipboard) SetText(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	m.hasText = true
	m.readErr = nil
	m.generation++
}

// FailReads makes subsequent ReadText calls return err while still bumping
// generations via SetText, simulating a non-text payload.
func (m *MockClipboard) FailReads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
}

// BumpGeneration advances the counter without changing the stored text,
// simulating re-copying the same selection.
func (m *MockClipboard) BumpGeneration() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generation++
}

// Text returns the current clipboard text (for test assertions).
func (m *MockClipboard) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}
