// Package sysboard implements clipboard access against the real system
// clipboard. Text transfer goes through the platform utilities wrapped by
// github.com/atotto/clipboard (pbcopy/pbpaste on macOS, xclip or xsel on
// Linux, native API on Windows).
//
// None of those surfaces expose a change counter, so Generation is emulated:
// each call reads the clipboard, hashes the payload, and advances the counter
// when the hash differs from the previous observation. The payload that
// produced the current generation is cached so ReadText does not hit the
// platform utility a second time on the same tick.
package sysboard

import (
	"errors"
	"hash/fnv"
	"sync"

	"github.com/atotto/clipboard"
)

// ErrNoText reports that the clipboard holds no readable text payload.
var ErrNoText = errors.New("sysboard: no text payload on clipboard")

// SystemClipboard adapts the OS clipboard to the clipboard.Clipboard
// interface.
type SystemClipboard struct {
	mu         sync.Mutex
	generation uint64
	lastHash   uint64
	hashValid  bool
	cached     string
	cacheValid bool
}

// New creates a SystemClipboard.
func New() *SystemClipboard {
	return &SystemClipboard{}
}

// IsSupported reports whether a clipboard utility is reachable on this
// system.
func (s *SystemClipboard) IsSupported() bool {
	return !clipboard.Unsupported
}

// Generation implements clipboard.Clipboard. Read failures leave the counter
// untouched, so an intermittently unreadable clipboard looks quiet rather
// than changed.
func (s *SystemClipboard) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	text, err := clipboard.ReadAll()
	if err != nil {
		return s.generation
	}

	h := fnv.New64a()
	h.Write([]byte(text))
	sum := h.Sum64()

	if !s.hashValid || sum != s.lastHash {
		s.generation++
		s.lastHash = sum
		s.hashValid = true
		s.cached = text
		s.cacheValid = true
	}
	return s.generation
}

// ReadText implements clipboard.Clipboard. It serves the payload cached by
// the Generation observation when one is available.
func (s *SystemClipboard) ReadText() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cacheValid {
		return s.cached, nil
	}

	text, err := clipboard.ReadAll()
	if err != nil {
		return "", ErrNoText
	}
	return text, nil
}

// WriteText implements clipboard.Clipboard.
func (s *SystemClipboard) WriteText(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := clipboard.WriteAll(text); err != nil {
		return err
	}

	// Account for our own write so the next Generation call does not report
	// it as external change.
	h := fnv.New64a()
	h.Write([]byte(text))
	s.lastHash = h.Sum64()
	s.hashValid = true
	s.cached = text
	s.cacheValid = true
	s.generation++
	return nil
}
