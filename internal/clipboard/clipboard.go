// Package clipboard defines the system clipboard collaborator interface.
// The monitor only ever reads through it; writes happen solely when a chosen
// history entry is copied back on the user's behalf.
package clipboard

// Clipboard abstracts the platform clipboard behind a change counter and a
// text payload accessor.
type Clipboard interface {
	// Generation returns a monotonically increasing counter that advances
	// whenever the clipboard contents change. Implementations for platforms
	// without a native change counter may emulate one, but the monotonic
	// contract must hold.
	Generation() uint64

	// ReadText returns the current text payload. Non-text clipboard content
	// and an empty clipboard are reported as errors; callers treat any
	// error as "no candidate".
	ReadText() (string, error)

	// WriteText replaces the clipboard contents with the given text.
	WriteText(text string) error
}
