package capture

import (
	"sync/atomic"
)

// State is the pair of flags shared between a controller and its
// capture goroutine.
type State struct {
	// IsRecording is true while a capture goroutine is alive.
	IsRecording atomic.Bool

	// StopSignal asks the capture goroutine to finish; it is only
	// meaningful while IsRecording is true.
	StopSignal atomic.Bool
}
