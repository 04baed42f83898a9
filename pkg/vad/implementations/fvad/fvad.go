// Package fvad provides a vad.VAD backed by libfvad (WebRTC VAD).
//
// libfvad is a cgo dependency, so the detector is built only with the
// 'fvad' build tag; otherwise New returns ErrNotCompiledIn.
package fvad

import (
	"errors"
	"time"
)

const (
	DefaultMode          = 2
	DefaultFrameDuration = 30 * time.Millisecond
)

var ErrNotCompiledIn = errors.New("built without tag 'fvad'")
