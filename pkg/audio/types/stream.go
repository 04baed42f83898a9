package types

import (
	"io"
)

type Stream interface {
	io.Closer
}

type PlayStream interface {
	Stream
	Drain() error
}

// InputStream is a live capture stream. It must be started, polled and
// closed from the same goroutine that opened it.
type InputStream interface {
	Stream
	Start() error
}
