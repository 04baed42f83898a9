package recording

import (
	"errors"
)

var (
	ErrAlreadyRecording = errors.New("already recording")
	ErrNotRecording     = errors.New("not recording")
	ErrNoAudioCaptured  = errors.New("no audio captured")
	ErrPathNotUTF8      = errors.New("the artifact path is not valid UTF-8")
)
