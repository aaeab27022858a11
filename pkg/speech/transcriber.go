package speech

import (
	"context"
	"errors"
)

// ErrNotRecognized means the audio was processed but no speech was found.
var ErrNotRecognized = errors.New("speech not recognized")

// ErrDisabled means no speech backend is configured.
var ErrDisabled = errors.New("speech recognition is not configured")

// Transcriber converts voice message audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Disabled is the no-backend fallback.
type Disabled struct{}

func (Disabled) Transcribe(ctx context.Context, audio []byte) (string, error) {
	return "", ErrDisabled
}
