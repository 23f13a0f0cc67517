// Package avatar renders the speaking avatar in sync with audio playback
package avatar

import (
	"context"
	"errors"
)

var (
	// ErrPlaybackCancelled is returned by Animator.Play when the user quits mid-playback
	ErrPlaybackCancelled = errors.New("playback cancelled")
	// ErrSurfaceClosed is returned when drawing on a torn-down surface
	ErrSurfaceClosed = errors.New("surface closed")
)

// Surface is a two-frame drawing target: mouth open or closed
type Surface interface {
	Draw(mouthOpen bool) error
	// Watch starts listening for a quit request. The returned channel is closed
	// when the user asks to quit; stop releases the listener.
	Watch() (quit <-chan struct{}, stop func())
	// Close tears the surface down. It is safe to call more than once.
	Close() error
}

// Player plays mono 16-bit samples, blocking until done or ctx is cancelled
type Player interface {
	Play(ctx context.Context, samples []int16, sampleRate int) error
}
