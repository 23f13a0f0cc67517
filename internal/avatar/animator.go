package avatar

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTickHz is the mouth toggle rate
const DefaultTickHz = 6.0

// Animator plays audio on a background goroutine while the calling goroutine
// toggles the avatar mouth once per tick and polls for a quit request.
type Animator struct {
	player  Player
	surface Surface
	tick    time.Duration
	logger  zerolog.Logger
}

func NewAnimator(player Player, surface Surface, tickHz float64, logger zerolog.Logger) *Animator {
	if tickHz <= 0 {
		tickHz = DefaultTickHz
	}
	return &Animator{
		player:  player,
		surface: surface,
		tick:    time.Duration(float64(time.Second) / tickHz),
		logger:  logger,
	}
}

// Play blocks until the audio finishes, ending on a closed-mouth frame.
// If the user quits or ctx is cancelled first, audio stops at once, the surface
// is torn down and ErrPlaybackCancelled is returned.
// A playback device failure ends playback early but is not an error,
// unless a quit request arrives within a tick of it.
func (a *Animator) Play(ctx context.Context, samples []int16, sampleRate int) error {
	playCtx, stopAudio := context.WithCancel(ctx)
	defer stopAudio()

	done := make(chan error, 1)
	go func() {
		done <- a.player.Play(playCtx, samples, sampleRate)
	}()

	quit, stopWatch := a.surface.Watch()
	defer stopWatch()

	ticker := time.NewTicker(a.tick)
	defer ticker.Stop()

	open := false
	frames := 0
	for {
		select {
		case <-quit:
			return a.cancel(stopAudio, done)
		case <-ctx.Done():
			return a.cancel(stopAudio, done)
		default:
		}

		select {
		case err := <-done:
			if err != nil && a.interrupted(ctx, quit, err) {
				return a.teardown()
			}
			if err := a.surface.Draw(false); err != nil {
				a.logger.Warn().Err(err).Msg("failed to draw final frame")
			}
			a.logger.Debug().Int("frames", frames).Msg("playback finished")
			return nil
		default:
		}

		open = !open
		if err := a.surface.Draw(open); err != nil {
			a.logger.Warn().Err(err).Msg("failed to draw frame")
		}
		frames++

		<-ticker.C
	}
}

// interrupted waits up to one tick for a quit request after the player fails.
// A terminal interrupt reaches the player process and the signal watcher at
// nearly the same moment.
func (a *Animator) interrupted(ctx context.Context, quit <-chan struct{}, err error) bool {
	select {
	case <-quit:
		return true
	case <-ctx.Done():
		return true
	case <-time.After(a.tick):
		a.logger.Warn().Err(err).Msg("audio playback failed")
		return false
	}
}

func (a *Animator) cancel(stopAudio context.CancelFunc, done <-chan error) error {
	stopAudio()

	// give the player one tick to release the device
	select {
	case <-done:
	case <-time.After(a.tick):
		a.logger.Warn().Msg("player did not stop within one tick")
	}

	return a.teardown()
}

func (a *Animator) teardown() error {
	if err := a.surface.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("failed to close avatar surface")
	}
	a.logger.Info().Msg("playback cancelled")
	return ErrPlaybackCancelled
}
