package core

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mdhdoan/VIVI/internal/metrics"
)

// VoicePresenter speaks the reply while animating the avatar
type VoicePresenter struct {
	synthesizer Synthesizer
	animator    Animator
	metrics     *metrics.Metrics
	log         zerolog.Logger
}

func NewVoicePresenter(synthesizer Synthesizer, animator Animator, m *metrics.Metrics, log zerolog.Logger) *VoicePresenter {
	return &VoicePresenter{synthesizer: synthesizer, animator: animator, metrics: m, log: log}
}

// Present blocks until playback ends. A synthesis failure leaves the reply
// text-only; only a cancelled playback is returned.
func (p *VoicePresenter) Present(ctx context.Context, reply string) error {
	audio, err := p.synthesizer.Synthesize(ctx, reply)
	if err != nil {
		p.metrics.IncSynthesisFailure()
		p.log.Warn().Err(err).Msg("synthesis failed, reply stays text-only")
		return nil
	}

	p.log.Debug().
		Int("sample_rate", audio.SampleRate).
		Dur("duration", audio.Duration()).
		Msg("playing reply")

	return p.animator.Play(ctx, audio.Samples, audio.SampleRate)
}
