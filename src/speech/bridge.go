package speech

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Bridge wraps capture, transcription and synthesis as three blocking calls
type Bridge struct {
	recorder    Recorder
	recognizer  Recognizer
	synthesizer Synthesizer
	window      time.Duration
	sampleRate  int
	logger      zerolog.Logger
}

// BridgeConfig sets the capture window
type BridgeConfig struct {
	CaptureSeconds float64
	SampleRate     int
}

func NewBridge(recorder Recorder, recognizer Recognizer, synthesizer Synthesizer, config BridgeConfig, logger zerolog.Logger) *Bridge {
	if config.CaptureSeconds <= 0 {
		config.CaptureSeconds = DefaultCaptureSeconds
	}
	if config.SampleRate <= 0 {
		config.SampleRate = DefaultCaptureSampleRate
	}
	return &Bridge{
		recorder:    recorder,
		recognizer:  recognizer,
		synthesizer: synthesizer,
		window:      time.Duration(config.CaptureSeconds * float64(time.Second)),
		sampleRate:  config.SampleRate,
		logger:      logger,
	}
}

// Capture records one fixed window; silence is a valid result
func (b *Bridge) Capture(ctx context.Context) ([]byte, error) {
	b.logger.Debug().Dur("window", b.window).Int("sample_rate", b.sampleRate).Msg("recording")

	pcm, err := b.recorder.Record(ctx, b.window, b.sampleRate)
	if err != nil {
		return nil, fmt.Errorf("capture failed: %w", err)
	}
	return pcm, nil
}

// Transcribe returns the transcript of a captured window, "" when nothing was recognized
func (b *Bridge) Transcribe(ctx context.Context, pcm []byte) (string, error) {
	return b.recognizer.Transcribe(ctx, pcm, b.sampleRate)
}

// Synthesize converts a reply into playable audio
func (b *Bridge) Synthesize(ctx context.Context, text string) (Audio, error) {
	return b.synthesizer.Synthesize(ctx, text)
}
