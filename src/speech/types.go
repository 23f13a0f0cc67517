package speech

import (
	"context"
	"errors"
	"time"
)

// Common errors
var (
	ErrEmptyAudio = errors.New("no audio to transcribe")
	ErrEmptyText  = errors.New("no text to synthesize")
)

// Capture format of the recognition side: 16-bit signed little-endian PCM
const (
	DefaultCaptureSampleRate = 16000
	DefaultCaptureSeconds    = 5.0
	CaptureChannels          = 1
	BytesPerSample           = 2
)

// Audio is synthesized speech: mono 16-bit signed samples at SampleRate
type Audio struct {
	Samples    []int16
	SampleRate int
}

// Duration returns how long the audio plays
func (a Audio) Duration() time.Duration {
	if a.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(a.Samples)) * time.Second / time.Duration(a.SampleRate)
}

// Recorder captures a fixed window of raw PCM from the default input device
type Recorder interface {
	Record(ctx context.Context, duration time.Duration, sampleRate int) ([]byte, error)
}

// Recognizer turns raw mono s16le PCM into text
type Recognizer interface {
	Transcribe(ctx context.Context, pcm []byte, sampleRate int) (string, error)
}

// Synthesizer turns text into audio
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (Audio, error)
}
