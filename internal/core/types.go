package core

import (
	"context"

	"github.com/mdhdoan/VIVI/pkg"
	"github.com/mdhdoan/VIVI/src/conversation"
	"github.com/mdhdoan/VIVI/src/llm"
	"github.com/mdhdoan/VIVI/src/speech"
)

// Input is one acquired user utterance
type Input struct {
	Text   string
	Spoken bool // came from speech recognition and must be echoed
}

// InputSource acquires the next user utterance. io.EOF means the user is gone.
type InputSource interface {
	Next(ctx context.Context) (Input, error)
}

// Reasoner produces a reply for a context bundle
type Reasoner interface {
	Invoke(ctx context.Context, bundle pkg.ContextBundle) llm.Result
}

// Presenter renders a finalized reply beyond the console line, e.g. as speech.
// Returning avatar.ErrPlaybackCancelled ends the conversation.
type Presenter interface {
	Present(ctx context.Context, reply string) error
}

// MemoryRepository persists the whole memory log
type MemoryRepository interface {
	Save(ctx context.Context, memory *conversation.MemoryLog) error
}

// Listener captures and transcribes one window of speech
type Listener interface {
	Capture(ctx context.Context) ([]byte, error)
	Transcribe(ctx context.Context, pcm []byte) (string, error)
}

// Synthesizer turns a reply into audio
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (speech.Audio, error)
}

// Animator plays audio while animating the avatar
type Animator interface {
	Play(ctx context.Context, samples []int16, sampleRate int) error
}
