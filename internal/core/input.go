package core

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// TextInput reads typed lines after a "You: " prompt
type TextInput struct {
	reader  *bufio.Reader
	console io.Writer
}

func NewTextInput(in io.Reader, console io.Writer) *TextInput {
	return &TextInput{reader: bufio.NewReader(in), console: console}
}

func (t *TextInput) Next(_ context.Context) (Input, error) {
	fmt.Fprint(t.console, "You: ")

	line, err := t.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return Input{Text: line}, nil
		}
		return Input{}, err
	}
	return Input{Text: line}, nil
}

// VoiceInput captures a fixed window and transcribes it.
// A recognition failure counts as silence; a capture failure is returned.
type VoiceInput struct {
	listener Listener
	log      zerolog.Logger
}

func NewVoiceInput(listener Listener, log zerolog.Logger) *VoiceInput {
	return &VoiceInput{listener: listener, log: log}
}

func (v *VoiceInput) Next(ctx context.Context) (Input, error) {
	pcm, err := v.listener.Capture(ctx)
	if err != nil {
		return Input{}, err
	}

	text, err := v.listener.Transcribe(ctx, pcm)
	if err != nil {
		v.log.Warn().Err(err).Msg("transcription failed")
		text = ""
	}

	return Input{Text: text, Spoken: true}, nil
}
