package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mdhdoan/VIVI/internal/avatar"
	"github.com/mdhdoan/VIVI/internal/metrics"
	"github.com/mdhdoan/VIVI/pkg"
	"github.com/mdhdoan/VIVI/src/conversation"
)

var exitKeywords = map[string]struct{}{
	"exit":  {},
	"!stop": {},
}

// IsExitKeyword reports whether the input ends the conversation
func IsExitKeyword(input string) bool {
	_, ok := exitKeywords[strings.ToLower(strings.TrimSpace(input))]
	return ok
}

// Config wires the orchestrator's collaborators. Presenter and Metrics are optional.
type Config struct {
	Profile   *pkg.CharacterProfile
	Memory    *conversation.MemoryLog
	Builder   *conversation.ContextBuilder
	Reasoner  Reasoner
	Repo      MemoryRepository
	Input     InputSource
	Presenter Presenter
	Console   io.Writer
	Metrics   *metrics.Metrics
	Logger    zerolog.Logger
	Now       func() time.Time
}

// Orchestrator runs the conversation loop: acquire input, build context, reason,
// present, persist. Turns are strictly serial.
type Orchestrator struct {
	profile   *pkg.CharacterProfile
	memory    *conversation.MemoryLog
	builder   *conversation.ContextBuilder
	reasoner  Reasoner
	repo      MemoryRepository
	input     InputSource
	presenter Presenter
	console   io.Writer
	metrics   *metrics.Metrics
	log       zerolog.Logger
	now       func() time.Time
}

func NewOrchestrator(config Config) *Orchestrator {
	o := &Orchestrator{
		profile:   config.Profile,
		memory:    config.Memory,
		builder:   config.Builder,
		reasoner:  config.Reasoner,
		repo:      config.Repo,
		input:     config.Input,
		presenter: config.Presenter,
		console:   config.Console,
		metrics:   config.Metrics,
		log:       config.Logger,
		now:       config.Now,
	}
	if o.profile == nil {
		o.profile = pkg.DefaultCharacterProfile()
	}
	if o.memory == nil {
		o.memory = conversation.NewMemoryLog(nil)
	}
	if o.builder == nil {
		o.builder = conversation.NewContextBuilder(nil)
	}
	if o.console == nil {
		o.console = io.Discard
	}
	if o.now == nil {
		o.now = time.Now
	}
	return o
}

// Memory returns the in-memory log
func (o *Orchestrator) Memory() *conversation.MemoryLog {
	return o.memory
}

// Run prints the greeting and loops until an exit keyword, end of input,
// or a cancelled playback. Only an input device failure or ctx cancellation is an error.
func (o *Orchestrator) Run(ctx context.Context) error {
	fmt.Fprintln(o.console, o.profile.Intro())

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		in, err := o.input.Next(ctx)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(o.console)
			fmt.Fprintln(o.console, o.profile.Outro())
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to acquire input: %w", err)
		}

		text := strings.TrimSpace(in.Text)
		if text == "" {
			if in.Spoken {
				o.log.Debug().Msg("nothing recognized, listening again")
				o.metrics.IncEmptyTranscript()
			}
			continue
		}

		if in.Spoken {
			fmt.Fprintf(o.console, "You: %s\n", text)
		}

		if IsExitKeyword(text) {
			fmt.Fprintln(o.console, o.profile.Outro())
			o.log.Info().Int("turns", o.memory.Len()).Msg("conversation ended by user")
			return nil
		}

		if err := o.Turn(ctx, text); err != nil {
			if errors.Is(err, avatar.ErrPlaybackCancelled) {
				o.log.Info().Int("turns", o.memory.Len()).Msg("conversation aborted during playback")
				return nil
			}
			return err
		}
	}
}

// Turn handles one user utterance end to end.
// The turn is persisted only after presentation completes; a cancelled
// presentation returns avatar.ErrPlaybackCancelled and records nothing.
func (o *Orchestrator) Turn(ctx context.Context, userInput string) error {
	bundle := o.builder.Build(o.profile, o.memory, userInput)

	start := time.Now()
	result := o.reasoner.Invoke(ctx, bundle)
	o.metrics.ObserveReasoning(time.Since(start))

	reply := result.Reply(o.profile.DefaultResponse)
	outcome := metrics.OutcomeReply
	switch {
	case result.Failed():
		outcome = metrics.OutcomeError
		o.log.Warn().Err(result.Err).Msg("reasoning failed, using placeholder reply")
	case reply != result.Text:
		outcome = metrics.OutcomeFallback
		o.log.Debug().Msg("blank reply, using default response")
	}

	fmt.Fprintf(o.console, "%s: %s\n", o.profile.Name, reply)

	if o.presenter != nil {
		if err := o.presenter.Present(ctx, reply); err != nil {
			if errors.Is(err, avatar.ErrPlaybackCancelled) {
				o.metrics.ObserveTurn(metrics.OutcomeCancelled)
				return err
			}
			o.log.Warn().Err(err).Msg("failed to present reply")
		}
	}

	o.memory.Append(conversation.NewTurn(o.now(), userInput, o.profile.Name, reply))
	if err := o.repo.Save(ctx, o.memory); err != nil {
		o.metrics.IncPersistFailure()
		o.log.Error().Err(err).Msg("failed to persist memory")
	}

	o.metrics.ObserveTurn(outcome)
	o.log.Debug().
		Str("outcome", outcome).
		Int("turns", o.memory.Len()).
		Msg("turn complete")

	return nil
}
