package core

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdhdoan/VIVI/internal/avatar"
	"github.com/mdhdoan/VIVI/internal/metrics"
	"github.com/mdhdoan/VIVI/internal/storage"
	"github.com/mdhdoan/VIVI/pkg"
	"github.com/mdhdoan/VIVI/src/character"
	"github.com/mdhdoan/VIVI/src/conversation"
	"github.com/mdhdoan/VIVI/src/llm"
	"github.com/mdhdoan/VIVI/src/speech"
)

// scriptedInput replays inputs, then reports io.EOF
type scriptedInput struct {
	inputs []Input
	calls  int
}

func (s *scriptedInput) Next(context.Context) (Input, error) {
	s.calls++
	if len(s.inputs) == 0 {
		return Input{}, io.EOF
	}
	in := s.inputs[0]
	s.inputs = s.inputs[1:]
	return in, nil
}

func typed(lines ...string) *scriptedInput {
	s := &scriptedInput{}
	for _, l := range lines {
		s.inputs = append(s.inputs, Input{Text: l})
	}
	return s
}

// stubReasoner answers from a map keyed by user input
type stubReasoner struct {
	replies map[string]llm.Result
	bundles []pkg.ContextBundle
}

func (s *stubReasoner) Invoke(_ context.Context, bundle pkg.ContextBundle) llm.Result {
	s.bundles = append(s.bundles, bundle)
	return s.replies[bundle.UserInput]
}

// stubChatModel lets the real reasoning chain run without a model server
type stubChatModel struct {
	reply string
	err   error
}

func (s stubChatModel) Generate(context.Context, []*schema.Message, ...model.Option) (*schema.Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	return schema.AssistantMessage(s.reply, nil), nil
}

func (s stubChatModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not supported")
}

type harness struct {
	dir     string
	store   *storage.JSONMemoryStore
	console *bytes.Buffer
	metrics *metrics.Metrics
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	return &harness{
		dir:     dir,
		store:   storage.NewJSONMemoryStore(filepath.Join(dir, "memory", "VIVI-memory.json")),
		console: &bytes.Buffer{},
		metrics: metrics.New(),
	}
}

func (h *harness) profile(t *testing.T, content string) *pkg.CharacterProfile {
	t.Helper()
	path := filepath.Join(h.dir, "character.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return character.LoadOrDefault(path, h.console, zerolog.Nop())
}

func (h *harness) orchestrator(t *testing.T, profile *pkg.CharacterProfile, reasoner Reasoner, input InputSource, presenter Presenter) *Orchestrator {
	t.Helper()
	repo := conversation.NewRepository(h.store, zerolog.Nop())
	return NewOrchestrator(Config{
		Profile:   profile,
		Memory:    repo.Load(context.Background(), h.console),
		Reasoner:  reasoner,
		Repo:      repo,
		Input:     input,
		Presenter: presenter,
		Console:   h.console,
		Metrics:   h.metrics,
		Logger:    zerolog.Nop(),
		Now: func() time.Time {
			return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		},
	})
}

func (h *harness) persisted(t *testing.T) []pkg.MemoryTurn {
	t.Helper()
	turns, err := h.store.Load(context.Background())
	require.NoError(t, err)
	return turns
}

const viviCharacter = `{"name":"VIVI","greeting":"Hi","farewell":"Bye","default_response":"Hmm"}`

func TestOrchestrator_TextScenario(t *testing.T) {
	h := newHarness(t)
	profile := h.profile(t, viviCharacter)

	chatModel := stubChatModel{reply: "Hi there!"}
	gateway, err := llm.NewGateway(context.Background(), chatModel, zerolog.Nop())
	require.NoError(t, err)

	o := h.orchestrator(t, profile, gateway, NewTextInput(strings.NewReader("hello\nexit\n"), h.console), nil)
	require.NoError(t, o.Run(context.Background()))

	out := h.console.String()
	assert.Contains(t, out, "Starting with empty memory.\n")
	assert.Contains(t, out, "Hi\n")
	assert.Contains(t, out, "VIVI: Hi there!\n")
	assert.Equal(t, 1, strings.Count(out, "Bye\n"))

	turns := h.persisted(t)
	require.Len(t, turns, 1)
	assert.Equal(t, "User: hello\nVIVI: Hi there!", turns[0].Content)
	assert.Equal(t, "2024-05-01T10:00:00.000000+00:00", turns[0].Timestamp)

	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Turns.WithLabelValues(metrics.OutcomeReply)))
}

func TestOrchestrator_ReasoningFailurePersistsPlaceholder(t *testing.T) {
	h := newHarness(t)
	profile := h.profile(t, viviCharacter)

	cause := errors.New("model unavailable")
	reasoner := &stubReasoner{replies: map[string]llm.Result{"bad": {Err: cause}}}

	o := h.orchestrator(t, profile, reasoner, typed("bad"), nil)
	require.NoError(t, o.Run(context.Background()))

	want := "(Oops, something went wrong: model unavailable)"
	assert.Contains(t, h.console.String(), "VIVI: "+want+"\n")

	turns := h.persisted(t)
	require.Len(t, turns, 1)
	assert.Equal(t, "User: bad\nVIVI: "+want, turns[0].Content)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Turns.WithLabelValues(metrics.OutcomeError)))
}

func TestOrchestrator_BlankReplyUsesDefaultResponse(t *testing.T) {
	h := newHarness(t)
	profile := h.profile(t, viviCharacter)
	reasoner := &stubReasoner{replies: map[string]llm.Result{
		"one": {Text: "   "},
		"two": {Text: ""},
	}}

	o := h.orchestrator(t, profile, reasoner, typed("one", "two"), nil)
	require.NoError(t, o.Run(context.Background()))

	turns := h.persisted(t)
	require.Len(t, turns, 2)
	assert.Equal(t, "User: one\nVIVI: Hmm", turns[0].Content)
	assert.Equal(t, "User: two\nVIVI: Hmm", turns[1].Content)
	assert.Equal(t, 2.0, testutil.ToFloat64(h.metrics.Turns.WithLabelValues(metrics.OutcomeFallback)))
}

func TestOrchestrator_ExitKeywords(t *testing.T) {
	for _, keyword := range []string{"EXIT", "exit", "!stop", "  Exit  ", "!STOP"} {
		t.Run(keyword, func(t *testing.T) {
			h := newHarness(t)
			profile := h.profile(t, viviCharacter)
			reasoner := &stubReasoner{}
			input := typed(keyword, "never read")

			o := h.orchestrator(t, profile, reasoner, input, nil)
			require.NoError(t, o.Run(context.Background()))

			assert.Equal(t, 1, strings.Count(h.console.String(), "Bye"))
			assert.Empty(t, reasoner.bundles)
			assert.Equal(t, 1, input.calls)

			_, err := h.store.Load(context.Background())
			assert.ErrorIs(t, err, storage.ErrMemoryNotFound)
		})
	}
}

func TestIsExitKeyword(t *testing.T) {
	assert.True(t, IsExitKeyword("exit"))
	assert.True(t, IsExitKeyword("EXIT"))
	assert.True(t, IsExitKeyword("!Stop"))
	assert.False(t, IsExitKeyword("exit now"))
	assert.False(t, IsExitKeyword("stop"))
}

func TestOrchestrator_EndOfInputSaysFarewell(t *testing.T) {
	h := newHarness(t)
	profile := h.profile(t, viviCharacter)

	o := h.orchestrator(t, profile, &stubReasoner{}, typed(), nil)
	require.NoError(t, o.Run(context.Background()))
	assert.Equal(t, 1, strings.Count(h.console.String(), "Bye\n"))
}

func TestOrchestrator_ContextUsesMemoryBeforeCurrentTurn(t *testing.T) {
	h := newHarness(t)
	profile := h.profile(t, `{"name":"VIVI","personality_traits":[{"trait":"warm","description":"friendly"}]}`)
	reasoner := &stubReasoner{replies: map[string]llm.Result{
		"first":  {Text: "one"},
		"second": {Text: "two"},
	}}

	o := h.orchestrator(t, profile, reasoner, typed("first", "second"), nil)
	require.NoError(t, o.Run(context.Background()))

	require.Len(t, reasoner.bundles, 2)
	assert.Empty(t, reasoner.bundles[0].RecentMemoryText)
	assert.Equal(t, "warm: friendly", reasoner.bundles[0].PersonalitySummary)
	assert.Equal(t, "2024-05-01T10:00:00.000000+00:00: User: first\nVIVI: one", reasoner.bundles[1].RecentMemoryText)
	assert.NotContains(t, reasoner.bundles[1].RecentMemoryText, "second")
}

func TestOrchestrator_ReloadsPriorMemory(t *testing.T) {
	h := newHarness(t)
	profile := h.profile(t, viviCharacter)
	prior := []pkg.MemoryTurn{{Timestamp: "2024-04-30T09:00:00.000000+00:00", Content: "User: hi\nVIVI: hey"}}
	require.NoError(t, h.store.Save(context.Background(), prior))

	reasoner := &stubReasoner{replies: map[string]llm.Result{"again": {Text: "welcome back"}}}
	o := h.orchestrator(t, profile, reasoner, typed("again"), nil)
	require.NoError(t, o.Run(context.Background()))

	assert.NotContains(t, h.console.String(), "Starting with empty memory.")
	turns := h.persisted(t)
	require.Len(t, turns, 2)
	assert.Equal(t, prior[0], turns[0])
	assert.Equal(t, "User: again\nVIVI: welcome back", turns[1].Content)
}

func TestOrchestrator_EmptyTypedInputReprompts(t *testing.T) {
	h := newHarness(t)
	profile := h.profile(t, viviCharacter)
	reasoner := &stubReasoner{replies: map[string]llm.Result{"hello": {Text: "hey"}}}

	o := h.orchestrator(t, profile, reasoner, typed("", "   ", "hello"), nil)
	require.NoError(t, o.Run(context.Background()))

	assert.Len(t, reasoner.bundles, 1)
	assert.Len(t, h.persisted(t), 1)
}

// fakeListener returns transcripts in order; captures always succeed
type fakeListener struct {
	transcripts []string
	err         error
}

func (f *fakeListener) Capture(context.Context) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return make([]byte, 320), nil
}

func (f *fakeListener) Transcribe(context.Context, []byte) (string, error) {
	if len(f.transcripts) == 0 {
		return "exit", nil
	}
	text := f.transcripts[0]
	f.transcripts = f.transcripts[1:]
	return text, nil
}

func TestOrchestrator_VoiceEmptyTranscriptionRelistens(t *testing.T) {
	h := newHarness(t)
	profile := h.profile(t, viviCharacter)
	reasoner := &stubReasoner{}
	listener := &fakeListener{transcripts: []string{"", "  "}}

	o := h.orchestrator(t, profile, reasoner, NewVoiceInput(listener, zerolog.Nop()), nil)
	require.NoError(t, o.Run(context.Background()))

	out := h.console.String()
	assert.Equal(t, 1, strings.Count(out, "You: "))
	assert.Contains(t, out, "You: exit\nBye\n")
	assert.Empty(t, reasoner.bundles)
	assert.Equal(t, 2.0, testutil.ToFloat64(h.metrics.EmptyTranscripts))

	_, err := h.store.Load(context.Background())
	assert.ErrorIs(t, err, storage.ErrMemoryNotFound)
}

func TestOrchestrator_VoiceCaptureFailureIsFatal(t *testing.T) {
	h := newHarness(t)
	profile := h.profile(t, viviCharacter)
	listener := &fakeListener{err: errors.New("no capture device")}

	o := h.orchestrator(t, profile, &stubReasoner{}, NewVoiceInput(listener, zerolog.Nop()), nil)
	err := o.Run(context.Background())
	assert.ErrorContains(t, err, "no capture device")
}

// cancellingPresenter cancels playback on the nth reply
type cancellingPresenter struct {
	cancelOn int
	calls    int
}

func (p *cancellingPresenter) Present(context.Context, string) error {
	p.calls++
	if p.calls == p.cancelOn {
		return avatar.ErrPlaybackCancelled
	}
	return nil
}

func TestOrchestrator_CancelMidPlaybackDropsInFlightTurn(t *testing.T) {
	h := newHarness(t)
	profile := h.profile(t, viviCharacter)
	reasoner := &stubReasoner{replies: map[string]llm.Result{
		"one":   {Text: "first"},
		"two":   {Text: "second"},
		"three": {Text: "third"},
	}}
	presenter := &cancellingPresenter{cancelOn: 3}
	input := &scriptedInput{inputs: []Input{
		{Text: "one", Spoken: true},
		{Text: "two", Spoken: true},
		{Text: "three", Spoken: true},
		{Text: "four", Spoken: true},
	}}

	o := h.orchestrator(t, profile, reasoner, input, presenter)
	require.NoError(t, o.Run(context.Background()))

	turns := h.persisted(t)
	require.Len(t, turns, 2)
	assert.Equal(t, "User: one\nVIVI: first", turns[0].Content)
	assert.Equal(t, "User: two\nVIVI: second", turns[1].Content)
	assert.Equal(t, 2, o.Memory().Len())

	out := h.console.String()
	assert.Contains(t, out, "VIVI: third\n")
	assert.NotContains(t, out, "Bye")
	assert.Equal(t, 3, input.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Turns.WithLabelValues(metrics.OutcomeCancelled)))
}

// interruptibleSpeaker stands in for aplay and the terminal together: on the
// nth playback an interrupt kills the player and raises the quit request
type interruptibleSpeaker struct {
	interruptOn int32
	plays       atomic.Int32
	interrupt   chan struct{}
	quit        chan struct{}
}

func newInterruptibleSpeaker(interruptOn int32) *interruptibleSpeaker {
	return &interruptibleSpeaker{interruptOn: interruptOn, interrupt: make(chan struct{}), quit: make(chan struct{})}
}

func (s *interruptibleSpeaker) Play(ctx context.Context, _ []int16, _ int) error {
	if s.plays.Add(1) < s.interruptOn {
		return nil
	}
	select {
	case <-s.interrupt:
		return errors.New("aplay: signal: interrupt")
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *interruptibleSpeaker) Draw(bool) error {
	if s.plays.Load() == s.interruptOn {
		select {
		case <-s.interrupt:
		default:
			close(s.interrupt)
			time.AfterFunc(time.Millisecond, func() { close(s.quit) })
		}
	}
	return nil
}

func (s *interruptibleSpeaker) Watch() (<-chan struct{}, func()) { return s.quit, func() {} }

func (s *interruptibleSpeaker) Close() error { return nil }

func TestOrchestrator_InterruptDuringVoicePlaybackDropsTurn(t *testing.T) {
	h := newHarness(t)
	profile := h.profile(t, viviCharacter)
	reasoner := &stubReasoner{replies: map[string]llm.Result{
		"one": {Text: "first"},
		"two": {Text: "second"},
	}}
	speaker := newInterruptibleSpeaker(2)
	animator := avatar.NewAnimator(speaker, speaker, 200, zerolog.Nop())
	presenter := NewVoicePresenter(fakeSynthesizer{}, animator, h.metrics, zerolog.Nop())
	input := &scriptedInput{inputs: []Input{
		{Text: "one", Spoken: true},
		{Text: "two", Spoken: true},
		{Text: "three", Spoken: true},
	}}

	o := h.orchestrator(t, profile, reasoner, input, presenter)
	require.NoError(t, o.Run(context.Background()))

	turns := h.persisted(t)
	require.Len(t, turns, 1)
	assert.Equal(t, "User: one\nVIVI: first", turns[0].Content)
	assert.Equal(t, 2, input.calls)
	assert.NotContains(t, h.console.String(), "Bye")
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Turns.WithLabelValues(metrics.OutcomeCancelled)))
}

type failingRepo struct{ calls int }

func (f *failingRepo) Save(context.Context, *conversation.MemoryLog) error {
	f.calls++
	return errors.New("read-only file system")
}

func TestOrchestrator_PersistFailureKeepsConversationGoing(t *testing.T) {
	h := newHarness(t)
	repo := &failingRepo{}
	reasoner := &stubReasoner{replies: map[string]llm.Result{"a": {Text: "x"}, "b": {Text: "y"}}}

	o := NewOrchestrator(Config{
		Reasoner: reasoner,
		Repo:     repo,
		Input:    typed("a", "b"),
		Console:  h.console,
		Metrics:  h.metrics,
		Logger:   zerolog.Nop(),
	})
	require.NoError(t, o.Run(context.Background()))

	assert.Equal(t, 2, repo.calls)
	assert.Equal(t, 2, o.Memory().Len())
	assert.Equal(t, 2.0, testutil.ToFloat64(h.metrics.PersistFailures))
}

func TestOrchestrator_StopsOnContextCancel(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := h.orchestrator(t, pkg.DefaultCharacterProfile(), &stubReasoner{}, typed("hello"), nil)
	assert.ErrorIs(t, o.Run(ctx), context.Canceled)
}

// fakeSynthesizer and fakeAnimator exercise VoicePresenter
type fakeSynthesizer struct{ err error }

func (f fakeSynthesizer) Synthesize(context.Context, string) (speech.Audio, error) {
	if f.err != nil {
		return speech.Audio{}, f.err
	}
	return speech.Audio{Samples: []int16{1, 2, 3}, SampleRate: 22050}, nil
}

type fakeAnimator struct {
	played int
	err    error
}

func (f *fakeAnimator) Play(_ context.Context, samples []int16, sampleRate int) error {
	f.played++
	return f.err
}

func TestVoicePresenter(t *testing.T) {
	m := metrics.New()

	animator := &fakeAnimator{}
	presenter := NewVoicePresenter(fakeSynthesizer{}, animator, m, zerolog.Nop())
	require.NoError(t, presenter.Present(context.Background(), "hello"))
	assert.Equal(t, 1, animator.played)

	// synthesis failure degrades to text-only
	presenter = NewVoicePresenter(fakeSynthesizer{err: errors.New("tts down")}, animator, m, zerolog.Nop())
	require.NoError(t, presenter.Present(context.Background(), "hello"))
	assert.Equal(t, 1, animator.played)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SynthesisFailures))

	// cancellation propagates
	presenter = NewVoicePresenter(fakeSynthesizer{}, &fakeAnimator{err: avatar.ErrPlaybackCancelled}, m, zerolog.Nop())
	assert.ErrorIs(t, presenter.Present(context.Background(), "hello"), avatar.ErrPlaybackCancelled)
}
