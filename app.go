package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mdhdoan/VIVI/internal/audio"
	"github.com/mdhdoan/VIVI/internal/avatar"
	"github.com/mdhdoan/VIVI/internal/core"
	"github.com/mdhdoan/VIVI/internal/metrics"
	"github.com/mdhdoan/VIVI/internal/storage"
	"github.com/mdhdoan/VIVI/src"
	"github.com/mdhdoan/VIVI/src/character"
	"github.com/mdhdoan/VIVI/src/conversation"
	"github.com/mdhdoan/VIVI/src/llm"
	"github.com/mdhdoan/VIVI/src/logger"
	"github.com/mdhdoan/VIVI/src/model"
	"github.com/mdhdoan/VIVI/src/speech"
)

type mode string

const (
	modeText  mode = "text"
	modeVoice mode = "voice"
)

// apply overlays the command-line flags onto cfg
func (o *options) apply(cfg *src.Config) {
	if o.provider != "" {
		cfg.LLM.Provider = o.provider
	}
	if o.model != "" {
		cfg.LLM.Model = o.model
	}
	if o.memoryPath != "" {
		cfg.Memory.Path = o.memoryPath
	}
	if o.characterPath != "" {
		cfg.Character.Path = o.characterPath
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.metricsAddr != "" {
		cfg.Metrics.Addr = o.metricsAddr
	}
}

func run(ctx context.Context, m mode, opts *options) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := src.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	opts.apply(cfg)

	closer, err := logger.InitLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	// every component logger created from here on carries the session id
	root := logger.GetLogger()
	*root = root.With().Str("session_id", uuid.NewString()).Logger()

	log := logger.Component("vivi").With().Str("mode", string(m)).Logger()
	logger.Info().
		Str("mode", string(m)).
		Str("provider", cfg.LLM.Provider).
		Str("model", cfg.LLM.Model).
		Str("memory_backend", cfg.Memory.Backend).
		Msg("starting")

	pipelineMetrics := metrics.New()
	if cfg.Metrics.Addr != "" {
		stop := serveMetrics(cfg.Metrics.Addr, pipelineMetrics, log)
		defer stop()
	}

	console := os.Stdout

	store, err := newMemoryStore(ctx, cfg.Memory)
	if err != nil {
		return err
	}
	defer store.Close()
	repo := conversation.NewRepository(store, logger.Component("memory"))
	memory := repo.Load(ctx, console)

	profile := character.LoadOrDefault(cfg.Character.Path, console, logger.Component("character"))

	reasoner, err := newReasoner(ctx, cfg.LLM, log)
	if err != nil {
		return err
	}

	var input core.InputSource
	var presenter core.Presenter
	switch m {
	case modeVoice:
		input, presenter = newVoicePipeline(cfg, profile.Name, console, pipelineMetrics)
	default:
		input = core.NewTextInput(os.Stdin, console)
	}

	orchestrator := core.NewOrchestrator(core.Config{
		Profile:   profile,
		Memory:    memory,
		Reasoner:  reasoner,
		Repo:      repo,
		Input:     input,
		Presenter: presenter,
		Console:   console,
		Metrics:   pipelineMetrics,
		Logger:    logger.Component("orchestrator"),
	})

	if err := orchestrator.Run(ctx); err != nil {
		logger.Error().Err(err).Int("turns", orchestrator.Memory().Len()).Msg("conversation failed")
		return err
	}
	logger.Info().Int("turns", orchestrator.Memory().Len()).Msg("stopped")
	return nil
}

func newMemoryStore(ctx context.Context, cfg model.MemoryConfig) (storage.MemoryStore, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "file":
		return storage.NewJSONMemoryStore(cfg.Path), nil
	case "redis":
		return storage.NewRedisMemoryStore(ctx, cfg.RedisURL, cfg.RedisKey)
	case "memory":
		return storage.NewInMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown memory backend %q", cfg.Backend)
	}
}

func newReasoner(ctx context.Context, cfg model.LLMConfig, log zerolog.Logger) (*llm.Gateway, error) {
	if strings.EqualFold(cfg.Provider, llm.ProviderOllama) || cfg.Provider == "" {
		checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		present, err := llm.CheckOllama(checkCtx, cfg.BaseURL, cfg.Model, nil)
		cancel()
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("ollama health check failed, replies will fall back to placeholders")
		case !present:
			log.Warn().Str("model", cfg.Model).Msg("model not pulled on ollama; run `ollama pull` first")
		}
	}

	chatModel, err := llm.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return llm.NewGateway(ctx, chatModel, logger.Component("reasoning"))
}

// newVoicePipeline wires microphone input and spoken, animated replies.
// The idle avatar is drawn once so it is on screen before the first capture.
func newVoicePipeline(cfg *src.Config, name string, console io.Writer, m *metrics.Metrics) (core.InputSource, core.Presenter) {
	bridge := newSpeechBridge(cfg)
	surface := avatar.NewTerminalSurface(console, name)
	if err := surface.Draw(false); err != nil {
		logger.Error().Err(err).Msg("failed to draw avatar")
	}
	player := audio.NewPlayer(cfg.Audio.PlayCommand, logger.Component("audio"))
	animator := avatar.NewAnimator(player, surface, cfg.Avatar.TickHz, logger.Component("avatar"))

	return core.NewVoiceInput(bridge, logger.Component("listener")),
		core.NewVoicePresenter(bridge, animator, m, logger.Component("presenter"))
}

func newSpeechBridge(cfg *src.Config) *speech.Bridge {
	recognizer := speech.NewWhisperRecognizer(logger.Component("stt"), speech.RecognizerConfig{
		BaseURL:  cfg.Speech.BaseURL,
		APIKey:   cfg.Speech.APIKey,
		Model:    cfg.Speech.STTModel,
		Language: cfg.Speech.Language,
		Timeout:  cfg.Speech.Timeout,
	})
	synthesizer := speech.NewTTSSynthesizer(logger.Component("tts"), speech.SynthesizerConfig{
		BaseURL:    cfg.Speech.BaseURL,
		APIKey:     cfg.Speech.APIKey,
		Model:      cfg.Speech.TTSModel,
		Voice:      cfg.Speech.Voice,
		SampleRate: cfg.Speech.SampleRate,
		Timeout:    cfg.Speech.Timeout,
	})
	recorder := audio.NewRecorder(cfg.Audio.RecordCommand, logger.Component("audio"))

	return speech.NewBridge(recorder, recognizer, synthesizer, speech.BridgeConfig{
		CaptureSeconds: cfg.Audio.CaptureSeconds,
		SampleRate:     cfg.Audio.SampleRate,
	}, logger.Component("speech"))
}

// serveMetrics exposes /metrics in the background and returns a shutdown func
func serveMetrics(addr string, m *metrics.Metrics, log zerolog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info().Str("addr", addr).Msg("serving metrics")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}
}
