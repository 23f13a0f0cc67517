package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
)

// SampleRateHeader carries the rate of the returned PCM when the server reports it
const SampleRateHeader = "X-Sample-Rate"

// TTSSynthesizer requests raw PCM from an OpenAI-compatible /audio/speech endpoint
type TTSSynthesizer struct {
	baseURL    string
	apiKey     string
	model      string
	voice      string
	sampleRate int
	fallback   int
	speed      float64
	client     *http.Client
	logger     zerolog.Logger
}

// SynthesizerConfig holds synthesis endpoint settings
type SynthesizerConfig struct {
	BaseURL    string
	APIKey     string
	Model      string // "tts-1"
	Voice      string // "nova"
	SampleRate int    // requested, and assumed when the server does not report one (24000 by default)
	Speed      float64
	Timeout    time.Duration
}

type speechRequest struct {
	Model          string  `json:"model"`
	Input          string  `json:"input"`
	Voice          string  `json:"voice"`
	ResponseFormat string  `json:"response_format"`
	Speed          float64 `json:"speed,omitempty"`
	SampleRate     int     `json:"sample_rate,omitempty"`
}

// DefaultSynthesisSampleRate is the rate of OpenAI's raw pcm speech output
const DefaultSynthesisSampleRate = 24000

// fallbackSampleRate is the rate assumed for a response without SampleRateHeader.
// OpenAI's hosted endpoint ignores the requested rate and always returns 24 kHz pcm.
func fallbackSampleRate(baseURL string, requested int) int {
	if u, err := url.Parse(baseURL); err == nil && strings.HasSuffix(u.Hostname(), "openai.com") {
		return DefaultSynthesisSampleRate
	}
	return requested
}

func NewTTSSynthesizer(logger zerolog.Logger, config SynthesizerConfig) *TTSSynthesizer {
	if config.Model == "" {
		config.Model = "tts-1"
	}
	if config.SampleRate <= 0 {
		config.SampleRate = DefaultSynthesisSampleRate
	}
	if config.Speed == 0 {
		config.Speed = 1.0
	}
	return &TTSSynthesizer{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		apiKey:     config.APIKey,
		model:      config.Model,
		voice:      config.Voice,
		sampleRate: config.SampleRate,
		fallback:   fallbackSampleRate(config.BaseURL, config.SampleRate),
		speed:      config.Speed,
		client:     &http.Client{Timeout: config.Timeout},
		logger:     logger.With().Str("provider", "openai-tts").Logger(),
	}
}

// Synthesize returns the decoded samples and the sample rate they were produced at
func (s *TTSSynthesizer) Synthesize(ctx context.Context, text string) (Audio, error) {
	if strings.TrimSpace(text) == "" {
		return Audio{}, ErrEmptyText
	}
	start := time.Now()

	body, err := sonic.Marshal(speechRequest{
		Model:          s.model,
		Input:          text,
		Voice:          s.voice,
		ResponseFormat: "pcm",
		Speed:          s.speed,
		SampleRate:     s.sampleRate,
	})
	if err != nil {
		return Audio{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/audio/speech", bytes.NewReader(body))
	if err != nil {
		return Audio{}, fmt.Errorf("create request: %w", err)
	}
	if s.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return Audio{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		s.logger.Error().
			Int("status", resp.StatusCode).
			Str("body", string(bodyBytes)).
			Msg("synthesis request failed")
		return Audio{}, fmt.Errorf("synthesis API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
	}

	pcm, err := io.ReadAll(resp.Body)
	if err != nil {
		return Audio{}, fmt.Errorf("read response: %w", err)
	}

	sampleRate := s.fallback
	if v := resp.Header.Get(SampleRateHeader); v != "" {
		if rate, err := strconv.Atoi(v); err == nil && rate > 0 {
			sampleRate = rate
		} else {
			s.logger.Warn().Str("header", v).Msg("ignoring invalid sample rate header")
		}
	}

	audio := Audio{Samples: decodePCM16(pcm), SampleRate: sampleRate}
	s.logger.Debug().
		Str("voice", s.voice).
		Int("samples", len(audio.Samples)).
		Int("sample_rate", sampleRate).
		Dur("processing_time", time.Since(start)).
		Msg("synthesis complete")

	return audio, nil
}
