package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
)

// WhisperRecognizer transcribes audio through an OpenAI-compatible /audio/transcriptions endpoint
type WhisperRecognizer struct {
	baseURL  string
	apiKey   string
	model    string
	language string
	client   *http.Client
	logger   zerolog.Logger
}

// RecognizerConfig holds recognition endpoint settings
type RecognizerConfig struct {
	BaseURL  string
	APIKey   string
	Model    string // "whisper-1"
	Language string // "en"
	Timeout  time.Duration
}

func NewWhisperRecognizer(logger zerolog.Logger, config RecognizerConfig) *WhisperRecognizer {
	if config.Model == "" {
		config.Model = "whisper-1"
	}
	return &WhisperRecognizer{
		baseURL:  strings.TrimRight(config.BaseURL, "/"),
		apiKey:   config.APIKey,
		model:    config.Model,
		language: config.Language,
		client:   &http.Client{Timeout: config.Timeout},
		logger:   logger.With().Str("provider", "whisper-api").Logger(),
	}
}

// Transcribe sends mono s16le PCM as a WAV upload and returns the trimmed transcript.
// A response with no text yields "".
func (r *WhisperRecognizer) Transcribe(ctx context.Context, pcm []byte, sampleRate int) (string, error) {
	if len(pcm) == 0 {
		return "", ErrEmptyAudio
	}
	if sampleRate <= 0 {
		sampleRate = DefaultCaptureSampleRate
	}
	start := time.Now()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", "audio.wav")
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(encodeWAV(pcm, sampleRate, CaptureChannels)); err != nil {
		return "", fmt.Errorf("failed to write audio data: %w", err)
	}
	if err := writer.WriteField("model", r.model); err != nil {
		return "", fmt.Errorf("failed to write model field: %w", err)
	}
	if r.language != "" {
		if err := writer.WriteField("language", r.language); err != nil {
			return "", fmt.Errorf("failed to write language field: %w", err)
		}
	}
	if err := writer.WriteField("response_format", "json"); err != nil {
		return "", fmt.Errorf("failed to write format field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/audio/transcriptions", &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	if r.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+r.apiKey)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		r.logger.Error().Int("status", resp.StatusCode).Str("body", string(body)).Msg("transcription error")
		return "", fmt.Errorf("transcription API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := sonic.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	text := strings.TrimSpace(result.Text)
	r.logger.Debug().Int("text_length", len(text)).Dur("time", time.Since(start)).Msg("transcription complete")

	return text, nil
}
