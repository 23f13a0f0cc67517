package model

import "time"

// ----------------------------------------------------
// ================ Logging ================
type LogConfig struct {
	Level      string `yaml:"level" split_words:"true"`
	Format     string `yaml:"format" split_words:"true"` // json, console
	Output     string `yaml:"output" split_words:"true"` // stdout, stderr, file
	FilePath   string `yaml:"file_path" split_words:"true"`
	TimeFormat string `yaml:"time_format" split_words:"true"` // rfc3339, unix, iso8601
}

// ----------------------------------------------------
// ================ Reasoning ================
// LLMConfig selects and configures the chat model behind the reasoning gateway
type LLMConfig struct {
	Provider    string        `yaml:"provider" split_words:"true"` // ollama, openai, deepseek, ark
	Model       string        `yaml:"model" split_words:"true"`
	BaseURL     string        `yaml:"base_url" split_words:"true"`
	APIKey      string        `yaml:"api_key" split_words:"true"`
	Temperature float64       `yaml:"temperature" split_words:"true"`
	MaxTokens   int           `yaml:"max_tokens" split_words:"true"`
	Timeout     time.Duration `yaml:"timeout" split_words:"true"` // 0 leaves it to the transport
}

// ----------------------------------------------------
// ================ Persistence ================
type MemoryConfig struct {
	Backend  string `yaml:"backend" split_words:"true"` // file, redis, memory
	Path     string `yaml:"path" split_words:"true"`
	RedisURL string `yaml:"redis_url" envconfig:"REDIS_URL"`
	RedisKey string `yaml:"redis_key" split_words:"true"`
}

type CharacterConfig struct {
	Path string `yaml:"path" split_words:"true"`
}

// ----------------------------------------------------
// ================ Voice ================
// SpeechConfig points at OpenAI-compatible recognition and synthesis endpoints
type SpeechConfig struct {
	BaseURL    string        `yaml:"base_url" split_words:"true"`
	APIKey     string        `yaml:"api_key" split_words:"true"`
	STTModel   string        `yaml:"stt_model" split_words:"true"`
	TTSModel   string        `yaml:"tts_model" split_words:"true"`
	Voice      string        `yaml:"voice" split_words:"true"`
	Language   string        `yaml:"language" split_words:"true"`
	SampleRate int           `yaml:"sample_rate" split_words:"true"` // requested synthesis rate
	Timeout    time.Duration `yaml:"timeout" split_words:"true"`
}

type AudioConfig struct {
	CaptureSeconds float64 `yaml:"capture_seconds" split_words:"true"`
	SampleRate     int     `yaml:"sample_rate" split_words:"true"`
	RecordCommand  string  `yaml:"record_command" split_words:"true"`
	PlayCommand    string  `yaml:"play_command" split_words:"true"`
}

type AvatarConfig struct {
	TickHz float64 `yaml:"tick_hz" split_words:"true"`
}

// ----------------------------------------------------
// ================ Metrics ================
type MetricsConfig struct {
	Addr string `yaml:"addr" split_words:"true"` // empty disables the HTTP endpoint
}
