package src

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/mdhdoan/VIVI/internal/config"
	"github.com/mdhdoan/VIVI/src/model"
)

// EnvPrefix is the prefix of every environment variable read by LoadConfig
const EnvPrefix = "VIVI"

type Config struct {
	Log       model.LogConfig       `yaml:"log" envconfig:"LOG"`
	LLM       model.LLMConfig       `yaml:"llm" envconfig:"LLM"`
	Memory    model.MemoryConfig    `yaml:"memory" envconfig:"MEMORY"`
	Character model.CharacterConfig `yaml:"character" envconfig:"CHARACTER"`
	Speech    model.SpeechConfig    `yaml:"speech" envconfig:"SPEECH"`
	Audio     model.AudioConfig     `yaml:"audio" envconfig:"AUDIO"`
	Avatar    model.AvatarConfig    `yaml:"avatar" envconfig:"AVATAR"`
	Metrics   model.MetricsConfig   `yaml:"metrics" envconfig:"METRICS"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() Config {
	return Config{
		Log: model.LogConfig{
			Level:      "info",
			Format:     "json",
			Output:     "file",
			FilePath:   "logs/vivi.log",
			TimeFormat: "rfc3339",
		},
		LLM: model.LLMConfig{
			Provider:    "ollama",
			Model:       "llama3.1",
			BaseURL:     "http://localhost:11434",
			Temperature: 0.1,
		},
		Memory: model.MemoryConfig{
			Backend:  "file",
			Path:     "memory/VIVI-memory.json",
			RedisKey: "vivi:memory",
		},
		Character: model.CharacterConfig{
			Path: "characters/VIVI-character.json",
		},
		Speech: model.SpeechConfig{
			BaseURL:    "http://localhost:8000/v1",
			STTModel:   "whisper-1",
			TTSModel:   "tts-1",
			Voice:      "nova",
			Language:   "en",
			SampleRate: 24000,
		},
		Audio: model.AudioConfig{
			CaptureSeconds: 5.0,
			SampleRate:     16000,
			RecordCommand:  "arecord",
			PlayCommand:    "aplay",
		},
		Avatar: model.AvatarConfig{
			TickHz: 6,
		},
	}
}

// LoadConfig resolves the configuration: defaults, then the optional YAML file,
// then .env and VIVI_* environment variables.
func LoadConfig(yamlPath string) (*Config, error) {
	cfg := DefaultConfig()

	if yamlPath != "" {
		if err := config.LoadYAML(yamlPath, &cfg); err != nil {
			return nil, err
		}
	}

	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("error processing environment configuration: %w", err)
	}

	return &cfg, nil
}
