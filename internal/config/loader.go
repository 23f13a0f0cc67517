package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LoadYAML overlays the keys present in the YAML file onto dst.
// A missing file is not an error; dst keeps its current values.
func LoadYAML(filepath string, dst any) error {
	data, err := os.ReadFile(filepath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("error parsing YAML: %w", err)
	}

	return nil
}

// LoadDotEnv loads environment variables from the given .env files (".env" when none).
// Missing files are ignored; variables already set in the environment win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("error loading %s: %w", f, err)
		}
	}

	return nil
}
