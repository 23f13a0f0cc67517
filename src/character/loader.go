package character

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"

	"github.com/mdhdoan/VIVI/pkg"
)

// DefaultCharacterNotice is printed when the built-in character is used
const DefaultCharacterNotice = "Starting with default character."

// Load reads and decodes a character configuration file
func Load(path string) (pkg.CharacterSource, error) {
	var src pkg.CharacterSource

	data, err := os.ReadFile(path)
	if err != nil {
		return src, fmt.Errorf("failed to read character file: %w", err)
	}

	if err := sonic.ConfigStd.Unmarshal(data, &src); err != nil {
		return pkg.CharacterSource{}, fmt.Errorf("failed to parse character file: %w", err)
	}

	return src, nil
}

// LoadOrDefault builds the character profile from path.
// A missing or malformed file yields the built-in character and prints a notice on console.
func LoadOrDefault(path string, console io.Writer, log zerolog.Logger) *pkg.CharacterProfile {
	src, err := Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Info().Str("path", path).Msg("character file not found")
		} else {
			log.Warn().Err(err).Str("path", path).Msg("character file unusable")
		}
		fmt.Fprintln(console, DefaultCharacterNotice)
		return pkg.DefaultCharacterProfile()
	}

	profile := pkg.NewCharacterProfile(src)
	log.Debug().
		Str("name", profile.Name).
		Int("traits", len(profile.PersonalityTraits)).
		Msg("character loaded")

	return profile
}
