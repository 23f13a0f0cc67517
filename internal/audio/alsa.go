package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mdhdoan/VIVI/src/speech"
)

// Default ALSA command-line tools
const (
	DefaultRecordCommand = "arecord"
	DefaultPlayCommand   = "aplay"
)

// ErrNoCommand is returned when a device command line is empty
var ErrNoCommand = errors.New("audio command not configured")

// rawFormatArgs are the flags arecord and aplay share for mono s16le raw PCM
func rawFormatArgs(sampleRate int) []string {
	return []string{"-q", "-t", "raw", "-f", "S16_LE", "-c", "1", "-r", strconv.Itoa(sampleRate)}
}

// splitCommand splits "binary extra args" into the binary and its leading arguments
func splitCommand(command string) (string, []string, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return "", nil, ErrNoCommand
	}
	return fields[0], fields[1:], nil
}

// Recorder captures raw PCM from the default input device through arecord
type Recorder struct {
	command string
	logger  zerolog.Logger
}

func NewRecorder(command string, logger zerolog.Logger) *Recorder {
	if command == "" {
		command = DefaultRecordCommand
	}
	return &Recorder{
		command: command,
		logger:  logger.With().Str("device", "capture").Logger(),
	}
}

// Record blocks for duration and returns the captured mono s16le bytes
func (r *Recorder) Record(ctx context.Context, duration time.Duration, sampleRate int) ([]byte, error) {
	binary, args, err := splitCommand(r.command)
	if err != nil {
		return nil, err
	}

	samples := int(duration.Seconds() * float64(sampleRate))
	args = append(args, rawFormatArgs(sampleRate)...)
	args = append(args, "-s", strconv.Itoa(samples))

	cmd := exec.CommandContext(ctx, binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		r.logger.Error().
			Err(err).
			Str("stderr", stderr.String()).
			Msg("recording failed")
		return nil, fmt.Errorf("%s failed: %w", binary, err)
	}

	r.logger.Debug().
		Int("bytes", stdout.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("recording complete")

	return stdout.Bytes(), nil
}

// Player writes raw PCM to the default output device through aplay
type Player struct {
	command string
	logger  zerolog.Logger
}

func NewPlayer(command string, logger zerolog.Logger) *Player {
	if command == "" {
		command = DefaultPlayCommand
	}
	return &Player{
		command: command,
		logger:  logger.With().Str("device", "playback").Logger(),
	}
}

// Play blocks until the samples have been played or ctx is cancelled.
// Cancelling ctx stops the output immediately.
func (p *Player) Play(ctx context.Context, samples []int16, sampleRate int) error {
	binary, args, err := splitCommand(p.command)
	if err != nil {
		return err
	}
	args = append(args, rawFormatArgs(sampleRate)...)

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdin = bytes.NewReader(speech.EncodePCM16(samples))
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.logger.Error().
			Err(err).
			Str("stderr", stderr.String()).
			Msg("playback failed")
		return fmt.Errorf("%s failed: %w", binary, err)
	}

	return nil
}
