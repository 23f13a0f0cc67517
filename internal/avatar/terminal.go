package avatar

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/charmbracelet/lipgloss"
)

const (
	faceWidth    = 13
	mouthOpenArt = "\\_____/"
	mouthShutArt = "-------"
	eyesLine     = "o     o"
	cursorUp     = "\x1b[%dA"
	clearBelow   = "\x1b[J"
)

// TerminalSurface draws the avatar face in the terminal and redraws it in place
type TerminalSurface struct {
	mu     sync.Mutex
	out    io.Writer
	name   string
	face   lipgloss.Style
	label  lipgloss.Style
	lines  int
	closed bool
}

func NewTerminalSurface(out io.Writer, name string) *TerminalSurface {
	return &TerminalSurface{
		out:  out,
		name: name,
		face: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5A8DEE")).
			Width(faceWidth).
			Align(lipgloss.Center),
		label: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5A8DEE")).
			Width(faceWidth + 2).
			Align(lipgloss.Center),
	}
}

// Frame renders one avatar frame
func (s *TerminalSurface) Frame(open bool) string {
	mouth := mouthShutArt
	if open {
		mouth = mouthOpenArt
	}
	face := s.face.Render(strings.Join([]string{"", eyesLine, "", mouth, ""}, "\n"))
	return lipgloss.JoinVertical(lipgloss.Center, face, s.label.Render(s.name))
}

func (s *TerminalSurface) Draw(open bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSurfaceClosed
	}

	var b strings.Builder
	if s.lines > 0 {
		fmt.Fprintf(&b, cursorUp, s.lines)
		b.WriteString(clearBelow)
	}
	frame := s.Frame(open)
	b.WriteString(frame)
	b.WriteString("\n")

	if _, err := io.WriteString(s.out, b.String()); err != nil {
		return fmt.Errorf("failed to draw avatar: %w", err)
	}
	s.lines = strings.Count(frame, "\n") + 1
	return nil
}

// Watch treats an interrupt (Ctrl+C) as the quit request.
// Each watch starts a new face below whatever the console printed meanwhile.
func (s *TerminalSurface) Watch() (<-chan struct{}, func()) {
	s.mu.Lock()
	s.lines = 0
	s.mu.Unlock()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	quit := make(chan struct{})
	done := make(chan struct{})
	go func() {
		select {
		case <-sig:
			close(quit)
		case <-done:
		}
	}()

	var once sync.Once
	return quit, func() {
		once.Do(func() {
			signal.Stop(sig)
			close(done)
		})
	}
}

func (s *TerminalSurface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.lines > 0 {
		if _, err := fmt.Fprintf(s.out, cursorUp+clearBelow, s.lines); err != nil {
			return fmt.Errorf("failed to clear avatar: %w", err)
		}
		s.lines = 0
	}
	return nil
}
