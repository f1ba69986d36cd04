// Package feedback acknowledges a saved reminder in the terminal. Success
// prints a styled line with a bell, Vibrate rings the bell in a pattern and
// Pulse prints a plain line.
package feedback

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	ErrNotTerminal = errors.New("output is not a terminal")
	ErrMuted       = errors.New("sound is disabled")
)

var successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)

type Terminal struct {
	out     io.Writer
	tty     bool
	sound   bool
	message string
	sleep   func(time.Duration)
}

// NewTerminal writes to stdout. message is the text shown on success.
func NewTerminal(message string, sound bool) *Terminal {
	return &Terminal{
		out:     os.Stdout,
		tty:     isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
		sound:   sound,
		message: message,
		sleep:   time.Sleep,
	}
}

func (t *Terminal) Success() error {
	if !t.tty {
		return ErrNotTerminal
	}
	bell := ""
	if t.sound {
		bell = "\a"
	}
	_, err := fmt.Fprintf(t.out, "%s%s\n", successStyle.Render("✔ "+t.message), bell)
	return err
}

// Vibrate plays pattern as alternating pause and buzz segments, starting
// with a pause. Each buzz is one bell.
func (t *Terminal) Vibrate(pattern []time.Duration) error {
	if !t.tty {
		return ErrNotTerminal
	}
	if !t.sound {
		return ErrMuted
	}
	for i, d := range pattern {
		if i%2 == 1 {
			if _, err := io.WriteString(t.out, "\a"); err != nil {
				return err
			}
		}
		t.sleep(d)
	}
	_, err := fmt.Fprintln(t.out, t.message)
	return err
}

func (t *Terminal) Pulse(time.Duration) error {
	_, err := fmt.Fprintln(t.out, t.message)
	return err
}

// Nop acknowledges nothing.
type Nop struct{}

func (Nop) Success() error                { return nil }
func (Nop) Vibrate([]time.Duration) error { return nil }
func (Nop) Pulse(time.Duration) error     { return nil }
