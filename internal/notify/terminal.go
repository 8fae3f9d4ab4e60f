package notify

import (
	"context"
	"io"

	"github.com/muesli/termenv"
)

// TerminalPoster raises a desktop notification through the terminal
// emulator (OSC 777) and optionally rings the terminal bell.
type TerminalPoster struct {
	out  *termenv.Output
	w    io.Writer
	bell bool
}

// NewTerminalPoster writes escape sequences to w.
func NewTerminalPoster(w io.Writer, bell bool) *TerminalPoster {
	return &TerminalPoster{out: termenv.NewOutput(w), w: w, bell: bell}
}

// Post emits the notification sequence.
func (p *TerminalPoster) Post(_ context.Context, title, body string) error {
	p.out.Notify(title, body)
	if p.bell {
		if _, err := io.WriteString(p.w, "\a"); err != nil {
			return err
		}
	}
	return nil
}
