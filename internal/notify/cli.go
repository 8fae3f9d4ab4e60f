package notify

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/countdown/internal/logger"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#fca5a5"))
	bodyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#d4d4d8"))
)

// PrintFunc is a function used to print formatted output.
// Matches the signature of both fmt.Printf and display.UI.Printf.
type PrintFunc func(format string, a ...interface{})

// PrintPoster writes notifications as a styled line of text.
type PrintPoster struct {
	log     *logger.Logger
	printFn PrintFunc
}

// NewPrintPoster creates a text poster.
// If printFn is nil, fmt.Printf is used.
func NewPrintPoster(log *logger.Logger, printFn PrintFunc) *PrintPoster {
	if printFn == nil {
		printFn = func(format string, a ...interface{}) {
			fmt.Printf(format+"\n", a...)
		}
	}
	return &PrintPoster{log: log, printFn: printFn}
}

// Post prints "title: body".
func (p *PrintPoster) Post(_ context.Context, title, body string) error {
	p.log.Debug("notify: %s: %s", title, body)
	p.printFn("%s %s", titleStyle.Render(title+":"), bodyStyle.Render(body))
	return nil
}
