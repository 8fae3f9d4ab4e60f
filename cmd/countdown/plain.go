package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/hammamikhairi/countdown/internal/command"
	"github.com/hammamikhairi/countdown/internal/domain"
	"github.com/hammamikhairi/countdown/internal/logger"
	"github.com/hammamikhairi/countdown/internal/notify"
	"github.com/hammamikhairi/countdown/internal/timer"
)

// syncWriter serializes writes from the REPL and the event dispatcher.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func newSyncWriter(w io.Writer) *syncWriter { return &syncWriter{w: w} }

// Printf writes one formatted line.
func (s *syncWriter) Printf(format string, a ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, format+"\n", a...)
}

// runPlain drives line mode on in/w until quit, end of input or ctx is
// done. After a countdown completed, the completion sound is allowed to
// finish before returning.
func (rt *runtime) runPlain(ctx context.Context, in io.Reader, w io.Writer, exitOnDone bool, start func(*timer.Machine)) error {
	out := newSyncWriter(w)
	posters := notify.Fanout{notify.NewPrintPoster(rt.log.Named("notify"), out.Printf)}
	if isTerminal(os.Stdout) {
		posters = append(posters, notify.NewTerminalPoster(os.Stdout, rt.cfg.Notify.Bell))
	}

	machine := rt.newMachine(posters)
	app := newPlainApp(machine, command.NewParser(rt.log.Named("parser")), rt.log, out, exitOnDone)
	defer app.close()

	start(machine)
	err := app.run(ctx, in)
	if app.hasCompleted() && ctx.Err() == nil {
		rt.log.Debug("waiting for the completion sound")
		rt.waitCue()
	}
	return err
}

// plainApp is the line-oriented front end: one command per line in, one
// status line per event out.
type plainApp struct {
	machine    *timer.Machine
	parser     *command.Parser
	log        *logger.Logger
	out        *syncWriter
	exitOnDone bool

	ended       chan struct{} // signalled when a run completes or is cancelled
	completed   chan struct{} // closed on the first completion
	once        sync.Once
	unsubscribe func()
}

func newPlainApp(m *timer.Machine, p *command.Parser, log *logger.Logger, out *syncWriter, exitOnDone bool) *plainApp {
	a := &plainApp{
		machine:    m,
		parser:     p,
		log:        log,
		out:        out,
		exitOnDone: exitOnDone,
		ended:      make(chan struct{}, 1),
		completed:  make(chan struct{}),
	}
	a.unsubscribe = m.Subscribe(a.onEvent)
	return a
}

func (a *plainApp) close() { a.unsubscribe() }

func (a *plainApp) onEvent(ev domain.Event) {
	snap := ev.Snapshot
	switch ev.Kind {
	case domain.EventSelected:
		a.out.Printf("Selected %s", domain.FormatRemaining(snap.Selected()))
	case domain.EventStarted:
		a.out.Printf("Started %s", domain.FormatRemaining(snap.Total))
	case domain.EventTicked:
		if shouldReport(snap.Remaining) {
			a.out.Printf("  %s", domain.FormatRemaining(snap.Remaining))
		}
	case domain.EventCompleted:
		a.out.Printf("Completed %s.", domain.FormatRemaining(snap.Total))
		a.signalEnd()
		a.once.Do(func() { close(a.completed) })
	case domain.EventCancelled:
		a.out.Printf("Cancelled.")
		a.signalEnd()
	case domain.EventReset:
		a.out.Printf("Reset.")
	}
}

// shouldReport keeps line mode quiet: whole minutes, then every second
// of the last ten.
func shouldReport(remaining time.Duration) bool {
	if remaining <= 10*time.Second {
		return true
	}
	return remaining%time.Minute == 0
}

// hasCompleted reports whether any countdown ran to zero.
func (a *plainApp) hasCompleted() bool {
	select {
	case <-a.completed:
		return true
	default:
		return false
	}
}

func (a *plainApp) signalEnd() {
	select {
	case a.ended <- struct{}{}:
	default:
	}
}

// run reads commands from in until quit, end of input or ctx is done.
// At end of input a live countdown is waited out.
func (a *plainApp) run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			a.log.Error("reading input: %v", err)
		}
	}()

	var completed <-chan struct{}
	if a.exitOnDone {
		completed = a.completed
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-completed:
			return nil
		case line, ok := <-lines:
			if !ok {
				return a.waitRun(ctx)
			}
			if a.handleLine(line) {
				return nil
			}
		}
	}
}

// waitRun blocks while a countdown is live.
func (a *plainApp) waitRun(ctx context.Context) error {
	for a.machine.Snapshot().Running {
		select {
		case <-ctx.Done():
			return nil
		case <-a.ended:
		}
	}
	return nil
}

// handleLine executes one command line. It returns true on quit.
func (a *plainApp) handleLine(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	intent, err := a.parser.Parse(line)
	if err != nil {
		a.out.Printf("%v", err)
		return false
	}
	a.log.Debug("intent: %s (payload=%q)", intent.Type, intent.Payload)
	return a.handleIntent(intent)
}

func (a *plainApp) handleIntent(intent *domain.Intent) bool {
	switch intent.Type {
	case domain.IntentSelect:
		a.machine.Select(intent.Hour, intent.Minute, intent.Second)
	case domain.IntentStart:
		a.start()
	case domain.IntentCancel:
		if !a.machine.Cancel() {
			a.out.Printf("Nothing is running.")
		}
	case domain.IntentReset:
		a.machine.Reset()
	case domain.IntentStatus:
		a.status()
	case domain.IntentHelp:
		a.showHelp()
	case domain.IntentQuit:
		return true
	default:
		a.out.Printf("Didn't catch %q. Type 'help' for commands.", intent.Payload)
	}
	return false
}

func (a *plainApp) start() {
	snap := a.machine.Snapshot()
	switch {
	case snap.Running:
		a.out.Printf("Already running: %s left.", domain.FormatRemaining(snap.Remaining))
	case snap.Selected() <= 0:
		a.out.Printf("Select a duration first, e.g. 'set 5m'.")
	default:
		a.machine.Start()
	}
}

func (a *plainApp) status() {
	snap := a.machine.Snapshot()
	switch snap.Status() {
	case domain.TimerRunning:
		a.out.Printf("%s: %s left of %s (%.0f%%)", snap.Status(),
			domain.FormatRemaining(snap.Remaining), domain.FormatRemaining(snap.Total),
			a.machine.Progress()*100)
	default:
		a.out.Printf("%s, selected %s.", snap.Status(), domain.FormatRemaining(snap.Selected()))
	}
}

func (a *plainApp) showHelp() {
	a.out.Printf(`Commands:
  set <duration>   select a duration: 5m, 1h2m3s, 1:30:00, 2:30, 90, "1 2 3"
  start            start the countdown
  cancel           stop the countdown
  reset            cancel and clear the selection
  status           show the remaining time
  quit             exit`)
}
