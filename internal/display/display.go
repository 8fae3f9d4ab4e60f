// Package display provides the terminal UI using Bubble Tea.
//
// The [UI] renders the countdown readout, a progress bar while running,
// and the hour/minute/second picker while idle. It is a function of the
// timer's snapshots: state changes arrive as events via [UI.HandleEvent],
// and key presses are turned into commands on the [Controller].
package display

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/countdown/internal/domain"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8")).
			Padding(1, 2)

	urgentTimeStyle = timeStyle.
			Foreground(lipgloss.Color("#f87171")).
			Bold(true)

	fieldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa")).
			Padding(0, 1)

	focusedFieldStyle = fieldStyle.
				Foreground(lipgloss.Color("#fde68a")).
				Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a")).
			Width(9).
			Align(lipgloss.Center)

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5")).
			Bold(true)

	disabledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b")).
			Italic(true)

	// BannerStyle is the muted slate used for the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))
)

const appTitle = "Countdown"

// Controller is the set of timer commands the screen can raise.
type Controller interface {
	Select(hour, minute, second int)
	Start() bool
	Cancel() bool
	Reset()
	Snapshot() domain.Snapshot
}

// Options tunes the screen.
type Options struct {
	UrgentThreshold time.Duration // readout turns red at or below this
	MaxHours        int           // upper bound of the hour wheel
}

func (o Options) withDefaults() Options {
	if o.UrgentThreshold <= 0 {
		o.UrgentThreshold = 10 * time.Second
	}
	if o.MaxHours <= 0 {
		o.MaxHours = 99
	}
	return o
}

// ── UI ───────────────────────────────────────────────────────────

// UI manages the terminal through Bubble Tea.
//
// Call [NewUI] then [UI.Run] (blocking). Other goroutines may call
// [UI.HandleEvent], [UI.Printf] and the [UI.Writer] at any time.
type UI struct {
	program *tea.Program
	readyCh chan struct{}
	quitCh  chan struct{}
	done    atomic.Bool
}

// eventMsg carries a timer event into the Bubble Tea loop.
type eventMsg domain.Event

// NewUI creates the display for ctrl. Call Run() to start.
func NewUI(ctrl Controller, opts Options) *UI {
	u := &UI{
		readyCh: make(chan struct{}),
		quitCh:  make(chan struct{}),
	}
	u.program = tea.NewProgram(newModel(ctrl, opts, u.readyCh))
	return u
}

// HandleEvent forwards a timer event to the screen. Events that arrive
// before the event loop is running are dropped; the model starts from
// the controller's snapshot.
func (u *UI) HandleEvent(ev domain.Event) {
	select {
	case <-u.readyCh:
	default:
		return
	}
	if u.done.Load() {
		return
	}
	u.program.Send(eventMsg(ev))
}

// Writer returns a writer for raw terminal sequences such as desktop
// notifications. While the program runs, each write is queued through it
// and emitted between frames; otherwise it goes straight to fallback.
func (u *UI) Writer(fallback io.Writer) io.Writer {
	return &uiWriter{ui: u, fallback: fallback}
}

// rawMsg carries bytes to be written above the view.
type rawMsg string

type uiWriter struct {
	ui       *UI
	fallback io.Writer
}

func (w *uiWriter) Write(p []byte) (int, error) {
	if !w.ui.isLive() {
		return w.fallback.Write(p)
	}
	w.ui.program.Send(rawMsg(p))
	return len(p), nil
}

// Printf prints formatted text above the timer. Thread-safe.
func (u *UI) Printf(format string, a ...interface{}) {
	if u.isLive() {
		u.program.Printf(format, a...)
	} else {
		fmt.Printf(format+"\n", a...)
	}
}

func (u *UI) isLive() bool {
	select {
	case <-u.readyCh:
		return !u.done.Load()
	default:
		return false
	}
}

// WaitReady blocks until the Bubble Tea event loop is running.
func (u *UI) WaitReady() { <-u.readyCh }

// Quit tells Bubble Tea to exit.
func (u *UI) Quit() { u.program.Quit() }

// QuitChan is closed when Run returns.
func (u *UI) QuitChan() <-chan struct{} { return u.quitCh }

// Run starts the Bubble Tea event loop. Blocks until quit.
func (u *UI) Run() error {
	_, err := u.program.Run()
	u.done.Store(true)
	close(u.quitCh)
	return err
}

// ── Bubble Tea model ─────────────────────────────────────────────

type model struct {
	ctrl      Controller
	opts      Options
	snap      domain.Snapshot
	picker    picker
	bar       progress.Model
	keys      KeyMap
	help      help.Model
	completed bool // last run ended naturally and nothing changed since
	readyCh   chan struct{}
	width     int
}

func newModel(ctrl Controller, opts Options, readyCh chan struct{}) model {
	opts = opts.withDefaults()
	snap := ctrl.Snapshot()
	return model{
		ctrl:    ctrl,
		opts:    opts,
		snap:    snap,
		picker:  newPicker(snap, opts.MaxHours),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(40)),
		keys:    DefaultKeyMap(),
		help:    help.New(),
		readyCh: readyCh,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		signalReady(m.readyCh),
		tea.SetWindowTitle(appTitle),
	)
}

func signalReady(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if ch != nil {
			close(ch)
		}
		return nil
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		w := msg.Width - 8
		if w > 60 {
			w = 60
		}
		if w > 10 {
			m.bar.Width = w
		}
		m.help.Width = msg.Width
		return m, nil

	case eventMsg:
		m.snap = msg.Snapshot
		switch msg.Kind {
		case domain.EventCompleted:
			m.completed = true
		case domain.EventStarted, domain.EventCancelled:
			m.completed = false
		case domain.EventReset:
			m.completed = false
			m.picker.clear()
		}
		return m, tea.SetWindowTitle(m.titleStr())

	case rawMsg:
		return m, tea.Println(string(msg))

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		if m.snap.Running {
			m.ctrl.Cancel()
		} else {
			m.start()
		}

	case key.Matches(msg, m.keys.Start):
		m.start()

	case key.Matches(msg, m.keys.Cancel):
		m.ctrl.Cancel()

	case key.Matches(msg, m.keys.Reset):
		m.ctrl.Reset()
		m.picker.clear()
		m.completed = false

	case m.snap.Running:
		// The picker is hidden while running.
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.picker.increment()
		m.selectPicker()

	case key.Matches(msg, m.keys.Down):
		m.picker.decrement()
		m.selectPicker()

	case key.Matches(msg, m.keys.Left):
		m.picker.prev()

	case key.Matches(msg, m.keys.Right):
		m.picker.next()

	default:
		return m, nil
	}

	m.snap = m.ctrl.Snapshot()
	return m, tea.SetWindowTitle(m.titleStr())
}

// start is disabled while the selection is zero.
func (m *model) start() {
	if m.snap.Running || m.picker.total() <= 0 {
		return
	}
	if m.ctrl.Start() {
		m.completed = false
	}
}

func (m *model) selectPicker() {
	v := m.picker.values
	m.ctrl.Select(v[fieldHour], v[fieldMinute], v[fieldSecond])
	m.completed = false
}

func (m model) titleStr() string {
	switch {
	case m.snap.Running:
		return appTitle + " - " + domain.FormatRemaining(m.snap.Remaining)
	case m.completed:
		return appTitle + " - Time's up!"
	default:
		return appTitle
	}
}

func (m model) View() string {
	var b strings.Builder

	readout := domain.FormatRemaining(m.snap.Remaining)
	if (m.snap.Running || m.completed) && domain.IsUrgent(m.snap.Remaining, m.opts.UrgentThreshold) {
		b.WriteString(urgentTimeStyle.Render(readout))
	} else {
		b.WriteString(timeStyle.Render(readout))
	}
	b.WriteByte('\n')

	if m.snap.Running {
		b.WriteString("  " + m.bar.ViewAs(domain.Progress(m.snap.Total, m.snap.Remaining)))
		b.WriteString("\n\n")
	} else {
		b.WriteString(m.renderPicker())
		b.WriteString("\n\n")
		if m.picker.total() <= 0 {
			b.WriteString("  " + disabledStyle.Render("select a duration to start"))
			b.WriteString("\n")
		}
	}

	if m.completed {
		b.WriteString("  " + doneStyle.Render("Time's up!"))
		b.WriteString("\n")
	}

	b.WriteString("\n  " + m.help.View(m.keys))
	return b.String()
}

func (m model) renderPicker() string {
	labels := make([]string, fieldCount)
	values := make([]string, fieldCount)
	for i := 0; i < fieldCount; i++ {
		labels[i] = labelStyle.Render(fieldLabels[i])
		style := fieldStyle
		if i == m.picker.focus {
			style = focusedFieldStyle
		}
		values[i] = labelStyle.Render(style.Render(fmt.Sprintf("%02d", m.picker.values[i])))
	}
	return "  " + strings.Join(labels, " ") + "\n  " + strings.Join(values, " ")
}
