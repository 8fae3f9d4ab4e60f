// Package timer implements the countdown state machine: duration selection,
// the one-second tick loop, and the completion/cancellation events that the
// presentation layer and collaborators observe.
package timer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hammamikhairi/countdown/internal/domain"
	"github.com/hammamikhairi/countdown/internal/logger"
)

// Option configures the machine.
type Option func(*Machine)

// WithTickInterval sets both the wait between ticks and the amount
// subtracted per tick.
func WithTickInterval(d time.Duration) Option {
	return func(m *Machine) {
		if d > 0 {
			m.tickInterval = d
		}
	}
}

// WithClock sets the time source for the tick loop.
func WithClock(c domain.Clock) Option {
	return func(m *Machine) {
		m.clock = c
	}
}

// WithNotifier sets the collaborator that receives the remaining-time
// snapshot when a run starts.
func WithNotifier(n domain.Notifier) Option {
	return func(m *Machine) {
		m.notifier = n
	}
}

// WithCuePlayer sets the collaborator that plays the completion sound.
func WithCuePlayer(p domain.CuePlayer) Option {
	return func(m *Machine) {
		m.cue = p
	}
}

// Machine owns the timer state. Commands and ticks are serialized by mu;
// events are delivered in order on a separate goroutine, so subscribers
// may call back into the machine.
type Machine struct {
	log          *logger.Logger
	clock        domain.Clock
	notifier     domain.Notifier
	cue          domain.CuePlayer
	tickInterval time.Duration

	mu        sync.Mutex
	hour      int
	minute    int
	second    int
	total     time.Duration
	remaining time.Duration
	running   bool
	run       uint64             // identifies the current run; bumped on start and cancel
	cancel    context.CancelFunc // cancels the current run's context
	closed    bool

	ctx      context.Context
	shutdown context.CancelFunc
	wg       sync.WaitGroup
	bus      *bus
}

// New creates an idle machine with the given options.
func New(log *logger.Logger, opts ...Option) *Machine {
	ctx, shutdown := context.WithCancel(context.Background())
	m := &Machine{
		log:          log,
		clock:        domain.SystemClock{},
		tickInterval: time.Second,
		ctx:          ctx,
		shutdown:     shutdown,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.bus = newBus(log)

	if m.cue != nil {
		cue := m.cue
		m.bus.subscribe(func(ev domain.Event) {
			if ev.Kind == domain.EventCompleted {
				cue.PlayCompletion()
			}
		})
	}
	return m
}

// Select sets the selected hour, minute and second. Values are not
// range-checked; the picker constrains them.
func (m *Machine) Select(hour, minute, second int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.hour, m.minute, m.second = hour, minute, second
	m.emitLocked(domain.EventSelected)
}

// Start begins a countdown from the selected duration. It returns false
// without changing anything when the selection is zero, when a run is
// already in progress, or after Close.
func (m *Machine) Start() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		m.log.Warn("start after close ignored")
		return false
	}
	if m.running {
		m.log.Warn("timer already running, ignoring start")
		return false
	}

	total := domain.SelectedDuration(m.hour, m.minute, m.second)
	if total <= 0 {
		m.log.Debug("start ignored: nothing selected")
		return false
	}

	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel
	m.run++
	m.total = total
	m.remaining = total
	m.running = true
	m.emitLocked(domain.EventStarted)

	if m.notifier != nil {
		m.wg.Add(1)
		go m.notify(ctx, total)
	}

	m.wg.Add(1)
	go m.loop(ctx, m.run)

	m.log.Info("timer started (total=%s, tick=%s)", total, m.tickInterval)
	return true
}

// Cancel stops a running countdown and zeroes the remaining time.
// It returns false when nothing was running.
func (m *Machine) Cancel() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.stopLocked() {
		return false
	}
	m.emitLocked(domain.EventCancelled)
	m.log.Info("timer cancelled")
	return true
}

// Reset cancels any run and returns the machine to its initial state.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopLocked() {
		m.emitLocked(domain.EventCancelled)
	}
	m.hour, m.minute, m.second = 0, 0, 0
	m.total = 0
	m.remaining = 0
	m.emitLocked(domain.EventReset)
	m.log.Debug("timer reset")
}

// Formatted returns the remaining time as HH:MM:SS.
func (m *Machine) Formatted() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.FormatRemaining(m.remaining)
}

// Progress returns the elapsed fraction of the current run.
func (m *Machine) Progress() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.Progress(m.total, m.remaining)
}

// Snapshot returns a copy of the current state.
func (m *Machine) Snapshot() domain.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Subscribe registers fn for every subsequent event. Events arrive in
// order on a single goroutine. The returned func removes the subscription.
func (m *Machine) Subscribe(fn func(domain.Event)) (unsubscribe func()) {
	return m.bus.subscribe(fn)
}

// Close cancels any live countdown, waits for the tick and notifier
// goroutines to exit, then delivers pending events and stops the
// dispatcher. Safe to call more than once. Must not be called from a
// subscriber.
func (m *Machine) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.stopLocked()
	m.shutdown()
	m.mu.Unlock()

	m.wg.Wait()
	m.bus.close()
	m.log.Debug("timer closed")
	return nil
}

// stopLocked ends the current run. Returns false when nothing was running.
func (m *Machine) stopLocked() bool {
	if !m.running {
		return false
	}
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.run++
	m.running = false
	m.remaining = 0
	return true
}

// loop waits one interval per iteration. Each wait is independent, so
// scheduling delays accumulate instead of being corrected.
func (m *Machine) loop(ctx context.Context, run uint64) {
	defer m.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.clock.After(m.tickInterval):
		}
		if !m.tick(run) {
			return
		}
	}
}

// tick subtracts one interval. Returns false once the run is over or stale.
func (m *Machine) tick(run uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running || m.run != run {
		return false
	}

	m.remaining -= m.tickInterval
	if m.remaining <= 0 {
		m.remaining = 0
		m.running = false
		m.emitLocked(domain.EventCompleted)
		m.log.Info("timer completed (total=%s)", m.total)
		return false
	}

	m.emitLocked(domain.EventTicked)
	return true
}

// notify runs the notifier hand-off for one run.
func (m *Machine) notify(ctx context.Context, remaining time.Duration) {
	defer m.wg.Done()

	err := m.notifier.Schedule(ctx, remaining)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		m.log.Debug("notification withdrawn: run cancelled")
	default:
		m.log.Error("scheduling notification: %v", err)
	}
}

func (m *Machine) emitLocked(kind domain.EventKind) {
	m.bus.publish(domain.Event{Kind: kind, Snapshot: m.snapshotLocked(), At: m.clock.Now()})
}

func (m *Machine) snapshotLocked() domain.Snapshot {
	return domain.Snapshot{
		Hour:      m.hour,
		Minute:    m.minute,
		Second:    m.second,
		Total:     m.total,
		Remaining: m.remaining,
		Running:   m.running,
	}
}
