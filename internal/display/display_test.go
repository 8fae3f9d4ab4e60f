package display

import (
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/countdown/internal/domain"
)

// fakeController records commands and keeps a minimal state.
type fakeController struct {
	mu      sync.Mutex
	snap    domain.Snapshot
	starts  int
	cancels int
	resets  int
}

func (c *fakeController) Select(h, m, s int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap.Hour, c.snap.Minute, c.snap.Second = h, m, s
}

func (c *fakeController) Start() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.starts++
	if c.snap.Running {
		return false
	}
	c.snap.Total = c.snap.Selected()
	c.snap.Remaining = c.snap.Total
	c.snap.Running = true
	return true
}

func (c *fakeController) Cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancels++
	was := c.snap.Running
	c.snap.Running = false
	c.snap.Remaining = 0
	return was
}

func (c *fakeController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resets++
	c.snap = domain.Snapshot{}
}

func (c *fakeController) Snapshot() domain.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func press(t *testing.T, m model, msgs ...tea.Msg) model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(model)
		require.True(t, ok)
	}
	return m
}

func TestPickerSelectsOnController(t *testing.T) {
	ctrl := &fakeController{}
	m := newModel(ctrl, Options{}, nil)

	// Focus starts on minutes; move to seconds and bump twice.
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyUp}, runes("k"))

	s := ctrl.Snapshot()
	assert.Equal(t, [3]int{0, 0, 2}, [3]int{s.Hour, s.Minute, s.Second})
	assert.Contains(t, m.View(), "02")
}

func TestStartDisabledForZeroSelection(t *testing.T) {
	ctrl := &fakeController{}
	m := newModel(ctrl, Options{}, nil)

	m = press(t, m, runes("s"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 0, ctrl.starts)
	assert.Contains(t, m.View(), "select a duration")
}

func TestStartAndToggleCancel(t *testing.T) {
	ctrl := &fakeController{}
	m := newModel(ctrl, Options{}, nil)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, 1, ctrl.starts)
	assert.True(t, m.snap.Running)
	assert.Contains(t, m.View(), "00:01:00")
	assert.NotContains(t, m.View(), "Minutes", "picker hidden while running")

	// Picker keys are ignored while running.
	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, ctrl.Snapshot().Minute)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 1, ctrl.cancels)
	assert.False(t, m.snap.Running)
}

func TestResetClearsPicker(t *testing.T) {
	ctrl := &fakeController{}
	m := newModel(ctrl, Options{}, nil)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp}, runes("r"))
	assert.Equal(t, 1, ctrl.resets)
	assert.Equal(t, time.Duration(0), m.picker.total())
}

func TestCompletedEventShowsBanner(t *testing.T) {
	ctrl := &fakeController{}
	m := newModel(ctrl, Options{}, nil)

	m = press(t, m, eventMsg(domain.Event{
		Kind:     domain.EventCompleted,
		Snapshot: domain.Snapshot{Second: 5, Total: 5 * time.Second},
	}))
	assert.True(t, m.completed)
	assert.Contains(t, m.View(), "Time's up!")
	assert.Equal(t, "Countdown - Time's up!", m.titleStr())

	// A cancellation never shows the completion banner.
	m = press(t, m, eventMsg(domain.Event{Kind: domain.EventCancelled}))
	assert.False(t, m.completed)
	assert.NotContains(t, m.View(), "Time's up!")
}

func TestTickEventUpdatesReadout(t *testing.T) {
	ctrl := &fakeController{}
	m := newModel(ctrl, Options{}, nil)

	m = press(t, m, eventMsg(domain.Event{
		Kind:     domain.EventTicked,
		Snapshot: domain.Snapshot{Minute: 1, Total: time.Minute, Remaining: 59 * time.Second, Running: true},
	}))
	assert.Contains(t, m.View(), "00:00:59")
	assert.Equal(t, "Countdown - 00:00:59", m.titleStr())
}

func TestUrgentReadout(t *testing.T) {
	ctrl := &fakeController{}
	m := newModel(ctrl, Options{UrgentThreshold: 10 * time.Second}, nil)

	running := func(rem time.Duration) model {
		return press(t, m, eventMsg(domain.Event{
			Kind:     domain.EventTicked,
			Snapshot: domain.Snapshot{Total: time.Minute, Remaining: rem, Running: true},
		}))
	}

	calm := running(11 * time.Second).View()
	urgent := running(10 * time.Second).View()
	assert.Contains(t, urgent, urgentTimeStyle.Render("00:00:10"))
	assert.Contains(t, calm, timeStyle.Render("00:00:11"))
}

func TestQuitKey(t *testing.T) {
	m := newModel(&fakeController{}, Options{}, nil)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestPickerWraps(t *testing.T) {
	p := newPicker(domain.Snapshot{}, 99)

	p.decrement()
	assert.Equal(t, 59, p.values[fieldMinute])
	p.increment()
	assert.Equal(t, 0, p.values[fieldMinute])

	p.prev()
	assert.Equal(t, fieldHour, p.focus)
	p.decrement()
	assert.Equal(t, 99, p.values[fieldHour])

	p.prev()
	assert.Equal(t, fieldSecond, p.focus)
	p.next()
	assert.Equal(t, fieldHour, p.focus)
}

func TestRenderBannerCentres(t *testing.T) {
	out := renderBanner("ab\nabcd\n", "hi", 10)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "   "), "expected 3 columns of padding, got %q", lines[0])
}

func TestHandleEventBeforeRunIsDropped(t *testing.T) {
	u := NewUI(&fakeController{}, Options{})
	done := make(chan struct{})
	go func() {
		u.HandleEvent(domain.Event{Kind: domain.EventTicked})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("HandleEvent blocked before the program started")
	}
}

func TestRawOutputIsPrintedBetweenFrames(t *testing.T) {
	m := newModel(&fakeController{}, Options{}, nil)
	next, cmd := m.Update(rawMsg("\x1b]777;notify;Countdown;done\x1b\\"))
	require.NotNil(t, cmd, "raw output must be handed back to the program as a print command")
	_, ok := next.(model)
	assert.True(t, ok)
}

func TestWriterFallsBackWhenNotRunning(t *testing.T) {
	u := NewUI(&fakeController{}, Options{})
	var buf strings.Builder

	n, err := u.Writer(&buf).Write([]byte("\a"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "\a", buf.String())
}
