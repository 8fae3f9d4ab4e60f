package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/countdown/internal/logger"
	"github.com/hammamikhairi/countdown/internal/testutil"
)

// recordingPoster collects posts for assertions.
type recordingPoster struct {
	mu    sync.Mutex
	posts []string
	err   error
}

func (p *recordingPoster) Post(_ context.Context, title, body string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.posts = append(p.posts, title+"|"+body)
	return p.err
}

func (p *recordingPoster) all() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.posts...)
}

func TestSchedulerPostsAfterRemaining(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	clock := testutil.NewFakeClock(time.Now())
	poster := &recordingPoster{}
	s := NewScheduler(poster, log, WithClock(clock), WithTitle("Tea"))

	errCh := make(chan error, 1)
	go func() { errCh <- s.Schedule(context.Background(), 90*time.Second) }()

	require.True(t, clock.BlockUntil(1, time.Second))
	clock.Advance(89 * time.Second)
	assert.Empty(t, poster.all())

	clock.Advance(time.Second)
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("schedule did not return")
	}

	posts := poster.all()
	require.Len(t, posts, 1)
	assert.Equal(t, "Tea|Time's up! 00:01:30 countdown finished.", posts[0])
}

func TestSchedulerCancelledRunDoesNotPost(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	clock := testutil.NewFakeClock(time.Now())
	poster := &recordingPoster{}
	s := NewScheduler(poster, log, WithClock(clock))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Schedule(ctx, time.Minute) }()

	require.True(t, clock.BlockUntil(1, time.Second))
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("schedule ignored cancellation")
	}
	assert.Empty(t, poster.all())
}

func TestSchedulerWrapsPosterError(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	boom := errors.New("boom")
	s := NewScheduler(&recordingPoster{err: boom}, log)

	err := s.Schedule(context.Background(), 0)
	assert.ErrorIs(t, err, boom)
}

func TestFanoutJoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	a := &recordingPoster{}
	b := &recordingPoster{err: boom}
	c := &recordingPoster{}

	err := Fanout{a, b, c}.Post(context.Background(), "t", "b")
	assert.ErrorIs(t, err, boom)
	assert.Len(t, a.all(), 1)
	assert.Len(t, c.all(), 1, "a failing poster must not stop the rest")
}

func TestTerminalPoster(t *testing.T) {
	var buf bytes.Buffer
	p := NewTerminalPoster(&buf, true)

	require.NoError(t, p.Post(context.Background(), "Countdown", "done"))
	out := buf.String()
	assert.Contains(t, out, "Countdown")
	assert.Contains(t, out, "done")
	assert.Contains(t, out, "\a")
}

func TestPrintPoster(t *testing.T) {
	var got string
	p := NewPrintPoster(logger.New(logger.LevelOff, nil), func(format string, a ...interface{}) {
		got = fmt.Sprintf(format, a...)
	})

	require.NoError(t, p.Post(context.Background(), "Countdown", "Time's up!"))
	assert.Contains(t, got, "Countdown:")
	assert.Contains(t, got, "Time's up!")
}
