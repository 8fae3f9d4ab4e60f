package timer

import (
	"sync"

	"github.com/hammamikhairi/countdown/internal/domain"
	"github.com/hammamikhairi/countdown/internal/logger"
)

type subscriber struct {
	id int
	fn func(domain.Event)
}

// bus queues events and delivers them in order from its own goroutine.
// publish never blocks, so it is safe to call with the machine lock held.
type bus struct {
	log *logger.Logger

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []domain.Event
	subs   []subscriber
	nextID int
	closed bool
	done   chan struct{}
}

func newBus(log *logger.Logger) *bus {
	b := &bus{log: log, done: make(chan struct{})}
	b.cond = sync.NewCond(&b.mu)
	go b.run()
	return b
}

func (b *bus) publish(ev domain.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.queue = append(b.queue, ev)
	b.cond.Signal()
}

func (b *bus) subscribe(fn func(domain.Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscriber{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// close stops accepting events, waits for the queue to drain, and stops run.
func (b *bus) close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		<-b.done
		return
	}
	b.closed = true
	b.cond.Broadcast()
	b.mu.Unlock()
	<-b.done
}

func (b *bus) run() {
	defer close(b.done)

	for {
		b.mu.Lock()
		for len(b.queue) == 0 && !b.closed {
			b.cond.Wait()
		}
		if len(b.queue) == 0 {
			b.mu.Unlock()
			return
		}
		ev := b.queue[0]
		b.queue = b.queue[1:]
		subs := make([]subscriber, len(b.subs))
		copy(subs, b.subs)
		b.mu.Unlock()

		b.log.Debug("event %s (remaining=%dms total=%dms running=%t)",
			ev.Kind, ev.Snapshot.RemainingMillis(), ev.Snapshot.TotalMillis(), ev.Snapshot.Running)
		for _, s := range subs {
			s.fn(ev)
		}
	}
}
