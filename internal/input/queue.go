package input

import (
	"errors"
	"fmt"
	"log"
	"sync"
)

// DefaultQueueSize bounds the number of pending analog operations.
const DefaultQueueSize = 512

// Queue applies primitives on a dedicated goroutine so callers never block
// on the OS. Operations run in submission order.
type Queue struct {
	actions *Actions
	ops     chan func() error

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewQueue starts a queue worker over actions.
func NewQueue(actions *Actions, size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	q := &Queue{
		actions: actions,
		ops:     make(chan func() error, size),
		done:    make(chan struct{}),
	}
	go q.worker()
	return q
}

func (q *Queue) worker() {
	defer close(q.done)
	for op := range q.ops {
		q.apply(op)
	}
}

func (q *Queue) apply(op func() error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Actions: Recovered from panic in output queue: %v", r)
		}
	}()
	if err := op(); err != nil && !errors.Is(err, ErrFailsafe) {
		log.Printf("Actions: %v", err)
	}
}

func (q *Queue) submit(name string, op func() error) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return fmt.Errorf("%s: queue closed", name)
	}
	select {
	case q.ops <- op:
		return nil
	default:
		return fmt.Errorf("%s: %w", name, ErrQueueFull)
	}
}

// submitRelease enqueues op even if it has to wait for room. Once the queue is
// closed, op runs on the caller's goroutine instead.
func (q *Queue) submitRelease(op func() error) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return op()
	}
	q.ops <- op
	return nil
}

// KeyDown enqueues a key press.
func (q *Queue) KeyDown(key string) error {
	return q.submit("key down "+key, func() error { return q.actions.KeyDown(key) })
}

// KeyUp enqueues a key release. Releases are never dropped: a full queue makes
// the caller wait and a closed queue applies the release directly.
func (q *Queue) KeyUp(key string) error {
	return q.submitRelease(func() error { return q.actions.KeyUp(key) })
}

// MoveBy enqueues a relative cursor move.
func (q *Queue) MoveBy(dx, dy int) error {
	return q.submit("move by", func() error { return q.actions.MoveBy(dx, dy) })
}

// Scroll enqueues a vertical scroll.
func (q *Queue) Scroll(clicks int) error {
	return q.submit("scroll", func() error { return q.actions.Scroll(clicks) })
}

// ScrollHorizontal enqueues a horizontal scroll.
func (q *Queue) ScrollHorizontal(clicks int) error {
	return q.submit("hscroll", func() error { return q.actions.ScrollHorizontal(clicks) })
}

// Close stops accepting work and waits for pending operations to finish.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.done
		return
	}
	q.closed = true
	close(q.ops)
	q.mu.Unlock()
	<-q.done
}
