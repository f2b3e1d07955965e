package batch

import (
	"sync"
	"time"

	"github.com/abbacchio/abbacchio-go/logging"
)

// queue is an unbounded FIFO of entries. Producers push without blocking;
// the single flush worker pops with a bounded wait. The wake channel
// coalesces signals, which is fine: popWait always tries a pop first, so
// a coalesced signal only delays an entry by one poll interval.
type queue struct {
	mu      sync.Mutex
	entries []logging.Entry
	wake    chan struct{}
}

func newQueue() *queue {
	return &queue{
		wake: make(chan struct{}, 1),
	}
}

func (q *queue) push(e logging.Entry) {
	q.mu.Lock()
	q.entries = append(q.entries, e)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *queue) pop() (logging.Entry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.entries) == 0 {
		return logging.Entry{}, false
	}

	e := q.entries[0]
	q.entries = q.entries[1:]
	if len(q.entries) == 0 {
		// release the drained backing array
		q.entries = nil
	}
	return e, true
}

// popWait pops the next entry, waiting up to d for one to arrive. It
// returns early with ok=false when stop closes, so shutdown is responsive
// mid-wait.
func (q *queue) popWait(d time.Duration, stop <-chan struct{}) (logging.Entry, bool) {
	if e, ok := q.pop(); ok {
		return e, true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	for {
		select {
		case <-q.wake:
			if e, ok := q.pop(); ok {
				return e, true
			}
		case <-timer.C:
			return logging.Entry{}, false
		case <-stop:
			return logging.Entry{}, false
		}
	}
}

// drainAll removes and returns everything still queued, in FIFO order.
func (q *queue) drainAll() []logging.Entry {
	q.mu.Lock()
	defer q.mu.Unlock()

	entries := q.entries
	q.entries = nil
	return entries
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}
