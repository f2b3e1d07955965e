package batch

import (
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/abbacchio/abbacchio-go/logging"
	"github.com/abbacchio/abbacchio-go/logging/httpsender"
)

// pollInterval bounds how long the worker waits for the next entry before
// re-checking the time-based flush trigger and the stop signal.
const pollInterval = 100 * time.Millisecond

// Transport queues entries and ships them in batches from a single
// background worker. A batch is flushed when it reaches Config.BatchSize
// or when Config.FlushInterval has elapsed since the last flush, whichever
// comes first. Delivery failures are swallowed: log shipping must never
// block or crash the instrumented application.
type Transport struct {
	sender   logging.Sender
	config   logging.Config
	queue    *queue
	stats    Stats
	started  atomic.Bool
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewTransport creates a transport over the given sender. Call Start to
// spawn the flush worker.
func NewTransport(sender logging.Sender, config logging.Config) *Transport {
	return &Transport{
		sender: sender,
		config: config.WithDefaults(),
		queue:  newQueue(),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// NewHTTPTransport creates a started transport delivering to the endpoint
// configured in config over HTTP.
func NewHTTPTransport(config logging.Config) *Transport {
	config = config.WithDefaults()
	t := NewTransport(httpsender.New(config), config)
	t.Start()
	return t
}

// Start spawns the flush worker. Calling Start more than once is a no-op.
func (t *Transport) Start() {
	if !t.started.CompareAndSwap(false, true) {
		return
	}
	go t.worker()
}

// Send queues an entry for delivery. It never blocks and never fails.
// Entries sent after Shutdown has been signaled are silently dropped so
// that teardown races do not surprise callers.
func (t *Transport) Send(entry logging.Entry) {
	select {
	case <-t.stop:
		t.stats.incDropped()
		return
	default:
	}

	t.queue.push(entry)
	t.stats.incEnqueued()
}

// Shutdown signals the worker to drain, waits up to timeout for it to
// finish, then releases the sender. Idempotent; a second call performs no
// additional flush. If the wait times out, Shutdown returns anyway and the
// worker finishes on its own time.
func (t *Transport) Shutdown(timeout time.Duration) {
	t.stopOnce.Do(func() {
		close(t.stop)
	})

	if t.started.Load() {
		select {
		case <-t.done:
		case <-time.After(timeout):
			log.Printf("abbacchio: shutdown timed out after %v", timeout)
		}
	}

	if c, ok := t.sender.(io.Closer); ok {
		c.Close()
	}
}

// Stats returns a snapshot of the transport counters.
func (t *Transport) Stats() Stats {
	return t.stats.Snapshot()
}

func (t *Transport) worker() {
	defer close(t.done)

	batch := make([]logging.Entry, 0, t.config.BatchSize)
	lastFlush := time.Now()

	for {
		select {
		case <-t.stop:
			// final drain: everything still queued joins the current
			// batch so normal shutdown loses nothing
			batch = append(batch, t.queue.drainAll()...)
			t.flush(batch)
			return
		default:
		}

		entry, ok := t.queue.popWait(pollInterval, t.stop)
		if ok {
			batch = append(batch, entry)
			if len(batch) >= t.config.BatchSize {
				t.flush(batch)
				batch = batch[:0]
				lastFlush = time.Now()
			}
			continue
		}

		select {
		case <-t.stop:
			// popWait returned early; let the drain above do the one
			// final flush
			continue
		default:
		}

		if len(batch) > 0 && time.Since(lastFlush) >= t.config.FlushInterval {
			t.flush(batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}
	}
}

// flush hands the current batch to the sender. The failure policy is
// best-effort: the error is counted and logged for local diagnostics,
// never retried or surfaced.
func (t *Transport) flush(batch []logging.Entry) {
	if len(batch) == 0 {
		return
	}

	toSend := make([]logging.Entry, len(batch))
	copy(toSend, batch)

	if err := t.sender.SendBatch(toSend); err != nil {
		t.stats.incSendFailures()
		log.Printf("abbacchio: failed to send batch of %d entries: %v", len(toSend), err)
		return
	}

	t.stats.addSent(len(toSend))
}
