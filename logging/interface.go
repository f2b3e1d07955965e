package logging

import (
	"time"
)

// Sender delivers one batch of entries. Implementations report failures
// to their caller; the transport decides what to do with them.
type Sender interface {
	SendBatch(entries []Entry) error
}

// Transport is the adapter-facing surface: enqueue an entry without
// blocking, and drain on shutdown. Send never fails; entries enqueued
// after shutdown has been signaled are silently dropped.
type Transport interface {
	Send(entry Entry)
	Shutdown(timeout time.Duration)
}
