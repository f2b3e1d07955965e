package testutils

import (
	"fmt"
	"sync"
	"time"

	"github.com/abbacchio/abbacchio-go/logging"
)

// MockSender records every batch it is handed, in order.
type MockSender struct {
	SentBatches [][]logging.Entry
	mu          sync.Mutex
	ShouldFail  bool
	Delay       time.Duration
}

func (m *MockSender) SendBatch(entries []logging.Entry) error {
	if m.Delay > 0 {
		time.Sleep(m.Delay)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ShouldFail {
		return fmt.Errorf("mock send failed")
	}

	m.SentBatches = append(m.SentBatches, entries)
	return nil
}

func (m *MockSender) GetSentBatches() [][]logging.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	batches := make([][]logging.Entry, len(m.SentBatches))
	copy(batches, m.SentBatches)
	return batches
}

// Flat returns all recorded entries concatenated in flush order.
func (m *MockSender) Flat() []logging.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var entries []logging.Entry
	for _, b := range m.SentBatches {
		entries = append(entries, b...)
	}
	return entries
}

// MockTransport records entries handed to Send, for adapter tests.
type MockTransport struct {
	Entries       []logging.Entry
	mu            sync.Mutex
	ShutdownCalls int
}

func (m *MockTransport) Send(entry logging.Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, entry)
}

func (m *MockTransport) Shutdown(timeout time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ShutdownCalls++
}

func (m *MockTransport) GetEntries() []logging.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := make([]logging.Entry, len(m.Entries))
	copy(entries, m.Entries)
	return entries
}

// LastEntry returns the most recently sent entry.
func (m *MockTransport) LastEntry() (logging.Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Entries) == 0 {
		return logging.Entry{}, false
	}
	return m.Entries[len(m.Entries)-1], true
}
