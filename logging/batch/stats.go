package batch

import "sync"

// Stats counts what the transport has done with entries. Delivery failures
// are swallowed by policy, so these counters are the only place the outcome
// of a send attempt remains visible.
type Stats struct {
	Enqueued     int
	Dropped      int
	BatchesSent  int
	EntriesSent  int
	SendFailures int
	mu           sync.Mutex
}

func (s *Stats) incEnqueued() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Enqueued++
}

func (s *Stats) incDropped() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Dropped++
}

func (s *Stats) addSent(entries int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.BatchesSent++
	s.EntriesSent += entries
}

func (s *Stats) incSendFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SendFailures++
}

// Snapshot returns a copy of the current counters.
func (s *Stats) Snapshot() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Enqueued:     s.Enqueued,
		Dropped:      s.Dropped,
		BatchesSent:  s.BatchesSent,
		EntriesSent:  s.EntriesSent,
		SendFailures: s.SendFailures,
	}
}
