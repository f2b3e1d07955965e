package logging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Entry is the canonical log record moved through the transport,
// independent of the source logging framework.
type Entry struct {
	ID    string
	Level Level
	Time  int64 // milliseconds since Unix epoch
	Msg   string
	Name  string
	Err   *ErrorInfo
	Extra map[string]any
}

// ErrorInfo carries exception context attached to an entry.
type ErrorInfo struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Traceback string `json:"traceback,omitempty"`
}

// NewEntry normalizes a level, message and extra fields into a canonical
// entry. The level may be given in any representation ResolveLevel accepts.
// A fresh ID and the current wall clock are stamped; adapters that carry an
// authoritative timestamp from their framework may override Time afterwards.
func NewEntry(level any, msg string, name string, extra map[string]any) Entry {
	return Entry{
		ID:    uuid.NewString(),
		Level: ResolveLevel(level),
		Time:  time.Now().UnixMilli(),
		Msg:   msg,
		Name:  name,
		Extra: extra,
	}
}

// MarshalJSON flattens Extra into the top-level object. Name and Err are
// omitted entirely when absent. Extra keys colliding with reserved field
// names win (last write).
func (e Entry) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(e.Extra)+6)
	m["id"] = e.ID
	m["level"] = int(e.Level)
	m["time"] = e.Time
	m["msg"] = e.Msg
	if e.Name != "" {
		m["name"] = e.Name
	}
	if e.Err != nil {
		m["error"] = e.Err
	}
	for k, v := range e.Extra {
		m[k] = v
	}
	return json.Marshal(m)
}
