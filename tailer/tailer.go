// Package tailer follows log files and ships their lines through an
// Abbacchio transport. Lines may be plain text or JSON objects produced
// by another service's structured logger; JSON lines are decomposed into
// canonical entry fields, plain lines travel as the message verbatim.
package tailer

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hpcloud/tail"
	"github.com/valyala/fastjson"

	"github.com/abbacchio/abbacchio-go/logging"
)

// Config holds per-shipper settings.
type Config struct {
	// Name is the logical source name stamped on every shipped entry.
	Name string
	// Labels are extra fields added to every shipped entry.
	Labels map[string]any
	// ParseJSON enables JSON-line decomposition. Lines that do not parse
	// as a JSON object fall back to plain-text handling.
	ParseJSON bool
	// ReadFromStart ships existing file content instead of only new lines.
	ReadFromStart bool
}

// Shipper follows any number of files and feeds the transport.
type Shipper struct {
	transport logging.Transport
	config    Config
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	parsers   fastjson.ParserPool
}

func NewShipper(ctx context.Context, transport logging.Transport, config Config) *Shipper {
	nCtx, cancel := context.WithCancel(ctx)
	return &Shipper{
		transport: transport,
		config:    config,
		ctx:       nCtx,
		cancel:    cancel,
	}
}

// Follow starts tailing a file in the background. Rotated files are
// reopened; the follower polls so it also works on filesystems without
// inotify support.
func (s *Shipper) Follow(path string) error {
	cfg := tail.Config{
		Follow: true,
		ReOpen: true,
		Poll:   true,
		Logger: tail.DiscardingLogger,
	}
	if !s.config.ReadFromStart {
		cfg.Location = &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd}
	}

	t, err := tail.TailFile(path, cfg)
	if err != nil {
		return err
	}

	s.wg.Add(1)
	go s.follow(t, path)
	return nil
}

// Stop cancels all followers and waits for them to finish. It does not
// shut down the transport, which may be shared.
func (s *Shipper) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Shipper) follow(t *tail.Tail, path string) {
	defer s.wg.Done()
	defer t.Cleanup()

	for {
		select {
		case line, ok := <-t.Lines:
			if !ok {
				return
			}
			if line == nil {
				continue
			}
			if line.Err != nil {
				log.Printf("abbacchio: error reading %s: %v", path, line.Err)
				continue
			}
			s.transport.Send(s.entryFromLine(path, line.Text))

		case <-s.ctx.Done():
			// keep draining so the tailer is never blocked mid-send
			// while Stop waits for it
			go t.Stop()
			for line := range t.Lines {
				if line == nil || line.Err != nil {
					continue
				}
				s.transport.Send(s.entryFromLine(path, line.Text))
			}
			return
		}
	}
}

// entryFromLine normalizes one line. JSON decomposition applies when
// enabled and the line looks like an object; anything else ships as an
// info-level plain message.
func (s *Shipper) entryFromLine(path, text string) logging.Entry {
	if s.config.ParseJSON && strings.HasPrefix(strings.TrimSpace(text), "{") {
		if entry, ok := s.parseJSONLine(text); ok {
			s.label(&entry, path)
			return entry
		}
	}

	entry := logging.NewEntry(logging.LevelInfo, text, s.config.Name, nil)
	s.label(&entry, path)
	return entry
}

func (s *Shipper) label(entry *logging.Entry, path string) {
	if entry.Extra == nil {
		entry.Extra = make(map[string]any, len(s.config.Labels)+1)
	}
	for k, v := range s.config.Labels {
		entry.Extra[k] = v
	}
	if _, ok := entry.Extra["file"]; !ok {
		entry.Extra["file"] = filepath.Base(path)
	}
}

func (s *Shipper) parseJSONLine(text string) (logging.Entry, bool) {
	p := s.parsers.Get()
	defer s.parsers.Put(p)

	v, err := p.Parse(text)
	if err != nil || v.Type() != fastjson.TypeObject {
		return logging.Entry{}, false
	}
	obj, err := v.Object()
	if err != nil {
		return logging.Entry{}, false
	}

	var level any = logging.LevelInfo
	if lv := v.Get("level"); lv != nil {
		switch lv.Type() {
		case fastjson.TypeString:
			level = string(lv.GetStringBytes())
		case fastjson.TypeNumber:
			level = lv.GetInt()
		}
	}

	msg := string(v.GetStringBytes("msg"))
	if msg == "" {
		msg = string(v.GetStringBytes("message"))
	}

	name := string(v.GetStringBytes("name"))
	if name == "" {
		name = s.config.Name
	}

	extra := make(map[string]any)
	obj.Visit(func(key []byte, val *fastjson.Value) {
		switch string(key) {
		case "level", "msg", "message", "name", "time":
			return
		}
		extra[string(key)] = decode(val)
	})

	entry := logging.NewEntry(level, msg, name, extra)
	if ts := v.GetInt64("time"); ts > 0 {
		entry.Time = ts
	}
	return entry, true
}

// decode copies a parsed value out of the parser's arena. Composite
// values keep their original JSON encoding.
func decode(v *fastjson.Value) any {
	switch v.Type() {
	case fastjson.TypeString:
		return string(v.GetStringBytes())
	case fastjson.TypeNumber:
		return v.GetFloat64()
	case fastjson.TypeTrue:
		return true
	case fastjson.TypeFalse:
		return false
	case fastjson.TypeNull:
		return nil
	}
	return json.RawMessage(v.MarshalTo(nil))
}
