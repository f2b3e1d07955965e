package slogadapter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/abbacchio/abbacchio-go/logging"
	"github.com/abbacchio/abbacchio-go/logging/batch"
)

// Field names used for trace correlation when the context carries an
// active OpenTelemetry span.
const (
	fieldTraceID = "trace_id"
	fieldSpanID  = "span_id"
)

// Options configures the slog handler.
type Options struct {
	// Config is used to build an owned HTTP transport when Transport is nil.
	Config logging.Config
	// Transport overrides the owned transport; its lifecycle then stays
	// with the caller and Shutdown becomes a no-op.
	Transport logging.Transport
	// Name is the logical source name stamped on every entry.
	Name string
	// Level is the minimum record level; nil handles everything.
	Level slog.Leveler
}

// Handler is a slog.Handler that ships records through an Abbacchio
// transport instead of writing them locally.
type Handler struct {
	transport logging.Transport
	owned     bool
	name      string
	level     slog.Leveler
	attrs     []storedAttr
	groups    []string
}

// storedAttr remembers the group path that was open when the attribute
// was added, so later WithGroup calls do not re-qualify it.
type storedAttr struct {
	groups []string
	attr   slog.Attr
}

// NewHandler creates a handler. With a nil Options.Transport it builds and
// starts its own HTTP transport from Options.Config.
func NewHandler(opts Options) *Handler {
	h := &Handler{
		transport: opts.Transport,
		name:      opts.Name,
		level:     opts.Level,
	}
	if h.transport == nil {
		h.transport = batch.NewHTTPTransport(opts.Config)
		h.owned = true
	}
	return h
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	if h.level == nil {
		return true
	}
	return level >= h.level.Level()
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	extra := make(map[string]any, len(h.attrs)+r.NumAttrs()+2)
	var errInfo *logging.ErrorInfo

	for _, sa := range h.attrs {
		addAttr(extra, sa.groups, sa.attr, &errInfo)
	}
	r.Attrs(func(a slog.Attr) bool {
		addAttr(extra, h.groups, a, &errInfo)
		return true
	})

	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		sc := span.SpanContext()
		extra[fieldTraceID] = sc.TraceID().String()
		extra[fieldSpanID] = sc.SpanID().String()
	}

	entry := logging.NewEntry(r.Level, r.Message, h.name, extra)
	if !r.Time.IsZero() {
		entry.Time = r.Time.UnixMilli()
	}
	entry.Err = errInfo

	h.transport.Send(entry)
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := *h
	h2.attrs = append([]storedAttr{}, h.attrs...)
	for _, a := range attrs {
		h2.attrs = append(h2.attrs, storedAttr{groups: h.groups, attr: a})
	}
	return &h2
}

func (h *Handler) WithGroup(name string) slog.Handler {
	h2 := *h
	h2.groups = append(append([]string{}, h.groups...), name)
	return &h2
}

// Shutdown drains the owned transport. Handlers built around an injected
// transport leave shutdown to its owner.
func (h *Handler) Shutdown(timeout time.Duration) {
	if h.owned {
		h.transport.Shutdown(timeout)
	}
}

// addAttr resolves one attribute into the extra bag, prefixing keys with
// the open group path. An error value under the conventional "error" or
// "err" key becomes the entry's error context instead of an extra field.
func addAttr(extra map[string]any, groups []string, a slog.Attr, errInfo **logging.ErrorInfo) {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			groups = append(groups, a.Key)
		}
		for _, ga := range a.Value.Group() {
			addAttr(extra, groups, ga, errInfo)
		}
		return
	}

	if a.Equal(slog.Attr{}) {
		return
	}

	if (a.Key == "error" || a.Key == "err") && len(groups) == 0 {
		if err, ok := a.Value.Any().(error); ok {
			*errInfo = &logging.ErrorInfo{
				Type:    fmt.Sprintf("%T", err),
				Message: err.Error(),
			}
			return
		}
	}

	key := a.Key
	for i := len(groups) - 1; i >= 0; i-- {
		key = groups[i] + "." + key
	}
	extra[key] = a.Value.Any()
}
