package logrusadapter

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abbacchio/abbacchio-go/logging"
	"github.com/abbacchio/abbacchio-go/logging/batch"
)

// logrus severities onto the canonical scale; panic has no canonical slot
// and rides with fatal.
var levelMap = map[logrus.Level]logging.Level{
	logrus.TraceLevel: logging.LevelTrace,
	logrus.DebugLevel: logging.LevelDebug,
	logrus.InfoLevel:  logging.LevelInfo,
	logrus.WarnLevel:  logging.LevelWarn,
	logrus.ErrorLevel: logging.LevelError,
	logrus.FatalLevel: logging.LevelFatal,
	logrus.PanicLevel: logging.LevelFatal,
}

// Options configures the logrus hook.
type Options struct {
	Config    logging.Config
	Transport logging.Transport
	Name      string
}

// Hook is a logrus.Hook that ships every fired entry through an Abbacchio
// transport. Formatting stays with logrus; only the raw message and fields
// travel.
type Hook struct {
	transport logging.Transport
	owned     bool
	name      string
}

// NewHook creates a hook. With a nil Options.Transport it builds and
// starts its own HTTP transport from Options.Config.
func NewHook(opts Options) *Hook {
	h := &Hook{
		transport: opts.Transport,
		name:      opts.Name,
	}
	if h.transport == nil {
		h.transport = batch.NewHTTPTransport(opts.Config)
		h.owned = true
	}
	return h
}

func (h *Hook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *Hook) Fire(e *logrus.Entry) error {
	extra := make(map[string]any, len(e.Data))
	var errInfo *logging.ErrorInfo

	for k, v := range e.Data {
		if k == logrus.ErrorKey {
			if err, ok := v.(error); ok {
				errInfo = &logging.ErrorInfo{
					Type:    fmt.Sprintf("%T", err),
					Message: err.Error(),
				}
				continue
			}
		}
		extra[k] = v
	}

	level, ok := levelMap[e.Level]
	if !ok {
		level = logging.LevelInfo
	}

	entry := logging.NewEntry(level, e.Message, h.name, extra)
	if !e.Time.IsZero() {
		entry.Time = e.Time.UnixMilli()
	}
	entry.Err = errInfo

	h.transport.Send(entry)
	return nil
}

// Shutdown drains the owned transport.
func (h *Hook) Shutdown(timeout time.Duration) {
	if h.owned {
		h.transport.Shutdown(timeout)
	}
}
