package zapadapter

import (
	"fmt"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/abbacchio/abbacchio-go/logging"
	"github.com/abbacchio/abbacchio-go/logging/batch"
)

var levelMap = map[zapcore.Level]logging.Level{
	zapcore.DebugLevel:  logging.LevelDebug,
	zapcore.InfoLevel:   logging.LevelInfo,
	zapcore.WarnLevel:   logging.LevelWarn,
	zapcore.ErrorLevel:  logging.LevelError,
	zapcore.DPanicLevel: logging.LevelFatal,
	zapcore.PanicLevel:  logging.LevelFatal,
	zapcore.FatalLevel:  logging.LevelFatal,
}

// Options configures the zap core.
type Options struct {
	Config    logging.Config
	Transport logging.Transport
	// Enabler gates which levels are shipped; nil ships everything.
	Enabler zapcore.LevelEnabler
}

// Core is a zapcore.Core that ships entries through an Abbacchio
// transport. It is meant to be combined with a local core via
// zapcore.NewTee.
type Core struct {
	zapcore.LevelEnabler
	transport logging.Transport
	owned     bool
	fields    []zapcore.Field
}

// NewCore creates a core. With a nil Options.Transport it builds and
// starts its own HTTP transport from Options.Config.
func NewCore(opts Options) *Core {
	c := &Core{
		LevelEnabler: opts.Enabler,
		transport:    opts.Transport,
	}
	if c.LevelEnabler == nil {
		c.LevelEnabler = zapcore.DebugLevel
	}
	if c.transport == nil {
		c.transport = batch.NewHTTPTransport(opts.Config)
		c.owned = true
	}
	return c
}

func (c *Core) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.fields = append(append([]zapcore.Field{}, c.fields...), fields...)
	return &clone
}

func (c *Core) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *Core) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	var errInfo *logging.ErrorInfo

	all := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	all = append(all, c.fields...)
	all = append(all, fields...)

	for _, f := range all {
		if f.Type == zapcore.ErrorType {
			if err, ok := f.Interface.(error); ok {
				errInfo = &logging.ErrorInfo{
					Type:    fmt.Sprintf("%T", err),
					Message: err.Error(),
				}
				continue
			}
		}
		f.AddTo(enc)
	}

	if ent.Stack != "" {
		if errInfo != nil {
			errInfo.Traceback = ent.Stack
		} else {
			enc.Fields["stack"] = ent.Stack
		}
	}

	level, ok := levelMap[ent.Level]
	if !ok {
		level = logging.LevelInfo
	}

	entry := logging.NewEntry(level, ent.Message, ent.LoggerName, enc.Fields)
	if !ent.Time.IsZero() {
		entry.Time = ent.Time.UnixMilli()
	}
	entry.Err = errInfo

	c.transport.Send(entry)
	return nil
}

func (c *Core) Sync() error {
	return nil
}

// Shutdown drains the owned transport.
func (c *Core) Shutdown(timeout time.Duration) {
	if c.owned {
		c.transport.Shutdown(timeout)
	}
}
