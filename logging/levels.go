package logging

import (
	"log/slog"
	"strings"
)

// Level is the canonical severity scale, matching pino/bunyan numbering.
type Level int

const (
	LevelTrace Level = 10
	LevelDebug Level = 20
	LevelInfo  Level = 30
	LevelWarn  Level = 40
	LevelError Level = 50
	LevelFatal Level = 60
)

var levelNames = map[string]Level{
	"trace":    LevelTrace,
	"debug":    LevelDebug,
	"info":     LevelInfo,
	"warn":     LevelWarn,
	"warning":  LevelWarn,
	"error":    LevelError,
	"fatal":    LevelFatal,
	"critical": LevelFatal,
}

// stdlibLevels remaps the numeric scale used by the common stdlib-style
// frameworks (10=debug .. 50=critical) onto the canonical scale. Log files
// written by non-Go services carry these values in their level fields.
var stdlibLevels = map[int]Level{
	10: LevelDebug,
	20: LevelInfo,
	30: LevelWarn,
	40: LevelError,
	50: LevelFatal,
}

func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	}
	return "info"
}

func (l Level) valid() bool {
	switch l {
	case LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError, LevelFatal:
		return true
	}
	return false
}

// ParseLevel maps a symbolic level name onto the canonical scale.
// Unknown names degrade to LevelInfo.
func ParseLevel(name string) Level {
	if l, ok := levelNames[strings.ToLower(name)]; ok {
		return l
	}
	return LevelInfo
}

// FromStdlibLevel remaps a stdlib-style numeric level onto the canonical
// scale. Unknown values degrade to LevelInfo.
func FromStdlibLevel(n int) Level {
	if l, ok := stdlibLevels[n]; ok {
		return l
	}
	return LevelInfo
}

// FromSlogLevel maps a log/slog level onto the canonical scale. Custom
// slog levels fall into the nearest canonical band.
func FromSlogLevel(l slog.Level) Level {
	switch {
	case l < slog.LevelDebug:
		return LevelTrace
	case l < slog.LevelInfo:
		return LevelDebug
	case l < slog.LevelWarn:
		return LevelInfo
	case l < slog.LevelError:
		return LevelWarn
	case l < slog.LevelError+4:
		return LevelError
	}
	return LevelFatal
}

// ResolveLevel maps any supported level representation onto the canonical
// scale: Level values pass through when valid, strings go through the name
// table, slog levels through the slog remap, and raw integers or floats
// through the stdlib numeric remap. Anything else degrades to LevelInfo.
func ResolveLevel(v any) Level {
	switch l := v.(type) {
	case Level:
		if l.valid() {
			return l
		}
		return LevelInfo
	case string:
		return ParseLevel(l)
	case slog.Level:
		return FromSlogLevel(l)
	case int:
		return FromStdlibLevel(l)
	case int8:
		return FromStdlibLevel(int(l))
	case int16:
		return FromStdlibLevel(int(l))
	case int32:
		return FromStdlibLevel(int(l))
	case int64:
		return FromStdlibLevel(int(l))
	case uint:
		return FromStdlibLevel(int(l))
	case uint8:
		return FromStdlibLevel(int(l))
	case uint16:
		return FromStdlibLevel(int(l))
	case uint32:
		return FromStdlibLevel(int(l))
	case uint64:
		return FromStdlibLevel(int(l))
	case float32:
		return FromStdlibLevel(int(l))
	case float64:
		return FromStdlibLevel(int(l))
	}
	return LevelInfo
}
