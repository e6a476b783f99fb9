// Package levellog gates the ambient stdlib-log output of both binaries
// behind a configured verbosity, honoring a LITHOS_LOG_LEVEL environment
// override. It wraps log.Printf rather than replacing it — Lithos has no
// structured logger in its dependency stack.
package levellog

import (
	"log"
	"os"
	"strings"
)

// Level is an ascending verbosity: lower levels are noisier.
type Level int

const (
	Trace Level = iota
	Debug
	Info
	Warn
	Error
)

func parseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return Trace, true
	case "debug":
		return Debug, true
	case "info":
		return Info, true
	case "warn", "warning":
		return Warn, true
	case "error":
		return Error, true
	default:
		return Info, false
	}
}

// Logger gates log.Printf calls at or above its configured level.
type Logger struct {
	min Level
}

// New builds a Logger from a configured level string, overridden by the
// LITHOS_LOG_LEVEL environment variable when set.
func New(configured string) *Logger {
	lvl, ok := parseLevel(configured)
	if !ok {
		lvl = Info
	}
	if env := os.Getenv("LITHOS_LOG_LEVEL"); env != "" {
		if envLvl, ok := parseLevel(env); ok {
			lvl = envLvl
		}
	}
	return &Logger{min: lvl}
}

func (l *Logger) log(level Level, format string, args ...any) {
	if level < l.min {
		return
	}
	log.Printf(format, args...)
}

func (l *Logger) Tracef(format string, args ...any) { l.log(Trace, format, args...) }
func (l *Logger) Debugf(format string, args ...any) { l.log(Debug, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.log(Info, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.log(Warn, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.log(Error, format, args...) }
