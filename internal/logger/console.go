// Package logger provides logging implementations for crawl execution.
//
// The package offers a leveled, thread-safe console logger with TTY-aware
// color output, a plain file logger for run logs, and a fan-out combining
// the two.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// Logger is the leveled logging interface the pipeline components write to.
type Logger interface {
	Tracef(format string, args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// ConsoleLogger logs progress to a writer with [HH:MM:SS] timestamps and
// thread safety. It filters by log level and colorizes level tags when the
// writer is a terminal.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    int
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger writing to the provided writer.
// If writer is nil, messages are silently discarded. logLevel is one of
// trace, debug, info, warn, error (case-insensitive); empty or invalid
// levels default to "info". Color is enabled automatically when the writer
// is a TTY and NO_COLOR is not set.
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    parseLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal checks if the writer is a terminal that supports colors.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// parseLevel converts a log level string to its numeric value, defaulting
// to info for empty or unknown levels.
func parseLevel(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// levelTag returns the printed tag for a level, colorized when enabled.
func (cl *ConsoleLogger) levelTag(level int) string {
	switch level {
	case levelTrace:
		return "TRACE"
	case levelDebug:
		return "DEBUG"
	case levelInfo:
		if cl.colorOutput {
			return color.New(color.FgCyan).Sprint("INFO")
		}
		return "INFO"
	case levelWarn:
		if cl.colorOutput {
			return color.New(color.FgYellow).Sprint("WARN")
		}
		return "WARN"
	case levelError:
		if cl.colorOutput {
			return color.New(color.FgRed).Sprint("ERROR")
		}
		return "ERROR"
	default:
		return "INFO"
	}
}

func (cl *ConsoleLogger) logf(level int, format string, args ...interface{}) {
	if cl == nil || cl.writer == nil || level < cl.logLevel {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	timestamp := time.Now().Format("15:04:05")
	fmt.Fprintf(cl.writer, "[%s] %s %s\n", timestamp, cl.levelTag(level), fmt.Sprintf(format, args...))
}

// Tracef logs at trace level.
func (cl *ConsoleLogger) Tracef(format string, args ...interface{}) {
	cl.logf(levelTrace, format, args...)
}

// Debugf logs at debug level.
func (cl *ConsoleLogger) Debugf(format string, args ...interface{}) {
	cl.logf(levelDebug, format, args...)
}

// Infof logs at info level.
func (cl *ConsoleLogger) Infof(format string, args ...interface{}) {
	cl.logf(levelInfo, format, args...)
}

// Warnf logs at warn level.
func (cl *ConsoleLogger) Warnf(format string, args ...interface{}) {
	cl.logf(levelWarn, format, args...)
}

// Errorf logs at error level.
func (cl *ConsoleLogger) Errorf(format string, args ...interface{}) {
	cl.logf(levelError, format, args...)
}
