package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileLogger appends leveled log lines to a per-run log file. Unlike the
// console logger it performs no filtering: the file keeps the full record
// including per-file debug skips.
type FileLogger struct {
	file  *os.File
	path  string
	mutex sync.Mutex
}

// NewFileLogger creates the log directory if needed and opens a log file
// named crawl-<runID>.log inside it.
func NewFileLogger(dir, runID string) (*FileLogger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, fmt.Sprintf("crawl-%s.log", runID))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return &FileLogger{file: file, path: path}, nil
}

// Path returns the log file location.
func (fl *FileLogger) Path() string {
	return fl.path
}

// Close flushes and closes the log file.
func (fl *FileLogger) Close() error {
	fl.mutex.Lock()
	defer fl.mutex.Unlock()
	return fl.file.Close()
}

func (fl *FileLogger) logf(tag, format string, args ...interface{}) {
	if fl == nil || fl.file == nil {
		return
	}

	fl.mutex.Lock()
	defer fl.mutex.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(fl.file, "[%s] %-5s %s\n", timestamp, tag, fmt.Sprintf(format, args...))
}

// Tracef logs at trace level.
func (fl *FileLogger) Tracef(format string, args ...interface{}) {
	fl.logf("TRACE", format, args...)
}

// Debugf logs at debug level.
func (fl *FileLogger) Debugf(format string, args ...interface{}) {
	fl.logf("DEBUG", format, args...)
}

// Infof logs at info level.
func (fl *FileLogger) Infof(format string, args ...interface{}) {
	fl.logf("INFO", format, args...)
}

// Warnf logs at warn level.
func (fl *FileLogger) Warnf(format string, args ...interface{}) {
	fl.logf("WARN", format, args...)
}

// Errorf logs at error level.
func (fl *FileLogger) Errorf(format string, args ...interface{}) {
	fl.logf("ERROR", format, args...)
}
