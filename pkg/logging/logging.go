// Package logging is the process wide logger. While the terminal UI owns the
// screen, log output goes to a file or nowhere.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

const DefaultLogFile = "todor.log"

var (
	mu           sync.Mutex
	traceEnabled bool
	logFile      *os.File
	log          = newLogger(os.Stderr)
)

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// Logger exposes the shared logger for callers that want fields.
func Logger() *logrus.Logger {
	return log
}

// Configure sends logs to path, creating the directory when missing. An empty
// path discards everything.
func Configure(path string) error {
	mu.Lock()
	defer mu.Unlock()

	closeFile()
	if strings.TrimSpace(path) == "" {
		log.SetOutput(io.Discard)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.SetOutput(io.Discard)
		return fmt.Errorf("logging: create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.SetOutput(io.Discard)
		return fmt.Errorf("logging: open %s: %w", path, err)
	}
	logFile = f
	log.SetOutput(f)
	return nil
}

// SetOutput points the logger at w, closing any file opened by Configure.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	closeFile()
	log.SetOutput(w)
}

// Close releases the log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	closeFile()
	log.SetOutput(os.Stderr)
}

func closeFile() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// SetTraceEnabled toggles emission of trace entries.
func SetTraceEnabled(enabled bool) {
	mu.Lock()
	traceEnabled = enabled
	mu.Unlock()
	if enabled {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
}

func TraceEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return traceEnabled
}

// Trace writes a structured event when tracing is enabled.
func Trace(event string, fields map[string]interface{}) {
	if !TraceEnabled() {
		return
	}
	log.WithField("event", event).WithFields(logrus.Fields(fields)).Debug("trace")
}

func Error(err error) {
	if err == nil {
		return
	}
	log.Error(err)
}

func Errorf(format string, args ...interface{}) {
	log.Errorf(format, args...)
}

func Warnf(format string, args ...interface{}) {
	log.Warnf(format, args...)
}

func Infof(format string, args ...interface{}) {
	log.Infof(format, args...)
}
