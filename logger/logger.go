package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Fields is an alias-compatible map of structured log fields.
type Fields map[string]interface{}

// Log wraps logrus.Logger.
type Log struct {
	*logrus.Logger
}

// Entry wraps logrus.Entry so chained helpers keep returning our type.
type Entry struct {
	*logrus.Entry
}

var (
	globalMu     sync.RWMutex
	globalLogger = New()
)

// New returns a JSON logger on stderr whose level comes from LOG_LEVEL
// (info when unset or invalid).
func New() *Log {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(jsonFormatter())

	l.SetLevel(logrus.InfoLevel)
	if lvl, err := logrus.ParseLevel(strings.ToLower(os.Getenv("LOG_LEVEL"))); err == nil {
		l.SetLevel(lvl)
	}
	return &Log{Logger: l}
}

// GetLogger returns the process-wide logger.
func GetLogger() *Log {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// SetLogger replaces the process-wide logger.
func SetLogger(l *Log) {
	globalMu.Lock()
	globalLogger = l
	globalMu.Unlock()
}

// Configure sets level, format (json or text) and output. Output is stdout,
// stderr, discard or a file path; files older than maxAgeDays are rotated away
// when maxAgeDays is positive. LOG_LEVEL, when set, overrides level.
func (l *Log) Configure(level, format, output string, maxAgeDays int) error {
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		level = env
	}
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q", level)
	}
	l.SetLevel(lvl)

	switch strings.ToLower(format) {
	case "", "json":
		l.SetFormatter(jsonFormatter())
	case "text":
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	default:
		return fmt.Errorf("invalid log format %q", format)
	}

	switch strings.ToLower(output) {
	case "", "stderr":
		l.SetOutput(os.Stderr)
	case "stdout":
		l.SetOutput(os.Stdout)
	case "discard":
		l.SetOutput(io.Discard)
	default:
		if maxAgeDays > 0 {
			l.SetOutput(&lumberjack.Logger{
				Filename: output,
				MaxAge:   maxAgeDays,
				MaxSize:  100,
				Compress: true,
			})
			return nil
		}
		file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file %q: %w", output, err)
		}
		l.SetOutput(file)
	}
	return nil
}

func (l *Log) WithComponent(component string) *Entry {
	return &Entry{Entry: l.Logger.WithField("component", component)}
}

func (l *Log) WithFields(fields Fields) *Entry {
	return &Entry{Entry: l.Logger.WithFields(logrus.Fields(fields))}
}

func (l *Log) WithError(err error) *Entry {
	return &Entry{Entry: l.Logger.WithError(err)}
}

func (e *Entry) WithComponent(component string) *Entry {
	return &Entry{Entry: e.Entry.WithField("component", component)}
}

func (e *Entry) WithFields(fields Fields) *Entry {
	return &Entry{Entry: e.Entry.WithFields(logrus.Fields(fields))}
}

func (e *Entry) WithError(err error) *Entry {
	return &Entry{Entry: e.Entry.WithError(err)}
}

func jsonFormatter() *logrus.JSONFormatter {
	return &logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	}
}
