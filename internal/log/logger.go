// Package log is foldr's logging facade. It keeps a small package-level API
// (Info, Debugf, LogWithFields, ...) and delegates formatting and levels to
// logrus.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu     sync.RWMutex
	logger = NewLogger()
)

// Field is a single structured key/value attached to a log line.
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logger wraps a logrus entry so derived loggers share one backend.
type Logger struct {
	entry *logrus.Entry
}

// Option configures a Logger created by NewLogger.
type Option func(*logrus.Logger)

// WithOutput redirects log output.
func WithOutput(w io.Writer) Option {
	return func(l *logrus.Logger) {
		l.SetOutput(w)
	}
}

// WithJSON switches to the JSON formatter.
func WithJSON() Option {
	return func(l *logrus.Logger) {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyMsg: "message",
			},
		})
	}
}

// WithDebug starts the logger at debug level.
func WithDebug() Option {
	return func(l *logrus.Logger) {
		l.SetLevel(logrus.DebugLevel)
	}
}

func NewLogger(opts ...Option) *Logger {
	base := logrus.New()
	base.SetOutput(os.Stderr)
	base.SetLevel(logrus.InfoLevel)
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:    true,
		TimestampFormat:  "2006-01-02 15:04:05",
		DisableColors:    true,
		QuoteEmptyFields: true,
	})
	for _, opt := range opts {
		opt(base)
	}
	return &Logger{entry: logrus.NewEntry(base)}
}

// With returns a derived logger carrying the given fields.
func (l *Logger) With(fields ...Field) *Logger {
	data := make(logrus.Fields, len(fields))
	for _, f := range fields {
		if err, ok := f.Value.(error); ok && err != nil {
			data[f.Key] = err.Error()
			continue
		}
		data[f.Key] = f.Value
	}
	return &Logger{entry: l.entry.WithFields(data)}
}

// SetDebug toggles debug level on this logger's backend.
func (l *Logger) SetDebug(debug bool) {
	if debug {
		l.entry.Logger.SetLevel(logrus.DebugLevel)
	} else {
		l.entry.Logger.SetLevel(logrus.InfoLevel)
	}
}

func (l *Logger) Debug(msg string)                          { l.entry.Debug(msg) }
func (l *Logger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *Logger) Info(msg string)                           { l.entry.Info(msg) }
func (l *Logger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *Logger) Warn(msg string)                           { l.entry.Warn(msg) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *Logger) Error(msg string)                          { l.entry.Error(msg) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

// Default returns the package logger.
func Default() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// SetDefault replaces the package logger. Tests use it to capture output.
func SetDefault(l *Logger) {
	mu.Lock()
	logger = l
	mu.Unlock()
}

// SetOutput redirects the package logger.
func SetOutput(w io.Writer) {
	Default().entry.Logger.SetOutput(w)
}

func SetDebug(debug bool) {
	Default().SetDebug(debug)
}

// IsDebug reports whether debug output is enabled.
func IsDebug() bool {
	return Default().entry.Logger.IsLevelEnabled(logrus.DebugLevel)
}

// LogWithFields returns the package logger with fields attached.
func LogWithFields(fields ...Field) *Logger {
	return Default().With(fields...)
}

func Info(format string, args ...interface{}) {
	Default().Infof(format, args...)
}

func Infof(format string, args ...interface{}) {
	Default().Infof(format, args...)
}

// Debug logs a message with arguments
func Debug(msg string, args ...interface{}) {
	if len(args) == 0 {
		Default().Debug(msg)
		return
	}
	Default().Debugf(msg, args...)
}

// Debugf logs a formatted message
func Debugf(format string, args ...interface{}) {
	Default().Debugf(format, args...)
}

// Warn logs a warning message with arguments
func Warn(msg string, args ...interface{}) {
	if len(args) == 0 {
		Default().Warn(msg)
		return
	}
	Default().Warnf(msg, args...)
}

// Warnf logs a formatted warning message
func Warnf(format string, args ...interface{}) {
	Default().Warnf(format, args...)
}

// Error logs an error message with arguments
func Error(msg string, args ...interface{}) {
	if len(args) == 0 {
		Default().Error(msg)
		return
	}
	Default().Error(fmt.Sprintf(msg, args...))
}

// Errorf logs a formatted error message
func Errorf(format string, args ...interface{}) {
	Default().Errorf(format, args...)
}
