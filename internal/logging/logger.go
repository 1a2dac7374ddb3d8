// Package logging provides structured logging for the todofile backend.
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	global *logrus.Logger
	once   sync.Once
)

// Init initializes the global logger with the given output and level.
// The level string follows logrus naming (debug, info, warn, error);
// unrecognized values fall back to info.
func Init(out io.Writer, level string) {
	once.Do(func() {
		global = newLogger(out, level)
	})
}

// Get returns the global logger, initializing it with defaults if needed.
func Get() *logrus.Logger {
	if global == nil {
		Init(os.Stdout, "info")
	}
	return global
}

func newLogger(out io.Writer, level string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.JSONFormatter{})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	return l
}

// Convenience helpers over the global logger.

// Debug logs a debug message with optional structured context.
func Debug(message string, fields ...map[string]interface{}) {
	Get().WithFields(merge(fields)).Debug(message)
}

// Info logs an info message with optional structured context.
func Info(message string, fields ...map[string]interface{}) {
	Get().WithFields(merge(fields)).Info(message)
}

// Warn logs a warning message with optional structured context.
func Warn(message string, fields ...map[string]interface{}) {
	Get().WithFields(merge(fields)).Warn(message)
}

// Error logs an error message with optional structured context.
func Error(message string, err error, fields ...map[string]interface{}) {
	entry := Get().WithFields(merge(fields))
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Error(message)
}

func merge(fields []map[string]interface{}) logrus.Fields {
	merged := make(logrus.Fields)
	for _, f := range fields {
		for k, v := range f {
			merged[k] = v
		}
	}
	return merged
}
