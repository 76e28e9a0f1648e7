package logger

import (
	"sync"
)

// Log levels accepted by the log_level setting.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	// globalLogger holds the process-wide logger used by cmd.
	globalLogger *Logger
	once         sync.Once
)

// Get returns the process logger configured with the provided level.
// The first call initializes it; later calls ignore the level.
func Get(level string) *Logger {
	once.Do(func() {
		globalLogger = New(level)
	})
	return globalLogger
}

// New builds an independent logger, for components that get one injected.
func New(level string) *Logger {
	return newZapLogger(level)
}
