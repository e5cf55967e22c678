// Package log provides a small structured-logging abstraction for the EC4X
// engine.
//
// By default, the package uses a no-op logger that discards all output.
// Hosts (cmd/ec4xd, or any external harness embedding the engine) may call
// SetLogger with their preferred implementation.
//
// A zerolog adapter is provided out of the box via NewZerologAdapter, but
// any type implementing Logger works.
//
// Example with zerolog:
//
//	zlog := zerolog.New(os.Stderr).With().Timestamp().Logger()
//	log.SetLogger(log.NewZerologAdapter(zlog))
package log

import "sync"

// Field is a key-value pair attached to a structured log line.
type Field struct {
	Key   string
	Value any
}

// F builds a Field. Example: log.Warn("order failed", log.F("fleetId", id))
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Logger is the interface every component logs through. Implementations
// handle structured key-value fields however suits their backend.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...Field) {}
func (noopLogger) Info(string, ...Field)  {}
func (noopLogger) Warn(string, ...Field)  {}
func (noopLogger) Error(string, ...Field) {}

var (
	mu           sync.RWMutex
	globalLogger Logger = noopLogger{}
)

// SetLogger installs the global logger. Passing nil restores the no-op
// logger. Safe to call concurrently.
func SetLogger(l Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		globalLogger = noopLogger{}
		return
	}
	globalLogger = l
}

// GetLogger returns the current global logger. Safe to call concurrently.
func GetLogger() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}

func Debug(msg string, fields ...Field) { GetLogger().Debug(msg, fields...) }
func Info(msg string, fields ...Field)  { GetLogger().Info(msg, fields...) }
func Warn(msg string, fields ...Field)  { GetLogger().Warn(msg, fields...) }
func Error(msg string, fields ...Field) { GetLogger().Error(msg, fields...) }
