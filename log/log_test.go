package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureLogger struct {
	messages []captured
}

type captured struct {
	level  string
	msg    string
	fields []Field
}

func (c *captureLogger) Debug(msg string, fields ...Field) {
	c.messages = append(c.messages, captured{"debug", msg, fields})
}
func (c *captureLogger) Info(msg string, fields ...Field) {
	c.messages = append(c.messages, captured{"info", msg, fields})
}
func (c *captureLogger) Warn(msg string, fields ...Field) {
	c.messages = append(c.messages, captured{"warn", msg, fields})
}
func (c *captureLogger) Error(msg string, fields ...Field) {
	c.messages = append(c.messages, captured{"error", msg, fields})
}

func TestSetLoggerRoutesGlobalCalls(t *testing.T) {
	cap := &captureLogger{}
	SetLogger(cap)
	t.Cleanup(func() { SetLogger(nil) })

	Warn("order failed", F("fleetId", int32(7)))

	require.Len(t, cap.messages, 1)
	assert.Equal(t, "warn", cap.messages[0].level)
	assert.Equal(t, "order failed", cap.messages[0].msg)
	assert.Equal(t, Field{Key: "fleetId", Value: int32(7)}, cap.messages[0].fields[0])
}

func TestNilLoggerRestoresNoop(t *testing.T) {
	SetLogger(nil)
	assert.NotPanics(t, func() {
		Info("anything", F("k", "v"))
	})
}
