package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(nil)
		SetupLogger(LogLevelInfo)
		SetLogTag("CONSTY")
	})
	SetLogTag("TEST")

	SetupLogger(LogLevelWarn)
	l := NewDefaultLogger()
	l.Info("hidden")
	l.Warn("shown", "enum", "Punctuation")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "enum=Punctuation")
	assert.Contains(t, out, "tag=TEST")
}

func TestLevelNoneSilences(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(nil)
		SetupLogger(LogLevelInfo)
	})

	SetupLogger(LogLevelNone)
	NewDefaultLogger().Error("nothing")
	assert.Empty(t, buf.String())
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	r.Warn("duplicate", "variant", "Plus")
	assert.Equal(t, []string{"WARN duplicate variant=Plus"}, r.Entries)
}
