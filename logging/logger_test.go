package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelpersAreSafeBeforeInit(t *testing.T) {
	Logger = nil
	assert.NotPanics(t, func() {
		Info("x")
		Debug("x")
		Warn("x")
		Error("x")
		WithPrefix("ui").Info("discarded")
	})
}

func TestInitWriterTagsSession(t *testing.T) {
	t.Cleanup(func() { Logger = nil })

	var buf bytes.Buffer
	InitWriter(&buf, true)
	Debug("stale response dropped", "key", "list:all")

	out := buf.String()
	assert.Contains(t, out, "stale response dropped")
	assert.Contains(t, out, "key=list:all")
	assert.Contains(t, out, "session="+SessionID)
}

func TestInitCreatesFile(t *testing.T) {
	t.Cleanup(func() {
		Close()
		Logger = nil
	})

	path := filepath.Join(t.TempDir(), "nested", "ktrend.log")
	require.NoError(t, Init(path, false))
	Info("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ktrend started")
}
