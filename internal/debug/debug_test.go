package debug

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetNoColor(true)
	t.Cleanup(func() {
		SetDebug(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetDebug(t *testing.T) {
	SetDebug(false)
	assert.False(t, IsEnabled(), "Debug should be disabled initially")

	SetDebug(true)
	assert.True(t, IsEnabled(), "Debug should be enabled")

	SetDebug(false)
	assert.False(t, IsEnabled(), "Debug should be disabled again")
}

func TestDebugOutput(t *testing.T) {
	buf := captureOutput(t)
	SetDebug(true)

	Debug("test message %s", "arg")

	output := buf.String()
	assert.Contains(t, output, "DEBU")
	assert.Contains(t, output, "test message arg")
}

func TestDebugDisabled(t *testing.T) {
	buf := captureOutput(t)
	SetDebug(false)

	Debug("this should not appear")
	DebugSection("hidden")
	DebugValue("hidden", 1)
	DebugJSON("hidden", map[string]int{"a": 1})

	assert.Empty(t, buf.String())
}

func TestDebugSection(t *testing.T) {
	buf := captureOutput(t)
	SetDebug(true)

	DebugSection("checkout")

	assert.Contains(t, buf.String(), "=== checkout ===")
}

func TestDebugValue(t *testing.T) {
	buf := captureOutput(t)
	SetDebug(true)

	DebugValue("format", "yaml")

	output := buf.String()
	assert.Contains(t, output, "format")
	assert.Contains(t, output, "yaml")
}

func TestDebugJSON(t *testing.T) {
	buf := captureOutput(t)
	SetDebug(true)

	DebugJSON("template", map[string]string{"etag": "etag-1"})

	output := buf.String()
	assert.Contains(t, output, "template:")
	assert.True(t, strings.Contains(output, "etag-1"), "JSON dump expected, got: %s", output)
}
