package colorlog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinkWritesPlainLabelsWhenColorDisabled(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(&buf, 1, false)

	sink.Info(0, "parsed cell")
	sink.Error(assertError{"boom"}, "update failed")

	out := buf.String()
	assert.Contains(t, out, "[INFO] parsed cell")
	assert.Contains(t, out, "[ERROR] update failed")
	assert.NotContains(t, out, "\x1b[", "color disabled should emit no ANSI escapes")
}

func TestSinkRespectsVerbosity(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(&buf, 0, false)

	sink.Info(1, "debug-level message") // above minVerbosity, should be dropped
	assert.Empty(t, buf.String())

	sink.Info(0, "info-level message")
	assert.Contains(t, buf.String(), "info-level message")
}

func TestSinkWithNameAndValues(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(&buf, 5, false).WithName("parser").WithValues("cell", "US5MA22M")

	sink.Info(0, "decoded", "features", 42)

	out := buf.String()
	assert.True(t, strings.Contains(out, "[parser]"))
	assert.True(t, strings.Contains(out, "cell: US5MA22M"))
	assert.True(t, strings.Contains(out, "features: 42"))
}

func TestSinkVAdjustsMinVerbosity(t *testing.T) {
	var buf bytes.Buffer
	base := NewSink(&buf, 0, false)
	verbose := base.V(2).(*Sink)
	require.Equal(t, 2, verbose.minVerbosity)
}

type assertError struct{ msg string }

func (e assertError) Error() string { return e.msg }
