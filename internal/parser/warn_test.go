package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorRecordsInOrder(t *testing.T) {
	coll := NewCollector()
	coll.Warnf(SeverityInfo, "A", "first")
	coll.Warnf(SeverityWarning, "B", "second")
	require.Len(t, coll.Warnings(), 2)
	assert.Equal(t, "A", coll.Warnings()[0].Code)
	assert.Equal(t, "B", coll.Warnings()[1].Code)
}

func TestCollectorMaxWarningsAppendsSyntheticWarningOnThresholdCrossing(t *testing.T) {
	coll := NewCollector(WithMaxWarnings(2))
	coll.Warnf(SeverityWarning, "warn1", "first")
	coll.Warnf(SeverityInfo, "warn2", "second")
	assert.False(t, coll.IsThresholdExceeded(), "crossing happens on the addition that reaches the cap, not before")
	coll.Warnf(SeverityWarning, "warn3", "third")

	all := coll.Warnings()
	require.Len(t, all, 4, "the triggering warning plus the synthetic one")
	assert.Equal(t, "warn3", all[2].Code)
	assert.Equal(t, "MAX_WARNINGS_EXCEEDED", all[3].Code)
	assert.Equal(t, SeverityError, all[3].Severity)
	assert.True(t, coll.IsThresholdExceeded())

	// crossing only fires once per Collector.
	coll.Warnf(SeverityWarning, "warn4", "fourth")
	assert.Len(t, coll.Warnings(), 5)
}

func TestCollectorMaxWarningsZeroCapTripsOnFirstWarning(t *testing.T) {
	coll := NewCollector(WithMaxWarnings(0))
	coll.Warnf(SeverityInfo, "anything", "first warning of any severity")

	all := coll.Warnings()
	require.Len(t, all, 2)
	assert.Equal(t, "MAX_WARNINGS_EXCEEDED", all[1].Code)
}

func TestCollectorMaxWarningsNilMeansUnlimited(t *testing.T) {
	coll := NewCollector()
	for i := 0; i < 50; i++ {
		coll.Warnf(SeverityInfo, "CODE", "msg %d", i)
	}
	assert.Len(t, coll.Warnings(), 50)
	assert.False(t, coll.IsThresholdExceeded())
}

func TestCollectorStrictModePanics(t *testing.T) {
	coll := NewCollector(WithStrictMode(true))

	assert.NotPanics(t, func() {
		coll.Warnf(SeverityWarning, "W", "below threshold")
	})

	expected := StrictModeException{
		Warning:     Warning{Severity: SeverityError, Code: "E", Message: "boom"},
		AllWarnings: []Warning{{Severity: SeverityWarning, Code: "W", Message: "below threshold"}, {Severity: SeverityError, Code: "E", Message: "boom"}},
	}
	assert.PanicsWithValue(t, expected, func() {
		coll.Warnf(SeverityError, "E", "boom")
	})
}

func TestCollectorStrictModeWithZeroMaxWarningsRaisesOnFirstWarning(t *testing.T) {
	coll := NewCollector(WithStrictMode(true), WithMaxWarnings(0))

	expected := StrictModeException{
		Warning: Warning{Severity: SeverityError, Code: "MAX_WARNINGS_EXCEEDED", Message: "exceeded max_warnings=0"},
		AllWarnings: []Warning{
			{Severity: SeverityInfo, Code: "first", Message: "msg"},
			{Severity: SeverityError, Code: "MAX_WARNINGS_EXCEEDED", Message: "exceeded max_warnings=0"},
		},
	}
	assert.PanicsWithValue(t, expected, func() {
		coll.Warnf(SeverityInfo, "first", "msg")
	})
}

func TestRecoverStrictModeConvertsPanicToError(t *testing.T) {
	coll := NewCollector(WithStrictMode(true))

	run := func() (err error) {
		defer recoverStrictMode(&err)
		coll.Warnf(SeverityError, "E", "boom")
		return nil
	}

	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strict mode")
}

func TestRecoverStrictModeRepanicsOtherValues(t *testing.T) {
	run := func() (err error) {
		defer recoverStrictMode(&err)
		panic("not a strict mode exception")
	}
	assert.Panics(t, func() { _ = run() })
}

func TestHasErrors(t *testing.T) {
	coll := NewCollector()
	assert.False(t, coll.HasErrors())
	coll.Warnf(SeverityWarning, "W", "fine")
	assert.False(t, coll.HasErrors())
	coll.Warnf(SeverityError, "E", "bad")
	assert.True(t, coll.HasErrors())
}
