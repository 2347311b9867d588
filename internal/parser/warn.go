package parser

import (
	"fmt"

	"github.com/go-logr/logr"
)

// Severity classifies how serious a Warning is. Strict mode escalates
// SeverityError (and above) to a StrictModeException instead of letting
// parsing continue.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Warning is a single diagnostic emitted while decoding a cell or applying
// an update: something was off-spec or absent, but parsing produced a
// best-effort result anyway.
type Warning struct {
	Severity Severity
	Code     string // short machine-readable tag, e.g. "UNKNOWN_OBJECT_CLASS"
	Message  string
}

func (w Warning) String() string {
	return fmt.Sprintf("[%s] %s: %s", w.Severity, w.Code, w.Message)
}

// Collector accumulates Warnings produced during a single parse or update
// pass. It is the side channel threaded through the reader, semantic
// layer, and update applicator rather than a return value, so a single
// bad record does not need to abort decoding the rest of the cell.
//
// Every warning is also forwarded to an optional logr.Logger, so host
// applications get structured log output without inspecting Warnings().
type Collector struct {
	warnings          []Warning
	seen              map[string]bool // dedup key: code+":"+message, for *_OBJECT_CLASS/*_ATTRIBUTE noise
	strict            bool
	maxWarn           int
	maxWarnSet        bool // distinguishes "no cap" from "cap of zero"
	thresholdExceeded bool
	log               logr.Logger
}

// CollectorOption configures a Collector.
type CollectorOption func(*Collector)

// WithStrictMode causes the first SeverityError-or-above warning to raise
// a StrictModeException instead of being recorded and continuing.
func WithStrictMode(strict bool) CollectorOption {
	return func(c *Collector) { c.strict = strict }
}

// WithMaxWarnings sets the warning threshold: once total recorded warnings
// reach n, the next addition also appends a synthetic MAX_WARNINGS_EXCEEDED
// error warning (raised immediately in strict mode). n == 0 is a valid,
// distinct cap of zero — the first warning of any severity trips it —
// not "unlimited"; omit this option entirely for unlimited.
func WithMaxWarnings(n int) CollectorOption {
	return func(c *Collector) { c.maxWarn = n; c.maxWarnSet = true }
}

// WithLogger routes every collected warning to logger in addition to the
// in-memory Warnings() slice.
func WithLogger(logger logr.Logger) CollectorOption {
	return func(c *Collector) { c.log = logger }
}

// NewCollector creates a Collector with the given options applied.
func NewCollector(opts ...CollectorOption) *Collector {
	c := &Collector{seen: make(map[string]bool), log: logr.Discard()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Warnf records a formatted warning. If the Collector is in strict mode
// and severity is SeverityError or higher, it panics with a
// StrictModeException instead of returning normally — the one place this
// package uses a control-flow exception, caught at the Parse boundary.
func (c *Collector) Warnf(severity Severity, code, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	c.record(Warning{Severity: severity, Code: code, Message: msg})
}

// dedupCodes lists warning codes that are deliberately deduplicated per
// (code, message) pair within a session — unknown object classes and
// attributes tend to repeat once per occurrence in a cell, and a
// thousand identical warnings are not more informative than one.
var dedupCodes = map[string]bool{
	"UNKNOWN_OBJECT_CLASS":     true,
	"UNKNOWN_ATTRIBUTE":        true,
	"UNKNOWN_HORIZONTAL_DATUM": true,
	"UNKNOWN_VERTICAL_DATUM":   true,
	"UNKNOWN_SOUNDING_DATUM":   true,
}

// record appends w, raising a StrictModeException if w itself is an
// error-severity warning under strict mode. It also runs the threshold
// check on every addition: once the count of previously-recorded warnings
// has reached the configured cap, the addition that crosses it also
// appends a synthetic MAX_WARNINGS_EXCEEDED error warning (raised
// immediately in strict mode), recorded only once per Collector.
func (c *Collector) record(w Warning) {
	key := w.Code + ":" + w.Message
	if dedupCodes[w.Code] {
		if c.seen[key] {
			return
		}
		c.seen[key] = true
	}

	crossesThreshold := c.maxWarnSet && !c.thresholdExceeded && len(c.warnings) >= c.maxWarn

	c.warnings = append(c.warnings, w)
	c.logWarning(w)
	c.panicIfStrictError(w)

	if crossesThreshold {
		c.thresholdExceeded = true
		synthetic := Warning{
			Severity: SeverityError,
			Code:     "MAX_WARNINGS_EXCEEDED",
			Message:  fmt.Sprintf("exceeded max_warnings=%d", c.maxWarn),
		}
		c.warnings = append(c.warnings, synthetic)
		c.logWarning(synthetic)
		c.panicIfStrictError(synthetic)
	}
}

func (c *Collector) logWarning(w Warning) {
	switch w.Severity {
	case SeverityError:
		c.log.Error(fmt.Errorf(w.Message), w.Code)
	default:
		c.log.Info(w.Message, "code", w.Code, "severity", w.Severity.String())
	}
}

// panicIfStrictError raises a StrictModeException carrying w and every
// warning accumulated so far, the one place this package uses a
// control-flow exception, caught at the Parse boundary.
func (c *Collector) panicIfStrictError(w Warning) {
	if c.strict && w.Severity >= SeverityError {
		panic(StrictModeException{Warning: w, AllWarnings: append([]Warning{}, c.warnings...)})
	}
}

// Warnings returns every warning collected so far, in emission order.
func (c *Collector) Warnings() []Warning {
	return c.warnings
}

// HasErrors reports whether any SeverityError-or-above warning was
// recorded (only reachable when strict mode is off, since strict mode
// raises immediately instead of recording).
func (c *Collector) HasErrors() bool {
	for _, w := range c.warnings {
		if w.Severity >= SeverityError {
			return true
		}
	}
	return false
}

// IsThresholdExceeded reports whether MaxWarnings was reached and the
// synthetic MAX_WARNINGS_EXCEEDED warning was recorded (only reachable
// when strict mode is off, since strict mode raises as soon as it happens).
func (c *Collector) IsThresholdExceeded() bool {
	return c.thresholdExceeded
}
