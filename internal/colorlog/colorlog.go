// Package colorlog provides a colorized logr.LogSink for host applications
// that want human-readable terminal output from the
// Collector's forwarded warnings, rather than structured/JSON logging.
package colorlog

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/go-logr/logr"
)

var (
	infoColor  = color.New(color.FgGreen).SprintFunc()
	debugColor = color.New(color.FgCyan).SprintFunc()
	warnColor  = color.New(color.FgYellow).SprintFunc()
	errorColor = color.New(color.FgRed, color.Bold).SprintFunc()
)

// Sink implements logr.LogSink with colorized level labels, matching
// Collector's Info/Error forwarding (internal/parser/warn.go).
type Sink struct {
	writer       io.Writer
	minVerbosity int
	name         string
	keyValues    []interface{}
	mutex        *sync.Mutex
	useColor     bool
}

// NewSink creates a Sink writing to writer (os.Stdout if nil), logging
// levels up to minVerbosity, colorized when useColor is true.
func NewSink(writer io.Writer, minVerbosity int, useColor bool) *Sink {
	if writer == nil {
		writer = os.Stdout
	}
	return &Sink{
		writer:       writer,
		minVerbosity: minVerbosity,
		mutex:        &sync.Mutex{},
		useColor:     useColor,
	}
}

// NewLogger wraps NewSink in a logr.Logger, the form internal/parser's
// Collector and pkg/s57 expect.
func NewLogger(writer io.Writer, minVerbosity int, useColor bool) logr.Logger {
	return logr.New(NewSink(writer, minVerbosity, useColor))
}

func (s *Sink) Init(info logr.RuntimeInfo) {}

func (s *Sink) Enabled(level int) bool { return level <= s.minVerbosity }

func (s *Sink) Info(level int, msg string, keysAndValues ...interface{}) {
	if !s.Enabled(level) {
		return
	}
	s.log(false, level, msg, keysAndValues...)
}

func (s *Sink) Error(err error, msg string, keysAndValues ...interface{}) {
	all := append(append([]interface{}{}, keysAndValues...), "error", err)
	s.log(true, 0, msg, all...)
}

func (s *Sink) WithValues(keysAndValues ...interface{}) logr.LogSink {
	return &Sink{
		writer:       s.writer,
		minVerbosity: s.minVerbosity,
		name:         s.name,
		keyValues:    append(append([]interface{}{}, s.keyValues...), keysAndValues...),
		mutex:        s.mutex,
		useColor:     s.useColor,
	}
}

func (s *Sink) WithName(name string) logr.LogSink {
	newName := name
	if s.name != "" {
		newName = s.name + "." + name
	}
	return &Sink{
		writer:       s.writer,
		minVerbosity: s.minVerbosity,
		name:         newName,
		keyValues:    append([]interface{}{}, s.keyValues...),
		mutex:        s.mutex,
		useColor:     s.useColor,
	}
}

func (s *Sink) V(level int) logr.LogSink {
	return &Sink{
		writer:       s.writer,
		minVerbosity: level,
		name:         s.name,
		keyValues:    append([]interface{}{}, s.keyValues...),
		mutex:        s.mutex,
		useColor:     s.useColor,
	}
}

func (s *Sink) label(isError bool, level int) string {
	plain := "[INFO]"
	paint := infoColor
	switch {
	case isError:
		plain, paint = "[ERROR]", errorColor
	case level == 1:
		plain, paint = "[WARN]", warnColor
	case level >= 2:
		plain, paint = "[DEBUG]", debugColor
	}
	if !s.useColor {
		return plain
	}
	return paint(plain)
}

func (s *Sink) log(isError bool, level int, msg string, keysAndValues ...interface{}) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	line := s.label(isError, level) + " " + msg
	if s.name != "" {
		line = fmt.Sprintf("%s [%s] %s", s.label(isError, level), s.name, msg)
	}
	fmt.Fprintln(s.writer, line)

	all := append(append([]interface{}{}, s.keyValues...), keysAndValues...)
	for i := 0; i+1 < len(all); i += 2 {
		key, ok := all[i].(string)
		if !ok {
			key = fmt.Sprintf("key%d", i/2)
		}
		fmt.Fprintf(s.writer, "  %s: %v\n", key, all[i+1])
	}
}
