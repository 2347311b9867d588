package s57

import "github.com/pkg/errors"

// InputError indicates the caller supplied invalid input (empty bytes, a
// path that doesn't exist) rather than a malformed chart.
type InputError struct {
	msg string
}

func (e *InputError) Error() string { return e.msg }

func newInputError(format string, args ...interface{}) error {
	return &InputError{msg: errors.Errorf(format, args...).Error()}
}

// ParseError wraps a failure decoding chart bytes, preserving the
// underlying cause for errors.Is/errors.As while adding a stack trace
// accessible via fmt's "%+v" verb.
type ParseError struct {
	cause error
}

func (e *ParseError) Error() string { return e.cause.Error() }
func (e *ParseError) Unwrap() error { return e.cause }

func newParseError(err error, context string) error {
	return &ParseError{cause: errors.Wrap(err, context)}
}
