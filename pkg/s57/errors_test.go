package s57

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRejectsEmptyInput(t *testing.T) {
	_, err := Parse(nil, nil, DefaultParseOptions())
	require.Error(t, err)

	var inputErr *InputError
	assert.True(t, errors.As(err, &inputErr))
}

func TestNewParseErrorUnwraps(t *testing.T) {
	cause := errors.New("boom")
	wrapped := newParseError(cause, "decoding cell")

	var parseErr *ParseError
	require.True(t, errors.As(wrapped, &parseErr))
	assert.Contains(t, parseErr.Error(), "decoding cell")
	assert.True(t, errors.Is(wrapped, cause))
}
