package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectClassToString(t *testing.T) {
	coll := NewCollector()

	name, err := ObjectClassToString(42, coll)
	require.NoError(t, err)
	assert.Equal(t, "DEPARE", name)

	name, err = ObjectClassToString(129, coll)
	require.NoError(t, err)
	assert.Equal(t, "SOUNDG", name)
	assert.Empty(t, coll.Warnings(), "resolved codes never warn")

	zeroColl := NewCollector()
	_, err = ObjectClassToString(0, zeroColl)
	assert.Error(t, err, "structurally invalid codes are unresolved")
	require.Len(t, zeroColl.Warnings(), 1)
	assert.Equal(t, "UNKNOWN_OBJECT_CLASS", zeroColl.Warnings()[0].Code)

	uncatalogedColl := NewCollector()
	_, err = ObjectClassToString(99999, uncatalogedColl)
	assert.Error(t, err, "a code absent from the catalogue is unresolved, not a placeholder feature")
	require.Len(t, uncatalogedColl.Warnings(), 1)
	assert.Equal(t, "UNKNOWN_OBJECT_CLASS", uncatalogedColl.Warnings()[0].Code)
}

func TestObjectClassToStringDedupesWarnings(t *testing.T) {
	coll := NewCollector()
	for i := 0; i < 5; i++ {
		_, _ = ObjectClassToString(88888, coll)
	}
	assert.Len(t, coll.Warnings(), 1, "identical unknown-class warnings should be deduplicated")
}

func TestObjectClassToInt(t *testing.T) {
	code, err := ObjectClassToInt("DEPARE")
	require.NoError(t, err)
	assert.Equal(t, 42, code)

	code, err = ObjectClassToInt("soundg")
	require.NoError(t, err)
	assert.Equal(t, 129, code)

	_, err = ObjectClassToInt("NOTAREALCLASS")
	assert.Error(t, err)
}

func TestValidateRequiredAttributes(t *testing.T) {
	coll := NewCollector()
	ValidateRequiredAttributes("DEPARE", map[string]interface{}{}, 7, coll)
	require.Len(t, coll.Warnings(), 1)
	assert.Equal(t, "MISSING_REQUIRED_ATTR", coll.Warnings()[0].Code)

	coll2 := NewCollector()
	ValidateRequiredAttributes("DEPARE", map[string]interface{}{"DRVAL1": 3.5}, 7, coll2)
	assert.Empty(t, coll2.Warnings())

	coll3 := NewCollector()
	ValidateRequiredAttributes("LIGHTS", map[string]interface{}{}, 7, coll3)
	assert.Empty(t, coll3.Warnings(), "object classes with no declared requirements should never warn")
}

func TestAttributeCodeToString(t *testing.T) {
	coll := NewCollector()
	name := AttributeCodeToString(136, coll) // VALSOU per the embedded catalogue
	assert.Equal(t, "VALSOU", name)

	placeholder := AttributeCodeToString(999999, coll)
	assert.Equal(t, "ATTR_999999", placeholder)
	require.Len(t, coll.Warnings(), 1)
	assert.Equal(t, "UNKNOWN_ATTRIBUTE", coll.Warnings()[0].Code)
}
