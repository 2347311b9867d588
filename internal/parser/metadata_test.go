package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatumNames(t *testing.T) {
	coll := NewCollector()

	assert.Equal(t, "WGS84", HorizontalDatumName(2, coll))
	assert.Equal(t, "Mean sea level", VerticalDatumName(3, coll))
	assert.Equal(t, "Mean sea level", SoundingDatumName(3, coll))
	assert.Empty(t, coll.Warnings())

	assert.Equal(t, "Unknown", HorizontalDatumName(999, coll))
	require.Len(t, coll.Warnings(), 1)
	assert.Equal(t, "UNKNOWN_HORIZONTAL_DATUM", coll.Warnings()[0].Code)

	assert.Equal(t, "Unknown", VerticalDatumName(999, coll))
	assert.Equal(t, "Unknown", SoundingDatumName(999, coll))
	require.Len(t, coll.Warnings(), 3, "each datum kind should emit its own distinct warning code")
	codes := []string{coll.Warnings()[0].Code, coll.Warnings()[1].Code, coll.Warnings()[2].Code}
	assert.Equal(t, []string{"UNKNOWN_HORIZONTAL_DATUM", "UNKNOWN_VERTICAL_DATUM", "UNKNOWN_SOUNDING_DATUM"}, codes)
}

func TestConvertCoordinate(t *testing.T) {
	assert.InDelta(t, 12.3456789, convertCoordinate(123456789, 10000000), 1e-9)
	assert.InDelta(t, 12.3456789, convertCoordinate(123456789, 0), 1e-9, "an invalid COMF should fall back to the conventional 10^7 factor")
}

func TestExtractDatasetParamsDefaults(t *testing.T) {
	params := extractDatasetParams(nil)
	assert.EqualValues(t, 10000000, params.COMF)
	assert.EqualValues(t, 10, params.SOMF)
}

func TestChartAccessorsHandleNilMetadata(t *testing.T) {
	c := &Chart{}
	assert.Equal(t, "", c.DatasetName())
	assert.Equal(t, "Unknown", c.ExchangePurpose())
	assert.Equal(t, 0, c.ProducingAgency())
}
