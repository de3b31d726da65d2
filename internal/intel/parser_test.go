package intel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const structuredScan = `{
  "planet": {
    "name": "Outpost-7",
    "coords": "[3:120:8]",
    "resources": [1200, 540, 90, 12],
    "buildings": {
      "mine": {"name": "Ore Mine", "level": 12},
      "yard": {"name": "Shipyard", "level": 4}
    },
    "ships": [{"name": "Probe", "count": 3}],
    "defense": [{"name": "Turret", "count": 20}]
  }
}`

func TestParseStructuredScan(t *testing.T) {
	snap := Parse(structuredScan)

	require.True(t, snap.Parsed)
	assert.Equal(t, "Outpost-7", snap.PlanetName)
	assert.Equal(t, "[3:120:8]", snap.Coords)
	assert.Equal(t, [4]int64{1200, 540, 90, 12}, snap.Resources)
	assert.Equal(t, []UnitCount{{Name: "Ore Mine", Count: 12}, {Name: "Shipyard", Count: 4}}, snap.Buildings)
	assert.Equal(t, []UnitCount{{Name: "Probe", Count: 3}}, snap.Fleet)
	assert.Equal(t, []UnitCount{{Name: "Turret", Count: 20}}, snap.Defense)
}

func TestParseCoordinateFallback(t *testing.T) {
	snap := Parse("scan log 2026-01-04 target sighted at [12:345:6] heading out")

	assert.False(t, snap.Parsed)
	assert.Equal(t, "[12:345:6]", snap.Coords)
	assert.Empty(t, snap.PlanetName)
	assert.Equal(t, [4]int64{}, snap.Resources)
}

func TestParseGarbage(t *testing.T) {
	snap := Parse("no coordinates anywhere here")
	assert.False(t, snap.Parsed)
	assert.Empty(t, snap.Coords)

	snap = Parse("")
	assert.False(t, snap.Parsed)

	// Valid JSON without a planet object still falls back to the scrape.
	snap = Parse(`{"other": true, "note": "[1:2:3]"}`)
	assert.False(t, snap.Parsed)
	assert.Equal(t, "[1:2:3]", snap.Coords)
}

func TestParseTruncatesExcessResources(t *testing.T) {
	snap := Parse(`{"planet": {"name": "X", "resources": [1, 2, 3, 4, 5, 6]}}`)
	require.True(t, snap.Parsed)
	assert.Equal(t, [4]int64{1, 2, 3, 4}, snap.Resources)
}

func TestParseIsDeterministic(t *testing.T) {
	// The building map must flatten in a stable order.
	first := Parse(structuredScan)
	for i := 0; i < 8; i++ {
		assert.Equal(t, first, Parse(structuredScan))
	}
}
