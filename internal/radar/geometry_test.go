package radar

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeForLevel(t *testing.T) {
	cases := []struct {
		level int
		want  int
	}{
		{-3, 0},
		{0, 0},
		{1, 3},
		{2, 7},
		{3, 13},
		{4, 21},
		{5, 31},
		{10, 111},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RangeForLevel(tc.level), "level %d", tc.level)
	}
}

func TestArcForSpansHalfSystemPadding(t *testing.T) {
	// System 100, range 10: span runs from 89.5 to 110.5.
	arc := ArcFor(100, 10, TrackOwn)

	wantStart := (89.5 - 1) / SystemsPerGalaxy * 2 * math.Pi
	wantEnd := (110.5 - 1) / SystemsPerGalaxy * 2 * math.Pi
	assert.InDelta(t, wantStart, arc.StartAngle, 1e-9)
	assert.InDelta(t, wantEnd, arc.EndAngle, 1e-9)
}

func TestArcForTrackRadii(t *testing.T) {
	own := ArcFor(1, 5, TrackOwn)
	third := ArcFor(1, 5, TrackThirdParty)

	assert.Equal(t, float64(BaseOrbitRadius+TrackOffset), own.Radius)
	assert.Equal(t, float64(BaseOrbitRadius-TrackOffset), third.Radius)
}

func TestArcForLargeArcFlagThreshold(t *testing.T) {
	// 2·range/400 <= 0.5 ⇔ range <= 100.
	assert.Equal(t, 0, ArcFor(200, 99, TrackOwn).LargeArcFlag)
	assert.Equal(t, 0, ArcFor(200, 100, TrackOwn).LargeArcFlag)
	assert.Equal(t, 1, ArcFor(200, 101, TrackOwn).LargeArcFlag)
	assert.Equal(t, 1, ArcFor(200, 150, TrackOwn).LargeArcFlag)
}

func TestArcForWrapsAroundRingBoundary(t *testing.T) {
	// System 3 with range 10 starts before system 1 and must wrap.
	arc := ArcFor(3, 10, TrackOwn)

	require.GreaterOrEqual(t, arc.StartAngle, 0.0)
	require.Less(t, arc.StartAngle, 2*math.Pi)
	// Wrapped start lands near the top of the ring, i.e. a large angle.
	assert.Greater(t, arc.StartAngle, math.Pi)
	assert.Less(t, arc.EndAngle, math.Pi/4)
}

func TestArcForEndpointsLieOnRadius(t *testing.T) {
	arc := ArcFor(120, 21, TrackThirdParty)

	startDist := math.Hypot(arc.StartX, arc.StartY)
	endDist := math.Hypot(arc.EndX, arc.EndY)
	assert.InDelta(t, arc.Radius, startDist, 1e-6)
	assert.InDelta(t, arc.Radius, endDist, 1e-6)
}

func TestSelectionCap(t *testing.T) {
	sel := NewSelection(10, 20, 30)
	require.Equal(t, 3, sel.Len())

	// A fourth selection is rejected, not evicted into.
	sel = sel.Toggle(40)
	assert.Equal(t, 3, sel.Len())
	assert.False(t, sel.Contains(40))

	// Deselecting frees a slot.
	sel = sel.Toggle(20)
	assert.Equal(t, 2, sel.Len())
	sel = sel.Toggle(40)
	assert.True(t, sel.Contains(40))
}

func TestSelectionToggleIsPure(t *testing.T) {
	base := NewSelection(10)
	modified := base.Toggle(20)

	assert.Equal(t, 1, base.Len(), "original selection untouched")
	assert.Equal(t, 2, modified.Len())
}

func TestSelectionVisible(t *testing.T) {
	entries := []Entry{
		{System: 10, Track: TrackOwn},
		{System: 20, Track: TrackThirdParty},
		{System: 30, Track: TrackThirdParty},
	}

	sel := NewSelection(20)
	visible := sel.Visible(entries)

	require.Len(t, visible, 2)
	assert.Equal(t, 10, visible[0].System, "own track always visible")
	assert.Equal(t, 20, visible[1].System, "selected third party visible")
}
