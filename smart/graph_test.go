package smart

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lineGraph builds A→B→C with C attributed to station 11111.
func lineGraph(t *testing.T) *Graph {
	t.Helper()
	g, err := BuildGraph([]StepRecord{
		{TDArea: "SK", FromBerth: "A", ToBerth: "B"},
		{TDArea: "SK", FromBerth: "B", ToBerth: "C", Stanox: "11111", Stanme: "STATION X"},
	})
	require.NoError(t, err)
	return g
}

func TestBuildGraphAdjacency(t *testing.T) {
	g := lineGraph(t)

	succ := g.Successors(BerthKey{"SK", "A"})
	require.Len(t, succ, 1)
	assert.Equal(t, BerthKey{"SK", "B"}, succ[0].To)

	pred := g.Predecessors(BerthKey{"SK", "C"})
	require.Len(t, pred, 1)
	assert.Equal(t, BerthKey{"SK", "B"}, pred[0].To)

	attr, ok := g.Attribution(BerthKey{"SK", "C"})
	require.True(t, ok)
	assert.Equal(t, "11111", attr.Stanox)
	assert.Equal(t, "STATION X", attr.Name)

	_, ok = g.Attribution(BerthKey{"SK", "A"})
	assert.False(t, ok)
}

func TestBuildGraphSkipsMalformedRecords(t *testing.T) {
	g, err := BuildGraph([]StepRecord{
		{TDArea: "", FromBerth: "A", ToBerth: "B"}, // no area
		{TDArea: "SK"},                             // no berths
		{TDArea: "SK", FromBerth: "A", ToBerth: "B"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, g.Skipped())
	assert.True(t, g.HasBerth(BerthKey{"SK", "A"}))
}

func TestBuildGraphEmptyFails(t *testing.T) {
	_, err := BuildGraph([]StepRecord{{TDArea: ""}})
	require.ErrorIs(t, err, ErrEmptyGraph)

	_, err = BuildGraph(nil)
	require.ErrorIs(t, err, ErrEmptyGraph)
}

func TestEnumerateOrderAndAttribution(t *testing.T) {
	g := lineGraph(t)

	got := g.Enumerate(BerthKey{"SK", "A"}, Successors, 10)
	keys := make([]BerthKey, 0, len(got))
	for _, b := range got {
		keys = append(keys, b.Key)
	}
	want := []BerthKey{{"SK", "A"}, {"SK", "B"}, {"SK", "C"}}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Fatalf("enumeration order mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, got[0].AtStation)
	assert.True(t, got[2].AtStation)
	assert.Equal(t, "11111", got[2].Attr.Stanox)
}

func TestEnumerateStopsAtMax(t *testing.T) {
	g := lineGraph(t)
	got := g.Enumerate(BerthKey{"SK", "A"}, Successors, 2)
	require.Len(t, got, 2)
	assert.Equal(t, BerthKey{"SK", "B"}, got[1].Key)
}

func TestEnumerateDeadEnd(t *testing.T) {
	g := lineGraph(t)
	got := g.Enumerate(BerthKey{"SK", "C"}, Successors, 5)
	require.Len(t, got, 1) // C has no successors
}

func TestEnumerateCycleTerminatesWithoutRepeats(t *testing.T) {
	// Loop line: A→B→C→A
	g, err := BuildGraph([]StepRecord{
		{TDArea: "G1", FromBerth: "A", ToBerth: "B"},
		{TDArea: "G1", FromBerth: "B", ToBerth: "C"},
		{TDArea: "G1", FromBerth: "C", ToBerth: "A"},
	})
	require.NoError(t, err)

	got := g.Enumerate(BerthKey{"G1", "A"}, Successors, 100)
	require.Len(t, got, 3)
	seen := map[BerthKey]int{}
	for _, b := range got {
		seen[b.Key]++
	}
	for key, n := range seen {
		assert.Equal(t, 1, n, "berth %s emitted more than once", key)
	}
}

func TestEnumerateJunctionTieBreakIsRecordOrder(t *testing.T) {
	// J has two successors; the first-listed record must come first.
	g, err := BuildGraph([]StepRecord{
		{TDArea: "SK", FromBerth: "J", ToBerth: "FAST", ToLine: "F"},
		{TDArea: "SK", FromBerth: "J", ToBerth: "SLOW", ToLine: "S"},
	})
	require.NoError(t, err)

	got := g.Enumerate(BerthKey{"SK", "J"}, Successors, 3)
	require.Len(t, got, 3)
	assert.Equal(t, BerthKey{"SK", "FAST"}, got[1].Key)
	assert.Equal(t, BerthKey{"SK", "SLOW"}, got[2].Key)
}

func TestBerthsAroundStation(t *testing.T) {
	// X(1) — g1 — Y(2) — g2 — Z(3): three stations in a line with gap berths.
	g, err := BuildGraph([]StepRecord{
		{TDArea: "EK", FromBerth: "1", ToBerth: "g1", Stanox: "10000", Stanme: "X"},
		{TDArea: "EK", FromBerth: "g1", ToBerth: "2"},
		{TDArea: "EK", FromBerth: "2", ToBerth: "g2", Stanox: "20000", Stanme: "Y"},
		{TDArea: "EK", FromBerth: "g2", ToBerth: "3"},
		{TDArea: "EK", FromBerth: "3", ToBerth: "3a", Stanox: "30000", Stanme: "Z"},
	})
	require.NoError(t, err)

	// Range 1 from Y: Y's berths, the gap berths each side, and the berths of
	// the first station crossed in each direction — but nothing beyond.
	got, err := g.BerthsAroundStation("20000", 1)
	require.NoError(t, err)

	set := map[BerthKey]bool{}
	for _, k := range got {
		set[k] = true
	}
	assert.True(t, set[BerthKey{"EK", "2"}], "center station berth")
	assert.True(t, set[BerthKey{"EK", "g2"}], "center-attributed berth")
	assert.True(t, set[BerthKey{"EK", "g1"}], "gap berth toward X")
	assert.True(t, set[BerthKey{"EK", "1"}], "first station up-line")
	assert.True(t, set[BerthKey{"EK", "3"}], "first station down-line")
}

func TestBerthsAroundStationRangeZeroSweepsGapBerths(t *testing.T) {
	g, err := BuildGraph([]StepRecord{
		{TDArea: "EK", FromBerth: "0", ToBerth: "1", Stanox: "10000", Stanme: "X"},
		{TDArea: "EK", FromBerth: "1", ToBerth: "g1"},
		{TDArea: "EK", FromBerth: "g1", ToBerth: "2"},
		{TDArea: "EK", FromBerth: "2", ToBerth: "g2", Stanox: "20000", Stanme: "Y"},
		{TDArea: "EK", FromBerth: "g2", ToBerth: "3"},
		{TDArea: "EK", FromBerth: "3", ToBerth: "3a", Stanox: "30000", Stanme: "Z"},
	})
	require.NoError(t, err)

	// Range 0 from Y: Y's own berths plus the unattributed gap berth toward
	// X, stopping short of any foreign-attributed berth.
	got, err := g.BerthsAroundStation("20000", 0)
	require.NoError(t, err)

	set := map[BerthKey]bool{}
	for _, k := range got {
		set[k] = true
	}
	assert.True(t, set[BerthKey{"EK", "2"}])
	assert.True(t, set[BerthKey{"EK", "g2"}])
	assert.True(t, set[BerthKey{"EK", "g1"}], "trailing gap berth swept")
	assert.False(t, set[BerthKey{"EK", "1"}], "foreign station excluded")
	assert.False(t, set[BerthKey{"EK", "3"}], "foreign station excluded")
}

func TestBerthsAroundStationUnknownStanox(t *testing.T) {
	g := lineGraph(t)
	_, err := g.BerthsAroundStation("99999", 2)
	require.Error(t, err)
}

func TestAreaBerths(t *testing.T) {
	g, err := BuildGraph([]StepRecord{
		{TDArea: "SK", FromBerth: "A", ToBerth: "B"},
		{TDArea: "EK", FromBerth: "P", ToBerth: "Q"},
	})
	require.NoError(t, err)

	got := g.AreaBerths([]string{"SK"})
	for _, k := range got {
		assert.Equal(t, "SK", k.Area)
	}
	assert.Len(t, got, 2)
}

func TestPlatformMapping(t *testing.T) {
	g, err := BuildGraph([]StepRecord{
		{TDArea: "SK", FromBerth: "P1", ToBerth: "P2", Stanox: "42095", Platform: "1"},
	})
	require.NoError(t, err)

	mapping := g.PlatformMapping("SK")
	assert.Equal(t, "1", mapping["P1"])
	assert.Equal(t, "1", mapping["P2"])
}
