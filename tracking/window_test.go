package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openrail/tdtracker/classify"
	"github.com/openrail/tdtracker/config"
	"github.com/openrail/tdtracker/smart"
)

func twoStationGraph(t *testing.T) *smart.Graph {
	t.Helper()
	g, err := smart.BuildGraph([]smart.StepRecord{
		{TDArea: "SK", FromBerth: "A", ToBerth: "B", Stanox: "11111", Stanme: "STATION X"},
		{TDArea: "SK", FromBerth: "B", ToBerth: "C", Stanox: "22222", Stanme: "STATION Y"},
		{TDArea: "WG", FromBerth: "P", ToBerth: "Q"},
	})
	require.NoError(t, err)
	return g
}

func TestCompileWindowFromCenter(t *testing.T) {
	w, err := CompileWindow(config.WindowConfig{
		Name:            "station-x",
		CenterSTANOX:    "11111",
		BerthRange:      0,
		AlertCategories: []string{"freight", "charter"},
	}, twoStationGraph(t))
	require.NoError(t, err)

	assert.True(t, w.Contains(smart.BerthKey{Area: "SK", Berth: "A"}))
	assert.True(t, w.Contains(smart.BerthKey{Area: "SK", Berth: "B"}))
	assert.False(t, w.Contains(smart.BerthKey{Area: "SK", Berth: "C"}))
	assert.Equal(t, 2, w.Size())

	assert.True(t, w.Armed(classify.Freight))
	assert.True(t, w.Armed(classify.Charter))
	assert.False(t, w.Armed(classify.Passenger))
}

func TestCompileWindowFromAreas(t *testing.T) {
	w, err := CompileWindow(config.WindowConfig{
		Name:    "wigan-box",
		TDAreas: []string{"WG"},
	}, twoStationGraph(t))
	require.NoError(t, err)

	assert.True(t, w.Contains(smart.BerthKey{Area: "WG", Berth: "P"}))
	assert.False(t, w.Contains(smart.BerthKey{Area: "SK", Berth: "A"}))
	assert.Equal(t, 2, w.Size())
}

func TestCompileWindowErrors(t *testing.T) {
	g := twoStationGraph(t)

	_, err := CompileWindow(config.WindowConfig{Name: "bad", CenterSTANOX: "99999"}, g)
	assert.Error(t, err)

	_, err = CompileWindow(config.WindowConfig{Name: "empty", TDAreas: []string{"ZZ"}}, g)
	assert.Error(t, err)
}
