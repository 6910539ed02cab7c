package tdtracker

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openrail/tdtracker/config"
	"github.com/openrail/tdtracker/smart"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	hub, err := NewHub(config.AppConfig{
		Server: config.ServerConfig{Port: 16185},
		Tracker: config.TrackerConfig{
			HistoryCap:    32,
			StaleAfter:    "30m",
			ExitScanDepth: 2,
		},
		Windows: []config.WindowConfig{
			{Name: "station-x", TDAreas: []string{"SK"}, AlertCategories: []string{"freight"}},
		},
	}, nil)
	require.NoError(t, err)

	g, err := smart.BuildGraph([]smart.StepRecord{
		{TDArea: "SK", FromBerth: "3647", ToBerth: "3649"},
		{TDArea: "SK", FromBerth: "3649", ToBerth: "3651", Stanox: "11111", Stanme: "STATION X", Platform: "2"},
	})
	require.NoError(t, err)
	require.NoError(t, hub.ReplaceTopology(g))
	return hub
}

func TestHandleRawRoutesTDBatch(t *testing.T) {
	hub := newTestHub(t)

	hub.HandleRaw([]byte(`[
		{"CC_MSG":{"time":"1349696911000","area_id":"SK","msg_type":"CC","to":"3647","descr":"1F42"}},
		{"CA_MSG":{"time":"1349696921000","area_id":"SK","msg_type":"CA","from":"3647","to":"3649","descr":"1F42"}}
	]`))

	entry, ok := hub.occupancy.Get(smart.BerthKey{Area: "SK", Berth: "3649"})
	require.True(t, ok)
	assert.Equal(t, "1F42", entry.Descr)

	trains := hub.Snapshot()["station-x"]
	require.Len(t, trains, 1)
	assert.Equal(t, "1F42", trains[0].Descr)
	assert.Len(t, trains[0].BerthsVisited, 2)
}

func TestHandleRawRoutesVSTP(t *testing.T) {
	hub := newTestHub(t)

	hub.HandleRaw([]byte(`{"VSTPCIFMsgV1":{"schedule":{
		"CIF_train_uid":"C12345",
		"schedule_segment":[{"signalling_id":"1F42","atoc_code":"NT",
			"schedule_location":[{"tiploc_code":"LVRPLSH"},{"tiploc_code":"MNCRVIC"}]}]}}}`))

	sched, ok := hub.schedules.LookupByHeadcode("1F42")
	require.True(t, ok)
	assert.Equal(t, "C12345", sched.UID)
}

func TestHandleRawIgnoresGarbage(t *testing.T) {
	hub := newTestHub(t)

	hub.HandleRaw(nil)
	hub.HandleRaw([]byte("not json"))
	hub.HandleRaw([]byte(`{"SF_MSG":{"area_id":"SK","address":"0C","data":"20"}}`))
	assert.Equal(t, 0, hub.occupancy.Len())
}

func TestAreaFilter(t *testing.T) {
	hub, err := NewHub(config.AppConfig{
		Feed:    config.FeedConfig{TDAreas: []string{"WG"}},
		Tracker: config.TrackerConfig{HistoryCap: 32, StaleAfter: "30m", ExitScanDepth: 2},
	}, nil)
	require.NoError(t, err)

	hub.HandleRaw([]byte(`{"CC_MSG":{"time":"1349696911000","area_id":"SK","msg_type":"CC","to":"3647","descr":"1F42"}}`))
	assert.Equal(t, 0, hub.occupancy.Len())

	hub.HandleRaw([]byte(`{"CC_MSG":{"time":"1349696911000","area_id":"WG","msg_type":"CC","to":"0110","descr":"6M94"}}`))
	assert.Equal(t, 1, hub.occupancy.Len())
}

func TestHealthHandler(t *testing.T) {
	hub := newTestHub(t)

	rec := httptest.NewRecorder()
	hub.handleHealth(rec, httptest.NewRequest("GET", "/api/health", nil))

	var resp healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.TopologyLoaded)
}

func TestWindowsHandler(t *testing.T) {
	hub := newTestHub(t)
	hub.HandleRaw([]byte(`{"CC_MSG":{"time":"1349696911000","area_id":"SK","msg_type":"CC","to":"3647","descr":"6M94"}}`))

	rec := httptest.NewRecorder()
	hub.handleWindows(rec, httptest.NewRequest("GET", "/api/windows?name=station-x", nil))
	require.Equal(t, 200, rec.Code)

	var resp windowResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "station-x", resp.Name)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, 1, resp.Alerting)
	require.Len(t, resp.Trains, 1)
	assert.Equal(t, "6M94", resp.Trains[0].Descr)
	assert.True(t, resp.Trains[0].Alerted)
	assert.Equal(t, "freight service armed in window station-x", resp.Trains[0].Reason)

	rec = httptest.NewRecorder()
	hub.handleWindows(rec, httptest.NewRequest("GET", "/api/windows?name=nope", nil))
	assert.Equal(t, 404, rec.Code)
}

func TestBerthSequenceHandler(t *testing.T) {
	hub := newTestHub(t)
	hub.HandleRaw([]byte(`{"CC_MSG":{"time":"1349696911000","area_id":"SK","msg_type":"CC","to":"3649","descr":"1F42"}}`))

	rec := httptest.NewRecorder()
	hub.handleBerthSequence(rec, httptest.NewRequest("GET", "/api/berths/sequence?area=SK&berth=3647&max=5", nil))
	require.Equal(t, 200, rec.Code)

	var seq []sequenceBerth
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &seq))
	require.Len(t, seq, 3)
	assert.Equal(t, "3647", seq[0].Berth)
	assert.Equal(t, "1F42", seq[1].Descr)
	assert.Equal(t, "STATION X", seq[2].Station)

	rec = httptest.NewRecorder()
	hub.handleBerthSequence(rec, httptest.NewRequest("GET", "/api/berths/sequence?area=SK&berth=XXXX", nil))
	assert.Equal(t, 404, rec.Code)

	rec = httptest.NewRecorder()
	hub.handleBerthSequence(rec, httptest.NewRequest("GET", "/api/berths/sequence", nil))
	assert.Equal(t, 400, rec.Code)
}
