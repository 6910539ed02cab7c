package tdtracker

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/openrail/tdtracker/smart"
	"github.com/openrail/tdtracker/tracking"
)

type healthResponse struct {
	Status         string `json:"status"`
	TopologyLoaded bool   `json:"topology_loaded"`
	OccupiedBerths int    `json:"occupied_berths"`
	Schedules      int    `json:"schedules"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
}

func (h *Hub) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	resp := healthResponse{
		Status:         "ok",
		TopologyLoaded: h.store.Graph() != nil,
		OccupiedBerths: h.occupancy.Len(),
		Schedules:      h.schedules.Len(),
		UptimeSeconds:  int64(time.Since(h.startedAt).Seconds()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// handleOccupancy reports current berth occupancy; ?area= narrows it to one
// TD area.
func (h *Hub) handleOccupancy(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if area := r.URL.Query().Get("area"); area != "" {
		if berth := r.URL.Query().Get("berth"); berth != "" {
			entry, ok := h.occupancy.Get(smart.BerthKey{Area: area, Berth: berth})
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "berth " + area + ":" + berth + " is empty or unknown"})
				return
			}
			_ = json.NewEncoder(w).Encode(entry)
			return
		}
		_ = json.NewEncoder(w).Encode(h.occupancy.Area(area))
		return
	}
	snapshot := h.occupancy.Snapshot()
	out := make(map[string]string, len(snapshot))
	for key, entry := range snapshot {
		out[key.String()] = entry.Descr
	}
	_ = json.NewEncoder(w).Encode(out)
}

type windowResponse struct {
	Name     string                   `json:"name"`
	Total    int                      `json:"total"`
	Alerting int                      `json:"alerting"`
	Trains   []tracking.TrainSnapshot `json:"trains"`
}

func windowResponseFor(name string, trains []tracking.TrainSnapshot) windowResponse {
	resp := windowResponse{Name: name, Total: len(trains), Trains: trains}
	for _, t := range trains {
		if t.Alerted {
			resp.Alerting++
		}
	}
	return resp
}

// handleWindows lists every window with its tracked trains; ?name= selects
// one window and 404s when it does not exist.
func (h *Hub) handleWindows(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if name := r.URL.Query().Get("name"); name != "" {
		for _, known := range h.engine.WindowNames() {
			if known == name {
				_ = json.NewEncoder(w).Encode(windowResponseFor(name, h.engine.SnapshotFor(name)))
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unknown window " + name})
		return
	}

	out := make([]windowResponse, 0)
	for _, name := range h.engine.WindowNames() {
		out = append(out, windowResponseFor(name, h.engine.SnapshotFor(name)))
	}
	_ = json.NewEncoder(w).Encode(out)
}

type sequenceBerth struct {
	Area      string `json:"area"`
	Berth     string `json:"berth"`
	Stanox    string `json:"stanox,omitempty"`
	Station   string `json:"station,omitempty"`
	Platform  string `json:"platform,omitempty"`
	Descr     string `json:"descr,omitempty"` // current occupant, if any
	AtStation bool   `json:"atStation"`
}

// handleBerthSequence enumerates the topology outward from one berth:
// ?area=&berth=&dir=up|down&max=N.
func (h *Hub) handleBerthSequence(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	g := h.store.Graph()
	if g == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "topology not loaded"})
		return
	}

	q := r.URL.Query()
	start := smart.BerthKey{Area: q.Get("area"), Berth: q.Get("berth")}
	if start.Area == "" || start.Berth == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "area and berth are required"})
		return
	}
	if !g.HasBerth(start) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unknown berth " + start.String()})
		return
	}

	dir := smart.Successors
	if q.Get("dir") == "up" {
		dir = smart.Predecessors
	}
	max := 20
	if s := q.Get("max"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			max = n
		}
	}

	enumerated := g.Enumerate(start, dir, max)
	out := make([]sequenceBerth, 0, len(enumerated))
	for _, b := range enumerated {
		sb := sequenceBerth{
			Area:      b.Key.Area,
			Berth:     b.Key.Berth,
			Stanox:    b.Attr.Stanox,
			Station:   b.Attr.Name,
			Platform:  b.Attr.Platform,
			AtStation: b.AtStation,
		}
		if entry, ok := h.occupancy.Get(b.Key); ok {
			sb.Descr = entry.Descr
		}
		out = append(out, sb)
	}
	_ = json.NewEncoder(w).Encode(out)
}
