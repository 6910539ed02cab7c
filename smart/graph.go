package smart

import (
	"errors"
	"strings"
)

// ErrEmptyGraph is returned when no valid reference record survives a build.
// Callers must defer window membership computation until a valid graph exists.
var ErrEmptyGraph = errors.New("smart: no valid berth records")

// Graph is the static berth topology built from SMART reference data. It is
// immutable after construction; refreshes replace the whole graph through a
// Store.
type Graph struct {
	succ map[BerthKey][]Link
	pred map[BerthKey][]Link
	attr map[BerthKey]Attribution

	stationBerths map[string][]BerthKey // stanox -> berths, record order
	stationNames  map[string]string     // stanox -> STANME

	skipped int
}

// BuildGraph constructs the topology from raw step records. Malformed records
// are skipped and counted, never aborting the load; the only failure is an
// entirely empty result.
func BuildGraph(records []StepRecord) (*Graph, error) {
	g := &Graph{
		succ:          map[BerthKey][]Link{},
		pred:          map[BerthKey][]Link{},
		attr:          map[BerthKey]Attribution{},
		stationBerths: map[string][]BerthKey{},
		stationNames:  map[string]string{},
	}
	seenStationBerth := map[string]struct{}{}

	for _, raw := range records {
		rec := trimRecord(raw)
		if rec.TDArea == "" || (rec.FromBerth == "" && rec.ToBerth == "") {
			g.skipped++
			continue
		}

		if rec.FromBerth != "" && rec.ToBerth != "" {
			from := BerthKey{Area: rec.TDArea, Berth: rec.FromBerth}
			to := BerthKey{Area: rec.TDArea, Berth: rec.ToBerth}
			g.succ[from] = append(g.succ[from], Link{To: to, Line: rec.ToLine, StepType: rec.StepType})
			g.pred[to] = append(g.pred[to], Link{To: from, Line: rec.FromLine, StepType: rec.StepType})
		}

		if rec.Stanox == "" {
			continue
		}
		if rec.Stanme != "" {
			g.stationNames[rec.Stanox] = rec.Stanme
		}
		for _, berth := range []string{rec.FromBerth, rec.ToBerth} {
			if berth == "" {
				continue
			}
			key := BerthKey{Area: rec.TDArea, Berth: berth}
			if _, ok := g.attr[key]; !ok {
				g.attr[key] = Attribution{Stanox: rec.Stanox, Name: rec.Stanme, Platform: rec.Platform}
			}
			dedup := rec.Stanox + "|" + key.String()
			if _, ok := seenStationBerth[dedup]; !ok {
				seenStationBerth[dedup] = struct{}{}
				g.stationBerths[rec.Stanox] = append(g.stationBerths[rec.Stanox], key)
			}
		}
	}

	if len(g.succ) == 0 && len(g.pred) == 0 && len(g.attr) == 0 {
		return nil, ErrEmptyGraph
	}
	return g, nil
}

func trimRecord(r StepRecord) StepRecord {
	return StepRecord{
		TDArea:    strings.TrimSpace(r.TDArea),
		FromBerth: strings.TrimSpace(r.FromBerth),
		ToBerth:   strings.TrimSpace(r.ToBerth),
		FromLine:  strings.TrimSpace(r.FromLine),
		ToLine:    strings.TrimSpace(r.ToLine),
		Stanox:    strings.TrimSpace(r.Stanox),
		Stanme:    strings.TrimSpace(r.Stanme),
		Platform:  strings.TrimSpace(r.Platform),
		Event:     strings.TrimSpace(r.Event),
		StepType:  strings.TrimSpace(r.StepType),
	}
}

// Skipped reports how many malformed records the build dropped.
func (g *Graph) Skipped() int { return g.skipped }

// Successors returns the down-line edges leaving a berth, in reference data
// order.
func (g *Graph) Successors(key BerthKey) []Link { return g.succ[key] }

// Predecessors returns the up-line edges entering a berth, in reference data
// order.
func (g *Graph) Predecessors(key BerthKey) []Link { return g.pred[key] }

// Attribution returns the station attribution for a berth, if any.
func (g *Graph) Attribution(key BerthKey) (Attribution, bool) {
	a, ok := g.attr[key]
	return a, ok
}

// HasBerth reports whether the berth appears anywhere in the topology.
func (g *Graph) HasBerth(key BerthKey) bool {
	if _, ok := g.attr[key]; ok {
		return true
	}
	if _, ok := g.succ[key]; ok {
		return true
	}
	_, ok := g.pred[key]
	return ok
}

// StationBerths returns all berths attributed to a STANOX, in record order.
func (g *Graph) StationBerths(stanox string) []BerthKey { return g.stationBerths[stanox] }

// StationName returns the STANME recorded for a STANOX.
func (g *Graph) StationName(stanox string) string { return g.stationNames[stanox] }

func (g *Graph) links(key BerthKey, dir Direction) []Link {
	if dir == Predecessors {
		return g.pred[key]
	}
	return g.succ[key]
}

// Enumerate walks the topology breadth-first from start following the given
// direction, returning up to max berths annotated with station attribution.
// Each berth is emitted at most once, so enumeration terminates on cyclic
// topology (loop lines) within the requested count. Edges are visited in
// reference data order, which fixes which of several parallel lines is
// reported first.
func (g *Graph) Enumerate(start BerthKey, dir Direction, max int) []EnumeratedBerth {
	if max <= 0 {
		return nil
	}
	out := make([]EnumeratedBerth, 0, max)
	visited := map[BerthKey]struct{}{start: {}}
	queue := []BerthKey{start}

	for len(queue) > 0 && len(out) < max {
		key := queue[0]
		queue = queue[1:]

		attr, ok := g.Attribution(key)
		out = append(out, EnumeratedBerth{Key: key, Attr: attr, AtStation: ok})

		for _, link := range g.links(key, dir) {
			if _, seen := visited[link.To]; seen {
				continue
			}
			visited[link.To] = struct{}{}
			queue = append(queue, link.To)
		}
	}
	return out
}

// BerthsAroundStation collects every berth within stationRange stations of
// the center STANOX: the center station's own berths plus all berths reached
// walking outward (both directions, treated as unordered adjacent sets) until
// that many distinct foreign stations have been crossed. Between-station
// berths along the way are included, and the walk past the last in-range
// station keeps sweeping unattributed corridor berths until it reaches the
// next attributed one — so trailing gap berths beyond the range boundary are
// part of the result.
func (g *Graph) BerthsAroundStation(stanox string, stationRange int) ([]BerthKey, error) {
	center := g.stationBerths[stanox]
	if len(center) == 0 {
		return nil, errors.New("smart: no berths for stanox " + stanox)
	}

	type frontier struct {
		key     BerthKey
		crossed int    // distinct foreign stations on this path
		last    string // stanox of the last foreign station crossed
	}

	visited := map[BerthKey]struct{}{}
	var out []BerthKey
	var queue []frontier

	for _, key := range center {
		visited[key] = struct{}{}
		out = append(out, key)
		queue = append(queue, frontier{key: key})
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		neighbours := append([]Link{}, g.succ[cur.key]...)
		neighbours = append(neighbours, g.pred[cur.key]...)
		for _, link := range neighbours {
			if _, seen := visited[link.To]; seen {
				continue
			}

			crossed, last := cur.crossed, cur.last
			attr, attributed := g.Attribution(link.To)
			if attributed && attr.Stanox != stanox && attr.Stanox != last {
				crossed++
				last = attr.Stanox
			}
			// Past the range limit, only berths of the boundary station
			// itself are still swept; anything beyond it stops here.
			if crossed > stationRange {
				continue
			}
			if crossed == stationRange && stationRange > 0 && (!attributed || attr.Stanox != last) {
				continue
			}

			visited[link.To] = struct{}{}
			out = append(out, link.To)
			queue = append(queue, frontier{key: link.To, crossed: crossed, last: last})
		}
	}
	return out, nil
}

// AreaBerths returns every berth in the topology belonging to one of the
// given TD areas.
func (g *Graph) AreaBerths(areas []string) []BerthKey {
	want := map[string]struct{}{}
	for _, a := range areas {
		want[strings.TrimSpace(a)] = struct{}{}
	}
	seen := map[BerthKey]struct{}{}
	var out []BerthKey
	collect := func(key BerthKey) {
		if _, in := want[key.Area]; !in {
			return
		}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	for key := range g.succ {
		collect(key)
	}
	for key := range g.pred {
		collect(key)
	}
	for key := range g.attr {
		collect(key)
	}
	return out
}

// PlatformMapping returns berth → platform for one TD area, derived from
// attributed records that carry a platform label.
func (g *Graph) PlatformMapping(area string) map[string]string {
	mapping := map[string]string{}
	for key, attr := range g.attr {
		if key.Area == area && attr.Platform != "" {
			mapping[key.Berth] = attr.Platform
		}
	}
	return mapping
}
