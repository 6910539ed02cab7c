package td

import (
	"sync"
	"time"

	"github.com/openrail/tdtracker/smart"
)

// BerthEntry is the current occupant of a berth.
type BerthEntry struct {
	Descr     string
	UpdatedAt time.Time
}

// Transition records one berth changing state, in the order the applied
// event caused it. Before is empty when the berth was unoccupied.
type Transition struct {
	Key    smart.BerthKey
	Before string
	After  string
	At     time.Time
}

// Occupancy maps berths to their current train description. Writes are
// last-write-wins per berth: the feed is authoritative and duplicate or late
// events simply overwrite. Absence of a key means empty.
type Occupancy struct {
	mu     sync.RWMutex
	berths map[smart.BerthKey]BerthEntry
}

func NewOccupancy() *Occupancy {
	return &Occupancy{berths: map[smart.BerthKey]BerthEntry{}}
}

// Apply mutates occupancy for one event and returns the berth transitions it
// caused, vacated berth first. Heartbeats return nothing.
func (o *Occupancy) Apply(ev Event, receivedAt time.Time) []Transition {
	at := ev.At()
	if at.IsZero() {
		at = receivedAt
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	switch e := ev.(type) {
	case Step:
		out := make([]Transition, 0, 2)
		out = append(out, o.clear(e.FromKey(), at))
		out = append(out, o.set(e.ToKey(), e.Descr, at))
		return out
	case Interpose:
		return []Transition{o.set(e.ToKey(), e.Descr, at)}
	case Cancel:
		return []Transition{o.clear(e.FromKey(), at)}
	default:
		return nil
	}
}

func (o *Occupancy) set(key smart.BerthKey, descr string, at time.Time) Transition {
	before := o.berths[key].Descr
	o.berths[key] = BerthEntry{Descr: descr, UpdatedAt: at}
	return Transition{Key: key, Before: before, After: descr, At: at}
}

func (o *Occupancy) clear(key smart.BerthKey, at time.Time) Transition {
	before := o.berths[key].Descr
	delete(o.berths, key)
	return Transition{Key: key, Before: before, After: "", At: at}
}

// Get returns the current occupant of a berth.
func (o *Occupancy) Get(key smart.BerthKey) (BerthEntry, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	e, ok := o.berths[key]
	return e, ok
}

// Area returns a copy of all occupied berths in one TD area, keyed by berth ID.
func (o *Occupancy) Area(area string) map[string]BerthEntry {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := map[string]BerthEntry{}
	for key, entry := range o.berths {
		if key.Area == area {
			out[key.Berth] = entry
		}
	}
	return out
}

// Snapshot returns a copy of the whole occupancy map.
func (o *Occupancy) Snapshot() map[smart.BerthKey]BerthEntry {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make(map[smart.BerthKey]BerthEntry, len(o.berths))
	for key, entry := range o.berths {
		out[key] = entry
	}
	return out
}

// Len reports how many berths are currently occupied.
func (o *Occupancy) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.berths)
}
