package tracking

import (
	"time"

	"github.com/openrail/tdtracker/classify"
	"github.com/openrail/tdtracker/smart"
)

// TrackedTrain is the live record of one train inside one window. Schedule
// enrichment and classification happen once, at entry; moves only update
// position and history.
type TrackedTrain struct {
	Descr       string
	Current     smart.BerthKey
	EnteredAt   time.Time
	UpdatedAt   time.Time
	Category    classify.Category
	UID         string
	Origin      string
	Destination string
	Operator    string
	HasSchedule bool
	Alerted     bool
	Reason      string // why the alert fired; empty when Alerted is false

	history *berthRing
}

func newTrackedTrain(descr string, berth smart.BerthKey, at time.Time, historyCap int) *TrackedTrain {
	t := &TrackedTrain{
		Descr:     descr,
		Current:   berth,
		EnteredAt: at,
		UpdatedAt: at,
		history:   newBerthRing(historyCap),
	}
	t.history.push(berth)
	return t
}

func (t *TrackedTrain) moveTo(berth smart.BerthKey, at time.Time) {
	if berth != t.Current {
		t.Current = berth
		t.history.push(berth)
	}
	t.UpdatedAt = at
}

// BerthsVisited returns the retained visit history, oldest first.
func (t *TrackedTrain) BerthsVisited() []smart.BerthKey {
	return t.history.slice()
}

// Dwell is the time the train has spent in the window so far.
func (t *TrackedTrain) Dwell(now time.Time) time.Duration {
	return now.Sub(t.EnteredAt)
}

// berthRing is a fixed-capacity visit history; once full, the oldest entry
// is overwritten.
type berthRing struct {
	buf   []smart.BerthKey
	start int
	n     int
}

func newBerthRing(capacity int) *berthRing {
	if capacity <= 0 {
		capacity = 1
	}
	return &berthRing{buf: make([]smart.BerthKey, capacity)}
}

func (r *berthRing) push(k smart.BerthKey) {
	if r.n < len(r.buf) {
		r.buf[(r.start+r.n)%len(r.buf)] = k
		r.n++
		return
	}
	r.buf[r.start] = k
	r.start = (r.start + 1) % len(r.buf)
}

func (r *berthRing) slice() []smart.BerthKey {
	out := make([]smart.BerthKey, r.n)
	for i := 0; i < r.n; i++ {
		out[i] = r.buf[(r.start+i)%len(r.buf)]
	}
	return out
}
