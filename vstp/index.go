package vstp

import (
	"sync"
	"time"
)

// Index holds the schedules valid for a single operating day, keyed both by
// train UID and by headcode. Headcodes are not unique; the most recently
// inserted schedule wins a headcode lookup, matching how signallers reuse
// descriptions through the day.
type Index struct {
	mu         sync.RWMutex
	day        time.Time
	byUID      map[string]Schedule
	byHeadcode map[string]Schedule
	rejected   int
}

// NewIndex creates an index covering the operating day containing today.
func NewIndex(today time.Time) *Index {
	return &Index{
		day:        dateOnly(today),
		byUID:      make(map[string]Schedule),
		byHeadcode: make(map[string]Schedule),
	}
}

// Insert stores a schedule if it is valid on the index's operating day.
// Schedules outside their validity window are counted and dropped. Returns
// whether the schedule was stored.
func (x *Index) Insert(s Schedule) bool {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !validOn(s, x.day) {
		x.rejected++
		return false
	}
	if s.InsertedAt.IsZero() {
		s.InsertedAt = time.Now()
	}
	if s.UID != "" {
		x.byUID[s.UID] = s
	}
	if s.Headcode != "" {
		x.byHeadcode[s.Headcode] = s
	}
	return true
}

// LookupByHeadcode returns the latest schedule inserted under a headcode.
func (x *Index) LookupByHeadcode(headcode string) (Schedule, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	s, ok := x.byHeadcode[headcode]
	return s, ok
}

// LookupByUID returns the schedule stored under a train UID.
func (x *Index) LookupByUID(uid string) (Schedule, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	s, ok := x.byUID[uid]
	return s, ok
}

// Rollover moves the index to a new operating day, purging schedules that
// are no longer valid on it. Called at the start of each day so stale VSTP
// entries do not mislabel reused headcodes.
func (x *Index) Rollover(today time.Time) {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.day = dateOnly(today)
	for uid, s := range x.byUID {
		if !validOn(s, x.day) {
			delete(x.byUID, uid)
		}
	}
	for hc, s := range x.byHeadcode {
		if !validOn(s, x.day) {
			delete(x.byHeadcode, hc)
		}
	}
}

// Len reports how many distinct UIDs are indexed.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.byUID)
}

// Rejected reports how many schedules were dropped as out of validity.
func (x *Index) Rejected() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.rejected
}

func validOn(s Schedule, day time.Time) bool {
	if !s.StartDate.IsZero() && day.Before(dateOnly(s.StartDate)) {
		return false
	}
	if !s.EndDate.IsZero() && day.After(dateOnly(s.EndDate)) {
		return false
	}
	return true
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
