package td

import (
	"time"

	"github.com/openrail/tdtracker/smart"
)

// Event is one decoded Train Describer C-class message. The concrete types
// are Step, Interpose, Cancel and Heartbeat.
type Event interface {
	Area() string
	At() time.Time
}

// Step moves a train description from one berth to another.
type Step struct {
	TDArea string
	From   string
	To     string
	Descr  string
	Time   time.Time
}

// Interpose inserts a train description into a berth, both for genuine new
// detections and for re-establishing state after a gap.
type Interpose struct {
	TDArea string
	To     string
	Descr  string
	Time   time.Time
}

// Cancel removes whatever occupies a berth.
type Cancel struct {
	TDArea string
	From   string
	Descr  string
	Time   time.Time
}

// Heartbeat is a liveness signal; it never changes occupancy.
type Heartbeat struct {
	TDArea string
	Time   time.Time
}

func (e Step) Area() string      { return e.TDArea }
func (e Step) At() time.Time     { return e.Time }
func (e Interpose) Area() string { return e.TDArea }
func (e Interpose) At() time.Time { return e.Time }
func (e Cancel) Area() string    { return e.TDArea }
func (e Cancel) At() time.Time   { return e.Time }
func (e Heartbeat) Area() string { return e.TDArea }
func (e Heartbeat) At() time.Time { return e.Time }

// FromKey returns the berth a Step vacates.
func (e Step) FromKey() smart.BerthKey { return smart.BerthKey{Area: e.TDArea, Berth: e.From} }

// ToKey returns the berth a Step occupies.
func (e Step) ToKey() smart.BerthKey { return smart.BerthKey{Area: e.TDArea, Berth: e.To} }

// ToKey returns the berth an Interpose occupies.
func (e Interpose) ToKey() smart.BerthKey { return smart.BerthKey{Area: e.TDArea, Berth: e.To} }

// FromKey returns the berth a Cancel empties.
func (e Cancel) FromKey() smart.BerthKey { return smart.BerthKey{Area: e.TDArea, Berth: e.From} }
