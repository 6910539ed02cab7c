package tracking

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/openrail/tdtracker/alert"
	"github.com/openrail/tdtracker/classify"
	"github.com/openrail/tdtracker/config"
	"github.com/openrail/tdtracker/smart"
	"github.com/openrail/tdtracker/td"
	"github.com/openrail/tdtracker/vstp"
)

// Engine maintains the tracked-train set of every window. It consumes the
// occupancy transitions produced by the berth state store, diffs them
// against each window's berth set, and raises alerts on entry.
type Engine struct {
	store     *smart.Store
	occupancy *td.Occupancy
	schedules *vstp.Index
	publisher alert.Publisher

	historyCap    int
	staleAfter    time.Duration
	exitScanDepth int

	mu      sync.RWMutex
	windows []*Window
	trains  map[string]map[string]*TrackedTrain // window name -> descr -> train

	alerts chan alert.Event
	done   chan struct{}
}

// NewEngine builds an engine over the shared topology store, occupancy map
// and schedule index. publisher may be nil when no alerting is wired; when
// set, a dispatcher goroutine delivers alerts off the apply path. Call Close
// to flush it.
func NewEngine(store *smart.Store, occ *td.Occupancy, schedules *vstp.Index, publisher alert.Publisher, cfg config.TrackerConfig) (*Engine, error) {
	staleAfter, err := cfg.StaleAfterDuration()
	if err != nil {
		return nil, err
	}
	e := &Engine{
		store:         store,
		occupancy:     occ,
		schedules:     schedules,
		publisher:     publisher,
		historyCap:    cfg.HistoryCap,
		staleAfter:    staleAfter,
		exitScanDepth: cfg.ExitScanDepth,
		trains:        make(map[string]map[string]*TrackedTrain),
	}
	if publisher != nil {
		e.alerts = make(chan alert.Event, 128)
		e.done = make(chan struct{})
		go e.dispatch()
	}
	return e, nil
}

// dispatch delivers queued alerts to the publisher. Publishing happens here,
// never under the engine mutex, so a slow sink cannot stall feed processing
// or snapshot readers.
func (e *Engine) dispatch() {
	defer close(e.done)
	for ev := range e.alerts {
		if err := e.publisher.Publish(context.Background(), ev); err != nil {
			log.Printf("ERROR: publishing alert for %s in window %q: %v", ev.Description, ev.Window, err)
		}
	}
}

// Close flushes queued alerts and stops the dispatcher.
func (e *Engine) Close() error {
	if e.alerts != nil {
		close(e.alerts)
		<-e.done
	}
	return nil
}

// SetWindows replaces the compiled window set. Existing tracked trains for
// windows that survive (by name) are kept; trains of removed windows are
// dropped.
func (e *Engine) SetWindows(windows []*Window) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.windows = windows
	live := make(map[string]bool, len(windows))
	for _, w := range windows {
		live[w.Name] = true
		if e.trains[w.Name] == nil {
			e.trains[w.Name] = make(map[string]*TrackedTrain)
		}
	}
	for name := range e.trains {
		if !live[name] {
			delete(e.trains, name)
		}
	}
}

// RecompileWindows resolves window configurations against the current
// topology graph and installs them. Called after every graph refresh.
func (e *Engine) RecompileWindows(cfgs []config.WindowConfig) error {
	g := e.store.Graph()
	if g == nil {
		return smart.ErrEmptyGraph
	}
	windows := make([]*Window, 0, len(cfgs))
	for _, cfg := range cfgs {
		w, err := CompileWindow(cfg, g)
		if err != nil {
			return err
		}
		log.Printf("window %q covers %d berths", w.Name, w.Size())
		windows = append(windows, w)
	}
	e.SetWindows(windows)
	return nil
}

// Apply feeds one batch of occupancy transitions (all from a single
// signalling event) through every window. Occupations are handled before
// clears so that a step's arrival registers before its departure is judged
// for exit. Alerts raised here are queued for the dispatcher, fire-and-
// forget.
func (e *Engine) Apply(transitions []td.Transition, at time.Time) {
	if len(transitions) == 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, tr := range transitions {
		if tr.After != "" {
			e.applyOccupied(tr, at)
		}
	}
	for _, tr := range transitions {
		if tr.After == "" {
			e.applyCleared(tr, at)
		}
	}
}

func (e *Engine) applyOccupied(tr td.Transition, at time.Time) {
	for _, w := range e.windows {
		if !w.Contains(tr.Key) {
			continue
		}
		set := e.trains[w.Name]
		if t, ok := set[tr.After]; ok {
			t.moveTo(tr.Key, at)
			continue
		}
		t := newTrackedTrain(tr.After, tr.Key, at, e.historyCap)
		e.enrich(t)
		set[tr.After] = t
		log.Printf("window %q: %s entered at %s (%s)", w.Name, t.Descr, tr.Key, t.Category)
		if !t.Alerted && w.Armed(t.Category) {
			t.Alerted = true
			t.Reason = fmt.Sprintf("%s service armed in window %s", t.Category, w.Name)
			e.queueAlert(w, t)
		}
	}
}

func (e *Engine) applyCleared(tr td.Transition, at time.Time) {
	if tr.Before == "" {
		return
	}
	for _, w := range e.windows {
		if !w.Contains(tr.Key) {
			continue
		}
		t, ok := e.trains[w.Name][tr.Before]
		if !ok || t.Current != tr.Key {
			continue
		}
		if next, ok := e.followedTo(w, tr.Key, tr.Before); ok {
			t.moveTo(next, at)
			continue
		}
		delete(e.trains[w.Name], tr.Before)
		log.Printf("window %q: %s exited after %s, visited %d berths",
			w.Name, t.Descr, t.Dwell(at), len(t.BerthsVisited()))
	}
}

// followedTo scans the cleared berth's successors, up to the exit-scan
// depth, for a window berth that now holds the same description. Found
// means the clear was one half of a step the train survived.
func (e *Engine) followedTo(w *Window, from smart.BerthKey, descr string) (smart.BerthKey, bool) {
	g := e.store.Graph()
	if g == nil || e.occupancy == nil {
		return smart.BerthKey{}, false
	}
	for _, b := range g.Enumerate(from, smart.Successors, e.exitScanDepth+1) {
		if b.Key == from || !w.Contains(b.Key) {
			continue
		}
		if entry, ok := e.occupancy.Get(b.Key); ok && entry.Descr == descr {
			return b.Key, true
		}
	}
	return smart.BerthKey{}, false
}

func (e *Engine) enrich(t *TrackedTrain) {
	var sched *vstp.Schedule
	if e.schedules != nil {
		if s, ok := e.schedules.LookupByHeadcode(t.Descr); ok {
			sched = &s
			t.UID = s.UID
			t.Operator = classify.OperatorName(s.ATOCCode)
			t.HasSchedule = true
			origin, dest := vstp.OriginDestination(s)
			t.Origin = origin.Tiploc
			t.Destination = dest.Tiploc
		}
	}
	t.Category = classify.Classify(t.Descr, sched)
}

// queueAlert hands an alert to the dispatcher without blocking; a full
// queue drops the alert rather than stall the apply path.
func (e *Engine) queueAlert(w *Window, t *TrackedTrain) {
	if e.alerts == nil {
		return
	}
	ev := alert.NewEvent(w.Name, t.Descr, t.Category, t.Current, t.EnteredAt)
	ev.Reason = t.Reason
	ev.Origin = t.Origin
	ev.Destination = t.Destination
	ev.Operator = t.Operator
	select {
	case e.alerts <- ev:
	default:
		log.Printf("WARNING: alert queue full, dropping alert for %s in window %q", t.Descr, w.Name)
	}
}

// EvictStale drops trains that received no update within the staleness
// bound and returns how many were removed.
func (e *Engine) EvictStale(now time.Time) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	evicted := 0
	for name, set := range e.trains {
		for descr, t := range set {
			if now.Sub(t.UpdatedAt) > e.staleAfter {
				delete(set, descr)
				evicted++
				log.Printf("window %q: evicting %s, silent since %s", name, descr, t.UpdatedAt.Format(time.RFC3339))
			}
		}
	}
	return evicted
}

// TrainSnapshot is the externally visible copy of a tracked train.
type TrainSnapshot struct {
	Descr         string            `json:"descr"`
	Window        string            `json:"window"`
	Berth         smart.BerthKey    `json:"berth"`
	BerthsVisited []smart.BerthKey  `json:"berthsVisited"`
	Category      classify.Category `json:"category"`
	UID           string            `json:"uid,omitempty"`
	Origin        string            `json:"origin,omitempty"`
	Destination   string            `json:"destination,omitempty"`
	Operator      string            `json:"operator,omitempty"`
	HasSchedule   bool              `json:"hasSchedule"`
	Alerted       bool              `json:"alerted"`
	Reason        string            `json:"reason,omitempty"`
	EnteredAt     time.Time         `json:"enteredAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// SnapshotFor copies the live train set of one window. Unknown window names
// yield an empty slice.
func (e *Engine) SnapshotFor(window string) []TrainSnapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	set := e.trains[window]
	out := make([]TrainSnapshot, 0, len(set))
	for _, t := range set {
		out = append(out, snapshotOf(window, t))
	}
	return out
}

// Snapshot copies the live train sets of every window.
func (e *Engine) Snapshot() map[string][]TrainSnapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make(map[string][]TrainSnapshot, len(e.trains))
	for name, set := range e.trains {
		trains := make([]TrainSnapshot, 0, len(set))
		for _, t := range set {
			trains = append(trains, snapshotOf(name, t))
		}
		out[name] = trains
	}
	return out
}

// WindowNames lists the compiled windows.
func (e *Engine) WindowNames() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.windows))
	for _, w := range e.windows {
		names = append(names, w.Name)
	}
	return names
}

func snapshotOf(window string, t *TrackedTrain) TrainSnapshot {
	return TrainSnapshot{
		Descr:         t.Descr,
		Window:        window,
		Berth:         t.Current,
		BerthsVisited: t.BerthsVisited(),
		Category:      t.Category,
		UID:           t.UID,
		Origin:        t.Origin,
		Destination:   t.Destination,
		Operator:      t.Operator,
		HasSchedule:   t.HasSchedule,
		Alerted:       t.Alerted,
		Reason:        t.Reason,
		EnteredAt:     t.EnteredAt,
		UpdatedAt:     t.UpdatedAt,
	}
}
