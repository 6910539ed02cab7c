package tdtracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/openrail/tdtracker/alert"
	"github.com/openrail/tdtracker/config"
	"github.com/openrail/tdtracker/smart"
	"github.com/openrail/tdtracker/td"
	"github.com/openrail/tdtracker/tracking"
	"github.com/openrail/tdtracker/vstp"
)

// Hub owns the shared state of one running tracker instance: the topology
// store, the occupancy map, the schedule index and the tracking engine.
// The feed transport hands it raw message payloads; queries read snapshots
// through the HTTP server.
type Hub struct {
	cfg       config.AppConfig
	store     *smart.Store
	occupancy *td.Occupancy
	schedules *vstp.Index
	engine    *tracking.Engine
	publisher alert.Publisher
	loader    *smart.Loader
	areas     map[string]bool // empty = accept all TD areas
	startedAt time.Time
}

// NewHub wires a hub from configuration. publisher may be nil; topology is
// not loaded yet, call RefreshTopology before Run.
func NewHub(cfg config.AppConfig, publisher alert.Publisher) (*Hub, error) {
	h := &Hub{
		cfg:       cfg,
		store:     smart.NewStore(),
		occupancy: td.NewOccupancy(),
		schedules: vstp.NewIndex(time.Now()),
		publisher: publisher,
		areas:     make(map[string]bool, len(cfg.Feed.TDAreas)),
		startedAt: time.Now(),
	}
	for _, a := range cfg.Feed.TDAreas {
		h.areas[a] = true
	}
	if cfg.SMART.URL != "" {
		h.loader = smart.NewLoader(cfg.SMART.URL, cfg.Feed.Username, cfg.Feed.Password)
	}

	engine, err := tracking.NewEngine(h.store, h.occupancy, h.schedules, publisher, cfg.Tracker)
	if err != nil {
		return nil, fmt.Errorf("building tracking engine: %w", err)
	}
	h.engine = engine
	return h, nil
}

// ReplaceTopology installs a pre-built graph and recompiles every window
// against it. Used at startup from cached reference data and by tests.
func (h *Hub) ReplaceTopology(g *smart.Graph) error {
	h.store.Replace(g)
	return h.engine.RecompileWindows(h.cfg.Windows)
}

// RefreshTopology fetches SMART reference data, falling back to the disk
// cache when the download fails, and swaps the graph in wholesale.
func (h *Hub) RefreshTopology(ctx context.Context) error {
	records, err := h.fetchRecords(ctx)
	if err != nil {
		return err
	}
	g, err := smart.BuildGraph(records)
	if err != nil {
		return fmt.Errorf("building topology: %w", err)
	}
	if n := g.Skipped(); n > 0 {
		log.Printf("topology build skipped %d malformed records", n)
	}
	return h.ReplaceTopology(g)
}

func (h *Hub) fetchRecords(ctx context.Context) ([]smart.StepRecord, error) {
	cachePath := h.cfg.SMART.CachePath
	maxAge := time.Duration(h.cfg.SMART.CacheExpiryDays) * 24 * time.Hour

	if h.loader == nil {
		if cachePath == "" {
			return nil, fmt.Errorf("no SMART URL and no cache path configured")
		}
		records, fetchedAt, err := smart.LoadCache(cachePath, maxAge, time.Now())
		if err != nil {
			return nil, fmt.Errorf("loading SMART cache: %w", err)
		}
		log.Printf("loaded %d SMART records from cache (fetched %s)", len(records), fetchedAt.Format(time.RFC3339))
		return records, nil
	}

	content, err := h.loader.Fetch(ctx)
	if err == nil {
		records, skipped, perr := smart.ParseRecords(content)
		if perr == nil {
			if skipped > 0 {
				log.Printf("SMART download: %d unparseable lines skipped", skipped)
			}
			if cachePath != "" {
				if cerr := smart.SaveCache(cachePath, records, time.Now()); cerr != nil {
					log.Printf("WARNING: saving SMART cache: %v", cerr)
				}
			}
			log.Printf("downloaded %d SMART records", len(records))
			return records, nil
		}
		err = perr
	}

	if cachePath == "" {
		return nil, fmt.Errorf("fetching SMART data: %w", err)
	}
	log.Printf("WARNING: SMART download failed (%v), trying cache", err)
	records, fetchedAt, cerr := smart.LoadCache(cachePath, maxAge, time.Now())
	if cerr != nil {
		return nil, fmt.Errorf("fetching SMART data: %w (cache also failed: %v)", err, cerr)
	}
	log.Printf("loaded %d SMART records from cache (fetched %s)", len(records), fetchedAt.Format(time.RFC3339))
	return records, nil
}

// HandleRaw routes one raw feed payload. The TD topic delivers JSON arrays
// of typed message envelopes; the VSTP topic delivers single schedule
// objects. Unrecognised payloads are counted and dropped, never fatal.
func (h *Hub) HandleRaw(payload []byte) {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		return
	}
	if payload[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(payload, &items); err != nil {
			log.Printf("WARNING: undecodable feed batch: %v", err)
			return
		}
		for _, item := range items {
			h.handleOne(item)
		}
		return
	}
	h.handleOne(payload)
}

func (h *Hub) handleOne(raw []byte) {
	// Schedule messages are sniffed first; their envelope keys are
	// unambiguous, while TD envelopes vary by message type.
	if sched, ok := vstp.ParseMessage(raw); ok {
		h.ApplySchedule(sched)
		return
	}
	if ev, ok := td.ParseMessage(raw); ok {
		h.ApplyEvent(ev)
	}
}

// ApplyEvent feeds one signalling event through occupancy and tracking.
// Events from areas outside the configured filter are dropped. Alert
// delivery is detached from this path; the engine queues alerts for its
// dispatcher.
func (h *Hub) ApplyEvent(ev td.Event) {
	if len(h.areas) > 0 && !h.areas[ev.Area()] {
		return
	}
	now := time.Now()
	transitions := h.occupancy.Apply(ev, now)
	h.engine.Apply(transitions, now)
}

// ApplySchedule inserts one schedule into the index.
func (h *Hub) ApplySchedule(sched vstp.Schedule) {
	if h.schedules.Insert(sched) {
		log.Printf("schedule %s (%s) indexed", sched.UID, sched.Headcode)
	}
}

// WindowTrain is the externally visible tracked-train record.
type WindowTrain = tracking.TrainSnapshot

// Snapshot copies every window's tracked trains.
func (h *Hub) Snapshot() map[string][]WindowTrain {
	return h.engine.Snapshot()
}

// Close flushes the engine's alert dispatcher. The publisher itself is
// owned by the caller.
func (h *Hub) Close() error {
	return h.engine.Close()
}

// Run drives the hub's periodic work until ctx is cancelled: tracked-train
// staleness eviction, daily schedule rollover and topology refresh.
func (h *Hub) Run(ctx context.Context) {
	staleAfter, _ := h.cfg.Tracker.StaleAfterDuration()
	if staleAfter <= 0 {
		staleAfter = 30 * time.Minute
	}
	evict := time.NewTicker(staleAfter / 2)
	defer evict.Stop()

	rollover := time.NewTicker(time.Hour)
	defer rollover.Stop()
	lastDay := time.Now().Day()

	var refreshC <-chan time.Time
	if h.cfg.SMART.RefreshHours > 0 {
		refresh := time.NewTicker(time.Duration(h.cfg.SMART.RefreshHours) * time.Hour)
		defer refresh.Stop()
		refreshC = refresh.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-evict.C:
			if n := h.engine.EvictStale(now); n > 0 {
				log.Printf("evicted %d stale trains", n)
			}
		case now := <-rollover.C:
			if now.Day() != lastDay {
				lastDay = now.Day()
				h.schedules.Rollover(now)
				log.Printf("schedule index rolled over, %d schedules remain", h.schedules.Len())
			}
		case <-refreshC:
			if err := h.RefreshTopology(ctx); err != nil {
				log.Printf("ERROR: topology refresh failed, keeping current graph: %v", err)
			}
		}
	}
}
