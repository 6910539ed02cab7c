package tracking

import (
	"fmt"

	"github.com/openrail/tdtracker/classify"
	"github.com/openrail/tdtracker/config"
	"github.com/openrail/tdtracker/smart"
)

// Window is a compiled monitored area: the berth set derived from its
// configuration plus the alert categories it is armed for. Recompiled when
// the topology graph is refreshed or the configuration changes, never
// mutated in place.
type Window struct {
	Name       string
	categories map[classify.Category]bool
	berths     map[smart.BerthKey]bool
}

// CompileWindow resolves a window configuration against a topology graph.
// A center station yields the berths within the configured station range;
// TD areas contribute every berth of the area. Both may be combined.
func CompileWindow(cfg config.WindowConfig, g *smart.Graph) (*Window, error) {
	w := &Window{
		Name:       cfg.Name,
		categories: make(map[classify.Category]bool, len(cfg.AlertCategories)),
		berths:     make(map[smart.BerthKey]bool),
	}
	for _, c := range cfg.AlertCategories {
		w.categories[classify.Category(c)] = true
	}

	if cfg.CenterSTANOX != "" {
		keys, err := g.BerthsAroundStation(cfg.CenterSTANOX, cfg.BerthRange)
		if err != nil {
			return nil, fmt.Errorf("compiling window %q: %w", cfg.Name, err)
		}
		for _, k := range keys {
			w.berths[k] = true
		}
	}
	for _, k := range g.AreaBerths(cfg.TDAreas) {
		w.berths[k] = true
	}
	if len(w.berths) == 0 {
		return nil, fmt.Errorf("compiling window %q: no berths resolved", cfg.Name)
	}
	return w, nil
}

// Contains reports whether a berth belongs to the window.
func (w *Window) Contains(k smart.BerthKey) bool {
	return w.berths[k]
}

// Size is the number of berths the window covers.
func (w *Window) Size() int {
	return len(w.berths)
}

// Armed reports whether the window alerts on the given category.
func (w *Window) Armed(c classify.Category) bool {
	return w.categories[c]
}
