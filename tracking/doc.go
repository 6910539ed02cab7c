// Package tracking is the orchestrator: it compiles window configurations
// into berth sets against the topology graph, consumes occupancy
// transitions, maintains per-window tracked-train records enriched from the
// schedule index, and raises alerts when matching trains enter a window.
package tracking
