package smart

import "sync/atomic"

// Store hands the current topology graph to concurrent readers. Refreshes
// swap the graph wholesale: an in-flight reader sees either the old or the
// new graph, never a mix.
type Store struct {
	ptr atomic.Pointer[Graph]
}

func NewStore() *Store { return &Store{} }

// Replace installs a fully built graph.
func (s *Store) Replace(g *Graph) { s.ptr.Store(g) }

// Graph returns the last-known-good graph, or nil before the first load.
func (s *Store) Graph() *Graph { return s.ptr.Load() }
