package alert

import (
	"context"
	"log"
	"sync"
)

// Notifier is an in-process Publisher backed by a buffered channel. Readers
// range over Events; a full buffer drops the alert rather than stall the
// tracking path.
type Notifier struct {
	ch     chan Event
	mu     sync.Mutex
	closed bool
}

func NewNotifier(buffer int) *Notifier {
	if buffer <= 0 {
		buffer = 64
	}
	return &Notifier{ch: make(chan Event, buffer)}
}

// Events is the stream of published alerts. Closed by Close.
func (n *Notifier) Events() <-chan Event {
	return n.ch
}

func (n *Notifier) Publish(ctx context.Context, ev Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return nil
	}
	select {
	case n.ch <- ev:
	default:
		log.Printf("WARNING: alert buffer full, dropping alert %s for %s in window %s", ev.ID, ev.Description, ev.Window)
	}
	return nil
}

func (n *Notifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.closed {
		n.closed = true
		close(n.ch)
	}
	return nil
}

// Fanout publishes each event to every publisher in turn, logging failures
// instead of aborting the chain.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, ev Event) error {
	for _, p := range f {
		if err := p.Publish(ctx, ev); err != nil {
			log.Printf("ERROR: publishing alert %s: %v", ev.ID, err)
		}
	}
	return nil
}

func (f Fanout) Close() error {
	var firstErr error
	for _, p := range f {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
