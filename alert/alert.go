package alert

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/openrail/tdtracker/classify"
	"github.com/openrail/tdtracker/smart"
)

// Event is one alert raised when a train matching a window's enabled
// categories enters the window.
type Event struct {
	ID          string            `json:"id"`
	Window      string            `json:"window"`
	Description string            `json:"description"` // headcode
	Category    classify.Category `json:"category"`
	Reason      string            `json:"reason"`
	Berth       smart.BerthKey    `json:"berth"`
	Origin      string            `json:"origin,omitempty"`
	Destination string            `json:"destination,omitempty"`
	Operator    string            `json:"operator,omitempty"`
	EnteredAt   time.Time         `json:"enteredAt"`
}

// NewEvent stamps an alert with a fresh ID.
func NewEvent(window, descr string, category classify.Category, berth smart.BerthKey, enteredAt time.Time) Event {
	return Event{
		ID:          uuid.NewString(),
		Window:      window,
		Description: descr,
		Category:    category,
		Berth:       berth,
		EnteredAt:   enteredAt,
	}
}

// Publisher delivers alert events somewhere downstream.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}
