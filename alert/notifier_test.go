package alert

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openrail/tdtracker/classify"
	"github.com/openrail/tdtracker/smart"
)

func TestNotifierDelivers(t *testing.T) {
	n := NewNotifier(4)
	defer n.Close()

	ev := NewEvent("huyton", "6M94", classify.Freight,
		smart.BerthKey{Area: "WA", Berth: "0110"}, time.Now())
	require.NoError(t, n.Publish(context.Background(), ev))

	select {
	case got := <-n.Events():
		assert.Equal(t, ev.ID, got.ID)
		assert.Equal(t, classify.Freight, got.Category)
		assert.NotEmpty(t, got.ID)
	case <-time.After(time.Second):
		t.Fatal("no alert delivered")
	}
}

func TestNotifierFullBufferDropsWithoutBlocking(t *testing.T) {
	n := NewNotifier(1)
	defer n.Close()

	ctx := context.Background()
	require.NoError(t, n.Publish(ctx, Event{ID: "a"}))

	done := make(chan struct{})
	go func() {
		_ = n.Publish(ctx, Event{ID: "b"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full buffer")
	}

	got := <-n.Events()
	assert.Equal(t, "a", got.ID)
}

func TestNotifierPublishAfterClose(t *testing.T) {
	n := NewNotifier(1)
	require.NoError(t, n.Close())
	assert.NoError(t, n.Publish(context.Background(), Event{ID: "x"}))
	require.NoError(t, n.Close()) // idempotent
}

func TestFanout(t *testing.T) {
	a, b := NewNotifier(1), NewNotifier(1)
	f := Fanout{a, b}
	require.NoError(t, f.Publish(context.Background(), Event{ID: "x"}))
	assert.Equal(t, "x", (<-a.Events()).ID)
	assert.Equal(t, "x", (<-b.Events()).ID)
	require.NoError(t, f.Close())
}
