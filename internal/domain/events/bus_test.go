package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case evt, ok := <-ch:
		require.True(t, ok, "channel closed")
		return evt
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestPublishFansOut(t *testing.T) {
	bus := NewBus(nil)

	a, cancelA := bus.Subscribe()
	defer cancelA()
	b, cancelB := bus.Subscribe()
	defer cancelB()

	bus.Publish(WindowMaximizeChanged, true)

	for _, ch := range []<-chan Event{a, b} {
		evt := receive(t, ch)
		assert.Equal(t, WindowMaximizeChanged, evt.Name)
		assert.Equal(t, true, evt.Payload)
		assert.NotZero(t, evt.Timestamp)
	}
}

func TestCancelUnsubscribes(t *testing.T) {
	bus := NewBus(nil)

	ch, cancel := bus.Subscribe()
	assert.Equal(t, 1, bus.Subscribers())

	cancel()
	cancel()

	assert.Equal(t, 0, bus.Subscribers())
	_, ok := <-ch
	assert.False(t, ok)

	// Publishing with no subscribers is fine.
	bus.Publish(WindowMaximizeChanged, false)
}

func TestSlowSubscriberDoesNotBlockPublisher(t *testing.T) {
	bus := NewBus(nil)
	_, cancel := bus.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < defaultBuffer*4; i++ {
			bus.Publish(WindowMaximizeChanged, i%2 == 0)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publisher blocked on a full subscriber")
	}
}
