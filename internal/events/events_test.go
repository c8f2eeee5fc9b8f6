package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBusPublishSubscribe(t *testing.T) {
	bus := NewEventBus()

	var got []ConsultationEventPayload
	bus.Subscribe(EventConsultationScheduled, func(ev *Event) error {
		var p ConsultationEventPayload
		require.NoError(t, json.Unmarshal(ev.Payload, &p))
		got = append(got, p)
		return nil
	})

	payload := ConsultationEventPayload{
		ConsultationID: "c-1",
		Status:         "pending",
		Date:           "2025-06-10",
		TimeSlot:       "10:00 AM",
		Source:         SourceLocal,
	}
	require.NoError(t, bus.PublishJSON(EventConsultationScheduled, payload))

	require.Len(t, got, 1)
	assert.Equal(t, payload, got[0])
}

func TestEventBusMultipleSubscribers(t *testing.T) {
	bus := NewEventBus()

	count := 0
	for i := 0; i < 3; i++ {
		bus.Subscribe(EventConsultationCancelled, func(ev *Event) error {
			count++
			return nil
		})
	}

	require.NoError(t, bus.PublishJSON(EventConsultationCancelled, ConsultationEventPayload{ConsultationID: "x"}))
	assert.Equal(t, 3, count)
}

func TestEventBusNoSubscribers(t *testing.T) {
	bus := NewEventBus()
	assert.NoError(t, bus.PublishJSON(EventConsultationStatus, ConsultationEventPayload{}))
}

func TestEventBusNilReceiver(t *testing.T) {
	var bus *EventBus
	assert.NoError(t, bus.PublishJSON(EventConsultationScheduled, ConsultationEventPayload{}))
}

func TestPublishSetsCreatedAt(t *testing.T) {
	bus := NewEventBus()

	var seen *Event
	bus.Subscribe("x", func(ev *Event) error {
		seen = ev
		return nil
	})

	bus.Publish(&Event{Type: "x"})
	require.NotNil(t, seen)
	assert.False(t, seen.CreatedAt.IsZero())
}
