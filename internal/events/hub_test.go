package events

import (
	"context"
	"testing"
)

func TestPublishReachesSubscribers(t *testing.T) {
	hub := NewHub()

	var got []Event
	hub.Subscribe(TopicRotationComplete, func(_ context.Context, ev Event) {
		got = append(got, ev)
	})

	hub.Publish(context.Background(), TopicRotationComplete, map[string]any{"interface": "wlan0"}, nil)
	hub.Publish(context.Background(), TopicRotationFailed, nil, nil)

	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	if got[0].Topic != TopicRotationComplete {
		t.Fatalf("unexpected topic %q", got[0].Topic)
	}
	payload := got[0].Payload.(map[string]any)
	if payload["interface"] != "wlan0" {
		t.Fatalf("unexpected payload %v", payload)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub()

	count := 0
	cancel := hub.Subscribe(TopicConfigUpdated, func(_ context.Context, ev Event) {
		count++
	})

	hub.Publish(context.Background(), TopicConfigUpdated, nil, nil)
	cancel()
	hub.Publish(context.Background(), TopicConfigUpdated, nil, nil)

	if count != 1 {
		t.Fatalf("expected exactly one delivery, got %d", count)
	}
}
