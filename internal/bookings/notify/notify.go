// Package notify publishes committed booking changes to the event bus.
package notify

import (
	"context"
	"fmt"

	"camrent/pkg/kafka"
	"camrent/pkg/model"
)

const (
	Source        = "camrent-bookings"
	SchemaVersion = "1"
)

type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// KafkaNotifier turns booking events into messages keyed by booking id, so
// a consumer sees each booking's events in commit order.
type KafkaNotifier struct {
	publisher Publisher
}

func NewKafkaNotifier(publisher Publisher) *KafkaNotifier {
	return &KafkaNotifier{publisher: publisher}
}

func (n *KafkaNotifier) Notify(ctx context.Context, event model.BookingEvent) error {
	msg, err := NewEventMessage(event)
	if err != nil {
		return err
	}
	if err := n.publisher.Publish(ctx, msg); err != nil {
		return fmt.Errorf("notify %s for booking %s: %w", event.Type, event.BookingID, err)
	}
	return nil
}

func NewEventMessage(event model.BookingEvent) (kafka.Message, error) {
	if event.BookingID == "" {
		return kafka.Message{}, fmt.Errorf("%w: event %s has no booking id", kafka.ErrInvalidMessage, event.Type)
	}
	return kafka.NewMessage().
		WithKey(event.BookingID).
		WithEventID("").
		WithEventType(string(event.Type)).
		WithSource(Source).
		WithSchemaVersion(SchemaVersion).
		WithTimestamp(event.OccurredAt).
		WithValue(event).
		Build()
}

// Nop drops every event. Used when notifications are disabled.
type Nop struct{}

func (Nop) Notify(context.Context, model.BookingEvent) error { return nil }
