package events

//go:generate go run go.uber.org/mock/mockgen -source=./events.go -destination=./mocks/events_mock.go -package=mocks

import (
	"context"
	"roombook/infras/kafka"
	"roombook/infras/otel"
	"roombook/shared/constant"
	"time"

	"github.com/rs/zerolog/log"
)

type Type string

const headerEventType = "event-type"

const (
	BookingCreated          Type = "booking.created"
	BookingUpdated          Type = "booking.updated"
	BookingDeleted          Type = "booking.deleted"
	BookingExpired          Type = "booking.expired"
	RoomAvailabilityChanged Type = "room.availability_changed"
)

// Event is a fact about a room or one of its bookings. Key is the room id.
type Event struct {
	Type       Type      `json:"type"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload,omitempty"`
}

// Publisher hands events to the broker. Delivery failures are logged and never
// reach the caller.
type Publisher interface {
	Publish(ctx context.Context, batch ...Event)
}

// New returns a Kafka publisher, or one that drops everything when client is nil.
func New(client kafka.Client, otel otel.Otel) Publisher {
	if client == nil {
		return NewNoop()
	}

	return &kafkaPublisher{
		client: client,
		otel:   otel,
	}
}

type kafkaPublisher struct {
	client kafka.Client
	otel   otel.Otel
}

func (p *kafkaPublisher) Publish(ctx context.Context, batch ...Event) {
	if len(batch) == 0 {
		return
	}

	ctx, scope := p.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Publish")
	defer scope.End()

	messages := make([]kafka.Message, len(batch))
	for i, event := range batch {
		messages[i] = kafka.Message{
			Key:     event.Key,
			Value:   event,
			Headers: map[string]string{headerEventType: string(event.Type)},
		}
	}

	if err := p.client.SendMessages(context.WithoutCancel(ctx), messages...); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("type", string(batch[0].Type)).Int("count", len(batch)).Msg("failed to publish events")
	}
}

type noopPublisher struct{}

func NewNoop() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, ...Event) {}
