package kafka

//go:generate go run go.uber.org/mock/mockgen -source=./kafka.go -destination=./mocks/kafka_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"roombook/config"
	"slices"
	"time"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const writeTimeout = 10 * time.Second

// Message is a keyed JSON record. Value is marshalled on send.
type Message struct {
	Key     string
	Value   any
	Headers map[string]string
}

// Encode renders m as a kafka-go record. Headers are sorted by name.
func (m *Message) Encode() (kafkaGo.Message, error) {
	value, err := json.Marshal(m.Value)
	if err != nil {
		return kafkaGo.Message{}, fmt.Errorf("failed to encode message %q: %w", m.Key, err)
	}

	out := kafkaGo.Message{
		Key:   []byte(m.Key),
		Value: value,
	}

	for _, name := range slices.Sorted(maps.Keys(m.Headers)) {
		out.Headers = append(out.Headers, kafkaGo.Header{Key: name, Value: []byte(m.Headers[name])})
	}

	return out, nil
}

type Client interface {
	SendMessages(ctx context.Context, messages ...Message) error
	Close() error
}

type producer struct {
	writer *kafkaGo.Writer
}

// New builds an async writer for the configured topic. Records with the same
// key land on the same partition, so events of one room stay ordered. It
// returns nil when Kafka is disabled.
func New(cfg *config.Config) Client {
	if !cfg.Kafka.Enable {
		log.Info().Msg("Kafka disabled, events will not be published")

		return nil
	}

	transport := &kafkaGo.Transport{}
	if cfg.Kafka.SASL.Username != "" {
		transport.SASL = plain.Mechanism{
			Username: cfg.Kafka.SASL.Username,
			Password: cfg.Kafka.SASL.Password,
		}
	}

	topic := cfg.Kafka.Topic

	writer := &kafkaGo.Writer{
		Addr:                   kafkaGo.TCP(cfg.Kafka.Brokers...),
		Topic:                  topic,
		Balancer:               &kafkaGo.Hash{},
		Transport:              transport,
		AllowAutoTopicCreation: true,
		WriteTimeout:           writeTimeout,
		Async:                  true,
		Completion: func(messages []kafkaGo.Message, err error) {
			if err != nil {
				log.Error().Err(err).Str("topic", topic).Int("count", len(messages)).Msg("Failed to deliver messages to Kafka")
			}
		},
	}

	log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", topic).Msg("Kafka client initialized")

	return &producer{writer: writer}
}

// SendMessages encodes every message before queueing any, so a bad value
// drops the whole batch.
func (p *producer) SendMessages(ctx context.Context, messages ...Message) error {
	records := make([]kafkaGo.Message, len(messages))

	for i := range messages {
		record, err := messages[i].Encode()
		if err != nil {
			return err
		}

		records[i] = record
	}

	if err := p.writer.WriteMessages(ctx, records...); err != nil {
		return fmt.Errorf("failed to queue messages for %s: %w", p.writer.Topic, err)
	}

	log.Debug().Str("topic", p.writer.Topic).Int("count", len(records)).Msg("Queued messages for Kafka")

	return nil
}

func (p *producer) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka writer: %w", err)
	}

	return nil
}
