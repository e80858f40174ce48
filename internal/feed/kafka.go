package feed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// KafkaSource consumes change events published as JSON on a Kafka topic.
type KafkaSource struct {
	reader *kafka.Reader
	logger *logrus.Logger
}

// NewKafkaSource creates a Source backed by a Kafka consumer group reader.
func NewKafkaSource(broker, topic, groupID string, logger *logrus.Logger) (*KafkaSource, error) {
	if broker == "" {
		return nil, fmt.Errorf("broker cannot be empty")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       topic,
		GroupID:     groupID,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
	})
	logger.Infof("Change feed reader initialized: topic=%s group_id=%s", topic, groupID)

	return &KafkaSource{reader: reader, logger: logger}, nil
}

// Next blocks until the next decodable change event arrives. Undecodable
// payloads are logged and skipped; a read error is a lost feed connection
// and is returned to the caller.
func (s *KafkaSource) Next(ctx context.Context) (*ChangeEvent, error) {
	for {
		msg, err := s.reader.ReadMessage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read change event from %s: %w", s.reader.Config().Topic, err)
		}

		var ev ChangeEvent
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			s.logger.Errorf("Undecodable change event on %s at offset %d: %v",
				s.reader.Config().Topic, msg.Offset, err)
			continue
		}
		return &ev, nil
	}
}

// Close releases the underlying reader.
func (s *KafkaSource) Close() error {
	return s.reader.Close()
}
