package kafka

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// TripEventHandler processes a decoded trip lifecycle event.
type TripEventHandler func(ctx context.Context, event TripEvent) error

type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, groupID, topic string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// ConsumeTripEvents reads trip events until ctx is cancelled or the handler
// fails. Messages that do not decode as a TripEvent are logged and skipped.
func (c *Consumer) ConsumeTripEvents(ctx context.Context, handler TripEventHandler) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		var event TripEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Printf("skip malformed trip event at offset %d: %v", msg.Offset, err)
			continue
		}

		if err := handler(ctx, event); err != nil {
			return err
		}
	}
}
