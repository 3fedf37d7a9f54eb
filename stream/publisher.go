package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"
)

// RoundSettledMessage is the wire shape published when a round settles.
// Downstream consumers (notification senders, archival jobs) key off the
// round id, so each round's messages land on one partition in order.
type RoundSettledMessage struct {
	RoundID        int64 `json:"roundId"`
	EntriesSettled int   `json:"entriesSettled"`
	SettledAtMs    int64 `json:"settledAtMs"`
}

// Publisher writes settlement events to a kafka topic
type Publisher struct {
	writer *kafka.Writer
}

// NewWriter builds a kafka writer for the given brokers and topic
func NewWriter(brokers string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
}

// NewPublisher wraps an existing writer
func NewPublisher(w *kafka.Writer) *Publisher {
	return &Publisher{writer: w}
}

// PublishRoundSettled emits one message for a settled round
func (p *Publisher) PublishRoundSettled(ctx context.Context, roundID int64, entriesSettled int, settledAt time.Time) error {
	msg := RoundSettledMessage{
		RoundID:        roundID,
		EntriesSettled: entriesSettled,
		SettledAtMs:    settledAt.UnixMilli(),
	}

	b, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal round settled message: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(roundID, 10)),
		Value: b,
		Time:  settledAt,
	})
	if err != nil {
		return fmt.Errorf("failed to publish round settled message: %w", err)
	}

	log.WithFields(log.Fields{
		"roundID":        roundID,
		"entriesSettled": entriesSettled,
	}).Info("Published round settled message")

	return nil
}

// Close flushes and closes the underlying writer
func (p *Publisher) Close() error {
	return p.writer.Close()
}
