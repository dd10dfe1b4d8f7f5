package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	KindClientRegistered    = "client.registered"
	KindClientUpdated       = "client.updated"
	KindClientRemoved       = "client.removed"
	KindAccountOpened       = "account.opened"
	KindAccountClosed       = "account.closed"
	KindTransactionRecorded = "transaction.recorded"

	// DefaultStream is the Redis stream bank events are appended to.
	DefaultStream = "bank.events"
)

// Message describes a notification payload.
type Message struct {
	Kind        string            `json:"kind"`
	Destination string            `json:"destination"`
	Body        string            `json:"body"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

// Notifier delivers notifications to downstream systems.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier writes notifications to the structured logger.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger.
func (n *LoggerNotifier) Send(_ context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("notification", "kind", message.Kind, "destination", message.Destination, "body", message.Body)
	return nil
}

// StreamNotifier appends each message to a Redis stream.
type StreamNotifier struct {
	client *redis.Client
	stream string
	maxLen int64
}

// NewStreamNotifier builds a notifier publishing to stream, trimmed to roughly maxLen entries
// (zero keeps everything).
func NewStreamNotifier(client *redis.Client, stream string, maxLen int64) *StreamNotifier {
	if stream == "" {
		stream = DefaultStream
	}
	return &StreamNotifier{client: client, stream: stream, maxLen: maxLen}
}

type streamEvent struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      Message   `json:"data"`
}

// Send publishes the message with XADD.
func (n *StreamNotifier) Send(ctx context.Context, message Message) error {
	payload, err := json.Marshal(streamEvent{Type: message.Kind, Timestamp: time.Now().UTC(), Data: message})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	args := &redis.XAddArgs{
		Stream: n.stream,
		Values: map[string]any{"event": payload},
	}
	if n.maxLen > 0 {
		args.MaxLen = n.maxLen
		args.Approx = true
	}
	if err := n.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Fanout sends every message to each notifier in turn and returns the first error.
type Fanout []Notifier

// Send delivers to all notifiers even when one of them fails.
func (f Fanout) Send(ctx context.Context, message Message) error {
	var first error
	for _, n := range f {
		if n == nil {
			continue
		}
		if err := n.Send(ctx, message); err != nil && first == nil {
			first = err
		}
	}
	return first
}
