package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// StreamWriter is the subset of the redis client used by StreamPublisher.
type StreamWriter interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// StreamPublisher forwards events to a Redis stream so the persistence and
// notification stages can consume assignments out of process.
type StreamPublisher struct {
	client StreamWriter
	stream string
	maxLen int64
	logger *zap.Logger
}

// NewStreamPublisher builds a publisher; maxLen <= 0 leaves the stream untrimmed.
func NewStreamPublisher(client StreamWriter, stream string, maxLen int64, logger *zap.Logger) *StreamPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StreamPublisher{client: client, stream: stream, maxLen: maxLen, logger: logger}
}

// Register subscribes the publisher to the given event types.
func (p *StreamPublisher) Register(dispatcher Dispatcher, types ...EventType) {
	if p == nil || dispatcher == nil {
		return
	}
	for _, t := range types {
		dispatcher.Subscribe(t, p.Handle)
	}
}

// Handle appends one event to the stream.
func (p *StreamPublisher) Handle(ctx context.Context, event Event) error {
	if p == nil || p.client == nil {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.ID, err)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"event_id":  event.ID,
			"type":      string(event.Type),
			"ticket_id": event.TicketID,
			"payload":   string(body),
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	id, err := p.client.XAdd(ctx, args).Result()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}
	p.logger.Debug("event streamed",
		zap.String("stream", p.stream),
		zap.String("entry_id", id),
		zap.String("event_type", string(event.Type)),
		zap.String("ticket_id", event.TicketID))
	return nil
}
