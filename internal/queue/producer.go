package queue

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type Producer struct {
	client *redis.Client
	stream string
}

func NewProducer(client *redis.Client, stream string) *Producer {
	return &Producer{client: client, stream: stream}
}

// Publish appends the event to the stream. A producer without a client is a
// no-op so the API can run without Redis.
func (p *Producer) Publish(ctx context.Context, event Event) error {
	if p == nil || p.client == nil {
		return nil
	}
	_, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: event.values(),
	}).Result()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", event.Type, err)
	}
	return nil
}
