package events

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// AuthProducer appends signup/login events to a Redis stream so other
// services (audit, notifications) can consume them later.
type AuthProducer struct {
	client     *redis.Client
	streamName string
}

func NewAuthProducer(client *redis.Client, streamName string) *AuthProducer {
	return &AuthProducer{
		client:     client,
		streamName: streamName,
	}
}

func (p *AuthProducer) Publish(ctx context.Context, event *AuthEvent) error {
	result := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.streamName,
		Values: map[string]interface{}{
			"type":      event.Type,
			"user_id":   event.UserID,
			"email":     event.Email,
			"timestamp": event.Timestamp,
		},
	})

	if err := result.Err(); err != nil {
		return fmt.Errorf("failed to publish auth event: %w", err)
	}

	return nil
}

func (p *AuthProducer) StreamLength(ctx context.Context) (int64, error) {
	result := p.client.XLen(ctx, p.streamName)
	return result.Val(), result.Err()
}
