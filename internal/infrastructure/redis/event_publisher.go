package redis

import (
	"context"

	"github.com/DRSN-tech/product-catalog/internal/usecase"
	"github.com/DRSN-tech/product-catalog/pkg/e"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// EventPublisher рассылает события продуктов подписчикам канала Redis Pub/Sub.
// Сообщение - тот же protobuf payload, что уходит в Kafka.
type EventPublisher struct {
	client  r.UniversalClient
	channel string
}

func NewEventPublisher(client r.UniversalClient, channel string) *EventPublisher {
	return &EventPublisher{
		client:  client,
		channel: channel,
	}
}

func (p *EventPublisher) WriteRawMessage(ctx context.Context, req *usecase.WriteRawMessageReq) error {
	if err := p.client.Publish(ctx, p.channel, req.Payload).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
