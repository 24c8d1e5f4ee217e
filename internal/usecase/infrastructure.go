package usecase

import "context"

// MessageProducer публикует уже сериализованное событие во внешний брокер.
type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}
