// Package infrastructure содержит адаптеры, общие для нескольких брокеров.
package infrastructure

import (
	"context"

	"github.com/DRSN-tech/product-catalog/internal/usecase"
	"github.com/DRSN-tech/product-catalog/pkg/logger"
)

// FanOutProducer публикует событие в основной брокер и дублирует его во вторичные.
// Ошибка основного возвращается вызывающему, ошибки вторичных только логируются,
// чтобы событие не переотправлялось в основной брокер повторно.
type FanOutProducer struct {
	primary   usecase.MessageProducer
	secondary []usecase.MessageProducer
	logger    logger.Logger
}

func NewFanOutProducer(logger logger.Logger, primary usecase.MessageProducer, secondary ...usecase.MessageProducer) *FanOutProducer {
	return &FanOutProducer{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
	}
}

func (f *FanOutProducer) WriteRawMessage(ctx context.Context, req *usecase.WriteRawMessageReq) error {
	if err := f.primary.WriteRawMessage(ctx, req); err != nil {
		return err
	}

	for _, p := range f.secondary {
		if err := p.WriteRawMessage(ctx, req); err != nil {
			f.logger.Warnf("secondary publish failed. product_id: %s, event: %s, error: %v", req.ProductID, req.EventType, err)
		}
	}

	return nil
}
