package service

import (
	"context"
	"encoding/json"
	"time"

	"delivery-platform/agg-svc/internal/domain"

	"go.uber.org/zap"
)

const retryDelay = time.Second

type Consumer struct {
	Reader MessageReader
	Store  StoreInterface
	Logger *zap.Logger
}

func NewConsumer(reader MessageReader, store StoreInterface, logger *zap.Logger) *Consumer {
	return &Consumer{
		Reader: reader,
		Store:  store,
		Logger: logger,
	}
}

// Start blocks until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	c.Logger.Info("aggregation consumer started")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if ctx.Err() != nil {
			c.Logger.Info("aggregation consumer stopped")
			return
		}
		if err != nil {
			c.Logger.Warn("failed to read message", zap.Error(err))
			select {
			case <-ctx.Done():
				c.Logger.Info("aggregation consumer stopped")
				return
			case <-time.After(retryDelay):
			}
			continue
		}

		var evt domain.OrderEvent
		if err := json.Unmarshal(message.Value, &evt); err != nil {
			c.Logger.Warn("failed to decode message",
				zap.Int64("offset", message.Offset),
				zap.Error(err),
			)
			continue
		}
		c.ProcessOrder(ctx, evt)
	}
}

func (c *Consumer) ProcessOrder(ctx context.Context, evt domain.OrderEvent) {
	if evt.Type != domain.EventOrderPlaced {
		return
	}
	logger := c.Logger.With(
		zap.Int("order_id", evt.OrderID),
		zap.String("vendor_id", evt.VendorID),
	)
	if evt.VendorID == "" || !domain.ValidSection(evt.Section) {
		logger.Warn("skipping malformed order event", zap.String("section", evt.Section))
		return
	}

	if err := c.Store.RecordOrder(ctx, evt); err != nil {
		logger.Error("failed to record order", zap.Error(err))
		return
	}
	logger.Debug("order recorded")
}
