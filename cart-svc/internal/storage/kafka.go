package storage

import (
	"context"
	"encoding/json"

	"delivery-platform/cart-svc/internal/domain"
	"delivery-platform/cart-svc/internal/service"

	"github.com/segmentio/kafka-go"
)

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type KafkaPublisher struct {
	Writer MessageWriter
}

func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{Writer: writer}
}

// PublishOrderPlaced keys messages by vendor so one vendor's orders stay on one partition.
func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, evt domain.OrderEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.VendorID),
		Value: payload,
	})
}

var _ service.EventPublisher = (*KafkaPublisher)(nil)
