package service

import (
	"context"
	"errors"

	"delivery-platform/agg-svc/internal/domain"

	"github.com/segmentio/kafka-go"
)

var (
	ErrStatsNotFound  = errors.New("vendor stats not found")
	ErrInvalidSection = errors.New("invalid section")
	ErrInvalidDate    = errors.New("invalid date")
)

type StoreInterface interface {
	RecordOrder(ctx context.Context, evt domain.OrderEvent) error
	VendorStats(ctx context.Context, vendorID string) (*domain.VendorStats, error)
	TopVendors(ctx context.Context, section, date string, limit int) ([]domain.VendorScore, error)
}

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type ConsumerInterface interface {
	Start(ctx context.Context)
	ProcessOrder(ctx context.Context, evt domain.OrderEvent)
}

type StatsInterface interface {
	VendorStats(ctx context.Context, vendorID string) (*domain.VendorStats, error)
	TopVendors(ctx context.Context, section, date string, limit int) ([]domain.VendorScore, error)
}

var (
	_ ConsumerInterface = (*Consumer)(nil)
	_ StatsInterface    = (*StatsService)(nil)
	_ MessageReader     = (*kafka.Reader)(nil)
)
