package service

import (
	"context"

	"delivery-platform/cart-svc/internal/domain"
)

// StateStore holds persisted cart blobs. Load returns ErrStateNotFound for a missing key.
type StateStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, blob []byte) error
	Delete(ctx context.Context, key string) error
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	SaveQRCode(ctx context.Context, orderID int, qr []byte) error
	GetOrder(ctx context.Context, orderID int) (*domain.Order, error)
	GetQRCode(ctx context.Context, orderID int) ([]byte, error)
}

type CatalogRepository interface {
	ListItems(ctx context.Context, vendorID string) ([]domain.CatalogItem, error)
	ResolveItem(ctx context.Context, vendorID, itemID string) (*domain.CatalogItem, error)
}

type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, evt domain.OrderEvent) error
}

type QRGenerator interface {
	Generate(ref PickupRef) ([]byte, error)
}

type CartSessions interface {
	With(ctx context.Context, sessionID string, fn func(cart *CartStore) error) error
}

type CheckoutServiceInterface interface {
	PlaceOrder(ctx context.Context, sessionID string, cart *CartStore) (*domain.Order, error)
	GetOrder(ctx context.Context, orderID int) (*domain.Order, error)
	GetQRCode(ctx context.Context, orderID int) ([]byte, error)
}

type CatalogServiceInterface interface {
	ListItems(ctx context.Context, vendorID string) ([]domain.CatalogItem, error)
	LineItem(ctx context.Context, req CatalogSelection) (domain.LineItem, error)
}

var (
	_ CartSessions             = (*Sessions)(nil)
	_ CheckoutServiceInterface = (*CheckoutService)(nil)
	_ CatalogServiceInterface  = (*CatalogService)(nil)
)
