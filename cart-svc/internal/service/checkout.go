package service

import (
	"context"
	"fmt"
	"time"

	"delivery-platform/cart-svc/internal/domain"

	"go.uber.org/zap"
)

type CheckoutService struct {
	orders    OrderRepository
	qrEncoder QRGenerator
	publisher EventPublisher
	logger    *zap.Logger
}

func NewCheckoutService(orders OrderRepository, qr QRGenerator, publisher EventPublisher, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		orders:    orders,
		qrEncoder: qr,
		publisher: publisher,
		logger:    logger,
	}
}

// PlaceOrder turns the cart into an order and clears the cart once the order is stored.
// QR generation and event publishing are best effort.
func (s *CheckoutService) PlaceOrder(ctx context.Context, sessionID string, cart *CartStore) (*domain.Order, error) {
	view := cart.View()
	if len(view.Items) == 0 || view.CurrentVendor == nil {
		return nil, ErrEmptyCart
	}

	order := &domain.Order{
		SessionID:   sessionID,
		VendorID:    view.CurrentVendor.ID,
		VendorName:  view.CurrentVendor.Name,
		Section:     view.CurrentVendor.Section,
		Subtotal:    view.Subtotal,
		DeliveryFee: view.DeliveryFee,
		Tax:         view.Tax,
		Total:       view.Total,
		Status:      "placed",
		Items:       make([]domain.OrderItem, 0, len(view.Items)),
	}
	for _, item := range view.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ItemID:              item.ID,
			Name:                item.Name,
			Quantity:            item.Quantity,
			UnitPrice:           domain.RoundCents(item.UnitPrice()),
			Options:             item.Options,
			SpecialInstructions: item.SpecialInstructions,
		})
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	log := s.logger.With(zap.Int("order_id", order.ID), zap.String("session_id", sessionID))

	if s.qrEncoder != nil {
		if qr, err := s.qrEncoder.Generate(pickupRefFor(order)); err != nil {
			log.Warn("failed to generate qr code", zap.Error(err))
		} else if err := s.orders.SaveQRCode(ctx, order.ID, qr); err != nil {
			log.Warn("failed to store qr code", zap.Error(err))
		}
	}
	order.QRCode = QRLink(order.ID)

	if s.publisher != nil {
		evt := domain.OrderEvent{
			Type:      domain.EventOrderPlaced,
			OrderID:   order.ID,
			VendorID:  order.VendorID,
			Section:   order.Section,
			ItemCount: view.ItemCount,
			Total:     order.Total,
			Timestamp: time.Now(),
		}
		if err := s.publisher.PublishOrderPlaced(ctx, evt); err != nil {
			log.Warn("failed to publish order event", zap.Error(err))
		}
	}

	cart.ClearCart(ctx)
	log.Info("order placed", zap.String("vendor_id", order.VendorID), zap.Float64("total", order.Total))
	return order, nil
}

func (s *CheckoutService) GetOrder(ctx context.Context, orderID int) (*domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.QRCode = QRLink(order.ID)
	return order, nil
}

// GetQRCode returns the stored code, regenerating it from the order when it has none.
func (s *CheckoutService) GetQRCode(ctx context.Context, orderID int) ([]byte, error) {
	qr, err := s.orders.GetQRCode(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(qr) > 0 || s.qrEncoder == nil {
		return qr, nil
	}

	log := s.logger.With(zap.Int("order_id", orderID))
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		log.Warn("failed to load order for qr code", zap.Error(err))
		return qr, nil
	}
	regenerated, err := s.qrEncoder.Generate(pickupRefFor(order))
	if err != nil {
		log.Warn("failed to regenerate qr code", zap.Error(err))
		return qr, nil
	}
	if err := s.orders.SaveQRCode(ctx, orderID, regenerated); err != nil {
		log.Warn("failed to cache regenerated qr code", zap.Error(err))
	}
	return regenerated, nil
}

func QRLink(orderID int) string {
	return fmt.Sprintf("/api/orders/%d/qrcode", orderID)
}
