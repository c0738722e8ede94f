package mocks

import (
	"context"

	"delivery-platform/cart-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type OrderRepository struct {
	mock.Mock
}

func (_m *OrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	ret := _m.Called(ctx, order)

	if rf, ok := ret.Get(0).(func(context.Context, *domain.Order) error); ok {
		return rf(ctx, order)
	}
	return ret.Error(0)
}

func (_m *OrderRepository) SaveQRCode(ctx context.Context, orderID int, qr []byte) error {
	ret := _m.Called(ctx, orderID, qr)
	return ret.Error(0)
}

func (_m *OrderRepository) GetOrder(ctx context.Context, orderID int) (*domain.Order, error) {
	ret := _m.Called(ctx, orderID)

	var order *domain.Order
	if ret.Get(0) != nil {
		order = ret.Get(0).(*domain.Order)
	}
	return order, ret.Error(1)
}

func (_m *OrderRepository) GetQRCode(ctx context.Context, orderID int) ([]byte, error) {
	ret := _m.Called(ctx, orderID)

	var qr []byte
	if ret.Get(0) != nil {
		qr = ret.Get(0).([]byte)
	}
	return qr, ret.Error(1)
}

func NewOrderRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *OrderRepository {
	m := &OrderRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
