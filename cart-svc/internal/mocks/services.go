package mocks

import (
	"context"

	"delivery-platform/cart-svc/internal/domain"
	"delivery-platform/cart-svc/internal/service"

	"github.com/stretchr/testify/mock"
)

type CheckoutServiceInterface struct {
	mock.Mock
}

func (_m *CheckoutServiceInterface) PlaceOrder(ctx context.Context, sessionID string, cart *service.CartStore) (*domain.Order, error) {
	ret := _m.Called(ctx, sessionID, cart)

	if rf, ok := ret.Get(0).(func(context.Context, string, *service.CartStore) (*domain.Order, error)); ok {
		return rf(ctx, sessionID, cart)
	}

	var order *domain.Order
	if ret.Get(0) != nil {
		order = ret.Get(0).(*domain.Order)
	}
	return order, ret.Error(1)
}

func (_m *CheckoutServiceInterface) GetOrder(ctx context.Context, orderID int) (*domain.Order, error) {
	ret := _m.Called(ctx, orderID)

	var order *domain.Order
	if ret.Get(0) != nil {
		order = ret.Get(0).(*domain.Order)
	}
	return order, ret.Error(1)
}

func (_m *CheckoutServiceInterface) GetQRCode(ctx context.Context, orderID int) ([]byte, error) {
	ret := _m.Called(ctx, orderID)

	var qr []byte
	if ret.Get(0) != nil {
		qr = ret.Get(0).([]byte)
	}
	return qr, ret.Error(1)
}

func NewCheckoutServiceInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *CheckoutServiceInterface {
	m := &CheckoutServiceInterface{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

type CatalogServiceInterface struct {
	mock.Mock
}

func (_m *CatalogServiceInterface) ListItems(ctx context.Context, vendorID string) ([]domain.CatalogItem, error) {
	ret := _m.Called(ctx, vendorID)

	var items []domain.CatalogItem
	if ret.Get(0) != nil {
		items = ret.Get(0).([]domain.CatalogItem)
	}
	return items, ret.Error(1)
}

func (_m *CatalogServiceInterface) LineItem(ctx context.Context, req service.CatalogSelection) (domain.LineItem, error) {
	ret := _m.Called(ctx, req)
	return ret.Get(0).(domain.LineItem), ret.Error(1)
}

func NewCatalogServiceInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *CatalogServiceInterface {
	m := &CatalogServiceInterface{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
