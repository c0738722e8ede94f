package mocks

import (
	"context"

	"delivery-platform/cart-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type CatalogRepository struct {
	mock.Mock
}

func (_m *CatalogRepository) ListItems(ctx context.Context, vendorID string) ([]domain.CatalogItem, error) {
	ret := _m.Called(ctx, vendorID)

	var items []domain.CatalogItem
	if ret.Get(0) != nil {
		items = ret.Get(0).([]domain.CatalogItem)
	}
	return items, ret.Error(1)
}

func (_m *CatalogRepository) ResolveItem(ctx context.Context, vendorID, itemID string) (*domain.CatalogItem, error) {
	ret := _m.Called(ctx, vendorID, itemID)

	var item *domain.CatalogItem
	if ret.Get(0) != nil {
		item = ret.Get(0).(*domain.CatalogItem)
	}
	return item, ret.Error(1)
}

func NewCatalogRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *CatalogRepository {
	m := &CatalogRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
