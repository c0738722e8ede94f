package mocks

import (
	"context"

	"delivery-platform/agg-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type StoreInterface struct {
	mock.Mock
}

func (_m *StoreInterface) RecordOrder(ctx context.Context, evt domain.OrderEvent) error {
	ret := _m.Called(ctx, evt)
	return ret.Error(0)
}

func (_m *StoreInterface) VendorStats(ctx context.Context, vendorID string) (*domain.VendorStats, error) {
	ret := _m.Called(ctx, vendorID)

	var stats *domain.VendorStats
	if ret.Get(0) != nil {
		stats = ret.Get(0).(*domain.VendorStats)
	}
	return stats, ret.Error(1)
}

func (_m *StoreInterface) TopVendors(ctx context.Context, section, date string, limit int) ([]domain.VendorScore, error) {
	ret := _m.Called(ctx, section, date, limit)

	var top []domain.VendorScore
	if ret.Get(0) != nil {
		top = ret.Get(0).([]domain.VendorScore)
	}
	return top, ret.Error(1)
}

func NewStoreInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *StoreInterface {
	m := &StoreInterface{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
