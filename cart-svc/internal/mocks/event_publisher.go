package mocks

import (
	"context"

	"delivery-platform/cart-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type EventPublisher struct {
	mock.Mock
}

func (_m *EventPublisher) PublishOrderPlaced(ctx context.Context, evt domain.OrderEvent) error {
	ret := _m.Called(ctx, evt)
	return ret.Error(0)
}

func NewEventPublisher(t interface {
	mock.TestingT
	Cleanup(func())
}) *EventPublisher {
	m := &EventPublisher{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
