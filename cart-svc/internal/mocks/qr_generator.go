package mocks

import (
	"delivery-platform/cart-svc/internal/service"

	"github.com/stretchr/testify/mock"
)

type QRGenerator struct {
	mock.Mock
}

func (_m *QRGenerator) Generate(ref service.PickupRef) ([]byte, error) {
	ret := _m.Called(ref)

	var qr []byte
	if ret.Get(0) != nil {
		qr = ret.Get(0).([]byte)
	}
	return qr, ret.Error(1)
}

func NewQRGenerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *QRGenerator {
	m := &QRGenerator{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
