package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type StateStore struct {
	mock.Mock
}

func (_m *StateStore) Load(ctx context.Context, key string) ([]byte, error) {
	ret := _m.Called(ctx, key)

	var blob []byte
	if rf, ok := ret.Get(0).(func(context.Context, string) []byte); ok {
		blob = rf(ctx, key)
	} else if ret.Get(0) != nil {
		blob = ret.Get(0).([]byte)
	}
	return blob, ret.Error(1)
}

func (_m *StateStore) Save(ctx context.Context, key string, blob []byte) error {
	ret := _m.Called(ctx, key, blob)
	return ret.Error(0)
}

func (_m *StateStore) Delete(ctx context.Context, key string) error {
	ret := _m.Called(ctx, key)
	return ret.Error(0)
}

func NewStateStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *StateStore {
	m := &StateStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
