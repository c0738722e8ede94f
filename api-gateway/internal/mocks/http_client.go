package mocks

import (
	"net/http"

	"github.com/stretchr/testify/mock"
)

type HTTPClient struct {
	mock.Mock
}

func (_m *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	ret := _m.Called(req)

	var resp *http.Response
	if rf, ok := ret.Get(0).(func(*http.Request) *http.Response); ok {
		resp = rf(req)
	} else if ret.Get(0) != nil {
		resp = ret.Get(0).(*http.Response)
	}
	return resp, ret.Error(1)
}

func NewHTTPClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *HTTPClient {
	m := &HTTPClient{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
