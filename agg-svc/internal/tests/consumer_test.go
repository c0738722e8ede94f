package tests

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"delivery-platform/agg-svc/internal/domain"
	"delivery-platform/agg-svc/internal/mocks"
	"delivery-platform/agg-svc/internal/service"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func orderEvent() domain.OrderEvent {
	return domain.OrderEvent{
		Type:      domain.EventOrderPlaced,
		OrderID:   7,
		VendorID:  "v1",
		Section:   "restaurant",
		ItemCount: 3,
		Total:     33.23,
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestConsumer_ProcessOrder(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name           string
		inputEvent     func() domain.OrderEvent
		setupMockStore func(*mocks.StoreInterface)
		expectedLog    string
	}{
		{
			name:       "success",
			inputEvent: orderEvent,
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("RecordOrder", ctx, orderEvent()).Return(nil).Once()
			},
		},
		{
			name:       "store_error",
			inputEvent: orderEvent,
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("RecordOrder", ctx, orderEvent()).Return(errors.New("redis down")).Once()
			},
			expectedLog: "failed to record order",
		},
		{
			name: "unknown_type",
			inputEvent: func() domain.OrderEvent {
				evt := orderEvent()
				evt.Type = "order_cancelled"
				return evt
			},
			setupMockStore: func(mockStore *mocks.StoreInterface) {},
		},
		{
			name: "invalid_section",
			inputEvent: func() domain.OrderEvent {
				evt := orderEvent()
				evt.Section = "hardware"
				return evt
			},
			setupMockStore: func(mockStore *mocks.StoreInterface) {},
			expectedLog:    "skipping malformed order event",
		},
		{
			name: "missing_vendor",
			inputEvent: func() domain.OrderEvent {
				evt := orderEvent()
				evt.VendorID = ""
				return evt
			},
			setupMockStore: func(mockStore *mocks.StoreInterface) {},
			expectedLog:    "skipping malformed order event",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			mockStore := mocks.NewStoreInterface(t)
			testCase.setupMockStore(mockStore)
			core, logs := observer.New(zap.DebugLevel)

			consumer := service.NewConsumer(nil, mockStore, zap.New(core))
			consumer.ProcessOrder(ctx, testCase.inputEvent())

			if testCase.expectedLog != "" {
				assert.Equal(t, 1, logs.FilterMessage(testCase.expectedLog).Len())
			}
		})
	}
}

type fakeReader struct {
	mu       sync.Mutex
	messages []kafka.Message
	errs     []error
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.errs) > 0 {
		err := r.errs[0]
		r.errs = r.errs[1:]
		r.mu.Unlock()
		return kafka.Message{}, err
	}
	if len(r.messages) > 0 {
		msg := r.messages[0]
		r.messages = r.messages[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()

	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func encode(t *testing.T, evt domain.OrderEvent) kafka.Message {
	t.Helper()
	payload, err := json.Marshal(evt)
	require.NoError(t, err)
	return kafka.Message{Key: []byte(evt.VendorID), Value: payload}
}

func TestConsumer_StartStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	second := orderEvent()
	second.OrderID = 8
	second.VendorID = "v2"
	reader := &fakeReader{
		messages: []kafka.Message{
			encode(t, orderEvent()),
			{Value: []byte("not json")},
			encode(t, second),
		},
	}

	recorded := make(chan domain.OrderEvent, 2)
	mockStore := mocks.NewStoreInterface(t)
	mockStore.On("RecordOrder", mock.Anything, mock.AnythingOfType("domain.OrderEvent")).
		Run(func(args mock.Arguments) { recorded <- args.Get(1).(domain.OrderEvent) }).
		Return(nil).Twice()
	core, logs := observer.New(zap.InfoLevel)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		service.NewConsumer(reader, mockStore, zap.New(core)).Start(ctx)
	}()

	assert.Equal(t, 7, (<-recorded).OrderID)
	assert.Equal(t, 8, (<-recorded).OrderID)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop after cancel")
	}
	assert.Equal(t, 1, logs.FilterMessage("failed to decode message").Len())
	assert.Equal(t, 1, logs.FilterMessage("aggregation consumer stopped").Len())
}

func TestConsumer_StartRetriesReadErrors(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	reader := &fakeReader{
		errs:     []error{errors.New("broker unavailable")},
		messages: []kafka.Message{encode(t, orderEvent())},
	}
	recorded := make(chan struct{}, 1)
	mockStore := mocks.NewStoreInterface(t)
	mockStore.On("RecordOrder", mock.Anything, orderEvent()).
		Run(func(mock.Arguments) { recorded <- struct{}{} }).
		Return(nil).Once()
	core, logs := observer.New(zap.InfoLevel)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		service.NewConsumer(reader, mockStore, zap.New(core)).Start(ctx)
	}()

	select {
	case <-recorded:
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not recover from read error")
	}
	cancel()
	<-done

	assert.Equal(t, 1, logs.FilterMessage("failed to read message").Len())
}
