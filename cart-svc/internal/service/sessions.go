package service

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const sessionStripes = 64

// Sessions opens per-session cart stores. Calls for the same session run one at a time.
type Sessions struct {
	states    StateStore
	pricing   Pricing
	keyPrefix string
	logger    *zap.Logger
	locks     [sessionStripes]sync.Mutex
}

func NewSessions(states StateStore, pricing Pricing, keyPrefix string, logger *zap.Logger) *Sessions {
	return &Sessions{
		states:    states,
		pricing:   pricing,
		keyPrefix: keyPrefix,
		logger:    logger,
	}
}

func NewSessionID() string {
	return uuid.NewString()
}

func (s *Sessions) Key(sessionID string) string {
	return s.keyPrefix + ":" + sessionID
}

// With restores the session's cart and hands it to fn while holding the session lock.
// fn is not called when the cart cannot be read.
func (s *Sessions) With(ctx context.Context, sessionID string, fn func(cart *CartStore) error) error {
	lock := s.lockFor(sessionID)
	lock.Lock()
	defer lock.Unlock()

	cart, err := NewCartStore(ctx, s.Key(sessionID), s.states, s.pricing, s.logger.With(zap.String("session_id", sessionID)))
	if err != nil {
		return err
	}
	return fn(cart)
}

func (s *Sessions) lockFor(sessionID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(sessionID))
	return &s.locks[h.Sum32()%sessionStripes]
}
