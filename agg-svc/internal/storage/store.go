package storage

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"delivery-platform/agg-svc/internal/domain"
	"delivery-platform/agg-svc/internal/service"

	"github.com/redis/go-redis/v9"
)

const (
	DateLayout     = "2006-01-02"
	dailyRetention = 7 * 24 * time.Hour
)

// Store keeps per-vendor counters in hashes and daily order rankings in sorted sets.
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func StatsKey(vendorID string) string {
	return "vendor:stats:" + vendorID
}

func DailyKey(date, section string) string {
	return fmt.Sprintf("orders:daily:%s:%s", date, section)
}

func (s *Store) RecordOrder(ctx context.Context, evt domain.OrderEvent) error {
	at := evt.Timestamp.UTC()
	if evt.Timestamp.IsZero() {
		at = time.Now().UTC()
	}
	statsKey := StatsKey(evt.VendorID)
	dailyKey := DailyKey(at.Format(DateLayout), evt.Section)

	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, statsKey, "orders", 1)
		pipe.HIncrBy(ctx, statsKey, "items", int64(evt.ItemCount))
		pipe.HIncrByFloat(ctx, statsKey, "revenue", evt.Total)
		pipe.HSet(ctx, statsKey, "last_order_at", at.Unix())
		pipe.ZIncrBy(ctx, dailyKey, 1, evt.VendorID)
		pipe.Expire(ctx, dailyKey, dailyRetention)
		return nil
	})
	return err
}

func (s *Store) VendorStats(ctx context.Context, vendorID string) (*domain.VendorStats, error) {
	fields, err := s.rdb.HGetAll(ctx, StatsKey(vendorID)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, service.ErrStatsNotFound
	}

	stats := &domain.VendorStats{VendorID: vendorID}
	stats.Orders, _ = strconv.ParseInt(fields["orders"], 10, 64)
	stats.Items, _ = strconv.ParseInt(fields["items"], 10, 64)
	revenue, _ := strconv.ParseFloat(fields["revenue"], 64)
	stats.Revenue = math.Round(revenue*100) / 100
	if ts, err := strconv.ParseInt(fields["last_order_at"], 10, 64); err == nil {
		stats.LastOrderAt = time.Unix(ts, 0).UTC()
	}
	return stats, nil
}

func (s *Store) TopVendors(ctx context.Context, section, date string, limit int) ([]domain.VendorScore, error) {
	result, err := s.rdb.ZRevRangeWithScores(ctx, DailyKey(date, section), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	top := make([]domain.VendorScore, 0, len(result))
	for _, z := range result {
		vendorID, _ := z.Member.(string)
		top = append(top, domain.VendorScore{VendorID: vendorID, Section: section, Orders: z.Score})
	}
	return top, nil
}

var _ service.StoreInterface = (*Store)(nil)
