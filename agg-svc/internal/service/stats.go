package service

import (
	"context"
	"sort"
	"time"

	"delivery-platform/agg-svc/internal/domain"
)

const (
	dateLayout   = "2006-01-02"
	defaultLimit = 10
	maxLimit     = 50
)

type StatsService struct {
	Store StoreInterface
	Now   func() time.Time
}

func NewStatsService(store StoreInterface) *StatsService {
	return &StatsService{Store: store, Now: time.Now}
}

func (s *StatsService) VendorStats(ctx context.Context, vendorID string) (*domain.VendorStats, error) {
	return s.Store.VendorStats(ctx, vendorID)
}

// TopVendors ranks vendors by orders placed on date (UTC, today when empty). An empty
// section ranks across every section.
func (s *StatsService) TopVendors(ctx context.Context, section, date string, limit int) ([]domain.VendorScore, error) {
	if date == "" {
		date = s.Now().UTC().Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, ErrInvalidDate
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	if section != "" {
		if !domain.ValidSection(section) {
			return nil, ErrInvalidSection
		}
		return s.Store.TopVendors(ctx, section, date, limit)
	}

	var all []domain.VendorScore
	for _, sec := range domain.Sections {
		top, err := s.Store.TopVendors(ctx, sec, date, limit)
		if err != nil {
			return nil, err
		}
		all = append(all, top...)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Orders > all[j].Orders })
	if len(all) > limit {
		all = all[:limit]
	}
	if all == nil {
		all = []domain.VendorScore{}
	}
	return all, nil
}
