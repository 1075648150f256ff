package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Skotchmaster/refurb_shop/internal/repo"
	"github.com/Skotchmaster/refurb_shop/internal/transport"
	"github.com/Skotchmaster/refurb_shop/pkg/logging"
)

const (
	DefaultStatsDays = 30
	dayLayout        = "2006-01-02"
	reportCacheKey   = "report:management"
)

type StatsService struct {
	Repo     *repo.GormRepo
	Cache    Cache
	CacheTTL time.Duration
	Now      func() time.Time
}

func (s *StatsService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *StatsService) cached(ctx context.Context, key string, dst any) bool {
	if s.Cache == nil {
		return false
	}
	hit, err := s.Cache.Get(ctx, key, dst)
	if err != nil {
		logging.FromContext(ctx).Warn("cache_get_error", "key", key, "error", err)
		return false
	}
	return hit
}

func (s *StatsService) store(ctx context.Context, key string, v any) {
	if s.Cache == nil || s.CacheTTL <= 0 {
		return
	}
	if err := s.Cache.Set(ctx, key, v, s.CacheTTL); err != nil {
		logging.FromContext(ctx).Warn("cache_set_error", "key", key, "error", err)
	}
}

// DailyStats buckets orders, items sold and new carts by UTC calendar day over
// the trailing window. Only days with some activity are listed, oldest first.
// days < 1 falls back to the default window.
func (s *StatsService) DailyStats(ctx context.Context, days int) (*transport.StatsResponse, error) {
	if days < 1 {
		days = DefaultStatsDays
	}

	key := fmt.Sprintf("stats:days:%d", days)
	var out transport.StatsResponse
	if s.cached(ctx, key, &out) {
		return &out, nil
	}

	since := s.now().Add(-time.Duration(days) * 24 * time.Hour)

	orders, err := s.Repo.OrdersSince(ctx, since)
	if err != nil {
		return nil, err
	}
	carts, err := s.Repo.CartsCreatedSince(ctx, since)
	if err != nil {
		return nil, err
	}

	buckets := map[string]*transport.DayStats{}
	bucket := func(t time.Time) *transport.DayStats {
		d := t.UTC().Format(dayLayout)
		b, ok := buckets[d]
		if !ok {
			b = &transport.DayStats{Date: d}
			buckets[d] = b
		}
		return b
	}

	for _, o := range orders {
		b := bucket(o.CreatedAt)
		b.OrdersCount++
		b.TotalCLP += o.TotalCLP
		for _, it := range o.Items {
			b.ItemsSold += int64(it.Quantity)
		}
	}
	for _, ts := range carts {
		bucket(ts).CartsCount++
	}

	out = transport.StatsResponse{Days: days, Results: make([]transport.DayStats, 0, len(buckets))}
	for _, b := range buckets {
		out.Results = append(out.Results, *b)
	}
	sort.Slice(out.Results, func(i, j int) bool { return out.Results[i].Date < out.Results[j].Date })

	s.store(ctx, key, out)
	return &out, nil
}

func (s *StatsService) ManagementReport(ctx context.Context) (*repo.ManagementReport, error) {
	var rep repo.ManagementReport
	if s.cached(ctx, reportCacheKey, &rep) {
		return &rep, nil
	}
	got, err := s.Repo.ManagementReport(ctx)
	if err != nil {
		return nil, err
	}
	s.store(ctx, reportCacheKey, got)
	return got, nil
}
