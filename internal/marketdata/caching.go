package marketdata

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"saturn/internal/domain"
	"saturn/internal/store"
	"saturn/internal/util"
)

// Compile-time interface check.
var _ Provider = (*CachingProvider)(nil)

// CachingProvider serves bars from a BarStore, falling back to an upstream
// provider on a miss and writing what it fetched back to the store. Repeated
// backtests over the same symbol and range hit the API once.
type CachingProvider struct {
	source Provider
	store  store.BarStore
	market string
	log    *slog.Logger
}

func NewCachingProvider(source Provider, s store.BarStore, market string) *CachingProvider {
	return &CachingProvider{
		source: source,
		store:  s,
		market: market,
		log:    slog.Default().With("provider", "caching"),
	}
}

func (p *CachingProvider) DailyBars(ctx context.Context, symbol string, start, end time.Time) ([]domain.Bar, error) {
	cached, err := p.store.ReadBars(ctx, p.market, symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("reading bar cache for %s: %w", symbol, err)
	}
	if covers(cached, start, end) {
		p.log.Debug("cache hit", "symbol", symbol, "bars", len(cached))
		return cached, nil
	}

	bars, err := p.source.DailyBars(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}
	if err := p.store.WriteBars(ctx, p.market, bars); err != nil {
		return nil, fmt.Errorf("populating bar cache for %s: %w", symbol, err)
	}
	p.log.Info("cache miss filled", "symbol", symbol, "bars", len(bars))
	return bars, nil
}

// covers reports whether the cached bars span the requested range. A partial
// overlap (say, a January fetch followed by a January-through-June request)
// must not pass for a hit, or backtests would quietly run on truncated data.
// Market holidays thin out the weekday calendar, so each edge gets a few days
// of slack.
func covers(cached []domain.Bar, start, end time.Time) bool {
	days := util.BusinessDays(start, end)
	if len(days) == 0 {
		return len(cached) > 0
	}
	if len(cached) == 0 {
		return false
	}
	const slackDays = 3
	if cached[0].Timestamp.After(days[0].AddDate(0, 0, slackDays)) {
		return false
	}
	if cached[len(cached)-1].Timestamp.Before(days[len(days)-1].AddDate(0, 0, -slackDays)) {
		return false
	}
	return true
}
