package marketdata

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"strings"
	"time"

	"saturn/internal/domain"
	"saturn/internal/util"
)

// Compile-time interface check.
var _ Provider = (*SyntheticProvider)(nil)

// SyntheticProvider generates deterministic geometric-Brownian-motion daily
// bars: same symbol and range, same bars, every time. It exists so backtests
// can run without API credentials and so tests have a reproducible data
// source. Bars are emitted for business days only.
type SyntheticProvider struct {
	initialPrice float64
	drift        float64 // per-day return drift
	volatility   float64 // per-day return stdev
}

// NewSyntheticProvider creates a SyntheticProvider with a 100.0 starting
// price, mild positive drift, and 2% daily volatility.
func NewSyntheticProvider() *SyntheticProvider {
	return &SyntheticProvider{
		initialPrice: 100.0,
		drift:        0.0005,
		volatility:   0.02,
	}
}

func (p *SyntheticProvider) DailyBars(_ context.Context, symbol string, start, end time.Time) ([]domain.Bar, error) {
	days := util.BusinessDays(start, end)
	if len(days) == 0 {
		return nil, fmt.Errorf("%s %s to %s: %w",
			symbol, start.Format("2006-01-02"), end.Format("2006-01-02"), ErrNoData)
	}

	symbol = strings.ToUpper(symbol)
	rng := rand.New(rand.NewSource(symbolSeed(symbol)))

	bars := make([]domain.Bar, 0, len(days))
	prev := p.initialPrice
	for _, day := range days {
		ret := p.drift + p.volatility*rng.NormFloat64()
		close := prev * (1 + ret)

		spread := math.Abs(rng.NormFloat64()) * p.volatility / 2
		high := math.Max(prev, close) * (1 + spread)
		low := math.Min(prev, close) * (1 - spread)

		bars = append(bars, domain.Bar{
			Symbol:     symbol,
			Timestamp:  day,
			Open:       prev,
			High:       high,
			Low:        low,
			Close:      close,
			Volume:     500_000 + rng.Int63n(1_500_000),
			TradeCount: 1_000 + rng.Int63n(9_000),
			VWAP:       (high + low + close) / 3,
		})
		prev = close
	}
	return bars, nil
}

// symbolSeed hashes the symbol so different symbols get different but stable
// price paths.
func symbolSeed(symbol string) int64 {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	return int64(h.Sum64())
}
