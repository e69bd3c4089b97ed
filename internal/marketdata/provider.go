// Package marketdata loads daily OHLCV bars for backtesting. Providers share
// one interface so the engine can run against live Alpaca data, a local bar
// cache, or a deterministic synthetic series interchangeably.
package marketdata

import (
	"context"
	"errors"
	"time"

	"saturn/internal/domain"
)

// ErrNoData is returned when a provider has no bars for the requested symbol
// and range.
var ErrNoData = errors.New("marketdata: no bars for requested range")

// Provider loads daily bars for a symbol over an inclusive date range,
// ordered ascending by timestamp.
type Provider interface {
	DailyBars(ctx context.Context, symbol string, start, end time.Time) ([]domain.Bar, error)
}
