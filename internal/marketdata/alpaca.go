package marketdata

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	alpacamd "github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"saturn/internal/domain"
	"saturn/internal/util"
)

// Compile-time interface check.
var _ Provider = (*AlpacaProvider)(nil)

// AlpacaProvider loads daily bars from the Alpaca market-data API. Requests
// are rate limited and retried with backoff.
type AlpacaProvider struct {
	client  *alpacamd.Client
	feed    string
	limiter *util.RateLimiter
	log     *slog.Logger
}

// NewAlpacaProvider creates an AlpacaProvider with the given credentials.
// baseURL and feed may be empty to use the Alpaca defaults.
func NewAlpacaProvider(apiKey, apiSecret, baseURL, feed string, rateLimitPerMin int) *AlpacaProvider {
	opts := alpacamd.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	}
	if baseURL != "" {
		opts.BaseURL = baseURL
	}
	if feed == "" {
		feed = "sip"
	}

	return &AlpacaProvider{
		client:  alpacamd.NewClient(opts),
		feed:    feed,
		limiter: util.NewRateLimiter(rateLimitPerMin),
		log:     slog.Default().With("provider", "alpaca"),
	}
}

func (p *AlpacaProvider) DailyBars(ctx context.Context, symbol string, start, end time.Time) ([]domain.Bar, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	symbol = strings.ToUpper(symbol)
	var raw []alpacamd.Bar
	err := util.Retry(ctx, 3, time.Second, func() error {
		var err error
		raw, err = p.client.GetBars(symbol, alpacamd.GetBarsRequest{
			TimeFrame: alpacamd.OneDay,
			Start:     start,
			End:       end,
			Feed:      alpacamd.Feed(p.feed),
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("GetBars %s: %w", symbol, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s %s to %s: %w",
			symbol, start.Format("2006-01-02"), end.Format("2006-01-02"), ErrNoData)
	}

	bars := make([]domain.Bar, 0, len(raw))
	for _, ab := range raw {
		bars = append(bars, domain.Bar{
			Symbol:     symbol,
			Timestamp:  ab.Timestamp,
			Open:       ab.Open,
			High:       ab.High,
			Low:        ab.Low,
			Close:      ab.Close,
			Volume:     int64(ab.Volume),
			TradeCount: int64(ab.TradeCount),
			VWAP:       ab.VWAP,
		})
	}

	p.log.Debug("fetched bars", "symbol", symbol, "count", len(bars))
	return bars, nil
}
