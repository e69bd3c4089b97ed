package marketdata

import (
	"saturn/internal/config"
	"saturn/internal/store"
)

// NewFromConfig builds the provider selected by cfg.Data: "alpaca" or
// "synthetic", optionally wrapped in the bar cache when cfg.Data.Cache is set
// and a store is supplied.
func NewFromConfig(cfg *config.Config, cache store.BarStore) Provider {
	var p Provider
	switch cfg.Data.Provider {
	case "alpaca":
		p = NewAlpacaProvider(cfg.Alpaca.APIKey, cfg.Alpaca.APISecret, cfg.Alpaca.DataURL, cfg.Alpaca.Feed, cfg.Data.RateLimitPerMin)
	default:
		p = NewSyntheticProvider()
	}
	if cfg.Data.Cache && cache != nil {
		p = NewCachingProvider(p, cache, cfg.Data.Market)
	}
	return p
}
