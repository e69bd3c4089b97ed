package strategy

import (
	"saturn/internal/domain"
)

// Compile-time interface check.
var _ Strategy = (*RSIMomentum)(nil)

// RSIMomentum trades RSI threshold crossings: it goes long when RSI crosses
// upward through the oversold level (the oversold condition ending) and
// exits when RSI crosses downward through the overbought level. While RSI
// sits between the thresholds the prior state carries forward, the same
// hysteresis used by BollingerReversion.
type RSIMomentum struct {
	window     int
	oversold   float64
	overbought float64
}

// NewRSIMomentum creates an RSIMomentum strategy. Both thresholds must lie
// strictly inside (0, 100) with oversold below overbought, and the window
// must be positive.
func NewRSIMomentum(window int, oversold, overbought float64) (*RSIMomentum, error) {
	if window <= 0 {
		return nil, &ParameterError{Strategy: IDMomentum, Param: "window", Reason: "must be positive"}
	}
	if oversold <= 0 || oversold >= 100 {
		return nil, &ParameterError{Strategy: IDMomentum, Param: "oversold", Reason: "must be between 0 and 100"}
	}
	if overbought <= 0 || overbought >= 100 {
		return nil, &ParameterError{Strategy: IDMomentum, Param: "overbought", Reason: "must be between 0 and 100"}
	}
	if oversold >= overbought {
		return nil, &ParameterError{Strategy: IDMomentum, Param: "oversold", Reason: "must be less than overbought"}
	}
	return &RSIMomentum{window: window, oversold: oversold, overbought: overbought}, nil
}

// Name returns "momentum".
func (s *RSIMomentum) Name() string { return IDMomentum }

// Positions returns one position per bar following the RSI crossing state
// machine, delayed by one bar.
func (s *RSIMomentum) Positions(bars []domain.Bar) []domain.Position {
	prices := closePrices(bars)
	rsi := rsiSeries(prices, s.window)
	raw := make([]domain.Position, len(bars))

	state := domain.PositionFlat
	for i := range bars {
		if i == 0 {
			raw[i] = state
			continue
		}

		switch {
		case rsi[i-1] <= s.oversold && rsi[i] > s.oversold:
			state = domain.PositionLong
		case rsi[i-1] >= s.overbought && rsi[i] < s.overbought:
			state = domain.PositionFlat
		}
		raw[i] = state
	}

	return shiftOne(raw)
}
