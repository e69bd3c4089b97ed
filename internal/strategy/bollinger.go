package strategy

import (
	"saturn/internal/domain"
)

// Compile-time interface check.
var _ Strategy = (*BollingerReversion)(nil)

// BollingerReversion trades mean reversion on Bollinger bands: it goes long
// when the close touches or falls below the lower band and exits when the
// close touches or rises above the upper band. Between the bands the prior
// state carries forward, so the signal is a small flat/long state machine
// rather than a stateless threshold test.
//
// The exit test is evaluated first. When the bands collapse onto the price
// (zero standard deviation) both tests hold and exit wins, so a constant
// series never opens a position.
type BollingerReversion struct {
	window int
	numStd float64
}

// NewBollingerReversion creates a BollingerReversion strategy. The window
// must cover at least two bars and numStd must be positive.
func NewBollingerReversion(window int, numStd float64) (*BollingerReversion, error) {
	if window <= 1 {
		return nil, &ParameterError{Strategy: IDMeanReversion, Param: "window", Reason: "must be greater than 1"}
	}
	if numStd <= 0 {
		return nil, &ParameterError{Strategy: IDMeanReversion, Param: "num_std", Reason: "must be positive"}
	}
	return &BollingerReversion{window: window, numStd: numStd}, nil
}

// Name returns "mean_reversion".
func (s *BollingerReversion) Name() string { return IDMeanReversion }

// Positions returns one position per bar following the band state machine,
// delayed by one bar.
func (s *BollingerReversion) Positions(bars []domain.Bar) []domain.Position {
	prices := closePrices(bars)
	raw := make([]domain.Position, len(bars))

	state := domain.PositionFlat
	for i := range bars {
		if i+1 < s.window {
			raw[i] = state
			continue
		}

		mean := rollingMean(prices, i, s.window)
		std := rollingStd(prices, i, s.window)
		upper := mean + s.numStd*std
		lower := mean - s.numStd*std

		switch {
		case prices[i] >= upper:
			state = domain.PositionFlat
		case prices[i] <= lower:
			state = domain.PositionLong
		}
		raw[i] = state
	}

	return shiftOne(raw)
}
