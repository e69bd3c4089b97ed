package strategy

import (
	"saturn/internal/domain"
)

// Compile-time interface check.
var _ Strategy = (*MovingAverageCross)(nil)

// MovingAverageCross is the classic trend-following crossover: long while
// the fast simple moving average of the close is above the slow one, flat
// otherwise. Bars without enough history for the slow average are flat.
type MovingAverageCross struct {
	fast int
	slow int
}

// NewMovingAverageCross creates a MovingAverageCross strategy. The fast
// window must be a positive number of bars strictly smaller than the slow
// window.
func NewMovingAverageCross(fast, slow int) (*MovingAverageCross, error) {
	if fast <= 0 {
		return nil, &ParameterError{Strategy: IDMovingAverage, Param: "fast_window", Reason: "must be positive"}
	}
	if slow <= 0 {
		return nil, &ParameterError{Strategy: IDMovingAverage, Param: "slow_window", Reason: "must be positive"}
	}
	if fast >= slow {
		return nil, &ParameterError{Strategy: IDMovingAverage, Param: "fast_window", Reason: "must be less than slow_window"}
	}
	return &MovingAverageCross{fast: fast, slow: slow}, nil
}

// Name returns "moving_average".
func (s *MovingAverageCross) Name() string { return IDMovingAverage }

// Positions returns one position per bar, long wherever the fast average
// was above the slow average on the previous bar.
func (s *MovingAverageCross) Positions(bars []domain.Bar) []domain.Position {
	prices := closePrices(bars)
	raw := make([]domain.Position, len(bars))

	for i := range bars {
		if i+1 < s.slow {
			continue
		}
		fast := rollingMean(prices, i, s.fast)
		slow := rollingMean(prices, i, s.slow)
		if fast > slow {
			raw[i] = domain.PositionLong
		}
	}

	return shiftOne(raw)
}
