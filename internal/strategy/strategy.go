// Package strategy implements rule-based trading strategies that map a daily
// bar series to a per-bar position sequence. Strategies are pure functions of
// (bars, parameters): they validate their parameters eagerly at construction
// and carry no mutable state between calls.
//
// Every strategy applies the same look-ahead guard: the raw signal computed
// at bar i only takes effect as the position held at bar i+1, so no position
// ever depends on information that was not available before its own bar.
package strategy

import (
	"fmt"
	"sort"

	"saturn/internal/domain"
)

// Strategy maps a bar series to an equal-length, index-aligned position
// sequence. Implementations must return positions[0] == flat and must not
// mutate the input bars.
type Strategy interface {
	// Name returns the strategy identifier, e.g. "moving_average".
	Name() string

	// Positions returns one position per input bar.
	Positions(bars []domain.Bar) []domain.Position
}

// ParameterError reports an invalid strategy parameter. It is returned at
// construction time; a strategy with invalid parameters never runs.
type ParameterError struct {
	Strategy string
	Param    string
	Reason   string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("strategy %s: parameter %s: %s", e.Strategy, e.Param, e.Reason)
}

// Spec identifies a strategy and its parameters as received at the API
// boundary. Missing parameters take the strategy's defaults.
type Spec struct {
	ID     string             `json:"strategy"`
	Params map[string]float64 `json:"parameters"`
}

// New constructs the strategy named by spec. The strategy set is closed:
// adding a strategy means extending this switch, not registering at runtime.
func New(spec Spec) (Strategy, error) {
	p := func(name string, def float64) float64 {
		if v, ok := spec.Params[name]; ok {
			return v
		}
		return def
	}

	switch spec.ID {
	case IDMovingAverage:
		return NewMovingAverageCross(int(p("fast_window", 20)), int(p("slow_window", 50)))
	case IDMeanReversion:
		return NewBollingerReversion(int(p("window", 20)), p("num_std", 2.0))
	case IDMomentum:
		return NewRSIMomentum(int(p("window", 14)), p("oversold", 30), p("overbought", 70))
	default:
		return nil, &ParameterError{Strategy: spec.ID, Param: "strategy", Reason: "unknown strategy"}
	}
}

// Strategy identifiers accepted by New.
const (
	IDMovingAverage = "moving_average"
	IDMeanReversion = "mean_reversion"
	IDMomentum      = "momentum"
)

// ParamInfo describes one tunable parameter for API consumers.
type ParamInfo struct {
	Name        string  `json:"name"`
	Default     float64 `json:"default"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Description string  `json:"description"`
}

// Info describes a strategy and its parameters for API consumers.
type Info struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Params      []ParamInfo `json:"parameters"`
}

// List returns metadata for every available strategy, sorted by ID.
func List() []Info {
	infos := []Info{
		{
			ID:          IDMovingAverage,
			Name:        "Moving Average Crossover",
			Description: "Long while the fast moving average is above the slow one",
			Params: []ParamInfo{
				{Name: "fast_window", Default: 20, Min: 5, Max: 100, Description: "Fast moving average period (days)"},
				{Name: "slow_window", Default: 50, Min: 20, Max: 200, Description: "Slow moving average period (days)"},
			},
		},
		{
			ID:          IDMeanReversion,
			Name:        "Mean Reversion (Bollinger Bands)",
			Description: "Enters at the lower band, exits at the upper band",
			Params: []ParamInfo{
				{Name: "window", Default: 20, Min: 10, Max: 50, Description: "Period for the rolling mean and standard deviation"},
				{Name: "num_std", Default: 2, Min: 1, Max: 3, Description: "Band width in standard deviations"},
			},
		},
		{
			ID:          IDMomentum,
			Name:        "Momentum (RSI)",
			Description: "Enters when RSI exits oversold, exits when it leaves overbought",
			Params: []ParamInfo{
				{Name: "window", Default: 14, Min: 7, Max: 28, Description: "RSI smoothing period (days)"},
				{Name: "oversold", Default: 30, Min: 10, Max: 40, Description: "Oversold threshold; entry on upward cross"},
				{Name: "overbought", Default: 70, Min: 60, Max: 90, Description: "Overbought threshold; exit on downward cross"},
			},
		},
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// shiftOne delays raw signals by exactly one bar: the position at bar i is
// the raw signal computed at bar i-1, and the first position is always flat.
// This is the look-ahead bias guard shared by all strategies.
func shiftOne(raw []domain.Position) []domain.Position {
	out := make([]domain.Position, len(raw))
	for i := 1; i < len(raw); i++ {
		out[i] = raw[i-1]
	}
	return out
}
