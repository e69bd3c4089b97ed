package domain

import "time"

// BacktestRun is a persisted record of one completed backtest: the request
// that produced it plus the full simulation output. Listing endpoints may
// return runs without Equity, Trades, and Report populated.
type BacktestRun struct {
	ID             string             `json:"id"`
	Symbol         string             `json:"symbol"`
	Strategy       string             `json:"strategy"`
	Params         map[string]float64 `json:"parameters,omitempty"`
	Start          time.Time          `json:"start"`
	End            time.Time          `json:"end"`
	InitialCapital float64            `json:"initial_capital"`
	CreatedAt      time.Time          `json:"created_at"`

	Equity []EquityPoint      `json:"equity,omitempty"`
	Trades []Trade            `json:"trades,omitempty"`
	Report *PerformanceReport `json:"report,omitempty"`
}
