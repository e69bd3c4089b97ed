// Package httpapi provides the HTTP REST API for running backtests and
// browsing stored runs and bar data.
package httpapi

import (
	"time"

	"saturn/internal/domain"
)

const dateLayout = "2006-01-02"

// BacktestRequest is the body of POST /api/backtest.
type BacktestRequest struct {
	Symbol         string             `json:"symbol"`
	Strategy       string             `json:"strategy"`
	Parameters     map[string]float64 `json:"parameters,omitempty"`
	StartDate      string             `json:"start_date"`
	EndDate        string             `json:"end_date"`
	InitialCapital float64            `json:"initial_capital,omitempty"`
}

// BacktestResponse is the full result of one backtest run.
type BacktestResponse struct {
	ID             string                    `json:"id"`
	Symbol         string                    `json:"symbol"`
	Strategy       string                    `json:"strategy"`
	StartDate      string                    `json:"start_date"`
	EndDate        string                    `json:"end_date"`
	InitialCapital float64                   `json:"initial_capital"`
	Bars           int                       `json:"bars"`
	Report         *domain.PerformanceReport `json:"report"`
	Equity         []EquityPointJSON         `json:"equity"`
	Trades         []TradeJSON               `json:"trades"`
}

// EquityPointJSON is the JSON representation of one equity curve point.
type EquityPointJSON struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// TradeJSON is the JSON representation of one round-trip trade.
type TradeJSON struct {
	Direction  string  `json:"direction"`
	EntryDate  string  `json:"entry_date"`
	EntryPrice float64 `json:"entry_price"`
	ExitDate   string  `json:"exit_date"`
	ExitPrice  float64 `json:"exit_price"`
	PnLPercent float64 `json:"pnl_percent"`
	PnLDollars float64 `json:"pnl_dollars"`
}

// RunSummaryJSON is one element of GET /api/backtests.
type RunSummaryJSON struct {
	ID             string  `json:"id"`
	Symbol         string  `json:"symbol"`
	Strategy       string  `json:"strategy"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	InitialCapital float64 `json:"initial_capital"`
	CreatedAt      string  `json:"created_at"`
}

// BarJSON is the JSON representation of one daily bar.
type BarJSON struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

func convertEquity(equity []domain.EquityPoint) []EquityPointJSON {
	out := make([]EquityPointJSON, len(equity))
	for i, pt := range equity {
		out[i] = EquityPointJSON{Date: pt.Date.Format(dateLayout), Value: pt.Value}
	}
	return out
}

func convertTrades(trades []domain.Trade) []TradeJSON {
	out := make([]TradeJSON, len(trades))
	for i, tr := range trades {
		out[i] = TradeJSON{
			Direction:  string(tr.Direction),
			EntryDate:  tr.EntryDate.Format(dateLayout),
			EntryPrice: tr.EntryPrice,
			ExitDate:   tr.ExitDate.Format(dateLayout),
			ExitPrice:  tr.ExitPrice,
			PnLPercent: tr.PnLPercent,
			PnLDollars: tr.PnLDollars,
		}
	}
	return out
}

func convertBars(bars []domain.Bar) []BarJSON {
	out := make([]BarJSON, len(bars))
	for i, b := range bars {
		out[i] = BarJSON{
			Date:   b.Timestamp.Format(dateLayout),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		}
	}
	return out
}

func convertRunSummary(run domain.BacktestRun) RunSummaryJSON {
	return RunSummaryJSON{
		ID:             run.ID,
		Symbol:         run.Symbol,
		Strategy:       run.Strategy,
		StartDate:      run.Start.Format(dateLayout),
		EndDate:        run.End.Format(dateLayout),
		InitialCapital: run.InitialCapital,
		CreatedAt:      run.CreatedAt.Format(time.RFC3339),
	}
}
