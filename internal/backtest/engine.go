// Package backtest simulates long-only capital allocation over a daily bar
// series driven by a strategy's position sequence, producing a mark-to-market
// equity curve and a ledger of round-trip trades.
package backtest

import (
	"fmt"
	"time"

	"saturn/internal/domain"
)

// InputError reports malformed engine input: empty or misaligned bar and
// position sequences, or a non-positive starting capital.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return "backtest input: " + e.Reason
}

// Run simulates the position sequence over the bar series starting from
// initialCapital. Entries invest all available cash at the bar's close
// (fractional shares permitted); exits liquidate the entire holding at the
// bar's close. No fees, spread, or slippage are modelled. An equity point is
// appended for every bar, and a position still open after the last bar is
// force-closed at the final close so no open positions survive the dataset.
//
// Run never mutates its inputs and is deterministic: identical inputs yield
// identical outputs.
func Run(bars []domain.Bar, positions []domain.Position, initialCapital float64) ([]domain.EquityPoint, []domain.Trade, error) {
	if len(bars) == 0 {
		return nil, nil, &InputError{Reason: "empty bar series"}
	}
	if len(bars) != len(positions) {
		return nil, nil, &InputError{Reason: fmt.Sprintf("bars (%d) and positions (%d) are not aligned", len(bars), len(positions))}
	}
	if initialCapital <= 0 {
		return nil, nil, &InputError{Reason: fmt.Sprintf("initial capital must be positive, got %v", initialCapital)}
	}

	cash := initialCapital
	shares := 0.0
	holding := false
	var entryDate time.Time
	var entryPrice float64

	equity := make([]domain.EquityPoint, 0, len(bars))
	var trades []domain.Trade

	for i, bar := range bars {
		switch {
		case positions[i] == domain.PositionLong && !holding:
			shares = cash / bar.Close
			cash = 0
			entryDate = bar.Timestamp
			entryPrice = bar.Close
			holding = true

		case positions[i] == domain.PositionFlat && holding:
			cash = shares * bar.Close
			trades = append(trades, closeTrade(entryDate, entryPrice, bar.Timestamp, bar.Close, shares))
			shares = 0
			holding = false
		}

		equity = append(equity, domain.EquityPoint{
			Date:  bar.Timestamp,
			Value: cash + shares*bar.Close,
		})
	}

	// Force close at the final bar's price.
	if holding {
		last := bars[len(bars)-1]
		trades = append(trades, closeTrade(entryDate, entryPrice, last.Timestamp, last.Close, shares))
	}

	return equity, trades, nil
}

func closeTrade(entryDate time.Time, entryPrice float64, exitDate time.Time, exitPrice, shares float64) domain.Trade {
	return domain.Trade{
		Direction:  domain.TradeLong,
		EntryDate:  entryDate,
		EntryPrice: entryPrice,
		ExitDate:   exitDate,
		ExitPrice:  exitPrice,
		PnLPercent: (exitPrice/entryPrice - 1) * 100,
		PnLDollars: shares * (exitPrice - entryPrice),
	}
}
