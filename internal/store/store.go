// Package store defines storage interfaces for persisting and retrieving
// domain objects: OHLCV bars and completed backtest runs.
package store

import (
	"context"
	"errors"
	"time"

	"saturn/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("store: not found")

// BarStore persists and retrieves OHLCV bar data.
type BarStore interface {
	// WriteBars persists a batch of bars under the given market.
	WriteBars(ctx context.Context, market string, bars []domain.Bar) error

	// ReadBars returns bars for the given market and symbol within
	// [start, end], ordered ascending by timestamp.
	ReadBars(ctx context.Context, market, symbol string, start, end time.Time) ([]domain.Bar, error)

	// ListSymbols returns all distinct symbols available in the given market.
	ListSymbols(ctx context.Context, market string) ([]string, error)
}

// RunStore persists completed backtest runs.
type RunStore interface {
	// SaveRun inserts a completed run.
	SaveRun(ctx context.Context, run *domain.BacktestRun) error

	// GetRun retrieves a full run, including equity curve, trades, and report.
	// Returns ErrNotFound when no run has the given ID.
	GetRun(ctx context.Context, id string) (*domain.BacktestRun, error)

	// ListRuns returns up to limit run records, newest first, without the
	// equity curve, trades, or report populated.
	ListRuns(ctx context.Context, limit int) ([]domain.BacktestRun, error)
}
