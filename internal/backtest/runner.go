package backtest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"saturn/internal/analytics"
	"saturn/internal/domain"
	"saturn/internal/marketdata"
	"saturn/internal/strategy"
)

// Request describes one full backtest: which symbol and date range to load,
// which strategy to run over it, and how much capital to start with.
type Request struct {
	Symbol         string
	Start          time.Time
	End            time.Time
	Strategy       strategy.Spec
	InitialCapital float64
}

// Result bundles everything a single run produces.
type Result struct {
	Symbol   string
	Strategy string
	Bars     int
	Equity   []domain.EquityPoint
	Trades   []domain.Trade
	Report   *domain.PerformanceReport
}

// Runner wires the pipeline end to end: bars from the provider, positions
// from the strategy, simulation through the engine, and the analytics report
// over the outcome.
type Runner struct {
	provider       marketdata.Provider
	riskFreeRate   float64
	periodsPerYear int
	log            *slog.Logger
}

func NewRunner(provider marketdata.Provider, riskFreeRate float64, periodsPerYear int, log *slog.Logger) *Runner {
	return &Runner{
		provider:       provider,
		riskFreeRate:   riskFreeRate,
		periodsPerYear: periodsPerYear,
		log:            log,
	}
}

func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	strat, err := strategy.New(req.Strategy)
	if err != nil {
		return nil, err
	}

	bars, err := r.provider.DailyBars(ctx, req.Symbol, req.Start, req.End)
	if err != nil {
		return nil, fmt.Errorf("load bars for %s: %w", req.Symbol, err)
	}

	positions := strat.Positions(bars)
	equity, trades, err := Run(bars, positions, req.InitialCapital)
	if err != nil {
		return nil, err
	}

	report, err := analytics.Compute(equity, trades, r.riskFreeRate, r.periodsPerYear)
	if err != nil {
		return nil, err
	}

	r.log.Info("backtest complete",
		"symbol", req.Symbol,
		"strategy", strat.Name(),
		"bars", len(bars),
		"trades", len(trades),
		"final_capital", report.Summary.FinalCapital,
	)

	return &Result{
		Symbol:   req.Symbol,
		Strategy: strat.Name(),
		Bars:     len(bars),
		Equity:   equity,
		Trades:   trades,
		Report:   report,
	}, nil
}
