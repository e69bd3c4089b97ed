// Package domain defines the core data types shared across the saturn
// platform: market data bars, per-bar positions, simulated trades, equity
// curves, and performance reports.
package domain

import "time"

// Market identifies the market a symbol trades in.
type Market string

const (
	MarketUS Market = "us"
	MarketCN Market = "cn"
)

// Bar is a single daily OHLCV bar. Bars are immutable once produced by a
// data provider and are ordered ascending by Timestamp with the date as the
// natural key.
type Bar struct {
	Symbol     string
	Timestamp  time.Time
	Open       float64
	High       float64
	Low        float64
	Close      float64
	Volume     int64
	TradeCount int64
	VWAP       float64
}

// Position is the per-bar holding decision produced by a strategy. The
// system is long-only: a position is either flat or long.
type Position int

const (
	PositionFlat Position = 0
	PositionLong Position = 1
)

// TradeDirection is the side of a simulated round-trip trade.
type TradeDirection string

// TradeLong is the only direction the simulator produces; short trades are
// out of scope.
const TradeLong TradeDirection = "long"

// Trade is a completed round-trip produced by the backtest engine: opened
// when the position transitions flat to long, closed on the transition back
// to flat (or forced closed at the final bar). Trades are immutable once
// closed and ordered by EntryDate.
type Trade struct {
	Direction  TradeDirection
	EntryDate  time.Time
	EntryPrice float64
	ExitDate   time.Time
	ExitPrice  float64
	PnLPercent float64
	PnLDollars float64
}

// EquityPoint is the mark-to-market portfolio value at the close of one bar.
type EquityPoint struct {
	Date  time.Time
	Value float64
}

// ReturnMetrics groups the return-based statistics of a performance report.
// All values are percentages except the ratios.
type ReturnMetrics struct {
	TotalReturn      float64 `json:"total_return"`
	AnnualizedReturn float64 `json:"annualized_return"`
	SharpeRatio      float64 `json:"sharpe_ratio"`
	SortinoRatio     float64 `json:"sortino_ratio"`
	CalmarRatio      float64 `json:"calmar_ratio"`
}

// RiskMetrics groups the risk statistics of a performance report. Drawdown,
// VaR, and CVaR are negative percentages.
type RiskMetrics struct {
	MaxDrawdown          float64 `json:"max_drawdown"`
	AnnualizedVolatility float64 `json:"annualized_volatility"`
	VaR95                float64 `json:"var_95"`
	CVaR95               float64 `json:"cvar_95"`
}

// TradeMetrics groups the trade-quality statistics of a performance report.
// ProfitFactor is +Inf when there are winning trades and no losing ones; it
// serializes as the string "Inf" in that case.
type TradeMetrics struct {
	TotalTrades    int     `json:"total_trades"`
	WinRate        float64 `json:"win_rate"`
	ProfitFactor   float64 `json:"profit_factor"`
	AvgWin         float64 `json:"avg_win"`
	AvgLoss        float64 `json:"avg_loss"`
	AvgWinDollars  float64 `json:"avg_win_dollars"`
	AvgLossDollars float64 `json:"avg_loss_dollars"`
	WinLossRatio   float64 `json:"win_loss_ratio"`
}

// Summary holds the headline capital figures of a backtest run.
type Summary struct {
	InitialCapital float64 `json:"initial_capital"`
	FinalCapital   float64 `json:"final_capital"`
	TotalPnL       float64 `json:"total_pnl"`
	TotalBars      int     `json:"total_bars"`
}

// PerformanceReport is the structured result of the analytics stage. It is
// derived, read-only output and is never mutated after construction.
type PerformanceReport struct {
	Returns ReturnMetrics `json:"performance_metrics"`
	Risk    RiskMetrics   `json:"risk_metrics"`
	Trades  TradeMetrics  `json:"trade_metrics"`
	Summary Summary       `json:"summary"`
}
