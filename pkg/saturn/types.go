package saturn

import (
	"encoding/json"
	"math"
)

// BacktestRequest is the body of POST /api/backtest.
type BacktestRequest struct {
	Symbol         string             `json:"symbol"`
	Strategy       string             `json:"strategy"`
	Parameters     map[string]float64 `json:"parameters,omitempty"`
	StartDate      string             `json:"start_date"`
	EndDate        string             `json:"end_date"`
	InitialCapital float64            `json:"initial_capital,omitempty"`
}

// BacktestResult is the full result of one backtest run.
type BacktestResult struct {
	ID             string        `json:"id"`
	Symbol         string        `json:"symbol"`
	Strategy       string        `json:"strategy"`
	StartDate      string        `json:"start_date"`
	EndDate        string        `json:"end_date"`
	InitialCapital float64       `json:"initial_capital"`
	Bars           int           `json:"bars"`
	Report         *Report       `json:"report"`
	Equity         []EquityPoint `json:"equity"`
	Trades         []Trade       `json:"trades"`
}

// Report is the performance report of a run.
type Report struct {
	Returns ReturnMetrics `json:"performance_metrics"`
	Risk    RiskMetrics   `json:"risk_metrics"`
	Trades  TradeMetrics  `json:"trade_metrics"`
	Summary Summary       `json:"summary"`
}

// ReturnMetrics holds return statistics. Values are percentages except the
// ratios.
type ReturnMetrics struct {
	TotalReturn      float64 `json:"total_return"`
	AnnualizedReturn float64 `json:"annualized_return"`
	SharpeRatio      float64 `json:"sharpe_ratio"`
	SortinoRatio     float64 `json:"sortino_ratio"`
	CalmarRatio      float64 `json:"calmar_ratio"`
}

// RiskMetrics holds risk statistics. Drawdown, VaR, and CVaR are negative
// percentages.
type RiskMetrics struct {
	MaxDrawdown          float64 `json:"max_drawdown"`
	AnnualizedVolatility float64 `json:"annualized_volatility"`
	VaR95                float64 `json:"var_95"`
	CVaR95               float64 `json:"cvar_95"`
}

// TradeMetrics holds trade-quality statistics. The server serializes an
// infinite profit factor as the string "Inf"; UnmarshalJSON maps it back to
// math.Inf(1).
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

func (m *TradeMetrics) UnmarshalJSON(data []byte) error {
	type alias TradeMetrics
	aux := struct {
		*alias
		ProfitFactor json.RawMessage `json:"profit_factor"`
	}{alias: (*alias)(m)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.ProfitFactor) == 0 {
		return nil
	}
	var s string
	if json.Unmarshal(aux.ProfitFactor, &s) == nil {
		if s == "Inf" {
			m.ProfitFactor = math.Inf(1)
		}
		return nil
	}
	return json.Unmarshal(aux.ProfitFactor, &m.ProfitFactor)
}

// Summary holds the headline capital figures of a run.
type Summary struct {
	InitialCapital float64 `json:"initial_capital"`
	FinalCapital   float64 `json:"final_capital"`
	TotalPnL       float64 `json:"total_pnl"`
	TotalBars      int     `json:"total_bars"`
}

// EquityPoint is one point of the equity curve. Date is YYYY-MM-DD.
type EquityPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Trade is one simulated round-trip trade. Dates are YYYY-MM-DD.
type Trade struct {
	Direction  string  `json:"direction"`
	EntryDate  string  `json:"entry_date"`
	EntryPrice float64 `json:"entry_price"`
	ExitDate   string  `json:"exit_date"`
	ExitPrice  float64 `json:"exit_price"`
	PnLPercent float64 `json:"pnl_percent"`
	PnLDollars float64 `json:"pnl_dollars"`
}

// RunSummary is one element of the run listing.
type RunSummary struct {
	ID             string  `json:"id"`
	Symbol         string  `json:"symbol"`
	Strategy       string  `json:"strategy"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	InitialCapital float64 `json:"initial_capital"`
	CreatedAt      string  `json:"created_at"`
}

// Bar is one daily OHLCV bar. Date is YYYY-MM-DD.
type Bar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// StrategyInfo describes one strategy exposed by the server.
type StrategyInfo struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Params      []ParamInfo `json:"parameters"`
}

// ParamInfo describes one tunable strategy parameter.
type ParamInfo struct {
	Name        string  `json:"name"`
	Default     float64 `json:"default"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Description string  `json:"description"`
}
