// Package analytics turns an equity curve and a trade ledger into a
// performance report: return statistics, risk statistics, and trade-quality
// statistics. All functions here are pure; the package holds no state.
package analytics

import (
	"fmt"
	"math"
	"sort"

	"saturn/internal/domain"
)

// InsufficientDataError is returned when the equity curve is too short to
// derive returns from. At least two points are required.
type InsufficientDataError struct {
	Points int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("analytics: equity curve has %d points, need at least 2", e.Points)
}

// Compute derives the full performance report from an equity curve and the
// trades that produced it. riskFreeRate is an annual fraction (0.02 for 2%)
// and periodsPerYear is the bar frequency (252 for daily bars).
func Compute(equity []domain.EquityPoint, trades []domain.Trade, riskFreeRate float64, periodsPerYear int) (*domain.PerformanceReport, error) {
	if len(equity) < 2 {
		return nil, &InsufficientDataError{Points: len(equity)}
	}

	returns := dailyReturns(equity)
	p := float64(periodsPerYear)

	first := equity[0].Value
	last := equity[len(equity)-1].Value

	annReturn := math.Pow(1+mean(returns), p) - 1
	annVol := sampleStd(returns) * math.Sqrt(p)

	sharpe := 0.0
	if annVol > 0 {
		sharpe = (annReturn - riskFreeRate) / annVol
	}

	annDownside := downsideDeviation(returns) * math.Sqrt(p)
	sortino := 0.0
	if annDownside > 0 {
		sortino = (annReturn - riskFreeRate) / annDownside
	}

	maxDD := maxDrawdown(equity)
	calmar := 0.0
	if maxDD < 0 {
		calmar = annReturn / math.Abs(maxDD)
	}

	var95 := percentile(returns, 0.05)
	cvar95 := tailMean(returns, var95)

	report := &domain.PerformanceReport{
		Returns: domain.ReturnMetrics{
			TotalReturn:      (last/first - 1) * 100,
			AnnualizedReturn: annReturn * 100,
			SharpeRatio:      sharpe,
			SortinoRatio:     sortino,
			CalmarRatio:      calmar,
		},
		Risk: domain.RiskMetrics{
			MaxDrawdown:          maxDD * 100,
			AnnualizedVolatility: annVol * 100,
			VaR95:                var95 * 100,
			CVaR95:               cvar95 * 100,
		},
		Trades: tradeMetrics(trades),
		Summary: domain.Summary{
			InitialCapital: first,
			FinalCapital:   last,
			TotalPnL:       last - first,
			TotalBars:      len(equity),
		},
	}
	return report, nil
}

// dailyReturns is the simple period-over-period return series, one element
// shorter than the equity curve.
func dailyReturns(equity []domain.EquityPoint) []float64 {
	returns := make([]float64, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		returns[i-1] = equity[i].Value/equity[i-1].Value - 1
	}
	return returns
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStd is the sample standard deviation (n-1 denominator). Zero when
// fewer than two observations.
func sampleStd(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}

// downsideDeviation is the root mean square of the negative returns about
// zero. Zero when no return is negative.
func downsideDeviation(returns []float64) float64 {
	sumSq := 0.0
	n := 0
	for _, r := range returns {
		if r < 0 {
			sumSq += r * r
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Sqrt(sumSq / float64(n))
}

// maxDrawdown is the deepest peak-to-trough decline of the equity curve as a
// non-positive fraction.
func maxDrawdown(equity []domain.EquityPoint) float64 {
	peak := equity[0].Value
	maxDD := 0.0
	for _, pt := range equity {
		if pt.Value > peak {
			peak = pt.Value
		}
		dd := (pt.Value - peak) / peak
		if dd < maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// percentile computes the q-th quantile (q in [0,1]) with linear
// interpolation between the closest order statistics.
func percentile(values []float64, q float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	h := q * float64(len(sorted)-1)
	lo := int(math.Floor(h))
	frac := h - float64(lo)
	if lo+1 < len(sorted) {
		return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
	}
	return sorted[lo]
}

// tailMean averages the returns at or below the threshold.
func tailMean(returns []float64, threshold float64) float64 {
	sum := 0.0
	n := 0
	for _, r := range returns {
		if r <= threshold {
			sum += r
			n++
		}
	}
	if n == 0 {
		return threshold
	}
	return sum / float64(n)
}

func tradeMetrics(trades []domain.Trade) domain.TradeMetrics {
	tm := domain.TradeMetrics{TotalTrades: len(trades)}
	if len(trades) == 0 {
		return tm
	}

	var grossProfit, grossLoss float64
	var winPct, lossPct float64
	var winDollars, lossDollars float64
	var winners, losers int
	for _, t := range trades {
		switch {
		case t.PnLDollars > 0:
			winners++
			grossProfit += t.PnLDollars
			winPct += t.PnLPercent
			winDollars += t.PnLDollars
		case t.PnLDollars < 0:
			losers++
			grossLoss += -t.PnLDollars
			lossPct += -t.PnLPercent
			lossDollars += -t.PnLDollars
		}
	}

	tm.WinRate = float64(winners) / float64(len(trades)) * 100
	switch {
	case grossLoss > 0:
		tm.ProfitFactor = grossProfit / grossLoss
	case grossProfit > 0:
		tm.ProfitFactor = math.Inf(1)
	}
	if winners > 0 {
		tm.AvgWin = winPct / float64(winners)
		tm.AvgWinDollars = winDollars / float64(winners)
	}
	if losers > 0 {
		tm.AvgLoss = lossPct / float64(losers)
		tm.AvgLossDollars = lossDollars / float64(losers)
	}
	if tm.AvgLoss > 0 {
		tm.WinLossRatio = tm.AvgWin / tm.AvgLoss
	}
	return tm
}
