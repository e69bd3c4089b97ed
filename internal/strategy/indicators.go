package strategy

import (
	"math"

	"saturn/internal/domain"
)

// closePrices extracts the closing prices from a bar series.
func closePrices(bars []domain.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// rollingMean returns the simple moving average of the window ending at
// index i (inclusive). The caller guarantees i+1 >= window.
func rollingMean(values []float64, i, window int) float64 {
	sum := 0.0
	for j := i - window + 1; j <= i; j++ {
		sum += values[j]
	}
	return sum / float64(window)
}

// rollingStd returns the sample standard deviation of the window ending at
// index i (inclusive). The caller guarantees i+1 >= window >= 2.
func rollingStd(values []float64, i, window int) float64 {
	mean := rollingMean(values, i, window)
	variance := 0.0
	for j := i - window + 1; j <= i; j++ {
		d := values[j] - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(window-1))
}

// rsiSeries computes the Relative Strength Index for each index of the price
// series using exponential smoothing with alpha = 2/(window+1), seeded from
// the first price change. RSI is 100 wherever the smoothed loss is zero,
// including index 0 which has no prior price.
func rsiSeries(prices []float64, window int) []float64 {
	rsi := make([]float64, len(prices))
	if len(prices) == 0 {
		return rsi
	}
	rsi[0] = 100

	alpha := 2.0 / (float64(window) + 1.0)
	var avgGain, avgLoss float64

	for i := 1; i < len(prices); i++ {
		delta := prices[i] - prices[i-1]
		gain, loss := 0.0, 0.0
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}

		if i == 1 {
			avgGain, avgLoss = gain, loss
		} else {
			avgGain += alpha * (gain - avgGain)
			avgLoss += alpha * (loss - avgLoss)
		}

		if avgLoss == 0 {
			rsi[i] = 100
		} else {
			rs := avgGain / avgLoss
			rsi[i] = 100 - 100/(1+rs)
		}
	}
	return rsi
}
