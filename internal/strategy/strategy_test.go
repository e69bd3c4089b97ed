package strategy

import (
	"errors"
	"testing"
	"time"

	"saturn/internal/domain"
)

// mkBars builds a daily bar series from closing prices, one bar per day
// starting 2024-01-02.
func mkBars(prices []float64) []domain.Bar {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]domain.Bar, len(prices))
	for i, p := range prices {
		bars[i] = domain.Bar{
			Symbol:    "TEST",
			Timestamp: start.AddDate(0, 0, i),
			Open:      p,
			High:      p,
			Low:       p,
			Close:     p,
		}
	}
	return bars
}

// risingPrices returns n strictly increasing closes.
func risingPrices(n int) []float64 {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}
	return prices
}

func TestNewMovingAverageCross_InvalidParams(t *testing.T) {
	cases := []struct {
		name       string
		fast, slow int
	}{
		{"fast equals slow", 20, 20},
		{"fast above slow", 50, 20},
		{"zero fast", 0, 50},
		{"negative slow", 20, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewMovingAverageCross(tc.fast, tc.slow)
			var perr *ParameterError
			if !errors.As(err, &perr) {
				t.Fatalf("NewMovingAverageCross(%d, %d) error = %v, want *ParameterError", tc.fast, tc.slow, err)
			}
		})
	}
}

func TestNewBollingerReversion_InvalidParams(t *testing.T) {
	if _, err := NewBollingerReversion(1, 2); err == nil {
		t.Error("window=1 should be rejected")
	}
	if _, err := NewBollingerReversion(20, 0); err == nil {
		t.Error("num_std=0 should be rejected")
	}
	if _, err := NewBollingerReversion(20, -1.5); err == nil {
		t.Error("negative num_std should be rejected")
	}
}

func TestNewRSIMomentum_InvalidParams(t *testing.T) {
	cases := []struct {
		name                 string
		window               int
		oversold, overbought float64
	}{
		{"zero window", 0, 30, 70},
		{"oversold at zero", 14, 0, 70},
		{"overbought at hundred", 14, 30, 100},
		{"thresholds inverted", 14, 70, 30},
		{"thresholds equal", 14, 50, 50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRSIMomentum(tc.window, tc.oversold, tc.overbought)
			var perr *ParameterError
			if !errors.As(err, &perr) {
				t.Fatalf("error = %v, want *ParameterError", err)
			}
		})
	}
}

func TestNew_UnknownStrategy(t *testing.T) {
	_, err := New(Spec{ID: "martingale"})
	var perr *ParameterError
	if !errors.As(err, &perr) {
		t.Fatalf("New with unknown id: error = %v, want *ParameterError", err)
	}
}

func TestNew_Defaults(t *testing.T) {
	for _, id := range []string{IDMovingAverage, IDMeanReversion, IDMomentum} {
		s, err := New(Spec{ID: id})
		if err != nil {
			t.Fatalf("New(%q) with default params: %v", id, err)
		}
		if s.Name() != id {
			t.Errorf("Name() = %q, want %q", s.Name(), id)
		}
	}
}

func TestPositionsAlignment(t *testing.T) {
	// Every strategy must return one position per bar with the first bar
	// flat, regardless of the price path.
	prices := []float64{100, 102, 99, 101, 97, 103, 104, 98, 96, 105, 107, 101}
	bars := mkBars(prices)

	strategies := []Strategy{
		mustStrategy(t)(NewMovingAverageCross(2, 4)),
		mustStrategy(t)(NewBollingerReversion(4, 1.5)),
		mustStrategy(t)(NewRSIMomentum(3, 30, 70)),
	}

	for _, s := range strategies {
		positions := s.Positions(bars)
		if len(positions) != len(bars) {
			t.Errorf("%s: len(positions) = %d, want %d", s.Name(), len(positions), len(bars))
		}
		if positions[0] != domain.PositionFlat {
			t.Errorf("%s: positions[0] = %d, want flat", s.Name(), positions[0])
		}
	}
}

func TestPositionsEmptyAndShortInput(t *testing.T) {
	s := mustStrategy(t)(NewMovingAverageCross(20, 50))

	if got := s.Positions(nil); len(got) != 0 {
		t.Errorf("Positions(nil) returned %d positions, want 0", len(got))
	}

	// Fewer bars than the slow window: everything stays flat.
	positions := s.Positions(mkBars(risingPrices(30)))
	for i, p := range positions {
		if p != domain.PositionFlat {
			t.Errorf("positions[%d] = %d, want flat with insufficient history", i, p)
		}
	}
}

func TestMovingAverageCross_MonotoneSeries(t *testing.T) {
	// On a strictly increasing series the fast average leads the slow one as
	// soon as both are defined: long from bar slow_window onward (one bar
	// after the first raw signal) and never flat again.
	s := mustStrategy(t)(NewMovingAverageCross(20, 50))
	positions := s.Positions(mkBars(risingPrices(300)))

	for i := 0; i < 50; i++ {
		if positions[i] != domain.PositionFlat {
			t.Fatalf("positions[%d] = %d, want flat before history accrues", i, positions[i])
		}
	}
	for i := 50; i < 300; i++ {
		if positions[i] != domain.PositionLong {
			t.Fatalf("positions[%d] = %d, want long on monotone uptrend", i, positions[i])
		}
	}
}

func TestBollingerReversion_ConstantSeries(t *testing.T) {
	// Zero standard deviation collapses both bands onto the price; the exit
	// test wins the tie, so a constant series never opens a position.
	s := mustStrategy(t)(NewBollingerReversion(20, 2))
	prices := make([]float64, 120)
	for i := range prices {
		prices[i] = 250
	}

	for i, p := range s.Positions(mkBars(prices)) {
		if p != domain.PositionFlat {
			t.Fatalf("positions[%d] = %d, want flat on constant series", i, p)
		}
	}
}

func TestBollingerReversion_Hysteresis(t *testing.T) {
	// The dip at bar 5 pierces the lower band (entry), bars 6-7 sit inside
	// the bands (state carries forward), and the spike at bar 8 pierces the
	// upper band (exit). Positions lag the raw state by one bar.
	prices := []float64{100, 101, 100, 101, 100, 80, 95, 96, 120, 100}
	s := mustStrategy(t)(NewBollingerReversion(5, 1))

	got := s.Positions(mkBars(prices))
	want := []domain.Position{0, 0, 0, 0, 0, 0, 1, 1, 1, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("positions[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestRSIMomentum_OscillatingSeries(t *testing.T) {
	// A series opening with a drop seeds RSI near zero; the oscillation
	// pulls it up through the oversold threshold exactly once, and it then
	// hovers near 50 without ever crossing down through overbought. The
	// position goes long once and stays long to the end.
	prices := make([]float64, 60)
	for i := range prices {
		if i%2 == 0 {
			prices[i] = 100
		} else {
			prices[i] = 90
		}
	}
	s := mustStrategy(t)(NewRSIMomentum(14, 30, 70))
	positions := s.Positions(mkBars(prices))

	first := -1
	for i, p := range positions {
		if p == domain.PositionLong {
			first = i
			break
		}
	}
	if first < 0 {
		t.Fatal("expected at least one long position on oscillating series")
	}
	for i := first; i < len(positions); i++ {
		if positions[i] != domain.PositionLong {
			t.Errorf("positions[%d] = %d, want long after first entry", i, positions[i])
		}
	}
}

func TestRSIMomentum_RisingSeriesNeverEnters(t *testing.T) {
	// With no losses RSI pins at 100 and never crosses upward through the
	// oversold threshold, so the strategy stays flat throughout.
	s := mustStrategy(t)(NewRSIMomentum(14, 30, 70))
	for i, p := range s.Positions(mkBars(risingPrices(100))) {
		if p != domain.PositionFlat {
			t.Fatalf("positions[%d] = %d, want flat on monotone uptrend", i, p)
		}
	}
}

func TestRSISeries(t *testing.T) {
	// No prior price: RSI starts at 100 by convention.
	rsi := rsiSeries([]float64{100, 90, 100}, 14)
	if rsi[0] != 100 {
		t.Errorf("rsi[0] = %v, want 100", rsi[0])
	}
	// First change is a pure loss: RSI drops to 0.
	if rsi[1] != 0 {
		t.Errorf("rsi[1] = %v, want 0", rsi[1])
	}
	// Then a gain pulls it back above zero but below 50.
	if rsi[2] <= 0 || rsi[2] >= 50 {
		t.Errorf("rsi[2] = %v, want in (0, 50)", rsi[2])
	}
}

func TestList(t *testing.T) {
	infos := List()
	if len(infos) != 3 {
		t.Fatalf("List returned %d strategies, want 3", len(infos))
	}
	for _, info := range infos {
		if len(info.Params) == 0 {
			t.Errorf("strategy %q has no parameter metadata", info.ID)
		}
		if _, err := New(Spec{ID: info.ID}); err != nil {
			t.Errorf("listed strategy %q is not constructible: %v", info.ID, err)
		}
	}
}

// mustStrategy returns a helper that unwraps a constructor result, failing
// the test on error: mustStrategy(t)(NewMovingAverageCross(2, 4)).
func mustStrategy(t *testing.T) func(Strategy, error) Strategy {
	return func(s Strategy, err error) Strategy {
		t.Helper()
		if err != nil {
			t.Fatalf("constructing strategy: %v", err)
		}
		return s
	}
}
