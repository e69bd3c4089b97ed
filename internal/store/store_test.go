package store

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"saturn/internal/domain"
)

func mkBar(symbol string, day time.Time, close float64) domain.Bar {
	return domain.Bar{
		Symbol:     symbol,
		Timestamp:  day,
		Open:       close - 1,
		High:       close + 1,
		Low:        close - 2,
		Close:      close,
		Volume:     1000,
		TradeCount: 10,
		VWAP:       close - 0.5,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "saturn.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteBarRoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	bars := []domain.Bar{
		mkBar("AAPL", day(2024, 1, 2), 185),
		mkBar("AAPL", day(2024, 1, 3), 186),
		mkBar("AAPL", day(2024, 1, 4), 184),
		mkBar("MSFT", day(2024, 1, 2), 370),
	}
	if err := s.WriteBars(ctx, "us", bars); err != nil {
		t.Fatalf("WriteBars: %v", err)
	}

	got, err := s.ReadBars(ctx, "us", "AAPL", day(2024, 1, 2), day(2024, 1, 3))
	if err != nil {
		t.Fatalf("ReadBars: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ReadBars returned %d bars, want 2", len(got))
	}
	if got[0].Close != 185 || got[1].Close != 186 {
		t.Errorf("closes = %v, %v, want 185, 186", got[0].Close, got[1].Close)
	}
	if !got[0].Timestamp.Before(got[1].Timestamp) {
		t.Error("bars not ordered ascending by timestamp")
	}

	// Rewriting the same bars must not duplicate them.
	if err := s.WriteBars(ctx, "us", bars[:1]); err != nil {
		t.Fatalf("WriteBars rewrite: %v", err)
	}
	got, err = s.ReadBars(ctx, "us", "AAPL", day(2024, 1, 1), day(2024, 1, 31))
	if err != nil {
		t.Fatalf("ReadBars: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("after rewrite got %d bars, want 3", len(got))
	}
}

func TestSQLiteListSymbols(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	bars := []domain.Bar{
		mkBar("MSFT", day(2024, 1, 2), 370),
		mkBar("AAPL", day(2024, 1, 2), 185),
	}
	if err := s.WriteBars(ctx, "us", bars); err != nil {
		t.Fatalf("WriteBars: %v", err)
	}

	symbols, err := s.ListSymbols(ctx, "us")
	if err != nil {
		t.Fatalf("ListSymbols: %v", err)
	}
	if len(symbols) != 2 || symbols[0] != "AAPL" || symbols[1] != "MSFT" {
		t.Errorf("symbols = %v, want [AAPL MSFT]", symbols)
	}

	symbols, err = s.ListSymbols(ctx, "cn")
	if err != nil {
		t.Fatalf("ListSymbols cn: %v", err)
	}
	if len(symbols) != 0 {
		t.Errorf("cn symbols = %v, want none", symbols)
	}
}

func TestSQLiteRunRoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run := &domain.BacktestRun{
		ID:             "run-1",
		Symbol:         "AAPL",
		Strategy:       "moving_average",
		Params:         map[string]float64{"fast_window": 10, "slow_window": 30},
		Start:          day(2024, 1, 2),
		End:            day(2024, 6, 28),
		InitialCapital: 100000,
		CreatedAt:      time.Date(2024, 7, 1, 12, 30, 0, 0, time.UTC),
		Equity: []domain.EquityPoint{
			{Date: day(2024, 1, 2), Value: 100000},
			{Date: day(2024, 1, 3), Value: 101000},
		},
		Trades: []domain.Trade{
			{Direction: domain.TradeLong, EntryDate: day(2024, 1, 2), EntryPrice: 185, ExitDate: day(2024, 1, 3), ExitPrice: 186.85, PnLPercent: 1, PnLDollars: 1000},
		},
		Report: &domain.PerformanceReport{
			Trades: domain.TradeMetrics{TotalTrades: 1, WinRate: 100, ProfitFactor: math.Inf(1)},
		},
	}
	if err := s.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := s.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Symbol != "AAPL" || got.Strategy != "moving_average" {
		t.Errorf("run = %s/%s, want AAPL/moving_average", got.Symbol, got.Strategy)
	}
	if got.Params["slow_window"] != 30 {
		t.Errorf("slow_window = %v, want 30", got.Params["slow_window"])
	}
	if len(got.Equity) != 2 || len(got.Trades) != 1 {
		t.Fatalf("equity/trades = %d/%d, want 2/1", len(got.Equity), len(got.Trades))
	}
	if !math.IsInf(got.Report.Trades.ProfitFactor, 1) {
		t.Errorf("ProfitFactor = %v, want +Inf preserved through storage", got.Report.Trades.ProfitFactor)
	}
	if !got.Start.Equal(run.Start) || !got.CreatedAt.Equal(run.CreatedAt) {
		t.Errorf("timestamps not preserved: start %v created %v", got.Start, got.CreatedAt)
	}
}

func TestSQLiteGetRunNotFound(t *testing.T) {
	s := newTestSQLite(t)

	_, err := s.GetRun(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetRun missing id: err = %v, want ErrNotFound", err)
	}
}

func TestSQLiteListRuns(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	for i, id := range []string{"run-a", "run-b", "run-c"} {
		run := &domain.BacktestRun{
			ID:             id,
			Symbol:         "AAPL",
			Strategy:       "momentum",
			Start:          day(2024, 1, 2),
			End:            day(2024, 6, 28),
			InitialCapital: 100000,
			CreatedAt:      day(2024, 7, 1).Add(time.Duration(i) * time.Hour),
			Equity:         []domain.EquityPoint{{Date: day(2024, 1, 2), Value: 100000}},
		}
		if err := s.SaveRun(ctx, run); err != nil {
			t.Fatalf("SaveRun %s: %v", id, err)
		}
	}

	runs, err := s.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("ListRuns returned %d runs, want 2", len(runs))
	}
	if runs[0].ID != "run-c" || runs[1].ID != "run-b" {
		t.Errorf("order = %s, %s, want run-c, run-b", runs[0].ID, runs[1].ID)
	}
	if runs[0].Equity != nil || runs[0].Report != nil {
		t.Error("ListRuns should not populate equity or report")
	}
}

func TestParquetBarRoundTrip(t *testing.T) {
	s := NewParquetStore(t.TempDir())
	ctx := context.Background()

	// Span a year boundary to exercise the per-year partitioning.
	bars := []domain.Bar{
		mkBar("AAPL", day(2023, 12, 29), 192),
		mkBar("AAPL", day(2024, 1, 2), 185),
		mkBar("AAPL", day(2024, 1, 3), 186),
	}
	if err := s.WriteBars(ctx, "us", bars); err != nil {
		t.Fatalf("WriteBars: %v", err)
	}

	got, err := s.ReadBars(ctx, "us", "AAPL", day(2023, 12, 1), day(2024, 1, 2))
	if err != nil {
		t.Fatalf("ReadBars: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ReadBars returned %d bars, want 2", len(got))
	}
	if got[0].Close != 192 || got[1].Close != 185 {
		t.Errorf("closes = %v, %v, want 192, 185", got[0].Close, got[1].Close)
	}

	// Overlapping rewrite merges rather than duplicates.
	if err := s.WriteBars(ctx, "us", bars[1:]); err != nil {
		t.Fatalf("WriteBars rewrite: %v", err)
	}
	got, err = s.ReadBars(ctx, "us", "AAPL", day(2023, 12, 1), day(2024, 1, 31))
	if err != nil {
		t.Fatalf("ReadBars: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("after rewrite got %d bars, want 3", len(got))
	}

	symbols, err := s.ListSymbols(ctx, "us")
	if err != nil {
		t.Fatalf("ListSymbols: %v", err)
	}
	if len(symbols) != 1 || symbols[0] != "AAPL" {
		t.Errorf("symbols = %v, want [AAPL]", symbols)
	}
}
