package domain

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"
)

func TestTypesExist(t *testing.T) {
	// Verify Bar can be instantiated with zero values.
	bar := Bar{}
	if bar.Symbol != "" {
		t.Error("expected empty Symbol for zero-value Bar")
	}
	if !bar.Timestamp.IsZero() {
		t.Error("expected zero Timestamp for zero-value Bar")
	}
	if bar.Open != 0 || bar.High != 0 || bar.Low != 0 || bar.Close != 0 {
		t.Error("expected zero OHLC values for zero-value Bar")
	}

	// Verify the position enum values match the flat=0 / long=1 encoding.
	if PositionFlat != 0 {
		t.Errorf("PositionFlat = %d, want 0", PositionFlat)
	}
	if PositionLong != 1 {
		t.Errorf("PositionLong = %d, want 1", PositionLong)
	}

	// Verify Trade can be instantiated with real values.
	entry := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	exit := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	trade := Trade{
		Direction:  TradeLong,
		EntryDate:  entry,
		EntryPrice: 100,
		ExitDate:   exit,
		ExitPrice:  110,
		PnLPercent: 10,
		PnLDollars: 1000,
	}
	if trade.Direction != "long" {
		t.Errorf("trade.Direction = %q, want %q", trade.Direction, "long")
	}

	// Verify market constants.
	if MarketUS != "us" || MarketCN != "cn" {
		t.Error("Market constants have unexpected values")
	}
}

func TestTradeMetricsMarshalFinite(t *testing.T) {
	m := TradeMetrics{TotalTrades: 3, WinRate: 66.67, ProfitFactor: 2.5}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), `"profit_factor":2.5`) {
		t.Errorf("marshalled output missing numeric profit_factor: %s", data)
	}

	var back TradeMetrics
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.ProfitFactor != 2.5 {
		t.Errorf("ProfitFactor = %v, want 2.5", back.ProfitFactor)
	}
}

func TestTradeMetricsMarshalInfinite(t *testing.T) {
	m := TradeMetrics{TotalTrades: 1, WinRate: 100, ProfitFactor: math.Inf(1)}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), `"profit_factor":"Inf"`) {
		t.Errorf("infinite profit_factor not rendered as \"Inf\": %s", data)
	}

	var back TradeMetrics
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !math.IsInf(back.ProfitFactor, 1) {
		t.Errorf("ProfitFactor = %v, want +Inf", back.ProfitFactor)
	}
}
