package domain

import (
	"encoding/json"
	"math"
)

// MarshalJSON serializes TradeMetrics, rendering an infinite profit factor
// as the string "Inf" since JSON has no representation for infinity.
func (m TradeMetrics) MarshalJSON() ([]byte, error) {
	type alias TradeMetrics
	if !math.IsInf(m.ProfitFactor, 1) {
		return json.Marshal(alias(m))
	}
	return json.Marshal(struct {
		alias
		ProfitFactor string `json:"profit_factor"`
	}{alias: alias(m), ProfitFactor: "Inf"})
}

// UnmarshalJSON is the inverse of MarshalJSON: the string "Inf" decodes to
// +Inf, anything else must be a number.
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
	var f float64
	if err := json.Unmarshal(aux.ProfitFactor, &f); err == nil {
		m.ProfitFactor = f
		return nil
	}
	var s string
	if err := json.Unmarshal(aux.ProfitFactor, &s); err != nil {
		return err
	}
	m.ProfitFactor = math.Inf(1)
	return nil
}
