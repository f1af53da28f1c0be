package contracts

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateFormat is the ISO calendar-date layout used for every series key.
const DateFormat = "2006-01-02"

// FormatDate renders a time as a series key.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateFormat)
}

// ParseDate parses a series key back into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t.UTC(), nil
}

// Bar is one daily price bar for a single asset.
// Per-symbol sequences are ascending by date with no duplicate dates.
type Bar struct {
	Date  time.Time
	Close float64
}

type barJSON struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

// MarshalJSON encodes the bar date as an ISO calendar date.
func (b Bar) MarshalJSON() ([]byte, error) {
	return json.Marshal(barJSON{Date: FormatDate(b.Date), Close: b.Close})
}

// UnmarshalJSON decodes and validates the ISO date.
func (b *Bar) UnmarshalJSON(data []byte) error {
	var raw barJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	date, err := ParseDate(raw.Date)
	if err != nil {
		return err
	}
	b.Date = date
	b.Close = raw.Close
	return nil
}

// ShockPoint is one date of the correlation-shock series.
// NPairs always equals NAssets*(NAssets-1)/2, even when ShockRaw is null;
// a thin date keeps its diagnostics.
type ShockPoint struct {
	Date     string      `json:"date"`
	NAssets  int         `json:"nAssets"`
	NPairs   int         `json:"nPairs"`
	ShockRaw NullFloat64 `json:"shockRaw"`
	ShockZ   NullFloat64 `json:"shockZ"`
}

// GatePoint is one date of the externally produced regime-gate series.
// A gate is null when its underlying indicator has no reading for the date.
type GatePoint struct {
	Date      string   `json:"date"`
	TrendGate NullBool `json:"trendGate"`
	VolGate   NullBool `json:"volGate"`
}

// CompositePoint is one date of the composite signal series.
// IsSignal is null whenever any contributing gate is null for the date;
// null and false are distinct states.
type CompositePoint struct {
	Date      string      `json:"date"`
	ShockZ    NullFloat64 `json:"shockZ"`
	ShockRaw  NullFloat64 `json:"shockRaw"`
	TrendGate NullBool    `json:"trendGate"`
	VolGate   NullBool    `json:"volGate"`
	IsSignal  NullBool    `json:"isSignal"`
}

// HealthPoint is one date of the bar-cache health history.
type HealthPoint struct {
	Date     string  `json:"date"`
	Symbols  int     `json:"symbols"`
	WithBars int     `json:"withBars"`
	Coverage float64 `json:"coverage"`
}
