package contracts

import "time"

// PriceBar is a single daily OHLCV bar. TradedValue is the won (or
// dollar) turnover for the day, close times volume when the source
// does not report it directly.
type PriceBar struct {
	Date        time.Time `json:"date"`
	Open        float64   `json:"open"`
	High        float64   `json:"high"`
	Low         float64   `json:"low"`
	Close       float64   `json:"close"`
	Volume      float64   `json:"volume"`
	TradedValue float64   `json:"traded_value"`
}

// PriceSeries is a date-ordered sequence of bars, oldest first,
// strictly increasing dates with no duplicates. Providers are
// responsible for split/dividend adjustment.
type PriceSeries []PriceBar

// Len returns the number of bars
func (s PriceSeries) Len() int {
	return len(s)
}

// Last returns the most recent bar. Callers must check Len first.
func (s PriceSeries) Last() PriceBar {
	return s[len(s)-1]
}

// Closes returns the close column
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Close
	}
	return out
}

// Volumes returns the volume column
func (s PriceSeries) Volumes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Volume
	}
	return out
}

// IsOrdered reports whether dates are strictly increasing
func (s PriceSeries) IsOrdered() bool {
	for i := 1; i < len(s); i++ {
		if !s[i].Date.After(s[i-1].Date) {
			return false
		}
	}
	return true
}
