package technical

import (
	"math"
	"testing"
	"time"

	"github.com/wonny/screener/internal/contracts"
)

// seriesFromCloses builds a daily series where open, high, and low all
// equal the close. Volume defaults to 1000 unless overridden per bar.
func seriesFromCloses(closes []float64) contracts.PriceSeries {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make(contracts.PriceSeries, len(closes))
	for i, c := range closes {
		series[i] = contracts.PriceBar{
			Date:        start.AddDate(0, 0, i),
			Open:        c,
			High:        c,
			Low:         c,
			Close:       c,
			Volume:      1000,
			TradedValue: c * 1000,
		}
	}
	return series
}

func flatCloses(n int, price float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = price
	}
	return closes
}

func TestSMA(t *testing.T) {
	values := []float64{1, 2, 3, 4}

	if got := sma(values, 3, 2); got != 3.5 {
		t.Errorf("sma(i=3, w=2) = %v, want 3.5", got)
	}
	if got := sma(values, 3, 4); got != 2.5 {
		t.Errorf("sma(i=3, w=4) = %v, want 2.5", got)
	}
	if got := sma(values, 0, 2); !math.IsNaN(got) {
		t.Errorf("sma(i=0, w=2) = %v, want NaN", got)
	}
	if got := sma(values, 3, 5); !math.IsNaN(got) {
		t.Errorf("sma with window > len = %v, want NaN", got)
	}
}

func TestStddevSample(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	got := stddevSample(values, 7, 8)
	want := math.Sqrt(32.0 / 7.0)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("stddevSample = %v, want %v", got, want)
	}

	if got := stddevSample(values, 0, 2); !math.IsNaN(got) {
		t.Errorf("stddevSample warm-up = %v, want NaN", got)
	}
}

func TestRollingMaxMin(t *testing.T) {
	values := []float64{3, 1, 4, 1, 5}

	if got := rollingMax(values, 4, 3); got != 5 {
		t.Errorf("rollingMax = %v, want 5", got)
	}
	if got := rollingMin(values, 4, 3); got != 1 {
		t.Errorf("rollingMin = %v, want 1", got)
	}
	if got := rollingMax(values, 1, 3); !math.IsNaN(got) {
		t.Errorf("rollingMax warm-up = %v, want NaN", got)
	}
}

func TestCrossedAbove(t *testing.T) {
	tests := []struct {
		name     string
		fast     []float64
		slow     []float64
		lookback int
		want     bool
	}{
		{
			name:     "cross within lookback",
			fast:     []float64{1, 1, 3},
			slow:     []float64{2, 2, 2},
			lookback: 2,
			want:     true,
		},
		{
			name:     "already above, no cross",
			fast:     []float64{3, 3, 3},
			slow:     []float64{2, 2, 2},
			lookback: 2,
			want:     false,
		},
		{
			name:     "cross outside lookback",
			fast:     []float64{1, 3, 3, 3},
			slow:     []float64{2, 2, 2, 2},
			lookback: 1,
			want:     false,
		},
		{
			name:     "cross from equal",
			fast:     []float64{2, 2, 3},
			slow:     []float64{2, 2, 2},
			lookback: 2,
			want:     true,
		},
		{
			name:     "NaN pair skipped",
			fast:     []float64{math.NaN(), 1, 3},
			slow:     []float64{2, 2, 2},
			lookback: 2,
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := crossedAbove(tt.fast, tt.slow, tt.lookback); got != tt.want {
				t.Errorf("crossedAbove() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestArgMaxArgMin(t *testing.T) {
	values := []float64{3, 1, 4, 1, 5, 9, 2}

	if got := argMax(values, 0, 5); got != 4 {
		t.Errorf("argMax(0, 5) = %d, want 4", got)
	}
	if got := argMax(values, 0, 7); got != 5 {
		t.Errorf("argMax(0, 7) = %d, want 5", got)
	}
	// End bound is exclusive.
	if got := argMax(values, 0, 6); got != 5 {
		t.Errorf("argMax(0, 6) = %d, want 5", got)
	}
	if got := argMin(values, 2, 7); got != 3 {
		t.Errorf("argMin(2, 7) = %d, want 3", got)
	}
}

func TestClampInt(t *testing.T) {
	if got := clampInt(120, -100, 100); got != 100 {
		t.Errorf("clampInt(120) = %d, want 100", got)
	}
	if got := clampInt(-150, -100, 100); got != -100 {
		t.Errorf("clampInt(-150) = %d, want -100", got)
	}
	if got := clampInt(42, -100, 100); got != 42 {
		t.Errorf("clampInt(42) = %d, want 42", got)
	}
}
