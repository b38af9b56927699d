package fundamental

import (
	"testing"

	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/pkg/logger"
)

func recordWithGPM(byYear map[int]float64) *contracts.FundamentalRecord {
	return &contracts.FundamentalRecord{
		Ticker:            "005930",
		IsValid:           true,
		GrossMarginByYear: byYear,
	}
}

func TestGPMAnalyze_Nil(t *testing.T) {
	a := NewGPMAnalyzer(logger.NewNop())

	if sig := a.Analyze(nil); sig != nil {
		t.Error("Analyze(nil) != nil")
	}
	if sig := a.Analyze(recordWithGPM(map[int]float64{})); sig != nil {
		t.Error("Analyze(empty history) != nil")
	}
}

func TestGPMAnalyze_Tiers(t *testing.T) {
	a := NewGPMAnalyzer(logger.NewNop())

	tests := []struct {
		name    string
		history map[int]float64
		want    int
	}{
		{"excellent and stable", map[int]float64{2021: 54, 2022: 55, 2023: 55}, 25},
		{"excellent with margin drop", map[int]float64{2021: 50, 2022: 47, 2023: 55}, 15},
		{"good tier single year", map[int]float64{2023: 42}, 10},
		{"fair tier single year", map[int]float64{2023: 31}, 5},
		{"below every tier", map[int]float64{2023: 12}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := a.Analyze(recordWithGPM(tt.history))
			if sig == nil {
				t.Fatal("Analyze() = nil, want signal")
			}
			if sig.Score != tt.want {
				t.Errorf("Score = %d, want %d", sig.Score, tt.want)
			}
		})
	}
}

func TestThreeYearStableOrRising(t *testing.T) {
	tests := []struct {
		name    string
		history []float64
		want    bool
	}{
		{"rising", []float64{40, 42, 45}, true},
		{"drop over 2pp", []float64{50, 47, 55}, false},
		{"drop exactly 2pp holds", []float64{50, 48, 48}, true},
		{"two years insufficient", []float64{50, 51}, false},
		{"late drop", []float64{40, 45, 42}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := threeYearStableOrRising(tt.history); got != tt.want {
				t.Errorf("threeYearStableOrRising(%v) = %v, want %v", tt.history, got, tt.want)
			}
		})
	}
}
