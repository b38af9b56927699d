package technical

import (
	"math"
	"testing"

	"github.com/wonny/screener/pkg/logger"
)

func TestMAAlignmentAnalyze_ShortSeries(t *testing.T) {
	a := NewMAAlignmentAnalyzer(logger.NewNop())

	series := seriesFromCloses(flatCloses(129, 100))
	if sig := a.Analyze(series); sig != nil {
		t.Errorf("Analyze() on 129 bars = %+v, want nil", sig)
	}
}

func TestMAAlignmentAnalyze_FlatSeries(t *testing.T) {
	a := NewMAAlignmentAnalyzer(logger.NewNop())

	// All averages coincide: no strict ordering holds, no crosses.
	sig := a.Analyze(seriesFromCloses(flatCloses(200, 100)))
	if sig == nil {
		t.Fatal("Analyze() = nil, want signal")
	}

	if sig.AlignmentCount != 0 {
		t.Errorf("AlignmentCount = %d, want 0", sig.AlignmentCount)
	}
	if sig.IsPerfectAlignment || sig.IsPartialAlignment {
		t.Errorf("alignment flags = (%v, %v), want (false, false)",
			sig.IsPerfectAlignment, sig.IsPartialAlignment)
	}
	if sig.GoldenCross520 || sig.GoldenCross2060 || sig.GoldenCross60120 {
		t.Error("golden cross on flat series, want none")
	}
	if sig.Score != 0 {
		t.Errorf("Score = %d, want 0", sig.Score)
	}
}

func TestMAAlignmentAnalyze_SteadyUptrend(t *testing.T) {
	a := NewMAAlignmentAnalyzer(logger.NewNop())

	// Compounding growth keeps price > SMA5 > SMA20 > SMA60 > SMA120
	// with the price about 9-10% above the 20-bar average.
	closes := make([]float64, 200)
	for i := range closes {
		closes[i] = 100 * math.Pow(1.01, float64(i))
	}
	sig := a.Analyze(seriesFromCloses(closes))
	if sig == nil {
		t.Fatal("Analyze() = nil, want signal")
	}

	if !sig.IsPerfectAlignment {
		t.Error("IsPerfectAlignment = false, want true")
	}
	if sig.AlignmentCount != 4 {
		t.Errorf("AlignmentCount = %d, want 4", sig.AlignmentCount)
	}
	if !sig.DisparityOptimal {
		t.Errorf("DisparityOptimal = false (disparity %v), want true", sig.Disparity)
	}
	if sig.DisparityOverheated {
		t.Error("DisparityOverheated = true, want false")
	}

	// 40 perfect alignment + 10 optimal disparity
	if sig.Score != 50 {
		t.Errorf("Score = %d, want 50", sig.Score)
	}
}

func TestMAAlignmentAnalyze_SpikeOverheated(t *testing.T) {
	a := NewMAAlignmentAnalyzer(logger.NewNop())

	// Flat base with a single 30% spike on the last bar: every pair
	// crosses at once and the disparity is far past the overheat line.
	closes := flatCloses(200, 100)
	closes[199] = 130
	sig := a.Analyze(seriesFromCloses(closes))
	if sig == nil {
		t.Fatal("Analyze() = nil, want signal")
	}

	if !sig.IsPerfectAlignment {
		t.Error("IsPerfectAlignment = false, want true")
	}
	if !sig.GoldenCross520 || !sig.GoldenCross2060 || !sig.GoldenCross60120 {
		t.Errorf("golden crosses = (%v, %v, %v), want all true",
			sig.GoldenCross520, sig.GoldenCross2060, sig.GoldenCross60120)
	}
	if !sig.DisparityOverheated {
		t.Errorf("DisparityOverheated = false (disparity %v), want true", sig.Disparity)
	}

	// 40 + 10 + 15 + 20 - 20 overheat
	if sig.Score != 65 {
		t.Errorf("Score = %d, want 65", sig.Score)
	}
}
