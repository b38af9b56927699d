package technical

import (
	"testing"

	"github.com/wonny/screener/pkg/logger"
)

func TestBollingerAnalyze_ShortSeries(t *testing.T) {
	a := NewBollingerAnalyzer(logger.NewNop())

	series := seriesFromCloses(flatCloses(59, 100))
	if sig := a.Analyze(series); sig != nil {
		t.Errorf("Analyze() on 59 bars = %+v, want nil", sig)
	}
}

func TestBollingerAnalyze_FlatSeries(t *testing.T) {
	a := NewBollingerAnalyzer(logger.NewNop())

	// A constant series has zero band width everywhere. It must not be
	// reported as a squeeze and must not panic.
	sig := a.Analyze(seriesFromCloses(flatCloses(200, 100)))
	if sig == nil {
		t.Fatal("Analyze() = nil, want signal")
	}

	if sig.IsSqueeze {
		t.Error("IsSqueeze = true on flat series, want false")
	}
	if sig.IsStrongSqueeze {
		t.Error("IsStrongSqueeze = true on flat series, want false")
	}
	if sig.PercentB != 0.5 {
		t.Errorf("PercentB = %v on degenerate bands, want 0.5", sig.PercentB)
	}
	if sig.Score != 0 {
		t.Errorf("Score = %d, want 0", sig.Score)
	}
}

func TestBollingerAnalyze_SqueezeWithVolumeSurge(t *testing.T) {
	a := NewBollingerAnalyzer(logger.NewNop())

	// Volatile first, then tightly compressed. The current band width
	// ranks at the bottom of its trailing distribution.
	closes := make([]float64, 200)
	for i := range closes {
		amp := 4.0
		if i >= 140 {
			amp = 0.5
		}
		if i%2 == 0 {
			closes[i] = 100 - amp
		} else {
			closes[i] = 100 + amp
		}
	}
	series := seriesFromCloses(closes)
	series[199].Volume = 3500
	series[199].TradedValue = series[199].Close * 3500

	sig := a.Analyze(series)
	if sig == nil {
		t.Fatal("Analyze() = nil, want signal")
	}

	if !sig.IsSqueeze || !sig.IsStrongSqueeze {
		t.Errorf("squeeze flags = (%v, %v), want (true, true)", sig.IsSqueeze, sig.IsStrongSqueeze)
	}
	if sig.BandwidthPercentile > 10 {
		t.Errorf("BandwidthPercentile = %v, want <= 10", sig.BandwidthPercentile)
	}
	if !sig.VolumeSurge || !sig.StrongVolumeSurge {
		t.Errorf("volume flags = (%v, %v), want (true, true)", sig.VolumeSurge, sig.StrongVolumeSurge)
	}
	if sig.BandBreakoutAttempt {
		t.Error("BandBreakoutAttempt = true, want false")
	}

	// 35 strong squeeze + 30 strong volume surge
	if sig.Score != 65 {
		t.Errorf("Score = %d, want 65", sig.Score)
	}
}

func TestBollingerScoreCap(t *testing.T) {
	a := NewBollingerAnalyzer(logger.NewNop())

	// 35 + 30 + 15 = 80, exactly at the cap.
	if got := a.score(true, true, true, true, true); got != 80 {
		t.Errorf("score(all) = %d, want 80", got)
	}
	if got := a.score(true, false, true, false, false); got != 45 {
		t.Errorf("score(squeeze+surge) = %d, want 45", got)
	}
	if got := a.score(false, false, false, false, false); got != 0 {
		t.Errorf("score(none) = %d, want 0", got)
	}
}
