package technical

import (
	"testing"

	"github.com/wonny/screener/pkg/logger"
)

func TestIchimokuAnalyze_ShortSeries(t *testing.T) {
	a := NewIchimokuAnalyzer(logger.NewNop())

	series := seriesFromCloses(flatCloses(a.MinBars()-1, 100))
	if sig := a.Analyze(series); sig != nil {
		t.Errorf("Analyze() on %d bars = %+v, want nil", len(series), sig)
	}
}

func TestIchimokuAnalyze_Uptrend(t *testing.T) {
	a := NewIchimokuAnalyzer(logger.NewNop())

	// Strictly rising closes: price above the cloud, conversion above
	// base, lagging span above, bullish cloud. No breakout or cross
	// bonus since the trend never dipped.
	closes := make([]float64, 120)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	sig := a.Analyze(seriesFromCloses(closes))
	if sig == nil {
		t.Fatal("Analyze() = nil, want signal")
	}

	if !sig.PriceAboveCloud {
		t.Error("PriceAboveCloud = false, want true")
	}
	if !sig.TenkanAboveKijun {
		t.Error("TenkanAboveKijun = false, want true")
	}
	if !sig.ChikouAbovePrice {
		t.Error("ChikouAbovePrice = false, want true")
	}
	if !sig.CloudBullish {
		t.Error("CloudBullish = false, want true")
	}
	if sig.CloudBreakout {
		t.Error("CloudBreakout = true, want false")
	}
	if sig.GoldenCross {
		t.Error("GoldenCross = true, want false")
	}
	if !sig.IsPerfect() {
		t.Error("IsPerfect() = false, want true")
	}

	// 30 above cloud + 20 conversion + 20 lagging + 10 bullish cloud
	if sig.Score != 80 {
		t.Errorf("Score = %d, want 80", sig.Score)
	}
	if sig.AvgTradingValue <= 0 {
		t.Errorf("AvgTradingValue = %v, want positive", sig.AvgTradingValue)
	}
}

func TestIchimokuAnalyze_Downtrend(t *testing.T) {
	a := NewIchimokuAnalyzer(logger.NewNop())

	closes := make([]float64, 120)
	for i := range closes {
		closes[i] = 300 - float64(i)
	}
	sig := a.Analyze(seriesFromCloses(closes))
	if sig == nil {
		t.Fatal("Analyze() = nil, want signal")
	}

	if sig.PriceAboveCloud {
		t.Error("PriceAboveCloud = true, want false")
	}
	if sig.TenkanAboveKijun {
		t.Error("TenkanAboveKijun = true, want false")
	}
	if sig.ChikouAbovePrice {
		t.Error("ChikouAbovePrice = true, want false")
	}
	if sig.CloudBullish {
		t.Error("CloudBullish = true, want false")
	}
	if sig.IsPerfect() {
		t.Error("IsPerfect() = true, want false")
	}

	// -20 below cloud - 10 conversion - 10 lagging - 5 bearish cloud
	if sig.Score != -45 {
		t.Errorf("Score = %d, want -45", sig.Score)
	}
}

func TestIchimokuScoreBounds(t *testing.T) {
	a := NewIchimokuAnalyzer(logger.NewNop())

	// Every bullish condition at once stays within the cap.
	score := a.score(true, true, true, true, true, true, 100, 90)
	if score < -100 || score > 100 {
		t.Errorf("score = %d, out of [-100, 100]", score)
	}
	if score != 100 {
		t.Errorf("all-bullish score = %d, want 100", score)
	}

	score = a.score(false, false, false, false, false, false, 80, 90)
	if score != -45 {
		t.Errorf("all-bearish score = %d, want -45", score)
	}
}
