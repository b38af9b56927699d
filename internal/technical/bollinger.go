package technical

import (
	"math"

	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/pkg/logger"
)

// Bollinger band and squeeze parameters.
const (
	bbPeriod = 20
	bbStd    = 2.0

	squeezePercentile       = 20.0
	strongSqueezePercentile = 10.0

	volumeSurgeRatio       = 2.0
	strongVolumeSurgeRatio = 3.0

	breakoutAttemptPercentB = 0.8

	bandwidthWindow     = 60
	minBandwidthSamples = 30
)

// BollingerAnalyzer detects volatility squeezes: the current band width
// ranked against its own trailing distribution, combined with volume
// expansion and a band-top breakout attempt.
type BollingerAnalyzer struct {
	log *logger.Logger
}

// NewBollingerAnalyzer creates a BollingerAnalyzer
func NewBollingerAnalyzer(log *logger.Logger) *BollingerAnalyzer {
	return &BollingerAnalyzer{log: log}
}

func (a *BollingerAnalyzer) Name() string { return contracts.FilterBollinger }

func (a *BollingerAnalyzer) MinBars() int { return 60 }

func (a *BollingerAnalyzer) MaxScore() int { return 80 }

// Analyze evaluates the squeeze state on the latest bar. Returns nil
// when the series is too short or fewer than 30 trailing band-width
// samples are defined.
func (a *BollingerAnalyzer) Analyze(series contracts.PriceSeries) *contracts.BollingerSignal {
	n := len(series)
	if n < a.MinBars() {
		return nil
	}

	closes := series.Closes()
	volumes := series.Volumes()

	bandwidths := make([]float64, n)
	for i := 0; i < n; i++ {
		middle := sma(closes, i, bbPeriod)
		std := stddevSample(closes, i, bbPeriod)
		if math.IsNaN(middle) || math.IsNaN(std) || middle == 0 {
			bandwidths[i] = math.NaN()
			continue
		}
		upper := middle + bbStd*std
		lower := middle - bbStd*std
		bandwidths[i] = (upper - lower) / middle * 100
	}

	last := n - 1
	middle := sma(closes, last, bbPeriod)
	std := stddevSample(closes, last, bbPeriod)
	if math.IsNaN(middle) || math.IsNaN(bandwidths[last]) {
		return nil
	}
	upper := middle + bbStd*std
	lower := middle - bbStd*std

	// Percentile of the current band width within the trailing window.
	valid := 0
	below := 0
	for i := n - bandwidthWindow; i < n; i++ {
		if math.IsNaN(bandwidths[i]) {
			continue
		}
		valid++
		if bandwidths[i] < bandwidths[last] {
			below++
		}
	}
	if valid < minBandwidthSamples {
		return nil
	}
	percentile := float64(below) / float64(valid) * 100

	isStrongSqueeze := percentile <= strongSqueezePercentile
	isSqueeze := percentile <= squeezePercentile

	// A constant band-width series ranks its own value at percentile 0,
	// which is compression of nothing. Treat it as no squeeze.
	if bandwidthSpread(bandwidths, n-bandwidthWindow, n) == 0 {
		isSqueeze = false
		isStrongSqueeze = false
	}

	volumeMA := sma(volumes, last, bbPeriod)
	volumeRatio := 0.0
	if !math.IsNaN(volumeMA) && volumeMA > 0 {
		volumeRatio = volumes[last] / volumeMA
	}
	strongVolumeSurge := volumeRatio >= strongVolumeSurgeRatio
	volumeSurge := volumeRatio >= volumeSurgeRatio

	percentB := 0.5
	if upper != lower {
		percentB = (closes[last] - lower) / (upper - lower)
	}
	bandBreakoutAttempt := percentB >= breakoutAttemptPercentB

	score := a.score(isSqueeze, isStrongSqueeze, volumeSurge, strongVolumeSurge, bandBreakoutAttempt)

	return &contracts.BollingerSignal{
		UpperBand:           round2(upper),
		MiddleBand:          round2(middle),
		LowerBand:           round2(lower),
		Bandwidth:           round4(bandwidths[last]),
		PercentB:            round4(percentB),
		IsSqueeze:           isSqueeze,
		IsStrongSqueeze:     isStrongSqueeze,
		BandwidthPercentile: round2(percentile),
		VolumeRatio:         round2(volumeRatio),
		VolumeSurge:         volumeSurge,
		StrongVolumeSurge:   strongVolumeSurge,
		BandBreakoutAttempt: bandBreakoutAttempt,
		Score:               score,
	}
}

// bandwidthSpread returns max-min over the defined values in [lo, hi)
func bandwidthSpread(bandwidths []float64, lo, hi int) float64 {
	min, max := math.Inf(1), math.Inf(-1)
	for i := lo; i < hi; i++ {
		if math.IsNaN(bandwidths[i]) {
			continue
		}
		if bandwidths[i] < min {
			min = bandwidths[i]
		}
		if bandwidths[i] > max {
			max = bandwidths[i]
		}
	}
	if math.IsInf(min, 1) {
		return 0
	}
	return max - min
}

func (a *BollingerAnalyzer) score(isSqueeze, isStrongSqueeze, volumeSurge, strongVolumeSurge, bandBreakoutAttempt bool) int {
	score := 0

	if isStrongSqueeze {
		score += 35
	} else if isSqueeze {
		score += 25
	}

	if strongVolumeSurge {
		score += 30
	} else if volumeSurge {
		score += 20
	}

	if bandBreakoutAttempt {
		score += 15
	}

	if score > 80 {
		score = 80
	}
	return score
}
