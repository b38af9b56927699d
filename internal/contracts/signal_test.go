package contracts

import (
	"encoding/json"
	"testing"
)

func TestStrengthForScore(t *testing.T) {
	tests := []struct {
		score int
		want  SignalStrength
	}{
		{100, StrengthStrongBuy},
		{80, StrengthStrongBuy},
		{79, StrengthBuy},
		{50, StrengthBuy},
		{49, StrengthWeakBuy},
		{20, StrengthWeakBuy},
		{19, StrengthNeutral},
		{0, StrengthNeutral},
		{-20, StrengthNeutral},
		{-21, StrengthWeakSell},
		{-50, StrengthWeakSell},
		{-51, StrengthSell},
		{-80, StrengthSell},
		{-81, StrengthStrongSell},
	}

	for _, tt := range tests {
		if got := StrengthForScore(tt.score); got != tt.want {
			t.Errorf("StrengthForScore(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestIchimokuSignal_IsPerfect(t *testing.T) {
	tests := []struct {
		name   string
		signal IchimokuSignal
		want   bool
	}{
		{
			name: "all three core conditions",
			signal: IchimokuSignal{
				PriceAboveCloud:  true,
				TenkanAboveKijun: true,
				ChikouAbovePrice: true,
			},
			want: true,
		},
		{
			name: "cloud color does not matter",
			signal: IchimokuSignal{
				PriceAboveCloud:  true,
				TenkanAboveKijun: true,
				ChikouAbovePrice: true,
				CloudBullish:     false,
			},
			want: true,
		},
		{
			name: "missing lagging span",
			signal: IchimokuSignal{
				PriceAboveCloud:  true,
				TenkanAboveKijun: true,
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.signal.IsPerfect(); got != tt.want {
				t.Errorf("IsPerfect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAssetSignal_JSON(t *testing.T) {
	original := &AssetSignal{
		Ticker:       "005930",
		Name:         "삼성전자",
		Market:       "KOSPI",
		CurrentPrice: 72500,
		Ichimoku: &IchimokuSignal{
			PriceAboveCloud: true,
			Score:           80,
		},
		ActivePatterns: []string{PatternMAAlignment},
		BonusScore:     0,
		TotalScore:     80,
		Strength:       StrengthStrongBuy,
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	var decoded AssetSignal
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	if decoded.Ticker != original.Ticker {
		t.Errorf("Ticker mismatch: got %s, want %s", decoded.Ticker, original.Ticker)
	}
	if decoded.Ichimoku == nil || decoded.Ichimoku.Score != 80 {
		t.Errorf("Ichimoku not preserved: %+v", decoded.Ichimoku)
	}
	if decoded.Bollinger != nil {
		t.Error("absent analyzer decoded as non-nil")
	}
	if decoded.Strength != StrengthStrongBuy {
		t.Errorf("Strength = %s, want %s", decoded.Strength, StrengthStrongBuy)
	}
}
