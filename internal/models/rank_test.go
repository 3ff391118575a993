package models

import "testing"

func TestParseRankTier(t *testing.T) {
	tests := []struct {
		rank string
		want RankTier
	}{
		{"", TierUnranked},
		{"Iron IV", TierIron},
		{"gold 3", TierGold},
		{"DIAMOND II", TierDiamond},
		{"Master", TierMaster},
		{"Grandmaster", TierGrandmaster}, // must not short-circuit on "Master"
		{"grandmaster 200LP", TierGrandmaster},
		{"Challenger", TierChallenger},
		{"something else", TierUnranked},
	}

	for _, tt := range tests {
		t.Run(tt.rank, func(t *testing.T) {
			if got := ParseRankTier(tt.rank); got != tt.want {
				t.Errorf("ParseRankTier(%q) = %s, want %s", tt.rank, got, tt.want)
			}
		})
	}
}

func TestXPTierBoundaries(t *testing.T) {
	tests := []struct {
		xp   int
		want RankTier
	}{
		{0, TierBronze},
		{499, TierBronze},
		{500, TierSilver},
		{999, TierSilver},
		{1000, TierGold},
		{2000, TierPlatinum},
		{3000, TierDiamond},
		{5000, TierMaster},
		{7500, TierGrandmaster},
		{9999, TierGrandmaster},
		{10000, TierChallenger},
		{250000, TierChallenger},
	}

	for _, tt := range tests {
		if got := XPTier(tt.xp); got != tt.want {
			t.Errorf("XPTier(%d) = %s, want %s", tt.xp, got, tt.want)
		}
	}
}

func TestWinScoreDefaultsToNeutral(t *testing.T) {
	if got := TierUnranked.WinScore(); got != 0.5 {
		t.Errorf("TierUnranked.WinScore() = %v, want 0.5", got)
	}
	if got := TierChallenger.WinScore(); got != 0.95 {
		t.Errorf("TierChallenger.WinScore() = %v, want 0.95", got)
	}
}

func TestMVPBonusLadder(t *testing.T) {
	if got := TierUnranked.MVPBonus(); got != 0 {
		t.Errorf("TierUnranked.MVPBonus() = %v, want 0", got)
	}
	if got := TierIron.MVPBonus(); got != 10 {
		t.Errorf("TierIron.MVPBonus() = %v, want 10", got)
	}
	if got := TierChallenger.MVPBonus(); got != 50 {
		t.Errorf("TierChallenger.MVPBonus() = %v, want 50", got)
	}
}
