// Package performance computes per-user performance metrics: win-rate,
// skill consistency, and MVP score.
package performance

import (
	"github.com/vinverse/gamerlink-engine/internal/models"
)

// Metrics bundles the three scores computed for a user.
type Metrics struct {
	WinRate     float64 `json:"win_rate"`
	Consistency float64 `json:"consistency"`
	MVPScore    float64 `json:"mvp_score"`
}

// WinRate estimates a user's win rate from XP accumulated across qualifying
// tournaments. Users without tournament history sit at the 0.5 baseline.
// The estimate is intentionally NOT clamped: values above 1.0 signal
// XP-rich outliers and downstream consumers clamp where they must.
func WinRate(xpPoints, tournamentCount int) float64 {
	if tournamentCount <= 0 {
		return 0.5
	}
	return 0.5 + float64(xpPoints)/(float64(tournamentCount)*1000.0)
}

// SkillConsistency measures performance stability on a [0, 1] scale. With
// fewer than two tournaments there is nothing to be consistent across, so
// the neutral 0.5 is returned.
func SkillConsistency(xpPoints, tournamentCount int) float64 {
	if tournamentCount < 2 {
		return 0.5
	}
	return clamp01(1.0 - float64(xpPoints%100)/100.0)
}

// MVPScore rates a tournament showing on a [0, 100] scale: 50 base, plus a
// rank tier bonus, plus XP weight capped at 20, plus 2 points per team in
// the tournament's game capped at 10.
func MVPScore(rank string, xpPoints, teamsInGame int) float64 {
	score := 50.0
	score += models.ParseRankTier(rank).MVPBonus()
	score += min(20.0, float64(xpPoints)/100.0)
	score += min(10.0, 2.0*float64(teamsInGame))
	return clamp(score, 0, 100)
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
