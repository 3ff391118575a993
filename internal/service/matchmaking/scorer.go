// Package matchmaking ranks candidate teammates for a requesting user.
package matchmaking

import (
	"math"
	"strings"
)

// Component weights for the composite score.
const (
	weightElo     = 0.4
	weightRegion  = 0.2
	weightSynergy = 0.3
	weightRank    = 0.1
)

// ComponentScores breaks a candidate's total down for transparency.
type ComponentScores struct {
	EloScore     float64 `json:"elo_score"`
	RegionScore  float64 `json:"region_score"`
	SynergyScore float64 `json:"synergy_score"`
	RankScore    float64 `json:"rank_score"`
}

// EloRating folds a user's metrics into the Elo-like scalar used for
// relative comparison. It is not a calibrated rating.
func EloRating(winRate, consistency float64, xpPoints int) float64 {
	return winRate*1000 + consistency*500 + float64(xpPoints)/10
}

// EloScore maps the rating gap between requester and candidate onto [0, 1].
// A gap of 2000 or more scores zero.
func EloScore(requesterElo, candidateElo float64) float64 {
	return math.Max(0, 1-math.Abs(requesterElo-candidateElo)/2000)
}

// RegionScore rewards candidates whose active looking-for-team post matches
// the requested region.
func RegionScore(regionMatched bool) float64 {
	if regionMatched {
		return 0.3
	}
	return 0.1
}

// SynergyScore converts shared tournament history into a capped bonus.
func SynergyScore(commonTournaments int) float64 {
	return math.Min(0.3, 0.1*float64(commonTournaments))
}

// RankScore rewards an exact case-insensitive rank string match. Unranked
// users never count as matching, even against each other.
func RankScore(requesterRank, candidateRank string) float64 {
	if requesterRank != "" && candidateRank != "" && strings.EqualFold(requesterRank, candidateRank) {
		return 0.2
	}
	return 0.1
}

// TotalScore combines the components onto a 0-100 scale.
func TotalScore(c ComponentScores) float64 {
	return 100 * (weightElo*c.EloScore +
		weightRegion*c.RegionScore +
		weightSynergy*c.SynergyScore +
		weightRank*c.RankScore)
}
