package models

import (
	"strings"
)

// RankTier is the enumerated competitive tier parsed from a user's free-text
// rank string. Free-text matching happens once, here, never inside scoring
// code.
type RankTier int

// Tiers ordered lowest to highest. TierUnranked means no tier could be
// parsed from the rank string.
const (
	TierUnranked RankTier = iota
	TierIron
	TierBronze
	TierSilver
	TierGold
	TierPlatinum
	TierDiamond
	TierMaster
	TierGrandmaster
	TierChallenger
)

var tierNames = map[RankTier]string{
	TierUnranked:    "Unranked",
	TierIron:        "Iron",
	TierBronze:      "Bronze",
	TierSilver:      "Silver",
	TierGold:        "Gold",
	TierPlatinum:    "Platinum",
	TierDiamond:     "Diamond",
	TierMaster:      "Master",
	TierGrandmaster: "Grandmaster",
	TierChallenger:  "Challenger",
}

// String returns the display name of the tier.
func (t RankTier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return "Unranked"
}

// parseOrder is highest-first so that "Grandmaster" is not mistaken for
// "Master" by substring matching.
var parseOrder = []RankTier{
	TierChallenger,
	TierGrandmaster,
	TierMaster,
	TierDiamond,
	TierPlatinum,
	TierGold,
	TierSilver,
	TierBronze,
	TierIron,
}

// ParseRankTier extracts a tier from a free-text rank string such as
// "Diamond II" or "gold 3" by case-insensitive substring match. Returns
// TierUnranked when nothing matches.
func ParseRankTier(rank string) RankTier {
	if rank == "" {
		return TierUnranked
	}
	lower := strings.ToLower(rank)
	for _, tier := range parseOrder {
		if strings.Contains(lower, strings.ToLower(tierNames[tier])) {
			return tier
		}
	}
	return TierUnranked
}

// MVPBonus returns the MVP score bonus contributed by the tier.
func (t RankTier) MVPBonus() float64 {
	bonuses := map[RankTier]float64{
		TierIron:        10,
		TierBronze:      15,
		TierSilver:      20,
		TierGold:        25,
		TierPlatinum:    30,
		TierDiamond:     35,
		TierMaster:      40,
		TierGrandmaster: 45,
		TierChallenger:  50,
	}
	return bonuses[t]
}

// WinScore returns the tier's contribution to the heuristic win-probability
// estimate. Unranked users score a neutral 0.5.
func (t RankTier) WinScore() float64 {
	scores := map[RankTier]float64{
		TierIron:        0.2,
		TierBronze:      0.3,
		TierSilver:      0.4,
		TierGold:        0.5,
		TierPlatinum:    0.6,
		TierDiamond:     0.7,
		TierMaster:      0.8,
		TierGrandmaster: 0.9,
		TierChallenger:  0.95,
	}
	if score, ok := scores[t]; ok {
		return score
	}
	return 0.5
}

// xpTierLadder maps inclusive XP lower bounds to display tiers, evaluated
// highest-first.
var xpTierLadder = []struct {
	minXP int
	tier  RankTier
}{
	{10000, TierChallenger},
	{7500, TierGrandmaster},
	{5000, TierMaster},
	{3000, TierDiamond},
	{2000, TierPlatinum},
	{1000, TierGold},
	{500, TierSilver},
	{0, TierBronze},
}

// XPTier returns the leaderboard display tier for an XP total.
func XPTier(xpPoints int) RankTier {
	for _, rung := range xpTierLadder {
		if xpPoints >= rung.minXP {
			return rung.tier
		}
	}
	return TierBronze
}
