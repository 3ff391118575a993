// Package insights estimates win probability and generates asynchronous
// per-tournament performance insights.
package insights

import (
	"github.com/vinverse/gamerlink-engine/internal/models"
)

// Probability bounds. Estimates never reach certainty in either direction.
const (
	probFloor = 0.05
	probCeil  = 0.95
)

// EstimateInput carries everything either estimation path can read.
type EstimateInput struct {
	WinRate          float64
	Consistency      float64
	XPPoints         int
	Rank             string
	TeammateWinRates []float64
}

// Estimator computes win probability. The path is fixed at construction:
// either the rank heuristic or the feature-weighted model.
type Estimator struct {
	useFeatureModel bool
}

// NewEstimator creates an estimator. useFeatureModel selects the
// feature-weighted path over the rank heuristic.
func NewEstimator(useFeatureModel bool) *Estimator {
	return &Estimator{useFeatureModel: useFeatureModel}
}

// Estimate returns the win probability for the configured path, clamped to
// [0.05, 0.95].
func (e *Estimator) Estimate(in EstimateInput) float64 {
	if e.useFeatureModel {
		return FeatureWinProbability(in.WinRate, in.Consistency, in.XPPoints)
	}
	return HeuristicWinProbability(in.WinRate, in.Rank, in.TeammateWinRates)
}

// HeuristicWinProbability blends win rate with the parsed rank tier and a
// small bonus from teammate strength.
func HeuristicWinProbability(winRate float64, rank string, teammateWinRates []float64) float64 {
	rankScore := models.ParseRankTier(rank).WinScore()

	teamBonus := 0.0
	if len(teammateWinRates) > 0 {
		sum := 0.0
		for _, wr := range teammateWinRates {
			sum += wr
		}
		teamBonus = 0.1 * (sum / float64(len(teammateWinRates)))
	}

	return clampProb(0.4*winRate + 0.5*rankScore + 0.1*teamBonus)
}

// FeatureWinProbability weighs win rate, consistency, and normalized XP.
func FeatureWinProbability(winRate, consistency float64, xpPoints int) float64 {
	xpFactor := float64(xpPoints) / 10000.0
	if xpFactor > 1 {
		xpFactor = 1
	}
	return clampProb(0.5*winRate + 0.3*consistency + 0.2*xpFactor)
}

func clampProb(p float64) float64 {
	if p < probFloor {
		return probFloor
	}
	if p > probCeil {
		return probCeil
	}
	return p
}
