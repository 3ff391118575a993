// Package badges evaluates and awards user badges against an explicit
// catalog.
package badges

import (
	"time"

	"github.com/vinverse/gamerlink-engine/internal/models"
)

// Stats is the slice of user state the eligibility rules read.
type Stats struct {
	StreakDays     int
	LastActiveDate *time.Time
}

// streak badge tiers, highest first. Only the highest tier a user qualifies
// for is ever proposed; lower tiers are implied, not awarded retroactively.
var streakTiers = []struct {
	key  string
	days int
}{
	{models.BadgeStreak100, 100},
	{models.BadgeStreak30, 30},
	{models.BadgeStreak7, 7},
}

// EligibleBadges returns the badge keys a user qualifies for right now,
// restricted to keys present in the catalog. first_login fires only on the
// day the streak starts.
func EligibleBadges(stats Stats, today time.Time, catalog map[string]models.Badge) []string {
	var eligible []string

	for _, tier := range streakTiers {
		if stats.StreakDays >= tier.days {
			if _, ok := catalog[tier.key]; ok {
				eligible = append(eligible, tier.key)
			}
			break
		}
	}

	if stats.StreakDays == 1 && stats.LastActiveDate != nil && sameDay(*stats.LastActiveDate, today) {
		if _, ok := catalog[models.BadgeFirstLogin]; ok {
			eligible = append(eligible, models.BadgeFirstLogin)
		}
	}

	return eligible
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
