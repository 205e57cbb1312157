// Package ranking scores candidate movies against popularity, release-date
// proximity, hybrid genre affinity, and local community interest.
package ranking

import (
	"math"
	"sort"
	"time"

	"github.com/eyeball-app/eyeball-api/internal/domain"
)

const (
	// userShare/communityShare blend per-user and community genre affinity.
	userShare      = 0.7
	communityShare = 0.3

	genreScale          = 60.0
	communityScale      = 15.0
	communitySaturation = 10.0
)

// Score computes the ranking weight for a single candidate. It is a pure
// function of its inputs; local may be nil when this service holds no
// aggregate for the movie. The result is rounded to 2 decimals.
func Score(movie domain.Movie, local *domain.MovieAggregate, userPrefs, communityPrefs map[int]float64, now time.Time) float64 {
	weight := movie.Popularity / 1000 * 20 / 100

	if release, ok := movie.ReleaseTime(); ok {
		days := math.Abs(release.Sub(now).Hours() / 24)
		switch {
		case days <= 30:
			weight += 4
		case days <= 60:
			weight += 2
		case days <= 90:
			weight += 1
		}
	}

	if len(movie.GenreIDs) > 0 {
		var userSum, communitySum float64
		matched := 0
		for _, genreID := range movie.GenreIDs {
			userPref := userPrefs[genreID]
			communityPref := communityPrefs[genreID]
			if userPref > 0 || communityPref > 0 {
				userSum += userPref
				communitySum += communityPref
				matched++
			}
		}
		if matched > 0 {
			avgUser := userSum / float64(matched)
			avgCommunity := communitySum / float64(matched)
			hybrid := avgUser*userShare + avgCommunity*communityShare
			weight += hybrid * genreScale
		}
	}

	if local != nil && local.ReactionsCounter > 0 {
		weight += math.Min(float64(local.ReactionsCounter)/communitySaturation, 1) * communityScale
	}

	return math.Round(weight*100) / 100
}

// Rank filters out movies the user has already reacted to, scores the
// remainder, sorts descending by weight (stable, so equal weights keep
// provider order), and truncates to limit. Each returned movie carries its
// weight and the local reaction counter; the input slice is not modified.
func Rank(candidates []domain.Movie, reacted map[string]struct{}, locals map[string]domain.MovieAggregate, userPrefs, communityPrefs map[int]float64, now time.Time, limit int) []domain.Movie {
	ranked := make([]domain.Movie, 0, len(candidates))
	for _, movie := range candidates {
		externalID := movie.ExternalID()
		if _, ok := reacted[externalID]; ok {
			continue
		}

		var localPtr *domain.MovieAggregate
		if local, ok := locals[externalID]; ok {
			localCopy := local
			localPtr = &localCopy
			movie.ReactionsCounter = local.ReactionsCounter
		} else {
			movie.ReactionsCounter = 0
		}

		movie.Weight = Score(movie, localPtr, userPrefs, communityPrefs, now)
		movie.UserReaction = domain.ReactionNone
		ranked = append(ranked, movie)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Weight > ranked[j].Weight
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
