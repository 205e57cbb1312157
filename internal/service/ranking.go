package service

import (
	"context"
	"fmt"

	"github.com/eyeball-app/eyeball-api/internal/domain"
	"github.com/eyeball-app/eyeball-api/internal/ranking"
)

// RankEyeballedMovies builds the personalized upcoming list: candidates
// the user has not reacted to, scored against popularity, release
// proximity, hybrid genre affinity, and local community interest, sorted
// and truncated.
func (s *MovieService) RankEyeballedMovies(ctx context.Context, userID string) ([]domain.Movie, error) {
	candidates, err := s.provider.Upcoming(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch upcoming candidates: %w", err)
	}

	reacted := map[string]struct{}{}
	if userID != "" {
		reacted, err = s.reactions.ExternalIDsForUser(ctx, userID)
		if err != nil {
			return nil, err
		}
	}

	externalIDs := make([]string, 0, len(candidates))
	for _, movie := range candidates {
		if _, ok := reacted[movie.ExternalID()]; !ok {
			externalIDs = append(externalIDs, movie.ExternalID())
		}
	}
	locals, err := s.movies.MapByExternalIDs(ctx, externalIDs)
	if err != nil {
		return nil, err
	}

	userPrefs := s.userPreferenceMap(ctx, userID)
	communityPrefs := s.communityPreferenceMap(ctx)

	return ranking.Rank(candidates, reacted, locals, userPrefs, communityPrefs, s.now(), s.rankLimit), nil
}

// TopUserGenres returns the user's strongest genres by accumulated likes.
// n <= 0 falls back to the configured default.
func (s *MovieService) TopUserGenres(ctx context.Context, userID string, n int) ([]domain.GenrePreference, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrValidation)
	}
	if n <= 0 {
		n = s.topGenresDefault
	}
	return s.genres.TopUserGenres(ctx, userID, n)
}

// userPreferenceMap is fail-soft: a user without preferences, or a store
// lookup failure, degrades to an empty map so ranking still works.
func (s *MovieService) userPreferenceMap(ctx context.Context, userID string) map[int]float64 {
	if userID == "" {
		return map[int]float64{}
	}
	prefs, err := s.genres.UserPreferenceMap(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user", userID).Msg("user preference lookup failed, ranking without it")
		return map[int]float64{}
	}
	return prefs
}

func (s *MovieService) communityPreferenceMap(ctx context.Context) map[int]float64 {
	prefs, err := s.genres.CommunityPreferenceMap(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("community preference lookup failed, ranking without it")
		return map[int]float64{}
	}
	return prefs
}
