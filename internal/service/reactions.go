package service

import (
	"context"
	"fmt"
	"time"

	"github.com/eyeball-app/eyeball-api/internal/domain"
)

// RecordReaction drives the per-(user, movie) reaction state machine.
//
//	NONE  -> LIKED  create the row, lazily create the aggregate (title from
//	                the provider), bump the counter, cascade genres.
//	LIKED -> NONE   delete the row, decrement the counter (floor 0); the
//	                genre accumulation is never reversed.
//	LIKED -> LIKED  and NONE -> NONE are no-ops.
//
// The resulting state tuple is returned for every transition, changed or
// not.
func (s *MovieService) RecordReaction(ctx context.Context, userID, externalID string, reactionType domain.ReactionType, date time.Time) (domain.ReactionSummary, error) {
	if userID == "" {
		return domain.ReactionSummary{}, fmt.Errorf("%w: user id is required", ErrValidation)
	}
	if externalID == "" {
		return domain.ReactionSummary{}, fmt.Errorf("%w: movie id is required", ErrValidation)
	}
	if !reactionType.Valid() {
		return domain.ReactionSummary{}, fmt.Errorf("%w: reaction type must be 0 or 1", ErrValidation)
	}
	if date.IsZero() {
		date = s.now()
	}

	summary := domain.ReactionSummary{ExternalID: externalID, Type: reactionType, Date: date}

	if reactionType == domain.ReactionLike {
		if err := s.applyLike(ctx, userID, externalID, date); err != nil {
			return domain.ReactionSummary{}, err
		}
		return summary, nil
	}

	if err := s.applyUnlike(ctx, userID, externalID); err != nil {
		return domain.ReactionSummary{}, err
	}
	return summary, nil
}

func (s *MovieService) applyLike(ctx context.Context, userID, externalID string, date time.Time) error {
	exists, err := s.movies.Exists(ctx, externalID)
	if err != nil {
		return err
	}

	// An unseen movie needs its title before the aggregate can be created,
	// so this provider call is load-bearing; for a known movie the details
	// are only needed for the best-effort genre cascade below.
	var details *domain.MovieDetails
	if !exists {
		details, err = s.provider.MovieDetails(ctx, externalID)
		if err != nil {
			return fmt.Errorf("fetch movie for first reaction: %w", err)
		}
	}

	created, err := s.reactions.Create(ctx, domain.Reaction{
		UserID:     userID,
		ExternalID: externalID,
		Type:       domain.ReactionLike,
		Date:       date,
	})
	if err != nil {
		return err
	}
	if !created {
		// Duplicate like: no counter or preference change.
		return nil
	}

	title := ""
	if details != nil {
		title = details.Title
	}
	if _, err := s.movies.UpsertOnLike(ctx, externalID, title); err != nil {
		return err
	}

	s.cascadeGenrePreferences(ctx, userID, externalID, details)
	return nil
}

func (s *MovieService) applyUnlike(ctx context.Context, userID, externalID string) error {
	deleted, err := s.reactions.Delete(ctx, userID, externalID)
	if err != nil {
		return err
	}
	if !deleted {
		// Nothing to revert.
		return nil
	}
	return s.movies.DecrementOnUnlike(ctx, externalID)
}

// cascadeGenrePreferences feeds a fresh like into the user and community
// genre distributions. Failures here are logged and swallowed: the
// reaction write stands even when it could not contribute to its genre
// weights.
func (s *MovieService) cascadeGenrePreferences(ctx context.Context, userID, externalID string, details *domain.MovieDetails) {
	if details == nil {
		var err error
		details, err = s.provider.MovieDetails(ctx, externalID)
		if err != nil {
			s.logger.Error().Err(err).Str("movie", externalID).Msg("genre cascade skipped: details fetch failed")
			return
		}
	}
	if len(details.Genres) == 0 {
		s.logger.Debug().Str("movie", externalID).Msg("genre cascade skipped: movie has no genres")
		return
	}

	if err := s.genres.RecordUserLike(ctx, userID, details.Genres); err != nil {
		s.logger.Error().Err(err).Str("user", userID).Str("movie", externalID).Msg("user genre cascade failed")
	}
	if err := s.genres.RecordCommunityLike(ctx, details.Genres); err != nil {
		s.logger.Error().Err(err).Str("movie", externalID).Msg("community genre cascade failed")
	}
}
