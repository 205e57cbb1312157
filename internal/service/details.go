package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/eyeball-app/eyeball-api/internal/domain"
	"github.com/eyeball-app/eyeball-api/internal/repository"
)

// MovieDetails assembles the full detail view for a movie. Details,
// credits, images, and the trailer lookup run concurrently; only the
// trailer branch is allowed to fail, degrading to no trailer. Any other
// branch failure fails the request.
func (s *MovieService) MovieDetails(ctx context.Context, externalID, userID string) (*domain.MovieDetailsView, error) {
	if externalID == "" {
		return nil, fmt.Errorf("%w: movie id is required", ErrValidation)
	}

	var (
		details *domain.MovieDetails
		credits *domain.Credits
		images  *domain.ImageSet
		trailer *domain.Video
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		details, err = s.provider.MovieDetails(gctx, externalID)
		return err
	})
	g.Go(func() error {
		var err error
		credits, err = s.provider.MovieCredits(gctx, externalID)
		return err
	})
	g.Go(func() error {
		var err error
		images, err = s.provider.MovieImages(gctx, externalID)
		return err
	})
	g.Go(func() error {
		t, err := s.provider.MovieTrailer(gctx, externalID)
		if err != nil {
			s.logger.Warn().Err(err).Str("movie", externalID).Msg("trailer lookup failed, continuing without one")
			return nil
		}
		trailer = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view := &domain.MovieDetailsView{
		MovieDetails: *details,
		Credits:      *credits,
		Images:       *images,
		Trailer:      trailer,
		Director:     findCrewByJob(credits.Crew, "Director"),
		Producer:     findCrewByJob(credits.Crew, "Producer"),
		MainCast:     topCast(credits.Cast, 5),
		Backdrops:    images.Backdrops,
	}

	s.attachListMembership(ctx, view)

	if agg, err := s.movies.Get(ctx, externalID); err == nil {
		view.ReactionsCounter = agg.ReactionsCounter
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if userID != "" {
		reactions, err := s.reactions.MapForUser(ctx, userID, []string{externalID})
		if err != nil {
			return nil, err
		}
		view.UserReaction = reactions[externalID]
	}

	return view, nil
}

// attachListMembership flags whether the movie appears in the provider's
// upcoming or now-playing lists. Best-effort: list failures leave both
// flags false.
func (s *MovieService) attachListMembership(ctx context.Context, view *domain.MovieDetailsView) {
	upcoming, err := s.provider.Upcoming(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("upcoming membership check failed")
		return
	}
	nowPlaying, err := s.provider.NowPlaying(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("now-playing membership check failed")
		return
	}
	view.Upcoming = containsMovieID(upcoming, view.ID)
	view.NowPlaying = containsMovieID(nowPlaying, view.ID)
}

// UserLikedMovies builds the "my picks" list: the user's likes, newest
// first, joined with provider details. A provider failure for a single
// movie falls back to the local aggregate rather than dropping the pick.
func (s *MovieService) UserLikedMovies(ctx context.Context, userID string) ([]domain.LikedMovie, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrValidation)
	}

	liked, err := s.reactions.ListLiked(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(liked) == 0 {
		return []domain.LikedMovie{}, nil
	}

	externalIDs := make([]string, len(liked))
	for i, reaction := range liked {
		externalIDs[i] = reaction.ExternalID
	}
	locals, err := s.movies.MapByExternalIDs(ctx, externalIDs)
	if err != nil {
		return nil, err
	}

	picks := make([]domain.LikedMovie, 0, len(liked))
	for _, reaction := range liked {
		pick := domain.LikedMovie{
			ExternalID:   reaction.ExternalID,
			LikedDate:    reaction.Date,
			UserReaction: domain.ReactionLike,
			Genres:       []domain.Genre{},
		}
		if local, ok := locals[reaction.ExternalID]; ok {
			pick.Title = local.Title
			pick.ReactionsCounter = local.ReactionsCounter
		}

		if details, err := s.provider.MovieDetails(ctx, reaction.ExternalID); err == nil {
			if details.Title != "" {
				pick.Title = details.Title
			}
			pick.Genres = details.Genres
			pick.PosterPath = details.PosterPath
			pick.ReleaseDate = details.ReleaseDate
		} else {
			s.logger.Warn().Err(err).Str("movie", reaction.ExternalID).Msg("pick details fetch failed, using local data")
		}
		if pick.Title == "" {
			pick.Title = "Unknown Movie"
		}
		picks = append(picks, pick)
	}
	return picks, nil
}

// MoviesWithReactions lists every aggregate the community has reacted to,
// enriched with provider details where the provider cooperates.
func (s *MovieService) MoviesWithReactions(ctx context.Context) ([]domain.ReactedMovie, error) {
	aggregates, err := s.movies.ListWithReactions(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.ReactedMovie, 0, len(aggregates))
	for _, agg := range aggregates {
		entry := domain.ReactedMovie{
			ExternalID:       agg.ExternalID,
			Title:            agg.Title,
			ReactionsCounter: agg.ReactionsCounter,
			DateAdded:        agg.DateAdded,
		}
		if details, err := s.provider.MovieDetails(ctx, agg.ExternalID); err == nil {
			if details.Title != "" {
				entry.Title = details.Title
			}
			entry.PosterPath = details.PosterPath
			entry.ReleaseDate = details.ReleaseDate
			entry.Genres = details.Genres
		} else {
			s.logger.Warn().Err(err).Str("movie", agg.ExternalID).Msg("reacted movie details fetch failed, using local data")
		}
		result = append(result, entry)
	}
	return result, nil
}

func findCrewByJob(crew []domain.CrewMember, job string) *domain.CrewMember {
	for _, member := range crew {
		if member.Job == job {
			m := member
			return &m
		}
	}
	return nil
}

func topCast(cast []domain.CastMember, n int) []domain.CastMember {
	if len(cast) > n {
		cast = cast[:n]
	}
	out := make([]domain.CastMember, len(cast))
	copy(out, cast)
	return out
}

func containsMovieID(movies []domain.Movie, id int) bool {
	for _, movie := range movies {
		if movie.ID == id {
			return true
		}
	}
	return false
}
