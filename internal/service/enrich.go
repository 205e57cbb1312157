package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/eyeball-app/eyeball-api/internal/domain"
)

// Enrich attaches the user's current reaction state to each movie in the
// list. Reactions are batch-fetched in a single query restricted to the
// ids actually present; movies without a row default to NONE. The input
// slice is copied, not mutated, and order is preserved.
func (s *MovieService) Enrich(ctx context.Context, movies []domain.Movie, userID string) ([]domain.Movie, error) {
	if userID == "" || len(movies) == 0 {
		return movies, nil
	}

	externalIDs := make([]string, len(movies))
	for i, movie := range movies {
		externalIDs[i] = movie.ExternalID()
	}
	reactions, err := s.reactions.MapForUser(ctx, userID, externalIDs)
	if err != nil {
		return nil, err
	}

	enriched := make([]domain.Movie, len(movies))
	for i, movie := range movies {
		movie.UserReaction = reactions[movie.ExternalID()]
		enriched[i] = movie
	}
	return enriched, nil
}

// UpcomingMovies lists upcoming candidates with the user's reaction state
// attached.
func (s *MovieService) UpcomingMovies(ctx context.Context, userID string) ([]domain.Movie, error) {
	movies, err := s.provider.Upcoming(ctx)
	if err != nil {
		return nil, err
	}
	return s.Enrich(ctx, movies, userID)
}

// NowPlayingMovies lists movies currently in theatres with the user's
// reaction state attached.
func (s *MovieService) NowPlayingMovies(ctx context.Context, userID string) ([]domain.Movie, error) {
	movies, err := s.provider.NowPlaying(ctx)
	if err != nil {
		return nil, err
	}
	return s.Enrich(ctx, movies, userID)
}

// TopRatedMovies lists the provider's top-rated movies with the user's
// reaction state attached.
func (s *MovieService) TopRatedMovies(ctx context.Context, userID string) ([]domain.Movie, error) {
	movies, err := s.provider.TopRated(ctx)
	if err != nil {
		return nil, err
	}
	return s.Enrich(ctx, movies, userID)
}

// SearchMovies queries the provider by title. sortOrder is asc or desc on
// release date; anything else is rejected.
func (s *MovieService) SearchMovies(ctx context.Context, query, sortOrder, userID string) ([]domain.Movie, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query is required", ErrValidation)
	}
	switch sortOrder {
	case "":
		sortOrder = "desc"
	case "asc", "desc":
	default:
		return nil, fmt.Errorf("%w: sort order must be asc or desc", ErrValidation)
	}

	movies, err := s.provider.Search(ctx, strings.TrimSpace(query), "release_date."+sortOrder)
	if err != nil {
		return nil, err
	}
	return s.Enrich(ctx, movies, userID)
}

// MovieGenres exposes the provider's genre id to name metadata.
func (s *MovieService) MovieGenres(ctx context.Context) ([]domain.Genre, error) {
	return s.provider.GenreIndex(ctx)
}
