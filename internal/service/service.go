// Package service holds the ranking-and-preference-learning core: the
// reaction state machine, the eyeballed-movies ranking flow, and the
// enrichment pipeline that merges a user's reaction state into movie lists.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/eyeball-app/eyeball-api/internal/domain"
	"github.com/eyeball-app/eyeball-api/internal/tmdb"
)

// ErrValidation rejects a request before any state is touched.
var ErrValidation = errors.New("service: validation failed")

// MovieStore persists the community-visible reaction counters.
type MovieStore interface {
	Exists(ctx context.Context, externalID string) (bool, error)
	UpsertOnLike(ctx context.Context, externalID, title string) (domain.MovieAggregate, error)
	DecrementOnUnlike(ctx context.Context, externalID string) error
	MapByExternalIDs(ctx context.Context, externalIDs []string) (map[string]domain.MovieAggregate, error)
	ListWithReactions(ctx context.Context) ([]domain.MovieAggregate, error)
	Get(ctx context.Context, externalID string) (domain.MovieAggregate, error)
}

// ReactionStore persists one reaction row per (user, movie) pair.
type ReactionStore interface {
	Create(ctx context.Context, reaction domain.Reaction) (bool, error)
	Delete(ctx context.Context, userID, externalID string) (bool, error)
	MapForUser(ctx context.Context, userID string, externalIDs []string) (map[string]domain.ReactionType, error)
	ExternalIDsForUser(ctx context.Context, userID string) (map[string]struct{}, error)
	ListLiked(ctx context.Context, userID string) ([]domain.Reaction, error)
}

// GenreStore persists the per-user and community genre-affinity
// distributions.
type GenreStore interface {
	RecordUserLike(ctx context.Context, userID string, genres []domain.Genre) error
	RecordCommunityLike(ctx context.Context, genres []domain.Genre) error
	UserPreferenceMap(ctx context.Context, userID string) (map[int]float64, error)
	CommunityPreferenceMap(ctx context.Context) (map[int]float64, error)
	TopUserGenres(ctx context.Context, userID string, n int) ([]domain.GenrePreference, error)
}

// Options bundles the collaborators a MovieService needs.
type Options struct {
	Provider  tmdb.Client
	Movies    MovieStore
	Reactions ReactionStore
	Genres    GenreStore
	Logger    zerolog.Logger

	// RankLimit truncates the eyeballed list; defaults to 50.
	RankLimit int
	// TopGenresDefault is used when a top-genres request gives no limit;
	// defaults to 6.
	TopGenresDefault int
	// Now is the clock, injectable for tests; defaults to time.Now.
	Now func() time.Time
}

// MovieService exposes the core operations to the routing layer.
type MovieService struct {
	provider  tmdb.Client
	movies    MovieStore
	reactions ReactionStore
	genres    GenreStore
	logger    zerolog.Logger

	rankLimit        int
	topGenresDefault int
	now              func() time.Time
}

// New constructs a MovieService.
func New(opts Options) *MovieService {
	if opts.RankLimit <= 0 {
		opts.RankLimit = 50
	}
	if opts.TopGenresDefault <= 0 {
		opts.TopGenresDefault = 6
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &MovieService{
		provider:         opts.Provider,
		movies:           opts.Movies,
		reactions:        opts.Reactions,
		genres:           opts.Genres,
		logger:           opts.Logger,
		rankLimit:        opts.RankLimit,
		topGenresDefault: opts.TopGenresDefault,
		now:              opts.Now,
	}
}
