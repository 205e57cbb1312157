package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/eyeball-app/eyeball-api/internal/domain"
	"github.com/eyeball-app/eyeball-api/internal/repository"
)

var testNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

// --- fakes ---

type fakeProvider struct {
	upcoming      []domain.Movie
	upcomingErr   error
	nowPlaying    []domain.Movie
	nowPlayingErr error
	topRated      []domain.Movie
	searched      []domain.Movie
	lastSortBy    string

	details    map[string]*domain.MovieDetails
	detailsErr error
	credits    *domain.Credits
	creditsErr error
	images     *domain.ImageSet
	imagesErr  error
	trailer    *domain.Video
	trailerErr error
	genres     []domain.Genre

	detailCalls int
}

func (f *fakeProvider) Upcoming(ctx context.Context) ([]domain.Movie, error) {
	return f.upcoming, f.upcomingErr
}

func (f *fakeProvider) NowPlaying(ctx context.Context) ([]domain.Movie, error) {
	return f.nowPlaying, f.nowPlayingErr
}

func (f *fakeProvider) TopRated(ctx context.Context) ([]domain.Movie, error) {
	return f.topRated, nil
}

func (f *fakeProvider) Search(ctx context.Context, query, sortBy string) ([]domain.Movie, error) {
	f.lastSortBy = sortBy
	return f.searched, nil
}

func (f *fakeProvider) MovieDetails(ctx context.Context, id string) (*domain.MovieDetails, error) {
	f.detailCalls++
	if f.detailsErr != nil {
		return nil, f.detailsErr
	}
	details, ok := f.details[id]
	if !ok {
		return nil, errors.New("tmdb: not found")
	}
	return details, nil
}

func (f *fakeProvider) MovieCredits(ctx context.Context, id string) (*domain.Credits, error) {
	if f.creditsErr != nil {
		return nil, f.creditsErr
	}
	if f.credits == nil {
		return &domain.Credits{}, nil
	}
	return f.credits, nil
}

func (f *fakeProvider) MovieImages(ctx context.Context, id string) (*domain.ImageSet, error) {
	if f.imagesErr != nil {
		return nil, f.imagesErr
	}
	if f.images == nil {
		return &domain.ImageSet{}, nil
	}
	return f.images, nil
}

func (f *fakeProvider) MovieTrailer(ctx context.Context, id string) (*domain.Video, error) {
	if f.trailerErr != nil {
		return nil, f.trailerErr
	}
	return f.trailer, nil
}

func (f *fakeProvider) GenreIndex(ctx context.Context) ([]domain.Genre, error) {
	return f.genres, nil
}

type fakeMovieStore struct {
	aggregates map[string]*domain.MovieAggregate
}

func newFakeMovieStore() *fakeMovieStore {
	return &fakeMovieStore{aggregates: map[string]*domain.MovieAggregate{}}
}

func (f *fakeMovieStore) Exists(ctx context.Context, externalID string) (bool, error) {
	_, ok := f.aggregates[externalID]
	return ok, nil
}

func (f *fakeMovieStore) UpsertOnLike(ctx context.Context, externalID, title string) (domain.MovieAggregate, error) {
	agg, ok := f.aggregates[externalID]
	if !ok {
		agg = &domain.MovieAggregate{ExternalID: externalID, Title: title, DateAdded: testNow}
		f.aggregates[externalID] = agg
	}
	agg.ReactionsCounter++
	return *agg, nil
}

func (f *fakeMovieStore) DecrementOnUnlike(ctx context.Context, externalID string) error {
	if agg, ok := f.aggregates[externalID]; ok && agg.ReactionsCounter > 0 {
		agg.ReactionsCounter--
	}
	return nil
}

func (f *fakeMovieStore) MapByExternalIDs(ctx context.Context, externalIDs []string) (map[string]domain.MovieAggregate, error) {
	result := map[string]domain.MovieAggregate{}
	for _, id := range externalIDs {
		if agg, ok := f.aggregates[id]; ok {
			result[id] = *agg
		}
	}
	return result, nil
}

func (f *fakeMovieStore) ListWithReactions(ctx context.Context) ([]domain.MovieAggregate, error) {
	var result []domain.MovieAggregate
	for _, agg := range f.aggregates {
		if agg.ReactionsCounter > 0 {
			result = append(result, *agg)
		}
	}
	return result, nil
}

func (f *fakeMovieStore) Get(ctx context.Context, externalID string) (domain.MovieAggregate, error) {
	if agg, ok := f.aggregates[externalID]; ok {
		return *agg, nil
	}
	return domain.MovieAggregate{}, repository.ErrNotFound
}

type fakeReactionStore struct {
	rows     map[string]domain.Reaction
	mapCalls int
}

func newFakeReactionStore() *fakeReactionStore {
	return &fakeReactionStore{rows: map[string]domain.Reaction{}}
}

func reactionKey(userID, externalID string) string {
	return userID + "|" + externalID
}

func (f *fakeReactionStore) Create(ctx context.Context, reaction domain.Reaction) (bool, error) {
	key := reactionKey(reaction.UserID, reaction.ExternalID)
	if _, ok := f.rows[key]; ok {
		return false, nil
	}
	f.rows[key] = reaction
	return true, nil
}

func (f *fakeReactionStore) Delete(ctx context.Context, userID, externalID string) (bool, error) {
	key := reactionKey(userID, externalID)
	if _, ok := f.rows[key]; !ok {
		return false, nil
	}
	delete(f.rows, key)
	return true, nil
}

func (f *fakeReactionStore) MapForUser(ctx context.Context, userID string, externalIDs []string) (map[string]domain.ReactionType, error) {
	f.mapCalls++
	result := map[string]domain.ReactionType{}
	for _, id := range externalIDs {
		if reaction, ok := f.rows[reactionKey(userID, id)]; ok {
			result[id] = reaction.Type
		}
	}
	return result, nil
}

func (f *fakeReactionStore) ExternalIDsForUser(ctx context.Context, userID string) (map[string]struct{}, error) {
	result := map[string]struct{}{}
	for _, reaction := range f.rows {
		if reaction.UserID == userID {
			result[reaction.ExternalID] = struct{}{}
		}
	}
	return result, nil
}

func (f *fakeReactionStore) ListLiked(ctx context.Context, userID string) ([]domain.Reaction, error) {
	var result []domain.Reaction
	for _, reaction := range f.rows {
		if reaction.UserID == userID && reaction.Type == domain.ReactionLike {
			result = append(result, reaction)
		}
	}
	return result, nil
}

type fakeGenreStore struct {
	userLikes      map[string]map[int]int
	userTotals     map[string]int
	communityLikes map[int]int
	userPrefs      map[int]float64
	communityPrefs map[int]float64
	prefsErr       error
}

func newFakeGenreStore() *fakeGenreStore {
	return &fakeGenreStore{
		userLikes:      map[string]map[int]int{},
		userTotals:     map[string]int{},
		communityLikes: map[int]int{},
	}
}

func (f *fakeGenreStore) RecordUserLike(ctx context.Context, userID string, genres []domain.Genre) error {
	if f.userLikes[userID] == nil {
		f.userLikes[userID] = map[int]int{}
	}
	for _, genre := range genres {
		f.userLikes[userID][genre.ID]++
	}
	f.userTotals[userID] += len(genres)
	return nil
}

func (f *fakeGenreStore) RecordCommunityLike(ctx context.Context, genres []domain.Genre) error {
	for _, genre := range genres {
		f.communityLikes[genre.ID]++
	}
	return nil
}

func (f *fakeGenreStore) UserPreferenceMap(ctx context.Context, userID string) (map[int]float64, error) {
	if f.prefsErr != nil {
		return nil, f.prefsErr
	}
	return f.userPrefs, nil
}

func (f *fakeGenreStore) CommunityPreferenceMap(ctx context.Context) (map[int]float64, error) {
	if f.prefsErr != nil {
		return nil, f.prefsErr
	}
	return f.communityPrefs, nil
}

func (f *fakeGenreStore) TopUserGenres(ctx context.Context, userID string, n int) ([]domain.GenrePreference, error) {
	prefs := make([]domain.GenrePreference, 0, n)
	for genreID, likes := range f.userLikes[userID] {
		prefs = append(prefs, domain.GenrePreference{GenreID: genreID, TotalLikes: likes})
	}
	if len(prefs) > n {
		prefs = prefs[:n]
	}
	return prefs, nil
}

type fixture struct {
	provider  *fakeProvider
	movies    *fakeMovieStore
	reactions *fakeReactionStore
	genres    *fakeGenreStore
	service   *MovieService
}

func newFixture() *fixture {
	provider := &fakeProvider{
		details: map[string]*domain.MovieDetails{
			"100": {
				ID:    100,
				Title: "Inside Out 2",
				Genres: []domain.Genre{
					{ID: 16, Name: "Animation"},
					{ID: 35, Name: "Comedy"},
				},
			},
		},
	}
	movies := newFakeMovieStore()
	reactions := newFakeReactionStore()
	genres := newFakeGenreStore()
	svc := New(Options{
		Provider:  provider,
		Movies:    movies,
		Reactions: reactions,
		Genres:    genres,
		Logger:    zerolog.Nop(),
		Now:       func() time.Time { return testNow },
	})
	return &fixture{provider: provider, movies: movies, reactions: reactions, genres: genres, service: svc}
}

// --- reaction state machine ---

func TestLikeCreatesAggregateAndCascades(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	summary, err := f.service.RecordReaction(ctx, "u1", "100", domain.ReactionLike, testNow)
	if err != nil {
		t.Fatalf("RecordReaction() error: %v", err)
	}
	if summary.ExternalID != "100" || summary.Type != domain.ReactionLike {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	agg := f.movies.aggregates["100"]
	if agg == nil {
		t.Fatalf("aggregate not created")
	}
	if agg.ReactionsCounter != 1 {
		t.Fatalf("counter = %d, want 1", agg.ReactionsCounter)
	}
	if agg.Title != "Inside Out 2" {
		t.Fatalf("title = %q, want provider title", agg.Title)
	}
	if f.genres.userLikes["u1"][16] != 1 || f.genres.userLikes["u1"][35] != 1 {
		t.Fatalf("user genre cascade missing: %+v", f.genres.userLikes["u1"])
	}
	if f.genres.userTotals["u1"] != 2 {
		t.Fatalf("user total = %d, want 2", f.genres.userTotals["u1"])
	}
	if f.genres.communityLikes[16] != 1 || f.genres.communityLikes[35] != 1 {
		t.Fatalf("community cascade missing: %+v", f.genres.communityLikes)
	}
}

func TestDuplicateLikeIsIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := f.service.RecordReaction(ctx, "u1", "100", domain.ReactionLike, testNow); err != nil {
			t.Fatalf("like %d error: %v", i+1, err)
		}
	}

	if got := f.movies.aggregates["100"].ReactionsCounter; got != 1 {
		t.Fatalf("counter = %d, want 1 after duplicate like", got)
	}
	if got := f.genres.userTotals["u1"]; got != 2 {
		t.Fatalf("user genre total = %d, want 2 after duplicate like", got)
	}
	if got := f.genres.communityLikes[16]; got != 1 {
		t.Fatalf("community likes = %d, want 1 after duplicate like", got)
	}
}

func TestLikeThenUnlikeLeavesNoRecordAndRestoresCounter(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.service.RecordReaction(ctx, "u1", "100", domain.ReactionLike, testNow); err != nil {
		t.Fatalf("like error: %v", err)
	}
	summary, err := f.service.RecordReaction(ctx, "u1", "100", domain.ReactionNone, testNow)
	if err != nil {
		t.Fatalf("unlike error: %v", err)
	}
	if summary.Type != domain.ReactionNone {
		t.Fatalf("summary type = %v, want none", summary.Type)
	}

	if len(f.reactions.rows) != 0 {
		t.Fatalf("reaction rows remain: %+v", f.reactions.rows)
	}
	if got := f.movies.aggregates["100"].ReactionsCounter; got != 0 {
		t.Fatalf("counter = %d, want 0", got)
	}
}

func TestUnlikeKeepsGenreTotals(t *testing.T) {
	// Accumulation is one-directional: unliking never decays the learned
	// genre affinity. This is the documented, expected behavior.
	f := newFixture()
	ctx := context.Background()

	if _, err := f.service.RecordReaction(ctx, "u1", "100", domain.ReactionLike, testNow); err != nil {
		t.Fatalf("like error: %v", err)
	}
	if _, err := f.service.RecordReaction(ctx, "u1", "100", domain.ReactionNone, testNow); err != nil {
		t.Fatalf("unlike error: %v", err)
	}

	if got := f.genres.userTotals["u1"]; got != 2 {
		t.Fatalf("user genre total = %d, want 2 after unlike", got)
	}
	if got := f.genres.communityLikes[16]; got != 1 {
		t.Fatalf("community likes = %d, want 1 after unlike", got)
	}
}

func TestUnlikeWithoutReactionIsNoop(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	summary, err := f.service.RecordReaction(ctx, "u1", "100", domain.ReactionNone, testNow)
	if err != nil {
		t.Fatalf("unlike error: %v", err)
	}
	if summary.Type != domain.ReactionNone {
		t.Fatalf("summary type = %v, want none", summary.Type)
	}
	if len(f.movies.aggregates) != 0 {
		t.Fatalf("no aggregate should be created on a bare unlike")
	}
	if f.provider.detailCalls != 0 {
		t.Fatalf("provider should not be consulted for a no-op unlike")
	}
}

func TestLikeOnUnseenMovieFailsWhenProviderDown(t *testing.T) {
	f := newFixture()
	f.provider.detailsErr = fmt.Errorf("tmdb unreachable")
	ctx := context.Background()

	if _, err := f.service.RecordReaction(ctx, "u1", "100", domain.ReactionLike, testNow); err == nil {
		t.Fatalf("expected error when title cannot be fetched for an unseen movie")
	}
	if len(f.reactions.rows) != 0 {
		t.Fatalf("reaction must not be written when the like fails")
	}
	if len(f.movies.aggregates) != 0 {
		t.Fatalf("aggregate must not be created when the like fails")
	}
}

func TestGenreCascadeFailureKeepsReaction(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// Seed the aggregate so the like does not need the provider for the
	// title, then break the provider: the cascade is skipped but the
	// reaction stands.
	f.movies.aggregates["100"] = &domain.MovieAggregate{ExternalID: "100", Title: "Inside Out 2"}
	f.provider.detailsErr = fmt.Errorf("tmdb unreachable")

	summary, err := f.service.RecordReaction(ctx, "u1", "100", domain.ReactionLike, testNow)
	if err != nil {
		t.Fatalf("RecordReaction() error: %v", err)
	}
	if summary.Type != domain.ReactionLike {
		t.Fatalf("summary type = %v, want like", summary.Type)
	}
	if len(f.reactions.rows) != 1 {
		t.Fatalf("reaction row missing")
	}
	if got := f.movies.aggregates["100"].ReactionsCounter; got != 1 {
		t.Fatalf("counter = %d, want 1", got)
	}
	if len(f.genres.userLikes) != 0 || len(f.genres.communityLikes) != 0 {
		t.Fatalf("genre stores must stay untouched when the cascade is skipped")
	}
}

func TestRecordReactionValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tests := []struct {
		name       string
		userID     string
		externalID string
		reaction   domain.ReactionType
	}{
		{"missing user", "", "100", domain.ReactionLike},
		{"missing movie", "u1", "", domain.ReactionLike},
		{"unknown type", "u1", "100", domain.ReactionType(7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.RecordReaction(ctx, tt.userID, tt.externalID, tt.reaction, testNow)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("error = %v, want ErrValidation", err)
			}
		})
	}
	if len(f.reactions.rows) != 0 || len(f.movies.aggregates) != 0 {
		t.Fatalf("validation failures must not mutate state")
	}
}

// --- enrichment pipeline ---

func TestEnrichAttachesReactions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.reactions.rows[reactionKey("u1", "1")] = domain.Reaction{
		UserID: "u1", ExternalID: "1", Type: domain.ReactionLike, Date: testNow,
	}

	input := []domain.Movie{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}}
	enriched, err := f.service.Enrich(ctx, input, "u1")
	if err != nil {
		t.Fatalf("Enrich() error: %v", err)
	}

	if enriched[0].ID != 1 || enriched[1].ID != 2 {
		t.Fatalf("order not preserved")
	}
	if enriched[0].UserReaction != domain.ReactionLike {
		t.Fatalf("movie 1 reaction = %v, want like", enriched[0].UserReaction)
	}
	if enriched[1].UserReaction != domain.ReactionNone {
		t.Fatalf("movie 2 reaction = %v, want none", enriched[1].UserReaction)
	}
	if enriched[0].Title != "A" || enriched[1].Title != "B" {
		t.Fatalf("fields were not carried verbatim")
	}
	if input[0].UserReaction != domain.ReactionNone {
		t.Fatalf("input slice was mutated")
	}
}

func TestEnrichWithoutUserReturnsInputUnmodified(t *testing.T) {
	f := newFixture()
	input := []domain.Movie{{ID: 1}}

	enriched, err := f.service.Enrich(context.Background(), input, "")
	if err != nil {
		t.Fatalf("Enrich() error: %v", err)
	}
	if len(enriched) != 1 || enriched[0].ID != 1 {
		t.Fatalf("unexpected output: %+v", enriched)
	}
	if f.reactions.mapCalls != 0 {
		t.Fatalf("no store query expected without a user")
	}
}

func TestEnrichUsesSingleBatchQuery(t *testing.T) {
	f := newFixture()
	input := make([]domain.Movie, 40)
	for i := range input {
		input[i] = domain.Movie{ID: i + 1}
	}

	if _, err := f.service.Enrich(context.Background(), input, "u1"); err != nil {
		t.Fatalf("Enrich() error: %v", err)
	}
	if f.reactions.mapCalls != 1 {
		t.Fatalf("reaction queries = %d, want exactly 1", f.reactions.mapCalls)
	}
}

// --- ranking ---

func TestRankEyeballedMoviesExcludesReactedAndSorts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.provider.upcoming = []domain.Movie{
		{ID: 1, Popularity: 100},
		{ID: 2, Popularity: 9000},
		{ID: 3, Popularity: 4000},
	}
	f.reactions.rows[reactionKey("u1", "1")] = domain.Reaction{
		UserID: "u1", ExternalID: "1", Type: domain.ReactionLike, Date: testNow,
	}
	f.movies.aggregates["3"] = &domain.MovieAggregate{ExternalID: "3", ReactionsCounter: 7}

	ranked, err := f.service.RankEyeballedMovies(ctx, "u1")
	if err != nil {
		t.Fatalf("RankEyeballedMovies() error: %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("got %d movies, want 2", len(ranked))
	}
	for _, movie := range ranked {
		if movie.ID == 1 {
			t.Fatalf("reacted movie must be excluded")
		}
	}
	if ranked[0].Weight < ranked[1].Weight {
		t.Fatalf("not sorted descending: %v < %v", ranked[0].Weight, ranked[1].Weight)
	}
	for _, movie := range ranked {
		if movie.ID == 3 && movie.ReactionsCounter != 7 {
			t.Fatalf("local counter not attached: %+v", movie)
		}
	}
}

func TestRankEyeballedMoviesFailSoftOnPreferenceLookup(t *testing.T) {
	f := newFixture()
	f.provider.upcoming = []domain.Movie{{ID: 1, Popularity: 500}}
	f.genres.prefsErr = fmt.Errorf("preferences unavailable")

	ranked, err := f.service.RankEyeballedMovies(context.Background(), "u1")
	if err != nil {
		t.Fatalf("preference failure must not fail ranking: %v", err)
	}
	if len(ranked) != 1 {
		t.Fatalf("got %d movies, want 1", len(ranked))
	}
}

func TestRankEyeballedMoviesProviderFailureAborts(t *testing.T) {
	f := newFixture()
	f.provider.upcomingErr = fmt.Errorf("tmdb down")

	if _, err := f.service.RankEyeballedMovies(context.Background(), "u1"); err == nil {
		t.Fatalf("provider failure must abort the ranking request")
	}
}

// --- details fan-out ---

func TestMovieDetailsTrailerFailureDegrades(t *testing.T) {
	f := newFixture()
	f.provider.trailerErr = fmt.Errorf("videos endpoint down")
	f.provider.credits = &domain.Credits{
		Crew: []domain.CrewMember{
			{ID: 1, Name: "Kelsey Mann", Job: "Director"},
			{ID: 2, Name: "Mark Nielsen", Job: "Producer"},
		},
		Cast: []domain.CastMember{
			{ID: 3, Name: "Amy Poehler"}, {ID: 4, Name: "Maya Hawke"}, {ID: 5, Name: "Kensington Tallman"},
			{ID: 6, Name: "Liza Lapira"}, {ID: 7, Name: "Tony Hale"}, {ID: 8, Name: "Lewis Black"},
		},
	}

	view, err := f.service.MovieDetails(context.Background(), "100", "")
	if err != nil {
		t.Fatalf("trailer failure must not fail the request: %v", err)
	}
	if view.Trailer != nil {
		t.Fatalf("trailer = %+v, want nil", view.Trailer)
	}
	if view.Director == nil || view.Director.Name != "Kelsey Mann" {
		t.Fatalf("director not extracted: %+v", view.Director)
	}
	if view.Producer == nil || view.Producer.Name != "Mark Nielsen" {
		t.Fatalf("producer not extracted: %+v", view.Producer)
	}
	if len(view.MainCast) != 5 {
		t.Fatalf("main cast = %d members, want 5", len(view.MainCast))
	}
}

func TestMovieDetailsCreditsFailureFails(t *testing.T) {
	f := newFixture()
	f.provider.creditsErr = fmt.Errorf("credits endpoint down")

	if _, err := f.service.MovieDetails(context.Background(), "100", ""); err == nil {
		t.Fatalf("credits failure must fail the request")
	}
}

func TestMovieDetailsAttachesReactionAndCounter(t *testing.T) {
	f := newFixture()
	f.movies.aggregates["100"] = &domain.MovieAggregate{ExternalID: "100", ReactionsCounter: 3}
	f.reactions.rows[reactionKey("u1", "100")] = domain.Reaction{
		UserID: "u1", ExternalID: "100", Type: domain.ReactionLike, Date: testNow,
	}

	view, err := f.service.MovieDetails(context.Background(), "100", "u1")
	if err != nil {
		t.Fatalf("MovieDetails() error: %v", err)
	}
	if view.ReactionsCounter != 3 {
		t.Fatalf("counter = %d, want 3", view.ReactionsCounter)
	}
	if view.UserReaction != domain.ReactionLike {
		t.Fatalf("user reaction = %v, want like", view.UserReaction)
	}
}

// --- search and lists ---

func TestSearchMoviesValidation(t *testing.T) {
	f := newFixture()

	if _, err := f.service.SearchMovies(context.Background(), "   ", "desc", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank query error = %v, want ErrValidation", err)
	}
	if _, err := f.service.SearchMovies(context.Background(), "dune", "sideways", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("bad order error = %v, want ErrValidation", err)
	}

	if _, err := f.service.SearchMovies(context.Background(), "dune", "", ""); err != nil {
		t.Fatalf("SearchMovies() error: %v", err)
	}
	if f.provider.lastSortBy != "release_date.desc" {
		t.Fatalf("sortBy = %q, want release_date.desc default", f.provider.lastSortBy)
	}
}

func TestTopUserGenresRequiresUser(t *testing.T) {
	f := newFixture()
	if _, err := f.service.TopUserGenres(context.Background(), "", 6); !errors.Is(err, ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}

func TestUserLikedMoviesFallsBackToLocalData(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.reactions.rows[reactionKey("u1", "200")] = domain.Reaction{
		UserID: "u1", ExternalID: "200", Type: domain.ReactionLike, Date: testNow,
	}
	f.movies.aggregates["200"] = &domain.MovieAggregate{ExternalID: "200", Title: "Local Title", ReactionsCounter: 2}
	// Movie 200 has no provider details, so the pick keeps local data.

	picks, err := f.service.UserLikedMovies(ctx, "u1")
	if err != nil {
		t.Fatalf("UserLikedMovies() error: %v", err)
	}
	if len(picks) != 1 {
		t.Fatalf("got %d picks, want 1", len(picks))
	}
	if picks[0].Title != "Local Title" {
		t.Fatalf("title = %q, want local fallback", picks[0].Title)
	}
	if picks[0].ReactionsCounter != 2 {
		t.Fatalf("counter = %d, want 2", picks[0].ReactionsCounter)
	}
	if picks[0].UserReaction != domain.ReactionLike {
		t.Fatalf("user reaction = %v, want like", picks[0].UserReaction)
	}
}
