package tmdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, handler http.Handler) (*HTTPClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewHTTPClient(srv.URL, "test-key", 2*time.Second, zerolog.Nop())
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	return client, srv
}

func TestUpcomingParsesResultsInOrder(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/3/movie/upcoming" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("api_key") != "test-key" {
			t.Errorf("missing api_key query param")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"page":1,"results":[
			{"id":11,"title":"First","popularity":500.5,"genre_ids":[28,12],"release_date":"2026-09-10"},
			{"id":22,"title":"Second","popularity":80,"genre_ids":[35]}
		]}`))
	}))

	movies, err := client.Upcoming(context.Background())
	if err != nil {
		t.Fatalf("Upcoming() error: %v", err)
	}
	if len(movies) != 2 {
		t.Fatalf("got %d movies, want 2", len(movies))
	}
	if movies[0].ID != 11 || movies[1].ID != 22 {
		t.Fatalf("provider order not preserved: %v, %v", movies[0].ID, movies[1].ID)
	}
	if movies[0].Popularity != 500.5 {
		t.Fatalf("popularity = %v, want 500.5", movies[0].Popularity)
	}
	if got := movies[0].ExternalID(); got != "11" {
		t.Fatalf("ExternalID() = %q, want 11", got)
	}
	if _, ok := movies[1].ReleaseTime(); ok {
		t.Fatalf("empty release date should not parse")
	}
}

func TestMovieDetailsNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	_, err := client.MovieDetails(context.Background(), "999")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestUpstreamStatusWrapsErrUpstream(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.TopRated(context.Background())
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("error = %v, want ErrUpstream", err)
	}
}

func TestMovieTrailerSelectsOfficialYouTubeTrailer(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[
			{"key":"a","name":"Teaser","site":"YouTube","type":"Teaser","official":true},
			{"key":"b","name":"Fan cut","site":"YouTube","type":"Trailer","official":false},
			{"key":"c","name":"Official Trailer","site":"YouTube","type":"Trailer","official":true}
		]}`))
	}))

	trailer, err := client.MovieTrailer(context.Background(), "42")
	if err != nil {
		t.Fatalf("MovieTrailer() error: %v", err)
	}
	if trailer == nil || trailer.Key != "c" {
		t.Fatalf("trailer = %+v, want key c", trailer)
	}
}

func TestMovieTrailerNoneIsNil(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))

	trailer, err := client.MovieTrailer(context.Background(), "42")
	if err != nil {
		t.Fatalf("MovieTrailer() error: %v", err)
	}
	if trailer != nil {
		t.Fatalf("trailer = %+v, want nil", trailer)
	}
}

func TestSearchSendsQueryAndSort(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("query"); got != "dune" {
			t.Errorf("query = %q, want dune", got)
		}
		if got := r.URL.Query().Get("sort_by"); got != "release_date.asc" {
			t.Errorf("sort_by = %q, want release_date.asc", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))

	if _, err := client.Search(context.Background(), "dune", "release_date.asc"); err != nil {
		t.Fatalf("Search() error: %v", err)
	}
}

func TestGenreIndex(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/3/genre/movie/list" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"genres":[{"id":28,"name":"Action"},{"id":35,"name":"Comedy"}]}`))
	}))

	genres, err := client.GenreIndex(context.Background())
	if err != nil {
		t.Fatalf("GenreIndex() error: %v", err)
	}
	if len(genres) != 2 || genres[0].ID != 28 || genres[0].Name != "Action" {
		t.Fatalf("unexpected genres: %+v", genres)
	}
}
