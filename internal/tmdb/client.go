package tmdb

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/eyeball-app/eyeball-api/internal/domain"
)

// ErrNotFound is returned when upstream cannot find the requested movie.
var ErrNotFound = errors.New("tmdb: not found")

// ErrUpstream wraps transport failures and unexpected upstream statuses so
// callers can distinguish provider trouble from their own errors.
var ErrUpstream = errors.New("tmdb: upstream failure")

const apiVersion = "3"

// Client defines the contract for querying the upstream movie metadata API.
type Client interface {
	Upcoming(ctx context.Context) ([]domain.Movie, error)
	NowPlaying(ctx context.Context) ([]domain.Movie, error)
	TopRated(ctx context.Context) ([]domain.Movie, error)
	Search(ctx context.Context, query, sortBy string) ([]domain.Movie, error)
	MovieDetails(ctx context.Context, id string) (*domain.MovieDetails, error)
	MovieCredits(ctx context.Context, id string) (*domain.Credits, error)
	MovieImages(ctx context.Context, id string) (*domain.ImageSet, error)
	MovieTrailer(ctx context.Context, id string) (*domain.Video, error)
	GenreIndex(ctx context.Context) ([]domain.Genre, error)
}

// HTTPClient implements Client over HTTP.
type HTTPClient struct {
	baseURL *url.URL
	apiKey  string
	client  *http.Client
	logger  zerolog.Logger
}

// NewHTTPClient constructs a new HTTP-backed metadata client.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration, logger zerolog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse tmdb url: %w", err)
	}
	return &HTTPClient{
		baseURL: parsed,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		logger: logger,
	}, nil
}

// Upcoming lists movies releasing soon, in provider order.
func (c *HTTPClient) Upcoming(ctx context.Context) ([]domain.Movie, error) {
	return c.movieList(ctx, "/movie/upcoming", nil)
}

// NowPlaying lists movies currently in theatres, in provider order.
func (c *HTTPClient) NowPlaying(ctx context.Context) ([]domain.Movie, error) {
	return c.movieList(ctx, "/movie/now_playing", nil)
}

// TopRated lists the provider's top-rated movies, in provider order.
func (c *HTTPClient) TopRated(ctx context.Context) ([]domain.Movie, error) {
	return c.movieList(ctx, "/movie/top_rated", nil)
}

// Search queries movies by title. sortBy follows the provider convention,
// e.g. "release_date.desc".
func (c *HTTPClient) Search(ctx context.Context, query, sortBy string) ([]domain.Movie, error) {
	params := url.Values{}
	params.Set("query", query)
	if sortBy != "" {
		params.Set("sort_by", sortBy)
	}
	return c.movieList(ctx, "/search/movie", params)
}

// MovieDetails fetches the full record for a single movie.
func (c *HTTPClient) MovieDetails(ctx context.Context, id string) (*domain.MovieDetails, error) {
	var details domain.MovieDetails
	if err := c.get(ctx, "/movie/"+url.PathEscape(id), nil, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// MovieCredits fetches cast and crew for a movie.
func (c *HTTPClient) MovieCredits(ctx context.Context, id string) (*domain.Credits, error) {
	var credits domain.Credits
	if err := c.get(ctx, "/movie/"+url.PathEscape(id)+"/credits", nil, &credits); err != nil {
		return nil, err
	}
	return &credits, nil
}

// MovieImages fetches backdrops and posters for a movie.
func (c *HTTPClient) MovieImages(ctx context.Context, id string) (*domain.ImageSet, error) {
	var images domain.ImageSet
	if err := c.get(ctx, "/movie/"+url.PathEscape(id)+"/images", nil, &images); err != nil {
		return nil, err
	}
	return &images, nil
}

// MovieTrailer returns the first official YouTube trailer for a movie, or
// nil when the movie has none.
func (c *HTTPClient) MovieTrailer(ctx context.Context, id string) (*domain.Video, error) {
	var payload struct {
		Results []domain.Video `json:"results"`
	}
	if err := c.get(ctx, "/movie/"+url.PathEscape(id)+"/videos", nil, &payload); err != nil {
		return nil, err
	}
	for _, video := range payload.Results {
		if video.Type == "Trailer" && video.Official && video.Site == "YouTube" {
			v := video
			return &v, nil
		}
	}
	return nil, nil
}

// GenreIndex fetches the provider's genre id to name metadata.
func (c *HTTPClient) GenreIndex(ctx context.Context) ([]domain.Genre, error) {
	var payload struct {
		Genres []domain.Genre `json:"genres"`
	}
	if err := c.get(ctx, "/genre/movie/list", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Genres, nil
}

func (c *HTTPClient) movieList(ctx context.Context, path string, params url.Values) ([]domain.Movie, error) {
	var payload struct {
		Results []domain.Movie `json:"results"`
	}
	if err := c.get(ctx, path, params, &payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, dst interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)

	rel := &url.URL{Path: "/" + apiVersion + path, RawQuery: params.Encode()}
	endpoint := c.baseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			return fmt.Errorf("decode tmdb response for %s: %w", path, err)
		}
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	default:
		c.logger.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("tmdb: unexpected status")
		return fmt.Errorf("%w: status %d for %s", ErrUpstream, resp.StatusCode, path)
	}
}
