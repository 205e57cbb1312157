package httpserver

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/eyeball-app/eyeball-api/internal/domain"
	"github.com/eyeball-app/eyeball-api/internal/service"
	"github.com/eyeball-app/eyeball-api/internal/tmdb"
)

const maxRequestBody = 1 << 20 // 1 MiB

// userIDHeader carries the authenticated user's id, set by the auth layer
// in front of this service.
const userIDHeader = "X-User-Id"

type errorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type reactionRequest struct {
	MovieID string `json:"movieId"`
	Type    *int   `json:"type"`
	Date    string `json:"date,omitempty"`
}

func (s *Server) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	movies, err := s.movies.UpcomingMovies(r.Context(), userID(r))
	if err != nil {
		s.respondServiceError(w, err, "Failed to list upcoming movies")
		return
	}
	s.respondJSON(w, http.StatusOK, movies)
}

func (s *Server) handleNowPlaying(w http.ResponseWriter, r *http.Request) {
	movies, err := s.movies.NowPlayingMovies(r.Context(), userID(r))
	if err != nil {
		s.respondServiceError(w, err, "Failed to list now playing movies")
		return
	}
	s.respondJSON(w, http.StatusOK, movies)
}

func (s *Server) handleTopRated(w http.ResponseWriter, r *http.Request) {
	movies, err := s.movies.TopRatedMovies(r.Context(), userID(r))
	if err != nil {
		s.respondServiceError(w, err, "Failed to list top rated movies")
		return
	}
	s.respondJSON(w, http.StatusOK, movies)
}

func (s *Server) handleEyeballed(w http.ResponseWriter, r *http.Request) {
	movies, err := s.movies.RankEyeballedMovies(r.Context(), userID(r))
	if err != nil {
		s.respondServiceError(w, err, "Failed to rank movies")
		return
	}
	s.respondJSON(w, http.StatusOK, movies)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	order := r.URL.Query().Get("order")
	movies, err := s.movies.SearchMovies(r.Context(), query, order, userID(r))
	if err != nil {
		s.respondServiceError(w, err, "Failed to search movies")
		return
	}
	s.respondJSON(w, http.StatusOK, movies)
}

func (s *Server) handleReacted(w http.ResponseWriter, r *http.Request) {
	movies, err := s.movies.MoviesWithReactions(r.Context())
	if err != nil {
		s.respondServiceError(w, err, "Failed to list reacted movies")
		return
	}
	s.respondJSON(w, http.StatusOK, movies)
}

func (s *Server) handleGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := s.movies.MovieGenres(r.Context())
	if err != nil {
		s.respondServiceError(w, err, "Failed to list genres")
		return
	}
	s.respondJSON(w, http.StatusOK, genres)
}

func (s *Server) handleMovieDetails(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "id")
	view, err := s.movies.MovieDetails(r.Context(), movieID, userID(r))
	if err != nil {
		s.respondServiceError(w, err, "Failed to fetch movie details")
		return
	}
	s.respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleReaction(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}

	var req reactionRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if strings.TrimSpace(req.MovieID) == "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "movieId is required")
		return
	}
	if req.Type == nil {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "type is required")
		return
	}

	var date time.Time
	if req.Date != "" {
		parsed, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "date must follow RFC 3339")
			return
		}
		date = parsed
	}

	summary, err := s.movies.RecordReaction(r.Context(), uid, strings.TrimSpace(req.MovieID), domain.ReactionType(*req.Type), date)
	if err != nil {
		s.respondServiceError(w, err, "Failed to process reaction")
		return
	}
	s.respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleUserPicks(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}
	picks, err := s.movies.UserLikedMovies(r.Context(), uid)
	if err != nil {
		s.respondServiceError(w, err, "Failed to fetch picks")
		return
	}
	s.respondJSON(w, http.StatusOK, picks)
}

func (s *Server) handleUserTopGenres(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}

	limit := 0
	if val := strings.TrimSpace(r.URL.Query().Get("limit")); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil || parsed <= 0 {
			s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid limit value")
			return
		}
		limit = parsed
	}

	genres, err := s.movies.TopUserGenres(r.Context(), uid, limit)
	if err != nil {
		s.respondServiceError(w, err, "Failed to fetch top genres")
		return
	}
	if genres == nil {
		genres = []domain.GenrePreference{}
	}
	s.respondJSON(w, http.StatusOK, genres)
}

func userID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(userIDHeader))
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Error().Err(err).Msg("failed to encode response")
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// respondServiceError maps core errors onto the response envelope:
// validation rejections are the caller's fault, provider trouble is
// surfaced as an upstream failure, everything else is internal.
func (s *Server) respondServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, tmdb.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, tmdb.ErrUpstream):
		s.logger.Error().Err(err).Msg("provider failure")
		s.respondError(w, http.StatusBadGateway, "UPSTREAM_ERROR", "Movie provider unavailable")
	default:
		s.logger.Error().Err(err).Msg(fallback)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}

func (s *Server) respondDecodeError(w http.ResponseWriter, err error) {
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxError):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Malformed JSON payload")
	case errors.As(err, &typeError):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", fmt.Sprintf("Invalid value for field %s", typeError.Field))
	case errors.Is(err, io.EOF):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Request body cannot be empty")
	default:
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unable to parse request body")
	}
}
