package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eyeball-app/eyeball-api/internal/domain"
)

// GenresRepository persists the per-user and community genre-affinity
// distributions that are incrementally learned from likes.
//
// Counter updates use single-statement upsert-with-increment, so concurrent
// likes never lose increments. The percentage recompute that follows each
// batch re-reads the full owner scope and rewrites it; that pass is not
// atomic as a whole and may be transiently stale under concurrent likes,
// which is acceptable because percentages only feed ranking and display.
type GenresRepository struct {
	pool *pgxpool.Pool
}

// RecordUserLike upserts one entry per genre for the user, adds the batch
// size to the user's running total, and recomputes every percentage the
// user owns.
func (r *GenresRepository) RecordUserLike(ctx context.Context, userID string, genres []domain.Genre) error {
	if len(genres) == 0 {
		return nil
	}

	const upsertEntry = `
        INSERT INTO user_genre_preferences (id_user, genre_id, genre_name, total_likes, percentage)
        VALUES ($1, $2, $3, 1, 0)
        ON CONFLICT (id_user, genre_id)
        DO UPDATE SET
            total_likes = user_genre_preferences.total_likes + 1,
            genre_name = CASE
                WHEN user_genre_preferences.genre_name = '' THEN EXCLUDED.genre_name
                ELSE user_genre_preferences.genre_name
            END
    `
	for _, genre := range genres {
		if _, err := r.pool.Exec(ctx, upsertEntry, userID, genre.ID, genre.Name); err != nil {
			return fmt.Errorf("upsert user genre %d: %w", genre.ID, err)
		}
	}

	const upsertTotal = `
        INSERT INTO user_genre_totals (id_user, total_genre_likes)
        VALUES ($1, $2)
        ON CONFLICT (id_user)
        DO UPDATE SET total_genre_likes = user_genre_totals.total_genre_likes + EXCLUDED.total_genre_likes
    `
	if _, err := r.pool.Exec(ctx, upsertTotal, userID, len(genres)); err != nil {
		return fmt.Errorf("bump user genre total: %w", err)
	}

	const recompute = `
        UPDATE user_genre_preferences p
        SET percentage = p.total_likes::float8 / t.total_genre_likes * 100
        FROM user_genre_totals t
        WHERE t.id_user = p.id_user
          AND p.id_user = $1
          AND t.total_genre_likes > 0
    `
	if _, err := r.pool.Exec(ctx, recompute, userID); err != nil {
		return fmt.Errorf("recompute user genre percentages: %w", err)
	}
	return nil
}

// RecordCommunityLike upserts one community record per genre and then
// recomputes every community percentage against the new grand total.
func (r *GenresRepository) RecordCommunityLike(ctx context.Context, genres []domain.Genre) error {
	if len(genres) == 0 {
		return nil
	}

	const upsert = `
        INSERT INTO community_genre_preferences (genre_id, genre_name, total_likes, percentage, last_updated)
        VALUES ($1, $2, 1, 0, now())
        ON CONFLICT (genre_id)
        DO UPDATE SET
            total_likes = community_genre_preferences.total_likes + 1,
            genre_name = EXCLUDED.genre_name,
            last_updated = now()
    `
	for _, genre := range genres {
		if _, err := r.pool.Exec(ctx, upsert, genre.ID, genre.Name); err != nil {
			return fmt.Errorf("upsert community genre %d: %w", genre.ID, err)
		}
	}

	const recompute = `
        UPDATE community_genre_preferences
        SET percentage = total_likes::float8 / totals.sum * 100
        FROM (SELECT SUM(total_likes)::float8 AS sum FROM community_genre_preferences) totals
        WHERE totals.sum > 0
    `
	if _, err := r.pool.Exec(ctx, recompute); err != nil {
		return fmt.Errorf("recompute community genre percentages: %w", err)
	}
	return nil
}

// UserPreferenceMap returns the user's genre affinities on a 0..1 scale.
// Users without preferences get an empty map.
func (r *GenresRepository) UserPreferenceMap(ctx context.Context, userID string) (map[int]float64, error) {
	const query = `SELECT genre_id, percentage FROM user_genre_preferences WHERE id_user = $1`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("user preference map: %w", err)
	}
	defer rows.Close()

	return scanPreferenceMap(rows)
}

// CommunityPreferenceMap returns the community genre affinities on a 0..1
// scale.
func (r *GenresRepository) CommunityPreferenceMap(ctx context.Context) (map[int]float64, error) {
	const query = `SELECT genre_id, percentage FROM community_genre_preferences`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("community preference map: %w", err)
	}
	defer rows.Close()

	return scanPreferenceMap(rows)
}

// TopUserGenres returns the user's entries ordered by total likes, first n.
func (r *GenresRepository) TopUserGenres(ctx context.Context, userID string, n int) ([]domain.GenrePreference, error) {
	const query = `
        SELECT genre_id, genre_name, total_likes, percentage
        FROM user_genre_preferences
        WHERE id_user = $1
        ORDER BY total_likes DESC, genre_id ASC
        LIMIT $2
    `
	rows, err := r.pool.Query(ctx, query, userID, n)
	if err != nil {
		return nil, fmt.Errorf("top user genres: %w", err)
	}
	defer rows.Close()

	var result []domain.GenrePreference
	for rows.Next() {
		var pref domain.GenrePreference
		if err := rows.Scan(&pref.GenreID, &pref.GenreName, &pref.TotalLikes, &pref.Percentage); err != nil {
			return nil, err
		}
		result = append(result, pref)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListUserPreferences returns every entry the user owns, for invariants
// that need the whole distribution.
func (r *GenresRepository) ListUserPreferences(ctx context.Context, userID string) ([]domain.GenrePreference, error) {
	const query = `
        SELECT genre_id, genre_name, total_likes, percentage
        FROM user_genre_preferences
        WHERE id_user = $1
        ORDER BY genre_id ASC
    `
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list user preferences: %w", err)
	}
	defer rows.Close()

	var result []domain.GenrePreference
	for rows.Next() {
		var pref domain.GenrePreference
		if err := rows.Scan(&pref.GenreID, &pref.GenreName, &pref.TotalLikes, &pref.Percentage); err != nil {
			return nil, err
		}
		result = append(result, pref)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListCommunityPreferences returns the full community distribution.
func (r *GenresRepository) ListCommunityPreferences(ctx context.Context) ([]domain.CommunityGenrePreference, error) {
	const query = `
        SELECT genre_id, genre_name, total_likes, percentage, last_updated
        FROM community_genre_preferences
        ORDER BY genre_id ASC
    `
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list community preferences: %w", err)
	}
	defer rows.Close()

	var result []domain.CommunityGenrePreference
	for rows.Next() {
		var pref domain.CommunityGenrePreference
		if err := rows.Scan(&pref.GenreID, &pref.GenreName, &pref.TotalLikes, &pref.Percentage, &pref.LastUpdated); err != nil {
			return nil, err
		}
		result = append(result, pref)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanPreferenceMap(rows pgx.Rows) (map[int]float64, error) {
	result := make(map[int]float64)
	for rows.Next() {
		var genreID int
		var percentage float64
		if err := rows.Scan(&genreID, &percentage); err != nil {
			return nil, err
		}
		result[genreID] = percentage / 100
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
