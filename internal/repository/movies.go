package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eyeball-app/eyeball-api/internal/domain"
)

// MoviesRepository persists the community-visible reaction counters kept
// per externally-identified movie.
type MoviesRepository struct {
	pool *pgxpool.Pool
}

const movieColumns = `id_external, title, date_added, reactions_counter`

// Exists reports whether an aggregate is already tracked for the external id.
func (r *MoviesRepository) Exists(ctx context.Context, externalID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM movies WHERE id_external = $1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, externalID).Scan(&exists); err != nil {
		return false, fmt.Errorf("movie exists: %w", err)
	}
	return exists, nil
}

// UpsertOnLike is the get-or-create-then-increment primitive for a like:
// an unseen movie is inserted fully formed with its counter already at 1,
// an existing row has its counter bumped in the same statement. No reader
// ever observes an uninitialized row.
func (r *MoviesRepository) UpsertOnLike(ctx context.Context, externalID, title string) (domain.MovieAggregate, error) {
	const query = `
        INSERT INTO movies (id_external, title, date_added, reactions_counter)
        VALUES ($1, $2, now(), 1)
        ON CONFLICT (id_external)
        DO UPDATE SET reactions_counter = movies.reactions_counter + 1
        RETURNING ` + movieColumns

	row := r.pool.QueryRow(ctx, query, externalID, title)
	return scanMovieAggregate(row)
}

// DecrementOnUnlike lowers the counter with a floor of zero. A missing
// aggregate is a no-op.
func (r *MoviesRepository) DecrementOnUnlike(ctx context.Context, externalID string) error {
	const query = `
        UPDATE movies
        SET reactions_counter = GREATEST(0, reactions_counter - 1)
        WHERE id_external = $1
    `
	if _, err := r.pool.Exec(ctx, query, externalID); err != nil {
		return fmt.Errorf("decrement reactions counter: %w", err)
	}
	return nil
}

// Get fetches a single aggregate by external id.
func (r *MoviesRepository) Get(ctx context.Context, externalID string) (domain.MovieAggregate, error) {
	const query = `SELECT ` + movieColumns + ` FROM movies WHERE id_external = $1`
	agg, err := scanMovieAggregate(r.pool.QueryRow(ctx, query, externalID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.MovieAggregate{}, ErrNotFound
		}
		return domain.MovieAggregate{}, err
	}
	return agg, nil
}

// MapByExternalIDs fetches aggregates for the given ids in one query and
// returns them keyed by external id. Unknown ids are simply absent.
func (r *MoviesRepository) MapByExternalIDs(ctx context.Context, externalIDs []string) (map[string]domain.MovieAggregate, error) {
	result := make(map[string]domain.MovieAggregate, len(externalIDs))
	if len(externalIDs) == 0 {
		return result, nil
	}

	const query = `SELECT ` + movieColumns + ` FROM movies WHERE id_external = ANY($1)`
	rows, err := r.pool.Query(ctx, query, externalIDs)
	if err != nil {
		return nil, fmt.Errorf("map movies by external ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		agg, err := scanMovieAggregate(rows)
		if err != nil {
			return nil, err
		}
		result[agg.ExternalID] = agg
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListWithReactions returns every aggregate whose counter is above zero,
// most recently added first.
func (r *MoviesRepository) ListWithReactions(ctx context.Context) ([]domain.MovieAggregate, error) {
	const query = `
        SELECT ` + movieColumns + `
        FROM movies
        WHERE reactions_counter > 0
        ORDER BY date_added DESC
    `
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list movies with reactions: %w", err)
	}
	defer rows.Close()

	var result []domain.MovieAggregate
	for rows.Next() {
		agg, err := scanMovieAggregate(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanMovieAggregate(row pgx.Row) (domain.MovieAggregate, error) {
	var agg domain.MovieAggregate
	if err := row.Scan(&agg.ExternalID, &agg.Title, &agg.DateAdded, &agg.ReactionsCounter); err != nil {
		return domain.MovieAggregate{}, err
	}
	return agg, nil
}
