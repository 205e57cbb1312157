package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eyeball-app/eyeball-api/internal/domain"
)

// ReactionsRepository persists one reaction row per (user, movie) pair.
// A row exists if and only if the logical state is LIKE.
type ReactionsRepository struct {
	pool *pgxpool.Pool
}

// Create inserts a like and reports whether it was newly created. A
// duplicate like leaves the existing row untouched.
func (r *ReactionsRepository) Create(ctx context.Context, reaction domain.Reaction) (bool, error) {
	const query = `
        INSERT INTO user_reactions (id_user, id_external, type, date)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (id_user, id_external) DO NOTHING
    `
	tag, err := r.pool.Exec(ctx, query, reaction.UserID, reaction.ExternalID, int(reaction.Type), reaction.Date)
	if err != nil {
		return false, fmt.Errorf("create reaction: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Delete removes the reaction row and reports whether one existed.
func (r *ReactionsRepository) Delete(ctx context.Context, userID, externalID string) (bool, error) {
	const query = `DELETE FROM user_reactions WHERE id_user = $1 AND id_external = $2`
	tag, err := r.pool.Exec(ctx, query, userID, externalID)
	if err != nil {
		return false, fmt.Errorf("delete reaction: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Get fetches the reaction for a (user, movie) pair.
func (r *ReactionsRepository) Get(ctx context.Context, userID, externalID string) (domain.Reaction, error) {
	const query = `
        SELECT id_user, id_external, type, date
        FROM user_reactions
        WHERE id_user = $1 AND id_external = $2
    `
	reaction, err := scanReaction(r.pool.QueryRow(ctx, query, userID, externalID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Reaction{}, ErrNotFound
		}
		return domain.Reaction{}, err
	}
	return reaction, nil
}

// MapForUser fetches the user's reactions restricted to the given external
// ids in a single query and returns an id to type map. Movies without a
// row are simply absent; callers treat that as NONE.
func (r *ReactionsRepository) MapForUser(ctx context.Context, userID string, externalIDs []string) (map[string]domain.ReactionType, error) {
	result := make(map[string]domain.ReactionType, len(externalIDs))
	if len(externalIDs) == 0 {
		return result, nil
	}

	const query = `
        SELECT id_external, type
        FROM user_reactions
        WHERE id_user = $1 AND id_external = ANY($2)
    `
	rows, err := r.pool.Query(ctx, query, userID, externalIDs)
	if err != nil {
		return nil, fmt.Errorf("map reactions for user: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var externalID string
		var reactionType int
		if err := rows.Scan(&externalID, &reactionType); err != nil {
			return nil, err
		}
		result[externalID] = domain.ReactionType(reactionType)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ExternalIDsForUser returns the set of movies the user has reacted to.
func (r *ReactionsRepository) ExternalIDsForUser(ctx context.Context, userID string) (map[string]struct{}, error) {
	const query = `SELECT id_external FROM user_reactions WHERE id_user = $1`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list reacted external ids: %w", err)
	}
	defer rows.Close()

	result := make(map[string]struct{})
	for rows.Next() {
		var externalID string
		if err := rows.Scan(&externalID); err != nil {
			return nil, err
		}
		result[externalID] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListLiked returns the user's like reactions, newest first.
func (r *ReactionsRepository) ListLiked(ctx context.Context, userID string) ([]domain.Reaction, error) {
	const query = `
        SELECT id_user, id_external, type, date
        FROM user_reactions
        WHERE id_user = $1 AND type = $2
        ORDER BY date DESC
    `
	rows, err := r.pool.Query(ctx, query, userID, int(domain.ReactionLike))
	if err != nil {
		return nil, fmt.Errorf("list liked reactions: %w", err)
	}
	defer rows.Close()

	var result []domain.Reaction
	for rows.Next() {
		reaction, err := scanReaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, reaction)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanReaction(row pgx.Row) (domain.Reaction, error) {
	var reaction domain.Reaction
	var reactionType int
	if err := row.Scan(&reaction.UserID, &reaction.ExternalID, &reactionType, &reaction.Date); err != nil {
		return domain.Reaction{}, err
	}
	reaction.Type = domain.ReactionType(reactionType)
	return reaction, nil
}
