package repository

import (
	"context"
	"fmt"

	"gramm/internal/models"
	"gramm/internal/observability"

	"github.com/jmoiron/sqlx"
)

type followRepository struct {
	db  *sqlx.DB
	log *observability.RepoLogger
}

func NewFollowRepository(db *sqlx.DB) FollowRepository {
	return &followRepository{db: db, log: observability.NewRepoLogger("follows")}
}

// Follow reports whether a new edge was created. An existing edge is not an error.
func (r *followRepository) Follow(ctx context.Context, authorID, followerID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO follows (author_id, follower_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (author_id, follower_id) DO NOTHING`,
		authorID, followerID,
	)
	if err != nil {
		if isForeignKeyError(err) || isMalformedIDError(err) {
			return false, models.ErrNotFound
		}
		r.log.LogError(ctx, err, "follow")
		return false, fmt.Errorf("failed to follow: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check inserted rows: %w", err)
	}

	return inserted > 0, nil
}

func (r *followRepository) Unfollow(ctx context.Context, authorID, followerID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM follows WHERE author_id = $1 AND follower_id = $2`,
		authorID, followerID,
	)
	if err != nil {
		if isMalformedIDError(err) {
			return false, models.ErrNotFound
		}
		r.log.LogError(ctx, err, "unfollow")
		return false, fmt.Errorf("failed to unfollow: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check deleted rows: %w", err)
	}

	return deleted > 0, nil
}

func (r *followRepository) IsFollowing(ctx context.Context, authorID, followerID string) (bool, error) {
	var exists bool

	query := `SELECT EXISTS(SELECT 1 FROM follows WHERE author_id = $1 AND follower_id = $2)`

	if err := r.db.GetContext(ctx, &exists, query, authorID, followerID); err != nil {
		if isMalformedIDError(err) {
			return false, models.ErrNotFound
		}
		return false, fmt.Errorf("failed to check follow: %w", err)
	}

	return exists, nil
}

// EdgesTouching returns every edge where userID is the author or the follower.
func (r *followRepository) EdgesTouching(ctx context.Context, userID string) ([]models.FollowEdge, error) {
	edges := []models.FollowEdge{}

	query := `
		SELECT author_id, follower_id, created_at
		FROM follows
		WHERE author_id = $1 OR follower_id = $1
	`

	if err := r.db.SelectContext(ctx, &edges, query, userID); err != nil {
		if isMalformedIDError(err) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get follow edges: %w", err)
	}

	return edges, nil
}
