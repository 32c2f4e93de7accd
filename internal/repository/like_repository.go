package repository

import (
	"context"
	"fmt"

	"gramm/internal/models"
	"gramm/internal/observability"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type likeRepository struct {
	db  *sqlx.DB
	log *observability.RepoLogger
}

func NewLikeRepository(db *sqlx.DB) LikeRepository {
	return &likeRepository{db: db, log: observability.NewRepoLogger("likes")}
}

// Toggle removes the like if present, otherwise adds it, and reports whether
// the pair is liked afterwards. A concurrent insert of the same pair is a no-op.
func (r *likeRepository) Toggle(ctx context.Context, userID, postID string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM likes WHERE user_id = $1 AND post_id = $2`, userID, postID)
	if err != nil {
		if isMalformedIDError(err) {
			return false, models.ErrNotFound
		}
		r.log.LogError(ctx, err, "unlike")
		return false, fmt.Errorf("failed to remove like: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if deleted > 0 {
		return false, nil
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO likes (user_id, post_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, post_id) DO NOTHING`,
		userID, postID,
	)
	if err != nil {
		if isForeignKeyError(err) || isMalformedIDError(err) {
			return false, models.ErrNotFound
		}
		r.log.LogError(ctx, err, "like")
		return false, fmt.Errorf("failed to add like: %w", err)
	}

	return true, nil
}

func (r *likeRepository) Likers(ctx context.Context, postID string) ([]string, error) {
	likers := []string{}

	query := `SELECT user_id FROM likes WHERE post_id = $1 ORDER BY created_at`

	if err := r.db.SelectContext(ctx, &likers, query, postID); err != nil {
		if isMalformedIDError(err) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get likes: %w", err)
	}

	return likers, nil
}

func (r *likeRepository) LikersForPosts(ctx context.Context, postIDs []string) (map[string][]string, error) {
	result := make(map[string][]string, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	query := `SELECT user_id, post_id, created_at FROM likes WHERE post_id = ANY($1) ORDER BY created_at`

	var likes []models.Like
	if err := r.db.SelectContext(ctx, &likes, query, pq.Array(postIDs)); err != nil {
		return nil, fmt.Errorf("failed to get likes of posts: %w", err)
	}

	for _, like := range likes {
		result[like.PostID] = append(result[like.PostID], like.UserID)
	}

	return result, nil
}
