package repository

import (
	"context"
	"fmt"

	"gramm/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type tagRepository struct {
	db *sqlx.DB
}

func NewTagRepository(db *sqlx.DB) TagRepository {
	return &tagRepository{db: db}
}

// getOrCreateTag returns the id of tag, inserting it on first use.
// DO UPDATE instead of DO NOTHING so RETURNING yields the existing row too.
func getOrCreateTag(ctx context.Context, q sqlx.QueryerContext, tag string) (int64, error) {
	var tagID int64

	query := `
		INSERT INTO tags (tag) VALUES ($1)
		ON CONFLICT (tag) DO UPDATE SET tag = EXCLUDED.tag
		RETURNING tag_id
	`

	if err := sqlx.GetContext(ctx, q, &tagID, query, tag); err != nil {
		return 0, fmt.Errorf("failed to get or create tag %q: %w", tag, err)
	}

	return tagID, nil
}

func (r *tagRepository) GetOrCreate(ctx context.Context, tag string) (int64, error) {
	return getOrCreateTag(ctx, r.db, tag)
}

// TagsForPosts returns the tags of each post in the order they were attached.
func (r *tagRepository) TagsForPosts(ctx context.Context, postIDs []string) (map[string][]string, error) {
	result := make(map[string][]string, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT pt.post_id, t.tag
		FROM post_tags pt
		JOIN tags t ON t.tag_id = pt.tag_id
		WHERE pt.post_id = ANY($1)
		ORDER BY pt.created_at, pt.post_tag_id
	`

	var rows []models.PostTag
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(postIDs)); err != nil {
		return nil, fmt.Errorf("failed to get tags of posts: %w", err)
	}

	for _, row := range rows {
		result[row.PostID] = append(result[row.PostID], row.Tag)
	}

	return result, nil
}

func (r *tagRepository) Count(ctx context.Context) (int, error) {
	var count int

	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM tags`); err != nil {
		return 0, fmt.Errorf("failed to count tags: %w", err)
	}

	return count, nil
}
