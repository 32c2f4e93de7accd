package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gramm/internal/models"
	"gramm/internal/observability"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const feedSelect = `
	SELECT p.post_id, p.user_id, p.body, p.created_at,
		u.first_name, u.last_name, u.bio, u.avatar
	FROM posts p
	JOIN users u ON u.user_id = p.user_id
`

// own posts plus posts of followed authors in one predicate, so a post cannot appear twice
const visibleWhere = `WHERE p.user_id = $1 OR p.user_id IN (SELECT author_id FROM follows WHERE follower_id = $1)`

const feedOrder = ` ORDER BY p.created_at DESC, p.post_id DESC`

type PostRepositoryImpl struct {
	DB  *sqlx.DB
	log *observability.RepoLogger
}

func NewPostRepository(db *sqlx.DB) *PostRepositoryImpl {
	return &PostRepositoryImpl{DB: db, log: observability.NewRepoLogger("posts")}
}

// Create inserts the post, links its tags and stores its images in one transaction.
func (r *PostRepositoryImpl) Create(ctx context.Context, post *models.Post, tags []string, imagePaths []string) error {
	if post.PostID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate post id: %w", err)
		}
		post.PostID = id.String()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}

	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO posts (post_id, user_id, body, created_at)
		VALUES (:post_id, :user_id, :body, :created_at)
	`

	if _, err = tx.NamedExecContext(ctx, query, post); err != nil {
		r.log.LogError(ctx, err, "create")
		if isForeignKeyError(err) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to create post: %w", err)
	}

	for _, tag := range tags {
		tagID, err := getOrCreateTag(ctx, tx, tag)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO post_tags (post_id, tag_id, created_at) VALUES ($1, $2, $3)
			ON CONFLICT (post_id, tag_id) DO NOTHING`,
			post.PostID, tagID, post.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to link tag %q: %w", tag, err)
		}
	}

	for _, path := range imagePaths {
		image := models.Image{PostID: post.PostID, ImagePath: path, CreatedAt: post.CreatedAt}
		if err := insertImage(ctx, tx, &image); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit post: %w", err)
	}

	r.log.LogWrite(ctx, "create", map[string]any{"post_id": post.PostID, "tags": len(tags), "images": len(imagePaths)})
	return nil
}

func (r *PostRepositoryImpl) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	query := `SELECT post_id, user_id, body, created_at FROM posts WHERE post_id = $1`

	var post models.Post
	err := r.DB.GetContext(ctx, &post, query, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isMalformedIDError(err) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return &post, nil
}

func (r *PostRepositoryImpl) CountVisible(ctx context.Context, viewerID string) (int, error) {
	var (
		count int
		err   error
	)

	if viewerID == "" {
		err = r.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM posts p`)
	} else {
		err = r.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM posts p `+visibleWhere, viewerID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count feed: %w", err)
	}

	return count, nil
}

func (r *PostRepositoryImpl) ListVisible(ctx context.Context, viewerID string, limit, offset int) ([]models.FeedPost, error) {
	posts := []models.FeedPost{}

	var err error
	if viewerID == "" {
		err = r.DB.SelectContext(ctx, &posts, feedSelect+feedOrder+` LIMIT $1 OFFSET $2`, limit, offset)
	} else {
		err = r.DB.SelectContext(ctx, &posts, feedSelect+visibleWhere+feedOrder+` LIMIT $2 OFFSET $3`, viewerID, limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list feed: %w", err)
	}

	return posts, nil
}

func (r *PostRepositoryImpl) CountByAuthor(ctx context.Context, authorID string) (int, error) {
	var count int

	if err := r.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM posts WHERE user_id = $1`, authorID); err != nil {
		if isMalformedIDError(err) {
			return 0, models.ErrNotFound
		}
		return 0, fmt.Errorf("failed to count posts of author: %w", err)
	}

	return count, nil
}

func (r *PostRepositoryImpl) ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]models.FeedPost, error) {
	posts := []models.FeedPost{}

	query := feedSelect + `WHERE p.user_id = $1` + feedOrder + ` LIMIT $2 OFFSET $3`

	if err := r.DB.SelectContext(ctx, &posts, query, authorID, limit, offset); err != nil {
		if isMalformedIDError(err) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to list posts of author: %w", err)
	}

	return posts, nil
}
