package repository

import (
	"context"
	"fmt"
	"time"

	"gramm/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type ImageRepositoryImpl struct {
	db *sqlx.DB
}

func NewImageRepository(db *sqlx.DB) *ImageRepositoryImpl {
	return &ImageRepositoryImpl{db: db}
}

func insertImage(ctx context.Context, e sqlx.ExtContext, image *models.Image) error {
	query := `
		INSERT INTO images (image_id, post_id, image_path, created_at)
		VALUES (:image_id, :post_id, :image_path, :created_at)
	`

	// v7 keeps ids in insertion order for images created in the same instant
	if image.ImageID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate image id: %w", err)
		}
		image.ImageID = id.String()
	}

	if image.CreatedAt.IsZero() {
		image.CreatedAt = time.Now().UTC()
	}

	if _, err := sqlx.NamedExecContext(ctx, e, query, image); err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}

	return nil
}

func (r *ImageRepositoryImpl) GetByPostID(ctx context.Context, postID string) ([]*models.Image, error) {
	query := `SELECT image_id, post_id, image_path, created_at FROM images WHERE post_id = $1 ORDER BY created_at, image_id`

	var images []*models.Image
	err := r.db.SelectContext(ctx, &images, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to get images: %w", err)
	}

	return images, nil
}

// PathsForPosts returns the image paths of each post in creation order.
func (r *ImageRepositoryImpl) PathsForPosts(ctx context.Context, postIDs []string) (map[string][]string, error) {
	result := make(map[string][]string, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT image_id, post_id, image_path, created_at
		FROM images
		WHERE post_id = ANY($1)
		ORDER BY created_at, image_id
	`

	var images []models.Image
	if err := r.db.SelectContext(ctx, &images, query, pq.Array(postIDs)); err != nil {
		return nil, fmt.Errorf("failed to get images of posts: %w", err)
	}

	for _, image := range images {
		result[image.PostID] = append(result[image.PostID], image.ImagePath)
	}

	return result, nil
}

func (r *ImageRepositoryImpl) UpdatePath(ctx context.Context, currentPath, newPath string) (int64, error) {
	query := `UPDATE images SET image_path = $1 WHERE image_path = $2`

	result, err := r.db.ExecContext(ctx, query, newPath, currentPath)
	if err != nil {
		return 0, fmt.Errorf("failed to update image path: %w", err)
	}

	return result.RowsAffected()
}
