package service

import (
	"context"
	"fmt"
	"strings"

	"gramm/internal/clock"
	"gramm/internal/config"
	"gramm/internal/models"
	"gramm/internal/observability"
	"gramm/internal/repository"
	"gramm/internal/storage"
)

type CreatePostRequest struct {
	Body   string
	Tags   string
	Images []Upload
}

type LikeState struct {
	PostID string   `json:"postId"`
	Liked  bool     `json:"liked"`
	Likes  []string `json:"likes"`
}

type PostService interface {
	CreatePost(ctx context.Context, userID string, req CreatePostRequest) (*models.Post, []string, error)
	ToggleLike(ctx context.Context, userID, postID string) (*LikeState, error)
}

type postService struct {
	postRepo repository.PostRepository
	likeRepo repository.LikeRepository
	storage  storage.Storage
	clock    clock.Clock
	cfg      *config.Config
}

func NewPostService(postRepo repository.PostRepository, likeRepo repository.LikeRepository, store storage.Storage, clk clock.Clock, cfg *config.Config) PostService {
	return &postService{
		postRepo: postRepo,
		likeRepo: likeRepo,
		storage:  store,
		clock:    clk,
		cfg:      cfg,
	}
}

// CreatePost stores the images, then the post with its tags. Tags are
// shared across posts: each distinct tag string maps to one row.
func (p *postService) CreatePost(ctx context.Context, userID string, req CreatePostRequest) (*models.Post, []string, error) {
	if userID == "" {
		return nil, nil, models.ErrUnauthorized
	}

	body := strings.TrimSpace(req.Body)
	if err := ValidateBody(body); err != nil {
		return nil, nil, err
	}

	tags, err := ParseTags(req.Tags)
	if err != nil {
		return nil, nil, err
	}

	if p.cfg.MaxImagesPerPost > 0 && len(req.Images) > p.cfg.MaxImagesPerPost {
		return nil, nil, models.NewValidationError("images", fmt.Sprintf("Please submit at most %d images", p.cfg.MaxImagesPerPost))
	}

	for _, image := range req.Images {
		if err := checkUpload("images", image, p.cfg.MaxUploadSize); err != nil {
			return nil, nil, err
		}
	}

	stored := make([]string, 0, len(req.Images))
	for _, image := range req.Images {
		object, err := p.storage.Upload(ctx, p.cfg.Namespaces.Images, image.FileName, image.Content, image.Size)
		if err != nil {
			removeObjects(ctx, p.storage, stored)
			return nil, nil, fmt.Errorf("failed to store image: %w", err)
		}
		stored = append(stored, object)
	}

	post := &models.Post{
		UserID:    userID,
		Body:      body,
		CreatedAt: p.clock.Now(),
	}

	if err := p.postRepo.Create(ctx, post, tags, stored); err != nil {
		removeObjects(ctx, p.storage, stored)
		return nil, nil, err
	}

	return post, tags, nil
}

// ToggleLike flips the like of userID on postID; calling it twice restores the original state.
func (p *postService) ToggleLike(ctx context.Context, userID, postID string) (*LikeState, error) {
	if userID == "" {
		return nil, models.ErrUnauthorized
	}

	liked, err := p.likeRepo.Toggle(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	likes, err := p.likeRepo.Likers(ctx, postID)
	if err != nil {
		return nil, err
	}

	observability.RecordToggle("like", liked)

	return &LikeState{PostID: postID, Liked: liked, Likes: likes}, nil
}
