package repository

import (
	"context"
	"time"

	"gramm/internal/models"

	"github.com/jmoiron/sqlx"
)

type UserRepository interface {
	CreatePending(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByActivationLink(ctx context.Context, link string) (*models.User, error)
	GetByPasswordResetLink(ctx context.Context, link string) (*models.User, error)
	ActivationLinkExists(ctx context.Context, link string) (bool, error)
	PasswordResetLinkExists(ctx context.Context, link string) (bool, error)
	// CompleteActivation activates the pending holder of link only if it joined after cutoff.
	CompleteActivation(ctx context.Context, link string, profile models.Profile, passwordHash string, activatedAt, cutoff time.Time) (bool, error)
	DeletePending(ctx context.Context, userID string) error
	DeleteExpiredPending(ctx context.Context, cutoff time.Time) (int64, error)
	SetPasswordResetLink(ctx context.Context, userID, link string, issuedAt time.Time) error
	// CompletePasswordReset consumes link only if it was issued after cutoff.
	CompletePasswordReset(ctx context.Context, link, passwordHash string, cutoff time.Time) (bool, error)
	UpdateAvatarPath(ctx context.Context, currentPath, newPath string) (int64, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post, tags []string, imagePaths []string) error
	GetByID(ctx context.Context, postID string) (*models.Post, error)
	// viewerID "" selects every post.
	CountVisible(ctx context.Context, viewerID string) (int, error)
	ListVisible(ctx context.Context, viewerID string, limit, offset int) ([]models.FeedPost, error)
	CountByAuthor(ctx context.Context, authorID string) (int, error)
	ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]models.FeedPost, error)
}

type TagRepository interface {
	GetOrCreate(ctx context.Context, tag string) (int64, error)
	TagsForPosts(ctx context.Context, postIDs []string) (map[string][]string, error)
	Count(ctx context.Context) (int, error)
}

type LikeRepository interface {
	Toggle(ctx context.Context, userID, postID string) (bool, error)
	Likers(ctx context.Context, postID string) ([]string, error)
	LikersForPosts(ctx context.Context, postIDs []string) (map[string][]string, error)
}

type FollowRepository interface {
	Follow(ctx context.Context, authorID, followerID string) (bool, error)
	Unfollow(ctx context.Context, authorID, followerID string) (bool, error)
	IsFollowing(ctx context.Context, authorID, followerID string) (bool, error)
	EdgesTouching(ctx context.Context, userID string) ([]models.FollowEdge, error)
}

type ImageRepository interface {
	GetByPostID(ctx context.Context, postID string) ([]*models.Image, error)
	PathsForPosts(ctx context.Context, postIDs []string) (map[string][]string, error)
	UpdatePath(ctx context.Context, currentPath, newPath string) (int64, error)
}

type StatsRepository interface {
	CountTables(ctx context.Context) (int, error)
	RowCounts(ctx context.Context) (map[string]int, error)
}

type Repository struct {
	User   UserRepository
	Post   PostRepository
	Tag    TagRepository
	Like   LikeRepository
	Follow FollowRepository
	Image  ImageRepository
	Stats  StatsRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User:   NewUserRepository(db),
		Post:   NewPostRepository(db),
		Tag:    NewTagRepository(db),
		Like:   NewLikeRepository(db),
		Follow: NewFollowRepository(db),
		Image:  NewImageRepository(db),
		Stats:  NewStatsRepository(db),
	}
}
