package service

import (
	"context"
	"strings"

	"gramm/internal/models"
	"gramm/internal/repository"
)

type FeedService interface {
	// VisiblePosts is every post for an anonymous viewer, otherwise the
	// viewer's own posts together with those of the authors they follow.
	VisiblePosts(ctx context.Context, viewer models.Viewer, pageNumber int) (models.Page[models.FeedPost], error)
	ProfilePosts(ctx context.Context, authorID string, viewer models.Viewer, pageNumber int) (models.ProfileView, error)
}

type feedService struct {
	postRepo  repository.PostRepository
	userRepo  repository.UserRepository
	imageRepo repository.ImageRepository
	likeRepo  repository.LikeRepository
	tagRepo   repository.TagRepository
	follows   FollowService
	pageSize  int
}

func NewFeedService(repo *repository.Repository, follows FollowService, pageSize int) FeedService {
	return &feedService{
		postRepo:  repo.Post,
		userRepo:  repo.User,
		imageRepo: repo.Image,
		likeRepo:  repo.Like,
		tagRepo:   repo.Tag,
		follows:   follows,
		pageSize:  pageSize,
	}
}

func (s *feedService) VisiblePosts(ctx context.Context, viewer models.Viewer, pageNumber int) (models.Page[models.FeedPost], error) {
	total, err := s.postRepo.CountVisible(ctx, viewer.UserID)
	if err != nil {
		return models.Page[models.FeedPost]{}, err
	}

	page, err := NewPage[models.FeedPost](total, s.pageSize, pageNumber)
	if err != nil {
		return page, err
	}

	if total == 0 {
		return page, nil
	}

	posts, err := s.postRepo.ListVisible(ctx, viewer.UserID, page.PageSize, page.Offset())
	if err != nil {
		return models.Page[models.FeedPost]{}, err
	}

	if err := s.enrich(ctx, posts); err != nil {
		return models.Page[models.FeedPost]{}, err
	}

	page.Items = posts
	return page, nil
}

func (s *feedService) ProfilePosts(ctx context.Context, authorID string, viewer models.Viewer, pageNumber int) (models.ProfileView, error) {
	stats, err := s.follows.FollowStats(ctx, authorID, viewer)
	if err != nil {
		return models.ProfileView{}, err
	}

	total, err := s.postRepo.CountByAuthor(ctx, authorID)
	if err != nil {
		return models.ProfileView{}, err
	}

	if total == 0 {
		user, err := s.userRepo.GetByID(ctx, authorID)
		if err != nil {
			return models.ProfileView{}, err
		}
		return models.SingleRecordProfile(user, stats), nil
	}

	page, err := NewPage[models.FeedPost](total, s.pageSize, pageNumber)
	if err != nil {
		return models.ProfileView{}, err
	}

	posts, err := s.postRepo.ListByAuthor(ctx, authorID, page.PageSize, page.Offset())
	if err != nil {
		return models.ProfileView{}, err
	}

	if err := s.enrich(ctx, posts); err != nil {
		return models.ProfileView{}, err
	}

	page.Items = posts
	return models.PageProfile(authorID, page, stats), nil
}

// enrich attaches images, likers and tags with one query each for the whole page.
func (s *feedService) enrich(ctx context.Context, posts []models.FeedPost) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]string, len(posts))
	for i := range posts {
		ids[i] = posts[i].PostID
	}

	images, err := s.imageRepo.PathsForPosts(ctx, ids)
	if err != nil {
		return err
	}

	likes, err := s.likeRepo.LikersForPosts(ctx, ids)
	if err != nil {
		return err
	}

	tags, err := s.tagRepo.TagsForPosts(ctx, ids)
	if err != nil {
		return err
	}

	for i := range posts {
		id := posts[i].PostID
		posts[i].Images = orEmpty(images[id])
		posts[i].Likes = orEmpty(likes[id])
		posts[i].Tags = orEmpty(tags[id])
		posts[i].TagLine = strings.Join(posts[i].Tags, " ")
	}

	return nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
