package service

import (
	"context"

	"gramm/internal/models"
	"gramm/internal/observability"
	"gramm/internal/repository"
)

type FollowService interface {
	Follow(ctx context.Context, authorID, followerID string) error
	Unfollow(ctx context.Context, authorID, followerID string) error
	ToggleFollow(ctx context.Context, authorID, followerID string) (bool, error)
	IsFollowing(ctx context.Context, authorID, followerID string) (bool, error)
	FollowStats(ctx context.Context, authorID string, viewer models.Viewer) (models.FollowStats, error)
}

type followService struct {
	followRepo repository.FollowRepository
}

func NewFollowService(followRepo repository.FollowRepository) FollowService {
	return &followService{followRepo: followRepo}
}

func checkEdge(authorID, followerID string) error {
	if followerID == "" {
		return models.ErrUnauthorized
	}
	if authorID == followerID {
		return models.ErrSelfFollow
	}
	return nil
}

// Follow is idempotent: following twice leaves one edge.
func (s *followService) Follow(ctx context.Context, authorID, followerID string) error {
	if err := checkEdge(authorID, followerID); err != nil {
		return err
	}

	_, err := s.followRepo.Follow(ctx, authorID, followerID)
	return err
}

func (s *followService) Unfollow(ctx context.Context, authorID, followerID string) error {
	if err := checkEdge(authorID, followerID); err != nil {
		return err
	}

	_, err := s.followRepo.Unfollow(ctx, authorID, followerID)
	return err
}

// ToggleFollow returns whether followerID follows authorID afterwards.
func (s *followService) ToggleFollow(ctx context.Context, authorID, followerID string) (bool, error) {
	if err := checkEdge(authorID, followerID); err != nil {
		return false, err
	}

	removed, err := s.followRepo.Unfollow(ctx, authorID, followerID)
	if err != nil {
		return false, err
	}
	if removed {
		observability.RecordToggle("follow", false)
		return false, nil
	}

	if _, err := s.followRepo.Follow(ctx, authorID, followerID); err != nil {
		return false, err
	}

	observability.RecordToggle("follow", true)
	return true, nil
}

func (s *followService) IsFollowing(ctx context.Context, authorID, followerID string) (bool, error) {
	if followerID == "" || authorID == followerID {
		return false, nil
	}
	return s.followRepo.IsFollowing(ctx, authorID, followerID)
}

// FollowStats derives both counts and the viewer relation from one read of
// every edge touching the author.
func (s *followService) FollowStats(ctx context.Context, authorID string, viewer models.Viewer) (models.FollowStats, error) {
	edges, err := s.followRepo.EdgesTouching(ctx, authorID)
	if err != nil {
		return models.FollowStats{}, err
	}

	var stats models.FollowStats
	for _, edge := range edges {
		if edge.AuthorID == authorID {
			stats.Followers++
			if !viewer.IsAnonymous() && edge.FollowerID == viewer.UserID {
				stats.IsFollowing = true
			}
		}
		if edge.FollowerID == authorID {
			stats.Followees++
		}
	}

	return stats, nil
}
