package service

import (
	"gramm/internal/clock"
	"gramm/internal/config"
	"gramm/internal/mail"
	"gramm/internal/repository"
	"gramm/internal/storage"
)

type Service struct {
	Account   AccountService
	Auth      AuthService
	Feed      FeedService
	Post      PostService
	Follow    FollowService
	Thumbnail ThumbnailService
	Stats     StatsService
}

func NewService(rep *repository.Repository, cfg *config.Config, storage storage.Storage, mailer mail.Mailer, clk clock.Clock) *Service {
	follow := NewFollowService(rep.Follow)

	return &Service{
		Account:   NewAccountService(rep.User, mailer, storage, clk, cfg),
		Auth:      NewAuthService(rep.User, clk, cfg),
		Feed:      NewFeedService(rep, follow, cfg.PostsPerPage),
		Post:      NewPostService(rep.Post, rep.Like, storage, clk, cfg),
		Follow:    follow,
		Thumbnail: NewThumbnailService(rep.User, rep.Image, cfg),
		Stats:     NewStatsService(rep.Stats),
	}
}
