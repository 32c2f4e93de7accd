package handlers

import (
	"context"
	"strings"

	"gramm/internal/config"
	"gramm/internal/oauth"
	"gramm/internal/service"
	"gramm/internal/storage"

	"github.com/go-playground/validator/v10"
)

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type Handlers struct {
	AccountService   service.AccountService
	AuthService      service.AuthService
	FeedService      service.FeedService
	PostService      service.PostService
	FollowService    service.FollowService
	ThumbnailService service.ThumbnailService
	StatsService     service.StatsService
	Providers        map[string]oauth.Provider
	Storage          storage.Storage
	DB               HealthChecker
	Cfg              *config.Config
	Validate         *validator.Validate
}

func NewHandlers(services *service.Service, providers map[string]oauth.Provider, store storage.Storage, db HealthChecker, cfg *config.Config) *Handlers {
	return &Handlers{
		AccountService:   services.Account,
		AuthService:      services.Auth,
		FeedService:      services.Feed,
		PostService:      services.Post,
		FollowService:    services.Follow,
		ThumbnailService: services.Thumbnail,
		StatsService:     services.Stats,
		Providers:        providers,
		Storage:          store,
		DB:               db,
		Cfg:              cfg,
		Validate:         validator.New(),
	}
}

// mediaURL turns a stored object path into a link clients can fetch.
func (h *Handlers) mediaURL(path string) string {
	if path == "" || h.Storage == nil || strings.HasPrefix(path, "http") {
		return path
	}
	return h.Storage.URL(path)
}

func (h *Handlers) mediaURLs(paths []string) []string {
	urls := make([]string, len(paths))
	for i, p := range paths {
		urls[i] = h.mediaURL(p)
	}
	return urls
}
