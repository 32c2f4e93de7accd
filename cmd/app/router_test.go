package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	handlers "gramm/internal/handler"
	"gramm/internal/models"
	"gramm/internal/service"

	"github.com/stretchr/testify/assert"
)

type stubAuth struct {
	service.AuthService
}

func (stubAuth) ParseToken(token string) (models.Viewer, error) {
	if token == "good" {
		return models.Viewer{UserID: "user-123"}, nil
	}
	return models.Viewer{}, errors.New("bad token")
}

type stubFeed struct {
	service.FeedService
	seen models.Viewer
}

func (s *stubFeed) VisiblePosts(ctx context.Context, viewer models.Viewer, pageNumber int) (models.Page[models.FeedPost], error) {
	s.seen = viewer
	return models.Page[models.FeedPost]{Items: []models.FeedPost{}, Number: pageNumber, PageSize: 10, NumPages: 1}, nil
}

func TestRouter(t *testing.T) {
	feed := &stubFeed{}
	router := NewRouter(&handlers.Handlers{FeedService: feed}, stubAuth{})

	tests := []struct {
		name           string
		method         string
		target         string
		token          string
		expectedStatus int
	}{
		{name: "anonymous feed", method: http.MethodGet, target: "/api/feed", expectedStatus: http.StatusOK},
		{name: "feed with viewer", method: http.MethodGet, target: "/api/feed", token: "good", expectedStatus: http.StatusOK},
		{name: "bad token", method: http.MethodGet, target: "/api/feed", token: "bad", expectedStatus: http.StatusUnauthorized},
		{name: "private route needs viewer", method: http.MethodGet, target: "/api/me", expectedStatus: http.StatusUnauthorized},
		{name: "wrong method", method: http.MethodDelete, target: "/api/feed", expectedStatus: http.StatusMethodNotAllowed},
		{name: "unknown route", method: http.MethodGet, target: "/api/nothing", expectedStatus: http.StatusNotFound},
		{name: "metrics", method: http.MethodGet, target: "/metrics", expectedStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/api/feed", nil)
	req.Header.Set("Authorization", "Bearer good")
	router.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "user-123", feed.seen.UserID)
}
