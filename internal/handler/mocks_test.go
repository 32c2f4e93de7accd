package handlers

import (
	"context"
	"io"

	"gramm/internal/models"
	"gramm/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) Register(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAccountService) ResolveActivation(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAccountService) CompleteActivation(ctx context.Context, token string, req service.ActivationRequest) (*models.User, error) {
	args := m.Called(ctx, token, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAccountService) RequestPasswordReset(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockAccountService) ResolvePasswordReset(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAccountService) CompletePasswordReset(ctx context.Context, token, password, confirmation string) error {
	args := m.Called(ctx, token, password, confirmation)
	return args.Error(0)
}

func (m *MockAccountService) SocialSignIn(ctx context.Context, email string) (*service.SocialSignInResult, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SocialSignInResult), args.Error(1)
}

func (m *MockAccountService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAccountService) PurgeExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) IssueToken(user *models.User) (string, error) {
	args := m.Called(user)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ParseToken(tokenString string) (models.Viewer, error) {
	args := m.Called(tokenString)
	return args.Get(0).(models.Viewer), args.Error(1)
}

type MockFeedService struct {
	mock.Mock
}

func (m *MockFeedService) VisiblePosts(ctx context.Context, viewer models.Viewer, pageNumber int) (models.Page[models.FeedPost], error) {
	args := m.Called(ctx, viewer, pageNumber)
	return args.Get(0).(models.Page[models.FeedPost]), args.Error(1)
}

func (m *MockFeedService) ProfilePosts(ctx context.Context, authorID string, viewer models.Viewer, pageNumber int) (models.ProfileView, error) {
	args := m.Called(ctx, authorID, viewer, pageNumber)
	return args.Get(0).(models.ProfileView), args.Error(1)
}

type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) CreatePost(ctx context.Context, userID string, req service.CreatePostRequest) (*models.Post, []string, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.Post), args.Get(1).([]string), args.Error(2)
}

func (m *MockPostService) ToggleLike(ctx context.Context, userID, postID string) (*service.LikeState, error) {
	args := m.Called(ctx, userID, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LikeState), args.Error(1)
}

type MockFollowService struct {
	mock.Mock
}

func (m *MockFollowService) Follow(ctx context.Context, authorID, followerID string) error {
	args := m.Called(ctx, authorID, followerID)
	return args.Error(0)
}

func (m *MockFollowService) Unfollow(ctx context.Context, authorID, followerID string) error {
	args := m.Called(ctx, authorID, followerID)
	return args.Error(0)
}

func (m *MockFollowService) ToggleFollow(ctx context.Context, authorID, followerID string) (bool, error) {
	args := m.Called(ctx, authorID, followerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowService) IsFollowing(ctx context.Context, authorID, followerID string) (bool, error) {
	args := m.Called(ctx, authorID, followerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowService) FollowStats(ctx context.Context, authorID string, viewer models.Viewer) (models.FollowStats, error) {
	args := m.Called(ctx, authorID, viewer)
	return args.Get(0).(models.FollowStats), args.Error(1)
}

type MockThumbnailService struct {
	mock.Mock
}

func (m *MockThumbnailService) Apply(ctx context.Context, event service.ThumbnailEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) GetStats(ctx context.Context) (*service.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Stats), args.Error(1)
}

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Name() string {
	return "github"
}

func (m *MockProvider) AuthCodeURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockProvider) VerifiedEmail(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Error(1)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Upload(ctx context.Context, namespace string, fileName string, file io.Reader, size int64) (string, error) {
	args := m.Called(ctx, namespace, fileName, file, size)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, objectName string) error {
	args := m.Called(ctx, objectName)
	return args.Error(0)
}

func (m *MockStorage) URL(objectName string) string {
	return "http://cdn.test/" + objectName
}

type MockHealthChecker struct {
	mock.Mock
}

func (m *MockHealthChecker) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
