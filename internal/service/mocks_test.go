package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"gramm/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post, tags []string, imagePaths []string) error {
	args := m.Called(ctx, post, tags, imagePaths)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) CountVisible(ctx context.Context, viewerID string) (int, error) {
	args := m.Called(ctx, viewerID)
	return args.Int(0), args.Error(1)
}

func (m *MockPostRepository) ListVisible(ctx context.Context, viewerID string, limit, offset int) ([]models.FeedPost, error) {
	args := m.Called(ctx, viewerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FeedPost), args.Error(1)
}

func (m *MockPostRepository) CountByAuthor(ctx context.Context, authorID string) (int, error) {
	args := m.Called(ctx, authorID)
	return args.Int(0), args.Error(1)
}

func (m *MockPostRepository) ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]models.FeedPost, error) {
	args := m.Called(ctx, authorID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FeedPost), args.Error(1)
}

type MockTagRepository struct {
	mock.Mock
}

func (m *MockTagRepository) GetOrCreate(ctx context.Context, tag string) (int64, error) {
	args := m.Called(ctx, tag)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTagRepository) TagsForPosts(ctx context.Context, postIDs []string) (map[string][]string, error) {
	args := m.Called(ctx, postIDs)
	return args.Get(0).(map[string][]string), args.Error(1)
}

func (m *MockTagRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockLikeRepository struct {
	mock.Mock
}

func (m *MockLikeRepository) Toggle(ctx context.Context, userID, postID string) (bool, error) {
	args := m.Called(ctx, userID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLikeRepository) Likers(ctx context.Context, postID string) ([]string, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockLikeRepository) LikersForPosts(ctx context.Context, postIDs []string) (map[string][]string, error) {
	args := m.Called(ctx, postIDs)
	return args.Get(0).(map[string][]string), args.Error(1)
}

type MockFollowRepository struct {
	mock.Mock
}

func (m *MockFollowRepository) Follow(ctx context.Context, authorID, followerID string) (bool, error) {
	args := m.Called(ctx, authorID, followerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowRepository) Unfollow(ctx context.Context, authorID, followerID string) (bool, error) {
	args := m.Called(ctx, authorID, followerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowRepository) IsFollowing(ctx context.Context, authorID, followerID string) (bool, error) {
	args := m.Called(ctx, authorID, followerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowRepository) EdgesTouching(ctx context.Context, userID string) ([]models.FollowEdge, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.FollowEdge), args.Error(1)
}

type MockImageRepository struct {
	mock.Mock
}

func (m *MockImageRepository) GetByPostID(ctx context.Context, postID string) ([]*models.Image, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).([]*models.Image), args.Error(1)
}

func (m *MockImageRepository) PathsForPosts(ctx context.Context, postIDs []string) (map[string][]string, error) {
	args := m.Called(ctx, postIDs)
	return args.Get(0).(map[string][]string), args.Error(1)
}

func (m *MockImageRepository) UpdatePath(ctx context.Context, currentPath, newPath string) (int64, error) {
	args := m.Called(ctx, currentPath, newPath)
	return args.Get(0).(int64), args.Error(1)
}

type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) CountTables(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockStatsRepository) RowCounts(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
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
	args := m.Called(objectName)
	return args.String(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(to, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}

func (m *MockMailer) SendActivation(to, link string) error {
	args := m.Called(to, link)
	return args.Error(0)
}

func (m *MockMailer) SendPasswordReset(to, link string) error {
	args := m.Called(to, link)
	return args.Error(0)
}

// memUserRepo keeps users in memory and applies the same conditional
// updates as the SQL store, so multi-step account flows can be driven end to end.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User

	// failComplete forces CompleteActivation to report no match.
	failComplete bool
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*models.User)}
}

func (r *memUserRepo) find(match func(*models.User) bool) *models.User {
	for _, u := range r.users {
		if match(u) {
			return u
		}
	}
	return nil
}

func (r *memUserRepo) copyOf(u *models.User) (*models.User, error) {
	if u == nil {
		return nil, models.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) CreatePending(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.find(func(u *models.User) bool { return u.Email == user.Email }) != nil {
		return models.ErrDuplicateEmail
	}
	user.UserID = uuid.NewString()
	cp := *user
	r.users[user.UserID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, userID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.copyOf(r.users[userID])
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.copyOf(r.find(func(u *models.User) bool { return u.Email == email }))
}

func (r *memUserRepo) GetByActivationLink(_ context.Context, link string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.copyOf(r.find(func(u *models.User) bool { return u.ActivationLink == link }))
}

func (r *memUserRepo) GetByPasswordResetLink(_ context.Context, link string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.copyOf(r.find(func(u *models.User) bool {
		return u.PasswordResetLink != nil && *u.PasswordResetLink == link
	}))
}

func (r *memUserRepo) ActivationLinkExists(ctx context.Context, link string) (bool, error) {
	_, err := r.GetByActivationLink(ctx, link)
	return err == nil, nil
}

func (r *memUserRepo) PasswordResetLinkExists(ctx context.Context, link string) (bool, error) {
	_, err := r.GetByPasswordResetLink(ctx, link)
	return err == nil, nil
}

func (r *memUserRepo) CompleteActivation(_ context.Context, link string, profile models.Profile, passwordHash string, activatedAt, cutoff time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failComplete {
		return false, nil
	}

	u := r.find(func(u *models.User) bool {
		return u.ActivationLink == link && !u.IsActive && u.DateJoined.After(cutoff)
	})
	if u == nil {
		return false, nil
	}

	u.FirstName, u.LastName, u.Bio, u.Avatar = profile.FirstName, profile.LastName, profile.Bio, profile.Avatar
	u.PasswordHash = passwordHash
	u.IsActive = true
	u.ActivatedAt = &activatedAt
	return true, nil
}

func (r *memUserRepo) DeletePending(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.users[userID]; ok && !u.IsActive {
		delete(r.users, userID)
	}
	return nil
}

func (r *memUserRepo) DeleteExpiredPending(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, u := range r.users {
		if !u.IsActive && !u.DateJoined.After(cutoff) {
			delete(r.users, id)
			n++
		}
	}
	return n, nil
}

func (r *memUserRepo) SetPasswordResetLink(_ context.Context, userID, link string, issuedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return models.ErrNotFound
	}
	u.PasswordResetLink = &link
	u.DatePasswordResetLink = &issuedAt
	return nil
}

func (r *memUserRepo) CompletePasswordReset(_ context.Context, link, passwordHash string, cutoff time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.find(func(u *models.User) bool {
		return u.PasswordResetLink != nil && *u.PasswordResetLink == link &&
			u.DatePasswordResetLink != nil && u.DatePasswordResetLink.After(cutoff)
	})
	if u == nil {
		return false, nil
	}

	u.PasswordHash = passwordHash
	u.PasswordResetLink = nil
	u.DatePasswordResetLink = nil
	return true, nil
}

func (r *memUserRepo) UpdateAvatarPath(_ context.Context, currentPath, newPath string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, u := range r.users {
		if u.Avatar == currentPath {
			u.Avatar = newPath
			n++
		}
	}
	return n, nil
}

// put stores a user as is, bypassing CreatePending.
func (r *memUserRepo) put(u models.User) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u.UserID == "" {
		u.UserID = uuid.NewString()
	}
	r.users[u.UserID] = &u
	return &u
}

var errStore = errors.New("store unavailable")
