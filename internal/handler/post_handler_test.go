package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gramm/internal/models"
	"gramm/internal/service"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func feedPage() models.Page[models.FeedPost] {
	created := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)
	return models.Page[models.FeedPost]{
		Items: []models.FeedPost{
			{
				Post:            models.Post{PostID: "post-2", UserID: "user-9", Body: "sunset", CreatedAt: created},
				AuthorFirstName: "Bob",
				AuthorLastName:  "Ray",
				AuthorAvatar:    "avatars/bob.png",
				Images:          []string{"images/a.jpg", "images/b.jpg"},
				Likes:           []string{"user-123", "user-7"},
				Tags:            []string{"#sky", "#sea"},
				TagLine:         "#sky #sea",
			},
			{
				Post:   models.Post{PostID: "post-1", UserID: "user-123", Body: "hello", CreatedAt: created.Add(-time.Hour)},
				Images: []string{},
				Likes:  []string{},
				Tags:   []string{},
			},
		},
		Number:   1,
		PageSize: 2,
		Total:    3,
		NumPages: 2,
		HasNext:  true,
	}
}

func TestPageNumber(t *testing.T) {
	tests := []struct {
		query    string
		expected int
		err      error
	}{
		{query: "", expected: 1},
		{query: "?page=3", expected: 3},
		{query: "?page=0", expected: 0},
		{query: "?page=abc", err: models.ErrInvalidPage},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			page, err := pageNumber(httptest.NewRequest(http.MethodGet, "/api/feed"+tt.query, nil))
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, page)
		})
	}
}

func TestFeedHandler_Anonymous(t *testing.T) {
	th := createTestHandler()
	th.feed.On("VisiblePosts", anyContext, models.Anonymous(), 1).Return(feedPage(), nil)

	rr := httptest.NewRecorder()
	th.Feed(rr, httptest.NewRequest(http.MethodGet, "/api/feed", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var body PageResponse
	decodeBody(t, rr, &body)
	assert.Len(t, body.Posts, 2)
	assert.True(t, body.HasNext)
	assert.Equal(t, 2, body.TotalPages)

	first := body.Posts[0]
	assert.Equal(t, "http://cdn.test/avatars/bob.png", first.AuthorAvatar)
	assert.Equal(t, []string{"http://cdn.test/images/a.jpg", "http://cdn.test/images/b.jpg"}, first.Images)
	assert.Equal(t, 2, first.LikesCount)
	assert.False(t, first.Liked)
	assert.Equal(t, "#sky #sea", first.TagLine)

	assert.Empty(t, body.Posts[1].Images)
	assert.NotNil(t, body.Posts[1].Images)
}

func TestFeedHandler_ViewerLikes(t *testing.T) {
	th := createTestHandler()
	th.feed.On("VisiblePosts", anyContext, mock.MatchedBy(func(v models.Viewer) bool {
		return v.UserID == "user-123"
	}), 2).Return(feedPage(), nil)

	rr := httptest.NewRecorder()
	th.Feed(rr, asViewer(httptest.NewRequest(http.MethodGet, "/api/feed?page=2", nil), "user-123"))

	assert.Equal(t, http.StatusOK, rr.Code)
	var body PageResponse
	decodeBody(t, rr, &body)
	assert.True(t, body.Posts[0].Liked)
	assert.False(t, body.Posts[1].Liked)
}

func TestFeedHandler_Errors(t *testing.T) {
	t.Run("page is not a number", func(t *testing.T) {
		th := createTestHandler()

		rr := httptest.NewRecorder()
		th.Feed(rr, httptest.NewRequest(http.MethodGet, "/api/feed?page=x", nil))

		assertJSONError(t, rr, http.StatusBadRequest, models.ErrInvalidPage.Error())
		th.feed.AssertNotCalled(t, "VisiblePosts", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("page out of range", func(t *testing.T) {
		th := createTestHandler()
		th.feed.On("VisiblePosts", anyContext, models.Anonymous(), 9).Return(models.Page[models.FeedPost]{}, models.ErrInvalidPage)

		rr := httptest.NewRecorder()
		th.Feed(rr, httptest.NewRequest(http.MethodGet, "/api/feed?page=9", nil))

		assertJSONError(t, rr, http.StatusBadRequest, models.ErrInvalidPage.Error())
	})

	t.Run("store failure", func(t *testing.T) {
		th := createTestHandler()
		th.feed.On("VisiblePosts", anyContext, models.Anonymous(), 1).Return(models.Page[models.FeedPost]{}, errors.New("db down"))

		rr := httptest.NewRecorder()
		th.Feed(rr, httptest.NewRequest(http.MethodGet, "/api/feed", nil))

		assertJSONError(t, rr, http.StatusInternalServerError, "Internal server error")
	})
}

func TestCreatePostHandler(t *testing.T) {
	th := createTestHandler()
	created := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)

	th.posts.On("CreatePost", anyContext, "user-123", mock.MatchedBy(func(req service.CreatePostRequest) bool {
		return req.Body == "sunset" && req.Tags == "#sky #sea" && len(req.Images) == 2 &&
			req.Images[0].FileName == "a.jpg" && req.Images[1].FileName == "b.jpg"
	})).Return(&models.Post{PostID: "post-2", UserID: "user-123", Body: "sunset", CreatedAt: created}, []string{"#sky", "#sea"}, nil)

	body, contentType := multipartBody(t, map[string]string{"body": "sunset", "tags": "#sky #sea"},
		formFile{field: "images", name: "a.jpg", content: []byte("jpeg-a")},
		formFile{field: "images", name: "b.jpg", content: []byte("jpeg-b")},
	)
	req := httptest.NewRequest(http.MethodPost, "/api/posts", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()

	th.CreatePost(rr, asViewer(req, "user-123"))

	assert.Equal(t, http.StatusCreated, rr.Code)
	var response CreatePostResponse
	decodeBody(t, rr, &response)
	assert.Equal(t, "post-2", response.PostID)
	assert.Equal(t, []string{"#sky", "#sea"}, response.Tags)
	th.posts.AssertExpectations(t)
}

func TestCreatePostHandler_ValidationError(t *testing.T) {
	th := createTestHandler()
	th.posts.On("CreatePost", anyContext, "user-123", mock.Anything).
		Return(nil, nil, models.NewValidationError("tags", "Each tag must start with #"))

	body, contentType := multipartBody(t, map[string]string{"body": "sunset", "tags": "sky"})
	req := httptest.NewRequest(http.MethodPost, "/api/posts", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()

	th.CreatePost(rr, asViewer(req, "user-123"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var response ErrorResponse
	decodeBody(t, rr, &response)
	assert.Equal(t, "tags", response.Field)
}

func TestToggleLikeHandler(t *testing.T) {
	tests := []struct {
		name           string
		state          *service.LikeState
		serviceErr     error
		expectedStatus int
	}{
		{
			name:           "liked",
			state:          &service.LikeState{PostID: "post-2", Liked: true, Likes: 3},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unliked",
			state:          &service.LikeState{PostID: "post-2", Liked: false, Likes: 2},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown post",
			serviceErr:     models.ErrNotFound,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := createTestHandler()
			if tt.serviceErr != nil {
				th.posts.On("ToggleLike", anyContext, "user-123", "post-2").Return(nil, tt.serviceErr)
			} else {
				th.posts.On("ToggleLike", anyContext, "user-123", "post-2").Return(tt.state, nil)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/posts/post-2/like", nil)
			req = mux.SetURLVars(asViewer(req, "user-123"), map[string]string{"postID": "post-2"})
			rr := httptest.NewRecorder()

			th.ToggleLike(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.state != nil {
				var body service.LikeState
				decodeBody(t, rr, &body)
				assert.Equal(t, *tt.state, body)
			}
		})
	}
}
