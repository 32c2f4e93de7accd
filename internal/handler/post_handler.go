package handlers

import (
	"net/http"
	"strconv"
	"time"

	"gramm/internal/models"
	"gramm/internal/service"

	"github.com/gorilla/mux"
)

type PostResponse struct {
	PostID          string    `json:"postId"`
	AuthorID        string    `json:"authorId"`
	AuthorFirstName string    `json:"authorFirstName"`
	AuthorLastName  string    `json:"authorLastName"`
	AuthorAvatar    string    `json:"authorAvatar"`
	Body            string    `json:"body"`
	CreatedAt       time.Time `json:"createdAt"`
	Images          []string  `json:"images"`
	Likes           []string  `json:"likes"`
	LikesCount      int       `json:"likesCount"`
	Liked           bool      `json:"liked"`
	Tags            []string  `json:"tags"`
	TagLine         string    `json:"tagLine"`
}

type PageResponse struct {
	Posts       []PostResponse `json:"posts"`
	Page        int            `json:"page"`
	PageSize    int            `json:"pageSize"`
	Total       int            `json:"total"`
	TotalPages  int            `json:"totalPages"`
	HasNext     bool           `json:"hasNext"`
	HasPrevious bool           `json:"hasPrevious"`
}

type CreatePostResponse struct {
	PostID    string    `json:"postId"`
	Body      string    `json:"body"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
}

// pageNumber reads ?page=N, defaulting to the first page.
func pageNumber(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1, nil
	}

	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, models.ErrInvalidPage
	}
	return page, nil
}

func (h *Handlers) postResponse(p models.FeedPost, viewer models.Viewer) PostResponse {
	return PostResponse{
		PostID:          p.PostID,
		AuthorID:        p.UserID,
		AuthorFirstName: p.AuthorFirstName,
		AuthorLastName:  p.AuthorLastName,
		AuthorAvatar:    h.mediaURL(p.AuthorAvatar),
		Body:            p.Body,
		CreatedAt:       p.CreatedAt,
		Images:          h.mediaURLs(p.Images),
		Likes:           p.Likes,
		LikesCount:      len(p.Likes),
		Liked:           !viewer.IsAnonymous() && p.LikedBy(viewer.UserID),
		Tags:            p.Tags,
		TagLine:         p.TagLine,
	}
}

func (h *Handlers) pageResponse(page models.Page[models.FeedPost], viewer models.Viewer) PageResponse {
	posts := make([]PostResponse, len(page.Items))
	for i, p := range page.Items {
		posts[i] = h.postResponse(p, viewer)
	}

	return PageResponse{
		Posts:       posts,
		Page:        page.Number,
		PageSize:    page.PageSize,
		Total:       page.Total,
		TotalPages:  page.NumPages,
		HasNext:     page.HasNext,
		HasPrevious: page.HasPrevious,
	}
}

// Feed lists every post for anonymous visitors, and the viewer's own posts
// plus those of followed authors otherwise.
func (h *Handlers) Feed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	page, err := pageNumber(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	viewer := models.ViewerFrom(r.Context())

	posts, err := h.FeedService.VisiblePosts(r.Context(), viewer, page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, h.pageResponse(posts, viewer), http.StatusOK)
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	viewer := models.ViewerFrom(r.Context())

	if !h.parseForm(w, r) {
		return
	}

	req := service.CreatePostRequest{
		Body: r.FormValue("body"),
		Tags: r.FormValue("tags"),
	}

	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["images"] {
			upload, closeFn, err := openUpload(header)
			if err != nil {
				WriteError(w, "Failed to read the file", http.StatusBadRequest)
				return
			}
			defer closeFn()
			req.Images = append(req.Images, upload)
		}
	}

	post, tags, err := h.PostService.CreatePost(r.Context(), viewer.UserID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if tags == nil {
		tags = []string{}
	}

	writeSuccess(w, CreatePostResponse{
		PostID:    post.PostID,
		Body:      post.Body,
		Tags:      tags,
		CreatedAt: post.CreatedAt,
	}, http.StatusCreated)
}

func (h *Handlers) ToggleLike(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	viewer := models.ViewerFrom(r.Context())
	postID := mux.Vars(r)["postID"]

	state, err := h.PostService.ToggleLike(r.Context(), viewer.UserID, postID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, state, http.StatusOK)
}
