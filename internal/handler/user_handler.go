package handlers

import (
	"net/http"

	"gramm/internal/models"

	"github.com/gorilla/mux"
)

type ProfileResponse struct {
	Kind        models.ProfileKind `json:"kind"`
	AuthorID    string             `json:"authorId"`
	FullName    string             `json:"fullName"`
	Bio         string             `json:"bio"`
	Avatar      string             `json:"avatar"`
	PostsAmount int                `json:"postsAmount"`
	Followers   int                `json:"followers"`
	Followees   int                `json:"followees"`
	IsFollowing bool               `json:"isFollowing"`
	IsOwner     bool               `json:"isOwner"`
	Posts       *PageResponse      `json:"posts,omitempty"`
}

type FollowResponse struct {
	AuthorID  string `json:"authorId"`
	Following bool   `json:"following"`
	Followers int    `json:"followers"`
	Followees int    `json:"followees"`
}

func (h *Handlers) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	viewer := models.ViewerFrom(r.Context())
	if viewer.IsAnonymous() {
		WriteError(w, models.ErrUnauthorized.Error(), http.StatusUnauthorized)
		return
	}

	user, err := h.AccountService.GetUser(r.Context(), viewer.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, h.userResponse(user), http.StatusOK)
}

// Profile shows an author's page of posts, or just the author when nothing is posted yet.
func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request) {
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
	authorID := mux.Vars(r)["userID"]

	view, err := h.FeedService.ProfilePosts(r.Context(), authorID, viewer, page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	fullName, bio, avatar := view.Author()
	response := ProfileResponse{
		Kind:        view.Kind,
		AuthorID:    view.AuthorID,
		FullName:    fullName,
		Bio:         bio,
		Avatar:      h.mediaURL(avatar),
		PostsAmount: view.PostsAmount(),
		Followers:   view.Stats.Followers,
		Followees:   view.Stats.Followees,
		IsFollowing: view.Stats.IsFollowing,
		IsOwner:     viewer.UserID == view.AuthorID,
	}

	if view.Kind == models.ProfileKindPage && view.Page != nil {
		posts := h.pageResponse(*view.Page, viewer)
		response.Posts = &posts
	}

	writeSuccess(w, response, http.StatusOK)
}

// Follow toggles the follow edge on POST and removes it on DELETE.
func (h *Handlers) Follow(w http.ResponseWriter, r *http.Request) {
	viewer := models.ViewerFrom(r.Context())
	authorID := mux.Vars(r)["authorID"]

	var (
		following bool
		err       error
	)

	switch r.Method {
	case http.MethodPost:
		following, err = h.FollowService.ToggleFollow(r.Context(), authorID, viewer.UserID)
	case http.MethodDelete:
		err = h.FollowService.Unfollow(r.Context(), authorID, viewer.UserID)
	default:
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	stats, err := h.FollowService.FollowStats(r.Context(), authorID, viewer)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, FollowResponse{
		AuthorID:  authorID,
		Following: following,
		Followers: stats.Followers,
		Followees: stats.Followees,
	}, http.StatusOK)
}
