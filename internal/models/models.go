package models

import (
	"strings"
	"time"
)

type User struct {
	UserID                string     `json:"userId" db:"user_id"`
	Email                 string     `json:"email" db:"email"`
	PasswordHash          string     `json:"-" db:"password_hash"`
	FirstName             string     `json:"firstName" db:"first_name"`
	LastName              string     `json:"lastName" db:"last_name"`
	Bio                   string     `json:"bio" db:"bio"`
	Avatar                string     `json:"avatar" db:"avatar"`
	IsActive              bool       `json:"isActive" db:"is_active"`
	ActivationLink        string     `json:"-" db:"activation_link"`
	PasswordResetLink     *string    `json:"-" db:"password_reset_link"`
	DatePasswordResetLink *time.Time `json:"-" db:"date_password_reset_link"`
	DateJoined            time.Time  `json:"dateJoined" db:"date_joined"`
	ActivatedAt           *time.Time `json:"activatedAt,omitempty" db:"activated_at"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Profile holds the fields applied to a pending account when it is activated.
type Profile struct {
	FirstName string
	LastName  string
	Bio       string
	Avatar    string
}

type Post struct {
	PostID    string    `json:"postId" db:"post_id"`
	UserID    string    `json:"userId" db:"user_id"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// FeedPost is a post joined with its author and enriched with images, likes and tags.
type FeedPost struct {
	Post
	AuthorFirstName string   `json:"authorFirstName" db:"first_name"`
	AuthorLastName  string   `json:"authorLastName" db:"last_name"`
	AuthorBio       string   `json:"-" db:"bio"`
	AuthorAvatar    string   `json:"authorAvatar" db:"avatar"`
	Images          []string `json:"images" db:"-"`
	Likes           []string `json:"likes" db:"-"`
	Tags            []string `json:"tags" db:"-"`
	TagLine         string   `json:"tagLine" db:"-"`
}

func (p *FeedPost) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

type Tag struct {
	TagID int64  `json:"tagId" db:"tag_id"`
	Tag   string `json:"tag" db:"tag"`
}

type PostTag struct {
	PostTagID int64     `json:"postTagId" db:"post_tag_id"`
	PostID    string    `json:"postId" db:"post_id"`
	TagID     int64     `json:"tagId" db:"tag_id"`
	Tag       string    `json:"tag" db:"tag"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type Like struct {
	UserID    string    `json:"userId" db:"user_id"`
	PostID    string    `json:"postId" db:"post_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// FollowEdge is directed: Follower sees the posts of Author.
type FollowEdge struct {
	AuthorID   string    `json:"authorId" db:"author_id"`
	FollowerID string    `json:"followerId" db:"follower_id"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

type Image struct {
	ImageID   string    `json:"imageId" db:"image_id"`
	PostID    string    `json:"postId" db:"post_id"`
	ImagePath string    `json:"imagePath" db:"image_path"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type FollowStats struct {
	Followers   int  `json:"followers"`
	Followees   int  `json:"followees"`
	IsFollowing bool `json:"isFollowing"`
}

// Viewer is the identity a request runs as. The zero value is anonymous.
type Viewer struct {
	UserID string
	Email  string
}

func Anonymous() Viewer {
	return Viewer{}
}

func (v Viewer) IsAnonymous() bool {
	return v.UserID == ""
}
