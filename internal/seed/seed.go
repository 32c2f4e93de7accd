// Package seed fills a development database with demo accounts, posts,
// follows and likes. Everything goes through the services so the data obeys
// the same rules as real traffic.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode"

	"gramm/internal/models"
	"gramm/internal/service"

	"github.com/brianvoe/gofakeit/v6"
)

const DefaultPassword = "gramm-demo-password"

type Options struct {
	Users          int
	PostsPerUser   int
	FollowsPerUser int
	LikesPerUser   int
}

type Summary struct {
	Users   int `json:"users"`
	Posts   int `json:"posts"`
	Follows int `json:"follows"`
	Likes   int `json:"likes"`
}

type Seeder struct {
	accounts service.AccountService
	posts    service.PostService
	follows  service.FollowService
	faker    *gofakeit.Faker
}

func New(accounts service.AccountService, posts service.PostService, follows service.FollowService, seed int64) *Seeder {
	return &Seeder{
		accounts: accounts,
		posts:    posts,
		follows:  follows,
		faker:    gofakeit.New(seed),
	}
}

func (s *Seeder) Run(ctx context.Context, opts Options) (Summary, error) {
	var summary Summary

	users := make([]*models.User, 0, opts.Users)
	for range opts.Users {
		user, err := s.user(ctx)
		if errors.Is(err, models.ErrDuplicateEmail) {
			continue
		}
		if err != nil {
			return summary, err
		}
		users = append(users, user)
	}
	summary.Users = len(users)

	var postIDs []string
	for _, user := range users {
		for range opts.PostsPerUser {
			post, _, err := s.posts.CreatePost(ctx, user.UserID, service.CreatePostRequest{
				Body: s.body(),
				Tags: s.tagLine(),
			})
			if err != nil {
				return summary, fmt.Errorf("failed to seed post: %w", err)
			}
			postIDs = append(postIDs, post.PostID)
		}
	}
	summary.Posts = len(postIDs)

	for _, follower := range users {
		for range opts.FollowsPerUser {
			author := users[s.faker.Number(0, len(users)-1)]
			if author.UserID == follower.UserID {
				continue
			}
			if err := s.follows.Follow(ctx, author.UserID, follower.UserID); err != nil {
				return summary, fmt.Errorf("failed to seed follow: %w", err)
			}
			summary.Follows++
		}
	}

	if len(postIDs) > 0 {
		for _, user := range users {
			for range opts.LikesPerUser {
				postID := postIDs[s.faker.Number(0, len(postIDs)-1)]
				state, err := s.posts.ToggleLike(ctx, user.UserID, postID)
				if err != nil {
					return summary, fmt.Errorf("failed to seed like: %w", err)
				}
				if state.Liked {
					summary.Likes++
				} else {
					summary.Likes--
				}
			}
		}
	}

	slog.InfoContext(ctx, "demo data seeded",
		slog.Int("users", summary.Users),
		slog.Int("posts", summary.Posts),
		slog.Int("follows", summary.Follows),
		slog.Int("likes", summary.Likes),
	)

	return summary, nil
}

// user registers and immediately activates a demo account.
func (s *Seeder) user(ctx context.Context) (*models.User, error) {
	pending, err := s.accounts.Register(ctx, strings.ToLower(s.faker.Email()))
	if err != nil {
		return nil, err
	}

	return s.accounts.CompleteActivation(ctx, pending.ActivationLink, service.ActivationRequest{
		FirstName:    lettersOnly(s.faker.FirstName(), "Demo"),
		LastName:     lettersOnly(s.faker.LastName(), "User"),
		Bio:          truncate(s.faker.Sentence(8), service.MaxBioLength),
		Password:     DefaultPassword,
		Confirmation: DefaultPassword,
	})
}

func (s *Seeder) body() string {
	return truncate(s.faker.Sentence(s.faker.Number(4, 20)), service.MaxBodyLength)
}

// tagLine builds a line like "#apple #cloud" that fits the tag limit.
func (s *Seeder) tagLine() string {
	var tags []string
	length := 0
	for range s.faker.Number(0, 3) {
		word := lettersOnly(strings.ToLower(s.faker.Word()), "")
		if word == "" {
			continue
		}
		tag := "#" + word
		if length+len(tag)+len(tags) > service.MaxTagsLength || slices.Contains(tags, tag) {
			continue
		}
		tags = append(tags, tag)
		length += len(tag)
	}
	return strings.Join(tags, " ")
}

func lettersOnly(s, fallback string) string {
	out := strings.Map(func(r rune) rune {
		if r <= unicode.MaxASCII && unicode.IsLetter(r) {
			return r
		}
		return -1
	}, s)
	if out == "" {
		return fallback
	}
	return out
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
