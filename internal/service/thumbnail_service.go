package service

import (
	"context"
	"crypto/subtle"
	"strings"

	"gramm/internal/config"
	"gramm/internal/repository"
)

const OperationMakeThumbnail = "make_thumbnail"

// Replies of the thumbnail webhook. The thumbnailer matches on them, so they
// are sent verbatim.
const (
	MessageThumbnailSet   = "make_thumbnail operation has been completed"
	MessageInvalidToken   = "Token is invalid"
	MessageNoOperation    = "No operation found"
	MessageEmptyThumbnail = "Thumbnail cannot be emtpy"
	MessageImageNotFound  = "Image was not found"
)

// WebhookError is a rejected thumbnail callback. Message is the reply body.
type WebhookError struct {
	Message string
	reason  string
}

func (e *WebhookError) Error() string {
	return "thumbnail webhook: " + e.reason
}

var (
	ErrWebhookToken   = &WebhookError{Message: MessageInvalidToken, reason: "invalid token"}
	ErrNoOperation    = &WebhookError{Message: MessageNoOperation, reason: "unknown operation"}
	ErrEmptyThumbnail = &WebhookError{Message: MessageEmptyThumbnail, reason: "empty thumbnail path"}
	ErrImageNotFound  = &WebhookError{Message: MessageImageNotFound, reason: "no stored path matches"}
)

// ThumbnailEvent is the callback sent once a thumbnail has been rendered.
type ThumbnailEvent struct {
	Token        string  `json:"token"`
	Operation    string  `json:"operation"`
	OriginalPath string  `json:"original_path"`
	NewPath      *string `json:"new_path"`
}

type ThumbnailService interface {
	Apply(ctx context.Context, event ThumbnailEvent) error
}

type thumbnailService struct {
	userRepo  repository.UserRepository
	imageRepo repository.ImageRepository
	token     string
	avatars   string
}

func NewThumbnailService(userRepo repository.UserRepository, imageRepo repository.ImageRepository, cfg *config.Config) ThumbnailService {
	return &thumbnailService{
		userRepo:  userRepo,
		imageRepo: imageRepo,
		token:     cfg.WebhookToken,
		avatars:   cfg.Namespaces.Avatars,
	}
}

func (s *thumbnailService) validToken(token string) bool {
	if s.token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.token)) == 1
}

// Apply rewrites the stored path that matches the original object, on the
// user avatar or on a post image depending on the namespace.
func (s *thumbnailService) Apply(ctx context.Context, event ThumbnailEvent) error {
	if !s.validToken(event.Token) {
		return ErrWebhookToken
	}

	if event.Operation != OperationMakeThumbnail {
		return ErrNoOperation
	}

	if event.NewPath == nil || strings.TrimSpace(*event.NewPath) == "" {
		return ErrEmptyThumbnail
	}

	var (
		updated int64
		err     error
	)
	if strings.HasPrefix(event.OriginalPath, s.avatars) {
		updated, err = s.userRepo.UpdateAvatarPath(ctx, event.OriginalPath, *event.NewPath)
	} else {
		updated, err = s.imageRepo.UpdatePath(ctx, event.OriginalPath, *event.NewPath)
	}
	if err != nil {
		return err
	}

	if updated == 0 {
		return ErrImageNotFound
	}

	return nil
}
