package service

import (
	"context"
	"errors"
	"fmt"

	"gramm/internal/clock"
	"gramm/internal/config"
	"gramm/internal/models"
	"gramm/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	IssueToken(user *models.User) (string, error)
	ParseToken(tokenString string) (models.Viewer, error)
}

type authService struct {
	userRepo repository.UserRepository
	clock    clock.Clock
	cfg      *config.Config
}

func NewAuthService(userRepo repository.UserRepository, clk clock.Clock, cfg *config.Config) AuthService {
	return &authService{
		userRepo: userRepo,
		clock:    clk,
		cfg:      cfg,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, "", models.ErrInvalidCredentials
		}
		return nil, "", err
	}

	// checking that the password hash is the same
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", models.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, "", models.ErrAccountInactive
	}

	accessToken, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, accessToken, nil
}

func (s *authService) IssueToken(user *models.User) (string, error) {
	now := s.clock.Now()

	claims := jwt.MapClaims{
		"userId": user.UserID,
		"email":  user.Email,
		"exp":    now.Add(s.cfg.AccessTokenDuration).Unix(),
		"iat":    now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

func (s *authService) ParseToken(tokenString string) (models.Viewer, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecretKey), nil
	}, jwt.WithTimeFunc(s.clock.Now), jwt.WithExpirationRequired())
	if err != nil {
		return models.Viewer{}, fmt.Errorf("%w: %v", models.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.Viewer{}, models.ErrUnauthorized
	}

	userID, ok1 := claims["userId"].(string)
	email, ok2 := claims["email"].(string)
	if !ok1 || !ok2 || userID == "" {
		return models.Viewer{}, models.ErrUnauthorized
	}

	return models.Viewer{UserID: userID, Email: email}, nil
}
