package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gramm/internal/clock"
	"gramm/internal/config"
	"gramm/internal/mail"
	"gramm/internal/models"
	"gramm/internal/observability"
	"gramm/internal/repository"
	"gramm/internal/storage"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const maxTokenAttempts = 10

type ActivationRequest struct {
	FirstName    string
	LastName     string
	Bio          string
	Password     string
	Confirmation string
	Avatar       *Upload
}

type SocialStatus string

const (
	SocialSignedIn SocialStatus = "signed_in"
	SocialPending  SocialStatus = "pending_activation"
)

type SocialSignInResult struct {
	Status          SocialStatus
	User            *models.User
	ActivationToken string
}

type AccountService interface {
	Register(ctx context.Context, email string) (*models.User, error)
	ResolveActivation(ctx context.Context, token string) (*models.User, error)
	CompleteActivation(ctx context.Context, token string, req ActivationRequest) (*models.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResolvePasswordReset(ctx context.Context, token string) (*models.User, error)
	CompletePasswordReset(ctx context.Context, token, password, confirmation string) error
	SocialSignIn(ctx context.Context, email string) (*SocialSignInResult, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	PurgeExpired(ctx context.Context) (int64, error)
}

type accountService struct {
	userRepo repository.UserRepository
	mailer   mail.Mailer
	storage  storage.Storage
	clock    clock.Clock
	cfg      *config.Config
	hashCost int
}

func NewAccountService(userRepo repository.UserRepository, mailer mail.Mailer, store storage.Storage, clk clock.Clock, cfg *config.Config) AccountService {
	return &accountService{
		userRepo: userRepo,
		mailer:   mailer,
		storage:  store,
		clock:    clk,
		cfg:      cfg,
		hashCost: bcrypt.DefaultCost,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// expired reports whether the window starting at issuedAt has fully elapsed by now.
func expired(issuedAt, now time.Time, window time.Duration) bool {
	return now.Sub(issuedAt) >= window
}

// newToken draws uuid4 tokens until one is unused.
func newToken(ctx context.Context, exists func(context.Context, string) (bool, error)) (string, error) {
	for range maxTokenAttempts {
		token := uuid.New().String()
		taken, err := exists(ctx, token)
		if err != nil {
			return "", err
		}
		if !taken {
			return token, nil
		}
	}
	return "", fmt.Errorf("failed to generate a unique token after %d attempts", maxTokenAttempts)
}

func (s *accountService) siteURL(path string) string {
	domain := strings.TrimSuffix(s.cfg.SiteDomain, "/")
	if !strings.HasPrefix(domain, "http://") && !strings.HasPrefix(domain, "https://") {
		domain = "http://" + domain
	}
	return domain + path
}

// notify delivers a notice without failing the caller.
func (s *accountService) notify(ctx context.Context, kind, to string, send func() error) {
	if s.mailer == nil {
		return
	}
	if err := send(); err != nil {
		observability.MailFailures.Inc()
		slog.ErrorContext(ctx, "failed to send notice",
			slog.String("kind", kind),
			slog.String("to", to),
			slog.Any("error", err),
		)
	}
}

func (s *accountService) Register(ctx context.Context, email string) (*models.User, error) {
	email = normalizeEmail(email)

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, models.ErrDuplicateEmail
	}
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	user, err := s.createPending(ctx, email)
	if err != nil {
		return nil, err
	}

	link := s.siteURL("/api/auth/activate/" + user.ActivationLink)
	s.notify(ctx, "activation", email, func() error {
		return s.mailer.SendActivation(email, link)
	})

	observability.RecordTransition("registered")
	slog.InfoContext(ctx, "user registered", slog.String("user_id", user.UserID))

	return user, nil
}

func (s *accountService) createPending(ctx context.Context, email string) (*models.User, error) {
	token, err := newToken(ctx, s.userRepo.ActivationLinkExists)
	if err != nil {
		return nil, fmt.Errorf("failed to generate activation link: %w", err)
	}

	user := &models.User{
		Email:          email,
		ActivationLink: token,
		DateJoined:     s.clock.Now(),
	}

	if err := s.userRepo.CreatePending(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *accountService) ResolveActivation(ctx context.Context, token string) (*models.User, error) {
	user, err := s.userRepo.GetByActivationLink(ctx, token)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidToken
		}
		return nil, err
	}

	if user.IsActive {
		return nil, models.ErrAlreadyActivated
	}

	if expired(user.DateJoined, s.clock.Now(), s.cfg.ActivationWindow) {
		if err := s.userRepo.DeletePending(ctx, user.UserID); err != nil {
			return nil, err
		}
		observability.RecordTransition("expired")
		return nil, models.ErrActivationExpired
	}

	return user, nil
}

func (s *accountService) CompleteActivation(ctx context.Context, token string, req ActivationRequest) (*models.User, error) {
	if _, err := s.ResolveActivation(ctx, token); err != nil {
		return nil, err
	}

	profile, err := s.validateProfile(req)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if req.Avatar != nil {
		if err := checkUpload("avatar", *req.Avatar, s.cfg.MaxUploadSize); err != nil {
			return nil, err
		}
		profile.Avatar, err = s.storage.Upload(ctx, s.cfg.Namespaces.Avatars, req.Avatar.FileName, req.Avatar.Content, req.Avatar.Size)
		if err != nil {
			return nil, fmt.Errorf("failed to store avatar: %w", err)
		}
	}

	now := s.clock.Now()
	ok, err := s.userRepo.CompleteActivation(ctx, token, profile, string(hash), now, now.Add(-s.cfg.ActivationWindow))
	if err != nil || !ok {
		if profile.Avatar != "" {
			removeObjects(ctx, s.storage, []string{profile.Avatar})
		}
		if err != nil {
			return nil, err
		}
		// lost a race; report what the token is now
		if _, err := s.ResolveActivation(ctx, token); err != nil {
			return nil, err
		}
		return nil, models.ErrInvalidToken
	}

	observability.RecordTransition("activated")

	return s.userRepo.GetByActivationLink(ctx, token)
}

func (s *accountService) validateProfile(req ActivationRequest) (models.Profile, error) {
	firstName, err := NormalizeName("first_name", req.FirstName)
	if err != nil {
		return models.Profile{}, err
	}

	lastName, err := NormalizeName("last_name", req.LastName)
	if err != nil {
		return models.Profile{}, err
	}

	bio := strings.TrimSpace(req.Bio)
	if err := ValidateBio(bio); err != nil {
		return models.Profile{}, err
	}

	if err := ValidatePassword(req.Password, req.Confirmation); err != nil {
		return models.Profile{}, err
	}

	return models.Profile{FirstName: firstName, LastName: lastName, Bio: bio}, nil
}

func (s *accountService) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrUnknownEmail
		}
		return err
	}

	if !user.IsActive {
		return models.ErrUnknownEmail
	}

	token, err := newToken(ctx, s.userRepo.PasswordResetLinkExists)
	if err != nil {
		return fmt.Errorf("failed to generate password reset link: %w", err)
	}

	// overwrites any earlier pending reset
	if err := s.userRepo.SetPasswordResetLink(ctx, user.UserID, token, s.clock.Now()); err != nil {
		return err
	}

	link := s.siteURL("/api/auth/reset/" + token)
	s.notify(ctx, "password_reset", email, func() error {
		return s.mailer.SendPasswordReset(email, link)
	})

	observability.RecordTransition("reset_requested")
	return nil
}

func (s *accountService) ResolvePasswordReset(ctx context.Context, token string) (*models.User, error) {
	user, err := s.userRepo.GetByPasswordResetLink(ctx, token)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidToken
		}
		return nil, err
	}

	if user.DatePasswordResetLink == nil {
		return nil, models.ErrInvalidToken
	}

	// the link stays stored but is no longer honored
	if expired(*user.DatePasswordResetLink, s.clock.Now(), s.cfg.PasswordResetWindow) {
		return nil, models.ErrResetExpired
	}

	return user, nil
}

func (s *accountService) CompletePasswordReset(ctx context.Context, token, password, confirmation string) error {
	if _, err := s.ResolvePasswordReset(ctx, token); err != nil {
		return err
	}

	if err := ValidatePassword(password, confirmation); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.clock.Now()
	ok, err := s.userRepo.CompletePasswordReset(ctx, token, string(hash), now.Add(-s.cfg.PasswordResetWindow))
	if err != nil {
		return err
	}

	if !ok {
		if _, err := s.ResolvePasswordReset(ctx, token); err != nil {
			return err
		}
		return models.ErrInvalidToken
	}

	observability.RecordTransition("password_reset")
	return nil
}

func (s *accountService) SocialSignIn(ctx context.Context, email string) (*SocialSignInResult, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, models.NewValidationError("email", "This field is required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil && user.IsActive:
		return &SocialSignInResult{Status: SocialSignedIn, User: user}, nil

	case err == nil && !expired(user.DateJoined, s.clock.Now(), s.cfg.ActivationWindow):
		return &SocialSignInResult{Status: SocialPending, User: user, ActivationToken: user.ActivationLink}, nil

	case err == nil:
		// stale pending account, start over
		if err := s.userRepo.DeletePending(ctx, user.UserID); err != nil {
			return nil, err
		}
		observability.RecordTransition("expired")

	case !errors.Is(err, models.ErrNotFound):
		return nil, err
	}

	user, err = s.createPending(ctx, email)
	if err != nil {
		return nil, err
	}

	observability.RecordTransition("social_registered")
	return &SocialSignInResult{Status: SocialPending, User: user, ActivationToken: user.ActivationLink}, nil
}

func (s *accountService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *accountService) PurgeExpired(ctx context.Context) (int64, error) {
	cutoff := s.clock.Now().Add(-s.cfg.ActivationWindow)

	n, err := s.userRepo.DeleteExpiredPending(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	slog.InfoContext(ctx, "expired pending accounts purged", slog.Int64("count", n))
	return n, nil
}
