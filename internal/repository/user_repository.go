package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gramm/internal/models"
	"gramm/internal/observability"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const userColumns = `user_id, email, password_hash, first_name, last_name, bio, avatar, is_active,
	activation_link, password_reset_link, date_password_reset_link, date_joined, activated_at`

type userRepository struct {
	db  *sqlx.DB
	log *observability.RepoLogger
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db, log: observability.NewRepoLogger("users")}
}

func (r *userRepository) CreatePending(ctx context.Context, user *models.User) error {
	// create user id
	if user.UserID == "" {
		user.UserID = uuid.New().String()
	}
	if user.DateJoined.IsZero() {
		user.DateJoined = time.Now().UTC()
	}
	user.IsActive = false

	query := `
		INSERT INTO users (user_id, email, password_hash, first_name, last_name, bio, avatar,
			is_active, activation_link, date_joined)
		VALUES (:user_id, :email, :password_hash, :first_name, :last_name, :bio, :avatar,
			:is_active, :activation_link, :date_joined)
	`

	_, err := r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		if isUniqueConstraintError(err) && isEmailConstraint(err) {
			return models.ErrDuplicateEmail
		}
		r.log.LogError(ctx, err, "create_pending")
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.log.LogWrite(ctx, "create_pending", map[string]any{"user_id": user.UserID})
	return nil
}

func isEmailConstraint(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Constraint != "" {
		return strings.Contains(pqErr.Constraint, "email")
	}
	return true
}

func (r *userRepository) getOne(ctx context.Context, where string, arg any) (*models.User, error) {
	var user models.User

	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where + ` = $1`

	err := r.db.GetContext(ctx, &user, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isMalformedIDError(err) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by %s: %w", where, err)
	}

	return &user, nil
}

func (r *userRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	return r.getOne(ctx, "user_id", userID)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "email", email)
}

func (r *userRepository) GetByActivationLink(ctx context.Context, link string) (*models.User, error) {
	return r.getOne(ctx, "activation_link", link)
}

func (r *userRepository) GetByPasswordResetLink(ctx context.Context, link string) (*models.User, error) {
	return r.getOne(ctx, "password_reset_link", link)
}

func (r *userRepository) exists(ctx context.Context, column, value string) (bool, error) {
	var exists bool

	query := `SELECT EXISTS(SELECT 1 FROM users WHERE ` + column + ` = $1)`

	if err := r.db.GetContext(ctx, &exists, query, value); err != nil {
		return false, fmt.Errorf("failed to check %s: %w", column, err)
	}

	return exists, nil
}

func (r *userRepository) ActivationLinkExists(ctx context.Context, link string) (bool, error) {
	return r.exists(ctx, "activation_link", link)
}

func (r *userRepository) PasswordResetLinkExists(ctx context.Context, link string) (bool, error) {
	return r.exists(ctx, "password_reset_link", link)
}

func (r *userRepository) CompleteActivation(ctx context.Context, link string, profile models.Profile, passwordHash string, activatedAt, cutoff time.Time) (bool, error) {
	query := `
		UPDATE users
		SET first_name = $1, last_name = $2, bio = $3, avatar = $4,
			password_hash = $5, is_active = TRUE, activated_at = $6
		WHERE activation_link = $7 AND is_active = FALSE AND date_joined > $8
	`

	result, err := r.db.ExecContext(ctx, query,
		profile.FirstName, profile.LastName, profile.Bio, profile.Avatar,
		passwordHash, activatedAt, link, cutoff,
	)
	if err != nil {
		r.log.LogError(ctx, err, "complete_activation")
		return false, fmt.Errorf("failed to activate user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check updated rows: %w", err)
	}

	return rowsAffected == 1, nil
}

func (r *userRepository) DeletePending(ctx context.Context, userID string) error {
	query := `DELETE FROM users WHERE user_id = $1 AND is_active = FALSE`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		r.log.LogError(ctx, err, "delete_pending")
		return fmt.Errorf("failed to delete pending user: %w", err)
	}

	r.log.LogWrite(ctx, "delete_pending", map[string]any{"user_id": userID})
	return nil
}

func (r *userRepository) DeleteExpiredPending(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM users WHERE is_active = FALSE AND date_joined <= $1`

	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge pending users: %w", err)
	}

	return result.RowsAffected()
}

func (r *userRepository) SetPasswordResetLink(ctx context.Context, userID, link string, issuedAt time.Time) error {
	query := `
		UPDATE users
		SET password_reset_link = $1, date_password_reset_link = $2
		WHERE user_id = $3
	`

	result, err := r.db.ExecContext(ctx, query, link, issuedAt, userID)
	if err != nil {
		r.log.LogError(ctx, err, "set_password_reset_link")
		return fmt.Errorf("failed to set password reset link: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (r *userRepository) CompletePasswordReset(ctx context.Context, link, passwordHash string, cutoff time.Time) (bool, error) {
	query := `
		UPDATE users
		SET password_hash = $1, password_reset_link = NULL, date_password_reset_link = NULL
		WHERE password_reset_link = $2 AND date_password_reset_link > $3
	`

	result, err := r.db.ExecContext(ctx, query, passwordHash, link, cutoff)
	if err != nil {
		r.log.LogError(ctx, err, "complete_password_reset")
		return false, fmt.Errorf("failed to reset password: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check updated rows: %w", err)
	}

	return rowsAffected == 1, nil
}

func (r *userRepository) UpdateAvatarPath(ctx context.Context, currentPath, newPath string) (int64, error) {
	query := `UPDATE users SET avatar = $1 WHERE avatar = $2`

	result, err := r.db.ExecContext(ctx, query, newPath, currentPath)
	if err != nil {
		return 0, fmt.Errorf("failed to update avatar: %w", err)
	}

	return result.RowsAffected()
}
