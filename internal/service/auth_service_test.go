package service

import (
	"context"
	"testing"
	"time"

	"gramm/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture()
	user := activeUser(t, f, "ann@example.com", "password1")
	f.register(t, "pending@example.com")

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "valid credentials", email: " Ann@example.com", password: "password1"},
		{name: "wrong password", email: "ann@example.com", password: "password2", wantErr: models.ErrInvalidCredentials},
		{name: "unknown email", email: "bob@example.com", password: "password1", wantErr: models.ErrInvalidCredentials},
		{name: "pending account", email: "pending@example.com", password: "", wantErr: models.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, token, err := f.auth.Login(ctx, tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, models.KindUnauthorized, models.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, user.UserID, got.UserID)

			viewer, err := f.auth.ParseToken(token)
			require.NoError(t, err)
			assert.Equal(t, user.UserID, viewer.UserID)
			assert.Equal(t, "ann@example.com", viewer.Email)
		})
	}
}

func TestLogin_InactiveAccount(t *testing.T) {
	f := newAccountFixture()
	u := activeUser(t, f, "ann@example.com", "password1")
	u.IsActive = false

	_, _, err := f.auth.Login(context.Background(), "ann@example.com", "password1")
	assert.ErrorIs(t, err, models.ErrAccountInactive)
}

func TestParseToken(t *testing.T) {
	f := newAccountFixture()
	user := &models.User{UserID: "u1", Email: "ann@example.com"}

	token, err := f.auth.IssueToken(user)
	require.NoError(t, err)

	viewer, err := f.auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, models.Viewer{UserID: "u1", Email: "ann@example.com"}, viewer)

	t.Run("expired", func(t *testing.T) {
		later := newAccountFixture()
		issued, err := later.auth.IssueToken(user)
		require.NoError(t, err)

		later.clock.Advance(2*time.Hour + time.Second)

		_, err = later.auth.ParseToken(issued)
		assert.ErrorIs(t, err, models.ErrUnauthorized)
	})

	t.Run("wrong secret", func(t *testing.T) {
		forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"userId": "u1",
			"email":  "ann@example.com",
			"exp":    joined.Add(time.Hour).Unix(),
		})
		signed, err := forged.SignedString([]byte("other-secret"))
		require.NoError(t, err)

		_, err = f.auth.ParseToken(signed)
		assert.ErrorIs(t, err, models.ErrUnauthorized)
	})

	t.Run("missing user id", func(t *testing.T) {
		forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"email": "ann@example.com",
			"exp":   joined.Add(time.Hour).Unix(),
		})
		signed, err := forged.SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = f.auth.ParseToken(signed)
		assert.ErrorIs(t, err, models.ErrUnauthorized)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := f.auth.ParseToken("not.a.token")
		assert.ErrorIs(t, err, models.ErrUnauthorized)
	})
}
