package domain

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/railbook/railbook/internal/model"
	"github.com/railbook/railbook/internal/repository"
	"github.com/railbook/railbook/internal/token"
)

func newAuthService(db *gorm.DB) (*authService, *token.Service) {
	tokens := token.New("test-secret", time.Hour)
	return NewAuthService(repository.NewUserRepoGorm(db), tokens), tokens
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc, tokens := newAuthService(db)
	ctx := context.Background()

	user, tok, err := svc.Register(ctx, "marge", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.NotEqual(t, "hunter22", user.HashedPassword)

	claims, err := tokens.Validate(tok)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, string(model.RoleUser), claims.Role)

	loggedIn, _, err := svc.Login(ctx, "marge", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
}

func TestRegister_NameTaken(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newAuthService(db)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "lenny", "password1")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "lenny", "password2")
	assert.ErrorIs(t, err, ErrNameTaken)
}

func TestLogin_BadCredentials(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newAuthService(db)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "carl", "password1")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "carl", "wrong-password")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, _, err = svc.Login(ctx, "nobody", "password1")
	assert.ErrorIs(t, err, ErrBadCredentials)
}
