package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railbook/railbook/internal/model"
)

func TestGenerateValidateRoundtrip(t *testing.T) {
	svc := New("test-secret", time.Hour)

	tok, err := svc.Generate(&model.User{ID: 42, Name: "moe", Role: model.RoleAdmin})
	require.NoError(t, err)

	claims, err := svc.Validate(tok)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
	assert.Equal(t, string(model.RoleAdmin), claims.Role)
}

func TestValidate_WrongSecret(t *testing.T) {
	tok, err := New("secret-a", time.Hour).Generate(&model.User{ID: 1, Role: model.RoleUser})
	require.NoError(t, err)

	_, err = New("secret-b", time.Hour).Validate(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Expired(t *testing.T) {
	svc := New("test-secret", -time.Minute)

	tok, err := svc.Generate(&model.User{ID: 1, Role: model.RoleUser})
	require.NoError(t, err)

	_, err = svc.Validate(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
