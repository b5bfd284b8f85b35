package services_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pustakahub/pustaka-backend/internal/models"
	"github.com/pustakahub/pustaka-backend/internal/services"
)

func testUser() *models.User {
	return &models.User{
		ID:    uuid.New(),
		Email: "a@x.com",
		Name:  "Alice",
		Role:  models.RoleMember,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := services.NewTokenIssuer("secret", time.Hour)
	user := testUser()

	token, err := issuer.Issue(user)
	require.NoError(t, err)

	ident, err := issuer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, ident.ID)
	require.Equal(t, user.Email, ident.Email)
	require.Equal(t, user.Name, ident.Name)
	require.Equal(t, user.Role, ident.Role)
}

func TestTokenExpiry(t *testing.T) {
	issuer := services.NewTokenIssuer("secret", -time.Minute)

	token, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	require.ErrorIs(t, err, services.ErrTokenInvalid)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := services.NewTokenIssuer("secret-a", time.Hour).Issue(testUser())
	require.NoError(t, err)

	_, err = services.NewTokenIssuer("secret-b", time.Hour).Verify(token)
	require.ErrorIs(t, err, services.ErrTokenInvalid)
}

func TestTokenMalformed(t *testing.T) {
	issuer := services.NewTokenIssuer("secret", time.Hour)

	for _, bad := range []string{"", "garbage", "a.b.c"} {
		_, err := issuer.Verify(bad)
		require.ErrorIs(t, err, services.ErrTokenInvalid)
	}
}
