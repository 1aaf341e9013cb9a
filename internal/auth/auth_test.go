package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, CheckPassword(hash, "wrong password"))
}

func TestTokenRoundTrip(t *testing.T) {
	userID := uuid.New()

	token, err := IssueToken(userID, "secret", time.Hour)
	require.NoError(t, err)

	got, err := ParseToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := IssueToken(uuid.New(), "secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token, "other-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_Expired(t *testing.T) {
	token, err := IssueToken(uuid.New(), "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, "secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken("not.a.token", "secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPrincipalRoles(t *testing.T) {
	p := Principal{Roles: []string{RoleDoctor, RoleAssistant}}

	assert.True(t, p.HasRole(RoleDoctor))
	assert.False(t, p.HasRole(RoleAdministrator))
	assert.True(t, p.HasAnyRole(RoleAdministrator, RoleAssistant))
	assert.False(t, p.HasAnyRole(RoleAdministrator, RolePatient))
}
