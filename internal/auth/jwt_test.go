package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/librarian/internal/entities"
)

func testIssuer() *Issuer {
	return NewIssuer("test-secret", 5*time.Minute, 24*time.Hour)
}

func testUser() *entities.User {
	return &entities.User{ID: 7, Username: "reader", Role: entities.UserRoleClient}
}

func TestIssuer_IssuePair(t *testing.T) {
	issuer := testIssuer()

	pair, err := issuer.IssuePair(testUser())

	require.NoError(t, err)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)
	assert.NotEqual(t, pair.Access, pair.Refresh)
}

func TestIssuer_ParseAccess(t *testing.T) {
	issuer := testIssuer()
	pair, err := issuer.IssuePair(testUser())
	require.NoError(t, err)

	claims, err := issuer.ParseAccess(pair.Access)

	require.NoError(t, err)
	assert.EqualValues(t, 7, claims.UserID)
	assert.Equal(t, entities.UserRoleClient, claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.NotEmpty(t, claims.ID)
}

func TestIssuer_ParseRefresh(t *testing.T) {
	issuer := testIssuer()
	pair, err := issuer.IssuePair(testUser())
	require.NoError(t, err)

	claims, err := issuer.ParseRefresh(pair.Refresh)

	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
}

func TestIssuer_WrongTokenType(t *testing.T) {
	issuer := testIssuer()
	pair, err := issuer.IssuePair(testUser())
	require.NoError(t, err)

	_, err = issuer.ParseAccess(pair.Refresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = issuer.ParseRefresh(pair.Access)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestIssuer_ExpiredToken(t *testing.T) {
	issuer := NewIssuer("test-secret", -time.Minute, -time.Minute)
	pair, err := issuer.IssuePair(testUser())
	require.NoError(t, err)

	_, err = issuer.ParseAccess(pair.Access)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_WrongSecret(t *testing.T) {
	pair, err := testIssuer().IssuePair(testUser())
	require.NoError(t, err)

	other := NewIssuer("different-secret", 5*time.Minute, 24*time.Hour)
	_, err = other.ParseAccess(pair.Access)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_GarbageToken(t *testing.T) {
	_, err := testIssuer().ParseAccess("not.a.token")

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_IssueAccessFromRefreshClaims(t *testing.T) {
	issuer := testIssuer()
	pair, err := issuer.IssuePair(testUser())
	require.NoError(t, err)

	refreshClaims, err := issuer.ParseRefresh(pair.Refresh)
	require.NoError(t, err)

	access, err := issuer.IssueAccess(refreshClaims)
	require.NoError(t, err)

	claims, err := issuer.ParseAccess(access)
	require.NoError(t, err)
	assert.EqualValues(t, 7, claims.UserID)
	assert.Equal(t, entities.UserRoleClient, claims.Role)
	// Distinct jti per issued token.
	assert.NotEqual(t, refreshClaims.ID, claims.ID)
}

func TestGenerateSecret(t *testing.T) {
	a, err := GenerateSecret()
	require.NoError(t, err)
	b, err := GenerateSecret()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
