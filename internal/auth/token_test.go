package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(now *time.Time) *TokenService {
	return NewTokenService(TokenConfig{
		Secret:     "test-secret",
		Algorithm:  "HS256",
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}).WithClock(func() time.Time { return *now })
}

func testUser() *User {
	now := time.Now().UTC()
	return &User{
		ID:        "6f1cf9a5-0b5e-4b43-9f0e-2d9c3a3f8b11",
		Email:     "user@test.local",
		Name:      "Test User",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestIssuePair(t *testing.T) {
	now := time.Now()
	svc := newTestTokenService(&now)
	user := testUser()

	pair, err := svc.IssuePair(user)
	require.NoError(t, err)

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.Equal(t, "bearer", pair.TokenType)
	assert.Equal(t, int64(1800), pair.ExpiresIn)
}

func TestVerifyAccessClaims(t *testing.T) {
	now := time.Now()
	svc := newTestTokenService(&now)
	user := testUser()

	token, err := svc.IssueAccess(user)
	require.NoError(t, err)

	claims := svc.VerifyAccess(token)
	require.NotNil(t, claims)
	assert.Equal(t, user.ID, claims.Subject)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
}

func TestRefreshOmitsEmail(t *testing.T) {
	now := time.Now()
	svc := newTestTokenService(&now)

	token, err := svc.IssueRefresh(testUser())
	require.NoError(t, err)

	claims := svc.VerifyRefresh(token)
	require.NotNil(t, claims)
	assert.Empty(t, claims.Email)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
}

func TestTypeDiscriminatorRejected(t *testing.T) {
	// Structurally valid signed tokens must still fail verification when
	// presented as the other type.
	now := time.Now()
	svc := newTestTokenService(&now)
	user := testUser()

	access, err := svc.IssueAccess(user)
	require.NoError(t, err)
	refresh, err := svc.IssueRefresh(user)
	require.NoError(t, err)

	assert.Nil(t, svc.VerifyRefresh(access))
	assert.Nil(t, svc.VerifyAccess(refresh))
}

func TestExpiredTokenRejected(t *testing.T) {
	now := time.Now()
	svc := newTestTokenService(&now)

	access, err := svc.IssueAccess(testUser())
	require.NoError(t, err)
	refresh, err := svc.IssueRefresh(testUser())
	require.NoError(t, err)

	now = now.Add(31 * time.Minute)
	assert.Nil(t, svc.VerifyAccess(access))
	require.NotNil(t, svc.VerifyRefresh(refresh))

	now = now.Add(8 * 24 * time.Hour)
	assert.Nil(t, svc.VerifyRefresh(refresh))
}

func TestTamperedSignatureRejected(t *testing.T) {
	now := time.Now()
	svc := newTestTokenService(&now)

	other := NewTokenService(TokenConfig{
		Secret:     "different-secret",
		Algorithm:  "HS256",
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}).WithClock(func() time.Time { return now })

	forged, err := other.IssueRefresh(testUser())
	require.NoError(t, err)

	assert.Nil(t, svc.VerifyRefresh(forged))
	assert.Nil(t, svc.VerifyAccess(forged+"junk"))
	assert.Nil(t, svc.VerifyAccess("not-a-token"))
}

func TestDecodeIgnoresExpiry(t *testing.T) {
	now := time.Now()
	svc := newTestTokenService(&now)
	user := testUser()

	access, err := svc.IssueAccess(user)
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	assert.Nil(t, svc.VerifyAccess(access))

	claims := svc.Decode(access)
	require.NotNil(t, claims)
	assert.Equal(t, user.ID, claims.Subject)

	// Signature checks still apply.
	assert.Nil(t, svc.Decode(access+"junk"))
}

func TestUnknownAlgorithmFallsBack(t *testing.T) {
	svc := NewTokenService(TokenConfig{
		Secret:     "test-secret",
		Algorithm:  "NOPE",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	})
	assert.Equal(t, "HS256", svc.method.Alg())
}
