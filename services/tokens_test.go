package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-cms-backend/errs"
)

func newTestAuthenticator(t *testing.T) *Authenticator {
	t.Helper()
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	auth, err := NewAuthenticator("test-secret", time.Hour, "admin", hash)
	require.NoError(t, err)
	return auth
}

func TestLoginAndVerify(t *testing.T) {
	auth := newTestAuthenticator(t)

	token, expires, err := auth.Login("admin", "correct horse")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

	actor, err := auth.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", actor)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	auth := newTestAuthenticator(t)

	_, _, err := auth.Login("admin", "wrong")
	assert.Error(t, err)
	_, _, err = auth.Login("root", "correct horse")
	assert.Error(t, err)
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	auth := newTestAuthenticator(t)

	_, err := auth.Verify("")
	assert.True(t, errs.IsMissingTokenError(err))

	_, err = auth.Verify("garbage")
	assert.True(t, errs.IsInvalidTokenError(err))

	other, err := NewAuthenticator("other-secret", time.Hour, "admin", "x")
	require.NoError(t, err)
	foreign, _, err := other.Issue("admin")
	require.NoError(t, err)
	_, err = auth.Verify(foreign)
	assert.True(t, errs.IsInvalidTokenError(err))

	token, _, err := auth.Issue("admin")
	require.NoError(t, err)
	auth.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = auth.Verify(token)
	assert.True(t, errs.IsTokenExpiredError(err))
}

func TestNewAuthenticatorRequiresSecrets(t *testing.T) {
	_, err := NewAuthenticator("", time.Hour, "admin", "hash")
	assert.Error(t, err)
	_, err = NewAuthenticator("secret", time.Hour, "admin", "")
	assert.Error(t, err)
}
