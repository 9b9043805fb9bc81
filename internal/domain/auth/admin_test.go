package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthenticator(t *testing.T, password string) *Authenticator {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	a, err := NewAuthenticator(Config{
		PasswordHash: string(hash),
		Secret:       []byte("test-secret"),
		TokenTTL:     time.Hour,
	})
	require.NoError(t, err)
	return a
}

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	a := newTestAuthenticator(t, "rahasia")
	ctx := context.Background()

	tok, err := a.Login(ctx, "rahasia")
	require.NoError(t, err)
	assert.NotEmpty(t, tok.Value)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.ExpiresAt, 2*time.Second)

	claims, err := a.Verify(ctx, tok.Value)
	require.NoError(t, err)
	assert.Equal(t, Subject, claims.Subject)
	assert.Equal(t, tok.ExpiresAt.Unix(), claims.ExpiresAt.Unix())
}

func TestLogin_WrongPassword(t *testing.T) {
	a := newTestAuthenticator(t, "rahasia")

	_, err := a.Login(context.Background(), "salah")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_Disabled(t *testing.T) {
	a, err := NewAuthenticator(Config{})
	require.NoError(t, err)
	assert.False(t, a.Enabled())

	_, err = a.Login(context.Background(), "anything")
	require.ErrorIs(t, err, ErrDisabled)

	_, err = a.Verify(context.Background(), "token")
	require.ErrorIs(t, err, ErrDisabled)
}

func TestNewAuthenticator_InvalidConfig(t *testing.T) {
	_, err := NewAuthenticator(Config{PasswordHash: "plain-text", Secret: []byte("s")})
	require.Error(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)
	_, err = NewAuthenticator(Config{PasswordHash: string(hash)})
	require.Error(t, err)
}

func TestVerify_Expired(t *testing.T) {
	a := newTestAuthenticator(t, "rahasia")
	issued := time.Now().Add(-2 * time.Hour)
	a.now = func() time.Time { return issued }

	tok, err := a.Login(context.Background(), "rahasia")
	require.NoError(t, err)

	a.now = time.Now
	_, err = a.Verify(context.Background(), tok.Value)
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerify_RejectsForeignTokens(t *testing.T) {
	a := newTestAuthenticator(t, "rahasia")
	now := time.Now()

	tests := []struct {
		name   string
		method jwt.SigningMethod
		key    any
		claims jwt.RegisteredClaims
	}{
		{
			name:   "wrong secret",
			method: jwt.SigningMethodHS256,
			key:    []byte("other"),
			claims: jwt.RegisteredClaims{
				Subject: Subject, Issuer: "sehati",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		},
		{
			name:   "no expiry",
			method: jwt.SigningMethodHS256,
			key:    []byte("test-secret"),
			claims: jwt.RegisteredClaims{Subject: Subject, Issuer: "sehati"},
		},
		{
			name:   "wrong subject",
			method: jwt.SigningMethodHS256,
			key:    []byte("test-secret"),
			claims: jwt.RegisteredClaims{
				Subject: "visitor", Issuer: "sehati",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		},
		{
			name:   "other algorithm",
			method: jwt.SigningMethodHS512,
			key:    []byte("test-secret"),
			claims: jwt.RegisteredClaims{
				Subject: Subject, Issuer: "sehati",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signed, err := jwt.NewWithClaims(tt.method, tt.claims).SignedString(tt.key)
			require.NoError(t, err)

			_, err = a.Verify(context.Background(), signed)
			require.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestVerify_Garbage(t *testing.T) {
	a := newTestAuthenticator(t, "rahasia")

	_, err := a.Verify(context.Background(), "not.a.jwt")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
