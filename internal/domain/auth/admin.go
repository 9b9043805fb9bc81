// Package auth authenticates the single shop administrator.
package auth

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned for a wrong password or a token that
	// fails verification.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDisabled is returned when no admin password is configured.
	ErrDisabled = errors.New("admin login disabled")
)

// Subject is the token subject issued for the administrator.
const Subject = "admin"

// DefaultTokenTTL is used when Config.TokenTTL is not set.
const DefaultTokenTTL = 12 * time.Hour

// Config configures an Authenticator.
type Config struct {
	// PasswordHash is the bcrypt hash of the admin password. Empty disables
	// login.
	PasswordHash string
	// Secret signs issued tokens.
	Secret []byte
	// TokenTTL is the lifetime of issued tokens.
	TokenTTL time.Duration
	// Issuer is written to and required in tokens.
	Issuer string
}

// Token is a signed admin session.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Claims are the verified contents of an admin token.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Authenticator exchanges the admin password for a JWT and verifies tokens.
type Authenticator struct {
	hash   []byte
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewAuthenticator creates an Authenticator. A non-empty hash must be a
// valid bcrypt hash and a secret is required whenever login is enabled.
func NewAuthenticator(cfg Config) (*Authenticator, error) {
	a := &Authenticator{
		secret: cfg.Secret,
		ttl:    cfg.TokenTTL,
		issuer: cfg.Issuer,
		now:    time.Now,
	}
	if a.ttl <= 0 {
		a.ttl = DefaultTokenTTL
	}
	if a.issuer == "" {
		a.issuer = "sehati"
	}
	if cfg.PasswordHash == "" {
		return a, nil
	}
	if _, err := bcrypt.Cost([]byte(cfg.PasswordHash)); err != nil {
		return nil, errors.Wrap(err, "admin password hash")
	}
	if len(cfg.Secret) == 0 {
		return nil, errors.New("admin token secret is required")
	}
	a.hash = []byte(cfg.PasswordHash)
	return a, nil
}

// Enabled reports whether admin login is configured.
func (a *Authenticator) Enabled() bool { return len(a.hash) > 0 }

type adminClaims struct {
	jwt.RegisteredClaims
}

// Login checks password and issues a token.
func (a *Authenticator) Login(_ context.Context, password string) (*Token, error) {
	if !a.Enabled() {
		return nil, ErrDisabled
	}
	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "compare password")
	}

	now := a.now()
	exp := now.Add(a.ttl)
	claims := adminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   Subject,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return nil, errors.Wrap(err, "sign token")
	}
	return &Token{Value: signed, ExpiresAt: exp.Truncate(time.Second)}, nil
}

// Verify parses token and returns its claims.
func (a *Authenticator) Verify(_ context.Context, token string) (*Claims, error) {
	if !a.Enabled() {
		return nil, ErrDisabled
	}
	parsed, err := jwt.ParseWithClaims(token, &adminClaims{}, func(*jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(a.issuer),
		jwt.WithSubject(Subject),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidCredentials, err.Error())
	}
	claims, ok := parsed.Claims.(*adminClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidCredentials
	}
	out := &Claims{Subject: claims.Subject}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
