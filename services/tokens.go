package services

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/rpupo63/portfolio-cms-backend/errs"
)

const tokenIssuer = "portfolio-cms"

// AdminClaims identifies the admin acting on a request.
type AdminClaims struct {
	jwt.RegisteredClaims
}

// Authenticator checks the single admin account and signs session tokens.
type Authenticator struct {
	secret       []byte
	ttl          time.Duration
	username     string
	passwordHash []byte
	now          func() time.Time
}

func NewAuthenticator(secret string, ttl time.Duration, username, passwordHash string) (*Authenticator, error) {
	if secret == "" {
		return nil, errs.NewConfigMissingError("JWT_SECRET")
	}
	if passwordHash == "" {
		return nil, errs.NewConfigMissingError("ADMIN_PASSWORD_HASH")
	}
	return &Authenticator{
		secret:       []byte(secret),
		ttl:          ttl,
		username:     username,
		passwordHash: []byte(passwordHash),
		now:          time.Now,
	}, nil
}

// HashPassword produces the value expected in ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// Login returns a signed token for valid credentials.
func (a *Authenticator) Login(username, password string) (string, time.Time, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		return "", time.Time{}, errs.NewInvalidCredentialsError()
	}
	return a.Issue(username)
}

func (a *Authenticator) Issue(subject string) (string, time.Time, error) {
	now := a.now()
	expires := now.Add(a.ttl)
	claims := AdminClaims{jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// Verify returns the actor named by a valid token.
func (a *Authenticator) Verify(token string) (string, error) {
	if token == "" {
		return "", errs.NewMissingTokenError()
	}
	var claims AdminClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(a.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", errs.NewTokenExpiredError()
	case err != nil:
		return "", errs.NewInvalidTokenError(err)
	}
	return claims.Subject, nil
}
