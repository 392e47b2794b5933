// Package auth implements the token lifecycle: signing and verifying access
// and refresh tokens, password hashing and the request admission gate.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKind distinguishes short-lived access tokens from refresh tokens.
type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

// Default token lifetimes.
const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

var (
	// ErrInvalidSignature covers every verification failure other than expiry:
	// malformed input, wrong key, wrong algorithm, wrong token kind.
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrExpired means the token is authentic but past its expiry.
	ErrExpired = errors.New("token expired")
)

// Claims is the decoded payload of an access or refresh token.
// Subject carries the account id.
type Claims struct {
	Username  string    `json:"username"`
	TokenType TokenKind `json:"token_type"`
	jwt.RegisteredClaims
}

// UserID returns the subject id the token was issued for.
func (c *Claims) UserID() string {
	return c.Subject
}

// TokenPair is returned on successful login.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// CodecConfig configures a TokenCodec. An empty RefreshSecret makes the
// codec sign both kinds with AccessSecret.
type CodecConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// TokenCodec signs and verifies HS256 tokens. It holds no mutable state and
// is safe for concurrent use.
type TokenCodec struct {
	secrets map[TokenKind][]byte
	ttls    map[TokenKind]time.Duration
	now     func() time.Time
}

// NewTokenCodec validates cfg and builds a codec.
func NewTokenCodec(cfg CodecConfig) (*TokenCodec, error) {
	if cfg.AccessSecret == "" {
		return nil, errors.New("access token secret is required")
	}
	refreshSecret := cfg.RefreshSecret
	if refreshSecret == "" {
		refreshSecret = cfg.AccessSecret
	}
	accessTTL, refreshTTL := cfg.AccessTTL, cfg.RefreshTTL
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}

	return &TokenCodec{
		secrets: map[TokenKind][]byte{
			AccessToken:  []byte(cfg.AccessSecret),
			RefreshToken: []byte(refreshSecret),
		},
		ttls: map[TokenKind]time.Duration{
			AccessToken:  accessTTL,
			RefreshToken: refreshTTL,
		},
		now: time.Now,
	}, nil
}

// WithClock returns a copy of the codec that reads time from now.
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	cp := *c
	cp.now = now
	return &cp
}

// TTL returns the lifetime of tokens of the given kind.
func (c *TokenCodec) TTL(kind TokenKind) time.Duration {
	return c.ttls[kind]
}

// Issue signs a token of the given kind for subject/username.
func (c *TokenCodec) Issue(kind TokenKind, subject, username string) (string, time.Time, error) {
	secret, ok := c.secrets[kind]
	if !ok {
		return "", time.Time{}, fmt.Errorf("unknown token kind %q", kind)
	}
	if subject == "" {
		return "", time.Time{}, errors.New("token subject is required")
	}

	now := c.now()
	exp := now.Add(c.ttls[kind])
	claims := &Claims{
		Username:  username,
		TokenType: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", kind, err)
	}
	// NumericDate truncates to whole seconds; report what the token says.
	return signed, claims.ExpiresAt.Time, nil
}

// IssuePair issues an access and a refresh token for the same identity.
func (c *TokenCodec) IssuePair(subject, username string) (TokenPair, error) {
	access, accessExp, err := c.Issue(AccessToken, subject, username)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, refreshExp, err := c.Issue(RefreshToken, subject, username)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Verify checks signature, expiry and kind. It returns ErrExpired only for
// authentic tokens past their expiry and ErrInvalidSignature otherwise.
func (c *TokenCodec) Verify(kind TokenKind, token string) (*Claims, error) {
	secret, ok := c.secrets[kind]
	if !ok {
		return nil, fmt.Errorf("unknown token kind %q", kind)
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)

	claims := &Claims{}
	_, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	if claims.TokenType != kind {
		return nil, fmt.Errorf("%w: expected %s token, got %q", ErrInvalidSignature, kind, claims.TokenType)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidSignature)
	}

	return claims, nil
}
