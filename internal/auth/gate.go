package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"catalog-service/internal/errs"
)

// Header names read and written by the gate.
const (
	AuthorizationHeader = "Authorization"
	RefreshTokenHeader  = "Refresh-Token"
	// NewAccessTokenHeader carries the access token minted on the refresh path.
	NewAccessTokenHeader = "X-Access-Token"
)

// Admission is the outcome of a successful Admit.
type Admission struct {
	Claims *Claims
	// Refreshed is set when the access token was rejected and a new one was
	// minted from the refresh token. The caller must adopt NewAccessToken.
	Refreshed      bool
	NewAccessToken string
	NewExpiresAt   time.Time
}

// Gate admits requests carrying a valid access token, falling back to a
// refresh token when the access token does not verify. It keeps no state
// between requests.
type Gate struct {
	codec *TokenCodec
}

// NewGate creates a gate backed by codec.
func NewGate(codec *TokenCodec) *Gate {
	return &Gate{codec: codec}
}

// Admit runs the two-step admission for one request given the raw
// Authorization and Refresh-Token header values. Errors wrap
// errs.ErrUnauthenticated or errs.ErrForbidden.
func (g *Gate) Admit(authorization, refreshToken string) (*Admission, error) {
	// step 1: access token
	access := BearerToken(authorization)
	if access == "" {
		return nil, errs.ErrUnauthenticated
	}

	claims, accessErr := g.codec.Verify(AccessToken, access)
	if accessErr == nil {
		return &Admission{Claims: claims}, nil
	}

	// step 2: refresh token
	adm, err := g.refresh(strings.TrimSpace(refreshToken))
	if err != nil {
		return nil, fmt.Errorf("%w: access token: %v; %v", errs.ErrForbidden, accessErr, err)
	}
	return adm, nil
}

func (g *Gate) refresh(refreshToken string) (*Admission, error) {
	if refreshToken == "" {
		return nil, errors.New("no refresh token")
	}

	claims, err := g.codec.Verify(RefreshToken, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}

	token, exp, err := g.codec.Issue(AccessToken, claims.Subject, claims.Username)
	if err != nil {
		return nil, err
	}

	return &Admission{
		Claims:         claims,
		Refreshed:      true,
		NewAccessToken: token,
		NewExpiresAt:   exp,
	}, nil
}

// BearerToken strips an optional "Bearer " prefix from an Authorization value.
func BearerToken(header string) string {
	const prefix = "bearer"
	header = strings.TrimSpace(header)
	if len(header) >= len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) &&
		(len(header) == len(prefix) || header[len(prefix)] == ' ') {
		header = header[len(prefix):]
	}
	return strings.TrimSpace(header)
}
