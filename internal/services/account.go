// Package services holds the account use cases: registration, login and
// refresh-token exchange.
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"catalog-service/internal/auth"
	"catalog-service/internal/database"
	"catalog-service/internal/errs"
	"catalog-service/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

// UserStore is the credential store the account service depends on.
type UserStore interface {
	Create(ctx context.Context, user *database.User) error
	GetByUsername(ctx context.Context, username string) (*database.User, error)
}

// AccountService registers users and exchanges credentials for tokens.
type AccountService struct {
	users  UserStore
	hasher auth.PasswordHasher
	codec  *auth.TokenCodec
	logger *logger.Logger
}

// NewAccountService constructs AccountService with required dependencies.
func NewAccountService(users UserStore, hasher auth.PasswordHasher, codec *auth.TokenCodec, log *logger.Logger) *AccountService {
	return &AccountService{
		users:  users,
		hasher: hasher,
		codec:  codec,
		logger: log.WithComponent("account"),
	}
}

// Register hashes password and stores a new account. Any store failure,
// a taken username included, is reported as errs.ErrRegistrationFailed.
func (s *AccountService) Register(ctx context.Context, username, password string) (*database.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", errs.ErrValidation)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: password too long", errs.ErrValidation)
		}
		return nil, fmt.Errorf("%w: %v", errs.ErrRegistrationFailed, err)
	}

	user := &database.User{Username: username, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		s.logger.WithError(err).WithField("username", username).Warning("Registration failed")
		return nil, fmt.Errorf("%w: %v", errs.ErrRegistrationFailed, err)
	}

	s.logger.WithField("user_id", user.ID).Info("User registered")
	return user, nil
}

// Login verifies credentials and issues an access/refresh token pair.
// Unknown usernames and wrong passwords both yield errs.ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, username, password string) (auth.TokenPair, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			s.hasher.CompareDummy(password)
			return auth.TokenPair{}, errs.ErrInvalidCredentials
		}
		return auth.TokenPair{}, fmt.Errorf("%w: %v", errs.ErrInternal, err)
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		return auth.TokenPair{}, errs.ErrInvalidCredentials
	}

	pair, err := s.codec.IssuePair(strconv.FormatInt(user.ID, 10), user.Username)
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("%w: %v", errs.ErrInternal, err)
	}

	return pair, nil
}

// Refresh exchanges a refresh token for a new access token.
func (s *AccountService) Refresh(_ context.Context, refreshToken string) (string, time.Time, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return "", time.Time{}, errs.ErrUnauthenticated
	}

	claims, err := s.codec.Verify(auth.RefreshToken, refreshToken)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %v", errs.ErrForbidden, err)
	}

	token, exp, err := s.codec.Issue(auth.AccessToken, claims.Subject, claims.Username)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %v", errs.ErrInternal, err)
	}

	return token, exp, nil
}
