// SPDX-License-Identifier: Apache-2.0

// Package token holds per-account refresh credentials as signed JWTs and
// answers the startup controller's availability check.
package token

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/acidburn0zzz/treesync/internal/logger"
)

var (
	ErrInvalidTokenParams = errors.New("invalid params for generating refresh token")
	ErrUnknownAccount     = errors.New("no refresh token for account")
)

// Service stores refresh tokens keyed by account id. A token counts as
// available only when its HMAC-SHA256 signature verifies against the
// service's sign key, its issuer matches, and it has not expired.
type Service struct {
	signKey string
	issuer  string
	logger  *logger.Logger

	mu     sync.RWMutex
	tokens map[string]string
}

func NewService(signKey, issuer string, log *logger.Logger) *Service {
	return &Service{
		signKey: signKey,
		issuer:  issuer,
		logger:  log,
		tokens:  make(map[string]string),
	}
}

// IssueRefreshToken mints a refresh token for accountID, stores it, and
// returns the signed string.
func (s *Service) IssueRefreshToken(accountID string, validity time.Duration) (string, error) {
	if accountID == "" || validity <= 0 || s.signKey == "" {
		return "", ErrInvalidTokenParams
	}

	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   accountID,
		ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.signKey))
	if err != nil {
		return "", fmt.Errorf("error occurred during signing refresh token: %w", err)
	}

	s.mu.Lock()
	s.tokens[accountID] = signed
	s.mu.Unlock()

	return signed, nil
}

// UpdateCredentials installs an externally-issued refresh token for
// accountID, replacing any previous one.
func (s *Service) UpdateCredentials(accountID, signedToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[accountID] = signedToken
}

// RevokeCredentials drops the stored token for accountID.
func (s *Service) RevokeCredentials(accountID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tokens, accountID)
}

// RefreshTokenIsAvailable reports whether accountID has a stored, valid,
// unexpired refresh token.
func (s *Service) RefreshTokenIsAvailable(accountID string) bool {
	s.mu.RLock()
	signed, ok := s.tokens[accountID]
	s.mu.RUnlock()
	if !ok {
		return false
	}

	if err := s.validate(signed, accountID); err != nil {
		s.logger.Debug().Err(err).Str("account", accountID).Msg("stored refresh token is not usable")
		return false
	}
	return true
}

func (s *Service) validate(signed, accountID string) error {
	token, err := jwt.ParseWithClaims(signed, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
		}
		return []byte(s.signKey), nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return fmt.Errorf("error occurred validating refresh token: %w", err)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return fmt.Errorf("error occurred during getting subject from token: %w", err)
	}
	if subject != accountID {
		return fmt.Errorf("token subject %q does not match account %q", subject, accountID)
	}
	return nil
}
