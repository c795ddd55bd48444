package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yigit/academy/internal/app/models"
	"github.com/yigit/academy/internal/pkg/apperrors"
)

// TokenStore persists issued token ids so a token can be revoked before it expires
type TokenStore interface {
	Create(ctx context.Context, tokenID string, userID int64, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	Revoke(ctx context.Context, tokenID string) error
}

// IssuedToken is what a client receives after a successful claim or login
type IssuedToken struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresIn   int       `json:"expiresIn"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// CredentialIssuer mints bearer tokens for resolved users and revokes them on logout
type CredentialIssuer struct {
	jwt    *JWTService
	tokens TokenStore
}

// NewCredentialIssuer creates a CredentialIssuer
func NewCredentialIssuer(jwtService *JWTService, tokens TokenStore) *CredentialIssuer {
	return &CredentialIssuer{jwt: jwtService, tokens: tokens}
}

// IssueToken signs a token for user and records its jti
func (i *CredentialIssuer) IssueToken(ctx context.Context, user *models.User) (*IssuedToken, error) {
	signed, claims, err := i.jwt.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	expiresAt := claims.ExpiresAt.Time
	if err := i.tokens.Create(ctx, claims.ID, user.ID, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to persist token: %w", err)
	}

	return &IssuedToken{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   i.jwt.ExpiresIn(),
		ExpiresAt:   expiresAt,
	}, nil
}

// Authenticate validates a token and rejects revoked ones
func (i *CredentialIssuer) Authenticate(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := i.jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	revoked, err := i.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return nil, apperrors.ErrTokenRevoked
	}
	return claims, nil
}

// RevokeToken revokes a token. Expired tokens are already unusable and are accepted silently.
func (i *CredentialIssuer) RevokeToken(ctx context.Context, tokenString string) error {
	claims, err := i.jwt.ValidateToken(tokenString)
	if err != nil {
		if errors.Is(err, apperrors.ErrTokenExpired) {
			return nil
		}
		return err
	}
	return i.tokens.Revoke(ctx, claims.ID)
}
