package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MockJWTService is a configurable implementation of the JWTService interface
// for testing. It has no external dependencies, so it is compiled
// unconditionally and shared by every package that needs to stub out token
// handling.
type MockJWTService struct {
	// Function fields for custom behaviors
	GenerateTokenFunc        func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateTokenFunc        func(ctx context.Context, tokenString string) (*Claims, error)
	GenerateRefreshTokenFunc func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateRefreshTokenFunc func(ctx context.Context, tokenString string) (*Claims, error)

	// Fixed fields for simple cases
	Token           string  // Default token to return
	RefreshToken    string  // Default refresh token to return
	TokenError      error   // Default error for token generation
	ValidationError error   // Default error for token validation
	Claims          *Claims // Default claims to return
}

var _ JWTService = (*MockJWTService)(nil)

// NewMockJWTService creates a new mock JWT service with default values.
// By default, it returns minimal values that will pass simple validation.
func NewMockJWTService() *MockJWTService {
	now := time.Now()
	userID := uuid.New()

	return &MockJWTService{
		Token:        "mock-jwt-token",
		RefreshToken: "mock-refresh-token",
		Claims: &Claims{
			UserID:    userID,
			TokenType: tokenTypeAccess,
			Subject:   userID.String(),
			IssuedAt:  now,
			ExpiresAt: now.Add(1 * time.Hour),
			ID:        uuid.New().String(),
		},
	}
}

// GenerateToken implements the JWTService.GenerateToken method.
func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateTokenFunc != nil {
		return m.GenerateTokenFunc(ctx, userID)
	}
	return m.Token, m.TokenError
}

// ValidateToken implements the JWTService.ValidateToken method.
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(ctx, tokenString)
	}
	if m.ValidationError != nil {
		return nil, m.ValidationError
	}
	return m.Claims, nil
}

// GenerateRefreshToken implements the JWTService.GenerateRefreshToken method.
func (m *MockJWTService) GenerateRefreshToken(
	ctx context.Context,
	userID uuid.UUID,
) (string, error) {
	if m.GenerateRefreshTokenFunc != nil {
		return m.GenerateRefreshTokenFunc(ctx, userID)
	}
	return m.RefreshToken, m.TokenError
}

// ValidateRefreshToken implements the JWTService.ValidateRefreshToken method.
func (m *MockJWTService) ValidateRefreshToken(
	ctx context.Context,
	tokenString string,
) (*Claims, error) {
	if m.ValidateRefreshTokenFunc != nil {
		return m.ValidateRefreshTokenFunc(ctx, tokenString)
	}
	if m.ValidationError != nil {
		return nil, m.ValidationError
	}
	if m.Claims != nil && m.Claims.TokenType == tokenTypeAccess {
		// Flip a default access claim set to the refresh type so callers
		// don't have to configure both variants.
		refreshClaims := *m.Claims
		refreshClaims.TokenType = tokenTypeRefresh
		return &refreshClaims, nil
	}
	return m.Claims, nil
}

// WithClaims sets custom claims and returns the mock.
func (m *MockJWTService) WithClaims(claims *Claims) *MockJWTService {
	m.Claims = claims
	return m
}

// WithValidationError sets a custom token validation error and returns the mock.
func (m *MockJWTService) WithValidationError(err error) *MockJWTService {
	m.ValidationError = err
	return m
}

// WithTokenError sets a custom token generation error and returns the mock.
func (m *MockJWTService) WithTokenError(err error) *MockJWTService {
	m.TokenError = err
	return m
}
