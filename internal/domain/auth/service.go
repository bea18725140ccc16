package auth

import (
	"context"
)

type AuthService interface {
	// Enabled reports whether any account is configured. When false
	// every request is treated as an admin.
	Enabled() bool
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	Logout(ctx context.Context, token string, expiresAt int64) error
	SSEToken(ctx context.Context, username string) (SSETokenResponse, error)
}
