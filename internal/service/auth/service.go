package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when the username is unknown so both
// paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

type AuthServiceImpl struct {
	jwt.Service
	accounts []auth.Account
}

// NewAuthService keeps only accounts that carry a password hash.
func NewAuthService(jwtService jwt.Service, accounts ...auth.Account) auth.AuthService {
	var enabled []auth.Account
	for _, a := range accounts {
		if a.Username != "" && a.PasswordHash != "" {
			enabled = append(enabled, a)
		}
	}
	return &AuthServiceImpl{
		Service:  jwtService,
		accounts: enabled,
	}
}

func (a *AuthServiceImpl) Enabled() bool {
	return len(a.accounts) > 0
}

func (a *AuthServiceImpl) lookup(username string) (auth.Account, bool) {
	for _, acc := range a.accounts {
		if subtle.ConstantTimeCompare([]byte(acc.Username), []byte(username)) == 1 {
			return acc, true
		}
	}
	return auth.Account{}, false
}

func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if !a.Enabled() {
		return auth.TokenResponse{}, auth.ErrAuthDisabled
	}

	account, ok := a.lookup(req.Username)
	hash := dummyHash
	if ok {
		hash = []byte(account.PasswordHash)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(req.Password)); err != nil || !ok {
		slog.Info("Login rejected", "username", req.Username)
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	token, expiresAt, err := a.GenerateAccessToken(account.Username, account.IsAdmin)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken:          token,
		AccessTokenExpiresIn: expiresAt - time.Now().Unix(),
		Username:             account.Username,
		IsAdmin:              account.IsAdmin,
	}, nil
}

func (a *AuthServiceImpl) Logout(ctx context.Context, token string, expiresAt int64) error {
	if token == "" {
		return auth.ErrInvalidToken
	}
	a.RevokeToken(token, expiresAt)
	return nil
}

func (a *AuthServiceImpl) SSEToken(ctx context.Context, username string) (auth.SSETokenResponse, error) {
	token, expiresIn, err := a.GenerateSSEToken(username)
	if err != nil {
		return auth.SSETokenResponse{}, fmt.Errorf("failed to create sse token: %w", err)
	}
	return auth.SSETokenResponse{Token: token, ExpiresIn: expiresIn}, nil
}
