package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-analytics-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AnonymousUser is reported as the username when authentication is disabled.
const AnonymousUser = "anonymous"

// AuthRequired accepts verified, unrevoked access tokens only.
// jwtauth.Verifier must run first.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			tokenType, ok := claims["type"].(string)
			if tokenType != jwt.TokenTypeAccess || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if jwtService.IsTokenRevoked(jwtauth.TokenFromHeader(r)) {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}

// Username returns the subject of the verified token, or AnonymousUser.
func Username(ctx context.Context) string {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return AnonymousUser
	}
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return sub
	}
	return AnonymousUser
}
