package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"saasbase/internal/authz"
	jwttoken "saasbase/internal/jwt_token"
	id "saasbase/pkg/domain"
	dErrors "saasbase/pkg/domain-errors"
	"saasbase/pkg/platform/httputil"
	"saasbase/pkg/requestcontext"
)

// TokenValidator verifies bearer tokens.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*jwttoken.AccessTokenClaims, error)
}

// RequireAuth validates the bearer token and attaches an authz.Principal to
// the request context.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid authorization header"))
				return
			}

			claims, err := validator.ValidateToken(ctx, strings.TrimSpace(token))
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token"))
				return
			}

			principal, err := principalFromClaims(claims)
			if err != nil {
				logger.WarnContext(ctx, "rejected token claims",
					"error", err,
					"request_id", requestID,
				)
				httputil.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(authz.WithPrincipal(ctx, principal)))
		})
	}
}

func principalFromClaims(claims *jwttoken.AccessTokenClaims) (authz.Principal, error) {
	userID, err := id.ParseUserID(claims.UserID)
	if err != nil {
		return nil, invalidClaim(err)
	}

	var tenantID *id.TenantID
	if claims.TenantID != nil && *claims.TenantID != "" {
		parsed, err := id.ParseTenantID(*claims.TenantID)
		if err != nil {
			return nil, invalidClaim(fmt.Errorf("tenant_id claim: %w", err))
		}
		tenantID = &parsed
	}

	return authz.NewPrincipal(userID, tenantID, id.Role(claims.Role))
}

// invalidClaim forces Unauthorized; Wrap would keep the parser's BadRequest.
func invalidClaim(err error) error {
	return &dErrors.Error{Code: dErrors.CodeUnauthorized, Message: "invalid token", Err: err}
}
