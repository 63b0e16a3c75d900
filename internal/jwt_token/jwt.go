package jwttoken

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	id "saasbase/pkg/domain"
	dErrors "saasbase/pkg/domain-errors"
	"saasbase/pkg/requestcontext"
)

// AccessTokenClaims represents the JWT claims for our access tokens.
// TenantID is null for super-admins.
type AccessTokenClaims struct {
	UserID   string  `json:"user_id"`
	TenantID *string `json:"tenant_id"`
	Role     string  `json:"role"`
	jwt.RegisteredClaims
}

// JWTService handles JWT creation and validation
type JWTService struct {
	signingKey []byte
	issuer     string
	audience   string
	tokenTTL   time.Duration
}

func NewJWTService(signingKey, issuer, audience string, tokenTTL time.Duration) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
		tokenTTL:   tokenTTL,
	}
}

// TokenTTL returns the lifetime of issued tokens.
func (s *JWTService) TokenTTL() time.Duration {
	return s.tokenTTL
}

// GenerateAccessToken signs a token for the user. A nil tenantID produces a
// null tenant_id claim. Returns the token and its expiry.
func (s *JWTService) GenerateAccessToken(
	ctx context.Context,
	userID id.UserID,
	tenantID id.TenantID,
	role id.Role,
) (string, time.Time, error) {
	if userID.IsNil() {
		return "", time.Time{}, dErrors.New(dErrors.CodeInternal, "user id is required")
	}
	if !role.IsValid() {
		return "", time.Time{}, dErrors.New(dErrors.CodeInternal, "unknown role")
	}

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", time.Time{}, err
	}
	jti := hex.EncodeToString(b)
	now := requestcontext.Now(ctx)
	expiresAt := now.Add(s.tokenTTL)

	var tenantClaim *string
	if !tenantID.IsNil() {
		t := tenantID.String()
		tenantClaim = &t
	}

	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessTokenClaims{
		UserID:   userID.String(),
		TenantID: tenantClaim,
		Role:     string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        jti,
		},
	})

	signedToken, err := newToken.SignedString(s.signingKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return signedToken, expiresAt, nil
}

// ValidateToken verifies signature, algorithm, issuer, audience and expiry
// against the request clock. Every failure is Unauthorized.
func (s *JWTService) ValidateToken(ctx context.Context, tokenString string) (*AccessTokenClaims, error) {
	if tokenString == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "missing token")
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &AccessTokenClaims{}, func(token *jwt.Token) (any, error) {
		return s.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return requestcontext.Now(ctx) }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*AccessTokenClaims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	return claims, nil
}
