package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/backoffice-gateway/internal/apierr"
)

var (
	ErrMissingToken = errors.New("Token requerido")
	ErrInvalidToken = errors.New("Token inválido")
	ErrExpiredToken = errors.New("Token expirado")
)

// Claims is what a validated bearer credential tells us about the caller.
type Claims struct {
	Subject string
	Role    string
}

// Validator checks a bearer token. Implementations must be safe for concurrent use.
type Validator interface {
	Validate(ctx context.Context, token string) (*Claims, error)
}

// PassThrough only checks that a token is present. Signature verification is
// left to the downstream service that receives the forwarded header.
type PassThrough struct{}

// Validate accepts any non-blank token and returns empty claims.
func (PassThrough) Validate(_ context.Context, token string) (*Claims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}
	return &Claims{}, nil
}

// BearerToken extracts the token from an Authorization header value.
// The scheme is matched case-insensitively; anything else yields "".
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

type claimsKey struct{}

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// ClaimsFrom returns the claims stored by RequireBearer, or nil.
func ClaimsFrom(ctx context.Context) *Claims {
	c, _ := ctx.Value(claimsKey{}).(*Claims)
	return c
}

// Check validates the bearer credential carried by an Authorization header
// value. The returned error is one of ErrMissingToken, ErrInvalidToken or
// ErrExpiredToken and is safe to show to callers.
func Check(ctx context.Context, v Validator, header string) (*Claims, error) {
	token := BearerToken(header)
	if token == "" {
		return nil, ErrMissingToken
	}
	claims, err := v.Validate(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, ErrExpiredToken):
			return nil, ErrExpiredToken
		case errors.Is(err, ErrMissingToken):
			return nil, ErrMissingToken
		default:
			return nil, ErrInvalidToken
		}
	}
	return claims, nil
}

// RequireBearer rejects requests without a valid bearer credential before
// any handler work happens. Validated claims travel on the request context.
func RequireBearer(v Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := Check(c.Request.Context(), v, c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(apierr.Envelope(apierr.Unauthorized(err.Error()), ""))
			return
		}
		c.Request = c.Request.WithContext(WithClaims(c.Request.Context(), claims))
		c.Next()
	}
}
