package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/backoffice/internal/authz"
	"github.com/suteetoe/backoffice/pkg/jwtutil"
	"github.com/suteetoe/backoffice/pkg/logger"
	"go.uber.org/zap"
)

const claimsKey = "user"

// Auth failure reasons
const (
	ReasonMissingToken = "missing_token"
	ReasonInvalidToken = "invalid_token"
	ReasonForbidden    = "forbidden"
)

// FailureRecorder counts rejected requests
type FailureRecorder interface {
	RecordAuthFailure(reason string)
}

type noopRecorder struct{}

func (noopRecorder) RecordAuthFailure(string) {}

// TokenValidator parses a bearer token into claims
type TokenValidator interface {
	ValidateToken(token string) (*jwtutil.UserClaims, error)
}

// Claims returns the claims stored by JWTAuth, or nil
func Claims(c echo.Context) *jwtutil.UserClaims {
	claims, _ := c.Get(claimsKey).(*jwtutil.UserClaims)
	return claims
}

// JWTAuth rejects requests without a valid bearer token and stores the
// token's claims for later handlers
func JWTAuth(tokens TokenValidator, failures FailureRecorder) echo.MiddlewareFunc {
	if failures == nil {
		failures = noopRecorder{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				log.Warn("Missing authorization header")
				failures.RecordAuthFailure(ReasonMissingToken)
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing authorization header"})
			}

			scheme, token, ok := strings.Cut(authHeader, " ")
			if !ok || scheme != "Bearer" || token == "" {
				log.Warn("Invalid authorization header format")
				failures.RecordAuthFailure(ReasonInvalidToken)
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid authorization header format"})
			}

			claims, err := tokens.ValidateToken(token)
			if err != nil {
				log.Warn("Invalid or expired token", zap.Error(err))
				failures.RecordAuthFailure(ReasonInvalidToken)
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
			}

			c.Set(claimsKey, claims)
			log.Debug("JWT token validated successfully",
				zap.Uint("user_id", claims.UserID),
				zap.String("username", claims.Username))

			return next(c)
		}
	}
}

// RequireAccess lets a request through only when one of the caller's roles
// may act on object. GET and HEAD need read access; every other method needs
// write access. It must run after JWTAuth.
func RequireAccess(enforcer *authz.Enforcer, object string, failures FailureRecorder) echo.MiddlewareFunc {
	if failures == nil {
		failures = noopRecorder{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			claims := Claims(c)
			if claims == nil {
				failures.RecordAuthFailure(ReasonMissingToken)
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Authentication required"})
			}

			action := authz.ActionWrite
			switch c.Request().Method {
			case http.MethodGet, http.MethodHead:
				action = authz.ActionRead
			}

			allowed, err := enforcer.Allowed(claims.Roles, object, action)
			if err != nil {
				log.Error("Permission check failed", zap.Error(err))
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Permission check failed"})
			}
			if !allowed {
				log.Warn("Access denied",
					zap.String("username", claims.Username),
					zap.Strings("roles", claims.Roles),
					zap.String("object", object),
					zap.String("action", action))
				failures.RecordAuthFailure(ReasonForbidden)
				return c.JSON(http.StatusForbidden, map[string]string{"error": "Access denied"})
			}

			return next(c)
		}
	}
}
