package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/sessions/internal/errors"
	"github.com/allisson/sessions/internal/httputil"
	sessionDomain "github.com/allisson/sessions/internal/session/domain"
	sessionUseCase "github.com/allisson/sessions/internal/session/usecase"
)

// AuthenticationMiddleware authenticates requests with an access token sent as
// "Authorization: Bearer <token>" (case-insensitive "bearer").
//
// The middleware:
// 1. Extracts the Bearer token from the Authorization header
// 2. Runs the session validation chain on it
// 3. Rejects refresh tokens, which may only be exchanged at the refresh endpoint
// 4. Stores the validated claims in the request context for GetClaims()
//
// Error handling:
//   - Missing or malformed Authorization header → 401 Unauthorized
//   - Invalid token (malformed, expired, unknown subject, logged out, revoked) → 401 Unauthorized
//   - Refresh token → 403 Forbidden
//   - Store unavailable → 503 Service Unavailable
func AuthenticationMiddleware(
	sessionUseCase sessionUseCase.SessionUseCase,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c, logger)
		if !ok {
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		result, err := sessionUseCase.Validate(c.Request.Context(), token)
		if err != nil {
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		if !result.Valid {
			logger.Debug("authentication failed", slog.String("reason", string(result.Reason)))
			httputil.HandleErrorGin(c, result.Err(), logger)
			c.Abort()
			return
		}

		if !result.Claims.IsAccessToken {
			logger.Debug("authentication failed: refresh token presented",
				slog.String("username", result.Claims.Subject))
			httputil.HandleErrorGin(c, sessionDomain.ErrWrongTokenClass, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithClaims(c.Request.Context(), result.Claims))

		logger.Debug("authentication successful", slog.String("username", result.Claims.Subject))

		c.Next()
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(c *gin.Context, logger *slog.Logger) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		logger.Debug("authentication failed: missing authorization header")
		return "", false
	}

	const bearerPrefix = "bearer "
	if len(authHeader) < len(bearerPrefix) ||
		!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
		logger.Debug("authentication failed: malformed authorization header")
		return "", false
	}

	token := strings.TrimSpace(authHeader[len(bearerPrefix):])
	if token == "" {
		logger.Debug("authentication failed: empty bearer token")
		return "", false
	}
	return token, true
}
