package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/sessions/internal/errors"
	"github.com/allisson/sessions/internal/httputil"
	"github.com/allisson/sessions/internal/session/http/dto"
	sessionUseCase "github.com/allisson/sessions/internal/session/usecase"
	customValidation "github.com/allisson/sessions/internal/validation"
)

// SessionHandler handles HTTP requests for the session lifecycle.
type SessionHandler struct {
	sessionUseCase sessionUseCase.SessionUseCase
	logger         *slog.Logger
}

// NewSessionHandler creates a new session handler with required dependencies.
func NewSessionHandler(sessionUseCase sessionUseCase.SessionUseCase, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		sessionUseCase: sessionUseCase,
		logger:         logger,
	}
}

// LoginHandler exchanges credentials for a token pair.
// POST /v1/auth/login - No authentication required.
// Returns 200 OK with the token pair.
func (h *SessionHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	pair, err := h.sessionUseCase.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("user logged in", slog.String("username", req.Username))

	c.JSON(http.StatusOK, dto.MapTokenPairToResponse(pair))
}

// RefreshHandler exchanges the refresh token sent as Bearer for a new token pair.
// POST /v1/auth/refresh - Requires a refresh token.
// Returns 200 OK with the token pair.
func (h *SessionHandler) RefreshHandler(c *gin.Context) {
	token, ok := bearerToken(c, h.logger)
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	pair, err := h.sessionUseCase.Refresh(c.Request.Context(), token)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTokenPairToResponse(pair))
}

// LogoutHandler ends the session of the authenticated user and revokes all their tokens.
// POST /v1/auth/logout - Requires AuthenticationMiddleware.
// Returns 204 No Content.
func (h *SessionHandler) LogoutHandler(c *gin.Context) {
	claims, ok := GetClaims(c.Request.Context())
	if !ok || claims == nil {
		h.logger.Error("logout handler: no claims in context")
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	if err := h.sessionUseCase.Logout(c.Request.Context(), claims.Subject); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("user logged out", slog.String("username", claims.Subject))

	c.Data(http.StatusNoContent, "application/json", nil)
}

// SessionInfoHandler describes the session behind the presented access token.
// GET /v1/auth/session - Requires AuthenticationMiddleware.
func (h *SessionHandler) SessionInfoHandler(c *gin.Context) {
	claims, ok := GetClaims(c.Request.Context())
	if !ok || claims == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapClaimsToResponse(claims))
}
