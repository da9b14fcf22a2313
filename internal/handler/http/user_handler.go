// Package http exposes the user-service REST API. Request and response
// shapes follow the public contract: every endpoint returns a common
// envelope with code 0 on success.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/matching-platform/user-service/internal/domain/errors"
	"github.com/matching-platform/user-service/internal/domain/interfaces"
	"github.com/matching-platform/user-service/internal/domain/models"
)

// AuthService is the capability the handler needs from the auth core.
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest, device *models.DeviceInfo) (*models.User, error)
	SendVerificationCode(ctx context.Context, codeType, destination string) (string, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// TokenService is the capability the handler needs from the token core.
type TokenService interface {
	IssueAccessToken(ctx context.Context, userID uuid.UUID) (string, error)
	IssueRefreshToken(ctx context.Context, userID uuid.UUID) (string, error)
	Verify(ctx context.Context, token string) (uuid.UUID, error)
	Revoke(ctx context.Context, token string) error
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}

// Response is the common API envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func success(data interface{}) Response {
	return Response{Code: 0, Message: "success", Data: data}
}

func failure(message string) Response {
	return Response{Code: 1, Message: message}
}

// UserHandler serves the /api/user routes.
type UserHandler struct {
	auth      AuthService
	tokens    TokenService
	notifier  interfaces.NotificationService
	accessTTL time.Duration
	logger    *zap.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(auth AuthService, tokens TokenService, notifier interfaces.NotificationService, accessTTL time.Duration, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		auth:      auth,
		tokens:    tokens,
		notifier:  notifier,
		accessTTL: accessTTL,
		logger:    logger,
	}
}

// RegisterRoutes attaches the handler's routes to the router.
func (h *UserHandler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/user")
	{
		api.POST("/register", h.Register)
		api.POST("/login", h.Login)
		api.POST("/refresh", h.RefreshToken)
		api.POST("/logout", h.Logout)
		api.POST("/verify/send", h.SendVerificationCode)
		api.GET("/health", h.Health)
	}
	authed := r.Group("/api/user", AuthMiddleware(h.tokens))
	{
		authed.GET("/info", h.GetUserInfo)
		authed.POST("/logout/all", h.LogoutAll)
	}
}

type registerResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Register handles POST /api/user/register.
func (h *UserHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, failure(err.Error()))
		return
	}

	user, err := h.auth.Register(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, success(registerResponse{
		UserID:   user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
	}))
}

type loginResponse struct {
	UserID       string `json:"user_id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// Login handles POST /api/user/login. On success it issues a token pair.
func (h *UserHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, failure(err.Error()))
		return
	}

	device := req.DeviceInfo
	if device == nil {
		device = &models.DeviceInfo{
			DeviceID:   uuid.NewString(),
			DeviceType: "WEB",
			IPAddress:  c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
		}
	}

	user, err := h.auth.Login(c.Request.Context(), &req, device)
	if err != nil {
		h.writeError(c, err)
		return
	}

	accessToken, err := h.tokens.IssueAccessToken(c.Request.Context(), user.ID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	refreshToken, err := h.tokens.IssueRefreshToken(c.Request.Context(), user.ID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, success(loginResponse{
		UserID:       user.ID.String(),
		Username:     user.Username,
		Email:        user.Email,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(h.accessTTL.Seconds()),
	}))
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// RefreshToken handles POST /api/user/refresh: it resolves the refresh token
// and issues a fresh access token for the same user.
func (h *UserHandler) RefreshToken(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, failure(err.Error()))
		return
	}

	userID, err := h.tokens.Verify(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.writeError(c, err)
		return
	}

	accessToken, err := h.tokens.IssueAccessToken(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, success(tokenResponse{
		AccessToken: accessToken,
		ExpiresIn:   int(h.accessTTL.Seconds()),
	}))
}

type logoutRequest struct {
	Token string `json:"token" binding:"required"`
}

// Logout handles POST /api/user/logout by revoking the presented token.
func (h *UserHandler) Logout(c *gin.Context) {
	var req logoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, failure(err.Error()))
		return
	}

	if err := h.tokens.Revoke(c.Request.Context(), req.Token); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, success("logged out"))
}

// LogoutAll handles POST /api/user/logout/all. Every token issued to the
// bearer-token user before this call stops verifying, including the one
// that authorized the request.
func (h *UserHandler) LogoutAll(c *gin.Context) {
	userID := AuthenticatedUserID(c)
	if userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, failure(domainErrors.ErrTokenNotFound.Error()))
		return
	}

	if err := h.tokens.RevokeAll(c.Request.Context(), userID); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, success("all sessions logged out"))
}

type userInfoResponse struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// GetUserInfo handles GET /api/user/info for the bearer-token user.
func (h *UserHandler) GetUserInfo(c *gin.Context) {
	userID := AuthenticatedUserID(c)
	if userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, failure(domainErrors.ErrTokenNotFound.Error()))
		return
	}

	user, err := h.auth.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, success(userInfoResponse{
		UserID:    user.ID.String(),
		Username:  user.Username,
		Email:     user.Email,
		Phone:     user.Phone,
		Status:    string(user.Status),
		CreatedAt: user.CreatedAt,
	}))
}

type sendCodeRequest struct {
	Type        string `json:"type" binding:"required,oneof=email sms"`
	Destination string `json:"destination" binding:"required"`
}

// SendVerificationCode handles POST /api/user/verify/send. The issued code
// is handed to the notification channel, never returned to the client.
func (h *UserHandler) SendVerificationCode(c *gin.Context) {
	var req sendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, failure(err.Error()))
		return
	}

	code, err := h.auth.SendVerificationCode(c.Request.Context(), req.Type, req.Destination)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if err := h.notifier.SendCode(c.Request.Context(), req.Type, req.Destination, code); err != nil {
		h.logger.Error("Failed to deliver verification code",
			zap.String("type", req.Type),
			zap.String("destination", req.Destination),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, failure("failed to send verification code"))
		return
	}

	c.JSON(http.StatusOK, success("verification code sent"))
}

// Health handles GET /api/user/health.
func (h *UserHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, success("OK"))
}

func (h *UserHandler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case domainErrors.IsBadRequest(err):
		status = http.StatusBadRequest
	case domainErrors.IsUnauthorized(err):
		status = http.StatusUnauthorized
	case domainErrors.IsForbidden(err):
		status = http.StatusForbidden
	case domainErrors.IsConflict(err):
		status = http.StatusConflict
	case errors.Is(err, domainErrors.ErrRateLimitExceeded):
		status = http.StatusTooManyRequests
	case errors.Is(err, domainErrors.ErrNotFound):
		status = http.StatusNotFound
	case domainErrors.IsUnavailable(err):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError || status == http.StatusServiceUnavailable {
		h.logger.Error("Request failed", zap.Error(err))
		c.JSON(status, failure("internal server error"))
		return
	}
	c.JSON(status, failure(err.Error()))
}
