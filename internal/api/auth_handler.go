package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/galihcitta/chalet-reservation-system/internal/config"
	"github.com/galihcitta/chalet-reservation-system/internal/middleware"
)

type AuthHandler struct {
	auth   *middleware.Authenticator
	users  map[string]config.UserConfig
	logger *zap.Logger
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func NewAuthHandler(auth *middleware.Authenticator, users []config.UserConfig, logger *zap.Logger) *AuthHandler {
	byName := make(map[string]config.UserConfig, len(users))
	for _, u := range users {
		byName[u.Username] = u
	}
	return &AuthHandler{
		auth:   auth,
		users:  byName,
		logger: logger,
	}
}

// Login godoc
// @Summary Authenticate a staff account and get JWT tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param login body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	user, ok := h.users[req.Username]
	if !ok || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		h.logger.Warn("Rejected login", zap.String("username", req.Username))
		respondMessage(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	h.issueTokens(c, user)
	h.logger.Info("User logged in", zap.String("user_id", user.Username), zap.String("role", user.Role))
}

// RefreshToken godoc
// @Summary Exchange a refresh token for a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body RefreshTokenRequest true "Refresh token"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	claims, err := h.auth.ValidateToken(req.RefreshToken)
	if err != nil || !claims.IsRefresh() {
		respondMessage(c, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	// The role is looked up again so a changed account takes effect on refresh.
	user, ok := h.users[claims.UserID]
	if !ok {
		respondMessage(c, http.StatusUnauthorized, "Unknown user")
		return
	}

	h.issueTokens(c, user)
}

func (h *AuthHandler) issueTokens(c *gin.Context, user config.UserConfig) {
	accessToken, err := h.auth.GenerateToken(user.Username, user.Role)
	if err != nil {
		h.logger.Error("Failed to generate access token", zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	refreshToken, err := h.auth.GenerateRefreshToken(user.Username)
	if err != nil {
		h.logger.Error("Failed to generate refresh token", zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, "Failed to generate refresh token")
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(h.auth.TokenExpiry().Seconds()),
	})
}
