package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"coursehub_backend/db"
	"coursehub_backend/middleware"
	"coursehub_backend/models"

	"github.com/gin-gonic/gin"
)

type AccountStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
}

type AuthHandler struct {
	store        AccountStore
	tokenService *middleware.TokenService
	log          *slog.Logger
}

func NewAuthHandler(store AccountStore, tokenService *middleware.TokenService, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		store:        store,
		tokenService: tokenService,
		log:          log,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}

	hashedPassword, err := middleware.HashPassword(req.Password)
	if err != nil {
		fail(c, h.log, http.StatusInternalServerError, "Failed to process password", err)
		return
	}

	user := models.User{
		Email:        req.Email,
		FullName:     strings.TrimSpace(req.FullName),
		AvatarURL:    req.AvatarURL,
		IsInstructor: req.IsInstructor,
		PasswordHash: hashedPassword,
	}
	if err := h.store.CreateUser(c.Request.Context(), &user); err != nil {
		failStore(c, h.log, err, "", "Email already registered", "Failed to create user")
		return
	}

	h.log.Info("user registered", slog.String("user_id", user.ID), slog.Bool("instructor", user.IsInstructor))
	h.respondWithTokens(c, http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}

	user, err := h.store.GetUserByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, db.ErrNotFound) || (err == nil && !middleware.VerifyPassword(user.PasswordHash, req.Password)) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		fail(c, h.log, http.StatusInternalServerError, "Failed to verify credentials", err)
		return
	}

	h.respondWithTokens(c, http.StatusOK, user)
}

// RefreshToken rotates a refresh token: the old one is consumed and a new pair issued.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}

	userID, err := h.tokenService.Refresh(c.Request.Context(), req.RefreshToken)
	if errors.Is(err, middleware.ErrInvalidToken) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}
	if err != nil {
		fail(c, h.log, http.StatusInternalServerError, "Failed to refresh token", err)
		return
	}

	user, err := h.store.GetUser(c.Request.Context(), userID)
	if errors.Is(err, db.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}
	if err != nil {
		fail(c, h.log, http.StatusInternalServerError, "Failed to refresh token", err)
		return
	}

	h.respondWithTokens(c, http.StatusOK, user)
}

// Logout revokes the given refresh token, or every token of the caller when none is sent.
func (h *AuthHandler) Logout(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req models.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		failBinding(c, err)
		return
	}

	err := h.tokenService.Revoke(c.Request.Context(), user.ID, req.RefreshToken)
	if errors.Is(err, middleware.ErrInvalidToken) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid refresh token"})
		return
	}
	if err != nil {
		fail(c, h.log, http.StatusInternalServerError, "Failed to logout", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

func (h *AuthHandler) GetUserInfo(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, user)
}

// Session describes the caller and the actions available to them.
func (h *AuthHandler) Session(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, models.NewSessionResponse(user))
}

func (h *AuthHandler) respondWithTokens(c *gin.Context, status int, user models.User) {
	tokens, err := h.tokenService.GenerateTokens(c.Request.Context(), user)
	if err != nil {
		fail(c, h.log, http.StatusInternalServerError, "Failed to generate tokens", err)
		return
	}
	c.JSON(status, models.AuthResponse{TokenPair: tokens, User: user})
}
