package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"coursehub_backend/db"
	"coursehub_backend/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	userKey  = "currentUser"
	tokenKey = "accessToken"
)

var ErrInvalidToken = errors.New("invalid token")

type UserStore interface {
	GetUser(ctx context.Context, id string) (models.User, error)
}

type RefreshTokenStore interface {
	SaveRefreshToken(ctx context.Context, token, userID string, expiresAt time.Time) error
	ConsumeRefreshToken(ctx context.Context, token string, now time.Time) (string, error)
	RevokeRefreshToken(ctx context.Context, token, userID string) error
	RevokeUserTokens(ctx context.Context, userID string) (int64, error)
}

// Identity resolves the caller from a Bearer token. A missing, malformed,
// expired or unknown token leaves the request anonymous; RequireUser and
// RequireInstructor reject anonymous callers on routes that need one.
func Identity(users UserStore, tokens *TokenService, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			log.Debug("ignoring malformed authorization header")
			c.Next()
			return
		}

		claims, err := tokens.ParseAccessToken(parts[1])
		if err != nil {
			log.Debug("token validation failed", slog.Any("error", err))
			c.Next()
			return
		}

		user, err := users.GetUser(c.Request.Context(), claims.UserID)
		if errors.Is(err, db.ErrNotFound) {
			log.Debug("token for unknown user", slog.String("user_id", claims.UserID))
			c.Next()
			return
		}
		if err != nil {
			log.Error("failed to load user for token", slog.String("user_id", claims.UserID), slog.Any("error", err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
			return
		}

		c.Set(userKey, &user)
		c.Set(tokenKey, parts[1])
		c.Next()
	}
}

// CurrentUser returns the authenticated caller, if any.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok && u != nil
}

func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.Next()
	}
}

func RequireInstructor() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		if !u.IsInstructor {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Only instructors can perform this action"})
			return
		}
		c.Next()
	}
}

// TokenService handles token generation and validation
type TokenService struct {
	store      RefreshTokenStore
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenService(store RefreshTokenStore, secret []byte, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		store:      store,
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// GenerateTokens creates a new access and refresh token pair
func (s *TokenService) GenerateTokens(ctx context.Context, user models.User) (models.TokenPair, error) {
	now := s.now()
	expiresAt := now.Add(s.accessTTL)
	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.Claims{
		UserID:       user.ID,
		IsInstructor: user.IsInstructor,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	signed, err := accessToken.SignedString(s.secret)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}

	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return models.TokenPair{}, fmt.Errorf("generate refresh token: %w", err)
	}
	refreshToken := hex.EncodeToString(bytes)
	if err := s.store.SaveRefreshToken(ctx, refreshToken, user.ID, now.Add(s.refreshTTL)); err != nil {
		return models.TokenPair{}, err
	}

	return models.TokenPair{
		AccessToken:  signed,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt.UTC(),
	}, nil
}

func (s *TokenService) ParseAccessToken(tokenString string) (*models.Claims, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Refresh consumes a refresh token and returns the user it belonged to.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := s.store.ConsumeRefreshToken(ctx, refreshToken, s.now())
	if errors.Is(err, db.ErrNotFound) {
		return "", ErrInvalidToken
	}
	return userID, err
}

// Revoke signs a user out: one refresh token when given, otherwise all of them.
func (s *TokenService) Revoke(ctx context.Context, userID, refreshToken string) error {
	if refreshToken == "" {
		_, err := s.store.RevokeUserTokens(ctx, userID)
		return err
	}
	err := s.store.RevokeRefreshToken(ctx, refreshToken, userID)
	if errors.Is(err, db.ErrNotFound) {
		return ErrInvalidToken
	}
	return err
}

// VerifyPassword checks if a password matches the hashed version
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// HashPassword creates a bcrypt hash of a password
func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}
