package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name,omitempty"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	IsInstructor bool      `json:"is_instructor"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type RegisterRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	FullName     string `json:"full_name" binding:"max=200"`
	AvatarURL    string `json:"avatar_url" binding:"omitempty,url"`
	IsInstructor bool   `json:"is_instructor"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type Claims struct {
	UserID       string `json:"user_id"`
	IsInstructor bool   `json:"is_instructor"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type AuthResponse struct {
	TokenPair
	User User `json:"user"`
}

// SessionActions lists the navigation actions offered to the caller.
type SessionActions struct {
	SignIn       bool `json:"sign_in"`
	SignOut      bool `json:"sign_out"`
	Dashboard    bool `json:"dashboard"`
	CreateCourse bool `json:"create_course"`
}

type SessionResponse struct {
	User    *User          `json:"user"`
	Actions SessionActions `json:"actions"`
}

func NewSessionResponse(u *User) SessionResponse {
	if u == nil {
		return SessionResponse{Actions: SessionActions{SignIn: true}}
	}
	return SessionResponse{
		User: u,
		Actions: SessionActions{
			SignOut:      true,
			Dashboard:    true,
			CreateCourse: u.IsInstructor,
		},
	}
}
