package models

import (
	"strings"
	"time"
)

// UserProfile is the cached profile stored next to the session token.
type UserProfile struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Phone     string `json:"phone,omitempty"`
}

func (u UserProfile) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u UserProfile) IsAdmin() bool {
	return strings.EqualFold(u.Role, RoleAdmin)
}

// Session is the client-side view of an authenticated user.
type Session struct {
	Token     string       `json:"token"`
	User      *UserProfile `json:"user,omitempty"`
	ExpiresAt time.Time    `json:"-"`
}

func (s *Session) Valid() bool {
	return s != nil && s.Token != ""
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone,omitempty"`
}

// AuthResponse accepts both the flat {token, user} body and the
// {success, data: {token, user}} envelope.
type AuthResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Token   string       `json:"token,omitempty"`
	User    *UserProfile `json:"user,omitempty"`
	Data    *struct {
		Token string       `json:"token"`
		User  *UserProfile `json:"user"`
	} `json:"data,omitempty"`
}

// Session extracts the token/profile pair regardless of the body shape.
func (r *AuthResponse) Session() *Session {
	if r == nil {
		return nil
	}
	s := &Session{Token: r.Token, User: r.User}
	if r.Data != nil {
		if s.Token == "" {
			s.Token = r.Data.Token
		}
		if s.User == nil {
			s.User = r.Data.User
		}
	}
	return s
}

// AdminUser is a row of the admin users table.
type AdminUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Phone     string `json:"phone,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

type AdminUserUpdate struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	Phone     string `json:"phone,omitempty"`
}
