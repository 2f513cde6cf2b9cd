package domain

import (
	"strings"
	"time"
)

type Role struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type UserStatus struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// User mirrors /api/v1/users entries. Role and status may be absent.
type User struct {
	ID        int         `json:"id"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone"`
	Role      *Role       `json:"role,omitempty"`
	Status    *UserStatus `json:"status,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

func (u User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return "N/A"
	}
	return name
}

func (u User) RoleName() string {
	if u.Role == nil || u.Role.Name == "" {
		return "N/A"
	}
	return u.Role.Name
}

func (u User) StatusName() string {
	if u.Status == nil || u.Status.Name == "" {
		return "N/A"
	}
	return u.Status.Name
}

func (u User) IsAdmin() bool {
	return strings.EqualFold(u.RoleName(), RoleAdmin)
}

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	User         User   `json:"user"`
}
