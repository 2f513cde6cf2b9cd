package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// Flash is a one-shot toast shown on the next rendered page.
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Session is the server-side counterpart of the token the browser used to keep in local storage.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	UserID    int       `json:"userId"`
	UserName  string    `json:"userName"`
	Role      string    `json:"role"`
	Flashes   []Flash   `json:"flashes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func New(token string, userID int, userName, role string) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Token:     token,
		UserID:    userID,
		UserName:  userName,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
}

func (s *Session) IsAdmin() bool {
	return strings.EqualFold(s.Role, "admin")
}

func (s *Session) AddFlash(kind, message string) {
	s.Flashes = append(s.Flashes, Flash{Kind: kind, Message: message})
}

// PopFlashes returns the pending flashes and clears them.
func (s *Session) PopFlashes() []Flash {
	flashes := s.Flashes
	s.Flashes = nil
	return flashes
}

type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// Cache holds JSON-serialisable values such as the fetched product list.
type Cache interface {
	// Get decodes the cached value into out and reports whether it was present.
	Get(ctx context.Context, key string, out any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
