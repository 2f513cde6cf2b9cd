package domain

import (
	"context"
	"time"
)

type AuditEntry struct {
	ID        int64     `json:"id"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity"`
	EntityID  int       `json:"entity_id"`
	Actor     string    `json:"actor"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

type AuditRepository interface {
	Record(ctx context.Context, entry *AuditEntry) error
	ListRecent(ctx context.Context, limit int) ([]AuditEntry, error)
}
