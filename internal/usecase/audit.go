package usecase

import (
	"context"

	"candlebliss_storefront/internal/domain"

	"github.com/sirupsen/logrus"
)

type actorKey struct{}

// WithActor names the seller on whose behalf the request runs.
func WithActor(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, actorKey{}, name)
}

func actorFrom(ctx context.Context) string {
	if name, ok := ctx.Value(actorKey{}).(string); ok && name != "" {
		return name
	}
	return "unknown"
}

// Auditor records seller actions. A failing trail never fails the action itself.
type Auditor struct {
	repo domain.AuditRepository
	log  *logrus.Logger
}

func NewAuditor(repo domain.AuditRepository, logger *logrus.Logger) *Auditor {
	return &Auditor{repo: repo, log: logger}
}

func (a *Auditor) Record(ctx context.Context, action, entity string, entityID int, detail string) {
	entry := &domain.AuditEntry{
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Actor:    actorFrom(ctx),
		Detail:   detail,
	}
	if err := a.repo.Record(ctx, entry); err != nil {
		a.log.Errorf("Use Case: Failed to record audit entry %s for %s %d: %v", action, entity, entityID, err)
	}
}

func (a *Auditor) Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	return a.repo.ListRecent(ctx, limit)
}
