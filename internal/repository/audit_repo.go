package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"candlebliss_storefront/internal/domain"

	"github.com/sirupsen/logrus"
)

const auditSchema = `
CREATE TABLE IF NOT EXISTS seller_audit_log (
    id         BIGSERIAL PRIMARY KEY,
    action     TEXT        NOT NULL,
    entity     TEXT        NOT NULL,
    entity_id  INTEGER     NOT NULL,
    actor      TEXT        NOT NULL,
    detail     TEXT        NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

type postgresAuditRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresAuditRepository(db *sql.DB, logger *logrus.Logger) domain.AuditRepository {
	return &postgresAuditRepository{
		db:  db,
		log: logger,
	}
}

// EnsureAuditSchema creates the audit table when it does not exist yet.
func EnsureAuditSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, auditSchema); err != nil {
		return fmt.Errorf("could not create audit table: %w", err)
	}
	return nil
}

func (r *postgresAuditRepository) Record(ctx context.Context, entry *domain.AuditEntry) error {
	query := `
        INSERT INTO seller_audit_log (action, entity, entity_id, actor, detail)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at
    `
	err := r.db.QueryRowContext(ctx, query, entry.Action, entry.Entity, entry.EntityID, entry.Actor, entry.Detail).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		r.log.Errorf("Failed to insert audit entry %s %s/%d: %v", entry.Action, entry.Entity, entry.EntityID, err)
		return fmt.Errorf("could not record audit entry: %w", err)
	}
	return nil
}

func (r *postgresAuditRepository) ListRecent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	query := `
        SELECT id, action, entity, entity_id, actor, detail, created_at
        FROM seller_audit_log
        ORDER BY created_at DESC, id DESC
        LIMIT $1
    `
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		r.log.Errorf("Failed to list audit entries: %v", err)
		return nil, fmt.Errorf("could not list audit entries: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.AuditEntry, 0, limit)
	for rows.Next() {
		var e domain.AuditEntry
		if err := rows.Scan(&e.ID, &e.Action, &e.Entity, &e.EntityID, &e.Actor, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("could not scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit entries: %w", err)
	}
	return entries, nil
}

// logAuditRepository writes entries to the log and keeps the latest ones in memory.
type logAuditRepository struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
	max     int
	nextID  int64
	log     *logrus.Logger
}

func NewLogAuditRepository(logger *logrus.Logger, keep int) domain.AuditRepository {
	if keep <= 0 {
		keep = 100
	}
	return &logAuditRepository{max: keep, log: logger}
}

func (r *logAuditRepository) Record(ctx context.Context, entry *domain.AuditEntry) error {
	r.mu.Lock()
	r.nextID++
	entry.ID = r.nextID
	entry.CreatedAt = time.Now().UTC()
	r.entries = append(r.entries, *entry)
	if len(r.entries) > r.max {
		r.entries = r.entries[len(r.entries)-r.max:]
	}
	r.mu.Unlock()

	r.log.WithFields(logrus.Fields{
		"audit_action": entry.Action,
		"entity":       entry.Entity,
		"entity_id":    entry.EntityID,
		"actor":        entry.Actor,
	}).Info(entry.Detail)
	return nil
}

func (r *logAuditRepository) ListRecent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.AuditEntry, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}
