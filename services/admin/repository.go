package main

import (
	"context"
	"database/sql"
	"fmt"
)

// AuditRepository persiste o registro de ações administrativas
type AuditRepository interface {
	CreateAuditLog(ctx context.Context, entry *AuditLog) error
	ListAuditLogs(ctx context.Context, limit int) ([]AuditLog, error)
}

// PostgresAuditRepository implementa AuditRepository com database/sql
type PostgresAuditRepository struct {
	db *sql.DB
}

// NewAuditRepository cria uma nova instância de PostgresAuditRepository
func NewAuditRepository(db *sql.DB) AuditRepository {
	return &PostgresAuditRepository{
		db: db,
	}
}

// CreateAuditLog insere um registro de auditoria
func (r *PostgresAuditRepository) CreateAuditLog(ctx context.Context, entry *AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, actor, action, entity, entity_id, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.Actor,
		entry.Action,
		entry.Entity,
		entry.EntityID,
		entry.Detail,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

// ListAuditLogs lista os registros mais recentes
func (r *PostgresAuditRepository) ListAuditLogs(ctx context.Context, limit int) ([]AuditLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, actor, action, entity, entity_id, detail, created_at
		FROM audit_logs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer rows.Close()

	var entries []AuditLog
	for rows.Next() {
		var e AuditLog
		if err := rows.Scan(&e.ID, &e.Actor, &e.Action, &e.Entity, &e.EntityID, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
