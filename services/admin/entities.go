package main

import "time"

// AuditLog registra uma ação administrativa
type AuditLog struct {
	ID        string    `json:"id"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entity_id"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAuditLog cria uma nova instância de AuditLog
func NewAuditLog(id, actor, action, entity, entityID, detail string) *AuditLog {
	return &AuditLog{
		ID:        id,
		Actor:     actor,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Detail:    detail,
		CreatedAt: time.Now(),
	}
}
