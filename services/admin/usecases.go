package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// AdminUseCase orquestra as consultas do painel e grava a trilha de auditoria
type AdminUseCase struct {
	audit    AuditRepository
	orders   OrdersClient
	products ProductsClient
	tracer   trace.Tracer
}

// NewAdminUseCase cria uma nova instância de AdminUseCase
func NewAdminUseCase(
	audit AuditRepository,
	orders OrdersClient,
	products ProductsClient,
	tracer trace.Tracer,
) *AdminUseCase {
	return &AdminUseCase{
		audit:    audit,
		orders:   orders,
		products: products,
		tracer:   tracer,
	}
}

// recordAudit grava a trilha; falha de auditoria nunca derruba a ação
func (uc *AdminUseCase) recordAudit(ctx context.Context, actor, action, entity, entityID, detail string) {
	entry := NewAuditLog(uuid.New().String(), actor, action, entity, entityID, detail)
	if err := uc.audit.CreateAuditLog(ctx, entry); err != nil {
		log.Printf("⚠️ AUDIT LOST: Actor=%s | Action=%s | Error=%v", actor, action, err)
	}
}

// SalesSummary repassa o agregado de vendas do orders-service
func (uc *AdminUseCase) SalesSummary(ctx context.Context, actor, token, from, to string) (json.RawMessage, error) {
	ctx, span := uc.tracer.Start(ctx, "admin_sales_summary")
	defer span.End()

	body, err := uc.orders.SalesSummary(ctx, token, from, to)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	uc.recordAudit(ctx, actor, "view_sales_summary", "orders", "", fmt.Sprintf("from=%s to=%s", from, to))
	return body, nil
}

// LowStock repassa os produtos com estoque baixo do products-service
func (uc *AdminUseCase) LowStock(ctx context.Context, actor, token string, threshold int) (json.RawMessage, error) {
	ctx, span := uc.tracer.Start(ctx, "admin_low_stock")
	defer span.End()
	span.SetAttributes(attribute.Int("threshold", threshold))

	body, err := uc.products.LowStock(ctx, token, threshold)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	uc.recordAudit(ctx, actor, "view_low_stock", "products", "", fmt.Sprintf("threshold=%d", threshold))
	return body, nil
}

// ListOrders repassa a listagem paginada de pedidos do orders-service
func (uc *AdminUseCase) ListOrders(ctx context.Context, actor, token string, page, size int) (json.RawMessage, error) {
	ctx, span := uc.tracer.Start(ctx, "admin_list_orders")
	defer span.End()

	body, err := uc.orders.ListOrders(ctx, token, page, size)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	uc.recordAudit(ctx, actor, "view_orders", "orders", "", fmt.Sprintf("page=%d size=%d", page, size))
	return body, nil
}

// Approve alterna a aprovação de uma entidade. Hoje só produtos são aprováveis.
func (uc *AdminUseCase) Approve(ctx context.Context, actor, token, entity, entityID string, approve bool) error {
	ctx, span := uc.tracer.Start(ctx, "admin_approve")
	defer span.End()
	span.SetAttributes(
		attribute.String("entity", entity),
		attribute.String("entity_id", entityID),
		attribute.Bool("approve", approve),
	)

	log.Printf("➡️ [APPROVE] Actor=%s | Entity=%s | EntityID=%s | Approve=%v", actor, entity, entityID, approve)

	if entity != "product" {
		return ErrUnknownEntity
	}

	if err := uc.products.SetApproval(ctx, token, entityID, approve); err != nil {
		span.RecordError(err)
		return err
	}

	uc.recordAudit(ctx, actor, "set_approval", entity, entityID, fmt.Sprintf("approve=%v", approve))
	log.Printf("✅ Approval applied: Entity=%s | EntityID=%s | Approve=%v", entity, entityID, approve)
	return nil
}

// AuditTrail lista os registros de auditoria mais recentes
func (uc *AdminUseCase) AuditTrail(ctx context.Context, limit int) ([]AuditLog, error) {
	return uc.audit.ListAuditLogs(ctx, limit)
}
