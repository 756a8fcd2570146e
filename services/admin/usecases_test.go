package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// fakeAudit guarda a trilha em memória, com falha opcional
type fakeAudit struct {
	entries []*AuditLog
	err     error
}

func (f *fakeAudit) CreateAuditLog(ctx context.Context, entry *AuditLog) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAudit) ListAuditLogs(ctx context.Context, limit int) ([]AuditLog, error) {
	var out []AuditLog
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *f.entries[i])
	}
	return out, nil
}

// fakeOrders devolve payloads fixos
type fakeOrders struct {
	summary json.RawMessage
	err     error
}

func (f *fakeOrders) SalesSummary(ctx context.Context, token, from, to string) (json.RawMessage, error) {
	return f.summary, f.err
}

func (f *fakeOrders) ListOrders(ctx context.Context, token string, page, size int) (json.RawMessage, error) {
	return f.summary, f.err
}

// fakeProducts registra as aprovações aplicadas
type fakeProducts struct {
	approvals  map[string]bool
	setErr     error
	lowStock   json.RawMessage
	lowStockOK bool
}

func (f *fakeProducts) LowStock(ctx context.Context, token string, threshold int) (json.RawMessage, error) {
	if !f.lowStockOK {
		return nil, ErrUpstream
	}
	return f.lowStock, nil
}

func (f *fakeProducts) SetApproval(ctx context.Context, token, productID string, approved bool) error {
	if f.setErr != nil {
		return f.setErr
	}
	if f.approvals == nil {
		f.approvals = map[string]bool{}
	}
	f.approvals[productID] = approved
	return nil
}

func newTestAdmin(audit AuditRepository, orders OrdersClient, products ProductsClient) *AdminUseCase {
	return NewAdminUseCase(audit, orders, products, tracenoop.NewTracerProvider().Tracer("test"))
}

func TestApprove_AppliesFlagAndWritesAudit(t *testing.T) {
	audit := &fakeAudit{}
	products := &fakeProducts{}
	uc := newTestAdmin(audit, &fakeOrders{}, products)

	err := uc.Approve(context.Background(), "admin-1", "token", "product", "p1", true)

	require.NoError(t, err)
	assert.True(t, products.approvals["p1"])
	require.Len(t, audit.entries, 1)
	assert.Equal(t, "admin-1", audit.entries[0].Actor)
	assert.Equal(t, "set_approval", audit.entries[0].Action)
	assert.Equal(t, "p1", audit.entries[0].EntityID)
}

func TestApprove_UnknownEntityRejected(t *testing.T) {
	audit := &fakeAudit{}
	products := &fakeProducts{}
	uc := newTestAdmin(audit, &fakeOrders{}, products)

	err := uc.Approve(context.Background(), "admin-1", "token", "warehouse", "w1", true)

	assert.ErrorIs(t, err, ErrUnknownEntity)
	assert.Empty(t, products.approvals)
	assert.Empty(t, audit.entries, "rejected action leaves no audit row")
}

func TestApprove_UpstreamFailureLeavesNoAudit(t *testing.T) {
	audit := &fakeAudit{}
	products := &fakeProducts{setErr: ErrUpstream}
	uc := newTestAdmin(audit, &fakeOrders{}, products)

	err := uc.Approve(context.Background(), "admin-1", "token", "product", "p1", true)

	assert.ErrorIs(t, err, ErrUpstream)
	assert.Empty(t, audit.entries)
}

func TestApprove_AuditFailureIsNotFatal(t *testing.T) {
	audit := &fakeAudit{err: errors.New("db down")}
	products := &fakeProducts{}
	uc := newTestAdmin(audit, &fakeOrders{}, products)

	err := uc.Approve(context.Background(), "admin-1", "token", "product", "p1", true)

	// the approval itself went through; losing the audit row is logged only
	require.NoError(t, err)
	assert.True(t, products.approvals["p1"])
}

func TestSalesSummary_ProxiesBodyAndAudits(t *testing.T) {
	audit := &fakeAudit{}
	orders := &fakeOrders{summary: json.RawMessage(`{"orders":12,"revenue":340.5}`)}
	uc := newTestAdmin(audit, orders, &fakeProducts{})

	body, err := uc.SalesSummary(context.Background(), "admin-1", "token", "", "")

	require.NoError(t, err)
	assert.JSONEq(t, `{"orders":12,"revenue":340.5}`, string(body))
	require.Len(t, audit.entries, 1)
	assert.Equal(t, "view_sales_summary", audit.entries[0].Action)
}

func TestLowStock_UpstreamFailurePropagates(t *testing.T) {
	audit := &fakeAudit{}
	uc := newTestAdmin(audit, &fakeOrders{}, &fakeProducts{lowStockOK: false})

	_, err := uc.LowStock(context.Background(), "admin-1", "token", 5)

	assert.ErrorIs(t, err, ErrUpstream)
	assert.Empty(t, audit.entries)
}

func TestAuditTrail_MostRecentFirst(t *testing.T) {
	audit := &fakeAudit{}
	products := &fakeProducts{}
	uc := newTestAdmin(audit, &fakeOrders{}, products)

	require.NoError(t, uc.Approve(context.Background(), "admin-1", "token", "product", "p1", true))
	require.NoError(t, uc.Approve(context.Background(), "admin-1", "token", "product", "p2", false))

	trail, err := uc.AuditTrail(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, trail, 2)
	assert.Equal(t, "p2", trail[0].EntityID)
}
