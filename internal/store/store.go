package store

import (
	"context"

	"github.com/wallet-console-service/internal/model"
)

// CollectionStore defines operations for collection management.
type CollectionStore interface {
	ListCollections(ctx context.Context) ([]*model.Collection, error)
	GetCollection(ctx context.Context, id string) (*model.Collection, error)
	UpsertCollection(ctx context.Context, c *model.Collection) error
	DeleteCollection(ctx context.Context, id string) error
}

// TemplateStore defines operations for item template management.
type TemplateStore interface {
	ListTemplates(ctx context.Context) ([]*model.ItemTemplate, error)
	GetTemplate(ctx context.Context, id string) (*model.ItemTemplate, error)
	UpsertTemplate(ctx context.Context, t *model.ItemTemplate) error
	DeleteTemplate(ctx context.Context, id string) error
}

// PaymentStore defines operations for recorded payments.
type PaymentStore interface {
	ListPayments(ctx context.Context) ([]*model.Payment, error)
	ListPaymentsByRequest(ctx context.Context, paymentRequestID string) ([]*model.Payment, error)
	SavePayment(ctx context.Context, p *model.Payment) error
}

// AuditStore appends audit events to durable storage.
type AuditStore interface {
	Append(event model.AuditEvent) error
}

// Store combines all persistence concerns.
type Store interface {
	CollectionStore
	TemplateStore
	PaymentStore
}
