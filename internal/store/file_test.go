package store

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wallet-console-service/internal/model"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return s
}

func TestCollectionRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := &model.Collection{ID: "c1", Name: "Badges"}
	if err := s.UpsertCollection(ctx, c); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.GetCollection(ctx, "c1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Badges" || got.CreatedAt.IsZero() {
		t.Fatalf("unexpected collection: %+v", got)
	}

	// Upsert replaces but keeps CreatedAt.
	created := got.CreatedAt
	c2 := &model.Collection{ID: "c1", Name: "Renamed"}
	if err := s.UpsertCollection(ctx, c2); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	got, _ = s.GetCollection(ctx, "c1")
	if got.Name != "Renamed" {
		t.Fatalf("upsert did not replace: %+v", got)
	}
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("upsert changed CreatedAt: %v vs %v", got.CreatedAt, created)
	}

	if err := s.DeleteCollection(ctx, "c1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetCollection(ctx, "c1"); !os.IsNotExist(err) {
		t.Fatalf("expected not-exist after delete, got %v", err)
	}
}

func TestDeleteCollectionUnknownID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.UpsertCollection(ctx, &model.Collection{ID: "c1", Name: "Badges"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if err := s.DeleteCollection(ctx, "no-such-id"); !os.IsNotExist(err) {
		t.Fatalf("expected not-exist for unknown id, got %v", err)
	}

	// The existing collection must be untouched.
	if _, err := s.GetCollection(ctx, "c1"); err != nil {
		t.Fatalf("existing collection lost: %v", err)
	}
}

func TestDeleteTemplateUnknownID(t *testing.T) {
	s := newTestStore(t)
	if err := s.DeleteTemplate(context.Background(), "no-such-id"); !os.IsNotExist(err) {
		t.Fatalf("expected not-exist for unknown id, got %v", err)
	}
}

func TestListCollectionsEmptyDir(t *testing.T) {
	s := newTestStore(t)
	items, err := s.ListCollections(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty list, got %d items", len(items))
	}
}

func TestSavePaymentUpsertsByTransactionID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := &model.Payment{ID: "pr1-tx1", PaymentRequestID: "pr1", TransactionID: "tx1", Amount: 1, Status: model.PaymentCompleted, PaidAt: time.Now()}
	if err := s.SavePayment(ctx, p); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Webhook retry for the same transaction must not duplicate.
	retry := *p
	retry.Amount = 2
	if err := s.SavePayment(ctx, &retry); err != nil {
		t.Fatalf("retry save: %v", err)
	}

	items, err := s.ListPayments(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 payment after retry, got %d", len(items))
	}
	if items[0].Amount != 2 {
		t.Fatalf("retry did not update payment: %+v", items[0])
	}
}

func TestListPaymentsByRequestSortsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	for i, tx := range []string{"tx-a", "tx-b", "tx-c"} {
		p := &model.Payment{
			ID:               "pr1-" + tx,
			PaymentRequestID: "pr1",
			TransactionID:    tx,
			PaidAt:           now.Add(time.Duration(i) * time.Minute),
			Status:           model.PaymentCompleted,
		}
		if err := s.SavePayment(ctx, p); err != nil {
			t.Fatalf("save %s: %v", tx, err)
		}
	}
	other := &model.Payment{ID: "pr2-tx", PaymentRequestID: "pr2", TransactionID: "tx-z", PaidAt: now}
	s.SavePayment(ctx, other)

	items, err := s.ListPaymentsByRequest(ctx, "pr1")
	if err != nil {
		t.Fatalf("list by request: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 payments for pr1, got %d", len(items))
	}
	if items[0].TransactionID != "tx-c" || items[2].TransactionID != "tx-a" {
		t.Fatalf("payments not sorted newest first: %v, %v, %v",
			items[0].TransactionID, items[1].TransactionID, items[2].TransactionID)
	}
}

func TestAuditLogAppendsJSONLines(t *testing.T) {
	dir := t.TempDir()
	a, err := NewAuditLog(dir)
	if err != nil {
		t.Fatalf("NewAuditLog: %v", err)
	}

	events := []model.AuditEvent{
		{Type: model.AuditLoginSuccess, Success: true, SessionID: "s1"},
		{Type: model.AuditPaymentInitiated, Success: true, SessionID: "s1"},
	}
	for _, e := range events {
		if err := a.Append(e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	f, err := os.Open(filepath.Join(dir, "audit.log"))
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()

	var lines int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e model.AuditEvent
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", lines+1, err)
		}
		if e.Timestamp.IsZero() {
			t.Fatalf("line %d missing timestamp", lines+1)
		}
		lines++
	}
	if lines != 2 {
		t.Fatalf("expected 2 log lines, got %d", lines)
	}
}
