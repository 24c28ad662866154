package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/wallet-console-service/internal/model"
)

const (
	collectionsFile = "collections.json"
	templatesFile   = "item-templates.json"
	paymentsFile    = "payments.json"
)

// FileStore persists collections, item templates and payments as JSON files
// under a data directory. Semantics are read-all / upsert-by-id /
// delete-by-id with last write wins; the mutex only serializes writers
// within this process.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func readAll[T any](s *FileStore, name string) ([]T, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return items, nil
}

func writeAll[T any](s *FileStore, name string, items []T) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

// --- collections ---

func (s *FileStore) ListCollections(_ context.Context) ([]*model.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readAll[*model.Collection](s, collectionsFile)
}

func (s *FileStore) GetCollection(ctx context.Context, id string) (*model.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := readAll[*model.Collection](s, collectionsFile)
	if err != nil {
		return nil, err
	}
	for _, c := range items {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, os.ErrNotExist
}

func (s *FileStore) UpsertCollection(_ context.Context, c *model.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := readAll[*model.Collection](s, collectionsFile)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	c.UpdatedAt = now
	replaced := false
	for i, existing := range items {
		if existing.ID == c.ID {
			c.CreatedAt = existing.CreatedAt
			items[i] = c
			replaced = true
			break
		}
	}
	if !replaced {
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		items = append(items, c)
	}

	return writeAll(s, collectionsFile, items)
}

func (s *FileStore) DeleteCollection(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := readAll[*model.Collection](s, collectionsFile)
	if err != nil {
		return err
	}

	kept := items[:0]
	for _, c := range items {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(items) {
		return os.ErrNotExist
	}
	return writeAll(s, collectionsFile, kept)
}

// --- item templates ---

func (s *FileStore) ListTemplates(_ context.Context) ([]*model.ItemTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readAll[*model.ItemTemplate](s, templatesFile)
}

func (s *FileStore) GetTemplate(_ context.Context, id string) (*model.ItemTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := readAll[*model.ItemTemplate](s, templatesFile)
	if err != nil {
		return nil, err
	}
	for _, t := range items {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, os.ErrNotExist
}

func (s *FileStore) UpsertTemplate(_ context.Context, t *model.ItemTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := readAll[*model.ItemTemplate](s, templatesFile)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	t.UpdatedAt = now
	replaced := false
	for i, existing := range items {
		if existing.ID == t.ID {
			t.CreatedAt = existing.CreatedAt
			items[i] = t
			replaced = true
			break
		}
	}
	if !replaced {
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
		}
		items = append(items, t)
	}

	return writeAll(s, templatesFile, items)
}

func (s *FileStore) DeleteTemplate(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := readAll[*model.ItemTemplate](s, templatesFile)
	if err != nil {
		return err
	}

	kept := items[:0]
	for _, t := range items {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(items) {
		return os.ErrNotExist
	}
	return writeAll(s, templatesFile, kept)
}

// --- payments ---

func (s *FileStore) ListPayments(_ context.Context) ([]*model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := readAll[*model.Payment](s, paymentsFile)
	if err != nil {
		return nil, err
	}
	sortPaymentsNewestFirst(items)
	return items, nil
}

func (s *FileStore) ListPaymentsByRequest(_ context.Context, paymentRequestID string) ([]*model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := readAll[*model.Payment](s, paymentsFile)
	if err != nil {
		return nil, err
	}

	matched := make([]*model.Payment, 0, len(items))
	for _, p := range items {
		if p.PaymentRequestID == paymentRequestID {
			matched = append(matched, p)
		}
	}
	sortPaymentsNewestFirst(matched)
	return matched, nil
}

// SavePayment upserts by payment ID or transaction ID, so webhook retries
// for the same transaction update rather than duplicate.
func (s *FileStore) SavePayment(_ context.Context, p *model.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := readAll[*model.Payment](s, paymentsFile)
	if err != nil {
		return err
	}

	replaced := false
	for i, existing := range items {
		if existing.ID == p.ID || existing.TransactionID == p.TransactionID {
			items[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		if p.PaidAt.IsZero() {
			p.PaidAt = time.Now().UTC()
		}
		items = append(items, p)
	}

	return writeAll(s, paymentsFile, items)
}

func sortPaymentsNewestFirst(items []*model.Payment) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].PaidAt.After(items[j].PaidAt)
	})
}
