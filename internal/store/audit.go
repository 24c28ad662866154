package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/wallet-console-service/internal/model"
)

const (
	auditFileName   = "audit.log"
	auditMaxAge     = 30 * 24 * time.Hour
	auditDateLayout = "2006-01-02"
)

// AuditLog appends audit events as JSON lines to data/audit.log, rotating
// the file daily and deleting rotated logs older than 30 days.
type AuditLog struct {
	dir string
	mu  sync.Mutex
}

func NewAuditLog(dir string) (*AuditLog, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	a := &AuditLog{dir: dir}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cleanupLocked(time.Now())
	return a, nil
}

// Append writes one event. The caller is expected to treat failures as
// non-fatal; audit logging must never break request handling.
func (a *AuditLog) Append(event model.AuditEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	if err := a.rotateLocked(time.Now()); err != nil {
		return err
	}

	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(a.dir, auditFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

// rotateLocked moves audit.log aside when its last write happened on an
// earlier day than now.
func (a *AuditLog) rotateLocked(now time.Time) error {
	path := filepath.Join(a.dir, auditFileName)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat audit log: %w", err)
	}

	modDay := info.ModTime().UTC().Format(auditDateLayout)
	today := now.UTC().Format(auditDateLayout)
	if modDay == today {
		return nil
	}

	rotated := filepath.Join(a.dir, "audit-"+modDay+".log")
	if err := os.Rename(path, rotated); err != nil {
		return fmt.Errorf("rotate audit log: %w", err)
	}

	a.cleanupLocked(now)
	return nil
}

func (a *AuditLog) cleanupLocked(now time.Time) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		return
	}

	cutoff := now.Add(-auditMaxAge)
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, "audit-") || !strings.HasSuffix(name, ".log") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			os.Remove(filepath.Join(a.dir, name))
		}
	}
}
