// Package localstore keeps all records in a single JSON document on local disk.
// It is the offline fallback used when no Postgres database is configured.
package localstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"Gin_postgres_redis_asset_lending/ledger"
	"Gin_postgres_redis_asset_lending/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// storedUser keeps the password hash, which models.User never serializes.
type storedUser struct {
	models.User
	PasswordHash string `json:"passwordHash"`
}

// dataset 对应原来 localStorage 里的各个 key
type dataset struct {
	Assets      []models.Asset       `json:"dkv_assets"`
	Borrowers   []models.Borrower    `json:"dkv_borrowers"`
	Loans       []models.Loan        `json:"dkv_loans"`
	Maintenance []models.Maintenance `json:"dkv_maintenance"`
	Users       []storedUser         `json:"dkv_users"`
}

func (d *dataset) clone() *dataset {
	return &dataset{
		Assets:      append([]models.Asset(nil), d.Assets...),
		Borrowers:   append([]models.Borrower(nil), d.Borrowers...),
		Loans:       append([]models.Loan(nil), d.Loans...),
		Maintenance: append([]models.Maintenance(nil), d.Maintenance...),
		Users:       append([]storedUser(nil), d.Users...),
	}
}

// Store is safe for concurrent use. Every write is applied to a copy of the
// dataset, flushed to disk, and only then made visible.
type Store struct {
	mu     sync.RWMutex
	path   string
	data   *dataset
	now    func() time.Time
	logger *zap.Logger
}

// Open loads the document at path, starting empty when the file does not exist.
// An empty path keeps everything in memory.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{path: path, data: &dataset{}, now: time.Now, logger: logger}
	if path == "" {
		return s, nil
	}

	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Info("local data file not found, starting empty", zap.String("path", path))
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read local data: %w", err)
	}
	if len(b) > 0 {
		if err := json.Unmarshal(b, s.data); err != nil {
			return nil, fmt.Errorf("decode local data %s: %w", path, err)
		}
	}
	for i := range s.data.Users {
		s.data.Users[i].User.PasswordHash = s.data.Users[i].PasswordHash
	}
	logger.Info("local data loaded",
		zap.String("path", path),
		zap.Int("assets", len(s.data.Assets)),
		zap.Int("loans", len(s.data.Loans)))
	return s, nil
}

// New returns an in-memory store.
func New() *Store {
	s, _ := Open("", nil)
	return s
}

func (s *Store) Close() error { return nil }

func (s *Store) persist(d *dataset) error {
	if s.path == "" {
		return nil
	}
	for i := range d.Users {
		d.Users[i].PasswordHash = d.Users[i].User.PasswordHash
	}
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encode local data: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}
	// 先写临时文件再 rename，避免写一半
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("write local data: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace local data: %w", err)
	}
	return nil
}

func (s *Store) read(fn func(tx *txStore) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&txStore{d: s.data, now: s.now})
}

func (s *Store) write(fn func(tx *txStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.data.clone()
	if err := fn(&txStore{d: next, now: s.now}); err != nil {
		return err
	}
	if err := s.persist(next); err != nil {
		return err
	}
	s.data = next
	return nil
}

// Atomically runs fn while holding the write lock; nothing fn writes is kept
// unless it returns nil.
func (s *Store) Atomically(ctx context.Context, fn func(tx ledger.Store) error) error {
	return s.write(func(tx *txStore) error { return fn(tx) })
}

func newestFirst[T any](items []T, createdAt func(T) time.Time) []T {
	out := make([]T, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		out = append(out, items[i])
	}
	sort.SliceStable(out, func(i, j int) bool { return createdAt(out[i]).After(createdAt(out[j])) })
	return out
}

var _ ledger.Store = (*Store)(nil)
var _ ledger.Store = (*txStore)(nil)
