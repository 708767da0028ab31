// Package store is the key-value persistence port of the catalog with its
// memory, file, Redis and SQLite backends.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/samber/mo"
)

// Store persists opaque values by key.
type Store interface {
	// Get returns None when the key is absent.
	Get(ctx context.Context, key string) (mo.Option[[]byte], error)
	Set(ctx context.Context, key string, value []byte) error
	// Remove succeeds when the key is absent.
	Remove(ctx context.Context, key string) error
	Close() error
}

const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Backends lists the accepted store.backend values.
func Backends() []string {
	return []string{BackendFile, BackendMemory, BackendRedis, BackendSQLite}
}

// Config selects and configures a backend.
type Config struct {
	Backend    string
	Dir        string
	RedisAddr  string
	RedisDB    int
	SQLitePath string
}

// Open returns the configured backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendMemory:
		return NewMemory(), nil
	case BackendFile, "":
		return NewFile(cfg.Dir), nil
	case BackendRedis:
		return NewRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
	case BackendSQLite:
		return NewSQLite(ctx, cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// Memory keeps values for the lifetime of the process.
type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemory returns an empty in-process store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) (mo.Option[[]byte], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return mo.None[[]byte](), nil
	}
	return mo.Some(append([]byte(nil), v...)), nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *Memory) Close() error { return nil }
