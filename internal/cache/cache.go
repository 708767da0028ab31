// Package cache keeps TTL-bounded entries in memory and on disk.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/samber/mo"
)

// Entry is a cached value with its write time and lifetime.
type Entry[T any] struct {
	Key       string        `json:"key"`
	Value     T             `json:"value"`
	WrittenAt time.Time     `json:"writtenAt"`
	TTL       time.Duration `json:"ttl"`
}

// Fresh reports whether the entry may still be served at now.
// An entry aged exactly TTL is already expired.
func (e Entry[T]) Fresh(now time.Time) bool {
	return now.Sub(e.WrittenAt) < e.TTL
}

// Key hashes the parts into a file-safe identifier.
func Key(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(hash[:])
}

// Memory is a concurrency-safe TTL map. Writes to one key are last-writer-wins.
type Memory[T any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]Entry[T]
}

// NewMemory returns an empty cache. A nil clock defaults to time.Now.
func NewMemory[T any](ttl time.Duration, now func() time.Time) *Memory[T] {
	if now == nil {
		now = time.Now
	}
	return &Memory[T]{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]Entry[T]),
	}
}

// Get returns the value stored under key when it is still fresh.
func (m *Memory[T]) Get(key string) mo.Option[T] {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok || !entry.Fresh(m.now()) {
		return mo.None[T]()
	}
	return mo.Some(entry.Value)
}

// Set stores value under key with the cache TTL.
func (m *Memory[T]) Set(key string, value T) Entry[T] {
	entry := Entry[T]{Key: key, Value: value, WrittenAt: m.now(), TTL: m.ttl}

	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()

	return entry
}

// Put stores a prepared entry, keeping its original write time.
func (m *Memory[T]) Put(entry Entry[T]) {
	m.mu.Lock()
	m.entries[entry.Key] = entry
	m.mu.Unlock()
}

// Prune drops expired entries and returns how many were removed.
func (m *Memory[T]) Prune() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	var removed int
	for k, e := range m.entries {
		if !e.Fresh(now) {
			delete(m.entries, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired ones included.
func (m *Memory[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Clear drops every entry.
func (m *Memory[T]) Clear() {
	m.mu.Lock()
	m.entries = make(map[string]Entry[T])
	m.mu.Unlock()
}
