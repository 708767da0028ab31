package cache

import (
	"encoding/json"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/samber/mo"
	"github.com/spf13/afero"
	"github.com/streamdex/streamdex/filesystem"
)

// Disk stores one JSON entry per key under a directory of the virtual filesystem.
type Disk[T any] struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// NewDisk returns a disk cache rooted at dir. A nil clock defaults to time.Now.
func NewDisk[T any](dir string, ttl time.Duration, now func() time.Time) *Disk[T] {
	if now == nil {
		now = time.Now
	}
	return &Disk[T]{dir: dir, ttl: ttl, now: now}
}

func (d *Disk[T]) path(key string) string {
	return filepath.Join(d.dir, Key(key)+".json")
}

// Get reads the entry for key; expired or unreadable entries are misses.
func (d *Disk[T]) Get(key string) mo.Option[Entry[T]] {
	data, err := afero.ReadFile(filesystem.API(), d.path(key))
	if err != nil {
		return mo.None[Entry[T]]()
	}

	var entry Entry[T]
	if err := json.Unmarshal(data, &entry); err != nil || entry.Key != key {
		return mo.None[Entry[T]]()
	}
	if !entry.Fresh(d.now()) {
		return mo.None[Entry[T]]()
	}
	return mo.Some(entry)
}

// Set writes value under key, swapping a temporary file into place.
func (d *Disk[T]) Set(key string, value T) error {
	entry := Entry[T]{Key: key, Value: value, WrittenAt: d.now(), TTL: d.ttl}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	fsys := filesystem.API()
	if err := fsys.MkdirAll(d.dir, 0o755); err != nil {
		return err
	}

	path := d.path(key)
	tmp := path + ".tmp"
	if err := afero.WriteFile(fsys, tmp, data, 0o644); err != nil {
		return err
	}
	return fsys.Rename(tmp, path)
}

// Clear removes every cached file.
func (d *Disk[T]) Clear() error {
	return filesystem.API().RemoveAll(d.dir)
}

// CollectGarbage removes files under dir last modified more than maxAge ago.
func CollectGarbage(dir string, maxAge time.Duration) (removed int) {
	fsys := filesystem.API()
	cutoff := time.Now().Add(-maxAge)
	_ = afero.Walk(fsys, dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if info.ModTime().Before(cutoff) && fsys.Remove(path) == nil {
			removed++
		}
		return nil
	})
	return removed
}
