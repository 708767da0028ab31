package store

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/samber/mo"
	"github.com/spf13/afero"
	"github.com/streamdex/streamdex/filesystem"
	"github.com/streamdex/streamdex/util"
)

// File stores each key as a file under a directory.
type File struct {
	mu  sync.Mutex
	dir string
}

// NewFile returns a store keeping one file per key in dir.
func NewFile(dir string) *File {
	return &File{dir: dir}
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, util.SanitizeFilename(key))
}

func (f *File) Get(_ context.Context, key string) (mo.Option[[]byte], error) {
	data, err := afero.ReadFile(filesystem.API(), f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return mo.None[[]byte](), nil
	}
	if err != nil {
		return mo.None[[]byte](), err
	}
	return mo.Some(data), nil
}

// Set replaces the value atomically through a temporary file.
func (f *File) Set(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	fsys := filesystem.API()
	if err := fsys.MkdirAll(f.dir, 0o755); err != nil {
		return err
	}

	path := f.path(key)
	tmp := path + ".tmp"
	if err := afero.WriteFile(fsys, tmp, value, 0o644); err != nil {
		return err
	}
	return fsys.Rename(tmp, path)
}

func (f *File) Remove(_ context.Context, key string) error {
	err := filesystem.API().Remove(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (f *File) Close() error { return nil }
