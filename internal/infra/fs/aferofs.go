package fs

import (
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// FS adapts an afero filesystem to the engine's FileSystem port. The zero
// value is not usable; construct with New or NewMem.
type FS struct {
	backend afero.Fs
}

// New returns an FS backed by the host operating system.
func New() *FS {
	return &FS{backend: afero.NewOsFs()}
}

// NewMem returns an in-memory FS, used by tests.
func NewMem() *FS {
	return &FS{backend: afero.NewMemMapFs()}
}

// NewWith wraps an arbitrary afero filesystem.
func NewWith(backend afero.Fs) *FS {
	return &FS{backend: backend}
}

// Backend exposes the underlying afero filesystem for helpers such as
// test fixtures.
func (f *FS) Backend() afero.Fs {
	return f.backend
}

func (f *FS) ReadDir(path string) ([]iofs.FileInfo, error) {
	return afero.ReadDir(f.backend, path)
}

func (f *FS) Stat(path string) (iofs.FileInfo, error) {
	return f.backend.Stat(path)
}

func (f *FS) Exists(path string) (bool, error) {
	return afero.Exists(f.backend, path)
}

func (f *FS) MkdirAll(path string, perm iofs.FileMode) error {
	return f.backend.MkdirAll(path, perm)
}

func (f *FS) Remove(path string) error {
	return f.backend.Remove(path)
}

func (f *FS) CopyFile(src, dst string) error {
	srcFile, err := f.backend.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	info, err := srcFile.Stat()
	if err != nil {
		return err
	}

	if err := f.backend.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	dstFile, err := f.backend.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return err
	}
	return dstFile.Sync()
}
