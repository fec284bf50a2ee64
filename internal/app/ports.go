package app

import (
	"context"
	"io/fs"
	"time"
)

// FileSystem is the directory-listing and mutation capability the engine
// consumes. The scanner only lists and stats; the executor mutates.
type FileSystem interface {
	ReadDir(path string) ([]fs.FileInfo, error)
	Stat(path string) (fs.FileInfo, error)
	Exists(path string) (bool, error)
	MkdirAll(path string, perm fs.FileMode) error
	CopyFile(src, dst string) error
	Remove(path string) error
}

// Metadata is the embedded capture metadata of a media file. Any field may
// be absent.
type Metadata struct {
	// TakenAt is the embedded original date, or the embedded modified date
	// when the original is missing; nil if neither is present.
	TakenAt *time.Time
	Make    string
	Model   string
}

// MetadataReader extracts embedded metadata from a media file.
type MetadataReader interface {
	ReadMetadata(ctx context.Context, path string) (Metadata, error)
}

// ExistsProbe reports whether a destination path already exists. It is
// consulted once per planned entry; the resolver never re-scans.
type ExistsProbe func(path string) bool
