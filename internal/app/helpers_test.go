package app

import (
	"context"
	"errors"
	iofs "io/fs"
	"time"

	"github.com/rs/zerolog"

	"mediasort/internal/domain"
)

// stubMeta serves canned metadata per path.
type stubMeta struct {
	metas map[string]Metadata
	errs  map[string]error
}

func (s stubMeta) ReadMetadata(_ context.Context, path string) (Metadata, error) {
	if err, ok := s.errs[path]; ok {
		return Metadata{}, err
	}
	if m, ok := s.metas[path]; ok {
		return m, nil
	}
	return Metadata{}, errors.New("missing exif")
}

// flakyFS fails ReadDir for selected paths and delegates the rest.
type flakyFS struct {
	FileSystem
	failDirs map[string]bool
}

func (f flakyFS) ReadDir(path string) ([]iofs.FileInfo, error) {
	if f.failDirs[path] {
		return nil, errors.New("permission denied")
	}
	return f.FileSystem.ReadDir(path)
}

func nopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func taken(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

// mediaFile builds a classified file for resolver and aggregator tests.
func mediaFile(dir, name, device string, takenAt time.Time, size int64) domain.SupportedFile {
	return domain.SupportedFile{
		SourcePath: dir + "/" + name,
		SourceDir:  dir,
		Name:       name,
		Ext:        "jpg",
		Kind:       domain.KindImage,
		Support:    domain.SupportFull,
		TakenAt:    takenAt,
		Device:     device,
		Size:       size,
	}
}

func scanOf(files ...domain.SupportedFile) *ScanResult {
	return &ScanResult{
		Batches:          map[string][]domain.SupportedFile{"/in": files},
		NonCustomDevices: map[string]struct{}{},
	}
}
