package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"mediasort/internal/domain"
	"mediasort/internal/logging"
)

// Scanner walks the source roots concurrently and classifies every regular
// file it finds. Each directory is an independent unit of work; discovered
// subdirectories are fed back as new units so depth never blocks breadth.
// At most Workers units execute at a time.
type Scanner struct {
	FS      FileSystem
	Meta    MetadataReader
	Workers int
	// Recursive controls whether subdirectories are scheduled or counted
	// as ignored.
	Recursive bool
	Options   ClassifyOptions
	Logger    zerolog.Logger
}

// ScanResult is the merged output of all scan units. Files stay grouped by
// their originating source root so the preview can render one source tree
// at a time; ordering within a group is whatever the workers produced.
type ScanResult struct {
	Batches          map[string][]domain.SupportedFile
	UnreadableDirs   []string
	IgnoredDirs      int
	NonCustomDevices map[string]struct{}
	Warnings         []string
}

// Files flattens all batches into a single slice.
func (r *ScanResult) Files() []domain.SupportedFile {
	var files []domain.SupportedFile
	for _, batch := range r.Batches {
		files = append(files, batch...)
	}
	return files
}

// dirBatch is the owned result of one directory unit. Workers never share
// mutable state; batches are merged after the join barrier.
type dirBatch struct {
	root       string
	dir        string
	err        error
	files      []domain.SupportedFile
	ignored    int
	nonCustoms []string
	warnings   []string
}

// Scan enumerates all roots and returns the complete classified result.
// Unreadable directories are recorded and skipped; per-file failures
// degrade the file. Scan itself fails only on missing collaborators.
func (s *Scanner) Scan(ctx context.Context, roots []string) (*ScanResult, error) {
	if s.FS == nil || s.Meta == nil {
		return nil, errors.New("scanner requires FS and Meta")
	}
	workers := s.Workers
	if workers < 1 {
		workers = 1
	}

	stop := logging.Measure(s.Logger, "scanning sources")
	defer stop()

	sem := make(chan struct{}, workers)
	results := make(chan dirBatch)
	var wg sync.WaitGroup

	for _, root := range roots {
		wg.Add(1)
		go s.scanDir(ctx, root, root, sem, &wg, results)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	res := &ScanResult{
		Batches:          make(map[string][]domain.SupportedFile),
		NonCustomDevices: make(map[string]struct{}),
	}
	for batch := range results {
		if batch.err != nil {
			s.Logger.Warn().Str("dir", batch.dir).Err(batch.err).Msg("source directory unreadable")
			res.UnreadableDirs = append(res.UnreadableDirs, batch.dir)
			continue
		}
		res.Batches[batch.root] = append(res.Batches[batch.root], batch.files...)
		res.IgnoredDirs += batch.ignored
		res.Warnings = append(res.Warnings, batch.warnings...)
		for _, d := range batch.nonCustoms {
			res.NonCustomDevices[d] = struct{}{}
		}
	}
	return res, nil
}

// scanDir processes one directory's direct children. It holds a worker
// slot only while listing and classifying; subdirectories are handed off
// as new units before this one finishes.
func (s *Scanner) scanDir(ctx context.Context, root, dir string, sem chan struct{}, wg *sync.WaitGroup, results chan<- dirBatch) {
	defer wg.Done()

	select {
	case sem <- struct{}{}:
	case <-ctx.Done():
		return
	}

	entries, err := s.FS.ReadDir(dir)
	if err != nil {
		<-sem
		results <- dirBatch{root: root, dir: dir, err: err}
		return
	}

	batch := dirBatch{root: root, dir: dir}
	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		if entry.IsDir() {
			if s.Recursive {
				wg.Add(1)
				go s.scanDir(ctx, root, filepath.Join(dir, entry.Name()), sem, wg, results)
			} else {
				s.Logger.Debug().Str("dir", entry.Name()).Msg("recursive option is off, skipping subfolder")
				batch.ignored++
			}
			continue
		}
		if !entry.Mode().IsRegular() {
			continue
		}

		raw := RawFile{
			Path:      filepath.Join(dir, entry.Name()),
			SourceDir: root,
			Name:      entry.Name(),
			Size:      entry.Size(),
			ModTime:   entry.ModTime(),
		}
		file, nonCustom := s.classifyEntry(ctx, raw, &batch)
		batch.files = append(batch.files, file)
		if nonCustom != "" {
			batch.nonCustoms = append(batch.nonCustoms, nonCustom)
		}
	}

	<-sem
	results <- batch
}

// classifyEntry reads embedded metadata where the extension promises any,
// then defers to the pure classifier. Metadata failures degrade the file;
// a permission failure marks it unsupported with a recorded reason.
func (s *Scanner) classifyEntry(ctx context.Context, raw RawFile, batch *dirBatch) (domain.SupportedFile, string) {
	var meta *Metadata
	if _, support := s.Options.Extensions.Lookup(raw.Name); support == domain.SupportFull {
		m, err := s.Meta.ReadMetadata(ctx, raw.Path)
		switch {
		case err == nil:
			meta = &m
		case os.IsPermission(err):
			file, _ := Classify(raw, nil, s.Options)
			file.Support = domain.SupportUnsupported
			file.Kind = domain.KindUnknown
			file.Unreadable = true
			batch.warnings = append(batch.warnings, fmt.Sprintf("permission denied reading %s", raw.Path))
			return file, ""
		default:
			batch.warnings = append(batch.warnings, fmt.Sprintf("no embedded metadata for %s, using filesystem time", raw.Name))
		}
	}
	return Classify(raw, meta, s.Options)
}
