package app

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/rs/zerolog"

	"mediasort/internal/domain"
	apperrors "mediasort/internal/errors"
	"mediasort/internal/logging"
)

// Executor applies a finalized execution plan under the target root.
// Skip entries are never touched; a move is a copy followed by removing
// the source. The first copy failure aborts the run, already written
// files stay in place; a failed source removal degrades the move to a
// copy and the run continues.
type Executor struct {
	FS         FileSystem
	TargetRoot string
	Logger     zerolog.Logger
}

// Result reports what one Execute call actually did.
type Result struct {
	Applied     int
	DirsCreated int
	// RemoveFailures counts moves degraded to copies because the source
	// could not be removed.
	RemoveFailures int
}

func (e *Executor) Execute(ctx context.Context, plan domain.ExecutionPlan) (Result, error) {
	var res Result
	if e.FS == nil {
		return res, errors.New("executor requires FS")
	}

	stop := logging.Measure(e.Logger, "executing plan")
	defer stop()

	made := map[string]struct{}{}
	for _, entry := range plan {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}
		if entry.Op.IsSkip() {
			continue
		}

		dir := filepath.Join(e.TargetRoot, entry.TargetDir)
		if _, ok := made[dir]; !ok {
			existed, _ := e.FS.Exists(dir)
			if err := e.FS.MkdirAll(dir, 0o755); err != nil {
				return res, apperrors.Wrap(apperrors.IOFailure, "create target dir", dir, err)
			}
			made[dir] = struct{}{}
			if !existed {
				res.DirsCreated++
			}
		}

		dst := filepath.Join(dir, entry.File.Name)
		if err := e.FS.CopyFile(entry.File.SourcePath, dst); err != nil {
			return res, apperrors.Wrap(apperrors.IOFailure, "copy file", entry.File.SourcePath, err)
		}
		if entry.Op == domain.OpMove {
			if err := e.FS.Remove(entry.File.SourcePath); err != nil {
				e.Logger.Warn().Str("src", entry.File.SourcePath).Err(err).
					Msg("source could not be removed, moved as copy")
				res.RemoveFailures++
			}
		}
		res.Applied++
		e.Logger.Debug().Str("src", entry.File.SourcePath).Str("dst", dst).Msg(entry.Op.String())
	}
	return res, nil
}
