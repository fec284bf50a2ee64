package app

import (
	"path/filepath"
	"strings"

	"mediasort/internal/domain"
)

// Aggregate folds an execution plan into run statistics. It is a pure
// single pass over the plan; the same plan always yields the same
// numbers, whether or not it was executed.
func Aggregate(tree *domain.DeviceDateTree, plan domain.ExecutionPlan, scan *ScanResult, timings domain.Timings) domain.Statistics {
	stats := domain.Statistics{
		TotalFiles: tree.TotalFiles,
		TotalSize:  tree.TotalSize,
		Timings:    timings,
	}
	if scan != nil {
		stats.UnreadableDirs = len(scan.UnreadableDirs)
		stats.IgnoredDirs = scan.IgnoredDirs
	}

	dateDirs := make(map[string]struct{})
	deviceDirs := make(map[string]struct{})

	for _, entry := range plan {
		switch entry.Op {
		case domain.OpCopy:
			stats.Copied++
			stats.PlannedBytes += entry.File.Size
		case domain.OpMove:
			stats.Moved++
			stats.PlannedBytes += entry.File.Size
		case domain.OpSkipExists:
			stats.SkipExists++
		case domain.OpSkipDuplicate:
			stats.SkipDup++
		case domain.OpSkipUnsupported:
			stats.SkipUnknown++
		}
		countKind(&stats, entry)

		if entry.Op == domain.OpSkipUnsupported {
			continue
		}
		if entry.TargetDir == "" {
			continue
		}
		segments := strings.Split(filepath.ToSlash(entry.TargetDir), "/")
		switch {
		case entry.Depth >= 2:
			dateDirs[segments[0]] = struct{}{}
			deviceDirs[entry.TargetDir] = struct{}{}
		case isOneOffsEntry(tree, entry):
			stats.OneOffsUse++
		default:
			dateDirs[segments[0]] = struct{}{}
		}
	}

	stats.DateDirs = len(dateDirs)
	stats.DeviceDirs = len(deviceDirs)
	return stats
}

// isOneOffsEntry reports whether the entry targets the one-offs bucket
// rather than a date folder. Date folders always carry the date key as
// their first segment, and the bucket name is validated at config load to
// never look like one.
func isOneOffsEntry(tree *domain.DeviceDateTree, entry domain.PlanEntry) bool {
	_, isDate := tree.Groups[entry.TargetDir]
	return !isDate
}

func countKind(stats *domain.Statistics, entry domain.PlanEntry) {
	moved := entry.Op == domain.OpMove
	copied := entry.Op == domain.OpCopy
	switch entry.File.Kind {
	case domain.KindImage:
		switch {
		case moved:
			stats.ImagesMoved++
		case copied:
			stats.ImagesCopied++
		default:
			stats.ImagesSkipped++
		}
	case domain.KindVideo:
		switch {
		case moved:
			stats.VideosMoved++
		case copied:
			stats.VideosCopied++
		default:
			stats.VideosSkipped++
		}
	case domain.KindAudio:
		switch {
		case moved:
			stats.AudiosMoved++
		case copied:
			stats.AudiosCopied++
		default:
			stats.AudiosSkipped++
		}
	}
}
