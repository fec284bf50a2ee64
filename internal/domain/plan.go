package domain

import (
	"time"
	"unicode/utf8"
)

type Operation int

const (
	OpCopy Operation = iota
	OpMove
	OpSkipExists
	OpSkipDuplicate
	OpSkipUnsupported
)

func (o Operation) String() string {
	switch o {
	case OpCopy:
		return "copy"
	case OpMove:
		return "move"
	case OpSkipExists:
		return "skip (exists)"
	case OpSkipDuplicate:
		return "skip (duplicate)"
	default:
		return "skip (unsupported)"
	}
}

// IsSkip reports whether the entry performs no filesystem write.
func (o Operation) IsSkip() bool {
	return o != OpCopy && o != OpMove
}

// PlanEntry is one row of the execution plan: a source file, its resolved
// target directory relative to the target root, the operation and the
// reason tag shown in the preview.
type PlanEntry struct {
	File SupportedFile
	// TargetDir is empty for unsupported files, which have no placement.
	TargetDir string
	// Depth of the entry below the target root: 1 for date-only or
	// one-offs placement, 2 for date/device placement.
	Depth  int
	Op     Operation
	Reason string
}

// IndentRunes is the rune width of one preview indentation level.
const IndentRunes = 5

// DisplayWidth is the rune width of the entry's rendered target cell:
// one indentation level per directory depth plus the file name.
func (e PlanEntry) DisplayWidth() int {
	return e.Depth*IndentRunes + utf8.RuneCountInString(e.File.Name)
}

// ExecutionPlan is the ordered sequence of planned operations.
type ExecutionPlan []PlanEntry

// MaxDisplayWidth is the widest target cell in the plan. Unsupported
// entries render outside the tree and are not measured.
func (p ExecutionPlan) MaxDisplayWidth() int {
	widest := 0
	for _, e := range p {
		if e.Op == OpSkipUnsupported {
			continue
		}
		if w := e.DisplayWidth(); w > widest {
			widest = w
		}
	}
	return widest
}

// Timings holds the opaque phase durations recorded by the caller around
// each phase boundary.
type Timings struct {
	Scan     time.Duration
	Classify time.Duration
	Resolve  time.Duration
	Execute  time.Duration
	Total    time.Duration
}

// Statistics is the aggregate snapshot computed from a finalized plan.
type Statistics struct {
	TotalFiles int
	TotalSize  int64

	// Counts per operation kind.
	Copied      int
	Moved       int
	SkipExists  int
	SkipDup     int
	SkipUnknown int

	// Per media kind, for the moved|copied|skipped table.
	ImagesMoved, ImagesCopied, ImagesSkipped int
	VideosMoved, VideosCopied, VideosSkipped int
	AudiosMoved, AudiosCopied, AudiosSkipped int

	// Folder decisions.
	DateDirs   int
	DeviceDirs int
	OneOffsUse int

	// Bytes for files actually planned to copy or move.
	PlannedBytes int64

	// Failures observed during scanning.
	UnreadableDirs int
	// Subdirectories skipped because recursion was off.
	IgnoredDirs int

	Timings Timings
}

// PlanEntries is the sum of per-operation counts; it must equal the number
// of plan entries the statistics were folded from.
func (s Statistics) PlanEntries() int {
	return s.Copied + s.Moved + s.SkipExists + s.SkipDup + s.SkipUnknown
}
