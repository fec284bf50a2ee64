package app

import (
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"mediasort/internal/domain"
	"mediasort/internal/logging"
)

// Policy is the resolved grouping configuration the resolver consumes.
type Policy struct {
	// MinFilesPerDir: a date gets a dedicated folder only when its file
	// count is strictly greater than this; smaller groups collapse, as a
	// whole, into the one-offs bucket.
	MinFilesPerDir int
	// AlwaysDeviceDirs forces a device segment even for a single or
	// missing device (missing devices go under the Unknown segment).
	AlwaysDeviceDirs bool
	OneOffsDirName   string
	// Move selects the operation label for planned writes; it never
	// affects grouping.
	Move bool
}

// Resolver turns the flat scan result into a DeviceDateTree and an ordered
// execution plan. It is single-threaded and side-effect free: the only
// external input is the destination-existence probe.
type Resolver struct {
	Policy Policy
	Probe  ExistsProbe
	Logger zerolog.Logger
}

// duplicateIndex tracks which (file name, resolved target directory)
// pairs have been claimed. First-seen wins; it is discarded after
// planning.
type duplicateIndex map[[2]string]struct{}

func (d duplicateIndex) claim(name, targetDir string) bool {
	key := [2]string{name, targetDir}
	if _, ok := d[key]; ok {
		return false
	}
	d[key] = struct{}{}
	return true
}

// Resolve builds the finalized tree and plan. It never fails: an empty
// scan yields an empty plan, which the caller reports as informational.
func (r *Resolver) Resolve(scan *ScanResult) (*domain.DeviceDateTree, domain.ExecutionPlan) {
	stop := logging.Measure(r.Logger, "resolving target layout")
	defer stop()

	tree := domain.NewDeviceDateTree()

	// Deterministic merge: sort by (source directory, file name) so that
	// duplicate arbitration is reproducible across runs and thread counts.
	files := scan.Files()
	sort.Slice(files, func(i, j int) bool {
		di, dj := filepath.Dir(files[i].SourcePath), filepath.Dir(files[j].SourcePath)
		if di != dj {
			return di < dj
		}
		return files[i].Name < files[j].Name
	})

	for _, f := range files {
		tree.TotalFiles++
		if f.Support == domain.SupportUnsupported {
			tree.Unsupported = append(tree.Unsupported, f)
			if !f.Unreadable {
				tree.UnknownExtensions[f.Ext]++
			}
			continue
		}
		tree.TotalSize += f.Size
		date := f.DateKey()
		group, ok := tree.Groups[date]
		if !ok {
			group = domain.NewDateGroup(date)
			tree.Groups[date] = group
		}
		group.Add(f)
	}

	r.isolateOneOffs(tree)

	plan := r.buildPlan(tree)
	tree.MaxPathLen = plan.MaxDisplayWidth()

	return tree, plan
}

// isolateOneOffs redirects every date group with at most one identified
// device and no more files than the threshold into the shared one-offs
// bucket. Redirection is all-or-nothing per group; the multi-device
// override keeps any group with two or more devices intact regardless of
// size.
func (r *Resolver) isolateOneOffs(tree *domain.DeviceDateTree) {
	for _, date := range tree.SortedDates() {
		group := tree.Groups[date]
		if group.DeviceCount() >= 2 {
			continue
		}
		if group.FileCount() > r.Policy.MinFilesPerDir {
			continue
		}
		for _, device := range group.SortedDevices() {
			tree.OneOffs = append(tree.OneOffs, group.Devices[device]...)
		}
		delete(tree.Groups, date)
	}
}

// targetDirFor decides the directory for one device bucket of a group.
// Identified devices always get a device segment; unknown-device files
// stay at the date root unless device subdirs are forced. The decision is
// a pure function of the group and the policy, so every file of the same
// date/device lands at the same depth.
func (r *Resolver) targetDirFor(group *domain.DateGroup, device string) (string, int) {
	if device != "" {
		return filepath.Join(group.Date, device), 2
	}
	if r.Policy.AlwaysDeviceDirs {
		return filepath.Join(group.Date, domain.UnknownDeviceDirName), 2
	}
	return group.Date, 1
}

func (r *Resolver) buildPlan(tree *domain.DeviceDateTree) domain.ExecutionPlan {
	var plan domain.ExecutionPlan
	dups := make(duplicateIndex)

	for _, date := range tree.SortedDates() {
		group := tree.Groups[date]
		for _, device := range group.SortedDevices() {
			dir, depth := r.targetDirFor(group, device)
			files := sortBucket(group.Devices[device])
			for _, f := range files {
				plan = append(plan, r.planEntry(f, dir, depth, dups))
			}
		}
	}

	for _, f := range sortBucket(tree.OneOffs) {
		plan = append(plan, r.planEntry(f, r.Policy.OneOffsDirName, 1, dups))
	}

	unsupported := append([]domain.SupportedFile(nil), tree.Unsupported...)
	sort.Slice(unsupported, func(i, j int) bool {
		return unsupported[i].SourcePath < unsupported[j].SourcePath
	})
	for _, f := range unsupported {
		reason := "unknown file type, will be skipped"
		if f.Unreadable {
			reason = "file could not be read, will be skipped"
		}
		plan = append(plan, domain.PlanEntry{
			File:   f,
			Op:     domain.OpSkipUnsupported,
			Reason: reason,
		})
	}

	return plan
}

// planEntry finalizes one file's operation. An existing destination beats
// both write operations and duplicate status; duplicates are decided
// first-seen-wins on the (file name, target directory) pair.
func (r *Resolver) planEntry(f domain.SupportedFile, dir string, depth int, dups duplicateIndex) domain.PlanEntry {
	entry := domain.PlanEntry{File: f, TargetDir: dir, Depth: depth}

	first := dups.claim(f.Name, dir)
	switch {
	case r.Probe != nil && r.Probe(filepath.Join(dir, f.Name)):
		entry.Op = domain.OpSkipExists
		entry.Reason = "target file exists, will be skipped"
	case !first:
		entry.Op = domain.OpSkipDuplicate
		entry.Reason = "duplicate source file, will be skipped"
	case r.Policy.Move:
		entry.Op = domain.OpMove
		entry.Reason = "file will be moved"
	default:
		entry.Op = domain.OpCopy
		entry.Reason = "file will be copied"
	}
	return entry
}

// sortBucket orders one device bucket by file name, breaking ties by
// source path so duplicate arbitration follows the merged sort order.
func sortBucket(files []domain.SupportedFile) []domain.SupportedFile {
	sorted := append([]domain.SupportedFile(nil), files...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].SourcePath < sorted[j].SourcePath
	})
	return sorted
}
