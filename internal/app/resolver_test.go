package app

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediasort/internal/domain"
)

func newResolver(policy Policy) *Resolver {
	return &Resolver{Policy: policy, Logger: nopLogger()}
}

func defaultPolicy() Policy {
	return Policy{MinFilesPerDir: 1, OneOffsDirName: "Miscellaneous"}
}

// sixFiles is the mixed scenario: one date with only unknown-device files
// and one date with two identified devices plus an unknown-device file.
func sixFiles() []domain.SupportedFile {
	d1 := taken(2014, 6, 20)
	d2 := taken(2017, 6, 22)
	return []domain.SupportedFile{
		mediaFile("/in", "a1.jpg", "", d1, 100),
		mediaFile("/in", "a2.jpg", "", d1, 100),
		mediaFile("/in", "c1.jpg", "Canon EOS 100D", d2, 200),
		mediaFile("/in", "c2.jpg", "Canon EOS 100D", d2, 200),
		mediaFile("/in", "h1.jpg", "Huawei CAN-L11", d2, 300),
		mediaFile("/in", "u1.jpg", "", d2, 100),
	}
}

func targetsByName(plan domain.ExecutionPlan) map[string]string {
	targets := make(map[string]string, len(plan))
	for _, e := range plan {
		targets[e.File.Name] = e.TargetDir
	}
	return targets
}

func opsByName(plan domain.ExecutionPlan) map[string]domain.Operation {
	ops := make(map[string]domain.Operation, len(plan))
	for _, e := range plan {
		ops[e.File.Name] = e.Op
	}
	return ops
}

func TestResolveMixedDevicesScenario(t *testing.T) {
	_, plan := newResolver(defaultPolicy()).Resolve(scanOf(sixFiles()...))

	targets := targetsByName(plan)
	assert.Equal(t, "2014.06.20", targets["a1.jpg"])
	assert.Equal(t, "2014.06.20", targets["a2.jpg"])
	assert.Equal(t, filepath.Join("2017.06.22", "Canon EOS 100D"), targets["c1.jpg"])
	assert.Equal(t, filepath.Join("2017.06.22", "Canon EOS 100D"), targets["c2.jpg"])
	assert.Equal(t, filepath.Join("2017.06.22", "Huawei CAN-L11"), targets["h1.jpg"])
	assert.Equal(t, "2017.06.22", targets["u1.jpg"], "unknown device stays at the date root")

	for _, e := range plan {
		assert.Equal(t, domain.OpCopy, e.Op)
	}
}

func TestResolveCollapsesSmallGroupsWholesale(t *testing.T) {
	policy := defaultPolicy()
	policy.MinFilesPerDir = 3

	tree, plan := newResolver(policy).Resolve(scanOf(sixFiles()...))

	targets := targetsByName(plan)
	assert.Equal(t, "Miscellaneous", targets["a1.jpg"])
	assert.Equal(t, "Miscellaneous", targets["a2.jpg"])

	// multi-device override keeps the 2017 group intact despite its
	// Huawei and unknown buckets being below the threshold
	assert.Equal(t, filepath.Join("2017.06.22", "Canon EOS 100D"), targets["c1.jpg"])
	assert.Equal(t, filepath.Join("2017.06.22", "Huawei CAN-L11"), targets["h1.jpg"])
	assert.Equal(t, "2017.06.22", targets["u1.jpg"])

	_, ok := tree.Groups["2014.06.20"]
	assert.False(t, ok, "collapsed groups leave the tree")
	assert.Len(t, tree.OneOffs, 2)
}

func TestResolveSingleDeviceGroupStillNests(t *testing.T) {
	d := taken(2016, 3, 5)
	files := []domain.SupportedFile{
		mediaFile("/in", "a.jpg", "Canon EOS 100D", d, 100),
		mediaFile("/in", "b.jpg", "Canon EOS 100D", d, 100),
	}

	_, plan := newResolver(defaultPolicy()).Resolve(scanOf(files...))

	for _, e := range plan {
		assert.Equal(t, filepath.Join("2016.03.05", "Canon EOS 100D"), e.TargetDir)
		assert.Equal(t, 2, e.Depth)
	}
}

func TestResolveSingleDeviceWithUnknownNests(t *testing.T) {
	d := taken(2016, 3, 5)
	files := []domain.SupportedFile{
		mediaFile("/in", "a.jpg", "Canon EOS 100D", d, 100),
		mediaFile("/in", "b.jpg", "", d, 100),
	}

	_, plan := newResolver(defaultPolicy()).Resolve(scanOf(files...))

	targets := targetsByName(plan)
	assert.Equal(t, filepath.Join("2016.03.05", "Canon EOS 100D"), targets["a.jpg"])
	assert.Equal(t, "2016.03.05", targets["b.jpg"])
}

func TestResolveAlwaysDeviceDirs(t *testing.T) {
	policy := defaultPolicy()
	policy.AlwaysDeviceDirs = true

	_, plan := newResolver(policy).Resolve(scanOf(sixFiles()...))

	targets := targetsByName(plan)
	assert.Equal(t, filepath.Join("2014.06.20", "Unknown"), targets["a1.jpg"])
	assert.Equal(t, filepath.Join("2017.06.22", "Unknown"), targets["u1.jpg"])
	assert.Equal(t, filepath.Join("2017.06.22", "Canon EOS 100D"), targets["c1.jpg"])
}

func TestResolveDuplicateLaw(t *testing.T) {
	d := taken(2016, 3, 5)
	files := []domain.SupportedFile{
		mediaFile("/in-b", "x.jpg", "", d, 100),
		mediaFile("/in-a", "x.jpg", "", d, 100),
	}

	_, plan := newResolver(defaultPolicy()).Resolve(scanOf(files...))

	require.Len(t, plan, 2)
	// first in (source directory, name)-sorted order wins
	assert.Equal(t, "/in-a/x.jpg", plan[0].File.SourcePath)
	assert.Equal(t, domain.OpCopy, plan[0].Op)
	assert.Equal(t, "/in-b/x.jpg", plan[1].File.SourcePath)
	assert.Equal(t, domain.OpSkipDuplicate, plan[1].Op)
}

func TestResolveSameNameDifferentTargetsNotDuplicates(t *testing.T) {
	files := []domain.SupportedFile{
		mediaFile("/in-a", "x.jpg", "", taken(2016, 3, 5), 100),
		mediaFile("/in-b", "x.jpg", "", taken(2016, 3, 6), 100),
	}
	// each date has a single file, keep them out of the one-offs bucket
	policy := defaultPolicy()
	policy.MinFilesPerDir = 0

	_, plan := newResolver(policy).Resolve(scanOf(files...))

	ops := make([]domain.Operation, 0, 2)
	for _, e := range plan {
		ops = append(ops, e.Op)
	}
	assert.Equal(t, []domain.Operation{domain.OpCopy, domain.OpCopy}, ops)
}

func TestResolveSkipExistsBeatsCopyAndDuplicate(t *testing.T) {
	d := taken(2016, 3, 5)
	files := []domain.SupportedFile{
		mediaFile("/in-a", "x.jpg", "", d, 100),
		mediaFile("/in-b", "x.jpg", "", d, 100),
	}

	resolver := newResolver(defaultPolicy())
	resolver.Probe = func(path string) bool {
		return path == filepath.Join("2016.03.05", "x.jpg")
	}

	_, plan := resolver.Resolve(scanOf(files...))

	require.Len(t, plan, 2)
	assert.Equal(t, domain.OpSkipExists, plan[0].Op)
	assert.Equal(t, domain.OpSkipExists, plan[1].Op)
}

func TestResolveMoveLabeling(t *testing.T) {
	policy := defaultPolicy()
	policy.Move = true

	_, plan := newResolver(policy).Resolve(scanOf(sixFiles()...))

	for _, e := range plan {
		assert.Equal(t, domain.OpMove, e.Op)
	}
}

func TestResolveUnsupportedFiles(t *testing.T) {
	unsupported := domain.SupportedFile{
		SourcePath: "/in/notes.txt",
		SourceDir:  "/in",
		Name:       "notes.txt",
		Ext:        "txt",
		Support:    domain.SupportUnsupported,
		TakenAt:    taken(2016, 3, 5),
		Size:       10,
	}
	files := append(sixFiles(), unsupported)

	tree, plan := newResolver(defaultPolicy()).Resolve(scanOf(files...))

	assert.Equal(t, 7, tree.TotalFiles)
	assert.Equal(t, 1, tree.UnknownExtensions["txt"])

	ops := opsByName(plan)
	assert.Equal(t, domain.OpSkipUnsupported, ops["notes.txt"])

	// unsupported bytes do not count toward the layout size
	assert.Equal(t, int64(1000), tree.TotalSize)
}

func TestResolvePlanOrdering(t *testing.T) {
	_, plan := newResolver(defaultPolicy()).Resolve(scanOf(sixFiles()...))

	var dirs []string
	for _, e := range plan {
		dirs = append(dirs, e.TargetDir)
	}
	assert.Equal(t, []string{
		"2014.06.20",
		"2014.06.20",
		filepath.Join("2017.06.22", "Canon EOS 100D"),
		filepath.Join("2017.06.22", "Canon EOS 100D"),
		filepath.Join("2017.06.22", "Huawei CAN-L11"),
		"2017.06.22",
	}, dirs)
}

func TestResolveIdempotence(t *testing.T) {
	resolver := newResolver(defaultPolicy())

	_, first := resolver.Resolve(scanOf(sixFiles()...))

	resolver = newResolver(defaultPolicy())
	_, second := resolver.Resolve(scanOf(sixFiles()...))

	assert.Equal(t, first, second)
}

func TestResolveEmptyInput(t *testing.T) {
	tree, plan := newResolver(defaultPolicy()).Resolve(scanOf())

	assert.Empty(t, plan)
	assert.Zero(t, tree.TotalFiles)
}

func TestResolveMaxPathLen(t *testing.T) {
	tree, plan := newResolver(defaultPolicy()).Resolve(scanOf(sixFiles()...))

	widest := 0
	for _, e := range plan {
		if w := e.DisplayWidth(); w > widest {
			widest = w
		}
	}
	assert.Equal(t, widest, tree.MaxPathLen)
	// h1.jpg sits at depth 2: two indent levels plus the name
	assert.Equal(t, 2*domain.IndentRunes+len("h1.jpg"), tree.MaxPathLen)
}

func TestResolveUnreadableFilesStayOutOfUnknownExtensions(t *testing.T) {
	locked := mediaFile("/in", "locked.jpg", "", taken(2016, 3, 5), 10)
	locked.Support = domain.SupportUnsupported
	locked.Kind = domain.KindUnknown
	locked.Unreadable = true

	alien := mediaFile("/in", "notes.txt", "", taken(2016, 3, 5), 10)
	alien.Ext = "txt"
	alien.Support = domain.SupportUnsupported
	alien.Kind = domain.KindUnknown

	tree, plan := newResolver(defaultPolicy()).Resolve(scanOf(locked, alien))

	assert.Equal(t, map[string]int{"txt": 1}, tree.UnknownExtensions,
		"recognized but unreadable files never suggest a custom extension")
	assert.Len(t, tree.Unsupported, 2)

	reasons := make(map[string]string, len(plan))
	for _, e := range plan {
		reasons[e.File.Name] = e.Reason
	}
	assert.Equal(t, "file could not be read, will be skipped", reasons["locked.jpg"])
	assert.Equal(t, "unknown file type, will be skipped", reasons["notes.txt"])
}
