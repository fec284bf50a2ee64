package app

import (
	"context"
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediasort/internal/domain"
	infrafs "mediasort/internal/infra/fs"
)

func memFSWith(t *testing.T, paths ...string) *infrafs.FS {
	t.Helper()
	fsys := infrafs.NewMem()
	for _, p := range paths {
		require.NoError(t, afero.WriteFile(fsys.Backend(), p, []byte("data"), 0o644))
	}
	return fsys
}

func newScanner(fsys FileSystem, meta MetadataReader, recursive bool) *Scanner {
	return &Scanner{
		FS:        fsys,
		Meta:      meta,
		Workers:   4,
		Recursive: recursive,
		Options: ClassifyOptions{
			Extensions:        domain.NewExtensionTable(nil, nil, nil),
			DeviceNames:       domain.DeviceNames{},
			IncludeDeviceMake: true,
		},
		Logger: nopLogger(),
	}
}

func TestScanRecursiveFindsNestedFiles(t *testing.T) {
	fsys := memFSWith(t,
		"/in/a.jpg",
		"/in/sub/b.jpg",
		"/in/sub/deeper/c.mp4",
	)
	meta := stubMeta{metas: map[string]Metadata{
		"/in/a.jpg":     {TakenAt: timePtr(taken(2017, 6, 22))},
		"/in/sub/b.jpg": {TakenAt: timePtr(taken(2017, 6, 22))},
	}}

	scan, err := newScanner(fsys, meta, true).Scan(context.Background(), []string{"/in"})
	require.NoError(t, err)

	files := scan.Files()
	assert.Len(t, files, 3)
	assert.Empty(t, scan.UnreadableDirs)

	names := map[string]domain.SupportLevel{}
	for _, f := range files {
		names[f.Name] = f.Support
	}
	assert.Equal(t, domain.SupportFull, names["a.jpg"])
	assert.Equal(t, domain.SupportFull, names["b.jpg"])
	assert.Equal(t, domain.SupportPartial, names["c.mp4"])
}

func TestScanNonRecursiveIgnoresSubdirs(t *testing.T) {
	fsys := memFSWith(t,
		"/in/a.jpg",
		"/in/sub/b.jpg",
	)
	meta := stubMeta{metas: map[string]Metadata{
		"/in/a.jpg": {TakenAt: timePtr(taken(2017, 6, 22))},
	}}

	scan, err := newScanner(fsys, meta, false).Scan(context.Background(), []string{"/in"})
	require.NoError(t, err)

	assert.Len(t, scan.Files(), 1)
	assert.Equal(t, 1, scan.IgnoredDirs)
}

func TestScanBatchesKeyedBySourceRoot(t *testing.T) {
	fsys := memFSWith(t,
		"/one/a.jpg",
		"/two/b.jpg",
	)
	meta := stubMeta{}

	scan, err := newScanner(fsys, meta, true).Scan(context.Background(), []string{"/one", "/two"})
	require.NoError(t, err)

	assert.Len(t, scan.Batches["/one"], 1)
	assert.Len(t, scan.Batches["/two"], 1)
}

func TestScanRecordsUnreadableDirAndContinues(t *testing.T) {
	fsys := memFSWith(t,
		"/in/a.jpg",
		"/in/locked/b.jpg",
	)
	flaky := flakyFS{FileSystem: fsys, failDirs: map[string]bool{"/in/locked": true}}
	meta := stubMeta{metas: map[string]Metadata{
		"/in/a.jpg": {TakenAt: timePtr(taken(2017, 6, 22))},
	}}

	scan, err := newScanner(flaky, meta, true).Scan(context.Background(), []string{"/in"})
	require.NoError(t, err)

	assert.Len(t, scan.Files(), 1)
	assert.Equal(t, []string{"/in/locked"}, scan.UnreadableDirs)
}

func TestScanDegradesOnMetadataFailure(t *testing.T) {
	fsys := memFSWith(t, "/in/corrupt.jpg")
	meta := stubMeta{} // every read fails

	scan, err := newScanner(fsys, meta, true).Scan(context.Background(), []string{"/in"})
	require.NoError(t, err)

	files := scan.Files()
	require.Len(t, files, 1)
	assert.Equal(t, domain.SupportPartial, files[0].Support)
	assert.Empty(t, files[0].Device)
	assert.NotEmpty(t, scan.Warnings)
}

func TestScanPermissionErrorMarksUnsupported(t *testing.T) {
	fsys := memFSWith(t, "/in/secret.jpg")
	meta := stubMeta{errs: map[string]error{"/in/secret.jpg": os.ErrPermission}}

	scan, err := newScanner(fsys, meta, true).Scan(context.Background(), []string{"/in"})
	require.NoError(t, err)

	files := scan.Files()
	require.Len(t, files, 1)
	assert.Equal(t, domain.SupportUnsupported, files[0].Support)
	assert.True(t, files[0].Unreadable, "permission failures are flagged, not treated as unknown extensions")
	assert.NotEmpty(t, scan.Warnings)
}

func TestScanCollectsNonCustomDevices(t *testing.T) {
	fsys := memFSWith(t, "/in/a.jpg", "/in/b.jpg")
	meta := stubMeta{metas: map[string]Metadata{
		"/in/a.jpg": {TakenAt: timePtr(taken(2017, 6, 22)), Make: "Canon", Model: "EOS 100D"},
		"/in/b.jpg": {TakenAt: timePtr(taken(2017, 6, 22)), Model: "SM-A415F"},
	}}

	scanner := newScanner(fsys, meta, true)
	scanner.Options.DeviceNames = domain.DeviceNames{"sm-a415f": "Samsung A41"}

	scan, err := scanner.Scan(context.Background(), []string{"/in"})
	require.NoError(t, err)

	_, ok := scan.NonCustomDevices["Canon EOS 100D"]
	assert.True(t, ok)
	_, ok = scan.NonCustomDevices["SM-A415F"]
	assert.False(t, ok, "renamed devices are not reported")
}

func TestScanRequiresCollaborators(t *testing.T) {
	_, err := (&Scanner{Logger: nopLogger()}).Scan(context.Background(), []string{"/in"})
	assert.Error(t, err)
}
