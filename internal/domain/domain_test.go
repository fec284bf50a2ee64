package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExtensionTableBase(t *testing.T) {
	table := NewExtensionTable(nil, nil, nil)

	kind, support := table.Lookup("IMG_0001.JPG")
	assert.Equal(t, KindImage, kind)
	assert.Equal(t, SupportFull, support)

	kind, support = table.Lookup("raw.nef")
	assert.Equal(t, KindImage, kind)
	assert.Equal(t, SupportPartial, support)

	kind, support = table.Lookup("clip.mp4")
	assert.Equal(t, KindVideo, kind)
	assert.Equal(t, SupportPartial, support)

	kind, support = table.Lookup("memo.m4a")
	assert.Equal(t, KindAudio, kind)
	assert.Equal(t, SupportPartial, support)

	kind, support = table.Lookup("notes.txt")
	assert.Equal(t, KindUnknown, kind)
	assert.Equal(t, SupportUnsupported, support)

	kind, support = table.Lookup("README")
	assert.Equal(t, KindUnknown, kind)
	assert.Equal(t, SupportUnsupported, support)
}

func TestExtensionTableCustomIsAlwaysPartial(t *testing.T) {
	table := NewExtensionTable([]string{".RAF"}, []string{"mkv"}, nil)

	kind, support := table.Lookup("pic.raf")
	assert.Equal(t, KindImage, kind)
	assert.Equal(t, SupportPartial, support)

	kind, support = table.Lookup("movie.MKV")
	assert.Equal(t, KindVideo, kind)
	assert.Equal(t, SupportPartial, support)
}

func TestDeviceNamesResolve(t *testing.T) {
	names := DeviceNames{"sm-a415f": "Samsung A41"}

	got, custom := names.Resolve("SM-A415F")
	assert.True(t, custom)
	assert.Equal(t, "Samsung A41", got)

	got, custom = names.Resolve("Canon EOS 100D")
	assert.False(t, custom)
	assert.Equal(t, "Canon EOS 100D", got)
}

func TestDateKeyFormat(t *testing.T) {
	f := SupportedFile{TakenAt: time.Date(2017, 6, 22, 10, 30, 0, 0, time.UTC)}
	assert.Equal(t, "2017.06.22", f.DateKey())
}

func TestDateGroupDeviceCountExcludesUnknown(t *testing.T) {
	g := NewDateGroup("2017.06.22")
	g.Add(SupportedFile{Name: "a.jpg", Device: "Canon EOS 100D"})
	g.Add(SupportedFile{Name: "b.jpg", Device: "Canon EOS 100D"})
	g.Add(SupportedFile{Name: "c.jpg", Device: "Huawei CAN-L11"})
	g.Add(SupportedFile{Name: "d.jpg"})

	assert.Equal(t, 2, g.DeviceCount())
	assert.Equal(t, 4, g.FileCount())
}

func TestSortedDevicesUnknownLast(t *testing.T) {
	g := NewDateGroup("2017.06.22")
	g.Add(SupportedFile{Name: "d.jpg"})
	g.Add(SupportedFile{Name: "c.jpg", Device: "Huawei CAN-L11"})
	g.Add(SupportedFile{Name: "a.jpg", Device: "Canon EOS 100D"})

	assert.Equal(t, []string{"Canon EOS 100D", "Huawei CAN-L11", ""}, g.SortedDevices())
}

func TestSortedDatesChronological(t *testing.T) {
	tree := NewDeviceDateTree()
	tree.Groups["2017.06.22"] = NewDateGroup("2017.06.22")
	tree.Groups["2014.06.20"] = NewDateGroup("2014.06.20")
	tree.Groups["2014.12.01"] = NewDateGroup("2014.12.01")

	assert.Equal(t, []string{"2014.06.20", "2014.12.01", "2017.06.22"}, tree.SortedDates())
}
