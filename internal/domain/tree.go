package domain

import "sort"

// DateGroup holds all files sharing one capture date, sub-partitioned by
// device identity. The empty string key is the unknown-device bucket.
type DateGroup struct {
	Date    string
	Devices map[string][]SupportedFile
}

func NewDateGroup(date string) *DateGroup {
	return &DateGroup{Date: date, Devices: make(map[string][]SupportedFile)}
}

func (g *DateGroup) Add(f SupportedFile) {
	g.Devices[f.Device] = append(g.Devices[f.Device], f)
}

// DeviceCount is the number of identified devices, excluding the
// unknown-device bucket.
func (g *DateGroup) DeviceCount() int {
	n := len(g.Devices)
	if _, ok := g.Devices[""]; ok {
		n--
	}
	return n
}

func (g *DateGroup) FileCount() int {
	n := 0
	for _, files := range g.Devices {
		n += len(files)
	}
	return n
}

func (g *DateGroup) Size() int64 {
	var total int64
	for _, files := range g.Devices {
		for _, f := range files {
			total += f.Size
		}
	}
	return total
}

// SortedDevices returns device identities ascending, unknown ("") last.
func (g *DateGroup) SortedDevices() []string {
	devices := make([]string, 0, len(g.Devices))
	hasUnknown := false
	for d := range g.Devices {
		if d == "" {
			hasUnknown = true
			continue
		}
		devices = append(devices, d)
	}
	sort.Strings(devices)
	if hasUnknown {
		devices = append(devices, "")
	}
	return devices
}

// DeviceDateTree is the finalized target layout: date groups keyed by date
// plus global aggregates. Owned by the resolver during construction; the
// formatter and aggregator only read it.
type DeviceDateTree struct {
	Groups map[string]*DateGroup
	// OneOffs holds files from collapsed date groups, redirected as whole
	// groups into the shared bucket.
	OneOffs []SupportedFile
	// Unsupported files are kept out of the layout but reported.
	Unsupported []SupportedFile
	// UnknownExtensions counts skipped files per unrecognized extension.
	UnknownExtensions map[string]int
	TotalFiles        int
	TotalSize         int64
	// MaxPathLen is the rune width of the widest rendered target cell,
	// per-depth indentation plus file name, precomputed once the tree is
	// final so formatting never re-measures the plan.
	MaxPathLen int
}

func NewDeviceDateTree() *DeviceDateTree {
	return &DeviceDateTree{
		Groups:            make(map[string]*DateGroup),
		UnknownExtensions: make(map[string]int),
	}
}

// SortedDates returns date keys in chronological order. The YYYY.MM.DD
// format makes lexicographic and chronological order coincide.
func (t *DeviceDateTree) SortedDates() []string {
	dates := make([]string, 0, len(t.Groups))
	for d := range t.Groups {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}
