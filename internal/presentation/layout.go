package presentation

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"mediasort/internal/domain"
)

const pathSeparator = filepath.Separator

// Each glyph is exactly one indentation level (domain.IndentRunes) wide,
// so a rendered target cell measures domain.PlanEntry.DisplayWidth runes.
const (
	treeEntryMid  = " ├── "
	treeEntryLast = " └── "
	treeIndentMid = " │   "
	treeIndentPad = "     "
	treeSnipped   = " ·-- "
)

// Renderer turns a finalized tree and plan into the confirmation preview.
// It never alters planned operations; compaction elides lines from the
// rendered preview only, never from the plan or the statistics.
type Renderer struct {
	// Align pads the target and source columns to a shared width. When
	// off, every line is emitted independently with fixed separators.
	Align bool
	// CompactThreshold elides consecutive same-status lines within one
	// folder beyond this count. Zero disables compaction; Verbose
	// overrides it.
	CompactThreshold int
	Verbose          bool
	// DirExists, when set, is consulted for date and device folder
	// headers so the preview can say whether the folder already exists.
	DirExists func(path string) bool

	targetWidth int
	sourceWidth int
}

// Render produces the full preview, one string per output line.
func (r *Renderer) Render(tree *domain.DeviceDateTree, plan domain.ExecutionPlan) []string {
	r.prepare(tree, plan)
	groups := groupByDir(plan)
	lines := r.headerLines()

	dates := tree.SortedDates()
	for _, date := range dates {
		group := tree.Groups[date]
		lines = append(lines, r.dateHeader(group))

		devices := group.SortedDevices()
		for i, device := range devices {
			lastDevice := i == len(devices)-1
			dir, nested := dirFor(groups, group, device)
			if nested {
				lines = append(lines, r.deviceHeader(device, dir, lastDevice))
			}
			lines = append(lines, r.fileLines(groups[dir], nested, lastDevice)...)
			delete(groups, dir)
		}
		lines = append(lines, "")
	}

	if entries := groups[oneOffsDir(plan, tree)]; len(entries) > 0 {
		lines = append(lines, r.oneOffsHeader(entries))
		lines = append(lines, r.fileLines(entries, false, true)...)
		lines = append(lines, "")
	}

	if skipped := unsupportedEntries(plan); len(skipped) > 0 {
		lines = append(lines, "Skipped (unknown file types):")
		for _, entry := range skipped {
			lines = append(lines, fmt.Sprintf("%s ... %s", entry.File.SourcePath, entry.Reason))
		}
	}

	return lines
}

func (r *Renderer) headerLines() []string {
	width := r.targetWidth + r.sourceWidth + 24
	if width < 60 {
		width = 60
	}
	sep := strings.Repeat("-", width)
	header := "TARGET FILE"
	if r.Align {
		header = pad(header, r.targetWidth+6) + pad("SOURCE PATH", r.sourceWidth+5) + "OPERATION STATUS"
	} else {
		header = "TARGET FILE / SOURCE PATH / OPERATION STATUS"
	}
	return []string{sep, header, sep}
}

func (r *Renderer) dateHeader(group *domain.DateGroup) string {
	deviceWord := "devices"
	if group.DeviceCount() <= 1 {
		deviceWord = "device"
	}
	fileWord := "files"
	if group.FileCount() == 1 {
		fileWord = "file"
	}
	label := fmt.Sprintf("[%s] (%d %s, %d %s, %s) ",
		group.Date, group.DeviceCount(), deviceWord, group.FileCount(), fileWord, ByteSize(group.Size()))
	return label + r.dirStatusDots(label, group.Date)
}

func (r *Renderer) deviceHeader(device, dir string, last bool) string {
	glyph := treeEntryMid
	if last {
		glyph = treeEntryLast
	}
	name := device
	if name == "" {
		name = domain.UnknownDeviceDirName
	}
	label := fmt.Sprintf("%s[%s] ", glyph, name)
	return label + r.dirStatusDots(label, dir)
}

func (r *Renderer) oneOffsHeader(entries []domain.PlanEntry) string {
	dir := entries[0].TargetDir
	fileWord := "files"
	if len(entries) == 1 {
		fileWord = "file"
	}
	var size int64
	for _, e := range entries {
		size += e.File.Size
	}
	label := fmt.Sprintf("[%s] (%d %s, %s) ", dir, len(entries), fileWord, ByteSize(size))
	return label + r.dirStatusDots(label, dir)
}

func (r *Renderer) dirStatusDots(label, dir string) string {
	status := "[new folder will be created]"
	if r.DirExists != nil && r.DirExists(dir) {
		status = "[folder already exists]"
	}
	if !r.Align {
		return "... " + status
	}
	fill := r.targetWidth + r.sourceWidth + 11 - utf8.RuneCountInString(label)
	if fill < 3 {
		fill = 3
	}
	return strings.Repeat(".", fill) + " " + status
}

// fileLines renders one folder's entries, applying compaction when
// enabled. nested selects the two-level indent used under a device
// folder.
func (r *Renderer) fileLines(entries []domain.PlanEntry, nested, lastDevice bool) []string {
	var lines []string
	compacting := r.CompactThreshold > 0 && !r.Verbose

	shown := 0
	snipped := 0
	lastStatus := ""
	for i, entry := range entries {
		line := r.fileLine(entry, nested, lastDevice, i == len(entries)-1)

		if !compacting {
			lines = append(lines, line)
			continue
		}
		if entry.Reason != lastStatus {
			if snipped > 0 {
				lines = append(lines, r.snippedLine(snipped, nested))
			}
			lastStatus = entry.Reason
			shown = 0
			snipped = 0
		}
		if shown < r.CompactThreshold {
			shown++
			lines = append(lines, line)
		} else {
			snipped++
		}
	}
	if snipped > 0 {
		lines = append(lines, r.snippedLine(snipped, nested))
	}
	return lines
}

func (r *Renderer) fileLine(entry domain.PlanEntry, nested, lastDevice, lastFile bool) string {
	target := fileIndent(nested, lastDevice, lastFile) + entry.File.Name

	if !r.Align {
		return fmt.Sprintf("%s <--- %s ... %s", target, entry.File.SourcePath, entry.Reason)
	}

	arrow := " <" + strings.Repeat("-", gap(r.targetWidth, target)+3) + " "
	source := entry.File.SourcePath
	dots := " " + strings.Repeat(".", gap(r.sourceWidth, source)+3) + " "
	return target + arrow + source + dots + entry.Reason
}

func (r *Renderer) snippedLine(count int, nested bool) string {
	indent := ""
	if nested {
		indent = treeIndentMid
	}
	return fmt.Sprintf("%s%s(snipped output for %d files with same status)", indent, treeSnipped, count)
}

// prepare adopts the target-column width the resolver precomputed on the
// finalized tree and measures the source column from the plan.
func (r *Renderer) prepare(tree *domain.DeviceDateTree, plan domain.ExecutionPlan) {
	r.targetWidth, r.sourceWidth = 0, 0
	if !r.Align {
		return
	}
	r.targetWidth = tree.MaxPathLen
	for _, entry := range plan {
		if entry.Op == domain.OpSkipUnsupported {
			continue
		}
		if n := utf8.RuneCountInString(entry.File.SourcePath); n > r.sourceWidth {
			r.sourceWidth = n
		}
	}
}

func fileIndent(nested, lastDevice, lastFile bool) string {
	if !nested {
		if lastFile {
			return treeEntryLast
		}
		return treeEntryMid
	}
	prefix := treeIndentMid
	if lastDevice {
		prefix = treeIndentPad
	}
	if lastFile {
		return prefix + treeEntryLast
	}
	return prefix + treeEntryMid
}

func gap(width int, cell string) int {
	g := width - utf8.RuneCountInString(cell)
	if g < 0 {
		g = 0
	}
	return g
}

func pad(s string, width int) string {
	if g := width - utf8.RuneCountInString(s); g > 0 {
		return s + strings.Repeat(" ", g)
	}
	return s
}

// groupByDir collects plan entries per target directory, preserving plan
// order within each directory.
func groupByDir(plan domain.ExecutionPlan) map[string][]domain.PlanEntry {
	groups := make(map[string][]domain.PlanEntry)
	for _, entry := range plan {
		if entry.Op == domain.OpSkipUnsupported {
			continue
		}
		groups[entry.TargetDir] = append(groups[entry.TargetDir], entry)
	}
	return groups
}

// dirFor resolves the target directory one device bucket was planned
// into, which may be the date root when no device segment was needed.
func dirFor(groups map[string][]domain.PlanEntry, group *domain.DateGroup, device string) (string, bool) {
	segment := device
	if segment == "" {
		segment = domain.UnknownDeviceDirName
	}
	nested := filepath.Join(group.Date, segment)
	if _, ok := groups[nested]; ok {
		return nested, true
	}
	return group.Date, false
}

func oneOffsDir(plan domain.ExecutionPlan, tree *domain.DeviceDateTree) string {
	for _, entry := range plan {
		if entry.Op == domain.OpSkipUnsupported {
			continue
		}
		if _, isDate := tree.Groups[topSegment(entry.TargetDir)]; !isDate {
			return entry.TargetDir
		}
	}
	return ""
}

func topSegment(dir string) string {
	if i := strings.IndexRune(dir, pathSeparator); i >= 0 {
		return dir[:i]
	}
	return dir
}

func unsupportedEntries(plan domain.ExecutionPlan) []domain.PlanEntry {
	var entries []domain.PlanEntry
	for _, entry := range plan {
		if entry.Op == domain.OpSkipUnsupported {
			entries = append(entries, entry)
		}
	}
	return entries
}
