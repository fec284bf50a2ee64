package presentation

import (
	"fmt"
	"sort"
	"time"
)

const timeRounding = time.Millisecond

// UnknownExtensionsReport lists the extensions of skipped files so the
// operator can decide which ones to add to the custom extension table.
// Returns nil when nothing was skipped for an unknown extension.
func UnknownExtensionsReport(counts map[string]int) []string {
	if len(counts) == 0 {
		return nil
	}
	exts := make([]string, 0, len(counts))
	for ext := range counts {
		exts = append(exts, ext)
	}
	sort.Strings(exts)

	lines := []string{"Unrecognized extensions (add them to [custom.extensions] to include these files):"}
	for _, ext := range exts {
		name := ext
		if name == "" {
			name = "(no extension)"
		}
		lines = append(lines, fmt.Sprintf("  %s: %d files", name, counts[ext]))
	}
	return lines
}

// NonCustomDevicesReport lists device identities seen during the scan
// that have no entry in the custom device-name table.
func NonCustomDevicesReport(devices map[string]struct{}) []string {
	if len(devices) == 0 {
		return nil
	}
	names := make([]string, 0, len(devices))
	for name := range devices {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := []string{"Devices without a custom name (add them to [custom.devices] to rename):"}
	for _, name := range names {
		lines = append(lines, "  "+name)
	}
	return lines
}
