package presentation

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"mediasort/internal/domain"
)

// StatsTable renders the end-of-run statistics as a rounded table, one
// row per media kind plus the folder and skip totals.
func StatsTable(stats domain.Statistics) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	tw.AppendHeader(table.Row{"", "Moved", "Copied", "Skipped"})
	tw.AppendRow(table.Row{"Images", stats.ImagesMoved, stats.ImagesCopied, stats.ImagesSkipped})
	tw.AppendRow(table.Row{"Videos", stats.VideosMoved, stats.VideosCopied, stats.VideosSkipped})
	tw.AppendRow(table.Row{"Audio", stats.AudiosMoved, stats.AudiosCopied, stats.AudiosSkipped})
	tw.AppendSeparator()
	tw.AppendRow(table.Row{"Total", stats.Moved, stats.Copied,
		stats.SkipExists + stats.SkipDup + stats.SkipUnknown})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})

	return tw.Render()
}

// SummaryLines renders the scalar run totals below the table.
func SummaryLines(stats domain.Statistics) []string {
	lines := []string{
		fmt.Sprintf("Files inspected: %d (%s)", stats.TotalFiles, ByteSize(stats.TotalSize)),
		fmt.Sprintf("Planned writes:  %s", ByteSize(stats.PlannedBytes)),
		fmt.Sprintf("Date folders: %d, device folders: %d, one-offs bucketed: %d",
			stats.DateDirs, stats.DeviceDirs, stats.OneOffsUse),
	}
	if stats.SkipExists > 0 {
		lines = append(lines, fmt.Sprintf("Skipped %d files whose targets already exist.", stats.SkipExists))
	}
	if stats.SkipDup > 0 {
		lines = append(lines, fmt.Sprintf("Skipped %d duplicate source files.", stats.SkipDup))
	}
	if stats.UnreadableDirs > 0 {
		lines = append(lines, fmt.Sprintf("%d source directories could not be read.", stats.UnreadableDirs))
	}
	if stats.IgnoredDirs > 0 {
		lines = append(lines, fmt.Sprintf("%d subdirectories ignored (recursion is off).", stats.IgnoredDirs))
	}
	lines = append(lines, fmt.Sprintf("Time taken: %s (scan %s, resolve %s)",
		stats.Timings.Total.Round(timeRounding),
		stats.Timings.Scan.Round(timeRounding),
		stats.Timings.Resolve.Round(timeRounding)))
	return lines
}
