package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mediasort/internal/config"
	apperrors "mediasort/internal/errors"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, apperrors.UserMessage(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath  string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:           "mediasort",
		Short:         "Sort media files into date and device folders",
		Long:          "mediasort scans source directories for images, videos and audio files,\ngroups them by capture date and device, and copies or moves them into a\ndate-structured target directory after a confirmation preview.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			applyFlagOverrides(cmd, &cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg, interactive)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "mediasort.toml", "path to the TOML config file")
	flags.BoolVarP(&interactive, "interactive", "i", false, "terminal UI with live progress")
	flags.StringSlice("source", nil, "source directory (repeatable)")
	flags.String("target", "", "target directory")
	flags.Bool("dry-run", true, "preview only, write nothing")
	flags.Bool("move", false, "move files instead of copying")
	flags.Bool("recursive", true, "descend into source subdirectories")
	flags.Int("threads", 0, "number of concurrent scan workers")
	flags.Int("min-files", -1, "minimum file count before a date gets its own folder")
	flags.Bool("silent", false, "suppress the preview and reports")
	flags.BoolP("verbose", "v", false, "debug logging, disables preview compaction")

	return cmd
}

// applyFlagOverrides layers explicitly set flags over the file config.
// Unset flags leave the file values alone.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.Folders.SourceDirs, _ = flags.GetStringSlice("source")
	}
	if flags.Changed("target") {
		cfg.Folders.TargetDir, _ = flags.GetString("target")
	}
	if flags.Changed("dry-run") {
		cfg.Options.DryRun, _ = flags.GetBool("dry-run")
	}
	if flags.Changed("move") {
		move, _ := flags.GetBool("move")
		cfg.Options.CopyNotMove = !move
	}
	if flags.Changed("recursive") {
		cfg.Options.SourceRecursive, _ = flags.GetBool("recursive")
	}
	if flags.Changed("threads") {
		cfg.Options.Threads, _ = flags.GetInt("threads")
	}
	if flags.Changed("min-files") {
		cfg.Folders.MinFilesPerDir, _ = flags.GetInt("min-files")
	}
	if flags.Changed("silent") {
		cfg.Options.Silent, _ = flags.GetBool("silent")
	}
	if flags.Changed("verbose") {
		cfg.Options.Verbose, _ = flags.GetBool("verbose")
	}
}
