package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"mediasort/internal/app"
	"mediasort/internal/config"
	"mediasort/internal/domain"
	apperrors "mediasort/internal/errors"
	"mediasort/internal/infra/exif"
	"mediasort/internal/infra/fs"
	"mediasort/internal/logging"
	"mediasort/internal/presentation"
)

// pipeline bundles the wired collaborators and phase timings of one run.
type pipeline struct {
	cfg      config.Config
	fs       *fs.FS
	logger   zerolog.Logger
	scanner  *app.Scanner
	resolver *app.Resolver
	renderer *presentation.Renderer
	timings  domain.Timings
	started  time.Time
}

func run(ctx context.Context, cfg config.Config, interactive bool) error {
	p, err := newPipeline(cfg)
	if err != nil {
		return err
	}

	if interactive && !cfg.Options.Silent {
		return runInteractive(ctx, p)
	}

	scan, tree, plan, err := p.plan(ctx)
	if err != nil {
		return err
	}

	out := os.Stdout
	if len(plan) == 0 {
		if !cfg.Options.Silent {
			fmt.Fprintln(out, "Nothing to do, no supported files found.")
		}
		return nil
	}

	if !cfg.Options.Silent {
		for _, line := range p.renderer.Render(tree, plan) {
			fmt.Fprintln(out, line)
		}
	}

	execute := !cfg.Options.DryRun
	if execute && !cfg.Options.Silent {
		proceed, err := confirmPlan(countWrites(plan))
		if err != nil {
			return apperrors.Wrap(apperrors.Internal, "prompt", "", err)
		}
		execute = proceed
	}

	if execute {
		if err := p.execute(ctx, plan); err != nil {
			return err
		}
	}

	p.timings.Total = time.Since(p.started)
	stats := app.Aggregate(tree, plan, scan, p.timings)

	if !cfg.Options.Silent {
		fmt.Fprintln(out)
		fmt.Fprintln(out, presentation.StatsTable(stats))
		for _, line := range presentation.SummaryLines(stats) {
			fmt.Fprintln(out, line)
		}
		printReports(out, tree, scan, cfg.Options.Verbose)
		if cfg.Options.DryRun {
			fmt.Fprintln(out, "Dry run, nothing was written. Set dry_run = false to apply.")
		}
	}
	return nil
}

func newPipeline(cfg config.Config) (*pipeline, error) {
	logger := logging.New(os.Stderr, cfg.Options.Verbose)
	if cfg.Options.Silent {
		logger = zerolog.Nop()
	}

	filesystem := fs.New()
	for _, dir := range cfg.Folders.SourceDirs {
		if _, err := filesystem.Stat(dir); err != nil {
			return nil, apperrors.Wrap(apperrors.NotFound, "stat source", dir, err)
		}
	}

	classify := app.ClassifyOptions{
		Extensions: domain.NewExtensionTable(
			cfg.Custom.Extensions.Image,
			cfg.Custom.Extensions.Video,
			cfg.Custom.Extensions.Audio,
		),
		DeviceNames:       domain.DeviceNames(cfg.Custom.Devices),
		IncludeDeviceMake: cfg.Options.IncludeDeviceMake,
	}

	probe := func(rel string) bool {
		ok, _ := filesystem.Exists(filepath.Join(cfg.Folders.TargetDir, rel))
		return ok
	}

	return &pipeline{
		cfg:    cfg,
		fs:     filesystem,
		logger: logger,
		scanner: &app.Scanner{
			FS:        filesystem,
			Meta:      exif.NewWith(filesystem.Backend()),
			Workers:   cfg.Options.Threads,
			Recursive: cfg.Options.SourceRecursive,
			Options:   classify,
			Logger:    logging.Component(logger, "scan"),
		},
		resolver: &app.Resolver{
			Policy: app.Policy{
				MinFilesPerDir:   cfg.Folders.MinFilesPerDir,
				AlwaysDeviceDirs: cfg.Options.AlwaysDeviceDirs,
				OneOffsDirName:   cfg.Folders.OneOffsDirName,
				Move:             !cfg.Options.CopyNotMove,
			},
			Probe:  probe,
			Logger: logging.Component(logger, "resolve"),
		},
		renderer: &presentation.Renderer{
			Align:            cfg.Options.AlignOutput,
			CompactThreshold: cfg.Folders.CompactingThreshold,
			Verbose:          cfg.Options.Verbose,
			DirExists:        probe,
		},
		started: time.Now(),
	}, nil
}

// plan runs the scan and resolve phases and records their durations.
func (p *pipeline) plan(ctx context.Context) (*app.ScanResult, *domain.DeviceDateTree, domain.ExecutionPlan, error) {
	scanStart := time.Now()
	scan, err := p.scanner.Scan(ctx, p.cfg.Folders.SourceDirs)
	if err != nil {
		return nil, nil, nil, apperrors.Wrap(apperrors.Internal, "scan", "", err)
	}
	p.timings.Scan = time.Since(scanStart)

	resolveStart := time.Now()
	tree, plan := p.resolver.Resolve(scan)
	p.timings.Resolve = time.Since(resolveStart)

	return scan, tree, plan, nil
}

func (p *pipeline) execute(ctx context.Context, plan domain.ExecutionPlan) error {
	executor := &app.Executor{
		FS:         p.fs,
		TargetRoot: p.cfg.Folders.TargetDir,
		Logger:     logging.Component(p.logger, "execute"),
	}
	execStart := time.Now()
	res, err := executor.Execute(ctx, plan)
	p.timings.Execute = time.Since(execStart)
	if res.RemoveFailures > 0 {
		p.logger.Warn().Int("count", res.RemoveFailures).Msg("some sources could not be removed, files were copied instead")
	}
	return err
}

func countWrites(plan domain.ExecutionPlan) int {
	writes := 0
	for _, entry := range plan {
		if !entry.Op.IsSkip() {
			writes++
		}
	}
	return writes
}

func confirmPlan(writes int) (bool, error) {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("Apply this plan (%d writes)? [y/N]: ", writes)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false, err
	}
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes", nil
}

func printReports(out *os.File, tree *domain.DeviceDateTree, scan *app.ScanResult, verbose bool) {
	if lines := presentation.UnknownExtensionsReport(tree.UnknownExtensions); lines != nil {
		fmt.Fprintln(out)
		for _, line := range lines {
			fmt.Fprintln(out, line)
		}
	}
	if lines := presentation.NonCustomDevicesReport(scan.NonCustomDevices); lines != nil {
		fmt.Fprintln(out)
		for _, line := range lines {
			fmt.Fprintln(out, line)
		}
	}
	if verbose && len(scan.Warnings) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Warnings:")
		for _, warning := range scan.Warnings {
			fmt.Fprintln(out, "- "+warning)
		}
	}
}
