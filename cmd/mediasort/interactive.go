package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"mediasort/internal/app"
	"mediasort/internal/domain"
	"mediasort/internal/presentation"
	"mediasort/internal/tui"
)

// runInteractive drives the full pipeline behind the terminal UI: scan and
// resolve happen in the background, the plan is shown for confirmation,
// and execution progress is streamed back into the program.
func runInteractive(ctx context.Context, p *pipeline) error {
	var (
		scan *app.ScanResult
		tree *domain.DeviceDateTree
		plan domain.ExecutionPlan
	)

	program := tea.NewProgram(tui.NewModel(tui.Config{
		Sources:   p.cfg.Folders.SourceDirs,
		TargetDir: p.cfg.Folders.TargetDir,
		DryRun:    p.cfg.Options.DryRun,
		Execute: func(plan domain.ExecutionPlan) tea.Cmd {
			return func() tea.Msg {
				if err := p.execute(ctx, plan); err != nil {
					return tui.ErrorMsg{Err: err}
				}
				return tui.ExecDoneMsg{Applied: countWrites(plan)}
			}
		},
	}))

	go func() {
		var err error
		scan, tree, plan, err = p.plan(ctx)
		if err != nil {
			program.Send(tui.ErrorMsg{Err: err})
			return
		}
		program.Send(tui.PlanReadyMsg{
			Plan:    plan,
			Preview: p.renderer.Render(tree, plan),
			Summary: presentation.SummaryLines(app.Aggregate(tree, plan, scan, p.timings)),
		})
	}()

	final, err := program.Run()
	if err != nil {
		return err
	}
	model, ok := final.(tui.Model)
	if !ok || model.Err != nil {
		if ok {
			return model.Err
		}
		return nil
	}

	// Reports are plain text, printed after the UI exits.
	if model.Phase == tui.PhaseDone && tree != nil {
		p.timings.Total = time.Since(p.started)
		stats := app.Aggregate(tree, plan, scan, p.timings)
		fmt.Fprintln(os.Stdout, presentation.StatsTable(stats))
		for _, line := range presentation.SummaryLines(stats) {
			fmt.Fprintln(os.Stdout, line)
		}
		printReports(os.Stdout, tree, scan, p.cfg.Options.Verbose)
	}
	return nil
}
