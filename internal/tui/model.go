package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mediasort/internal/domain"
)

// Phase represents the current state of the TUI
type Phase int

const (
	PhaseScanning Phase = iota
	PhaseConfirm
	PhaseExecuting
	PhaseDone
	PhaseError
)

// Choice is the operator's answer to the confirmation prompt.
type Choice int

const (
	ChoiceProceed Choice = iota
	ChoiceDryRun
	ChoiceCancel
)

// Messages for the TUI
type (
	PlanReadyMsg struct {
		Plan    domain.ExecutionPlan
		Preview []string
		Summary []string
	}
	ExecProgressMsg struct {
		Current int
		Total   int
		File    string
	}
	ExecDoneMsg struct{ Applied int }
	ErrorMsg    struct {
		Err error
	}
	ConfirmMsg struct{ Choice Choice }
	tickMsg    time.Time
)

// ExecuteFunc starts applying the plan in a goroutine and sends
// progress/done messages back into the program.
type ExecuteFunc func(plan domain.ExecutionPlan) tea.Cmd

// Config for the TUI
type Config struct {
	Sources   []string
	TargetDir string
	DryRun    bool
	Execute   ExecuteFunc
}

// Model is the main TUI model
type Model struct {
	config       Config
	Phase        Phase
	Plan         domain.ExecutionPlan
	Choice       Choice
	preview      []string
	summary      []string
	spinner      spinner.Model
	progress     progress.Model
	execCurrent  int
	execTotal    int
	currentFile  string
	choiceCursor Choice
	applied      int
	Err          error
	Quitting     bool
	width        int
	height       int
}

// NewModel creates a new TUI model
func NewModel(cfg Config) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(50),
		progress.WithoutPercentage(),
	)

	return Model{
		config:       cfg,
		Phase:        PhaseScanning,
		spinner:      s,
		progress:     p,
		choiceCursor: ChoiceCancel, // default to the safe answer
		width:        80,
		height:       24,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(msg.Width-20, 60)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.Quitting = true
			m.Choice = ChoiceCancel
			return m, tea.Quit
		case "left", "h":
			if m.Phase == PhaseConfirm && m.choiceCursor > ChoiceProceed {
				m.choiceCursor--
			}
		case "right", "l":
			if m.Phase == PhaseConfirm && m.choiceCursor < ChoiceCancel {
				m.choiceCursor++
			}
		case "y", "Y":
			if m.Phase == PhaseConfirm {
				m.choiceCursor = ChoiceProceed
			}
		case "d", "D":
			if m.Phase == PhaseConfirm {
				m.choiceCursor = ChoiceDryRun
			}
		case "n", "N":
			if m.Phase == PhaseConfirm {
				m.choiceCursor = ChoiceCancel
			}
		case "enter":
			if m.Phase == PhaseConfirm {
				return m, func() tea.Msg {
					return ConfirmMsg{Choice: m.choiceCursor}
				}
			}
			if m.Phase == PhaseDone || m.Phase == PhaseError {
				return m, tea.Quit
			}
		}

	case PlanReadyMsg:
		m.Plan = msg.Plan
		m.preview = msg.Preview
		m.summary = msg.Summary
		if m.config.DryRun {
			m.Choice = ChoiceDryRun
			m.Phase = PhaseDone
		} else {
			m.Phase = PhaseConfirm
		}
		return m, nil

	case ConfirmMsg:
		m.Choice = msg.Choice
		switch msg.Choice {
		case ChoiceProceed:
			m.Phase = PhaseExecuting
			if m.config.Execute != nil {
				return m, tea.Batch(tickCmd(), m.config.Execute(m.Plan))
			}
		case ChoiceDryRun:
			m.Phase = PhaseDone
		case ChoiceCancel:
			m.Quitting = true
			return m, tea.Quit
		}
		return m, nil

	case ExecProgressMsg:
		m.execCurrent = msg.Current
		m.execTotal = msg.Total
		m.currentFile = msg.File
		return m, nil

	case ExecDoneMsg:
		m.Phase = PhaseDone
		m.applied = msg.Applied
		return m, nil

	case ErrorMsg:
		m.Phase = PhaseError
		m.Err = msg.Err
		return m, nil

	case spinner.TickMsg:
		if m.Phase == PhaseScanning || m.Phase == PhaseExecuting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case tickMsg:
		if m.Phase == PhaseExecuting {
			var cmds []tea.Cmd
			if m.execTotal > 0 {
				cmds = append(cmds, m.progress.SetPercent(float64(m.execCurrent)/float64(m.execTotal)))
			}
			cmds = append(cmds, tickCmd(), m.spinner.Tick)
			return m, tea.Batch(cmds...)
		}
	}

	return m, nil
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.Phase {
	case PhaseScanning:
		b.WriteString(fmt.Sprintf("%s Scanning sources...", m.spinner.View()))
	case PhaseConfirm:
		b.WriteString(m.renderPreview())
		b.WriteString("\n")
		b.WriteString(m.renderConfirmPrompt())
	case PhaseExecuting:
		b.WriteString(m.renderPreview())
		b.WriteString("\n")
		b.WriteString(m.renderExecution())
	case PhaseDone:
		b.WriteString(m.renderPreview())
		b.WriteString("\n")
		b.WriteString(m.renderCompletion())
	case PhaseError:
		b.WriteString(errorStyle.Render(fmt.Sprintf("%s %v", iconError, m.Err)))
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

func (m Model) renderHeader() string {
	title := titleStyle.Render("📷 mediasort")
	subtitle := subtitleStyle.Render("Sort media files by date and device")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		subtitle,
		"",
		dimStyle.Render(fmt.Sprintf("%s Sources: %s", iconFolder, strings.Join(m.config.Sources, ", "))),
		dimStyle.Render(fmt.Sprintf("%s Target:  %s", iconFolder, m.config.TargetDir)),
	)
}

func (m Model) renderPreview() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Planned layout"))
	b.WriteString("\n\n")

	if len(m.Plan) == 0 {
		b.WriteString(dimStyle.Render("  Nothing to do, no supported files found"))
		b.WriteString("\n")
		return b.String()
	}

	for _, line := range m.preview {
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteString("\n")
	}

	if len(m.summary) > 0 {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render("Summary"))
		b.WriteString("\n\n")
		for _, line := range m.summary {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (m Model) renderConfirmPrompt() string {
	prompt := confirmPromptStyle.Render(fmt.Sprintf("Apply this plan? (%d entries)", len(m.Plan)))

	choices := []struct {
		choice Choice
		label  string
	}{
		{ChoiceProceed, "[y] proceed"},
		{ChoiceDryRun, "[d] dry run only"},
		{ChoiceCancel, "[n] cancel"},
	}

	parts := make([]string, 0, len(choices))
	for _, c := range choices {
		if c.choice == m.choiceCursor {
			parts = append(parts, choiceSelectedStyle.Render("▸ "+c.label))
		} else {
			parts = append(parts, choiceStyle.Render("  "+c.label))
		}
	}
	return prompt + "\n\n  " + strings.Join(parts, "   ")
}

func (m Model) renderExecution() string {
	bar := ""
	if m.execTotal > 0 {
		bar = "\n\n  " + m.progress.View() + fmt.Sprintf("\n  %d/%d %s", m.execCurrent, m.execTotal, dimStyle.Render(m.currentFile))
	}
	return fmt.Sprintf("%s Applying plan...%s", m.spinner.View(), bar)
}

func (m Model) renderCompletion() string {
	if m.Choice == ChoiceDryRun {
		return warningStyle.Render("Dry run, nothing was written.")
	}
	return successStyle.Render(fmt.Sprintf("%s Done, %d entries applied.", iconSuccess, m.applied))
}

func (m Model) renderHelp() string {
	switch m.Phase {
	case PhaseConfirm:
		return helpStyle.Render("←/→ select · enter confirm · q quit")
	case PhaseDone, PhaseError:
		return helpStyle.Render("enter/q quit")
	default:
		return helpStyle.Render("q quit")
	}
}
