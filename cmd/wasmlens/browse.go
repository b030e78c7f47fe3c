package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/wasmlens/wasmlens/analyzer"
	"github.com/wasmlens/wasmlens/report"
)

var (
	browseTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FAFAFA")).
				Background(lipgloss.Color("#7D56F4")).
				Padding(0, 1)

	browseSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FAFAFA")).
				Background(lipgloss.Color("#7D56F4"))

	browseErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FF6B6B"))

	browseHelpStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666"))
)

func browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse <file.wasm>",
		Short: "Browse an analysis report interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := tea.NewProgram(newBrowseModel(args[0]))
			_, err := p.Run()
			return err
		},
	}
}

type browseSection struct {
	title string
	body  func(*report.AnalysisReport) string
}

var browseSections = []browseSection{
	{"Module Info", viewModuleInfo},
	{"Call Graph", viewCallGraph},
	{"Memory Analysis", viewMemoryAnalysis},
	{"Security Analysis", viewSecurityAnalysis},
	{"Performance", viewPerformance},
	{"Compatibility", viewCompatibility},
}

type browseState int

const (
	browseStateList browseState = iota
	browseStateDetail
)

type browseModel struct {
	err      error
	rep      *report.AnalysisReport
	filename string
	selected int
	state    browseState
}

type analyzedMsg struct {
	err error
	rep *report.AnalysisReport
}

func newBrowseModel(filename string) *browseModel {
	return &browseModel{filename: filename, state: browseStateList}
}

func (m *browseModel) Init() tea.Cmd {
	return m.analyze
}

func (m *browseModel) analyze() tea.Msg {
	data, err := os.ReadFile(m.filename)
	if err != nil {
		return analyzedMsg{err: err}
	}
	rep, err := analyzer.Analyze(data)
	if err != nil {
		return analyzedMsg{err: err}
	}
	return analyzedMsg{rep: rep}
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.state == browseStateList && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == browseStateList && m.selected < len(browseSections)-1 {
				m.selected++
			}

		case "enter":
			if m.state == browseStateList && m.rep != nil {
				m.state = browseStateDetail
			}

		case "esc":
			if m.state == browseStateDetail {
				m.state = browseStateList
			}
		}

	case analyzedMsg:
		m.err = msg.err
		m.rep = msg.rep
	}

	return m, nil
}

func (m *browseModel) View() string {
	if m.err != nil {
		return browseErrorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if m.rep == nil {
		return "Analyzing " + m.filename + "..."
	}

	var b strings.Builder
	b.WriteString(browseTitleStyle.Render("wasmlens"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	switch m.state {
	case browseStateList:
		for i, s := range browseSections {
			cursor := "  "
			line := cursor + s.title
			if i == m.selected {
				line = browseSelectedStyle.Render("> " + s.title)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(browseHelpStyle.Render("↑/↓ select • enter view • q quit"))

	case browseStateDetail:
		s := browseSections[m.selected]
		b.WriteString(s.body(m.rep))
		b.WriteString("\n")
		b.WriteString(browseHelpStyle.Render("esc back • q quit"))
	}

	return b.String()
}

func viewModuleInfo(r *report.AnalysisReport) string {
	mi := r.ModuleInfo
	return fmt.Sprintf(
		"types=%d imports=%d functions=%d tables=%d memories=%d globals=%d exports=%d custom_sections=%d",
		len(mi.Types), len(mi.Imports), len(mi.Functions), len(mi.Tables), len(mi.Memories), len(mi.Globals), len(mi.Exports), len(mi.CustomSections),
	)
}

func viewCallGraph(r *report.AnalysisReport) string {
	var b strings.Builder
	for _, n := range r.CallGraph.Nodes {
		fmt.Fprintf(&b, "%d %s calls=%d\n", n.FunctionIndex, n.Name, n.CallCount)
	}
	fmt.Fprintf(&b, "unreachable: %v\n", r.CallGraph.UnreachableFuncs)
	return b.String()
}

func viewMemoryAnalysis(r *report.AnalysisReport) string {
	var b strings.Builder
	ops := r.MemoryAnalysis.Operations
	fmt.Fprintf(&b, "load=%d store=%d grow=%d size=%d copy=%d fill=%d init=%d\n",
		ops.Load, ops.Store, ops.Grow, ops.Size, ops.Copy, ops.Fill, ops.Init)
	fmt.Fprintf(&b, "allocation profile: %s\n", r.MemoryAnalysis.AllocationProfile.Type)
	for _, h := range r.MemoryAnalysis.Hotspots {
		fmt.Fprintf(&b, "hotspot: %s (%d ops, %s)\n", h.Name, h.OpCount, h.Kind)
	}
	for _, o := range r.MemoryAnalysis.PotentialOverflows {
		fmt.Fprintf(&b, "potential overflow: %s\n", o)
	}
	for _, note := range r.MemoryAnalysis.SafetyNotes {
		fmt.Fprintf(&b, "safety note: %s\n", note)
	}
	return b.String()
}

func viewSecurityAnalysis(r *report.AnalysisReport) string {
	var b strings.Builder
	for _, c := range r.SecurityAnalysis.Capabilities {
		fmt.Fprintf(&b, "%s (%s): %s\n", c.Name, c.RiskLevel, c.Description)
	}
	for _, v := range r.SecurityAnalysis.Vulnerabilities {
		fmt.Fprintf(&b, "vulnerability: %s (%s)\n", v.Description, v.RiskLevel)
	}
	return b.String()
}

func viewPerformance(r *report.AnalysisReport) string {
	p := r.PerformanceMetrics
	var b strings.Builder
	fmt.Fprintf(&b, "module_size=%d code_size=%d avg_fn_size=%.1f complexity=%.1f cold_start_ms=%.1f\n",
		p.ModuleSize, p.CodeSize, p.AverageFunctionSize, p.ComplexityScore, p.ColdStartEstimateMs)
	for _, s := range p.OptimizationSuggestions {
		fmt.Fprintf(&b, "suggestion: %s\n", s)
	}
	return b.String()
}

func viewCompatibility(r *report.AnalysisReport) string {
	c := r.Compatibility
	var b strings.Builder
	fmt.Fprintf(&b, "detected language: %s\n", orUnknown(c.DetectedLanguage))
	fmt.Fprintf(&b, "wasmtime=%v wasmer=%v browser=%v node=%v deno=%v cloudflare=%v\n",
		c.Wasmtime.Compatible, c.Wasmer.Compatible, c.Browser.Compatible, c.NodeJS.Compatible, c.Deno.Compatible, c.CloudflareWorkers.Compatible)
	return b.String()
}
