package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"mvg/internal/guide"
)

// Demo styles, kept simple: a header bar, scenario titles, and muted
// analysis lines.
var (
	demoHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#8BC34A")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			PaddingBottom(1)

	demoScenarioStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#2196F3"))

	demoQueryStyle = lipgloss.NewStyle().
			Italic(true).
			PaddingLeft(2)

	demoMetaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999")).
			PaddingLeft(2)

	demoBlockStyle = lipgloss.NewStyle().
			PaddingLeft(2)
)

// The scenarios walk one user from shortcut-seeking to verification,
// showing how the memory-driven trend changes the responses.
var demoScenarios = []struct {
	name  string
	query string
}{
	{
		name:  "First interaction - Homework Shortcut (Lazy)",
		query: "Write my essay about climate change. It's due tomorrow and I haven't started.",
	},
	{
		name:  "Second interaction - Still seeking shortcuts",
		query: "Can you just solve these math problems? I have 5 more assignments due.",
	},
	{
		name:  "Third interaction - Shows some learning",
		query: "I tried the first problem like you suggested. I got the concept but I'm stuck on how to apply it to this other case.",
	},
	{
		name:  "Fourth interaction - Advanced request with verification",
		query: "I've analyzed this algorithm and think it's O(n log n). Can you verify my reasoning? I considered the recursion depth and the loop within.",
	},
}

var demoReasoning bool

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Walk through a four-interaction user journey",
	Long: `Runs a scripted journey of one user across four interactions,
from shortcut-seeking to independent verification, printing each
response and the analysis summary so the adaptation is visible.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := buildGuide(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, demoHeaderStyle.Render("MVG (Minimum Viable Guide) v"+cfg.Version+" - Demonstration\nWith memory, pattern analysis, and adaptive responses"))

		const userID = "student_001"
		for i, sc := range demoScenarios {
			fmt.Fprintln(out)
			fmt.Fprintln(out, demoScenarioStyle.Render(fmt.Sprintf("INTERACTION %d: %s", i+1, sc.name)))
			fmt.Fprintln(out, demoQueryStyle.Render("USER: "+sc.query))
			fmt.Fprintln(out)

			result, err := g.ProcessRequest(cmd.Context(), sc.query, userID)
			if err != nil {
				return err
			}

			resp := result.Response
			if rendered, rerr := renderMarkdown(resp); rerr == nil {
				resp = rendered
			}
			fmt.Fprintln(out, demoBlockStyle.Render(strings.TrimRight(resp, "\n")))
			fmt.Fprintln(out)
			fmt.Fprintln(out, demoMetaStyle.Render(analysisSummary(result)))

			if demoReasoning {
				fmt.Fprintln(out)
				fmt.Fprintln(out, demoMetaStyle.Render(result.ReasoningLog))
			}
		}
		return nil
	},
}

func analysisSummary(result guide.Result) string {
	meta := result.Metadata

	status := "PROCEED"
	if !meta.EthicalEvaluation.ShouldProceed {
		status = "REDIRECT"
	}

	lines := []string{
		"ANALYSIS SUMMARY:",
		fmt.Sprintf("  interaction #%d", meta.InteractionNumber),
		fmt.Sprintf("  capability: %s (%d/100), trend %s", meta.Capability.Level, meta.Capability.Score, meta.Capability.Trend),
		fmt.Sprintf("  motivation: %s", meta.IntentAnalysis.Motivation),
		fmt.Sprintf("  ethical status: %s", status),
	}
	if len(meta.EthicalEvaluation.Concerns) > 0 {
		lines = append(lines, "  concerns: "+strings.Join(meta.EthicalEvaluation.Concerns, ", "))
	}
	lines = append(lines, "  independence impact: "+meta.IndependenceImpact)
	return strings.Join(lines, "\n")
}

func init() {
	demoCmd.Flags().BoolVar(&demoReasoning, "reasoning", false, "print the reasoning log for each interaction")
}
