package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var (
	askUserID    string
	askReasoning bool
	askPlain     bool
)

var askCmd = &cobra.Command{
	Use:   "ask [query]",
	Short: "Run a single query through the guide",
	Long: `Processes one query through the full pipeline and prints the
designed response. Use --reasoning to include the step-by-step
reasoning log, and --user to keep memory across repeated invocations
of a server; a one-shot process starts with empty memory.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		g, err := buildGuide(cmd.Context())
		if err != nil {
			return err
		}

		result, err := g.ProcessRequest(cmd.Context(), query, askUserID)
		if err != nil {
			return err
		}

		out := result.Response
		if !askPlain {
			if rendered, rerr := renderMarkdown(out); rerr == nil {
				out = rendered
			}
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		if !strings.HasSuffix(out, "\n") {
			fmt.Fprintln(cmd.OutOrStdout())
		}

		if askReasoning {
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), result.ReasoningLog)
		}
		return nil
	},
}

func renderMarkdown(text string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(text)
}

func init() {
	askCmd.Flags().StringVarP(&askUserID, "user", "u", "default", "user id for memory tracking")
	askCmd.Flags().BoolVarP(&askReasoning, "reasoning", "r", false, "print the reasoning log")
	askCmd.Flags().BoolVar(&askPlain, "plain", false, "disable markdown rendering")
}
