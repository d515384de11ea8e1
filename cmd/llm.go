package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded LLM requests",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		verbose, _ := cmd.Flags().GetBool("verbose")

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		reqs, err := s.LLMRequests().List(cmd.Context(), limit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(reqs) == 0 {
			fmt.Fprintln(out, "No LLM requests recorded.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-19s  %-12s  %-28s  %-6s  %-6s  %-7s  %s\n",
			"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
		fmt.Fprintln(out, strings.Repeat("─", 100))

		for _, r := range reqs {
			if purpose != "" && r.Purpose != purpose {
				continue
			}
			ok := "✓"
			if !r.Success {
				ok = "✗"
			}
			fmt.Fprintf(out, "%-5d  %-19s  %-12s  %-28s  %-6d  %-6d  %-7d  %s\n",
				r.ID,
				r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				r.Purpose,
				truncate(r.Model, 28),
				r.InputTokens,
				r.OutputTokens,
				r.LatencyMs,
				ok,
			)
			if verbose && r.ErrorMessage != "" {
				fmt.Fprintf(out, "       error: %s\n", r.ErrorMessage)
			}
		}
		return nil
	},
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (question-set or grading)")
	llmListCmd.Flags().BoolP("verbose", "v", false, "Show error messages of failed requests")

	llmCmd.AddCommand(llmListCmd)
}
