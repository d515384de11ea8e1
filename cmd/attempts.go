package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillcheck/internal/store"
)

var attemptsCmd = &cobra.Command{
	Use:   "attempts",
	Short: "Browse recorded assessment attempts",
}

var attemptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List attempts, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		learner, _ := cmd.Flags().GetString("learner")
		skillID, _ := cmd.Flags().GetString("skill")
		limit, _ := cmd.Flags().GetInt("limit")
		if learner == "" {
			learner = os.Getenv("USER")
		}

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		attempts, err := s.Attempts().List(cmd.Context(), store.AttemptFilter{
			LearnerID: learner,
			SkillID:   skillID,
			Limit:     limit,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(attempts) == 0 {
			fmt.Fprintln(out, "No attempts found.")
			return nil
		}

		fmt.Fprintf(out, "%-19s  %-20s  %-16s  %-10s  %5s  %-6s  %-8s  %s\n",
			"Submitted", "Skill", "Learner", "Level", "Score", "Passed", "Adaptive", "Difficulty")
		fmt.Fprintln(out, strings.Repeat("─", 110))
		for _, a := range attempts {
			passed := "no"
			if a.Passed {
				passed = "yes"
			}
			adaptive := "no"
			if a.AdaptiveMode {
				adaptive = "yes"
			}
			path := make([]string, len(a.DifficultyPath))
			for i, l := range a.DifficultyPath {
				path[i] = l.String()
			}
			fmt.Fprintf(out, "%-19s  %-20s  %-16s  %-10s  %5d  %-6s  %-8s  %s\n",
				a.SubmittedAt.Local().Format("2006-01-02 15:04:05"),
				truncate(a.SkillID, 20),
				truncate(a.LearnerID, 16),
				a.Proficiency,
				a.FinalScore,
				passed,
				adaptive,
				strings.Join(path, " → "),
			)
		}
		fmt.Fprintf(out, "\n%d attempts\n", len(attempts))
		return nil
	},
}

func init() {
	attemptsListCmd.Flags().String("learner", "", "Learner ID (defaults to $USER)")
	attemptsListCmd.Flags().String("skill", "", "Filter by skill ID")
	attemptsListCmd.Flags().IntP("limit", "n", 20, "Number of attempts to show")

	attemptsCmd.AddCommand(attemptsListCmd)
}
