package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillcheck/internal/questionbank"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Browse the skill catalog",
}

var skillsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all skills in the question bank",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		bank, err := questionbank.LoadBank(cfg.BankPath, questionbank.DefaultConfig())
		if err != nil {
			return fmt.Errorf("load question bank: %w", err)
		}
		skills, err := bank.All(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-24s  %-32s  %9s  %s\n", "ID", "Name", "Questions", "Keywords")
		fmt.Fprintln(out, strings.Repeat("─", 96))
		for _, s := range skills {
			name := s.Name
			if len(name) > 32 {
				name = name[:29] + "..."
			}
			fmt.Fprintf(out, "%-24s  %-32s  %9d  %s\n",
				s.ID, name, bank.ItemCount(s.ID), strings.Join(s.Keywords, ", "))
		}
		fmt.Fprintf(out, "\n%d skills\n", len(skills))
		return nil
	},
}

func init() {
	skillsCmd.AddCommand(skillsListCmd)
}
