package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/skillcheck/internal/config"
	"github.com/abhisek/skillcheck/internal/store"
)

var rootCmd = &cobra.Command{
	Use:           "skillcheck",
	Short:         "Adaptive skill assessments",
	Long:          "skillcheck runs adaptive skill assessments from a question bank or an LLM, over HTTP or in the terminal.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SKILLCHECK_DB env var)")
	rootCmd.PersistentFlags().String("bank", "", "Path to the YAML question bank (overrides SKILLCHECK_BANK env var)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(assessCmd)
	rootCmd.AddCommand(attemptsCmd)
	rootCmd.AddCommand(skillsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if p, _ := cmd.Flags().GetString("bank"); p != "" {
		cfg.BankPath = p
	}
	return cfg, nil
}

// resolveDBPath returns the configured database path, or the default XDG
// path when none is set.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// openStore opens the database for read-only commands.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	path, err := resolveDBPath(cfg)
	if err != nil {
		return nil, err
	}
	return store.Open(path)
}
