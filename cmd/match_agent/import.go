package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/furkankose17/cv-sorting-project-sub001/internal/dataset"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load a dataset file into PostgreSQL",
	Long: `Validates the --data file and upserts its jobs and candidates into the database
named by database_url. Existing rows with the same IDs are replaced.`,
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, _ []string) error {
	if dataPath == "" {
		return errors.New("--data is required")
	}
	data, err := dataset.Load(dataPath)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return errors.New("database_url (DATABASE_URL) is required")
	}

	ctx := cmd.Context()
	a := &app{cfg: cfg}
	if err := a.connectDB(ctx); err != nil {
		return err
	}
	defer a.Close()

	if err := data.Import(ctx, a.db); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d jobs and %d candidates\n", len(data.Jobs), len(data.Candidates))
	return err
}
