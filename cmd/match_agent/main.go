// Package main provides the match_agent CLI: candidate/job matching, analytics and the REST API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "match_agent",
	Short: "Candidate matching engine",
	Long: "match_agent scores candidates against job requirements, ranks them, explains individual matches " +
		"and reports score distributions and skill gaps. Data comes from a JSON dataset file or PostgreSQL.",
	SilenceUsage: true,
}

var (
	configPath string
	dataPath   string
	logLevel   string
	verbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a JSON or YAML config file")
	rootCmd.PersistentFlags().StringVarP(&dataPath, "data", "d", "", "Path to a dataset JSON file; when unset, database_url is used")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print human-readable summaries instead of JSON")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
