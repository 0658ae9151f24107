package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/furkankose17/cv-sorting-project-sub001/internal/matching"
	"github.com/furkankose17/cv-sorting-project-sub001/internal/schemas"
	"github.com/furkankose17/cv-sorting-project-sub001/internal/types"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score, rank and store the candidates for a job",
	Long: `Scores every eligible candidate against the job, drops matches below the
minimum score, ranks the rest and stores them. An optional request file can override
the weights, the minimum score and add filter criteria.`,
	RunE: runMatch,
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run matching for several jobs",
	Long: `Runs matching for every listed job. A failing job is reported and does not stop
the others. Without --jobs, every job of the --data file is matched.`,
	RunE: runBatch,
}

var (
	matchJobID       string
	matchRequestFile string
	matchMinScore    float64
	matchOutput      string

	batchJobIDs string
	batchOutput string
)

func init() {
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(batchCmd)

	matchCmd.Flags().StringVarP(&matchJobID, "job", "j", "", "Job ID to match")
	matchCmd.Flags().StringVarP(&matchRequestFile, "request", "r", "", "Path to a match request JSON file")
	matchCmd.Flags().Float64Var(&matchMinScore, "min-score", 0, "Minimum composite score (0-100); overrides the request file")
	matchCmd.Flags().StringVarP(&matchOutput, "out", "o", "", "Write the result JSON to this file instead of stdout")

	if err := matchCmd.MarkFlagRequired("job"); err != nil {
		panic(fmt.Sprintf("failed to mark job flag as required: %v", err))
	}

	batchCmd.Flags().StringVar(&batchJobIDs, "jobs", "", "Comma-separated job IDs")
	batchCmd.Flags().StringVarP(&batchOutput, "out", "o", "", "Write the result JSON to this file instead of stdout")
}

func runMatch(cmd *cobra.Command, _ []string) error {
	jobID, err := parseID("job", matchJobID)
	if err != nil {
		return err
	}

	req := &types.MatchRunRequest{}
	if matchRequestFile != "" {
		data, err := schemas.ValidateFile(schemas.MatchRequest, matchRequestFile)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(data, req); err != nil {
			return fmt.Errorf("failed to parse match request: %w", err)
		}
	}
	if cmd.Flags().Changed("min-score") {
		minScore := matchMinScore
		req.MinScore = &minScore
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid match request: %w", err)
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.svc.CalculateMatches(ctx, jobID, matching.OptionsFromRequest(req))
	if err != nil {
		return err
	}

	if verbose {
		a.printer(cmd.OutOrStdout()).PrintRun(res)
		if matchOutput == "" {
			return nil
		}
	}
	return writeJSON(cmd.OutOrStdout(), matchOutput, res)
}

func runBatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	var jobIDs []uuid.UUID
	switch {
	case batchJobIDs != "":
		for _, raw := range strings.Split(batchJobIDs, ",") {
			id, err := parseID("jobs", strings.TrimSpace(raw))
			if err != nil {
				return err
			}
			jobIDs = append(jobIDs, id)
		}
	case a.data != nil:
		for _, j := range a.data.Jobs {
			jobIDs = append(jobIDs, j.ID)
		}
	default:
		return fmt.Errorf("--jobs is required when reading from the database")
	}

	res, err := a.svc.BatchMatch(ctx, jobIDs, matching.RunOptions{})
	if err != nil {
		return err
	}

	if verbose {
		a.printer(cmd.OutOrStdout()).PrintBatch("BATCH MATCH", res)
		if batchOutput == "" {
			return nil
		}
	}
	return writeJSON(cmd.OutOrStdout(), batchOutput, res)
}
