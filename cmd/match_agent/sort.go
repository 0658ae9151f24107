package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/furkankose17/cv-sorting-project-sub001/internal/types"
)

var sortCmd = &cobra.Command{
	Use:   "sort",
	Short: "Order the candidate pool without a job",
	Long: `Orders every candidate by experience, skill depth, education and location
proximity. The result is not stored.`,
	RunE: runSort,
}

var (
	sortLocation string
	sortStatuses string
	sortLimit    int
	sortOutput   string
)

func init() {
	rootCmd.AddCommand(sortCmd)

	sortCmd.Flags().StringVar(&sortLocation, "location", "", "Target location for the proximity factor")
	sortCmd.Flags().StringVar(&sortStatuses, "status", "", "Comma-separated statuses to keep")
	sortCmd.Flags().IntVarP(&sortLimit, "limit", "n", 0, "Maximum number of candidates (0 = all)")
	sortCmd.Flags().StringVarP(&sortOutput, "out", "o", "", "Write the result JSON to this file instead of stdout")
}

func runSort(cmd *cobra.Command, _ []string) error {
	req := &types.SearchRequest{TargetLocation: sortLocation, Limit: sortLimit}
	if sortStatuses != "" {
		for _, s := range strings.Split(sortStatuses, ",") {
			req.Criteria.Statuses = append(req.Criteria.Statuses, types.CandidateStatus(strings.TrimSpace(s)))
		}
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	ranked, err := a.svc.SearchCandidates(ctx, req)
	if err != nil {
		return err
	}

	if verbose {
		a.printer(cmd.OutOrStdout()).PrintRankedCandidates(ranked)
		if sortOutput == "" {
			return nil
		}
	}
	return writeJSON(cmd.OutOrStdout(), sortOutput, ranked)
}
