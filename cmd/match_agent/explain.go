package main

import (
	"github.com/spf13/cobra"
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Explain how a candidate scored for a job",
	Long: `Prints the factor breakdown of a stored match: each factor's score, weight and
contribution, the matched and missing skills, and improvement tips.`,
	RunE: runExplain,
}

var (
	explainJobID       string
	explainCandidateID string
	explainOutput      string
)

func init() {
	rootCmd.AddCommand(explainCmd)

	explainCmd.Flags().StringVarP(&explainJobID, "job", "j", "", "Job ID")
	explainCmd.Flags().StringVar(&explainCandidateID, "candidate", "", "Candidate ID")
	explainCmd.Flags().StringVarP(&explainOutput, "out", "o", "", "Write the explanation JSON to this file instead of stdout")
}

func runExplain(cmd *cobra.Command, _ []string) error {
	jobID, err := parseID("job", explainJobID)
	if err != nil {
		return err
	}
	candidateID, err := parseID("candidate", explainCandidateID)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.ensureMatches(ctx, jobID); err != nil {
		return err
	}
	e, err := a.svc.ExplainPair(ctx, candidateID, jobID)
	if err != nil {
		return err
	}

	if verbose {
		a.printer(cmd.OutOrStdout()).PrintExplanation(e)
		if explainOutput == "" {
			return nil
		}
	}
	return writeJSON(cmd.OutOrStdout(), explainOutput, e)
}
