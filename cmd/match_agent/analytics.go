package main

import (
	"github.com/spf13/cobra"
)

var distributionCmd = &cobra.Command{
	Use:   "distribution",
	Short: "Summarize the score distribution of a job's matches",
	RunE:  runDistribution,
}

var skillGapsCmd = &cobra.Command{
	Use:   "skill-gaps",
	Short: "Report job skills that less than half of the matched candidates hold",
	RunE:  runSkillGaps,
}

var (
	analyticsJobID  string
	analyticsOutput string
)

func init() {
	rootCmd.AddCommand(distributionCmd)
	rootCmd.AddCommand(skillGapsCmd)

	for _, c := range []*cobra.Command{distributionCmd, skillGapsCmd} {
		c.Flags().StringVarP(&analyticsJobID, "job", "j", "", "Job ID")
		c.Flags().StringVarP(&analyticsOutput, "out", "o", "", "Write the report JSON to this file instead of stdout")
	}
}

func runDistribution(cmd *cobra.Command, _ []string) error {
	jobID, err := parseID("job", analyticsJobID)
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
	d, err := a.svc.Distribution(ctx, jobID)
	if err != nil {
		return err
	}

	if verbose {
		a.printer(cmd.OutOrStdout()).PrintDistribution(d)
		if analyticsOutput == "" {
			return nil
		}
	}
	return writeJSON(cmd.OutOrStdout(), analyticsOutput, d)
}

func runSkillGaps(cmd *cobra.Command, _ []string) error {
	jobID, err := parseID("job", analyticsJobID)
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
	report, err := a.svc.SkillGaps(ctx, jobID)
	if err != nil {
		return err
	}

	if verbose {
		a.printer(cmd.OutOrStdout()).PrintSkillGaps(report)
		if analyticsOutput == "" {
			return nil
		}
	}
	return writeJSON(cmd.OutOrStdout(), analyticsOutput, report)
}
