// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/furkankose17/cv-sorting-project-sub001/internal/analytics"
	"github.com/furkankose17/cv-sorting-project-sub001/internal/explain"
	"github.com/furkankose17/cv-sorting-project-sub001/internal/matching"
	"github.com/furkankose17/cv-sorting-project-sub001/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// NameFunc resolves a candidate id to a display name
type NameFunc func(id uuid.UUID) string

// Printer handles formatted output for verbose mode
type Printer struct {
	out  io.Writer
	name NameFunc
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// WithNames returns a copy of the printer that shows candidate names
func (p *Printer) WithNames(name NameFunc) *Printer {
	return &Printer{out: p.out, name: name}
}

func (p *Printer) candidate(id uuid.UUID) string {
	if p.name != nil {
		if n := p.name(id); n != "" {
			return n
		}
	}
	return id.String()[:8]
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRun outputs the top matches of a matching run and the filter steps applied.
func (p *Printer) PrintRun(res *matching.RunResult) {
	if res == nil {
		return
	}
	if !res.Found {
		p.printBox("MATCHING RUN", fmt.Sprintf("Job %s not found", res.JobID))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Evaluated: %d  Matched: %d\n", res.Evaluated, len(res.Matches)))
	sb.WriteString(fmt.Sprintf("Time:      %s\n", res.ProcessingTime.Round(time.Microsecond)))

	for _, step := range res.Steps {
		sb.WriteString(fmt.Sprintf("Filter %-8s %d -> %d\n", step.Name, step.Initial, step.Left))
	}

	if len(res.Matches) > 0 {
		sb.WriteString("\n")
	}
	count := min(len(res.Matches), maxItemsToShow)
	for i := 0; i < count; i++ {
		m := res.Matches[i]
		sb.WriteString(fmt.Sprintf("#%d  %s  %.2f\n", m.Rank, p.candidate(m.CandidateID), m.OverallScore))
		sb.WriteString(fmt.Sprintf("    skill %.0f  exp %.0f  edu %.0f  loc %.0f\n",
			m.SkillScore, m.ExperienceScore, m.EducationScore, m.LocationScore))
	}
	if len(res.Matches) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more matches\n", len(res.Matches)-maxItemsToShow))
	}

	p.printBox("MATCHING RUN", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintExplanation outputs the factor breakdown and tips of a match.
func (p *Printer) PrintExplanation(e *explain.Explanation) {
	if e == nil {
		return
	}
	if !e.Found {
		p.printBox("MATCH EXPLANATION", e.Summary)
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Candidate: %s\n", p.candidate(e.CandidateID)))
	sb.WriteString(fmt.Sprintf("Score:     %.2f (%s, rank %d)\n\n", e.OverallScore, e.Strength, e.Rank))

	for _, f := range e.Factors {
		sb.WriteString(fmt.Sprintf("%-11s %6.2f x %.2f = %6.2f\n", f.Name, f.Score, f.Weight, f.Contribution))
	}

	sb.WriteString(fmt.Sprintf("\nRequired skills: %d matched, %d missing\n", e.MatchedRequiredSkills, e.MissingRequiredSkills))
	if len(e.MissingSkillNames) > 0 {
		sb.WriteString(fmt.Sprintf("Missing: %s\n", strings.Join(e.MissingSkillNames, ", ")))
	}

	if len(e.Tips) > 0 {
		sb.WriteString("\nTips:\n")
		for _, tip := range e.Tips {
			sb.WriteString(fmt.Sprintf("  • %s\n", tip))
		}
	}

	p.printBox("MATCH EXPLANATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDistribution outputs summary statistics and a bar per score bucket.
func (p *Printer) PrintDistribution(d *analytics.Distribution) {
	if d == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Matches: %d\n", d.Count))
	if d.Count > 0 {
		sb.WriteString(fmt.Sprintf("Mean %.2f  Median %.2f  Min %.2f  Max %.2f\n", d.Mean, d.Median, d.Min, d.Max))
	}
	sb.WriteString("\n")

	for _, b := range d.Buckets {
		bar := ""
		if d.Count > 0 {
			bar = strings.Repeat("█", b.Count*12/d.Count)
		}
		sb.WriteString(fmt.Sprintf("%-7s %4d %s\n", b.Label, b.Count, bar))
	}

	p.printBox("SCORE DISTRIBUTION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSkillGaps outputs the coverage of each job skill in the candidate pool.
func (p *Printer) PrintSkillGaps(r *analytics.SkillGapReport) {
	if r == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Pool size: %d  Gaps: %d\n\n", r.PoolSize, len(r.Gaps)))
	for _, s := range r.Skills {
		marker := " "
		if s.Gap {
			marker = "⚠"
		}
		name := s.SkillName
		if name == "" {
			name = s.SkillID
		}
		sb.WriteString(fmt.Sprintf("%s %-28s %3d/%-3d %5.1f%%\n", marker, name, s.Holders, s.PoolSize, s.Coverage*100))
	}

	p.printBox("SKILL GAPS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRankedCandidates outputs the head of a sorted candidate pool.
func (p *Printer) PrintRankedCandidates(ranked []types.RankedCandidate) {
	if len(ranked) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total candidates sorted: %d\n\n", len(ranked)))

	count := min(len(ranked), maxItemsToShow)
	for i := 0; i < count; i++ {
		c := ranked[i]
		name := c.Name
		if name == "" {
			name = p.candidate(c.CandidateID)
		}
		sb.WriteString(fmt.Sprintf("#%d  %s  %.2f\n", c.Rank, name, c.Score))
	}
	if len(ranked) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more candidates\n", len(ranked)-maxItemsToShow))
	}

	p.printBox("SORTED CANDIDATES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintBatch outputs per-item results of a batch operation.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintBatch(title string, r *matching.BatchResult) {
	if r == nil {
		return
	}
	if r.Failed == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, fmt.Sprintf("✅ %s: %d succeeded", title, r.Succeeded))
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Succeeded: %d  Failed: %d\n\n", r.Succeeded, r.Failed))
	for _, it := range r.Items {
		if it.Success {
			continue
		}
		sb.WriteString(fmt.Sprintf("⚠ %s\n", it.ID.String()[:8]))
		sb.WriteString(fmt.Sprintf("  %s\n", it.Error))
	}

	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}
