// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/cv-shortlister/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 10
)

// Printer handles formatted output for CLI commands
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		line = truncate(line, boxWidth-4)
		fmt.Fprintf(p.out, "│ %s%s │\n", line, strings.Repeat(" ", boxWidth-4-len([]rune(line))))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintShortlist outputs the ranked results of a shortlisting run.
func (p *Printer) PrintShortlist(job *types.Job, results []types.ShortlistResult) {
	var sb strings.Builder

	if job != nil {
		sb.WriteString(fmt.Sprintf("Job:  %s\n", job.Title))
		sb.WriteString(fmt.Sprintf("ID:   %s\n", job.ID))
	}
	shortlisted := 0
	for _, r := range results {
		if r.Shortlisted {
			shortlisted++
		}
	}
	sb.WriteString(fmt.Sprintf("Scored: %d   Shortlisted: %d\n", len(results), shortlisted))

	if len(results) == 0 {
		sb.WriteString("\nNo applications to rank.")
		p.printBox("SHORTLIST", sb.String())
		return
	}
	sb.WriteString("\n")

	count := min(len(results), maxItemsToShow)
	for i := 0; i < count; i++ {
		r := results[i]
		mark := " "
		if r.Shortlisted {
			mark = "★"
		}
		sb.WriteString(fmt.Sprintf("%s #%-3d %6.1f  %s", mark, r.Rank, r.Score, r.CandidateName))
		if r.CandidateEmail != "" {
			sb.WriteString(fmt.Sprintf(" <%s>", r.CandidateEmail))
		}
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("        %s\n", r.Rationale))
	}

	if len(results) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more candidates\n", len(results)-maxItemsToShow))
	}

	p.printBox("SHORTLIST", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProfile outputs the features extracted from a CV.
func (p *Printer) PrintProfile(profile *types.Profile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Status:     %s\n", profile.Status))
	if profile.Error != "" {
		sb.WriteString(fmt.Sprintf("Error:      %s\n", profile.Error))
	}
	if profile.YearsOfExperience != nil {
		sb.WriteString(fmt.Sprintf("Experience: %d years\n", *profile.YearsOfExperience))
	} else {
		sb.WriteString("Experience: not found\n")
	}
	sb.WriteString(fmt.Sprintf("Education:  %s\n", profile.EducationLevel.Label()))

	writeList(&sb, "Skills", profile.Skills)
	writeList(&sb, "Certifications", profile.Certifications)

	p.printBox("CV PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCriteria outputs the scoring rubric of a job.
func (p *Printer) PrintCriteria(c *types.JobCriteria) {
	if c == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Job:              %s\n", c.JobID))
	sb.WriteString(fmt.Sprintf("Minimum years:    %d\n", c.MinimumYearsExperience))
	if c.Location != "" {
		sb.WriteString(fmt.Sprintf("Location:         %s\n", c.Location))
	}
	sb.WriteString(fmt.Sprintf("Weights:          skills %.2f, experience %.2f\n", c.Weights.Skills, c.Weights.Experience))
	sb.WriteString(fmt.Sprintf("                  education %.2f, keywords %.2f\n", c.Weights.Education, c.Weights.Keywords))

	levels := make([]string, 0, len(c.RequiredEducationLevels))
	for _, l := range c.RequiredEducationLevels {
		levels = append(levels, l.Label())
	}
	writeList(&sb, "Required skills", c.RequiredSkills)
	writeList(&sb, "Preferred skills", c.PreferredSkills)
	writeList(&sb, "Education", levels)
	writeList(&sb, "Keywords", c.Keywords)

	p.printBox("JOB CRITERIA", strings.TrimSuffix(sb.String(), "\n"))
}

// writeList writes a bulleted section, eliding entries past maxItemsToShow
func writeList(sb *strings.Builder, title string, items []string) {
	sb.WriteString("\n")
	if len(items) == 0 {
		sb.WriteString(fmt.Sprintf("%s: none\n", title))
		return
	}
	sb.WriteString(fmt.Sprintf("%s:\n", title))
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}
