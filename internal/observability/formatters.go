// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/profile-optimizer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// barWidth is the width of a score bar
	barWidth = 20
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, boxWidth-4), boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// pad right-pads s with spaces to n runes.
func pad(s string, n int) string {
	if count := utf8.RuneCountInString(s); count < n {
		return s + strings.Repeat(" ", n-count)
	}
	return s
}

// scoreBar renders a 0-100 score as a fixed-width bar.
func scoreBar(score int) string {
	score = max(0, min(100, score))
	filled := score * barWidth / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

func check(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

// listLimited writes up to maxItemsToShow items, noting how many were left out.
func listLimited(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(items), maxItemsToShow)
	sb.WriteString("  " + strings.Join(items[:count], ", ") + "\n")
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}

// PrintScores outputs the overall and per-section scores of a report.
func (p *Printer) PrintScores(report *types.AnalysisReport) {
	if report == nil {
		return
	}

	rows := []struct {
		label string
		score int
	}{
		{"Overall", report.OverallScore},
		{"Headline", report.HeadlineScore},
		{"Summary", report.SummaryScore},
		{"Experience", report.ExperienceScore},
		{"Skills", report.SkillsScore},
		{"Readability", report.ReadabilityScore},
		{"Completeness", report.StructureAnalysis.CompletenessScore},
	}

	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("%-12s %3d  %s\n", row.label, row.score, scoreBar(row.score)))
	}
	if !report.GeneratedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("\nGenerated: %s\n", report.GeneratedAt.UTC().Format("2006-01-02 15:04:05 MST")))
	}

	p.printBox("PROFILE SCORES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintStructure outputs which profile sections are present.
func (p *Printer) PrintStructure(structure types.StructureAnalysisResult) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s Headline    %s Summary    %s Experience\n",
		check(structure.HasHeadline), check(structure.HasSummary), check(structure.HasExperience)))
	sb.WriteString(fmt.Sprintf("%s Skills      %s Education\n", check(structure.HasSkills), check(structure.HasEducation)))
	sb.WriteString(fmt.Sprintf("\nCompleteness: %d%%", structure.CompletenessScore))

	p.printBox("PROFILE STRUCTURE", sb.String())
}

// PrintKeywords outputs the keyword gap analysis.
func (p *Printer) PrintKeywords(keywords types.KeywordAnalysisResult) {
	var sb strings.Builder
	listLimited(&sb, "Missing", keywords.MissingKeywords)
	listLimited(&sb, "Underused", keywords.UnderusedKeywords)
	listLimited(&sb, "Industry terms", keywords.IndustryKeywords)

	if sb.Len() == 0 {
		sb.WriteString("No keyword gaps found")
	}
	p.printBox("KEYWORD ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSuggestions outputs the report's suggestions in priority order.
func (p *Printer) PrintSuggestions(suggestions []types.Suggestion) {
	if len(suggestions) == 0 {
		p.printBox("SUGGESTIONS", "✅ Nothing to improve")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d suggestions:\n\n", len(suggestions)))

	count := min(len(suggestions), maxItemsToShow*2)
	for i := 0; i < count; i++ {
		s := suggestions[i]
		sb.WriteString(fmt.Sprintf("[%s] %s\n", strings.ToUpper(string(s.Priority)), s.Type))
		sb.WriteString(fmt.Sprintf("  %s\n", s.Suggestion))
		if s.Example != "" {
			sb.WriteString(fmt.Sprintf("  e.g. %s\n", s.Example))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(suggestions) > count {
		sb.WriteString(fmt.Sprintf("\n... and %d more suggestions", len(suggestions)-count))
	}

	p.printBox("SUGGESTIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintReport outputs every section of a report.
func (p *Printer) PrintReport(report *types.AnalysisReport) {
	if report == nil {
		return
	}
	p.PrintScores(report)
	p.PrintStructure(report.StructureAnalysis)
	p.PrintKeywords(report.KeywordAnalysis)
	p.PrintSuggestions(report.Suggestions)
}

// PrintMatch outputs a job-match result.
func (p *Printer) PrintMatch(result *types.JobMatchResult) {
	if result == nil {
		return
	}
	content := fmt.Sprintf("Score:    %3d  %s\nMatched:  %d of %d keywords",
		result.Score, scoreBar(result.Score), result.MatchCount, result.TotalKeywords)
	p.printBox("JOB MATCH", content)
}
