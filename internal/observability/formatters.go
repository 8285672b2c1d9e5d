// Package observability provides formatted output utilities for verbose and dry-run CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/shoespec/internal/orchestrator"
	"github.com/jonathan/shoespec/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
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
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad truncates or right-pads a line to the box's inner width in runes.
func pad(line string) string {
	width := boxWidth - 4
	if n := utf8.RuneCountInString(line); n > width {
		return string([]rune(line)[:width-3]) + "..."
	} else if n < width {
		return line + strings.Repeat(" ", width-n)
	}
	return line
}

// PrintResult outputs the outcome of one article and its records.
func (p *Printer) PrintResult(res orchestrator.Result) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Scenario: %s", res.Analysis.Scenario))
	if res.Analysis.Brand != "" {
		sb.WriteString(fmt.Sprintf(" (%s", res.Analysis.Brand))
		if res.Analysis.Model != "" {
			sb.WriteString(" " + res.Analysis.Model)
		}
		sb.WriteString(")")
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("State:    %s\n", res.State))
	sb.WriteString(fmt.Sprintf("Fallback: %s\n", res.Fallback))
	if res.Reason != "" {
		sb.WriteString(fmt.Sprintf("Reason:   %s\n", res.Reason))
	}

	if len(res.Records) > 0 {
		sb.WriteString("\n")
		for i, rec := range res.Records {
			sb.WriteString(fmt.Sprintf("#%d  %s %s\n", i+1, rec.BrandName, rec.Model))
			if line := specLine(rec); line != "" {
				sb.WriteString("    " + line + "\n")
			}
			if use := useLine(rec); use != "" {
				sb.WriteString("    " + use + "\n")
			}
		}
	}

	if len(res.Warnings) > 0 {
		sb.WriteString(fmt.Sprintf("\nWarnings: %d\n", len(res.Warnings)))
		count := min(len(res.Warnings), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", res.Warnings[i]))
		}
		if len(res.Warnings) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(res.Warnings)-maxItemsToShow))
		}
	}

	title := "ARTICLE " + res.ArticleID
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCoverage outputs per-field fill counts for one article.
func (p *Printer) PrintCoverage(report types.CoverageReport) {
	if report.TotalSneakers == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Records:  %d\n", report.TotalSneakers))
	sb.WriteString(fmt.Sprintf("Average:  %.2f%%\n\n", report.AverageCoverage))
	for _, field := range orchestrator.CoverageFields {
		n := report.FieldCoverage[field]
		bar := strings.Repeat("█", n*20/report.TotalSneakers)
		sb.WriteString(fmt.Sprintf("%-20s %-20s %d/%d\n", field, bar, n, report.TotalSneakers))
	}

	p.printBox("COVERAGE", strings.TrimSuffix(sb.String(), "\n"))
}

// RunTotals is the summary shown at the end of a run.
type RunTotals struct {
	Articles  int
	Completed int
	Failed    int
	Records   int
	DryRun    bool
}

// PrintRunSummary outputs the totals of a multi-article run.
func (p *Printer) PrintRunSummary(t RunTotals) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Articles:  %d\n", t.Articles))
	sb.WriteString(fmt.Sprintf("Completed: %d\n", t.Completed))
	sb.WriteString(fmt.Sprintf("Failed:    %d\n", t.Failed))
	sb.WriteString(fmt.Sprintf("Records:   %d", t.Records))
	if t.DryRun {
		sb.WriteString("\n\nDry run: nothing was written")
	}
	p.printBox("RUN SUMMARY", sb.String())
}

func specLine(r types.SpecRecord) string {
	var parts []string
	if r.HeelHeight != nil || r.ForefootHeight != nil {
		parts = append(parts, fmt.Sprintf("stack %s/%s mm", num(r.HeelHeight), num(r.ForefootHeight)))
	}
	if r.Drop != nil {
		parts = append(parts, fmt.Sprintf("drop %s mm", num(r.Drop)))
	}
	if r.Weight != nil {
		parts = append(parts, fmt.Sprintf("%s g", num(r.Weight)))
	}
	if r.Price != nil {
		parts = append(parts, fmt.Sprintf("$%s", num(r.Price)))
	}
	return strings.Join(parts, ", ")
}

func useLine(r types.SpecRecord) string {
	var parts []string
	for _, s := range []string{r.SurfaceType, r.PrimaryUse, r.CushioningType} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	if r.CarbonPlate != nil && *r.CarbonPlate {
		parts = append(parts, "carbon plate")
	}
	if r.Waterproof != nil && *r.Waterproof {
		parts = append(parts, "waterproof")
	}
	return strings.Join(parts, ", ")
}

func num(v *float64) string {
	if v == nil {
		return "?"
	}
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", *v), "0"), ".")
}
