// Package export renders shortlisting results as an Excel workbook.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonathan/cv-shortlister/internal/types"
	"github.com/xuri/excelize/v2"
)

// Sheet names
const (
	SummarySheet    = "Summary"
	CandidatesSheet = "Ranked Candidates"
)

// score band lower bounds, inclusive
const (
	excellentScore = 90.0
	goodScore      = 70.0
	fairScore      = 50.0
)

// band fills used on the candidates sheet
var bandColors = map[string]string{
	"excellent": "C6EFCE",
	"good":      "FFEB9C",
	"fair":      "FFC7CE",
	"poor":      "FF9999",
}

var thinBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
}

func scoreBand(score float64) string {
	switch {
	case score >= excellentScore:
		return "excellent"
	case score >= goodScore:
		return "good"
	case score >= fairScore:
		return "fair"
	default:
		return "poor"
	}
}

// ExportToExcel writes the workbook to path, adding the .xlsx extension if missing.
// It returns the path actually written.
func ExportToExcel(path string, job *types.Job, results []types.ShortlistResult) (string, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	path = filepath.Clean(path)

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = out.Close() }()

	if err := WriteShortlist(out, job, results); err != nil {
		return "", err
	}
	return path, out.Close()
}

// WriteShortlist writes a workbook with a summary sheet and the ranked candidates.
// Results are expected in rank order.
func WriteShortlist(w io.Writer, job *types.Job, results []types.ShortlistResult) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}
	if _, err := f.NewSheet(CandidatesSheet); err != nil {
		return fmt.Errorf("failed to add candidates sheet: %w", err)
	}

	if err := writeSummarySheet(f, job, results); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeCandidatesSheet(f, results); err != nil {
		return fmt.Errorf("failed to create ranked candidates sheet: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// sheetWriter keeps the first error of a run of cell writes
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (s *sheetWriter) set(cell string, value any) {
	if s.err == nil {
		s.err = s.f.SetCellValue(s.sheet, cell, value)
	}
}

func (s *sheetWriter) style(from, to string, style int) {
	if s.err == nil {
		s.err = s.f.SetCellStyle(s.sheet, from, to, style)
	}
}

func writeSummarySheet(f *excelize.File, job *types.Job, results []types.ShortlistResult) error {
	sw := &sheetWriter{f: f, sheet: SummarySheet}

	if err := f.SetColWidth(SummarySheet, "A", "A", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(SummarySheet, "B", "B", 50); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	row := 1
	header := func(title string) {
		a, b := fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row)
		sw.set(a, title)
		sw.style(a, b, headerStyle)
		if sw.err == nil {
			sw.err = f.MergeCell(SummarySheet, a, b)
		}
		row++
	}
	line := func(label string, value any) {
		a := fmt.Sprintf("A%d", row)
		sw.set(a, label)
		sw.style(a, a, labelStyle)
		sw.set(fmt.Sprintf("B%d", row), value)
		row++
	}

	header("Shortlist Report")
	row++

	if job != nil {
		line("Job Title:", job.Title)
		line("Job ID:", job.ID.String())
	}
	line("Generated:", time.Now().Format("2006-01-02 15:04:05"))
	line("Candidates Scored:", len(results))

	shortlisted := 0
	for _, r := range results {
		if r.Shortlisted {
			shortlisted++
		}
	}
	line("Shortlisted:", shortlisted)
	row++

	if len(results) == 0 {
		return sw.err
	}

	header("Statistics")

	counts := map[string]int{}
	total, lowest, highest := 0.0, results[0].Score, results[0].Score
	for _, r := range results {
		counts[scoreBand(r.Score)]++
		total += r.Score
		lowest = min(lowest, r.Score)
		highest = max(highest, r.Score)
	}

	line("Excellent (90-100):", counts["excellent"])
	line("Good (70-89):", counts["good"])
	line("Fair (50-69):", counts["fair"])
	line("Poor (<50):", counts["poor"])
	row++

	line("Average Score:", fmt.Sprintf("%.2f", total/float64(len(results))))
	line("Highest Score:", fmt.Sprintf("%.2f", highest))
	line("Lowest Score:", fmt.Sprintf("%.2f", lowest))

	return sw.err
}

func writeCandidatesSheet(f *excelize.File, results []types.ShortlistResult) error {
	sw := &sheetWriter{f: f, sheet: CandidatesSheet}

	widths := map[string]float64{"A": 8, "B": 25, "C": 30, "D": 12, "E": 12, "F": 80}
	for col, width := range widths {
		if err := f.SetColWidth(CandidatesSheet, col, col, width); err != nil {
			return err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder,
	})
	if err != nil {
		return err
	}

	bandStyles := make(map[string]int, len(bandColors))
	for band, color := range bandColors {
		style, err := f.NewStyle(&excelize.Style{
			Fill:   excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Border: thinBorder,
		})
		if err != nil {
			return err
		}
		bandStyles[band] = style
	}

	headers := []string{"Rank", "Candidate", "Email", "Score", "Shortlisted", "Rationale"}
	for col, h := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+col)))
		sw.set(cell, h)
		sw.style(cell, cell, headerStyle)
	}

	for i, r := range results {
		row := i + 2
		shortlisted := "No"
		if r.Shortlisted {
			shortlisted = "Yes"
		}

		sw.set(fmt.Sprintf("A%d", row), r.Rank)
		sw.set(fmt.Sprintf("B%d", row), r.CandidateName)
		sw.set(fmt.Sprintf("C%d", row), r.CandidateEmail)
		sw.set(fmt.Sprintf("D%d", row), fmt.Sprintf("%.1f", r.Score))
		sw.set(fmt.Sprintf("E%d", row), shortlisted)
		sw.set(fmt.Sprintf("F%d", row), r.Rationale)
		sw.style(fmt.Sprintf("A%d", row), fmt.Sprintf("F%d", row), bandStyles[scoreBand(r.Score)])
	}
	if sw.err != nil {
		return sw.err
	}

	if len(results) > 0 {
		if err := f.AutoFilter(CandidatesSheet, fmt.Sprintf("A1:F%d", len(results)+1), []excelize.AutoFilterOptions{}); err != nil {
			return err
		}
	}

	return f.SetPanes(CandidatesSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
