package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BlueVenn6/image-quality-checker/internal/inspect"
	"github.com/BlueVenn6/image-quality-checker/pkg/imgformat"
)

// ReportFileName is the fixed name of the plain-text report dropped next
// to the scanned files.
const ReportFileName = "quality_report.txt"

// WriteReportFile saves a plain-text rendering of the run into dir and
// returns the written path. The content mirrors the console report minus
// any styling, so it opens cleanly anywhere.
func WriteReportFile(dir string, p Payload, c *Catalog) (string, error) {
	path := filepath.Join(dir, ReportFileName)
	if err := os.WriteFile(path, []byte(PlainText(p, c)), 0o644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}
	return path, nil
}

// PlainText renders the localized report without ANSI styling.
func PlainText(p Payload, c *Catalog) string {
	var b strings.Builder

	title := c.Get("title")
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n")
	fmt.Fprintf(&b, "%s: %s\n", c.Get("scan_path"), p.ScanPath)
	fmt.Fprintf(&b, "%s: %d\n", c.Get("file_count"), p.TotalFiles)

	for _, r := range p.Results {
		b.WriteString("\n" + r.Path + "\n")
		for _, row := range detailRows(r, c) {
			fmt.Fprintf(&b, "  %s: %s\n", row.label, row.value)
		}
		if r.DetectedFormat == imgformat.FormatPNG && r.DecodeError == "" {
			fmt.Fprintf(&b, "  + %s\n", c.Get("genuine_png"))
		}
		for _, f := range r.Findings {
			fmt.Fprintf(&b, "  %s %s\n", plainMark(f.Severity), c.FindingMessage(f))
		}
	}

	b.WriteString("\n" + c.Get("summary") + "\n")
	b.WriteString(strings.Repeat("-", len(c.Get("summary"))) + "\n")
	fmt.Fprintf(&b, "%s: %d\n", c.Get("file_count"), p.TotalFiles)
	fmt.Fprintf(&b, "%s: %d\n", c.Get("warnings_found"), p.Counts.Warn)
	fmt.Fprintf(&b, "%s: %d\n", c.Get("errors_found"), p.Counts.Error)
	fmt.Fprintf(&b, "%s: %s\n", c.Get("status"), p.Status.String())
	if p.Status == inspect.StatusPass {
		b.WriteString(c.Get("all_passed") + "\n")
	} else {
		b.WriteString(c.Get("recommendation") + "\n")
	}

	return b.String()
}

func plainMark(s inspect.Severity) string {
	switch s {
	case inspect.SeverityError:
		return "[x]"
	case inspect.SeverityWarn:
		return "[!]"
	default:
		return "[-]"
	}
}
