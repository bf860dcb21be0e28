package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/BlueVenn6/image-quality-checker/internal/inspect"
	"github.com/BlueVenn6/image-quality-checker/internal/tui"
	"github.com/BlueVenn6/image-quality-checker/pkg/imgformat"
)

// Render writes the styled console report: a header, one block per file
// with its metadata and localized findings, then the run summary table.
func Render(w io.Writer, p Payload, c *Catalog) {
	fmt.Fprintf(w, "%s\n", headerStyle.Render(c.Get("title")))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render(c.Get("scan_path")+":"), inkStyle.Render(p.ScanPath))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render(c.Get("file_count")+":"), inkStyle.Render(strconv.Itoa(p.TotalFiles)))

	for _, r := range p.Results {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s\n", fileStyle.Render(r.Path))
		for _, row := range detailRows(r, c) {
			fmt.Fprintf(w, "  %s %s\n", labelStyle.Render(row.label+":"), inkStyle.Render(row.value))
		}
		if r.DetectedFormat == imgformat.FormatPNG && r.DecodeError == "" {
			fmt.Fprintf(w, "  %s\n", passStyle.Render("✓ "+c.Get("genuine_png")))
		}
		for _, f := range r.Findings {
			fmt.Fprintf(w, "  %s %s\n", severityMark(f.Severity), inkStyle.Render(c.FindingMessage(f)))
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s\n", headerStyle.Render(c.Get("summary")))
	fmt.Fprintf(w, "%s\n", tui.RenderSummary(summaryRows(p, c)))
	if p.Status == inspect.StatusPass {
		fmt.Fprintf(w, "%s\n", passStyle.Render(c.Get("all_passed")))
	} else {
		fmt.Fprintf(w, "%s\n", warnStyle.Render(c.Get("recommendation")))
	}
}

type detailRow struct {
	label string
	value string
}

// detailRows lists the metadata lines for one file, skipping whatever
// the inspection could not determine.
func detailRows(r inspect.FileResult, c *Catalog) []detailRow {
	var rows []detailRow
	if r.HasDimensions() {
		rows = append(rows, detailRow{c.Get("resolution"), fmt.Sprintf("%d x %d %s", r.Width, r.Height, c.Get("pixels"))})
	}
	if r.SizeBytes > 0 {
		rows = append(rows, detailRow{c.Get("file_size"), fmt.Sprintf("%s %s (%d %s)", formatMB(r.SizeBytes), c.Get("mb"), r.SizeBytes, c.Get("bytes"))})
	}
	if r.ColorMode != "" {
		rows = append(rows, detailRow{c.Get("color_mode"), r.ColorMode})
	}
	rows = append(rows,
		detailRow{c.Get("extension"), r.DeclaredExtension},
		detailRow{c.Get("real_format"), r.DetectedFormat.String()},
	)
	if r.QualityScore != nil {
		rows = append(rows, detailRow{c.Get("jpeg_quality"), fmt.Sprintf("%.1f (%s)", *r.QualityScore, r.QualityConfidence)})
	}
	if r.UncompressedBytes > 0 {
		rows = append(rows, detailRow{c.Get("uncompressed_size"), fmt.Sprintf("%s %s", formatMB(r.UncompressedBytes), c.Get("mb"))})
	}
	if camera := strings.TrimSpace(r.CameraMake + " " + r.CameraModel); camera != "" {
		rows = append(rows, detailRow{c.Get("camera"), camera})
	}
	if r.CapturedAt != "" {
		rows = append(rows, detailRow{c.Get("captured"), r.CapturedAt})
	}
	return rows
}

func summaryRows(p Payload, c *Catalog) []tui.SummaryRow {
	warnTone := lipgloss.TerminalColor(nil)
	if p.Counts.Warn > 0 {
		warnTone = tui.ColorWarn
	}
	errTone := lipgloss.TerminalColor(nil)
	if p.Counts.Error > 0 {
		errTone = tui.ColorError
	}
	return []tui.SummaryRow{
		{Label: c.Get("file_count"), Value: strconv.Itoa(p.TotalFiles)},
		{Label: c.Get("warnings_found"), Value: strconv.Itoa(p.Counts.Warn), Tone: warnTone},
		{Label: c.Get("errors_found"), Value: strconv.Itoa(p.Counts.Error), Tone: errTone},
		{Label: c.Get("status"), Value: p.Status.String(), Tone: statusTone(p.Status)},
	}
}

func statusTone(s inspect.RunStatus) lipgloss.TerminalColor {
	switch s {
	case inspect.StatusError:
		return tui.ColorError
	case inspect.StatusWarn:
		return tui.ColorWarn
	default:
		return tui.ColorSuccess
	}
}

func severityMark(s inspect.Severity) string {
	switch s {
	case inspect.SeverityError:
		return errMarkStyle.Render("✖")
	case inspect.SeverityWarn:
		return warnMarkStyle.Render("⚠")
	default:
		return labelStyle.Render("•")
	}
}

func formatMB(bytes int64) string {
	return strconv.FormatFloat(float64(bytes)/(1024*1024), 'f', 2, 64)
}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(tui.ColorAccent)
	fileStyle     = lipgloss.NewStyle().Bold(true).Foreground(tui.ColorAccent)
	labelStyle    = lipgloss.NewStyle().Foreground(tui.ColorAccentAlt)
	inkStyle      = lipgloss.NewStyle().Foreground(tui.ColorInk)
	passStyle     = lipgloss.NewStyle().Foreground(tui.ColorSuccess)
	warnStyle     = lipgloss.NewStyle().Foreground(tui.ColorWarn)
	warnMarkStyle = lipgloss.NewStyle().Foreground(tui.ColorWarn)
	errMarkStyle  = lipgloss.NewStyle().Foreground(tui.ColorError)
)
