package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/BlueVenn6/image-quality-checker/internal/inspect"
)

// WriteCSV writes two tables: one row per file, then one row per
// finding. Headers and values are stable identifiers regardless of any
// report language, so the output is safe to diff and ingest.
func WriteCSV(w io.Writer, p Payload) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{
		"path", "declared_extension", "detected_format",
		"width", "height", "size_bytes",
		"jpeg_quality_estimate", "quality_confidence",
		"color_mode", "findings",
	}); err != nil {
		return err
	}
	for _, r := range p.Results {
		if err := cw.Write(resultRow(r)); err != nil {
			return err
		}
	}

	if err := cw.Write([]string{""}); err != nil {
		return err
	}
	if err := cw.Write([]string{
		"path", "kind", "severity", "message_code", "observed", "threshold",
	}); err != nil {
		return err
	}
	for _, r := range p.Results {
		for _, f := range r.Findings {
			if err := cw.Write([]string{
				r.Path, string(f.Kind), f.Severity.String(),
				f.MessageCode, f.Observed, f.Threshold,
			}); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func resultRow(r inspect.FileResult) []string {
	width, height := "", ""
	if r.HasDimensions() {
		width = strconv.Itoa(r.Width)
		height = strconv.Itoa(r.Height)
	}
	quality := ""
	if r.QualityScore != nil {
		quality = strconv.FormatFloat(*r.QualityScore, 'f', 1, 64)
	}
	return []string{
		r.Path,
		r.DeclaredExtension,
		r.DetectedFormat.String(),
		width,
		height,
		strconv.FormatInt(r.SizeBytes, 10),
		quality,
		r.QualityConfidence.String(),
		r.ColorMode,
		strconv.Itoa(len(r.Findings)),
	}
}
