package report

import (
	"encoding/json"
	"io"

	"github.com/BlueVenn6/image-quality-checker/internal/inspect"
)

// Payload is the machine-readable form of one run. Field names are
// stable identifiers, never localized, and nothing in here depends on
// when or where the run happened: identical inputs serialize to
// identical bytes.
type Payload struct {
	ScanPath   string                 `json:"scan_path"`
	Status     inspect.RunStatus      `json:"status"`
	ExitCode   int                    `json:"exit_code"`
	Worst      inspect.Severity       `json:"worst_severity"`
	Counts     inspect.SeverityCounts `json:"counts_by_severity"`
	TotalFiles int                    `json:"total_files"`
	Results    []inspect.FileResult   `json:"results"`
}

// Build assembles the export payload from aggregator output.
func Build(scanPath string, summary inspect.RunSummary, results []inspect.FileResult) Payload {
	if results == nil {
		results = []inspect.FileResult{}
	}
	return Payload{
		ScanPath:   scanPath,
		Status:     summary.Status,
		ExitCode:   summary.Status.ExitCode(),
		Worst:      summary.Worst,
		Counts:     summary.Counts,
		TotalFiles: summary.TotalFiles,
		Results:    results,
	}
}

// WriteJSON writes the payload as indented JSON.
func WriteJSON(w io.Writer, p Payload) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(p)
}

// ParseJSON reads a payload back from its JSON form.
func ParseJSON(r io.Reader) (Payload, error) {
	var p Payload
	err := json.NewDecoder(r).Decode(&p)
	return p, err
}
