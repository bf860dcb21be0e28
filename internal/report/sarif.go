package report

import (
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/BlueVenn6/image-quality-checker/internal/inspect"
)

const toolURI = "https://github.com/BlueVenn6/image-quality-checker"

// ruleDescriptions are the SARIF rule texts, one per finding kind. They
// are deliberately English: SARIF consumers are CI systems, not people
// picking a report language.
var ruleDescriptions = map[inspect.FindingKind]string{
	inspect.FindingCorruptFile:       "File has a recognized or missing signature but could not be decoded",
	inspect.FindingUnsupportedFormat: "No known image signature matched the file content",
	inspect.FindingExtensionMismatch: "Declared file extension disagrees with the content-detected format",
	inspect.FindingLowResolution:     "Image width or height is below the configured floor",
	inspect.FindingLowJPEGQuality:    "Estimated JPEG encoder quality is below the configured floor",
}

// WriteSARIF writes the run as a SARIF 2.1.0 document for code-scanning
// ingestion: one rule per finding kind, one result per finding.
func WriteSARIF(w io.Writer, p Payload) error {
	doc, err := sarif.New(sarif.Version210)
	if err != nil {
		return fmt.Errorf("failed to create SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI("imgcheck", toolURI)

	seen := map[inspect.FindingKind]bool{}
	for _, res := range p.Results {
		for _, f := range res.Findings {
			if !seen[f.Kind] {
				seen[f.Kind] = true
				run.AddRule(string(f.Kind)).
					WithDescription(ruleDescriptions[f.Kind]).
					WithDefaultConfiguration(&sarif.ReportingConfiguration{
						Level: toSarifLevel(f.Severity),
					})
			}

			location := sarif.NewLocation().WithPhysicalLocation(
				sarif.NewPhysicalLocation().
					WithArtifactLocation(sarif.NewArtifactLocation().WithUri(res.Path)),
			)
			result := sarif.NewRuleResult(string(f.Kind)).
				WithMessage(sarif.NewTextMessage(sarifMessage(f))).
				WithLevel(toSarifLevel(f.Severity)).
				WithLocations([]*sarif.Location{location})
			run.AddResult(result)
		}
	}

	doc.AddRun(run)
	return doc.PrettyWrite(w)
}

// sarifMessage folds a finding's evidence into one stable English line.
func sarifMessage(f inspect.Finding) string {
	switch {
	case f.Observed != "" && f.Threshold != "":
		return fmt.Sprintf("%s: observed %s, threshold %s", f.Kind, f.Observed, f.Threshold)
	case f.Observed != "":
		return fmt.Sprintf("%s: %s", f.Kind, f.Observed)
	default:
		return string(f.Kind)
	}
}

func toSarifLevel(s inspect.Severity) string {
	switch s {
	case inspect.SeverityError:
		return "error"
	case inspect.SeverityWarn:
		return "warning"
	default:
		return "note"
	}
}
