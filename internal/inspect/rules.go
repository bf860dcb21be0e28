package inspect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BlueVenn6/image-quality-checker/pkg/imgformat"
	"github.com/BlueVenn6/image-quality-checker/pkg/jpegquality"
)

// Evaluate applies the rule set to an inspected file and returns its
// findings in a fixed order, so reports stay deterministic. A decode
// failure short-circuits everything except the unsupported-format check:
// resolution and quality rules would only re-state that nothing could be
// read. A threshold of zero disables its rule.
func Evaluate(res FileResult, t Thresholds) []Finding {
	findings := []Finding{}

	corrupt := res.DecodeError != ""
	if corrupt {
		findings = append(findings, Finding{
			Kind:        FindingCorruptFile,
			Severity:    SeverityError,
			MessageCode: MsgCannotOpen,
			Observed:    res.DecodeError,
		})
	}

	if res.DetectedFormat == imgformat.FormatUnknown {
		findings = append(findings, Finding{
			Kind:        FindingUnsupportedFormat,
			Severity:    SeverityWarn,
			MessageCode: MsgUnsupportedFormat,
			Observed:    bareExtension(res.DeclaredExtension),
		})
	}

	if corrupt {
		return findings
	}

	declared := imgformat.FromExtension(res.DeclaredExtension)
	if res.DetectedFormat != imgformat.FormatUnknown && declared != res.DetectedFormat {
		findings = append(findings, Finding{
			Kind:        FindingExtensionMismatch,
			Severity:    SeverityWarn,
			MessageCode: MsgFormatMismatch,
			Observed:    bareExtension(res.DeclaredExtension),
			Threshold:   res.DetectedFormat.String(),
		})
	}

	if res.HasDimensions() && t.MinWidth > 0 && t.MinHeight > 0 {
		// Width and height fail independently; a 10000x1 banner is still
		// below a 1600x1600 floor.
		if res.Width < t.MinWidth || res.Height < t.MinHeight {
			findings = append(findings, Finding{
				Kind:        FindingLowResolution,
				Severity:    SeverityWarn,
				MessageCode: MsgLowResolution,
				Observed:    fmt.Sprintf("%dx%d", res.Width, res.Height),
				Threshold:   fmt.Sprintf("%dx%d", t.MinWidth, t.MinHeight),
			})
		}
	}

	if res.DetectedFormat == imgformat.FormatJPEG &&
		res.QualityConfidence != jpegquality.ConfidenceUnavailable &&
		res.QualityScore != nil && t.MinJPEGQuality > 0 &&
		*res.QualityScore < t.MinJPEGQuality {
		findings = append(findings, Finding{
			Kind:        FindingLowJPEGQuality,
			Severity:    SeverityWarn,
			MessageCode: MsgLowJPEGQuality,
			Observed:    strconv.FormatFloat(*res.QualityScore, 'f', 1, 64),
			Threshold:   strconv.FormatFloat(t.MinJPEGQuality, 'f', 1, 64),
		})
	}

	return findings
}

func bareExtension(ext string) string {
	return strings.TrimPrefix(ext, ".")
}
