package inspect

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/BlueVenn6/image-quality-checker/pkg/imgformat"
	"github.com/BlueVenn6/image-quality-checker/pkg/jpegquality"
)

// Severity ranks a finding. Higher is worse.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarn
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarn:
		return "warn"
	default:
		return "info"
	}
}

// ParseSeverity is the inverse of String.
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "info":
		return SeverityInfo, nil
	case "warn":
		return SeverityWarn, nil
	case "error":
		return SeverityError, nil
	}
	return SeverityInfo, fmt.Errorf("unrecognized severity %q", s)
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// FindingKind names a defect class. The values are stable machine
// identifiers and never localized.
type FindingKind string

const (
	FindingCorruptFile       FindingKind = "corrupt_file"
	FindingUnsupportedFormat FindingKind = "unsupported_format"
	FindingExtensionMismatch FindingKind = "extension_mismatch"
	FindingLowResolution     FindingKind = "low_resolution"
	FindingLowJPEGQuality    FindingKind = "low_jpeg_quality"
)

// Message codes are catalog keys. Rendering layers map them to localized
// strings; machine exports carry the raw code.
const (
	MsgCannotOpen        = "error_cannot_open"
	MsgUnsupportedFormat = "warning_unsupported_format"
	MsgFormatMismatch    = "warning_format_mismatch"
	MsgLowResolution     = "warning_low_resolution"
	MsgLowJPEGQuality    = "warning_low_jpeg_quality"
)

// Finding is one defect observed on one file, with the offending value and
// the boundary it crossed where those apply.
type Finding struct {
	Kind        FindingKind `json:"kind"`
	Severity    Severity    `json:"severity"`
	MessageCode string      `json:"message_code"`
	Observed    string      `json:"observed,omitempty"`
	Threshold   string      `json:"threshold,omitempty"`
}

// FileResult is the finalized audit of one file. Width and height are zero
// when decoding failed; QualityScore is nil whenever no estimate exists,
// which is not the same thing as an estimate of zero.
type FileResult struct {
	Path              string                 `json:"path"`
	DeclaredExtension string                 `json:"declared_extension"`
	DetectedFormat    imgformat.Format       `json:"detected_format"`
	Width             int                    `json:"width,omitempty"`
	Height            int                    `json:"height,omitempty"`
	ColorMode         string                 `json:"color_mode,omitempty"`
	SizeBytes         int64                  `json:"size_bytes"`
	UncompressedBytes int64                  `json:"uncompressed_size_bytes,omitempty"`
	QualityScore      *float64               `json:"jpeg_quality_estimate,omitempty"`
	QualityConfidence jpegquality.Confidence `json:"quality_confidence,omitempty"`
	CameraMake        string                 `json:"camera_make,omitempty"`
	CameraModel       string                 `json:"camera_model,omitempty"`
	CapturedAt        string                 `json:"captured_at,omitempty"`
	DecodeError       string                 `json:"decode_error,omitempty"`
	Findings          []Finding              `json:"findings"`
}

// HasDimensions reports whether decoding yielded a usable size.
func (r FileResult) HasDimensions() bool {
	return r.Width > 0 && r.Height > 0
}

// WorstSeverity is the highest severity among the findings, SeverityInfo
// when there are none.
func (r FileResult) WorstSeverity() Severity {
	worst := SeverityInfo
	for _, f := range r.Findings {
		if f.Severity > worst {
			worst = f.Severity
		}
	}
	return worst
}

// Thresholds are the acceptance floors applied to every file of a run.
// Immutable once the run starts.
type Thresholds struct {
	MinWidth       int
	MinHeight      int
	MinJPEGQuality float64
}

// RunStatus grades a whole run.
type RunStatus int

const (
	StatusPass RunStatus = iota
	StatusWarn
	StatusError
)

func (s RunStatus) String() string {
	switch s {
	case StatusError:
		return "error"
	case StatusWarn:
		return "warn"
	default:
		return "pass"
	}
}

// ParseRunStatus is the inverse of String.
func ParseRunStatus(s string) (RunStatus, error) {
	switch s {
	case "pass":
		return StatusPass, nil
	case "warn":
		return StatusWarn, nil
	case "error":
		return StatusError, nil
	}
	return StatusPass, fmt.Errorf("unrecognized run status %q", s)
}

func (s RunStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *RunStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseRunStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ExitCode maps a run status onto the process exit contract: 0 for a clean
// run, 1 when only warnings exist, 2 when anything reached error severity.
func (s RunStatus) ExitCode() int {
	switch s {
	case StatusError:
		return 2
	case StatusWarn:
		return 1
	default:
		return 0
	}
}

// SeverityCounts tallies findings by severity across a run.
type SeverityCounts struct {
	Info  int `json:"info"`
	Warn  int `json:"warn"`
	Error int `json:"error"`
}

func (c *SeverityCounts) add(s Severity) {
	switch s {
	case SeverityError:
		c.Error++
	case SeverityWarn:
		c.Warn++
	default:
		c.Info++
	}
}

// RunSummary is the run-level fold of every file result.
type RunSummary struct {
	TotalFiles int            `json:"total_files"`
	Counts     SeverityCounts `json:"counts_by_severity"`
	Worst      Severity       `json:"worst_severity"`
	Status     RunStatus      `json:"status"`
}

// Options control one run.
type Options struct {
	Recursive  bool
	Workers    int
	Thresholds Thresholds
	Decoder    Decoder
	Logger     hclog.Logger
}

// Job is one file queued for a worker, carrying its traversal position so
// results can be re-ordered after the concurrent phase.
type Job struct {
	Index int
	Path  string
}

// Result pairs a finalized file result with its traversal position.
type Result struct {
	Index int
	File  FileResult
}

// ProgressUpdate is a delta event for live progress rendering.
type ProgressUpdate struct {
	TotalDelta     int
	ProcessedDelta int
	FindingDelta   int
	CorruptDelta   int
}
