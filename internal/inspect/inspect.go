package inspect

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BlueVenn6/image-quality-checker/pkg/imgformat"
	"github.com/BlueVenn6/image-quality-checker/pkg/jpegquality"
)

// Inspector runs the per-file pipeline: sniff the real format, extract
// metadata, estimate JPEG quality, evaluate rules. It holds no per-file
// state, so one Inspector is shared by every worker of a run.
type Inspector struct {
	dec        Decoder
	thresholds Thresholds
}

// NewInspector builds an Inspector. A nil decoder selects the standard
// image registry.
func NewInspector(dec Decoder, thresholds Thresholds) *Inspector {
	if dec == nil {
		dec = StdDecoder{}
	}
	return &Inspector{dec: dec, thresholds: thresholds}
}

// InspectFile audits one file and returns its finalized result. Open and
// decode failures land on the result as findings instead of aborting; a
// problem with one file must never take down the run.
func (ins *Inspector) InspectFile(path string) FileResult {
	res := FileResult{
		Path:              path,
		DeclaredExtension: strings.ToLower(filepath.Ext(path)),
	}

	f, err := os.Open(path)
	if err != nil {
		res.DecodeError = err.Error()
		res.Findings = Evaluate(res, ins.thresholds)
		return res
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil {
		res.SizeBytes = info.Size()
	}

	format, err := imgformat.SniffReader(f)
	if err != nil {
		res.DecodeError = err.Error()
		res.Findings = Evaluate(res, ins.thresholds)
		return res
	}
	res.DetectedFormat = format

	ins.extractMetadata(f, &res)
	ins.estimateQuality(f, &res)

	res.Findings = Evaluate(res, ins.thresholds)
	return res
}

// extractMetadata fills dimensions, color mode and camera details. A
// decode failure is recorded on the result, not raised; the rule engine
// turns it into the corrupt-file finding.
func (ins *Inspector) extractMetadata(f *os.File, res *FileResult) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		res.DecodeError = err.Error()
		return
	}

	meta, err := ins.dec.DecodeConfig(f)
	if err != nil {
		res.DecodeError = err.Error()
		return
	}
	res.Width = meta.Width
	res.Height = meta.Height
	res.ColorMode = meta.ColorMode

	if res.DetectedFormat == imgformat.FormatPNG {
		res.UncompressedBytes = int64(meta.Width) * int64(meta.Height) * channelsFor(meta.ColorMode)
	}

	if res.DetectedFormat == imgformat.FormatJPEG || res.DetectedFormat == imgformat.FormatTIFF {
		if info, err := readCameraInfo(f); err == nil {
			res.CameraMake = info.Make
			res.CameraModel = info.Model
			res.CapturedAt = info.CapturedAt
		}
	}
}

// estimateQuality runs only for content-detected JPEG that decoded cleanly.
func (ins *Inspector) estimateQuality(f *os.File, res *FileResult) {
	if res.DetectedFormat != imgformat.FormatJPEG || res.DecodeError != "" {
		return
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return
	}

	est := jpegquality.EstimateReader(f)
	res.QualityConfidence = est.Confidence
	if est.Confidence != jpegquality.ConfidenceUnavailable {
		score := est.Score
		res.QualityScore = &score
	}
}
