// Package jpegquality recovers the encoder quality setting of a JPEG stream
// from its quantization tables, without decoding any pixels.
package jpegquality

import (
	"fmt"
	"io"
	"math"
	"os"
)

// Confidence grades how much an Estimate's score can be trusted.
type Confidence int

const (
	// ConfidenceUnavailable means no usable quantization tables were found;
	// the score carries no information.
	ConfidenceUnavailable Confidence = iota
	// ConfidenceLow means the score came from an incomplete or unusual
	// table set and may be off by more than a few points.
	ConfidenceLow
	// ConfidenceReliable means luminance and chrominance tables were both
	// present and agreed with each other.
	ConfidenceReliable
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceReliable:
		return "reliable"
	case ConfidenceLow:
		return "low_confidence"
	default:
		return "unavailable"
	}
}

// ParseConfidence is the inverse of String.
func ParseConfidence(s string) (Confidence, error) {
	switch s {
	case "reliable":
		return ConfidenceReliable, nil
	case "low_confidence":
		return ConfidenceLow, nil
	case "unavailable":
		return ConfidenceUnavailable, nil
	}
	return ConfidenceUnavailable, fmt.Errorf("unrecognized confidence %q", s)
}

func (c Confidence) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Confidence) UnmarshalText(text []byte) error {
	parsed, err := ParseConfidence(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Estimate is the recovered encoder quality for a JPEG stream. Score lies
// in [1,100] and is rounded to one decimal. Callers must branch on
// Confidence: when it is ConfidenceUnavailable the score is meaningless,
// not a statement about a very bad image.
type Estimate struct {
	Score      float64
	Confidence Confidence
	Tables     int
}

// agreementWindow is how far two per-table quality readings may drift apart
// before the combined estimate is demoted to low confidence.
const agreementWindow = 12.0

// FromTables recovers the quality setting by inverting the scaling libjpeg
// applies to its reference tables: each coefficient implies a scaling
// percentage against the reference for its plane, the per-table means are
// averaged, and the average is mapped back through the piecewise quality
// formula. Pure; identical input always yields the identical estimate.
func FromTables(tables []Table) Estimate {
	var (
		scaleSum  float64
		qualities []float64
		wide      bool
	)
	for _, t := range tables {
		s := impliedScale(t)
		if s <= 0 {
			continue
		}
		scaleSum += s
		qualities = append(qualities, scaleToQuality(s))
		if t.Precision == 16 {
			wide = true
		}
	}
	if len(qualities) == 0 {
		return Estimate{Confidence: ConfidenceUnavailable}
	}

	conf := ConfidenceReliable
	if len(qualities) < 2 || wide || spread(qualities) > agreementWindow {
		conf = ConfidenceLow
	}

	score := scaleToQuality(scaleSum / float64(len(qualities)))
	return Estimate{
		Score:      math.Round(score*10) / 10,
		Confidence: conf,
		Tables:     len(qualities),
	}
}

// EstimateReader scans r for quantization tables and estimates from
// whatever it finds. Malformed or truncated streams degrade to an
// unavailable estimate rather than an error; estimation never fails a file.
func EstimateReader(r io.Reader) Estimate {
	tables, _ := ScanReader(r)
	return FromTables(tables)
}

// EstimateFile opens path and estimates its quality.
func EstimateFile(path string) (Estimate, error) {
	f, err := os.Open(path)
	if err != nil {
		return Estimate{Confidence: ConfidenceUnavailable}, err
	}
	defer f.Close()

	return EstimateReader(f), nil
}

// impliedScale is the mean scaling percentage of a table against the
// reference table for its slot.
func impliedScale(t Table) float64 {
	ref := referenceFor(t.ID)
	var sum float64
	for i, c := range t.Coefficients {
		sum += 100 * float64(c) / float64(ref[i])
	}
	return sum / 64
}

// scaleToQuality inverts the libjpeg quality formula. Scale 100 sits on the
// seam and takes the high-scale branch; both branches agree on 50 there.
func scaleToQuality(scale float64) float64 {
	var q float64
	if scale >= 100 {
		q = 5000 / scale
	} else {
		q = (200 - scale) / 2
	}
	if q < 1 {
		q = 1
	}
	if q > 100 {
		q = 100
	}
	return q
}

func spread(vals []float64) float64 {
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return hi - lo
}
