package inspect

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/BlueVenn6/image-quality-checker/pkg/imgformat"
	"github.com/BlueVenn6/image-quality-checker/pkg/jpegquality"
)

func encodeJPEG(t *testing.T, width, height, quality int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), uint8(x + y), 255})
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func encodePNG(t *testing.T, width, height int, gray bool) []byte {
	t.Helper()

	var img image.Image
	if gray {
		img = image.NewGray(image.Rect(0, 0, width, height))
	} else {
		rgba := image.NewRGBA(image.Rect(0, 0, width, height))
		rgba.Set(0, 0, color.RGBA{R: 0xff, A: 0xff})
		img = rgba
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// buildExifTIFF is a minimal TIFF block carrying a Model and a DateTime
// tag, enough for the camera-info pass to find something.
func buildExifTIFF() []byte {
	var tiff bytes.Buffer
	tiff.Write([]byte{0x49, 0x49, 0x2a, 0x00})
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(8))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(2))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(0x0110))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(2))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(8))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(38))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(0x0132))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(2))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(20))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(46))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(0))
	tiff.Write([]byte("TestCam\x00"))
	tiff.Write([]byte("2024:01:02 03:04:05\x00"))
	return tiff.Bytes()
}

// withExifSegment splices an APP1 EXIF segment right after the SOI of an
// encoded JPEG, keeping the stream decodable.
func withExifSegment(t *testing.T, jpegBytes []byte) []byte {
	t.Helper()

	if len(jpegBytes) < 2 || jpegBytes[0] != 0xff || jpegBytes[1] != 0xd8 {
		t.Fatal("fixture is not a JPEG stream")
	}

	payload := append([]byte("Exif\x00\x00"), buildExifTIFF()...)
	segment := []byte{0xff, 0xe1}
	segment = append(segment, byte((len(payload)+2)>>8), byte(len(payload)+2))
	segment = append(segment, payload...)

	out := append([]byte{}, jpegBytes[:2]...)
	out = append(out, segment...)
	return append(out, jpegBytes[2:]...)
}

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestInspectValidJPEG(t *testing.T) {
	dir := t.TempDir()
	content := encodeJPEG(t, 800, 600, 75)
	path := writeFile(t, dir, "photo.jpg", content)

	ins := NewInspector(nil, defaultThresholds)
	res := ins.InspectFile(path)

	if res.DetectedFormat != imgformat.FormatJPEG {
		t.Fatalf("format = %v, want jpeg", res.DetectedFormat)
	}
	if res.DeclaredExtension != ".jpg" {
		t.Errorf("declared extension = %q, want .jpg", res.DeclaredExtension)
	}
	if res.Width != 800 || res.Height != 600 {
		t.Errorf("dimensions = %dx%d, want 800x600", res.Width, res.Height)
	}
	if res.SizeBytes != int64(len(content)) {
		t.Errorf("size = %d, want %d", res.SizeBytes, len(content))
	}
	if res.ColorMode != "ycbcr" {
		t.Errorf("color mode = %q, want ycbcr", res.ColorMode)
	}
	if res.DecodeError != "" {
		t.Errorf("decode error = %q, want none", res.DecodeError)
	}
	if res.QualityScore == nil {
		t.Fatal("quality score missing for a valid JPEG")
	}
	if math.Abs(*res.QualityScore-75) > 2.0 {
		t.Errorf("quality = %.1f, want near 75", *res.QualityScore)
	}
	if res.QualityConfidence != jpegquality.ConfidenceReliable {
		t.Errorf("confidence = %v, want reliable", res.QualityConfidence)
	}

	// 800x600 sits below the 1600x1600 floor; quality 75 is fine.
	want := []FindingKind{FindingLowResolution}
	if !reflect.DeepEqual(kinds(res.Findings), want) {
		t.Fatalf("kinds = %v, want %v", kinds(res.Findings), want)
	}
}

func TestInspectDetectionIgnoresExtension(t *testing.T) {
	dir := t.TempDir()
	content := encodeJPEG(t, 64, 64, 80)

	asJPG := writeFile(t, dir, "a.jpg", content)
	asPNG := writeFile(t, dir, "b.png", content)
	asNothing := writeFile(t, dir, "c", content)

	ins := NewInspector(nil, Thresholds{})
	for _, p := range []string{asJPG, asPNG, asNothing} {
		if res := ins.InspectFile(p); res.DetectedFormat != imgformat.FormatJPEG {
			t.Errorf("%s detected as %v, want jpeg regardless of name", p, res.DetectedFormat)
		}
	}
}

func TestInspectJPEGDisguisedAsPNG(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "photo.png", encodeJPEG(t, 64, 64, 80))

	ins := NewInspector(nil, Thresholds{MinWidth: 4, MinHeight: 4, MinJPEGQuality: 2})
	res := ins.InspectFile(path)

	if res.DetectedFormat != imgformat.FormatJPEG {
		t.Fatalf("format = %v, want jpeg", res.DetectedFormat)
	}
	if res.DeclaredExtension != ".png" {
		t.Fatalf("declared extension = %q, want .png", res.DeclaredExtension)
	}

	f := findByKind(t, res.Findings, FindingExtensionMismatch)
	if f.Observed != "png" || f.Threshold != "jpeg" {
		t.Fatalf("mismatch evidence = %q/%q, want png/jpeg", f.Observed, f.Threshold)
	}
}

func TestInspectZeroByteFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "empty.jpg", nil)

	ins := NewInspector(nil, defaultThresholds)
	res := ins.InspectFile(path)

	if res.DetectedFormat != imgformat.FormatUnknown {
		t.Fatalf("format = %v, want unknown", res.DetectedFormat)
	}
	if res.SizeBytes != 0 {
		t.Errorf("size = %d, want 0", res.SizeBytes)
	}
	if res.HasDimensions() {
		t.Errorf("dimensions = %dx%d, want none", res.Width, res.Height)
	}
	if res.DecodeError == "" {
		t.Error("decode error missing for an empty file")
	}
	if res.QualityScore != nil {
		t.Error("quality score present for an empty file")
	}

	want := []FindingKind{FindingCorruptFile, FindingUnsupportedFormat}
	if !reflect.DeepEqual(kinds(res.Findings), want) {
		t.Fatalf("kinds = %v, want %v", kinds(res.Findings), want)
	}
	if res.WorstSeverity() != SeverityError {
		t.Fatalf("worst = %v, want error", res.WorstSeverity())
	}
}

func TestInspectMissingFile(t *testing.T) {
	ins := NewInspector(nil, defaultThresholds)
	res := ins.InspectFile(filepath.Join(t.TempDir(), "absent.jpg"))

	if res.DecodeError == "" {
		t.Fatal("decode error missing for an absent file")
	}
	findByKind(t, res.Findings, FindingCorruptFile)
	if res.WorstSeverity() != SeverityError {
		t.Fatalf("worst = %v, want error", res.WorstSeverity())
	}
}

func TestInspectTruncatedJPEG(t *testing.T) {
	dir := t.TempDir()
	content := encodeJPEG(t, 64, 64, 80)
	// Keep the signature, lose the image: the sniffer still says JPEG, the
	// decode fails, and the file is corrupt rather than unsupported.
	path := writeFile(t, dir, "cut.jpg", content[:6])

	ins := NewInspector(nil, defaultThresholds)
	res := ins.InspectFile(path)

	if res.DetectedFormat != imgformat.FormatJPEG {
		t.Fatalf("format = %v, want jpeg from the surviving signature", res.DetectedFormat)
	}
	if res.DecodeError == "" {
		t.Fatal("decode error missing for truncated content")
	}

	want := []FindingKind{FindingCorruptFile}
	if !reflect.DeepEqual(kinds(res.Findings), want) {
		t.Fatalf("kinds = %v, want %v", kinds(res.Findings), want)
	}
	if res.QualityConfidence != jpegquality.ConfidenceUnavailable {
		t.Errorf("confidence = %v, want unavailable when decode failed", res.QualityConfidence)
	}
}

func TestInspectPNGEstimatesUncompressedSize(t *testing.T) {
	dir := t.TempDir()

	rgba := writeFile(t, dir, "color.png", encodePNG(t, 10, 8, false))
	gray := writeFile(t, dir, "gray.png", encodePNG(t, 10, 8, true))

	ins := NewInspector(nil, Thresholds{MinWidth: 4, MinHeight: 4, MinJPEGQuality: 2})

	res := ins.InspectFile(rgba)
	if res.UncompressedBytes != 10*8*4 {
		t.Errorf("rgba uncompressed = %d, want %d", res.UncompressedBytes, 10*8*4)
	}
	if len(res.Findings) != 0 {
		t.Errorf("clean png produced findings: %#v", res.Findings)
	}
	if res.QualityScore != nil || res.QualityConfidence != jpegquality.ConfidenceUnavailable {
		t.Error("quality estimate present for a PNG")
	}

	res = ins.InspectFile(gray)
	if res.ColorMode != "gray" {
		t.Errorf("color mode = %q, want gray", res.ColorMode)
	}
	if res.UncompressedBytes != 10*8*1 {
		t.Errorf("gray uncompressed = %d, want %d", res.UncompressedBytes, 10*8*1)
	}
}

func TestInspectReadsCameraInfo(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "shot.jpg", withExifSegment(t, encodeJPEG(t, 32, 32, 80)))

	ins := NewInspector(nil, Thresholds{})
	res := ins.InspectFile(path)

	if res.DecodeError != "" {
		t.Fatalf("decode error = %q, want none after EXIF splice", res.DecodeError)
	}
	if res.CameraModel != "TestCam" {
		t.Errorf("camera model = %q, want TestCam", res.CameraModel)
	}
	if res.CapturedAt != "2024:01:02 03:04:05" {
		t.Errorf("captured at = %q, want 2024:01:02 03:04:05", res.CapturedAt)
	}
}

func TestInspectDeterministic(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "photo.jpg", encodeJPEG(t, 128, 128, 60))

	ins := NewInspector(nil, defaultThresholds)
	first := ins.InspectFile(path)
	second := ins.InspectFile(path)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated inspection diverged:\nfirst  %#v\nsecond %#v", first, second)
	}
}
