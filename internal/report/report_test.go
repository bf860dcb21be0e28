package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BlueVenn6/image-quality-checker/internal/inspect"
	"github.com/BlueVenn6/image-quality-checker/pkg/imgformat"
	"github.com/BlueVenn6/image-quality-checker/pkg/jpegquality"
)

func samplePayload() Payload {
	q := 75.0
	results := []inspect.FileResult{
		{
			Path:              "photo.jpg",
			DeclaredExtension: ".jpg",
			DetectedFormat:    imgformat.FormatJPEG,
			Width:             800,
			Height:            600,
			ColorMode:         "ycbcr",
			SizeBytes:         2048,
			QualityScore:      &q,
			QualityConfidence: jpegquality.ConfidenceReliable,
			CameraMake:        "Acme",
			CameraModel:       "Shooter X",
			CapturedAt:        "2024:01:02 03:04:05",
			Findings: []inspect.Finding{
				{
					Kind:        inspect.FindingLowResolution,
					Severity:    inspect.SeverityWarn,
					MessageCode: inspect.MsgLowResolution,
					Observed:    "800x600",
					Threshold:   "1600x1600",
				},
			},
		},
		{
			Path:              "broken.png",
			DeclaredExtension: ".png",
			DetectedFormat:    imgformat.FormatPNG,
			SizeBytes:         10,
			DecodeError:       "unexpected EOF",
			Findings: []inspect.Finding{
				{
					Kind:        inspect.FindingCorruptFile,
					Severity:    inspect.SeverityError,
					MessageCode: inspect.MsgCannotOpen,
					Observed:    "unexpected EOF",
				},
			},
		},
	}
	summary := inspect.RunSummary{
		TotalFiles: 2,
		Counts:     inspect.SeverityCounts{Warn: 1, Error: 1},
		Worst:      inspect.SeverityError,
		Status:     inspect.StatusError,
	}
	return Build("/photos", summary, results)
}

func TestJSONRoundTrip(t *testing.T) {
	p := samplePayload()

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, p))

	parsed, err := ParseJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, p, parsed)
}

func TestJSONIdempotent(t *testing.T) {
	p := samplePayload()

	var first, second bytes.Buffer
	require.NoError(t, WriteJSON(&first, p))
	require.NoError(t, WriteJSON(&second, p))
	assert.Equal(t, first.Bytes(), second.Bytes())

	// Re-encoding a parsed payload reproduces the original bytes too.
	parsed, err := ParseJSON(bytes.NewReader(first.Bytes()))
	require.NoError(t, err)
	var third bytes.Buffer
	require.NoError(t, WriteJSON(&third, parsed))
	assert.Equal(t, first.Bytes(), third.Bytes())
}

func TestJSONStableFieldNames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, samplePayload()))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	for _, key := range []string{
		"scan_path", "status", "exit_code", "worst_severity",
		"counts_by_severity", "total_files", "results",
	} {
		assert.Contains(t, raw, key)
	}

	results := raw["results"].([]any)
	require.Len(t, results, 2)
	first := results[0].(map[string]any)
	for _, key := range []string{
		"path", "declared_extension", "detected_format",
		"width", "height", "size_bytes",
		"jpeg_quality_estimate", "quality_confidence", "findings",
	} {
		assert.Contains(t, first, key)
	}
	assert.Equal(t, "jpeg", first["detected_format"])
	assert.Equal(t, "reliable", first["quality_confidence"])

	finding := first["findings"].([]any)[0].(map[string]any)
	for _, key := range []string{"kind", "severity", "message_code", "observed", "threshold"} {
		assert.Contains(t, finding, key)
	}
	assert.Equal(t, "low_resolution", finding["kind"])
	assert.Equal(t, "warn", finding["severity"])
}

func TestBuildNilResults(t *testing.T) {
	p := Build("/empty", inspect.RunSummary{Status: inspect.StatusPass}, nil)
	require.NotNil(t, p.Results)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, p))
	assert.Contains(t, buf.String(), `"results": []`)
	assert.NotContains(t, buf.String(), `"results": null`)
}

func TestWriteCSVStructure(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, samplePayload()))

	// The separator between the two tables is a blank line, which the
	// reader skips.
	assert.Contains(t, buf.String(), "\n\n")

	reader := csv.NewReader(&buf)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)

	// Results header, two file rows, findings header, two finding rows.
	require.Len(t, records, 6)
	assert.Equal(t, "path", records[0][0])
	assert.Equal(t, "findings", records[0][9])

	photo := records[1]
	assert.Equal(t, "photo.jpg", photo[0])
	assert.Equal(t, "jpeg", photo[2])
	assert.Equal(t, "800", photo[3])
	assert.Equal(t, "75.0", photo[6])
	assert.Equal(t, "reliable", photo[7])
	assert.Equal(t, "1", photo[9])

	broken := records[2]
	assert.Equal(t, "broken.png", broken[0])
	// No usable dimensions or estimate; the cells stay empty rather
	// than defaulting to zero.
	assert.Equal(t, "", broken[3])
	assert.Equal(t, "", broken[4])
	assert.Equal(t, "", broken[6])
	assert.Equal(t, "unavailable", broken[7])

	assert.Equal(t, []string{"path", "kind", "severity", "message_code", "observed", "threshold"}, records[3])
	assert.Equal(t, "low_resolution", records[4][1])
	assert.Equal(t, "corrupt_file", records[5][1])
	assert.Equal(t, "error", records[5][2])
}

func TestWriteSARIF(t *testing.T) {
	p := samplePayload()
	// A second file repeating a kind proves rules are deduplicated while
	// results are not.
	p.Results = append(p.Results, inspect.FileResult{
		Path:              "small.png",
		DeclaredExtension: ".png",
		DetectedFormat:    imgformat.FormatPNG,
		Width:             100,
		Height:            100,
		SizeBytes:         64,
		Findings: []inspect.Finding{
			{
				Kind:        inspect.FindingLowResolution,
				Severity:    inspect.SeverityWarn,
				MessageCode: inspect.MsgLowResolution,
				Observed:    "100x100",
				Threshold:   "1600x1600",
			},
		},
	})

	var buf bytes.Buffer
	require.NoError(t, WriteSARIF(&buf, p))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "2.1.0", doc["version"])

	runs := doc["runs"].([]any)
	require.Len(t, runs, 1)
	run := runs[0].(map[string]any)

	driver := run["tool"].(map[string]any)["driver"].(map[string]any)
	assert.Equal(t, "imgcheck", driver["name"])

	rules := driver["rules"].([]any)
	require.Len(t, rules, 2)
	ruleIDs := make([]string, 0, len(rules))
	for _, r := range rules {
		ruleIDs = append(ruleIDs, r.(map[string]any)["id"].(string))
	}
	assert.ElementsMatch(t, []string{"low_resolution", "corrupt_file"}, ruleIDs)

	results := run["results"].([]any)
	require.Len(t, results, 3)

	first := results[0].(map[string]any)
	assert.Equal(t, "low_resolution", first["ruleId"])
	assert.Equal(t, "warning", first["level"])
	msg := first["message"].(map[string]any)["text"].(string)
	assert.Contains(t, msg, "observed 800x600")
	assert.Contains(t, msg, "threshold 1600x1600")

	loc := first["locations"].([]any)[0].(map[string]any)
	uri := loc["physicalLocation"].(map[string]any)["artifactLocation"].(map[string]any)["uri"].(string)
	assert.Equal(t, "photo.jpg", uri)

	corrupt := results[1].(map[string]any)
	assert.Equal(t, "error", corrupt["level"])
}

func TestCatalogFallsBackToEnglish(t *testing.T) {
	c := NewCatalog("fr")
	assert.Equal(t, LangEnglish, c.Lang())
	assert.Equal(t, "Image Quality Check Report", c.Get("title"))
}

func TestCatalogUnknownCodeReturnsCode(t *testing.T) {
	c := NewCatalog(LangEnglish)
	assert.Equal(t, "no_such_code", c.Get("no_such_code"))
}

func TestResolvePrecedence(t *testing.T) {
	t.Setenv("IMGCHECK_LANG", "zh")
	assert.Equal(t, LangEnglish, Resolve("en").Lang(), "explicit flag wins over environment")
	assert.Equal(t, LangChinese, Resolve("").Lang(), "environment wins when no flag is set")

	t.Setenv("IMGCHECK_LANG", "")
	assert.Equal(t, LangEnglish, Resolve("").Lang(), "english is the default")
}

func TestFindingMessageRendering(t *testing.T) {
	en := NewCatalog(LangEnglish)
	zh := NewCatalog(LangChinese)

	mismatch := inspect.Finding{
		Kind:        inspect.FindingExtensionMismatch,
		Severity:    inspect.SeverityWarn,
		MessageCode: inspect.MsgFormatMismatch,
		Observed:    "png",
		Threshold:   "jpeg",
	}
	assert.Equal(t, "Extension is png but actual format is jpeg", en.FindingMessage(mismatch))
	assert.Equal(t, "扩展名是 png 但实际格式是 jpeg", zh.FindingMessage(mismatch))

	corrupt := inspect.Finding{
		Kind:        inspect.FindingCorruptFile,
		Severity:    inspect.SeverityError,
		MessageCode: inspect.MsgCannotOpen,
		Observed:    "broken header",
	}
	assert.Equal(t, "Cannot open: broken header", en.FindingMessage(corrupt))

	unsupported := inspect.Finding{
		Kind:        inspect.FindingUnsupportedFormat,
		Severity:    inspect.SeverityWarn,
		MessageCode: inspect.MsgUnsupportedFormat,
	}
	assert.Equal(t, "Unrecognized image format", en.FindingMessage(unsupported))
}

func TestRenderHuman(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, samplePayload(), NewCatalog(LangEnglish))

	out := buf.String()
	assert.Contains(t, out, "Image Quality Check Report")
	assert.Contains(t, out, "photo.jpg")
	assert.Contains(t, out, "800 x 600 pixels")
	assert.Contains(t, out, "Resolution 800x600 below required 1600x1600")
	assert.Contains(t, out, "Cannot open: unexpected EOF")
	assert.Contains(t, out, "Recommendation")
}

func TestWriteReportFile(t *testing.T) {
	dir := t.TempDir()
	p := samplePayload()
	c := NewCatalog(LangEnglish)

	path, err := WriteReportFile(dir, p, c)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ReportFileName), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(raw)

	assert.Contains(t, content, "Image Quality Check Report")
	assert.Contains(t, content, "Scan path: /photos")
	assert.Contains(t, content, "photo.jpg")
	assert.Contains(t, content, "[!] Resolution 800x600 below required 1600x1600")
	assert.Contains(t, content, "[x] Cannot open: unexpected EOF")
	assert.Contains(t, content, "Status: error")
	assert.NotContains(t, content, "\x1b[", "report file must carry no ANSI styling")
}

func TestPlainTextPassMessage(t *testing.T) {
	p := Build("/clean", inspect.RunSummary{TotalFiles: 1, Status: inspect.StatusPass}, []inspect.FileResult{
		{
			Path:              "good.png",
			DeclaredExtension: ".png",
			DetectedFormat:    imgformat.FormatPNG,
			Width:             4000,
			Height:            3000,
			SizeBytes:         100,
			Findings:          []inspect.Finding{},
		},
	})
	c := NewCatalog(LangEnglish)

	text := PlainText(p, c)
	assert.Contains(t, text, "+ Genuine PNG lossless format")
	assert.Contains(t, text, "suitable for commercial use")
	assert.NotContains(t, text, "Recommendation")
}

func TestPlainTextChinese(t *testing.T) {
	text := PlainText(samplePayload(), NewCatalog(LangChinese))
	assert.Contains(t, text, "图片质量检测报告")
	assert.Contains(t, text, "扫描路径: /photos")
	assert.Contains(t, text, "分辨率 800x600 低于要求 1600x1600")
	assert.True(t, strings.Contains(text, "发现警告: 1"))
}
