// Package report turns engine output into the forms collaborators
// consume: JSON, CSV and SARIF for machines, a styled console report and
// a plain-text report file for people. Machine exports carry stable
// identifiers only; localization happens here and nowhere deeper.
package report

import (
	"fmt"
	"os"

	"github.com/BlueVenn6/image-quality-checker/internal/inspect"
)

// Supported catalog languages.
const (
	LangEnglish = "en"
	LangChinese = "zh"
)

// Catalog maps stable message codes to localized strings for one
// language. Unknown codes fall back to the code itself, so a missing
// translation degrades visibly instead of panicking.
type Catalog struct {
	lang  string
	table map[string]string
}

// NewCatalog returns the catalog for lang, falling back to English for
// anything unrecognized.
func NewCatalog(lang string) *Catalog {
	table, ok := catalogs[lang]
	if !ok {
		lang, table = LangEnglish, catalogs[LangEnglish]
	}
	return &Catalog{lang: lang, table: table}
}

// Resolve picks the report language: an explicit flag wins, then the
// IMGCHECK_LANG environment variable, then English.
func Resolve(flagLang string) *Catalog {
	if flagLang != "" {
		return NewCatalog(flagLang)
	}
	if env := os.Getenv("IMGCHECK_LANG"); env != "" {
		return NewCatalog(env)
	}
	return NewCatalog(LangEnglish)
}

// Lang reports which language the catalog resolved to.
func (c *Catalog) Lang() string { return c.lang }

// Get returns the localized string for a code, or the code itself when
// no entry exists.
func (c *Catalog) Get(code string) string {
	if s, ok := c.table[code]; ok {
		return s
	}
	return code
}

// Format renders a parameterized catalog entry.
func (c *Catalog) Format(code string, args ...any) string {
	return fmt.Sprintf(c.Get(code), args...)
}

// FindingMessage renders one finding through the catalog, substituting
// its evidence into the localized template.
func (c *Catalog) FindingMessage(f inspect.Finding) string {
	switch f.Kind {
	case inspect.FindingCorruptFile:
		return c.Format(f.MessageCode, f.Observed)
	case inspect.FindingExtensionMismatch, inspect.FindingLowResolution, inspect.FindingLowJPEGQuality:
		return c.Format(f.MessageCode, f.Observed, f.Threshold)
	default:
		return c.Get(f.MessageCode)
	}
}

var catalogs = map[string]map[string]string{
	LangEnglish: {
		"title":              "Image Quality Check Report",
		"scan_path":          "Scan path",
		"file_count":         "Files checked",
		"resolution":         "Resolution",
		"file_size":          "File size",
		"color_mode":         "Color mode",
		"extension":          "Extension",
		"real_format":        "Real format",
		"jpeg_quality":       "JPEG quality",
		"genuine_png":        "Genuine PNG lossless format",
		"uncompressed_size":  "Uncompressed size",
		"camera":             "Camera",
		"captured":           "Captured",
		"summary":            "Summary",
		"status":             "Status",
		"warnings_found":     "Warnings found",
		"errors_found":       "Errors found",
		"recommendation":     "Recommendation: Address these issues before publishing.",
		"all_passed":         "All files passed quality check, suitable for commercial use.",
		"report_saved":       "Report saved to",
		"report_save_failed": "Failed to save report",
		"pixels":             "pixels",
		"bytes":              "bytes",
		"mb":                 "MB",

		"error_path_not_found": "Path not found",
		"error_no_images":      "No image files found in",

		inspect.MsgCannotOpen:        "Cannot open: %s",
		inspect.MsgUnsupportedFormat: "Unrecognized image format",
		inspect.MsgFormatMismatch:    "Extension is %s but actual format is %s",
		inspect.MsgLowResolution:     "Resolution %s below required %s",
		inspect.MsgLowJPEGQuality:    "JPEG quality %s below required %s",
	},
	LangChinese: {
		"title":              "图片质量检测报告",
		"scan_path":          "扫描路径",
		"file_count":         "检测文件数",
		"resolution":         "分辨率",
		"file_size":          "文件大小",
		"color_mode":         "颜色模式",
		"extension":          "扩展名",
		"real_format":        "实际格式",
		"jpeg_quality":       "JPEG质量",
		"genuine_png":        "真正的PNG无损格式",
		"uncompressed_size":  "未压缩大小",
		"camera":             "相机",
		"captured":           "拍摄时间",
		"summary":            "汇总",
		"status":             "状态",
		"warnings_found":     "发现警告",
		"errors_found":       "发现错误",
		"recommendation":     "建议: 在上架销售前解决以上问题。",
		"all_passed":         "所有文件检测通过，可以用于商用素材包。",
		"report_saved":       "报告已保存到",
		"report_save_failed": "报告保存失败",
		"pixels":             "像素",
		"bytes":              "字节",
		"mb":                 "MB",

		"error_path_not_found": "路径不存在",
		"error_no_images":      "没有找到图片文件",

		inspect.MsgCannotOpen:        "无法打开: %s",
		inspect.MsgUnsupportedFormat: "无法识别的图片格式",
		inspect.MsgFormatMismatch:    "扩展名是 %s 但实际格式是 %s",
		inspect.MsgLowResolution:     "分辨率 %s 低于要求 %s",
		inspect.MsgLowJPEGQuality:    "JPEG质量 %s 低于要求 %s",
	},
}
