package imgformat

import (
	"fmt"
	"strings"
)

// Format identifies an image container recognized by its leading bytes.
type Format int

const (
	FormatUnknown Format = iota
	FormatJPEG
	FormatPNG
	FormatWEBP
	FormatBMP
	FormatTIFF
)

func (f Format) String() string {
	switch f {
	case FormatJPEG:
		return "jpeg"
	case FormatPNG:
		return "png"
	case FormatWEBP:
		return "webp"
	case FormatBMP:
		return "bmp"
	case FormatTIFF:
		return "tiff"
	default:
		return "unknown"
	}
}

// ParseFormat is the inverse of String.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "jpeg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	case "webp":
		return FormatWEBP, nil
	case "bmp":
		return FormatBMP, nil
	case "tiff":
		return FormatTIFF, nil
	case "unknown":
		return FormatUnknown, nil
	}
	return FormatUnknown, fmt.Errorf("unrecognized image format %q", s)
}

// MarshalText writes the stable lowercase name used in machine output.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Format) UnmarshalText(text []byte) error {
	parsed, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

var extFormats = map[string]Format{
	".jpg":  FormatJPEG,
	".jpeg": FormatJPEG,
	".png":  FormatPNG,
	".webp": FormatWEBP,
	".bmp":  FormatBMP,
	".tif":  FormatTIFF,
	".tiff": FormatTIFF,
}

// FromExtension maps a file extension (leading dot optional, any case) to
// the format it conventionally declares. The mapping is advisory only;
// detection always goes by content.
func FromExtension(ext string) Format {
	ext = strings.ToLower(ext)
	if ext != "" && ext[0] != '.' {
		ext = "." + ext
	}
	return extFormats[ext]
}

// SupportedExtension reports whether ext conventionally declares one of the
// recognized formats.
func SupportedExtension(ext string) bool {
	return FromExtension(ext) != FormatUnknown
}
