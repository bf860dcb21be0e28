package inspect

import (
	"image"
	"image/color"
	"io"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Meta is what the decode capability yields from an image header alone.
type Meta struct {
	Width     int
	Height    int
	ColorMode string
}

// Decoder extracts stream metadata without decoding pixel data.
type Decoder interface {
	DecodeConfig(r io.Reader) (Meta, error)
}

// StdDecoder decodes through the registered image formats: JPEG and PNG
// from the standard library plus BMP, TIFF and WEBP.
type StdDecoder struct{}

func (StdDecoder) DecodeConfig(r io.Reader) (Meta, error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return Meta{}, err
	}
	return Meta{
		Width:     cfg.Width,
		Height:    cfg.Height,
		ColorMode: colorModeName(cfg.ColorModel),
	}, nil
}

// colorModeName flattens a color model into a stable lowercase label.
func colorModeName(m color.Model) string {
	switch m {
	case color.YCbCrModel:
		return "ycbcr"
	case color.NYCbCrAModel:
		return "ycbcra"
	case color.RGBAModel, color.NRGBAModel:
		return "rgba"
	case color.RGBA64Model, color.NRGBA64Model:
		return "rgba64"
	case color.GrayModel:
		return "gray"
	case color.Gray16Model:
		return "gray16"
	case color.CMYKModel:
		return "cmyk"
	case color.AlphaModel, color.Alpha16Model:
		return "alpha"
	}
	if _, ok := m.(color.Palette); ok {
		return "indexed"
	}
	return "unknown"
}

// channelsFor is the per-pixel channel count implied by a color mode label,
// used to estimate uncompressed payload size.
func channelsFor(mode string) int64 {
	switch mode {
	case "gray", "gray16", "indexed", "alpha":
		return 1
	case "rgba", "rgba64", "ycbcra":
		return 4
	default:
		return 3
	}
}
