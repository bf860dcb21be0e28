package imgformat

import (
	"io"
	"os"
)

// HeaderLen is how many leading bytes DetectHeader needs to try every
// signature it knows, including the WEBP tag at offset 8.
const HeaderLen = 16

var (
	jpegSig   = []byte{0xff, 0xd8, 0xff}
	pngSig    = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}
	bmpSig    = []byte{0x42, 0x4d}
	tiffSigLE = []byte{0x49, 0x49, 0x2a, 0x00}
	tiffSigBE = []byte{0x4d, 0x4d, 0x00, 0x2a}
	riffSig   = []byte{0x52, 0x49, 0x46, 0x46}
	webpTag   = []byte{0x57, 0x45, 0x42, 0x50}
)

// DetectHeader classifies the leading bytes of a file. Content too short
// for any signature is FormatUnknown; the file name plays no part here.
func DetectHeader(header []byte) Format {
	switch {
	case hasPrefix(header, jpegSig):
		return FormatJPEG
	case hasPrefix(header, pngSig):
		return FormatPNG
	case hasPrefix(header, riffSig) && matchAt(header, 8, webpTag):
		return FormatWEBP
	case hasPrefix(header, bmpSig):
		return FormatBMP
	case hasPrefix(header, tiffSigLE), hasPrefix(header, tiffSigBE):
		return FormatTIFF
	default:
		return FormatUnknown
	}
}

// SniffFile reads the first HeaderLen bytes of a file to determine its type.
func SniffFile(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, err
	}
	defer f.Close()

	return SniffReader(f)
}

// SniffReader reads at most HeaderLen bytes from r and classifies them.
// A short or empty reader yields FormatUnknown, not an error; only real
// I/O failures are returned.
func SniffReader(r io.Reader) (Format, error) {
	header := make([]byte, HeaderLen)
	n, err := io.ReadFull(r, header)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return FormatUnknown, err
	}

	return DetectHeader(header[:n]), nil
}

func hasPrefix(buf, prefix []byte) bool {
	return matchAt(buf, 0, prefix)
}

func matchAt(buf []byte, off int, sig []byte) bool {
	if len(buf) < off+len(sig) {
		return false
	}
	for i := range sig {
		if buf[off+i] != sig[i] {
			return false
		}
	}
	return true
}
