package inspect

import (
	"io"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"
)

// CameraInfo is the slice of EXIF the reports care about.
type CameraInfo struct {
	Make       string
	Model      string
	CapturedAt string
}

// readCameraInfo pulls camera make, model and capture time from any EXIF
// block in the stream. A stream without EXIF is not an error.
func readCameraInfo(rs io.ReadSeeker) (CameraInfo, error) {
	info := CameraInfo{}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return info, err
	}

	tags, _, err := exif.GetFlatExifDataUniversalSearchWithReadSeeker(rs, nil, true)
	if err != nil {
		if isNoExif(err) {
			return info, nil
		}
		return info, err
	}

	for _, tag := range tags {
		switch tag.TagName {
		case "Make":
			if info.Make == "" {
				info.Make = strings.TrimSpace(tag.FormattedFirst)
			}
		case "Model", "CameraModelName":
			if info.Model == "" {
				info.Model = strings.TrimSpace(tag.FormattedFirst)
			}
		case "DateTimeOriginal":
			info.CapturedAt = strings.TrimSpace(tag.FormattedFirst)
		case "DateTimeDigitized", "DateTime":
			if info.CapturedAt == "" {
				info.CapturedAt = strings.TrimSpace(tag.FormattedFirst)
			}
		}
	}

	return info, nil
}

func isNoExif(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "no exif")
}
