package jpegquality

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// Table is one quantization table lifted from a DQT segment, with the
// coefficients rearranged from the wire's zig-zag order into natural
// (row-major) order.
type Table struct {
	ID           int
	Precision    int // bits per coefficient on the wire: 8 or 16
	Coefficients [64]uint16
}

// ScanReader walks the marker segments of a JPEG stream and collects every
// quantization table defined before the entropy-coded data starts. A table
// slot redefined by a later DQT segment replaces the earlier definition, so
// the result is what a decoder would actually use for the first scan.
//
// Tables gathered before a failure are returned alongside the error.
func ScanReader(r io.Reader) ([]Table, error) {
	br := bufio.NewReader(r)

	soi := make([]byte, 2)
	if _, err := io.ReadFull(br, soi); err != nil {
		return nil, err
	}
	if soi[0] != 0xff || soi[1] != 0xd8 {
		return nil, fmt.Errorf("invalid JPEG SOI")
	}

	var tables []Table
	for {
		markerPrefix, err := br.ReadByte()
		if err != nil {
			return tables, err
		}
		for markerPrefix != 0xff {
			markerPrefix, err = br.ReadByte()
			if err != nil {
				return tables, err
			}
		}

		marker, err := br.ReadByte()
		if err != nil {
			return tables, err
		}
		for marker == 0xff {
			marker, err = br.ReadByte()
			if err != nil {
				return tables, err
			}
		}

		if marker == 0xd9 || marker == 0xda { // EOI or SOS
			return tables, nil
		}

		if marker == 0x01 || (marker >= 0xd0 && marker <= 0xd7) {
			continue
		}

		lenBuf := make([]byte, 2)
		if _, err := io.ReadFull(br, lenBuf); err != nil {
			return tables, err
		}
		segLen := int(binary.BigEndian.Uint16(lenBuf))
		if segLen < 2 {
			return tables, fmt.Errorf("invalid JPEG segment length")
		}
		payloadLen := segLen - 2

		if marker != 0xdb { // not DQT
			if _, err := br.Discard(payloadLen); err != nil {
				return tables, err
			}
			continue
		}

		payload := make([]byte, payloadLen)
		if _, err := io.ReadFull(br, payload); err != nil {
			return tables, err
		}
		parsed, err := parseDQT(payload)
		tables = mergeTables(tables, parsed)
		if err != nil {
			return tables, err
		}
	}
}

// parseDQT decodes the tables packed into one DQT payload: each is a
// precision/slot byte followed by 64 coefficients of one or two bytes.
func parseDQT(payload []byte) ([]Table, error) {
	var tables []Table
	off := 0
	for off < len(payload) {
		pqtq := payload[off]
		off++

		t := Table{ID: int(pqtq & 0x0f), Precision: 8}
		width := 1
		if pqtq>>4 != 0 {
			t.Precision = 16
			width = 2
		}
		if len(payload)-off < 64*width {
			return tables, fmt.Errorf("truncated quantization table %d", t.ID)
		}

		for i := 0; i < 64; i++ {
			var v uint16
			if width == 2 {
				v = binary.BigEndian.Uint16(payload[off+2*i:])
			} else {
				v = uint16(payload[off+i])
			}
			t.Coefficients[unzig[i]] = v
		}
		off += 64 * width
		tables = append(tables, t)
	}
	return tables, nil
}

func mergeTables(tables, parsed []Table) []Table {
	for _, t := range parsed {
		replaced := false
		for i := range tables {
			if tables[i].ID == t.ID {
				tables[i] = t
				replaced = true
				break
			}
		}
		if !replaced {
			tables = append(tables, t)
		}
	}
	return tables
}
