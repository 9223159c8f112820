// Package jpegquality estimates the quality setting a JPEG was encoded with
// by comparing its luminance quantization table against the IJG reference
// table. Encoders derive their tables from the reference by linear scaling,
// so the average scale factor recovers the original setting closely enough
// to decide whether reencoding at a lower quality is worth it.
package jpegquality

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

var (
	ErrInvalidJPEG  = errors.New("invalid JPEG header")
	ErrWrongTable   = errors.New("wrong size for quantization table")
	ErrShortSegment = errors.New("short segment length")
	ErrShortDQT     = errors.New("section DQT is too short")
)

const (
	markerSOI = 0xffd8
	markerDQT = 0xffdb
)

// stdLuminance is the IJG sample luminance quantization table, the base every
// libjpeg-derived encoder (Go's included) scales by quality.
var stdLuminance = [64]int{
	16, 11, 10, 16, 24, 40, 51, 61,
	12, 12, 14, 19, 26, 58, 60, 55,
	14, 13, 16, 24, 40, 57, 69, 56,
	14, 17, 22, 29, 51, 87, 80, 62,
	18, 22, 37, 56, 68, 109, 103, 77,
	24, 35, 55, 64, 81, 104, 113, 92,
	49, 64, 78, 87, 103, 121, 120, 101,
	72, 92, 95, 98, 112, 100, 103, 99,
}

type jpegReader struct {
	rs      io.ReadSeeker
	quality int
}

// New reads the quantization tables from rs and estimates the encoding
// quality. The reader is rewound first, so it can be reused.
func New(rs io.ReadSeeker) (*jpegReader, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	jr := &jpegReader{rs: rs}
	if jr.readMarker() != markerSOI {
		return nil, ErrInvalidJPEG
	}

	q, err := jr.readQuality()
	if err != nil {
		return nil, err
	}
	jr.quality = q
	return jr, nil
}

// NewWithBytes is like New for data already in memory.
func NewWithBytes(data []byte) (*jpegReader, error) {
	return New(bytes.NewReader(data))
}

// Quality returns the estimated encoding quality, 1 to 100.
func (jr *jpegReader) Quality() int {
	return jr.quality
}

// readMarker returns the next two byte marker, 0 when the stream ends or is
// not aligned on a marker. Fill bytes before the marker code are allowed.
func (jr *jpegReader) readMarker() int {
	var buf [2]byte
	if _, err := io.ReadFull(jr.rs, buf[:]); err != nil {
		return 0
	}
	if buf[0] != 0xff {
		return 0
	}
	for buf[1] == 0xff {
		var b [1]byte
		if _, err := io.ReadFull(jr.rs, b[:]); err != nil {
			return 0
		}
		buf[1] = b[0]
	}
	return int(buf[0])<<8 | int(buf[1])
}

func (jr *jpegReader) readLength() (int, error) {
	var buf [2]byte
	if _, err := io.ReadFull(jr.rs, buf[:]); err != nil {
		return 0, err
	}
	length := int(binary.BigEndian.Uint16(buf[:])) - 2
	if length < 0 {
		return 0, ErrShortSegment
	}
	return length, nil
}

// readQuality scans segments until the first DQT and estimates quality from
// the luminance table in it.
func (jr *jpegReader) readQuality() (int, error) {
	for {
		mark := jr.readMarker()
		if mark == 0 {
			return 0, ErrInvalidJPEG
		}

		length, err := jr.readLength()
		if err != nil {
			return 0, err
		}

		if mark != markerDQT {
			if _, err := jr.rs.Seek(int64(length), io.SeekCurrent); err != nil {
				return 0, err
			}
			continue
		}

		if length < 65 {
			return 0, ErrShortDQT
		}
		payload := make([]byte, length)
		if _, err := io.ReadFull(jr.rs, payload); err != nil {
			return 0, err
		}
		return qualityFromDQT(payload)
	}
}

// qualityFromDQT walks the tables of a DQT segment looking for the luminance
// table (id 0). Tables are prefixed with a precision/id byte and hold 64
// values, two byte each when the precision nibble says 16-bit.
func qualityFromDQT(payload []byte) (int, error) {
	for pos := 0; pos < len(payload); {
		pq := int(payload[pos] >> 4)
		tq := int(payload[pos] & 0x0f)
		pos++

		n := 64
		if pq == 1 {
			n = 128
		}
		if pos+n > len(payload) {
			return 0, ErrWrongTable
		}

		if tq == 0 {
			var table [64]int
			for i := range 64 {
				if pq == 1 {
					table[i] = int(binary.BigEndian.Uint16(payload[pos+2*i:]))
				} else {
					table[i] = int(payload[pos+i])
				}
			}
			return estimateQuality(table), nil
		}
		pos += n
	}
	return 0, ErrShortDQT
}

// estimateQuality inverts the libjpeg scaling formula using the ratio of the
// table sum to the reference table sum.
func estimateQuality(table [64]int) int {
	var sumT, sumS int
	for i := range 64 {
		sumT += table[i]
		sumS += stdLuminance[i]
	}

	scale := float64(sumT) * 100.0 / float64(sumS)
	var q float64
	if scale <= 100.0 {
		q = (200.0 - scale) / 2.0
	} else {
		q = 5000.0 / scale
	}

	quality := int(q + 0.5)
	if quality < 1 {
		quality = 1
	}
	if quality > 100 {
		quality = 100
	}
	return quality
}
