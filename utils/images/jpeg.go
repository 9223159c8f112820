package images

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/jpeg"
)

// DpiType is the density unit stored in a JFIF APP0 segment.
type DpiType uint8

const (
	DpiNoUnits DpiType = iota
	DpiPxPerInch
	DpiPxPerSm
)

// EnsureJFIFAPP0 inserts a JFIF APP0 segment right after SOI when the stream
// does not carry one. Some image consumers refuse JPEGs without it or guess
// the density wrong. Returns the (possibly new) stream and whether the
// segment was added.
func EnsureJFIFAPP0(jpegData []byte, dpit DpiType, xdensity, ydensity int16) ([]byte, bool, error) {
	if len(jpegData) < 4 {
		return nil, false, errors.New("jpeg too small")
	}
	if jpegData[0] != 0xFF || jpegData[1] != 0xD8 {
		return nil, false, errors.New("not a jpeg")
	}

	// Segment already present right after SOI - nothing to do.
	if jpegData[2] == 0xFF && jpegData[3] == 0xE0 {
		return jpegData, false, nil
	}

	buf := new(bytes.Buffer)
	buf.Write(jpegData[:2])
	buf.Write([]byte{0xFF, 0xE0})                               // APP0 marker
	_ = binary.Write(buf, binary.BigEndian, uint16(0x10))       // segment length
	buf.Write([]byte{0x4A, 0x46, 0x49, 0x46, 0x00, 0x01, 0x02}) // "JFIF\0" + version 1.2
	_ = binary.Write(buf, binary.BigEndian, uint8(dpit))        // density units
	_ = binary.Write(buf, binary.BigEndian, uint16(xdensity))
	_ = binary.Write(buf, binary.BigEndian, uint16(ydensity))
	_ = binary.Write(buf, binary.BigEndian, uint16(0)) // no thumbnail
	buf.Write(jpegData[2:])
	return buf.Bytes(), true, nil
}

// EncodeJPEGWithDPI encodes an image at the given quality and stamps the
// density into a JFIF APP0 segment.
func EncodeJPEGWithDPI(img image.Image, quality int, dpit DpiType, xdensity, ydensity int16) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	out, _, err := EnsureJFIFAPP0(buf.Bytes(), dpit, xdensity, ydensity)
	if err != nil {
		return nil, err
	}
	return out, nil
}
