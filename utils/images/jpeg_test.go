package images

import (
	"bytes"
	"image"
	"image/jpeg"
	"testing"
)

func TestEnsureJFIFAPP0(t *testing.T) {
	t.Run("adds_marker", func(t *testing.T) {
		data := []byte{0xFF, 0xD8, 0xFF, 0xDB, 0x00, 0x04}

		out, added, err := EnsureJFIFAPP0(data, DpiPxPerInch, 96, 96)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !added {
			t.Fatal("expected marker to be added")
		}
		if out[0] != 0xFF || out[1] != 0xD8 {
			t.Fatal("expected SOI marker preserved")
		}
		if !bytes.Equal(out[2:4], []byte{0xFF, 0xE0}) {
			t.Fatal("expected JFIF APP0 marker right after SOI")
		}
		if !bytes.Equal(out[len(out)-4:], data[len(data)-4:]) {
			t.Fatal("expected original payload preserved")
		}
	})

	t.Run("already_present", func(t *testing.T) {
		data := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}

		out, added, err := EnsureJFIFAPP0(data, DpiPxPerInch, 96, 96)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if added {
			t.Fatal("expected no marker addition")
		}
		if !bytes.Equal(out, data) {
			t.Fatal("expected same bytes")
		}
	})

	t.Run("not_a_jpeg", func(t *testing.T) {
		if _, _, err := EnsureJFIFAPP0([]byte{0x00, 0x01, 0x02, 0x03}, DpiNoUnits, 0, 0); err == nil {
			t.Fatal("expected error on non-jpeg input")
		}
	})
}

func TestEncodeJPEGWithDPI(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))

	data, err := EncodeJPEGWithDPI(src, 75, DpiPxPerInch, 96, 96)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(data[2:4], []byte{0xFF, 0xE0}) {
		t.Fatal("expected JFIF APP0 marker in encoder output")
	}
	if _, err := jpeg.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("output does not decode: %v", err)
	}
}
