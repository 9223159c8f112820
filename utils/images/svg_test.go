package images

import "testing"

func TestRasterizeSVGToImage(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 50"><rect width="100" height="50"/></svg>`)

	cases := []struct {
		name    string
		targetW int
		targetH int
		wantW   int
		wantH   int
	}{
		{name: "intrinsic", wantW: 100, wantH: 50},
		{name: "scale_by_width", targetW: 200, wantW: 200, wantH: 100},
		{name: "scale_by_height", targetH: 200, wantW: 400, wantH: 200},
		{name: "fit_box", targetW: 150, targetH: 150, wantW: 150, wantH: 75},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			img, err := RasterizeSVGToImage(svg, tc.targetW, tc.targetH)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if img.Bounds().Dx() != tc.wantW || img.Bounds().Dy() != tc.wantH {
				t.Fatalf("unexpected bounds: %v", img.Bounds())
			}
		})
	}

	t.Run("clamps_huge_viewbox", func(t *testing.T) {
		huge := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100000 100000"><rect width="1" height="1"/></svg>`)
		img, err := RasterizeSVGToImage(huge, 0, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if img.Bounds().Dx() > maxRasterDim || img.Bounds().Dy() > maxRasterDim {
			t.Fatalf("raster size was not clamped: %v", img.Bounds())
		}
	})

	t.Run("garbage_input", func(t *testing.T) {
		if _, err := RasterizeSVGToImage([]byte("not svg at all"), 0, 0); err == nil {
			t.Fatal("expected error on garbage input")
		}
	})
}
