package content

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"mime"
	"strings"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"dxc/config"
	"dxc/docx"
	"dxc/jpegquality"
	"dxc/utils/images"
)

// ImageDim is the intrinsic pixel size of a decoded image.
type ImageDim struct {
	Width, Height int
}

// Image is one processed media part ready for output.
type Image struct {
	RelID    string
	PartName string // source part inside the package
	Filename string // output file name
	MimeType string
	Data     []byte
	Dim      ImageDim
}

// ImageIndex maps relationship ids to processed images. Only media actually
// referenced from the document body gets in.
type ImageIndex map[string]*Image

// mimeToExt returns file extension for common image MIME types
func mimeToExt(mimeType string) string {
	// Handle common types directly to prefer standard extensions
	switch strings.ToLower(mimeType) {
	case "image/jpeg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/bmp":
		return "bmp"
	case "image/svg+xml":
		return "svg"
	case "image/webp":
		return "webp"
	case "image/tiff":
		return "tiff"
	}
	// Fallback to mime package for other types
	exts, err := mime.ExtensionsByType(mimeType)
	if err == nil && len(exts) > 0 {
		return strings.TrimPrefix(exts[0], ".")
	}
	return "img"
}

// collectImageRefs gathers drawing references in document order, descending
// into table cells.
func collectImageRefs(blocks []docx.Block) []docx.ImageRef {
	var refs []docx.ImageRef
	for _, b := range blocks {
		switch blk := b.(type) {
		case *docx.Paragraph:
			for _, r := range blk.Runs {
				refs = append(refs, r.Images...)
			}
		case *docx.Table:
			for _, row := range blk.Rows {
				for _, cell := range row.Cells {
					refs = append(refs, collectImageRefs(cell.Blocks)...)
				}
			}
		}
	}
	return refs
}

// prepareImages loads and processes every media part the document body
// references. Never returns an error - media that cannot be used is dropped
// from the index and the corresponding drawing is simply not rendered.
func prepareImages(pkg *docx.Container, doc *docx.Document, cfg *config.ImagesConfig, log *zap.Logger) ImageIndex {
	index := make(ImageIndex)

	imgNum := 1
	for _, ref := range collectImageRefs(doc.Blocks) {
		if _, exists := index[ref.RelID]; exists {
			continue
		}

		target := doc.Rels.TargetOf(ref.RelID)
		if target == "" {
			log.Warn("Image relationship not found, skipping", zap.String("rel_id", ref.RelID))
			continue
		}

		partName := docx.ResolvePartPath(docx.PartDocument, target)
		data, err := pkg.Part(partName)
		if err != nil {
			log.Warn("Unable to read image part, skipping", zap.String("rel_id", ref.RelID), zap.String("part", partName), zap.Error(err))
			continue
		}

		img := processImage(ref.RelID, partName, data, cfg, log)
		if img == nil {
			continue
		}

		img.Filename = fmt.Sprintf("img%05d.%s", imgNum, mimeToExt(img.MimeType))
		imgNum++
		index[ref.RelID] = img
	}
	return index
}

// rasterProcessingRequested reports whether any configured step needs decoded
// pixels. When nothing does, vector media can pass through untouched.
func rasterProcessingRequested(cfg *config.ImagesConfig) bool {
	if cfg.Resize != config.ImageResizeModeNone && cfg.Width > 0 && cfg.Height > 0 {
		return true
	}
	if cfg.ScaleFactor > 0.0 && cfg.ScaleFactor != 1.0 {
		return true
	}
	return cfg.Grayscale
}

// processImage performs required image modifications leaving original data
// intact if no changes were requested. If image is decodable it will always
// normalize the mime type.
func processImage(relID, partName string, data []byte, cfg *config.ImagesConfig, log *zap.Logger) *Image {

	bi := &Image{
		RelID:    relID,
		PartName: partName,
		Data:     data,
	}

	// SVG passes through untouched unless raster processing was requested,
	// then it gets rasterized first.
	if strings.HasSuffix(strings.ToLower(partName), ".svg") {
		if !rasterProcessingRequested(cfg) {
			bi.MimeType = "image/svg+xml"
			return bi
		}
		img, err := images.RasterizeSVGToImage(data, 0, 0)
		if err != nil {
			log.Warn("Unable to rasterize SVG image, skipping", zap.String("rel_id", relID), zap.Error(err))
			return nil
		}
		buf := new(bytes.Buffer)
		if err := imaging.Encode(buf, img, imaging.PNG); err != nil {
			log.Warn("Unable to encode rasterized SVG, skipping", zap.String("rel_id", relID), zap.Error(err))
			return nil
		}
		log.Debug("Rasterized SVG image for processing", zap.String("rel_id", relID))
		data = buf.Bytes()
		bi.Data = data
	}

	imageChanged := false
	img, imgType, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		log.Warn("Unable to decode image, skipping", zap.String("rel_id", relID), zap.String("part", partName), zap.Error(err))
		return nil
	}
	bi.MimeType = mime.TypeByExtension("." + imgType)
	bi.Dim.Width = img.Bounds().Dx()
	bi.Dim.Height = img.Bounds().Dy()

	// Scaling
	if cfg.ScaleFactor > 0.0 && cfg.ScaleFactor != 1.0 {
		if imgType == "png" || imgType == "jpeg" {
			resizedImg := imaging.Resize(img, 0, int(float64(img.Bounds().Dy())*cfg.ScaleFactor), imaging.Linear)
			if resizedImg == nil {
				log.Warn("Unable to scale image", zap.String("rel_id", relID))
				return bi
			}
			img = resizedImg
			bi.Dim.Width = img.Bounds().Dx()
			bi.Dim.Height = img.Bounds().Dy()
			imageChanged = true
		}
	}

	// Fitting into configured bounds
	if cfg.Width > 0 && cfg.Height > 0 {
		switch cfg.Resize {
		case config.ImageResizeModeNone:
		case config.ImageResizeModeKeepAR:
			if img.Bounds().Dx() <= cfg.Width && img.Bounds().Dy() <= cfg.Height {
				break
			}
			resizedImg := imaging.Fit(img, cfg.Width, cfg.Height, imaging.Lanczos)
			if resizedImg == nil {
				log.Warn("Unable to resize image", zap.String("rel_id", relID))
				return bi
			}
			img = resizedImg
			bi.Dim.Width = img.Bounds().Dx()
			bi.Dim.Height = img.Bounds().Dy()
			imageChanged = true
		case config.ImageResizeModeStretch:
			resizedImg := imaging.Resize(img, cfg.Width, cfg.Height, imaging.Lanczos)
			if resizedImg == nil {
				log.Warn("Unable to resize image", zap.String("rel_id", relID))
				return bi
			}
			img = resizedImg
			bi.Dim.Width = img.Bounds().Dx()
			bi.Dim.Height = img.Bounds().Dy()
			imageChanged = true
		}
	}

	// Grayscale conversion
	if cfg.Grayscale && !images.IsGrayscale(img) {
		log.Debug("Converting image to grayscale", zap.String("rel_id", relID))
		img = imaging.Grayscale(img)
		imageChanged = true
	}

	// PNG transparency
	if cfg.RemovePNGTransparency {
		if imgType == "png" {
			opaque := func(im image.Image) bool {
				if oimg, ok := im.(interface{ Opaque() bool }); ok {
					return oimg.Opaque()
				}
				return true
			}(img)

			if !opaque {
				log.Debug("Removing PNG transparency", zap.String("rel_id", relID))
				opaqueImg := image.NewRGBA(img.Bounds())
				draw.Draw(opaqueImg, img.Bounds(), &image.Uniform{C: color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)
				draw.Draw(opaqueImg, img.Bounds(), img, image.Point{}, draw.Over)
				img = opaqueImg
				imageChanged = true
			}
		}
	}

	// Compression & image quality
	if cfg.Optimize {
		switch imgType {
		case "jpeg":
			jr, err := jpegquality.NewWithBytes(data)
			if err != nil {
				log.Warn("Unable to detect JPEG quality level, skipping...", zap.String("rel_id", relID), zap.Error(err))
				break
			}

			q := jr.Quality()
			if q <= cfg.JPEGQuality {
				log.Debug("JPEG quality level already lower than requested, skipping...",
					zap.String("rel_id", relID), zap.Int("detected", q), zap.Int("requested", cfg.JPEGQuality))
				break
			}

			log.Debug("JPEG quality level higher than requested, reencoding...",
				zap.String("rel_id", relID), zap.Int("detected", q), zap.Int("requested", cfg.JPEGQuality))

			imageChanged = true
		case "png":
			imageChanged = true
		}
	}

	if !imageChanged {
		return bi
	}

	encoded, err := encodeImage(img, imgType, relID, cfg, log)
	if err != nil {
		log.Warn("Unable to encode image, keeping original", zap.String("rel_id", relID), zap.Error(err))
		return bi
	}
	if encoded != nil {
		bi.Data = encoded
	}

	return bi
}

func encodeImage(img image.Image, imgType, relID string, cfg *config.ImagesConfig, log *zap.Logger) ([]byte, error) {
	switch imgType {
	case "png":
		buf := new(bytes.Buffer)
		if err := imaging.Encode(buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
			return nil, fmt.Errorf("unable to encode processed PNG %s: %w", relID, err)
		}
		return buf.Bytes(), nil
	case "jpeg":
		data, err := images.EncodeJPEGWithDPI(img, cfg.JPEGQuality, images.DpiPxPerInch, 96, 96)
		if err != nil {
			return nil, fmt.Errorf("unable to encode processed JPEG %s: %w", relID, err)
		}
		return data, nil
	default:
		// Processing is only applied to png and jpeg, everything else keeps
		// its original bytes.
		log.Warn("Unable to process image - unsupported format, keeping as is", zap.String("rel_id", relID), zap.String("type", imgType))
		return nil, nil
	}
}
