package extract

import (
	"bytes"
	"context"
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder

	"ocragent/internal/model"
	"ocragent/internal/ocr"
)

// imageExtractor decodes a single raster image and OCRs it. The result is
// always exactly one page numbered 1.
type imageExtractor struct {
	engine ocr.Engine
}

func (e *imageExtractor) Extract(ctx context.Context, data []byte) ([]model.Page, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &ExtractionError{Stage: "image", Cause: err}
	}

	text, err := ocr.Run(ctx, e.engine, img)
	if err != nil {
		return nil, &ExtractionError{Stage: "image ocr", Cause: err}
	}

	return []model.Page{{PageNumber: 1, Text: text}}, nil
}
