package extract

import (
	"context"
	"strings"

	"github.com/gen2brain/go-fitz"

	"ocragent/internal/model"
	"ocragent/internal/ocr"
)

// rasterDPI is the target resolution for pages that need OCR. PDF units are
// 72 DPI, so rendering at 300 DPI scales pages by 300/72.
const rasterDPI = 300

// pdfExtractor implements the hybrid strategy: trust the embedded text layer
// when a page has one, rasterize and OCR when it does not. The decision is
// per-page, so a scanned page in an otherwise-digital PDF still gets OCR
// while its siblings do not.
type pdfExtractor struct {
	engine ocr.Engine
}

func (e *pdfExtractor) Extract(ctx context.Context, data []byte) ([]model.Page, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, &ExtractionError{Stage: "pdf", Cause: err}
	}
	defer doc.Close()

	n := doc.NumPage()
	pages := make([]model.Page, 0, n)
	for i := 0; i < n; i++ {
		text, err := doc.Text(i)
		if err != nil {
			// Malformed text layer: fall through to OCR.
			text = ""
		}
		text = strings.TrimSpace(text)

		if text == "" {
			img, err := doc.ImageDPI(i, rasterDPI)
			if err != nil {
				return nil, &ExtractionError{Stage: "pdf render", Cause: err}
			}
			text, err = ocr.Run(ctx, e.engine, img)
			if err != nil {
				return nil, &ExtractionError{Stage: "pdf ocr", Cause: err}
			}
		}

		pages = append(pages, model.Page{PageNumber: i + 1, Text: text})
	}
	return pages, nil
}
