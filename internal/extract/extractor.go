// Package extract contains the per-format text extraction strategies and the
// extension-based dispatch that selects between them.
package extract

import (
	"context"
	"strings"

	"ocragent/internal/model"
	"ocragent/internal/ocr"
)

// TextExtractor produces the ordered per-page text of one document.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte) ([]model.Page, error)
}

// Dispatcher resolves a declared filename to the extraction strategy for its
// extension. Strategies share the injected OCR engine.
type Dispatcher struct {
	pdf   TextExtractor
	image TextExtractor
	docx  TextExtractor
}

// NewDispatcher builds a dispatcher whose OCR-dependent strategies use the
// given engine.
func NewDispatcher(engine ocr.Engine) *Dispatcher {
	return &Dispatcher{
		pdf:   &pdfExtractor{engine: engine},
		image: &imageExtractor{engine: engine},
		docx:  &docxExtractor{},
	}
}

// ExtensionOf returns the lowercased substring after the last dot of the
// filename, or "unknown" for filenames without a dot.
func ExtensionOf(filename string) string {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return "unknown"
	}
	return strings.ToLower(filename[i+1:])
}

// ForFilename selects the strategy for the filename's extension. Unknown
// extensions yield an UnsupportedFormatError carrying the extension.
func (d *Dispatcher) ForFilename(filename string) (TextExtractor, error) {
	ext := ExtensionOf(filename)
	switch ext {
	case "pdf":
		return d.pdf, nil
	case "jpg", "jpeg", "png", "bmp", "tif", "tiff":
		return d.image, nil
	case "docx":
		return d.docx, nil
	default:
		if ext == "" {
			ext = "unknown"
		}
		return nil, &UnsupportedFormatError{Ext: ext}
	}
}
