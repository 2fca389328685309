package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
)

// TesseractEngine implements Engine using the gosseract client.
// A fresh client is created per call; gosseract clients are not safe for
// concurrent use.
type TesseractEngine struct {
	clientFactory func() *gosseract.Client
	languages     []string
}

// NewTesseractEngine constructs a Tesseract-backed OCR engine with optional
// language hints (e.g. "eng", "deu").
func NewTesseractEngine(languages ...string) *TesseractEngine {
	return &TesseractEngine{
		clientFactory: gosseract.NewClient,
		languages:     languages,
	}
}

func (e *TesseractEngine) Name() string { return "tesseract" }

// Recognize performs OCR on a single image. The image is PNG-encoded in
// memory before being handed to Tesseract.
func (e *TesseractEngine) Recognize(ctx context.Context, img image.Image) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	if len(e.languages) > 0 {
		if err := c.SetLanguage(e.languages...); err != nil {
			return "", fmt.Errorf("set languages: %w", err)
		}
	}

	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return text, nil
}
