// Package ocr wraps the OCR engine behind an injectable interface and applies
// the deterministic image preprocessing pipeline that precedes every
// recognition call.
package ocr

import (
	"context"
	"image"
	"strings"
)

// Engine is the OCR provider contract: one image in, recognized text out.
// Implementations receive the already-preprocessed image.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, img image.Image) (string, error)
}

// Run preprocesses the image, hands it to the engine and returns the
// recognized text with leading/trailing whitespace trimmed.
func Run(ctx context.Context, engine Engine, img image.Image) (string, error) {
	text, err := engine.Recognize(ctx, Preprocess(img))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
