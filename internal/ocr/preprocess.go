package ocr

import (
	"image"

	"golang.org/x/image/draw"
)

// minLongSide is the floor for the longer image dimension. Images below it
// are upscaled so their longer side becomes exactly this many pixels;
// larger images are never touched.
const minLongSide = 1000

// sharpenKernel is a standard 3x3 edge-enhancement kernel. It counteracts
// the blur introduced by upscaling.
var sharpenKernel = [9]int32{
	0, -1, 0,
	-1, 5, -1,
	0, -1, 0,
}

// Preprocess normalizes an image before OCR. Applied unconditionally and in
// this order: grayscale, upscale to the long-side floor, auto-contrast
// stretch, sharpen. Low-resolution and low-contrast scans are the dominant
// failure mode for recognition accuracy.
func Preprocess(img image.Image) image.Image {
	gray := toGray(img)
	gray = upscale(gray)
	gray = autoContrast(gray)
	return sharpen(gray)
}

func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	gray := image.NewGray(b)
	draw.Draw(gray, b, img, b.Min, draw.Src)
	return gray
}

// upscale resizes isotropically so the longer dimension equals minLongSide.
// Images already at or above the floor are returned as-is.
func upscale(img *image.Gray) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	long := w
	if h > long {
		long = h
	}
	if long >= minLongSide || long == 0 {
		return img
	}

	scale := float64(minLongSide) / float64(long)
	dw, dh := int(float64(w)*scale), int(float64(h)*scale)
	if w >= h {
		dw = minLongSide
	} else {
		dh = minLongSide
	}

	dst := image.NewGray(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// autoContrast maps the observed min/max intensity to the full 0..255 range.
func autoContrast(img *image.Gray) *image.Gray {
	if len(img.Pix) == 0 {
		return img
	}

	lo, hi := uint8(255), uint8(0)
	for _, p := range img.Pix {
		if p < lo {
			lo = p
		}
		if p > hi {
			hi = p
		}
	}
	if lo == 0 && hi == 255 {
		return img
	}
	if lo >= hi {
		// Flat image, nothing to stretch.
		return img
	}

	out := image.NewGray(img.Bounds())
	span := int(hi) - int(lo)
	for i, p := range img.Pix {
		out.Pix[i] = uint8((int(p) - int(lo)) * 255 / span)
	}
	return out
}

// sharpen applies the 3x3 edge-enhancement kernel. Border pixels are copied
// unmodified.
func sharpen(img *image.Gray) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 3 || h < 3 {
		return img
	}

	out := image.NewGray(b)
	copy(out.Pix, img.Pix)

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			var sum int32
			k := 0
			for dy := -1; dy <= 1; dy++ {
				row := (y+dy)*img.Stride + x - 1
				for dx := 0; dx < 3; dx++ {
					sum += sharpenKernel[k] * int32(img.Pix[row+dx])
					k++
				}
			}
			if sum < 0 {
				sum = 0
			} else if sum > 255 {
				sum = 255
			}
			out.Pix[y*out.Stride+x] = uint8(sum)
		}
	}
	return out
}
