// Package imageprep turns uploaded image bytes into model input tensors.
package imageprep

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register decoder

	"github.com/kailas-cloud/dogreid/internal/domain"
)

// DefaultSize is the square input edge of ResNet-style models.
const DefaultSize = 224

// ImageNet channel statistics the backbone was trained with.
var (
	mean = [3]float32{0.485, 0.456, 0.406}
	std  = [3]float32{0.229, 0.224, 0.225}
)

// MaxPixels caps Width*Height of an upload. Compressed formats can declare
// dimensions far larger than their byte size, so the header is checked before
// any pixel buffer is allocated.
const MaxPixels = 50_000_000

// Decode parses jpeg, png, gif or webp bytes.
// Any failure, including an image above MaxPixels, maps to domain.ErrInvalidImage.
func Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("empty upload: %w", domain.ErrInvalidImage)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrInvalidImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", fmt.Errorf("zero-sized image: %w", domain.ErrInvalidImage)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, "", fmt.Errorf("%dx%d exceeds %d pixels: %w",
			cfg.Width, cfg.Height, MaxPixels, domain.ErrInvalidImage)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrInvalidImage, err)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, "", fmt.Errorf("zero-sized image: %w", domain.ErrInvalidImage)
	}
	return img, format, nil
}

// Tensor resizes img to size x size with bilinear filtering and writes
// normalised CHW float32 values into dst, which must hold 3*size*size values.
func Tensor(img image.Image, size int, dst []float32) error {
	if size <= 0 {
		return fmt.Errorf("invalid tensor size %d", size)
	}
	plane := size * size
	if len(dst) != 3*plane {
		return fmt.Errorf("tensor buffer has %d values, need %d", len(dst), 3*plane)
	}

	rgb := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.BiLinear.Scale(rgb, rgb.Bounds(), dropAlpha(img), img.Bounds(), draw.Src, nil)

	for y := 0; y < size; y++ {
		row := rgb.Pix[y*rgb.Stride:]
		for x := 0; x < size; x++ {
			px := row[x*4:]
			i := y*size + x
			for c := 0; c < 3; c++ {
				v := float32(px[c]) / 255
				dst[c*plane+i] = (v - mean[c]) / std[c]
			}
		}
	}
	return nil
}

// dropAlpha returns img with every pixel made opaque at its non-premultiplied
// colour. Scaling a translucent source directly would blend towards black.
func dropAlpha(img image.Image) image.Image {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return img
	}
	return opaque{img}
}

type opaque struct{ image.Image }

func (opaque) ColorModel() color.Model { return color.NRGBAModel }

func (o opaque) At(x, y int) color.Color {
	c := color.NRGBAModel.Convert(o.Image.At(x, y)).(color.NRGBA)
	c.A = 0xff
	return c
}
