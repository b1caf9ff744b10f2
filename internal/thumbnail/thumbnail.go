// Package thumbnail derives bounded size PNG renderings of uploaded photos.
//
// Make is a pure function of its input bytes and the bounding box: the
// resampler and the PNG encoder configuration are fixed, so identical input
// always yields identical output.
package thumbnail

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"math"

	"github.com/lewtec/realtor/internal/apperrors"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxPixels bounds the decoded raster to keep a single upload from
// exhausting memory.
const MaxPixels = 64 << 20

// Box is the bounding box a thumbnail must fit in.
type Box struct {
	MaxWidth  int
	MaxHeight int
}

// DefaultBox is the 200x200 box listings use unless configured otherwise.
var DefaultBox = Box{MaxWidth: 200, MaxHeight: 200}

// Validate checks that both sides are positive.
func (b Box) Validate() error {
	if b.MaxWidth <= 0 || b.MaxHeight <= 0 {
		return fmt.Errorf("thumbnail box must be positive, got %dx%d", b.MaxWidth, b.MaxHeight)
	}
	return nil
}

var encoder = png.Encoder{CompressionLevel: png.DefaultCompression}

// Fit computes the size of an w x h image scaled into box, preserving the
// aspect ratio and never upscaling.
func Fit(w, h int, box Box) (int, int) {
	if w <= box.MaxWidth && h <= box.MaxHeight {
		return w, h
	}
	scale := math.Min(float64(box.MaxWidth)/float64(w), float64(box.MaxHeight)/float64(h))
	return clamp(int(math.Round(float64(w)*scale)), box.MaxWidth), clamp(int(math.Round(float64(h)*scale)), box.MaxHeight)
}

func clamp(v, max int) int {
	if v < 1 {
		return 1
	}
	if v > max {
		return max
	}
	return v
}

// Make decodes original (PNG, JPEG, GIF, WebP, BMP or TIFF) and returns a
// PNG that fits in box. Undecodable input yields a KindInvalidImageData
// error.
func Make(original []byte, box Box) ([]byte, error) {
	if err := box.Validate(); err != nil {
		return nil, apperrors.New(apperrors.KindInternal, "thumbnail", err)
	}
	if len(original) == 0 {
		return nil, apperrors.New(apperrors.KindInvalidImageData, "thumbnail decode", apperrors.ErrEmptyImage)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(original))
	if err != nil {
		return nil, apperrors.New(apperrors.KindInvalidImageData, "thumbnail decode", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > MaxPixels {
		return nil, apperrors.New(apperrors.KindInvalidImageData, "thumbnail decode",
			fmt.Errorf("unsupported dimensions %dx%d", cfg.Width, cfg.Height))
	}

	src, _, err := image.Decode(bytes.NewReader(original))
	if err != nil {
		return nil, apperrors.New(apperrors.KindInvalidImageData, "thumbnail decode", err)
	}

	srcB := src.Bounds()
	dstW, dstH := Fit(srcB.Dx(), srcB.Dy(), box)
	dst := image.NewNRGBA(image.Rect(0, 0, dstW, dstH))
	if dstW == srcB.Dx() && dstH == srcB.Dy() {
		xdraw.Draw(dst, dst.Bounds(), src, srcB.Min, xdraw.Src)
	} else {
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, srcB, xdraw.Src, nil)
	}

	var buf bytes.Buffer
	if err := encoder.Encode(&buf, dst); err != nil {
		return nil, apperrors.New(apperrors.KindInternal, "thumbnail encode", err)
	}
	return buf.Bytes(), nil
}
