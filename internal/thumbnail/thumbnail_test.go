package thumbnail

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"testing"

	"github.com/lewtec/realtor/internal/apperrors"
)

func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: uint8(x + y), A: 0xff})
		}
	}
	return img
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, gradient(w, h)); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, gradient(w, h), nil); err != nil {
		t.Fatalf("failed to encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func decodeSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("thumbnail is not decodable: %v", err)
	}
	if format != "png" {
		t.Errorf("format = %v, want png", format)
	}
	return cfg.Width, cfg.Height
}

func TestFit(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		box          Box
		wantW, wantH int
	}{
		{"landscape", 800, 600, DefaultBox, 200, 150},
		{"portrait", 600, 800, DefaultBox, 150, 200},
		{"square", 1000, 1000, DefaultBox, 200, 200},
		{"already fits", 100, 50, DefaultBox, 100, 50},
		{"exact box", 200, 200, DefaultBox, 200, 200},
		{"one side too large", 300, 10, DefaultBox, 200, 7},
		{"thin strip never collapses", 10000, 1, DefaultBox, 200, 1},
		{"rectangular box", 400, 400, Box{MaxWidth: 100, MaxHeight: 50}, 50, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotW, gotH := Fit(tt.w, tt.h, tt.box)
			if gotW != tt.wantW || gotH != tt.wantH {
				t.Errorf("Fit(%d, %d) = %dx%d, want %dx%d", tt.w, tt.h, gotW, gotH, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestMake(t *testing.T) {
	t.Run("downscales into the box keeping aspect ratio", func(t *testing.T) {
		out, err := Make(pngBytes(t, 800, 600), DefaultBox)
		if err != nil {
			t.Fatalf("Make() error = %v", err)
		}
		w, h := decodeSize(t, out)
		if w > 200 || h > 200 {
			t.Errorf("size = %dx%d exceeds box", w, h)
		}
		if math.Abs(float64(w)/float64(h)-800.0/600.0) > 0.02 {
			t.Errorf("aspect ratio = %v, want %v", float64(w)/float64(h), 800.0/600.0)
		}
	})

	t.Run("never upscales", func(t *testing.T) {
		out, err := Make(pngBytes(t, 100, 50), DefaultBox)
		if err != nil {
			t.Fatalf("Make() error = %v", err)
		}
		w, h := decodeSize(t, out)
		if w != 100 || h != 50 {
			t.Errorf("size = %dx%d, want 100x50", w, h)
		}
	})

	t.Run("accepts jpeg and emits png", func(t *testing.T) {
		out, err := Make(jpegBytes(t, 640, 480), DefaultBox)
		if err != nil {
			t.Fatalf("Make() error = %v", err)
		}
		w, h := decodeSize(t, out)
		if w != 200 || h != 150 {
			t.Errorf("size = %dx%d, want 200x150", w, h)
		}
	})

	t.Run("is deterministic", func(t *testing.T) {
		in := pngBytes(t, 333, 517)
		a, err := Make(in, DefaultBox)
		if err != nil {
			t.Fatalf("Make() error = %v", err)
		}
		b, err := Make(in, DefaultBox)
		if err != nil {
			t.Fatalf("Make() error = %v", err)
		}
		if !bytes.Equal(a, b) {
			t.Error("two runs produced different bytes")
		}
	})

	t.Run("rejects undecodable input", func(t *testing.T) {
		for name, in := range map[string][]byte{
			"empty":     {},
			"text":      []byte("definitely not an image"),
			"truncated": pngBytes(t, 50, 50)[:40],
		} {
			_, err := Make(in, DefaultBox)
			if !apperrors.Is(err, apperrors.KindInvalidImageData) {
				t.Errorf("%s: kind = %v, want %v", name, apperrors.KindOf(err), apperrors.KindInvalidImageData)
			}
		}
	})

	t.Run("rejects an invalid box", func(t *testing.T) {
		if _, err := Make(pngBytes(t, 10, 10), Box{}); err == nil {
			t.Error("expected error for zero box")
		}
	})
}
