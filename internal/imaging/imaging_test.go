package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/pawtrail/petmatch-backend/internal/domain"
)

func pngBytes(t *testing.T, c color.Color) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, c)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestDecode_PNG(t *testing.T) {
	t.Parallel()

	img, err := Decode(pngBytes(t, color.NRGBA{R: 200, G: 10, B: 10, A: 255}))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 8 {
		t.Errorf("bounds = %v, want 8x8", img.Bounds())
	}
}

func TestDecode_JPEG(t *testing.T) {
	t.Parallel()

	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}

	if _, err := Decode(buf.Bytes()); err != nil {
		t.Fatalf("Decode: %v", err)
	}
}

func TestDecode_FlattensAlpha(t *testing.T) {
	t.Parallel()

	// Fully transparent pixels must come out as opaque white.
	img, err := Decode(pngBytes(t, color.NRGBA{A: 0}))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	r, g, b, a := img.At(3, 3).RGBA()
	if a != 0xffff {
		t.Errorf("alpha = %#x, want opaque", a)
	}
	if r != 0xffff || g != 0xffff || b != 0xffff {
		t.Errorf("color = (%#x,%#x,%#x), want white", r, g, b)
	}
}

func TestDecode_InvalidBytes(t *testing.T) {
	t.Parallel()

	_, err := Decode([]byte("definitely not an image"))
	if !errors.Is(err, domain.ErrInvalidImage) {
		t.Fatalf("err = %v, want ErrInvalidImage", err)
	}
}

func TestDecode_Empty(t *testing.T) {
	t.Parallel()

	_, err := Decode(nil)
	if !errors.Is(err, domain.ErrInvalidImage) {
		t.Fatalf("err = %v, want ErrInvalidImage", err)
	}
}

func TestEncodeJPEG_RoundTrip(t *testing.T) {
	t.Parallel()

	img, err := Decode(pngBytes(t, color.NRGBA{R: 40, G: 120, B: 220, A: 255}))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	data, err := EncodeJPEG(img)
	if err != nil {
		t.Fatalf("EncodeJPEG: %v", err)
	}

	if _, err := Decode(data); err != nil {
		t.Fatalf("re-decode: %v", err)
	}
}
